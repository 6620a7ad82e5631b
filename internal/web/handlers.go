package web

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tofabd/call-center-shajgoj-sub000/internal/engine"
	"github.com/tofabd/call-center-shajgoj-sub000/internal/logger"
	"github.com/tofabd/call-center-shajgoj-sub000/internal/models"
)

// GetCallMonitor returns the active-call monitor view.
func GetCallMonitor(eng *engine.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		calls := eng.ActiveCalls()
		c.JSON(http.StatusOK, gin.H{
			"calls":     newCallViews(calls),
			"count":     len(calls),
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}
}

// GetCallHistory returns the completed-calls view, newest first.
func GetCallHistory(eng *engine.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		calls := eng.CompletedCalls()
		c.JSON(http.StatusOK, gin.H{
			"calls":     newCallViews(calls),
			"count":     len(calls),
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}
}

// GetCallGroups returns the per-caller grouped view.
func GetCallGroups(eng *engine.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		groups := eng.CallGroups()
		views := make([]GroupView, 0, len(groups))
		for _, g := range groups {
			views = append(views, GroupView{
				Key:            g.Key,
				Frequency:      g.Frequency,
				Representative: newCallView(g.Representative),
				Members:        newCallViews(g.Members),
			})
		}
		c.JSON(http.StatusOK, gin.H{
			"groups": views,
			"count":  len(views),
		})
	}
}

// GetExtensions returns the extension directory view, filtered for display.
func GetExtensions(eng *engine.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		now := time.Now()
		all := eng.Extensions()

		views := make([]ExtensionView, 0, len(all))
		for _, rec := range all {
			if !displayableExtension(rec) {
				continue
			}
			views = append(views, newExtensionView(rec, now))
		}

		c.JSON(http.StatusOK, gin.H{
			"extensions": views,
			"count":      len(views),
		})
	}
}

// GetSystemHealth returns the connection classification and refresh state.
func GetSystemHealth(eng *engine.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := eng.ConnectionHealth()
		r := eng.RefreshState()

		status := "operational"
		if h.Status != models.ConnectionConnected || r.LastError != "" {
			status = "degraded"
		}

		c.JSON(http.StatusOK, gin.H{
			"status":     status,
			"connection": h,
			"refresh":    r,
			"timestamp":  time.Now().UTC().Format(time.RFC3339),
		})
	}
}

// TriggerRefresh requests an immediate resync. Idempotent: invoking it while
// a cycle is pending supersedes that cycle rather than stacking another.
func TriggerRefresh(eng *engine.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		if eng.Scheduler == nil {
			c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{Error: "scheduler not running"})
			return
		}
		eng.Scheduler.RefreshNow()
		logger.WebLog.Info("Manual refresh requested")
		c.JSON(http.StatusAccepted, gin.H{"status": "refreshing"})
	}
}

// SetVisibility reports foreground/background state of the console tab.
func SetVisibility(eng *engine.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body struct {
			Visible *bool `json:"visible"`
		}
		if err := c.ShouldBindJSON(&body); err != nil || body.Visible == nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "visible field is required"})
			return
		}
		if eng.Scheduler != nil {
			eng.Scheduler.SetVisible(*body.Visible)
		}
		c.JSON(http.StatusOK, gin.H{"visible": *body.Visible})
	}
}
