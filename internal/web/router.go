package web

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tofabd/call-center-shajgoj-sub000/internal/engine"
	"github.com/tofabd/call-center-shajgoj-sub000/internal/logger"
)

// InitRouter initializes the console-facing API router.
func InitRouter(router *gin.Engine, eng *engine.Engine) {
	v1 := router.Group("/api/v1")
	{
		// Health check
		v1.GET("/health", healthCheck())

		// Live call views
		calls := v1.Group("/calls")
		{
			calls.GET("/monitor", GetCallMonitor(eng))
			calls.GET("/history", GetCallHistory(eng))
			calls.GET("/groups", GetCallGroups(eng))
		}

		// Extension directory
		v1.GET("/extensions", GetExtensions(eng))

		// System state
		system := v1.Group("/system")
		{
			system.GET("/health", GetSystemHealth(eng))
		}

		// Refresh controls
		v1.POST("/refresh", TriggerRefresh(eng))
		v1.POST("/visibility", SetVisibility(eng))
	}

	// WebSocket endpoint for live view updates
	router.GET("/ws", LiveViewHandler(eng))
}

func healthCheck() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}
}

// LoggerMiddleware creates a logger middleware for Gin
func LoggerMiddleware() gin.HandlerFunc {
	return gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		var statusColor, methodColor, resetColor string
		if param.IsOutputColor() {
			statusColor = param.StatusCodeColor()
			methodColor = param.MethodColor()
			resetColor = param.ResetColor()
		}

		if param.Latency > time.Minute {
			param.Latency = param.Latency - param.Latency%time.Second
		}

		logger.HTTPLog.Infof("%s %3d %s| %13v | %15s |%s %-7s %s %#v",
			statusColor, param.StatusCode, resetColor,
			param.Latency,
			param.ClientIP,
			methodColor, param.Method, resetColor,
			param.Path,
		)

		return ""
	})
}

// CORSMiddleware creates a CORS middleware
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		// Allow all origins in development, restrict in production
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		} else {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		}

		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		c.Writer.Header().Set("Access-Control-Max-Age", "86400")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
