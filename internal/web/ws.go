package web

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/tofabd/call-center-shajgoj-sub000/internal/engine"
	"github.com/tofabd/call-center-shajgoj-sub000/internal/logger"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins in development, restrict in production
		return true
	},
}

// LiveViewHandler streams the monitor, directory and health state to the
// console over a websocket so the panels update without polling.
func LiveViewHandler(eng *engine.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.WebLog.Errorf("WebSocket upgrade failed: %v", err)
			return
		}
		defer conn.Close()

		subscriberID := uuid.NewString()[:8]
		logger.WebLog.Infof("Live view subscriber %s connected from %s", subscriberID, c.ClientIP())

		conn.WriteJSON(gin.H{
			"type":       "connected",
			"subscriber": subscriberID,
		})

		ticker := time.NewTicker(5 * time.Second)
		defer ticker.Stop()

		// Drain client messages so pings are answered and closes detected.
		clientGone := make(chan struct{})
		go func() {
			defer close(clientGone)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
						logger.WebLog.Errorf("Live view subscriber %s read error: %v", subscriberID, err)
					}
					return
				}
			}
		}()

		for {
			select {
			case <-ticker.C:
				update := gin.H{
					"type": "state_update",
					"data": gin.H{
						"monitor":    newCallViews(eng.ActiveCalls()),
						"health":     eng.ConnectionHealth(),
						"refresh":    eng.RefreshState(),
						"extensions": len(eng.Extensions()),
						"timestamp":  time.Now().UTC().Format(time.RFC3339),
					},
				}
				if err := conn.WriteJSON(update); err != nil {
					logger.WebLog.Debugf("Live view subscriber %s write error: %v", subscriberID, err)
					return
				}

			case <-clientGone:
				logger.WebLog.Infof("Live view subscriber %s disconnected", subscriberID)
				return
			}
		}
	}
}
