package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	gorillaws "github.com/gorilla/websocket"

	"github.com/suitloom/suitloom-backend/internal/middleware"
	ws "github.com/suitloom/suitloom-backend/internal/websocket"
)

type WSController struct {
	hub            *ws.Hub
	allowedOrigins []string
}

func NewWSController(hub *ws.Hub, allowedOrigins []string) *WSController {
	return &WSController{
		hub:            hub,
		allowedOrigins: allowedOrigins,
	}
}

func (ctrl *WSController) upgrader() gorillaws.Upgrader {
	return gorillaws.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				// 브라우저 외 클라이언트 (테스트 포함)
				return true
			}
			for _, allowed := range ctrl.allowedOrigins {
				if origin == allowed {
					return true
				}
			}
			return false
		},
	}
}

// Connect upgrades the connection and streams pipeline events for the session
// GET /api/v1/ws
func (ctrl *WSController) Connect(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	sessionID, _ := middleware.GetSessionID(c)

	upgrader := ctrl.upgrader()
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("Failed to upgrade websocket", err, map[string]interface{}{
			"session_id": sessionID,
		})
		return
	}

	client := &ws.Client{
		Hub:       ctrl.hub,
		Conn:      &ws.Conn{Conn: conn},
		SessionID: sessionID,
		Send:      make(chan []byte, 2048),
	}

	ctrl.hub.Register(client)

	log.Info("WebSocket connected", map[string]interface{}{
		"session_id": sessionID,
	})

	go client.WritePump()
	go client.ReadPump()
}
