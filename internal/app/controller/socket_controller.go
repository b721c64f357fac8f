package controller

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/ikkim/dealer-admin-backend/internal/app/service"
	"github.com/ikkim/dealer-admin-backend/internal/middleware"
	ws "github.com/ikkim/dealer-admin-backend/internal/websocket"
)

type SocketController struct {
	dealerService service.DealerService
	hub           *ws.Hub
	pageSize      int
	upgrader      websocket.Upgrader
}

func NewSocketController(dealerService service.DealerService, hub *ws.Hub, pageSize int, allowedOrigins []string) *SocketController {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[origin] = true
	}

	return &SocketController{
		dealerService: dealerService,
		hub:           hub,
		pageSize:      pageSize,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowed["*"] || allowed[origin]
			},
		},
	}
}

// Connect upgrades to a WebSocket with its own dashboard session.
func (ctrl *SocketController) Connect(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	conn, err := ctrl.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("Failed to upgrade to WebSocket", err)
		return
	}

	client := &ws.Client{
		ID:            uuid.NewString(),
		Hub:           ctrl.hub,
		Conn:          &ws.Conn{Conn: conn},
		Send:          make(chan []byte, 256),
		Dashboard:     service.NewDashboard(ctrl.dealerService, ctrl.pageSize),
		LastResetTime: time.Now(),
	}

	ctrl.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()

	log.Info("WebSocket connection established", map[string]interface{}{
		"client_id": client.ID,
	})
}
