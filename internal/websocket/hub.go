package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/ikkim/dealer-admin-backend/internal/app/service"
	apperrors "github.com/ikkim/dealer-admin-backend/internal/errors"
	"github.com/ikkim/dealer-admin-backend/pkg/logger"
)

const (
	// Rate limiting: 최대 메시지 수 (1초당)
	maxMessagesPerSecond = 10

	// 대시보드 intent 처리 제한 시간
	intentTimeout = 5 * time.Second
)

// ClientMessage 클라이언트로부터 받은 dashboard intent
type ClientMessage struct {
	Type     string `json:"type"` // search, page, page_size, refresh
	Search   string `json:"search"`
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
}

// ViewMessage intent에 대한 응답
type ViewMessage struct {
	Type string              `json:"type"` // view
	View *service.DealerView `json:"view"`
}

// ErrorMessage intent 처리 실패 응답
type ErrorMessage struct {
	Type    string `json:"type"` // error
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Client WebSocket 클라이언트. 연결마다 자기 대시보드 세션을 가진다.
type Client struct {
	ID            string
	Hub           *Hub
	Conn          *Conn
	Send          chan []byte
	Dashboard     *service.Dashboard
	MessageCount  int       // 최근 1초간 받은 메시지 수
	LastResetTime time.Time // 마지막 카운터 리셋 시간
	RateMu        sync.Mutex
}

// Hub WebSocket 연결 관리자
type Hub struct {
	clients map[string]*Client

	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	stop       chan struct{}

	mu sync.RWMutex
}

// NewHub Hub 생성
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client, 256),
		unregister: make(chan *Client, 256),
		broadcast:  make(chan []byte, 1024),
		stop:       make(chan struct{}),
	}
}

// Run Hub 실행. Stop이 호출될 때까지 블록된다.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			total := len(h.clients)
			h.mu.Unlock()
			logger.Info("WebSocket client registered", map[string]interface{}{
				"client_id":     client.ID,
				"total_clients": total,
			})

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.ID]; ok {
				delete(h.clients, client.ID)
				close(client.Send)
			}
			total := len(h.clients)
			h.mu.Unlock()
			logger.Info("WebSocket client unregistered", map[string]interface{}{
				"client_id":     client.ID,
				"total_clients": total,
			})

		case message := <-h.broadcast:
			h.mu.RLock()
			for _, client := range h.clients {
				select {
				case client.Send <- message:
				default:
					// Send 채널이 막혀있음 - 비동기로 정리
					go h.Unregister(client)
					logger.Warn("Client send buffer full, disconnecting", map[string]interface{}{
						"client_id": client.ID,
					})
				}
			}
			h.mu.RUnlock()

		case <-h.stop:
			h.mu.Lock()
			for id, client := range h.clients {
				close(client.Send)
				delete(h.clients, id)
			}
			h.mu.Unlock()
			return
		}
	}
}

// Stop Run 루프 종료, 남은 클라이언트 채널을 닫는다
func (h *Hub) Stop() {
	close(h.stop)
}

// Publish 딜러 변경 이벤트를 모든 클라이언트에 전송 (service.EventPublisher)
func (h *Hub) Publish(event service.DealerEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		logger.Error("Failed to marshal dealer event", err, nil)
		return
	}

	select {
	case h.broadcast <- data:
	default:
		// 메시지 손실을 허용 (클라이언트는 refresh로 복구)
		logger.Warn("Broadcast channel full, event dropped", map[string]interface{}{
			"type":      event.Type,
			"dealer_id": event.DealerID,
		})
	}
}

// Register 클라이언트 등록
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister 클라이언트 등록 해제
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// ClientCount 현재 연결된 클라이언트 수
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// HandleClientMessage 클라이언트 intent 처리 후 view를 그 클라이언트에만 응답
func (h *Hub) HandleClientMessage(client *Client, message []byte) {
	// Rate limiting 체크
	client.RateMu.Lock()
	now := time.Now()
	if now.Sub(client.LastResetTime) >= time.Second {
		client.MessageCount = 0
		client.LastResetTime = now
	}
	client.MessageCount++
	count := client.MessageCount
	client.RateMu.Unlock()

	if count > maxMessagesPerSecond {
		logger.Warn("Rate limit exceeded", map[string]interface{}{
			"client_id": client.ID,
			"count":     count,
		})
		return
	}

	// ReadPump 고루틴에는 recover가 없으므로 intent 처리 중 panic이 서버를 죽이지 않게 한다
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Panic while handling client message", fmt.Errorf("%v", r), map[string]interface{}{
				"client_id": client.ID,
				"message":   string(message),
			})
			client.reply(ErrorMessage{Type: "error", Error: apperrors.InternalServerError, Message: "Something went wrong. Please try again."})
		}
	}()

	var msg ClientMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		logger.Warn("Failed to parse client message", map[string]interface{}{
			"client_id": client.ID,
			"error":     err.Error(),
		})
		client.reply(ErrorMessage{Type: "error", Error: apperrors.ValidationInvalidFormat, Message: "Malformed message"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), intentTimeout)
	defer cancel()

	var (
		view *service.DealerView
		err  error
	)
	switch msg.Type {
	case "search":
		view, err = client.Dashboard.OnSearch(ctx, msg.Search)
	case "page":
		view, err = client.Dashboard.OnPageChange(ctx, msg.Page)
	case "page_size":
		if msg.PageSize < 1 || msg.PageSize > service.MaxPageSize {
			client.reply(ErrorMessage{Type: "error", Error: apperrors.ValidationInvalidRange, Message: "Page size must be between 1 and 100"})
			return
		}
		view, err = client.Dashboard.OnPageSizeChange(ctx, msg.PageSize)
	case "refresh":
		view, err = client.Dashboard.OnRefresh(ctx)
	default:
		logger.Warn("Unknown client message type", map[string]interface{}{
			"client_id": client.ID,
			"type":      msg.Type,
		})
		client.reply(ErrorMessage{Type: "error", Error: apperrors.ValidationInvalidInput, Message: "Unknown message type"})
		return
	}

	if err != nil {
		info := apperrors.ParseError(err, "dashboard "+msg.Type)
		client.reply(ErrorMessage{Type: "error", Error: info.Code, Message: info.Message})
		return
	}
	client.reply(ViewMessage{Type: "view", View: view})
}

// reply 이 클라이언트에게만 전송, 버퍼가 가득 차면 버린다
func (c *Client) reply(payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		logger.Error("Failed to marshal reply", err, map[string]interface{}{
			"client_id": c.ID,
		})
		return
	}

	defer func() {
		// 이미 unregister되어 Send가 닫힌 경우
		if r := recover(); r != nil {
			logger.Debug("Reply to closed client dropped", map[string]interface{}{
				"client_id": c.ID,
			})
		}
	}()

	select {
	case c.Send <- data:
	default:
		logger.Warn("Client send buffer full, reply dropped", map[string]interface{}{
			"client_id": c.ID,
		})
	}
}
