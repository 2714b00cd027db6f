package websocket

import (
	"encoding/json"
	"sync"

	"github.com/suitloom/suitloom-backend/pkg/logger"
)

// 미리보기/업로드 파이프라인 이벤트 타입
const (
	EventPhotoState       = "photo_state"       // 업로드 파이프라인 상태 전이
	EventPreviewStarted   = "preview_started"   // 합성 요청 시작
	EventPreviewReady     = "preview_ready"     // 합성 결과 도착
	EventPreviewDiscarded = "preview_discarded" // 합성 실패 또는 단일 비행 드롭
)

// Event 세션에 푸시되는 파이프라인 이벤트
type Event struct {
	Type       string `json:"type"`
	SessionID  string `json:"session_id"`
	Preset     int    `json:"preset,omitempty"`
	PreviewURL string `json:"preview_url,omitempty"`
	PhotoState string `json:"photo_state,omitempty"`
	Message    string `json:"message,omitempty"`
}

// Client WebSocket 클라이언트
type Client struct {
	Hub       *Hub
	Conn      *Conn
	SessionID string
	Send      chan []byte
}

// Hub WebSocket 연결 관리자. 클라이언트는 세션 ID 단위로 묶인다
// (같은 세션을 여러 탭에서 열 수 있음).
type Hub struct {
	// 등록된 클라이언트들 (SessionID -> []*Client)
	clients map[string][]*Client

	// 클라이언트 등록
	register chan *Client

	// 클라이언트 등록 해제
	unregister chan *Client

	// 세션 단위 이벤트 발행
	events chan *sessionMessage

	mu sync.RWMutex
}

type sessionMessage struct {
	SessionID string
	Data      []byte
}

// NewHub Hub 생성
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string][]*Client),
		register:   make(chan *Client, 256),
		unregister: make(chan *Client, 256),
		events:     make(chan *sessionMessage, 1024),
	}
}

// Run Hub 실행
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.SessionID] = append(h.clients[client.SessionID], client)
			h.mu.Unlock()
			logger.Info("WebSocket client registered", map[string]interface{}{
				"session_id":  client.SessionID,
				"total_conns": len(h.clients[client.SessionID]),
			})

		case client := <-h.unregister:
			h.mu.Lock()
			if clientList, ok := h.clients[client.SessionID]; ok {
				newList := make([]*Client, 0, len(clientList))
				for _, c := range clientList {
					if c != client {
						newList = append(newList, c)
					}
				}

				if len(newList) == 0 {
					delete(h.clients, client.SessionID)
				} else {
					h.clients[client.SessionID] = newList
				}

				close(client.Send)
			}
			h.mu.Unlock()
			logger.Info("WebSocket client unregistered", map[string]interface{}{
				"session_id": client.SessionID,
			})

		case message := <-h.events:
			h.mu.RLock()
			if clientList, ok := h.clients[message.SessionID]; ok {
				for _, client := range clientList {
					select {
					case client.Send <- message.Data:
						// 전송 성공
					default:
						// Send 채널이 막혀있음 - 비동기로 정리
						go h.Unregister(client)
						logger.Warn("Client send buffer full, disconnecting", map[string]interface{}{
							"session_id": message.SessionID,
						})
					}
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Publish 세션의 모든 연결에 이벤트 전송. 연결이 없거나 버퍼가 가득
// 차면 이벤트는 유실된다 (파이프라인 진행에는 영향 없음).
func (h *Hub) Publish(event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		logger.Error("Failed to marshal event", err, nil)
		return
	}

	select {
	case h.events <- &sessionMessage{SessionID: event.SessionID, Data: data}:
	default:
		logger.Warn("Event channel full, event dropped", map[string]interface{}{
			"session_id": event.SessionID,
			"type":       event.Type,
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

// IsSessionConnected 세션 연결 여부 확인
func (h *Hub) IsSessionConnected(sessionID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.clients[sessionID]
	return ok
}
