// server/internal/socket/hub.go
package socket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"inbound-wms-api-server/internal/models"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const writeWait = 10 * time.Second

// client bọc một kết nối; gorilla/websocket không cho phép ghi đồng thời trên cùng một conn.
type client struct {
	userID string
	conn   *websocket.Conn
	mu     sync.Mutex
}

func (c *client) write(message []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.TextMessage, message)
}

// Hub quản lý tất cả các client WebSocket.
type Hub struct {
	// clients lưu các kết nối đang mở, một user có thể mở nhiều tab.
	clients map[*websocket.Conn]*client
	// mu là một Mutex để đảm bảo an toàn khi truy cập map clients từ nhiều goroutine.
	mu     sync.RWMutex
	logger *zap.Logger
}

// NewHub tạo một Hub mới.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients: make(map[*websocket.Conn]*client),
		logger:  logger,
	}
}

// Register thêm một client mới vào Hub.
func (h *Hub) Register(userID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[conn] = &client{userID: userID, conn: conn}
	h.logger.Info("WebSocket client registered", zap.String("user", userID), zap.Int("clients", len(h.clients)))
}

// Unregister xóa một client khỏi Hub.
func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		h.logger.Info("WebSocket client unregistered", zap.String("user", c.userID))
	}
}

// Len trả về số client đang kết nối.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast gửi một tin nhắn đến tất cả client. Client lỗi được đóng và gỡ khỏi Hub.
func (h *Hub) Broadcast(message []byte) {
	h.mu.RLock()
	targets := make([]*client, 0, len(h.clients))
	for _, c := range h.clients {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	for _, c := range targets {
		if err := c.write(message); err != nil {
			h.logger.Warn("WebSocket send failed", zap.String("user", c.userID), zap.Error(err))
			h.Unregister(c.conn)
			_ = c.conn.Close()
		}
	}
}

// Notify phát một InboundEvent tới mọi client đang kết nối.
func (h *Hub) Notify(ctx context.Context, event models.InboundEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	h.Broadcast(payload)
	return nil
}
