package websocket

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
)

// message 带订阅过滤的广播消息
type message struct {
	scheduleID string
	payload    []byte
}

// Hub 管理所有 WebSocket 连接
type Hub struct {
	// 已注册的客户端
	clients map[*Client]bool

	// 广播消息
	broadcast chan message

	// 注册新客户端
	Register chan *Client

	// 注销客户端
	Unregister chan *Client

	// Run 退出后关闭
	done chan struct{}

	// 互斥锁，保护 clients map
	mu sync.RWMutex
}

// NewHub 创建新的 Hub
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan message, 64),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run 运行 Hub,ctx 取消后关闭所有客户端
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.mu.Lock()
			for client := range h.clients {
				delete(h.clients, client)
				close(client.Send)
			}
			h.mu.Unlock()
			return

		case client := <-h.Register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()

		case client := <-h.Unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				if !client.Wants(msg.scheduleID) {
					continue
				}
				select {
				case client.Send <- msg.payload:
				default:
					// 发送缓冲区已满,视为慢客户端断开
					close(client.Send)
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// register 注册客户端,Hub 已停止时返回 false
func (h *Hub) register(client *Client) bool {
	select {
	case h.Register <- client:
		return true
	case <-h.done:
		return false
	}
}

// unregister 注销客户端,Hub 已停止时直接返回
func (h *Hub) unregister(client *Client) {
	select {
	case h.Unregister <- client:
	case <-h.done:
	}
}

// Publish 广播变更事件,缓冲区满时丢弃事件而不阻塞调用方
func (h *Hub) Publish(event Event) {
	payload, err := event.Encode()
	if err != nil {
		logrus.WithError(err).WithField("type", event.Type).Error("failed to encode websocket event")
		return
	}

	select {
	case h.broadcast <- message{scheduleID: event.ScheduleID, payload: payload}:
	default:
		logrus.WithField("type", event.Type).Warn("websocket broadcast queue full, event dropped")
	}
}

// HasClient 检查客户端是否存在
func (h *Hub) HasClient(clientID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients {
		if client.ID == clientID {
			return true
		}
	}
	return false
}

// GetClientCount 获取客户端数量
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.clients)
}
