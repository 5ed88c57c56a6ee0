package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"

	"github.com/Natenyt/AI-Powered-Government-System/internal/services"
)

type WSHandler struct {
	redis    *redis.Client
	upgrader websocket.Upgrader
}

func NewWSHandler(rdb *redis.Client) *WSHandler {
	return &WSHandler{
		redis: rdb,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

type wsConn struct {
	c  *websocket.Conn
	mu sync.Mutex
}

func (w *wsConn) write(typ int, b []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.c.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return w.c.WriteMessage(typ, b)
}

// DepartmentFeed streams routed-message events of one department to a dashboard.
func (h *WSHandler) DepartmentFeed(c *gin.Context) {
	deptID, ok := requireInt64Param(c, "WSHandler.DepartmentFeed", "department_id")
	if !ok {
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// upgrade already wrote response in most cases
		return
	}
	defer conn.Close()

	wc := &wsConn{c: conn}
	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	pubsub := h.redis.Subscribe(ctx, services.DepartmentChannel(deptID))
	defer pubsub.Close()

	// reader only drains control frames; dashboards do not send data
	readDone := make(chan struct{})
	go func() {
		defer close(readDone)
		_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		conn.SetPongHandler(func(string) error {
			_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
			return nil
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(30 * time.Second)
	defer ping.Stop()

	events := pubsub.Channel()
	for {
		select {
		case <-readDone:
			return
		case <-ctx.Done():
			return
		case <-ping.C:
			if err := wc.write(websocket.PingMessage, nil); err != nil {
				return
			}
		case m, ok := <-events:
			if !ok {
				return
			}
			// forward as-is (publisher writes JSON)
			if err := wc.write(websocket.TextMessage, []byte(m.Payload)); err != nil {
				return
			}
		}
	}
}
