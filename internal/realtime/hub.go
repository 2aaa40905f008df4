package realtime

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/wonny/ohaasa/backend/pkg/logger"
)

const (
	// PingInterval keeps idle browser connections open
	PingInterval = 30 * time.Second
	writeTimeout = 10 * time.Second
	sendBuffer   = 8
)

// EventRankingsUpdated is pushed after every refresh
const EventRankingsUpdated = "rankings_updated"

// Event is what subscribers receive
// ⭐ SSOT: 실시간 이벤트 구조
type Event struct {
	Type    string    `json:"type"`
	DateKST string    `json:"date_kst"`
	Status  string    `json:"status"`
	At      time.Time `json:"at"`
}

type subscriber struct {
	conn *websocket.Conn
	send chan []byte
	once sync.Once
}

// Hub fans ranking events out to websocket subscribers
type Hub struct {
	upgrader websocket.Upgrader
	logger   *logger.Logger

	mu      sync.Mutex
	clients map[*subscriber]struct{}
	closed  bool
	wg      sync.WaitGroup
}

// NewHub creates an empty hub
func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// 프론트는 별도 오리진(정적 호스팅)에서 접속
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger:  log.WithComponent("realtime"),
		clients: make(map[*subscriber]struct{}),
	}
}

// ServeHTTP upgrades the request and blocks until the subscriber leaves
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithError(err).Warn("WebSocket upgrade failed")
		return
	}

	sub := &subscriber{conn: conn, send: make(chan []byte, sendBuffer)}
	if !h.register(sub) {
		conn.Close()
		return
	}
	go h.writeLoop(sub)

	// 클라이언트 메시지는 무시, 종료 감지용
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	h.unregister(sub)
}

// Broadcast queues ev for every subscriber; full queues are disconnected
func (h *Hub) Broadcast(ev Event) {
	if ev.At.IsZero() {
		ev.At = time.Now()
	}
	msg, err := json.Marshal(ev)
	if err != nil {
		h.logger.WithError(err).Error("Failed to marshal event")
		return
	}

	h.mu.Lock()
	var slow []*subscriber
	for sub := range h.clients {
		select {
		case sub.send <- msg:
		default:
			slow = append(slow, sub)
		}
	}
	h.mu.Unlock()

	for _, sub := range slow {
		h.logger.Warn("Dropping slow subscriber")
		h.unregister(sub)
	}

	h.logger.WithFields(map[string]interface{}{
		"type":        ev.Type,
		"date_kst":    ev.DateKST,
		"subscribers": h.Count(),
	}).Debug("Event broadcast")
}

// Count returns the number of connected subscribers
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects everyone and waits for the writers to exit
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	subs := make([]*subscriber, 0, len(h.clients))
	for sub := range h.clients {
		subs = append(subs, sub)
	}
	h.mu.Unlock()

	for _, sub := range subs {
		h.unregister(sub)
	}
	h.wg.Wait()
}

func (h *Hub) register(sub *subscriber) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[sub] = struct{}{}
	// Close()의 Wait보다 먼저 잡히도록 락 안에서
	h.wg.Add(1)
	return true
}

func (h *Hub) unregister(sub *subscriber) {
	h.mu.Lock()
	delete(h.clients, sub)
	h.mu.Unlock()

	sub.once.Do(func() {
		close(sub.send)
		sub.conn.Close()
	})
}

func (h *Hub) writeLoop(sub *subscriber) {
	defer h.wg.Done()

	ticker := time.NewTicker(PingInterval)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-sub.send:
			if !ok {
				return
			}
			sub.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := sub.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				h.logger.WithError(err).Debug("Write failed")
				h.unregister(sub)
				return
			}
		case <-ticker.C:
			sub.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := sub.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.logger.WithError(err).Debug("Ping failed")
				h.unregister(sub)
				return
			}
		}
	}
}
