package handlers

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/MrSnakeDoc/marquee/internal/engine"
	"github.com/MrSnakeDoc/marquee/internal/httpserver/deps"
	"github.com/MrSnakeDoc/marquee/internal/logger"
)

const (
	EventHello    = "HELLO"
	EventSnapshot = "SNAPSHOT"
)

const (
	writeWait    = 10 * time.Second
	pongWait     = 60 * time.Second
	pingInterval = pongWait * 9 / 10
	sendBuffer   = 16
)

// Event is one message on the event stream.
type Event struct {
	Type     string           `json:"type"`
	ClientID string           `json:"client_id,omitempty"`
	Instance string           `json:"instance,omitempty"`
	Payload  *engine.Snapshot `json:"payload,omitempty"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// streamClient is one websocket subscriber. A client that cannot keep up is
// dropped.
type streamClient struct {
	id   string
	conn *websocket.Conn
	send chan Event
	done chan struct{}
	once sync.Once
}

func (c *streamClient) close() {
	c.once.Do(func() { close(c.done) })
}

// offer queues ev without blocking and drops the client when its buffer is
// full.
func (c *streamClient) offer(ev Event) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.send <- ev:
		return true
	default:
		c.close()
		return false
	}
}

// Events streams a snapshot after every state change. The first message
// identifies the connection; the second is the current snapshot.
func Events(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			d.Logger.Debug("websocket upgrade failed", logger.Error(err))
			return
		}

		c := &streamClient{
			id:   uuid.NewString(),
			conn: conn,
			send: make(chan Event, sendBuffer),
			done: make(chan struct{}),
		}
		log := d.Logger.With(logger.String("client_id", c.id))
		log.Info("event stream opened", logger.String("remote_ip", r.RemoteAddr))

		c.offer(Event{Type: EventHello, ClientID: c.id, Instance: d.InstanceID})

		var mu sync.Mutex
		var last uint64
		push := func(s engine.Snapshot) {
			mu.Lock()
			defer mu.Unlock()
			if s.Version != 0 && s.Version <= last {
				return
			}
			last = s.Version
			if !c.offer(Event{Type: EventSnapshot, Payload: &s}) {
				log.Warn("event stream client too slow, dropping")
			}
		}
		unsubscribe := d.Engine.Subscribe(push)
		push(d.Engine.Snapshot())

		go readPump(c)
		writePump(c)

		unsubscribe()
		_ = conn.Close()
		log.Info("event stream closed")
	}
}

// readPump discards client messages and notices disconnects.
func readPump(c *streamClient) {
	defer c.close()
	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func writePump(c *streamClient) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	defer c.close()

	for {
		select {
		case ev := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(ev); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			_ = c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait))
			return
		}
	}
}
