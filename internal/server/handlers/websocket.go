// internal/server/handlers/websocket.go

package handlers

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/nats-io/nats.go"
	"github.com/phuslu/log"
)

// WebSocketConfig contains configuration for WebSocket connections
type WebSocketConfig struct {
	// Time allowed to write a message to the peer
	WriteWait time.Duration

	// Time allowed to read the next pong message from the peer
	PongWait time.Duration

	// Send pings to peer with this period
	PingPeriod time.Duration

	// Maximum message size allowed from peer
	MaxMessageSize int64

	// Outbound messages buffered per client before new ones are dropped
	SendBuffer int
}

// DefaultWebSocketConfig returns the default WebSocket configuration
func DefaultWebSocketConfig() WebSocketConfig {
	return WebSocketConfig{
		WriteWait:      10 * time.Second,
		PongWait:       60 * time.Second,
		PingPeriod:     (60 * time.Second * 9) / 10,
		MaxMessageSize: 4096,
		SendBuffer:     64,
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Origins are enforced by the CORS middleware
		return true
	},
}

// EventSubscriber delivers messages published on a subject
type EventSubscriber interface {
	// Available reports whether the bus can currently deliver
	Available() bool
	// Subscribe calls handler for every message until unsubscribe is called
	Subscribe(subject string, handler func(data []byte)) (unsubscribe func(), err error)
}

// NATSSubscriber adapts a NATS connection to EventSubscriber
type NATSSubscriber struct {
	conn *nats.Conn
}

// NewNATSSubscriber wraps conn
func NewNATSSubscriber(conn *nats.Conn) *NATSSubscriber {
	return &NATSSubscriber{conn: conn}
}

// Available reports whether the connection is up
func (s *NATSSubscriber) Available() bool {
	return s.conn != nil && s.conn.IsConnected()
}

// Subscribe subscribes to subject on the wrapped connection
func (s *NATSSubscriber) Subscribe(subject string, handler func(data []byte)) (func(), error) {
	sub, err := s.conn.Subscribe(subject, func(msg *nats.Msg) {
		handler(msg.Data)
	})
	if err != nil {
		return nil, err
	}
	return func() { sub.Unsubscribe() }, nil
}

// trendingClient is one websocket subscriber to refresh events
type trendingClient struct {
	conn        *websocket.Conn
	send        chan []byte
	done        chan struct{}
	closeOnce   sync.Once
	unsubscribe func()
	config      WebSocketConfig
	logger      *log.Logger
}

// TrendingWebSocketHandler streams trending refresh events published on subject.
// A nil or unavailable subscriber answers 503.
func TrendingWebSocketHandler(events EventSubscriber, subject string, logger *log.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if events == nil || !events.Available() {
			respondWithError(w, http.StatusServiceUnavailable, "Live updates unavailable")
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to upgrade to websocket")
			return
		}

		config := DefaultWebSocketConfig()
		client := &trendingClient{
			conn:   conn,
			send:   make(chan []byte, config.SendBuffer),
			done:   make(chan struct{}),
			config: config,
			logger: logger,
		}

		unsubscribe, err := events.Subscribe(subject, client.enqueue)
		if err != nil {
			logger.Error().Err(err).Str("subject", subject).Msg("failed to subscribe to refresh events")
			client.close()
			return
		}
		client.unsubscribe = unsubscribe

		welcome, _ := json.Marshal(map[string]interface{}{
			"type":    "welcome",
			"subject": subject,
			"time":    time.Now().UTC(),
		})
		client.enqueue(welcome)

		go client.writePump()
		go client.readPump()

		logger.Debug().Str("remote", r.RemoteAddr).Msg("trending websocket connected")
	}
}

// enqueue hands a message to the write pump, dropping it if the client is slow
func (c *trendingClient) enqueue(data []byte) {
	select {
	case <-c.done:
	case c.send <- data:
	default:
		c.logger.Warn().Msg("websocket client too slow, dropping event")
	}
}

// readPump discards inbound frames and keeps the read deadline fresh
func (c *trendingClient) readPump() {
	defer c.close()

	c.conn.SetReadLimit(c.config.MaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(c.config.PongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(c.config.PongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warn().Err(err).Msg("websocket read error")
			}
			return
		}
	}
}

// writePump pumps refresh events to the WebSocket connection
func (c *trendingClient) writePump() {
	ticker := time.NewTicker(c.config.PingPeriod)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(c.config.WriteWait))
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case message := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(c.config.WriteWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(c.config.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// close unsubscribes and closes the connection once
func (c *trendingClient) close() {
	c.closeOnce.Do(func() {
		close(c.done)
		if c.unsubscribe != nil {
			c.unsubscribe()
		}
		c.conn.Close()
	})
}
