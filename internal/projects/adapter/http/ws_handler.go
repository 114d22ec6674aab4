package http

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"projects-api/internal/projects/domain/model"
	"projects-api/internal/shared/eventbus"
	"projects-api/internal/shared/logger"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	wsWriteTimeout       = 10 * time.Second
	defaultWSReadTimeout = 60 * time.Second
)

// ChangeFeed fans project change events out to connected WebSocket clients.
// Each client has a bounded queue; when it is full the client misses the
// message rather than stalling the publisher.
//
// Clients are pinged at half the read timeout; a client that answers
// neither pings nor anything else within the timeout is dropped.
type ChangeFeed struct {
	mu          sync.RWMutex
	clients     map[string]chan []byte
	buffer      int
	closed      bool
	readTimeout time.Duration
	log         logger.Logger
}

// NewChangeFeed creates a feed with the given per-client buffer size.
func NewChangeFeed(buffer int, log logger.Logger) *ChangeFeed {
	if buffer <= 0 {
		buffer = 1
	}
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &ChangeFeed{
		clients:     make(map[string]chan []byte),
		buffer:      buffer,
		readTimeout: defaultWSReadTimeout,
		log:         log.WithComponent("projects.changefeed"),
	}
}

// SetReadTimeout changes how long a client may stay silent, pongs included,
// before it is dropped. It applies to connections opened afterwards.
func (f *ChangeFeed) SetReadTimeout(d time.Duration) {
	if d <= 0 {
		return
	}
	f.mu.Lock()
	f.readTimeout = d
	f.mu.Unlock()
}

func (f *ChangeFeed) timeouts() (read, ping time.Duration) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.readTimeout, f.readTimeout / 2
}

// HandleEvent is an eventbus.Handler that broadcasts the event's ChangeEvent.
func (f *ChangeFeed) HandleEvent(_ context.Context, event eventbus.Event) error {
	change, ok := event.Data().(model.ChangeEvent)
	if !ok {
		return fmt.Errorf("change feed: unexpected payload %T for event %s", event.Data(), event.Type())
	}
	msg, err := json.Marshal(change)
	if err != nil {
		return fmt.Errorf("change feed: encode %s: %w", event.Type(), err)
	}

	f.mu.RLock()
	defer f.mu.RUnlock()
	for id, ch := range f.clients {
		select {
		case ch <- msg:
		default:
			f.log.WithFields(map[string]interface{}{"client_id": id}).Warn("Client queue full, dropping change event")
		}
	}
	return nil
}

// ClientCount returns the number of connected clients.
func (f *ChangeFeed) ClientCount() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.clients)
}

// RegisterRoutes mounts the feed at path. Plain HTTP requests get 426.
func (f *ChangeFeed) RegisterRoutes(router fiber.Router, path string) {
	router.Use(path, func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	router.Get(path, websocket.New(f.serve))
}

// Close disconnects every client and refuses new ones.
func (f *ChangeFeed) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	for id, ch := range f.clients {
		close(ch)
		delete(f.clients, id)
	}
}

// register adds a client queue. ok is false once the feed is closed.
func (f *ChangeFeed) register() (id string, ch chan []byte, ok bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return "", nil, false
	}
	id = uuid.NewString()
	ch = make(chan []byte, f.buffer)
	f.clients[id] = ch
	return id, ch, true
}

// unregister removes and closes a client queue. Safe to call more than once.
func (f *ChangeFeed) unregister(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if ch, ok := f.clients[id]; ok {
		close(ch)
		delete(f.clients, id)
	}
}

// serve runs for the lifetime of one WebSocket connection.
func (f *ChangeFeed) serve(conn *websocket.Conn) {
	id, queue, ok := f.register()
	if !ok {
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"))
		return
	}
	log := f.log.WithFields(map[string]interface{}{"client_id": id})
	log.Info("Change feed client connected")
	defer log.Info("Change feed client disconnected")
	defer f.unregister(id)

	readTimeout, pingInterval := f.timeouts()
	_ = conn.SetReadDeadline(time.Now().Add(readTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(readTimeout))
	})

	// Clients only listen; reading detects disconnects and handles pongs.
	go func() {
		defer f.unregister(id)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Warnf("WebSocket read error: %v", err)
				}
				return
			}
			_ = conn.SetReadDeadline(time.Now().Add(readTimeout))
		}
	}()

	ping := time.NewTicker(pingInterval)
	defer ping.Stop()

	for {
		select {
		case msg, ok := <-queue:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				log.Warnf("WebSocket write error: %v", err)
				return
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteTimeout)); err != nil {
				log.Warnf("WebSocket ping failed: %v", err)
				return
			}
		}
	}
}
