package ws

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	pongWait     = 60 * time.Second
	sendBuffer   = 16
	maxReadBytes = 512
)

// Connection is a single live-feed subscriber.
type Connection struct {
	id           string
	projectID    int64
	ws           *websocket.Conn
	send         chan []byte
	logger       *zap.Logger
	writeTimeout time.Duration
	onClose      func(id string)

	writeMu   sync.Mutex
	closeOnce sync.Once
	closed    chan struct{}
}

// NewConnection wraps ws. A projectID of zero subscribes to every project.
func NewConnection(id string, projectID int64, ws *websocket.Conn, writeTimeout time.Duration, logger *zap.Logger, onClose func(string)) *Connection {
	return &Connection{
		id:           id,
		projectID:    projectID,
		ws:           ws,
		send:         make(chan []byte, sendBuffer),
		logger:       logger,
		writeTimeout: writeTimeout,
		onClose:      onClose,
		closed:       make(chan struct{}),
	}
}

// ID returns the connection identifier.
func (c *Connection) ID() string {
	return c.id
}

// Wants reports whether events for projectID go to this subscriber.
func (c *Connection) Wants(projectID int64) bool {
	return c.projectID == 0 || c.projectID == projectID
}

// Start runs the pumps until the peer disconnects or ctx is done.
func (c *Connection) Start(ctx context.Context) {
	go c.writePump(ctx)
	c.readPump(ctx)
}

// readPump only watches for the peer going away; subscribers don't send data.
func (c *Connection) readPump(ctx context.Context) {
	defer c.cleanup()
	c.ws.SetReadLimit(maxReadBytes)
	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		if _, _, err := c.ws.ReadMessage(); err != nil {
			c.logger.Info("subscriber disconnected", zap.String("connection_id", c.id), zap.Error(err))
			return
		}
	}
}

func (c *Connection) writePump(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-c.closed:
			_ = c.write(websocket.CloseMessage, []byte{})
			return
		case msg := <-c.send:
			if err := c.write(websocket.TextMessage, msg); err != nil {
				c.logger.Warn("failed to write event", zap.String("connection_id", c.id), zap.Error(err))
				return
			}
		}
	}
}

// Send enqueues a message, dropping it if the buffer is full or the
// connection is closed.
func (c *Connection) Send(msg []byte) {
	select {
	case <-c.closed:
		return
	default:
	}
	select {
	case c.send <- msg:
	default:
		c.logger.Warn("dropping outgoing event, buffer full", zap.String("connection_id", c.id))
	}
}

// Ping sends a ping frame.
func (c *Connection) Ping() error {
	return c.write(websocket.PingMessage, []byte("ping"))
}

// gorilla connections support one concurrent writer.
func (c *Connection) write(messageType int, data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = c.ws.SetWriteDeadline(time.Now().Add(c.writeTimeout))
	return c.ws.WriteMessage(messageType, data)
}

func (c *Connection) cleanup() {
	c.closeOnce.Do(func() {
		close(c.closed)
		_ = c.ws.Close()
		if c.onClose != nil {
			c.onClose(c.id)
		}
	})
}
