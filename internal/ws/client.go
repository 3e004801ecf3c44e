package ws

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/coder/websocket"
	"github.com/sirupsen/logrus"

	"github.com/keyfleet/keyfleet/internal/middleware"
)

const (
	writeTimeout           = 10 * time.Second
	wsReadLimit            = 4096
	clientSendBuffer       = 256
	maxConnLifetime        = 4 * time.Hour
	sessionRefreshInterval = 15 * time.Minute // periodic re-validation of the session
	sessionRefreshTimeout  = 10 * time.Second
	pingInterval           = 30 * time.Second
	pingTimeout            = 10 * time.Second
	maxMissedPongs         = int32(2)
)

// SessionValidator re-checks that a session token is still valid.
type SessionValidator interface {
	GetSessionByToken(ctx context.Context, token string) (*middleware.Session, error)
}

// Client wraps a single WebSocket connection managed by the Hub.
type Client struct {
	hub         *Hub
	conn        *websocket.Conn
	send        chan []byte
	log         *logrus.Logger
	token       string
	validator   SessionValidator
	closeOnce   sync.Once
	connectedAt time.Time
}

// NewClient creates a new Client for the given WebSocket connection.
func NewClient(hub *Hub, conn *websocket.Conn, validator SessionValidator, token string) *Client {
	return &Client{
		hub:         hub,
		conn:        conn,
		send:        make(chan []byte, clientSendBuffer),
		log:         hub.log,
		token:       token,
		validator:   validator,
		connectedAt: time.Now(),
	}
}

// closeSend safely closes the send channel exactly once.
func (c *Client) closeSend() {
	c.closeOnce.Do(func() { close(c.send) })
}

// ReadPump reads messages from the WebSocket connection until it closes.
// The first message may be a subscribe request for event replay.
func (c *Client) ReadPump(ctx context.Context) {
	defer func() {
		c.hub.Unregister(c)
		c.conn.CloseNow() //nolint:errcheck // best-effort close on teardown
	}()

	c.conn.SetReadLimit(wsReadLimit)

	for {
		_, msgBytes, err := c.conn.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) != -1 {
				c.log.WithField("status", websocket.CloseStatus(err)).Debug("client disconnected")
			}
			return
		}

		c.handleMessage(msgBytes)
	}
}

// handleMessage processes an incoming client message.
func (c *Client) handleMessage(msgBytes []byte) {
	var msg SubscribeMsg
	if err := json.Unmarshal(msgBytes, &msg); err != nil {
		return
	}
	if msg.Type != "subscribe" {
		return
	}

	if !c.hub.ReplayEvents(c, msg.LastSeq) {
		resetMsg, err := json.Marshal(ResetMsg{
			Type:   "reset",
			Reason: "requested events no longer available, perform full refresh",
		})
		if err != nil {
			return
		}
		select {
		case c.send <- resetMsg:
		default:
		}
	}
}

// WritePump writes messages from the send channel to the WebSocket
// connection. It enforces a maximum connection lifetime and periodically
// re-validates the session.
func (c *Client) WritePump(ctx context.Context) {
	defer c.conn.CloseNow() //nolint:errcheck // best-effort close on teardown

	lifetimeTimer := time.NewTimer(time.Until(c.connectedAt.Add(maxConnLifetime)))
	defer lifetimeTimer.Stop()

	refreshTicker := time.NewTicker(sessionRefreshInterval)
	defer refreshTicker.Stop()

	pingTicker := time.NewTicker(pingInterval)
	defer pingTicker.Stop()

	var missedPongs atomic.Int32

	for {
		select {
		case <-pingTicker.C:
			if c.sendPing(ctx, &missedPongs) {
				return
			}
		case msg, ok := <-c.send:
			if !ok {
				return
			}

			writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
			err := c.conn.Write(writeCtx, websocket.MessageText, msg)
			cancel()

			if err != nil {
				c.log.WithError(err).Debug("write failed")
				return
			}
		case <-refreshTicker.C:
			if !c.refreshSession(ctx) {
				return
			}
		case <-lifetimeTimer.C:
			c.log.Info("closing WebSocket: max connection lifetime exceeded")
			c.conn.Close(websocket.StatusNormalClosure, "max connection lifetime exceeded") //nolint:errcheck // best-effort
			return
		}
	}
}

// sendPing sends a WebSocket ping and tracks missed pongs.
// Returns true if the connection should be closed.
func (c *Client) sendPing(ctx context.Context, missedPongs *atomic.Int32) bool {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	err := c.conn.Ping(pingCtx)
	cancel()

	if err != nil {
		if missedPongs.Add(1) >= maxMissedPongs {
			c.log.Debug("closing: 2 consecutive missed pongs")
			return true
		}
		return false
	}

	missedPongs.Store(0)

	return false
}

// refreshSession re-validates the session token. Returns false if the
// connection should close.
func (c *Client) refreshSession(ctx context.Context) bool {
	if c.validator == nil {
		return true
	}

	refreshCtx, cancel := context.WithTimeout(ctx, sessionRefreshTimeout)
	_, err := c.validator.GetSessionByToken(refreshCtx, c.token)
	cancel()

	if err != nil {
		c.log.Info("closing WebSocket: session expired")
		c.conn.Close(websocket.StatusPolicyViolation, "authentication expired") //nolint:errcheck // best-effort
		return false
	}

	return true
}
