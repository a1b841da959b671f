package platformevents

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// ErrUnavailable is returned by Connect when no channel URL is configured.
// The page must keep working without realtime updates, so callers treat this
// as a report-and-continue condition rather than a failure.
var ErrUnavailable = fmt.Errorf("push channel unavailable: no websocket url configured")

// PlatformEventsClient maintains the push channel to the trading platform.
// The server pushes JSON text frames; frames are forwarded raw and decoding
// belongs to the bridge.
type PlatformEventsClient struct {
	logger *zap.Logger

	wsURL  string
	dialer *websocket.Dialer

	connMu sync.Mutex
	conn   *websocket.Conn

	msgCh   chan json.RawMessage
	errCh   chan error
	closeCh chan struct{}

	msgCount        uint64
	lastMsgUnixNano int64
}

func NewPlatformEventsClient(logger *zap.Logger, wsURL string, bufferSize int) *PlatformEventsClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	if bufferSize <= 0 {
		bufferSize = 1024
	}

	return &PlatformEventsClient{
		logger: logger,
		wsURL:  wsURL,
		dialer: websocket.DefaultDialer,

		msgCh:   make(chan json.RawMessage, bufferSize),
		errCh:   make(chan error, 64),
		closeCh: make(chan struct{}),
	}
}

// Connect dials the platform channel and starts the read loop. Returns
// ErrUnavailable when no URL is configured and an error when already
// connected or the dial fails.
func (c *PlatformEventsClient) Connect(ctx context.Context) error {
	if c.wsURL == "" {
		return ErrUnavailable
	}

	c.connMu.Lock()
	alreadyConnected := c.conn != nil
	c.connMu.Unlock()
	if alreadyConnected {
		return fmt.Errorf("already connected")
	}

	conn, _, err := c.dialer.DialContext(ctx, c.wsURL, nil)
	if err != nil {
		return fmt.Errorf("dial platform ws: %w", err)
	}

	c.logger.Info("platform ws connected", zap.String("url", c.wsURL))

	conn.SetCloseHandler(func(code int, text string) error {
		c.logger.Warn("platform ws close frame received",
			zap.Int("code", code),
			zap.String("reason", text),
		)
		return nil
	})

	c.connMu.Lock()
	c.conn = conn
	c.connMu.Unlock()

	go c.readLoop()

	go func() {
		select {
		case <-ctx.Done():
			_ = c.Close()
		case <-c.closeCh:
		}
	}()

	return nil
}

// Messages returns the raw inbound frame channel.
func (c *PlatformEventsClient) Messages() <-chan json.RawMessage {
	return c.msgCh
}

// Errors returns the channel carrying read failures. Each failure is paired
// with the connection closing; the bridge drives reconnection from it.
func (c *PlatformEventsClient) Errors() <-chan error {
	return c.errCh
}

// ChannelStats reports message counters for the stats surface.
type ChannelStats struct {
	Connected     bool
	MessageCount  uint64
	LastMessageAt time.Time
}

func (c *PlatformEventsClient) Stats() ChannelStats {
	c.connMu.Lock()
	connected := c.conn != nil
	c.connMu.Unlock()

	n := atomic.LoadUint64(&c.msgCount)
	ns := atomic.LoadInt64(&c.lastMsgUnixNano)

	var t time.Time
	if ns > 0 {
		t = time.Unix(0, ns)
	}

	return ChannelStats{
		Connected:     connected,
		MessageCount:  n,
		LastMessageAt: t,
	}
}

// Close tears down the connection and stops the read loop. The client can be
// reconnected afterwards; a fresh close channel is armed for the next cycle.
func (c *PlatformEventsClient) Close() error {
	c.connMu.Lock()
	defer c.connMu.Unlock()

	select {
	case <-c.closeCh:
	default:
		close(c.closeCh)
	}

	c.closeCh = make(chan struct{})

	var err error
	if c.conn != nil {
		err = c.conn.Close()
		c.conn = nil
	}

	return err
}

func (c *PlatformEventsClient) readLoop() {
	c.logger.Debug("platform ws read loop started")

	for {
		select {
		case <-c.closeCh:
			c.logger.Debug("platform ws read loop exiting: closed")
			return
		default:
		}

		c.connMu.Lock()
		conn := c.conn
		c.connMu.Unlock()

		if conn == nil {
			return
		}

		_, b, err := conn.ReadMessage()
		if err != nil {
			c.logger.Warn("platform ws read failed", zap.Error(err))
			select {
			case c.errCh <- err:
			default:
			}
			_ = c.Close()
			return
		}

		atomic.AddUint64(&c.msgCount, 1)
		atomic.StoreInt64(&c.lastMsgUnixNano, time.Now().UnixNano())

		c.forward(json.RawMessage(append([]byte(nil), b...)))
	}
}

func (c *PlatformEventsClient) forward(msg json.RawMessage) {
	select {
	case c.msgCh <- msg:
	default:
		c.logger.Warn("dropping ws message: msgCh full")
	}
}
