package transport

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/thingsync/thing-go/pkg/log"
	"github.com/thingsync/thing-go/pkg/version"
)

// WebSocket timing.
const (
	// writeWait bounds a single message write.
	writeWait = 10 * time.Second

	// closeWait bounds the close handshake.
	closeWait = time.Second
)

// WebSocketLink is a Link carrying one pack per binary WebSocket message.
type WebSocketLink struct {
	conn      *websocket.Conn
	writeMu   sync.Mutex
	in        *inbox
	log       frameLog
	maxSize   uint32
	closeOnce sync.Once
	closeErr  error
}

// NewWebSocketLink wraps an established WebSocket connection, from
// either a dialer or an upgrader.
func NewWebSocketLink(conn *websocket.Conn, opts ...Option) *WebSocketLink {
	o := newOptions(opts)
	conn.SetReadLimit(int64(o.maxMessageSize))

	l := &WebSocketLink{
		conn:    conn,
		log:     frameLog{logger: o.logger, sessionID: o.sessionID},
		maxSize: o.maxMessageSize,
	}
	l.in = startInbox(l.read)
	return l
}

// DialWebSocket connects to a mirror at a ws:// or wss:// URL.
func DialWebSocket(ctx context.Context, rawURL string, opts ...Option) (*WebSocketLink, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid mirror URL: %w", err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return nil, fmt.Errorf("invalid mirror URL scheme %q", u.Scheme)
	}

	o := newOptions(opts)
	dialer := *websocket.DefaultDialer
	dialer.HandshakeTimeout = o.connectTimeout
	dialer.Subprotocols = version.SupportedProtocols()

	conn, _, err := dialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("dial failed: %w", err)
	}
	if err := version.CheckNegotiated(conn.Subprotocol()); err != nil {
		conn.Close()
		return nil, err
	}
	return NewWebSocketLink(conn, opts...), nil
}

// read returns the payload of the next binary message. Text messages are
// skipped.
func (l *WebSocketLink) read() ([]byte, error) {
	for {
		messageType, data, err := l.conn.ReadMessage()
		if err != nil {
			return nil, err
		}
		if messageType != websocket.BinaryMessage {
			continue
		}
		if len(data) == 0 {
			return nil, ErrMessageEmpty
		}
		l.log.frame(data, log.DirectionIn, 0)
		return data, nil
	}
}

// Send writes one pack as a binary message.
func (l *WebSocketLink) Send(pack []byte) error {
	if len(pack) == 0 {
		return ErrMessageEmpty
	}
	if uint64(len(pack)) > uint64(l.maxSize) {
		return fmt.Errorf("%w: %d > %d", ErrMessageTooLarge, len(pack), l.maxSize)
	}
	select {
	case <-l.in.closing:
		return ErrClosed
	default:
	}

	l.writeMu.Lock()
	defer l.writeMu.Unlock()

	l.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := l.conn.WriteMessage(websocket.BinaryMessage, pack); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	l.log.frame(pack, log.DirectionOut, 0)
	return nil
}

// Receive returns the next pack.
func (l *WebSocketLink) Receive(timeout time.Duration) ([]byte, error) {
	return l.in.receive(timeout)
}

// Close sends a close message and closes the connection.
func (l *WebSocketLink) Close() error {
	l.closeOnce.Do(func() {
		l.in.stop()

		l.writeMu.Lock()
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		_ = l.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(closeWait))
		l.writeMu.Unlock()

		l.closeErr = l.conn.Close()
	})
	return l.closeErr
}

// RemoteAddr returns the peer address.
func (l *WebSocketLink) RemoteAddr() string {
	return l.conn.RemoteAddr().String()
}
