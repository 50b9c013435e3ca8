package transport

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/thingsync/thing-go/pkg/version"
)

// StreamLink is a Link over a byte stream using length-prefixed framing.
type StreamLink struct {
	conn      net.Conn
	framer    *Framer
	in        *inbox
	closeOnce sync.Once
	closeErr  error
}

// NewStreamLink wraps an established connection.
func NewStreamLink(conn net.Conn, opts ...Option) *StreamLink {
	o := newOptions(opts)
	framer := NewFramer(conn, o.maxMessageSize)
	if o.logger != nil {
		framer.SetLogger(o.logger, o.sessionID)
	}
	return &StreamLink{
		conn:   conn,
		framer: framer,
		in:     startInbox(framer.ReadFrame),
	}
}

// DialTCP connects to a mirror over TCP. With a non-nil tlsConf the
// connection is upgraded to TLS before any frame is exchanged.
func DialTCP(ctx context.Context, addr string, tlsConf *tls.Config, opts ...Option) (*StreamLink, error) {
	o := newOptions(opts)

	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.connectTimeout)
		defer cancel()
	}

	dialer := &net.Dialer{}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("dial failed: %w", err)
	}

	if tlsConf != nil {
		tlsConf = tlsConf.Clone()
		if tlsConf.ServerName == "" {
			tlsConf.ServerName, _, _ = net.SplitHostPort(addr)
		}
		if len(tlsConf.NextProtos) == 0 {
			tlsConf.NextProtos = version.SupportedProtocols()
		}
		tlsConn := tls.Client(conn, tlsConf)
		if err := tlsConn.HandshakeContext(ctx); err != nil {
			conn.Close()
			return nil, fmt.Errorf("TLS handshake failed: %w", err)
		}
		if err := version.CheckNegotiated(tlsConn.ConnectionState().NegotiatedProtocol); err != nil {
			tlsConn.Close()
			return nil, err
		}
		conn = tlsConn
	}

	return NewStreamLink(conn, opts...), nil
}

// Send writes one pack as a frame.
func (l *StreamLink) Send(pack []byte) error {
	select {
	case <-l.in.closing:
		return ErrClosed
	default:
	}
	return l.framer.WriteFrame(pack)
}

// Receive returns the next pack.
func (l *StreamLink) Receive(timeout time.Duration) ([]byte, error) {
	return l.in.receive(timeout)
}

// Close closes the connection.
func (l *StreamLink) Close() error {
	l.closeOnce.Do(func() {
		l.in.stop()
		l.closeErr = l.conn.Close()
	})
	return l.closeErr
}

// RemoteAddr returns the peer address.
func (l *StreamLink) RemoteAddr() string {
	return l.conn.RemoteAddr().String()
}
