package transport

import (
	"errors"
	"time"

	"github.com/thingsync/thing-go/pkg/log"
)

// Link errors.
var (
	// ErrTimeout indicates no frame arrived within the receive timeout.
	ErrTimeout = errors.New("receive timeout")

	// ErrClosed indicates the link was closed locally.
	ErrClosed = errors.New("link closed")
)

// Link is a bidirectional, pack-oriented connection to a mirror.
type Link interface {
	// Send transmits one pack.
	Send(pack []byte) error

	// Receive returns the next pack. A timeout of 0 waits indefinitely.
	// It returns ErrTimeout if nothing arrived in time, and the read
	// error of the link once it has failed or been closed.
	Receive(timeout time.Duration) ([]byte, error)

	// Close closes the link. Pending Receive calls return.
	Close() error

	// RemoteAddr describes the peer.
	RemoteAddr() string
}

// inboxSize is the number of frames buffered between the reader
// goroutine and Receive.
const inboxSize = 16

// options holds link settings.
type options struct {
	maxMessageSize uint32
	logger         log.Logger
	sessionID      string
	connectTimeout time.Duration
}

func newOptions(opts []Option) options {
	o := options{
		maxMessageSize: DefaultMaxMessageSize,
		connectTimeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Option configures a link.
type Option func(*options)

// WithMaxMessageSize sets the maximum pack size in both directions.
func WithMaxMessageSize(size uint32) Option {
	return func(o *options) {
		if size > 0 {
			o.maxMessageSize = size
		}
	}
}

// WithLogger logs every frame as a transport event.
func WithLogger(logger log.Logger, sessionID string) Option {
	return func(o *options) {
		o.logger = logger
		o.sessionID = sessionID
	}
}

// WithConnectTimeout bounds dialing when the context has no deadline.
func WithConnectTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.connectTimeout = d
		}
	}
}

// inbox runs a blocking frame source on its own goroutine.
type inbox struct {
	frames  chan []byte
	done    chan struct{}
	closing chan struct{}
	err     error
}

func startInbox(read func() ([]byte, error)) *inbox {
	in := &inbox{
		frames:  make(chan []byte, inboxSize),
		done:    make(chan struct{}),
		closing: make(chan struct{}),
	}
	go in.run(read)
	return in
}

func (in *inbox) run(read func() ([]byte, error)) {
	defer close(in.done)
	for {
		frame, err := read()
		if err != nil {
			select {
			case <-in.closing:
				in.err = ErrClosed
			default:
				in.err = err
			}
			return
		}
		select {
		case in.frames <- frame:
		case <-in.closing:
			in.err = ErrClosed
			return
		}
	}
}

// stop marks the inbox as closing. The owner closes the underlying
// connection to unblock the reader.
func (in *inbox) stop() {
	select {
	case <-in.closing:
	default:
		close(in.closing)
	}
}

func (in *inbox) receive(timeout time.Duration) ([]byte, error) {
	var expired <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		expired = timer.C
	}

	select {
	case frame := <-in.frames:
		return frame, nil
	case <-in.done:
		// Frames read before the failure are still delivered.
		select {
		case frame := <-in.frames:
			return frame, nil
		default:
			return nil, in.err
		}
	case <-expired:
		return nil, ErrTimeout
	}
}

var (
	_ Link = (*StreamLink)(nil)
	_ Link = (*WebSocketLink)(nil)
)
