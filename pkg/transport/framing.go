package transport

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/thingsync/thing-go/pkg/log"
)

// Framing constants.
const (
	// LengthPrefixSize is the size of the length prefix in bytes.
	LengthPrefixSize = 4

	// DefaultMaxMessageSize is the default maximum pack size (64 KB).
	DefaultMaxMessageSize = 65536

	// MaxLogFrameDataSize is the maximum frame data size copied into
	// log events. Larger frames are truncated.
	MaxLogFrameDataSize = 4096
)

// Framing errors.
var (
	// ErrMessageTooLarge indicates the pack exceeds the maximum size.
	ErrMessageTooLarge = errors.New("message too large")

	// ErrMessageEmpty indicates an empty pack.
	ErrMessageEmpty = errors.New("message is empty")

	// ErrFrameTruncated indicates the stream ended inside a frame.
	ErrFrameTruncated = errors.New("frame truncated")
)

// frameLog emits transport events for frames. The zero value logs nothing.
type frameLog struct {
	logger    log.Logger
	sessionID string
}

func (fl frameLog) frame(data []byte, direction log.Direction, overhead int) {
	if fl.logger == nil {
		return
	}

	frameData := data
	truncated := false
	if len(data) > MaxLogFrameDataSize {
		frameData = data[:MaxLogFrameDataSize]
		truncated = true
	}

	category := log.CategoryPublish
	if direction == log.DirectionIn {
		category = log.CategoryInbound
	}

	fl.logger.Log(log.Event{
		Timestamp: time.Now(),
		SessionID: fl.sessionID,
		Direction: direction,
		Layer:     log.LayerTransport,
		Category:  category,
		Frame: &log.FrameEvent{
			Size:      overhead + len(data),
			Data:      frameData,
			Truncated: truncated,
		},
	})
}

// FrameWriter writes length-prefixed frames to an underlying writer.
type FrameWriter struct {
	w              io.Writer
	maxMessageSize uint32
	mu             sync.Mutex
	log            frameLog
}

// NewFrameWriter creates a frame writer with the given maximum pack size.
// A size of 0 selects DefaultMaxMessageSize.
func NewFrameWriter(w io.Writer, maxSize uint32) *FrameWriter {
	if maxSize == 0 {
		maxSize = DefaultMaxMessageSize
	}
	return &FrameWriter{w: w, maxMessageSize: maxSize}
}

// SetLogger configures frame logging. Pass nil to disable it.
func (fw *FrameWriter) SetLogger(logger log.Logger, sessionID string) {
	fw.log = frameLog{logger: logger, sessionID: sessionID}
}

// WriteFrame writes one length-prefixed frame. Safe for concurrent use.
func (fw *FrameWriter) WriteFrame(data []byte) error {
	if len(data) == 0 {
		return ErrMessageEmpty
	}
	if uint64(len(data)) > uint64(fw.maxMessageSize) {
		return fmt.Errorf("%w: %d > %d", ErrMessageTooLarge, len(data), fw.maxMessageSize)
	}

	// Prefix and payload go out in a single write.
	buf := make([]byte, LengthPrefixSize+len(data))
	binary.BigEndian.PutUint32(buf, uint32(len(data)))
	copy(buf[LengthPrefixSize:], data)

	fw.mu.Lock()
	defer fw.mu.Unlock()

	if _, err := fw.w.Write(buf); err != nil {
		return fmt.Errorf("failed to write frame: %w", err)
	}

	fw.log.frame(data, log.DirectionOut, LengthPrefixSize)
	return nil
}

// FrameReader reads length-prefixed frames from an underlying reader.
type FrameReader struct {
	r              io.Reader
	maxMessageSize uint32
	lengthBuf      [LengthPrefixSize]byte
	log            frameLog
}

// NewFrameReader creates a frame reader with the given maximum pack size.
// A size of 0 selects DefaultMaxMessageSize.
func NewFrameReader(r io.Reader, maxSize uint32) *FrameReader {
	if maxSize == 0 {
		maxSize = DefaultMaxMessageSize
	}
	return &FrameReader{r: r, maxMessageSize: maxSize}
}

// SetLogger configures frame logging. Pass nil to disable it.
func (fr *FrameReader) SetLogger(logger log.Logger, sessionID string) {
	fr.log = frameLog{logger: logger, sessionID: sessionID}
}

// ReadFrame reads one frame and returns its payload. A clean end of
// stream before a new frame returns io.EOF.
func (fr *FrameReader) ReadFrame() ([]byte, error) {
	if _, err := io.ReadFull(fr.r, fr.lengthBuf[:]); err != nil {
		if err == io.EOF {
			return nil, err
		}
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, ErrFrameTruncated
		}
		return nil, fmt.Errorf("failed to read length prefix: %w", err)
	}

	length := binary.BigEndian.Uint32(fr.lengthBuf[:])
	if length == 0 {
		return nil, ErrMessageEmpty
	}
	if length > fr.maxMessageSize {
		return nil, fmt.Errorf("%w: %d > %d", ErrMessageTooLarge, length, fr.maxMessageSize)
	}

	payload := make([]byte, length)
	if _, err := io.ReadFull(fr.r, payload); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || err == io.EOF {
			return nil, ErrFrameTruncated
		}
		return nil, fmt.Errorf("failed to read payload: %w", err)
	}

	fr.log.frame(payload, log.DirectionIn, LengthPrefixSize)
	return payload, nil
}

// Framer combines frame reading and writing on one stream.
type Framer struct {
	*FrameReader
	*FrameWriter
}

// NewFramer creates a framer for bidirectional communication.
func NewFramer(rw io.ReadWriter, maxSize uint32) *Framer {
	return &Framer{
		FrameReader: NewFrameReader(rw, maxSize),
		FrameWriter: NewFrameWriter(rw, maxSize),
	}
}

// SetLogger configures logging for both directions.
func (f *Framer) SetLogger(logger log.Logger, sessionID string) {
	f.FrameReader.SetLogger(logger, sessionID)
	f.FrameWriter.SetLogger(logger, sessionID)
}

// FrameSize returns the total frame size including the length prefix.
func FrameSize(payloadSize int) int {
	return LengthPrefixSize + payloadSize
}
