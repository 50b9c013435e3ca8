package log

import (
	"os"
	"sync"

	"github.com/fxamacker/cbor/v2"
)

// FileLogger appends sync events to a .tlog file as a CBOR sequence.
// Events from separate runs accumulate in the same file; the session ID
// tells them apart.
type FileLogger struct {
	mu      sync.Mutex
	path    string
	file    *os.File
	enc     *cbor.Encoder
	written int
	failed  int
}

// NewFileLogger opens path for appending, creating it with mode 0640.
func NewFileLogger(path string) (*FileLogger, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o640)
	if err != nil {
		return nil, err
	}
	return &FileLogger{path: path, file: f, enc: NewEncoder(f)}, nil
}

// Path returns the file the logger writes to.
func (l *FileLogger) Path() string { return l.path }

// Log encodes event to the file. Encoding failures are counted, not
// returned. Events logged after Close are dropped.
func (l *FileLogger) Log(event Event) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return
	}
	if err := l.enc.Encode(event); err != nil {
		l.failed++
		return
	}
	l.written++
}

// Counts returns how many events were written and how many failed.
func (l *FileLogger) Counts() (written, failed int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.written, l.failed
}

// Close flushes and closes the file. Later calls return nil.
func (l *FileLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return nil
	}
	f := l.file
	l.file = nil

	syncErr := f.Sync()
	if err := f.Close(); err != nil {
		return err
	}
	return syncErr
}

var _ Logger = (*FileLogger)(nil)
