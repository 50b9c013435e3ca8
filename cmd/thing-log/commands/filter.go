package commands

import (
	"fmt"
	"time"

	"github.com/thingsync/thing-go/pkg/log"
)

// FilterOptions specifies filtering criteria given as command-line strings.
type FilterOptions struct {
	SessionID  string
	DeviceName string
	Property   string
	TimeStart  string
	TimeEnd    string
	Layer      string
	Direction  string
	Category   string
}

// Build parses the options into a log filter.
func (o FilterOptions) Build() (log.Filter, error) {
	filter := log.Filter{
		SessionID:  o.SessionID,
		DeviceName: o.DeviceName,
		Property:   o.Property,
	}

	if o.TimeStart != "" {
		t, err := time.Parse(time.RFC3339, o.TimeStart)
		if err != nil {
			return log.Filter{}, fmt.Errorf("invalid time-start format: %w", err)
		}
		filter.TimeStart = &t
	}

	if o.TimeEnd != "" {
		t, err := time.Parse(time.RFC3339, o.TimeEnd)
		if err != nil {
			return log.Filter{}, fmt.Errorf("invalid time-end format: %w", err)
		}
		filter.TimeEnd = &t
	}

	if o.Layer != "" {
		l, err := ParseLayerFlag(o.Layer)
		if err != nil {
			return log.Filter{}, err
		}
		filter.Layer = &l
	}

	if o.Direction != "" {
		d, err := ParseDirectionFlag(o.Direction)
		if err != nil {
			return log.Filter{}, err
		}
		filter.Direction = &d
	}

	if o.Category != "" {
		c, err := ParseCategoryFlag(o.Category)
		if err != nil {
			return log.Filter{}, err
		}
		filter.Category = &c
	}

	return filter, nil
}

// RunFilter writes the events matching the options to a new log file and
// returns how many were written.
func RunFilter(path, output string, opts FilterOptions) (int, error) {
	filter, err := opts.Build()
	if err != nil {
		return 0, err
	}

	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	logger, err := log.NewFileLogger(output)
	if err != nil {
		return 0, fmt.Errorf("failed to create output logger: %w", err)
	}
	defer logger.Close()

	for event, err := range reader.Events() {
		if err != nil {
			written, _ := logger.Counts()
			return written, fmt.Errorf("failed to read event: %w", err)
		}
		logger.Log(event)
	}

	written, failed := logger.Counts()
	if failed > 0 {
		return written, fmt.Errorf("failed to write %d events to %s", failed, output)
	}
	return written, nil
}
