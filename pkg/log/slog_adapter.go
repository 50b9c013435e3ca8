package log

import (
	"context"
	"log/slog"
)

// SlogAdapter writes sync events to an slog.Logger.
// Useful for development when you want to see sync events in console.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a new SlogAdapter that writes to the given slog.Logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event to the slog logger at Debug level.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("session_id", event.SessionID),
		slog.String("direction", event.Direction.String()),
		slog.String("layer", event.Layer.String()),
		slog.String("category", event.Category.String()),
	}

	if event.DeviceName != "" {
		attrs = append(attrs, slog.String("device", event.DeviceName))
	}
	if event.RemoteAddr != "" {
		attrs = append(attrs, slog.String("remote", event.RemoteAddr))
	}

	// Add type-specific attributes
	switch {
	case event.Frame != nil:
		attrs = append(attrs,
			slog.Int("frame_size", event.Frame.Size),
			slog.Bool("truncated", event.Frame.Truncated),
		)
	case event.Pack != nil:
		attrs = append(attrs,
			slog.Int("records", event.Pack.Records),
			slog.Int("size", event.Pack.Size),
		)
		if event.Pack.Sync {
			attrs = append(attrs, slog.Bool("sync", true))
		}
	case event.Property != nil:
		attrs = append(attrs,
			slog.String("property", event.Property.Name),
			slog.Int("identifier", event.Property.Identifier),
		)
		if event.Property.Value != nil {
			attrs = append(attrs, slog.Any("value", event.Property.Value))
		}
		if event.Property.Reason != DropNone {
			attrs = append(attrs, slog.String("reason", event.Property.Reason.String()))
		}
		if event.Category == CategorySync {
			attrs = append(attrs,
				slog.Uint64("local_change", event.Property.LocalChange),
				slog.Uint64("cloud_change", event.Property.CloudChange),
			)
		}
	case event.Error != nil:
		attrs = append(attrs,
			slog.String("error_layer", event.Error.Layer.String()),
			slog.String("error_msg", event.Error.Message),
			slog.String("error_context", event.Error.Context),
		)
	}

	a.logger.LogAttrs(context.Background(), slog.LevelDebug, "sync", attrs...)
}

// Compile-time interface satisfaction check.
var _ Logger = (*SlogAdapter)(nil)
