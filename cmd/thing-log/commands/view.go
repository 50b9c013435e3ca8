// Package commands implements the thing-log CLI commands.
package commands

import (
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/thingsync/thing-go/pkg/log"
)

// timeFormat is used for every timestamp printed or exported.
const timeFormat = "2006-01-02T15:04:05.000000Z"

// formatEvent writes a human-readable representation of the event to w.
func formatEvent(w io.Writer, event log.Event) {
	// Header line: timestamp [session:id] DIRECTION LAYER CATEGORY label
	ts := event.Timestamp.UTC().Format(timeFormat)
	fmt.Fprintf(w, "%s [session:%s] %-3s %s %s %s\n",
		ts, shortenID(event.SessionID), event.Direction, event.Layer, event.Category, eventLabel(event))

	if event.DeviceName != "" || event.RemoteAddr != "" {
		fmt.Fprintf(w, "  Device: %s", event.DeviceName)
		if event.RemoteAddr != "" {
			fmt.Fprintf(w, "  Remote: %s", event.RemoteAddr)
		}
		fmt.Fprintln(w)
	}

	switch {
	case event.Frame != nil:
		formatFrameDetails(w, event.Frame)
	case event.Pack != nil:
		formatPackDetails(w, event.Pack)
	case event.Property != nil:
		formatPropertyDetails(w, event.Category, event.Property)
	case event.Error != nil:
		formatErrorDetails(w, event.Error)
	}

	fmt.Fprintln(w) // Blank line between events
}

// eventLabel names the payload carried by an event.
func eventLabel(event log.Event) string {
	switch {
	case event.Frame != nil:
		return "Frame"
	case event.Pack != nil:
		return "Pack"
	case event.Property != nil:
		return event.Property.Name
	case event.Error != nil:
		return "Error"
	default:
		return "Unknown"
	}
}

// shortenID returns the first 8 characters of a session ID.
func shortenID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}

func formatFrameDetails(w io.Writer, frame *log.FrameEvent) {
	fmt.Fprintf(w, "  Size: %d bytes\n", frame.Size)
	if len(frame.Data) > 0 {
		fmt.Fprintf(w, "  Data: %s", hex.EncodeToString(frame.Data))
		if frame.Truncated {
			fmt.Fprintf(w, " (truncated)")
		}
		fmt.Fprintln(w)
	}
}

func formatPackDetails(w io.Writer, pack *log.PackEvent) {
	fmt.Fprintf(w, "  Records: %d  Size: %d bytes", pack.Records, pack.Size)
	if pack.Sync {
		fmt.Fprint(w, "  (sync)")
	}
	fmt.Fprintln(w)
}

func formatPropertyDetails(w io.Writer, category log.Category, p *log.PropertyEvent) {
	fmt.Fprintf(w, "  Property: %s (#%d)\n", p.Name, p.Identifier)
	if p.Value != nil {
		fmt.Fprintf(w, "  Value: %v\n", p.Value)
	}
	if p.Reason != log.DropNone {
		fmt.Fprintf(w, "  Reason: %s\n", p.Reason)
	}
	if category == log.CategorySync {
		fmt.Fprintf(w, "  Local change: %d  Cloud change: %d\n", p.LocalChange, p.CloudChange)
	}
}

func formatErrorDetails(w io.Writer, err *log.ErrorEventData) {
	fmt.Fprintf(w, "  Layer: %s\n", err.Layer)
	fmt.Fprintf(w, "  Message: %s\n", err.Message)
	if err.Context != "" {
		fmt.Fprintf(w, "  Context: %s\n", err.Context)
	}
}

// ParseLayerFlag parses a layer name (case-insensitive).
func ParseLayerFlag(s string) (log.Layer, error) {
	switch strings.ToLower(s) {
	case "transport":
		return log.LayerTransport, nil
	case "wire":
		return log.LayerWire, nil
	case "container":
		return log.LayerContainer, nil
	default:
		return 0, fmt.Errorf("invalid layer: %s (must be transport, wire, or container)", s)
	}
}

// ParseDirectionFlag parses a direction name (case-insensitive).
func ParseDirectionFlag(s string) (log.Direction, error) {
	switch strings.ToLower(s) {
	case "in":
		return log.DirectionIn, nil
	case "out":
		return log.DirectionOut, nil
	default:
		return 0, fmt.Errorf("invalid direction: %s (must be in or out)", s)
	}
}

// ParseCategoryFlag parses a category name (case-insensitive).
func ParseCategoryFlag(s string) (log.Category, error) {
	c, ok := log.ParseCategory(s)
	if !ok {
		return 0, fmt.Errorf("invalid category: %s (must be publish, inbound, sync, dropped, or error)", s)
	}
	return c, nil
}

// RunView prints every event of the log file that matches the filter.
func RunView(path string, filter log.Filter, output io.Writer) error {
	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	for event, err := range reader.Events() {
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		formatEvent(output, event)
	}

	return nil
}
