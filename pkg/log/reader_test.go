package log

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeTestLog(t *testing.T, events []Event) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.tlog")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("failed to create test log: %v", err)
	}
	for _, e := range events {
		logger.Log(e)
	}
	logger.Close()
	return path
}

func readAll(t *testing.T, r *Reader) []Event {
	t.Helper()
	var out []Event
	for event, err := range r.Events() {
		if err != nil {
			t.Fatalf("Events failed: %v", err)
		}
		out = append(out, event)
	}
	return out
}

func sampleEvents(base time.Time) []Event {
	return []Event{
		{Timestamp: base, SessionID: "a", Direction: DirectionOut, Layer: LayerWire, Category: CategoryPublish, Pack: &PackEvent{Records: 2}},
		{Timestamp: base.Add(time.Minute), SessionID: "a", Direction: DirectionIn, Layer: LayerContainer, Category: CategoryInbound, Property: &PropertyEvent{Name: "setpoint"}},
		{Timestamp: base.Add(2 * time.Minute), SessionID: "b", Direction: DirectionIn, Layer: LayerContainer, Category: CategoryDropped, Property: &PropertyEvent{Name: "sensor", Reason: DropNotWritable}},
		{Timestamp: base.Add(3 * time.Minute), SessionID: "b", Direction: DirectionIn, Layer: LayerContainer, Category: CategorySync, Property: &PropertyEvent{Name: "setpoint"}, DeviceName: "dev"},
	}
}

func TestReaderIteratesInOrder(t *testing.T) {
	path := writeTestLog(t, sampleEvents(time.Now()))

	reader, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	defer reader.Close()

	events := readAll(t, reader)
	if len(events) != 4 {
		t.Fatalf("got %d events, want 4", len(events))
	}
	if events[0].Category != CategoryPublish || events[3].Category != CategorySync {
		t.Errorf("order: got %v ... %v", events[0].Category, events[3].Category)
	}
}

func TestReaderEmptyFile(t *testing.T) {
	path := writeTestLog(t, nil)

	reader, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	defer reader.Close()

	if _, err := reader.Next(); err != io.EOF {
		t.Errorf("Next on empty file: got %v, want io.EOF", err)
	}
}

func TestReaderTruncatedFile(t *testing.T) {
	path := writeTestLog(t, sampleEvents(time.Now())[:1])

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data[:len(data)-3], 0644); err != nil {
		t.Fatal(err)
	}

	reader, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	defer reader.Close()

	if _, err := reader.Next(); err == nil || err == io.EOF {
		t.Errorf("Next on truncated file: got %v, want decode error", err)
	}
}

func TestReaderEventsStopsAtError(t *testing.T) {
	path := writeTestLog(t, sampleEvents(time.Now())[:2])

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data[:len(data)-3], 0644); err != nil {
		t.Fatal(err)
	}

	reader, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	defer reader.Close()

	var good, bad int
	for _, err := range reader.Events() {
		if err != nil {
			bad++
			continue
		}
		good++
	}
	if good != 1 || bad != 1 {
		t.Errorf("got %d events and %d errors, want 1 and 1", good, bad)
	}
}

func TestFilterMatchValue(t *testing.T) {
	e := Event{SessionID: "a", Category: CategoryPublish}
	if !(Filter{}).Match(e) {
		t.Error("empty filter should match")
	}
	if (Filter{Property: "setpoint"}).Match(e) {
		t.Error("property filter should not match an event without a property")
	}
}

func TestReaderFilters(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	path := writeTestLog(t, sampleEvents(base))

	dropped := CategoryDropped
	in := DirectionIn
	container := LayerContainer
	start := base.Add(30 * time.Second)
	end := base.Add(150 * time.Second)

	tests := []struct {
		name   string
		filter Filter
		want   int
	}{
		{"none", Filter{}, 4},
		{"session", Filter{SessionID: "b"}, 2},
		{"category", Filter{Category: &dropped}, 1},
		{"direction", Filter{Direction: &in}, 3},
		{"layer", Filter{Layer: &container}, 3},
		{"time range", Filter{TimeStart: &start, TimeEnd: &end}, 2},
		{"property", Filter{Property: "setpoint"}, 2},
		{"device", Filter{DeviceName: "dev"}, 1},
		{"combined", Filter{SessionID: "a", Property: "setpoint"}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reader, err := NewFilteredReader(path, tt.filter)
			if err != nil {
				t.Fatalf("NewFilteredReader failed: %v", err)
			}
			defer reader.Close()

			if got := len(readAll(t, reader)); got != tt.want {
				t.Errorf("got %d events, want %d", got, tt.want)
			}
		})
	}
}

func TestReaderMissingFile(t *testing.T) {
	if _, err := NewReader(filepath.Join(t.TempDir(), "nope.tlog")); err == nil {
		t.Error("expected error for missing file")
	}
}
