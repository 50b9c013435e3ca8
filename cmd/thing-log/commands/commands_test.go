package commands

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/thingsync/thing-go/pkg/log"
)

func createTestLogFile(t *testing.T, events []log.Event) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.tlog")

	logger, err := log.NewFileLogger(path)
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}
	for _, e := range events {
		logger.Log(e)
	}
	logger.Close()

	return path
}

func sampleEvents() []log.Event {
	ts := time.Date(2026, 1, 28, 10, 15, 32, 123456000, time.UTC)
	return []log.Event{
		{
			Timestamp:  ts,
			SessionID:  "abc12345-6789-0123-4567-890abcdef012",
			Direction:  log.DirectionOut,
			Layer:      log.LayerTransport,
			Category:   log.CategoryPublish,
			DeviceName: "greenhouse",
			RemoteAddr: "10.0.0.2:9000",
			Frame:      &log.FrameEvent{Size: 12, Data: []byte{0x81, 0xa2}},
		},
		{
			Timestamp:  ts.Add(time.Millisecond),
			SessionID:  "abc12345-6789-0123-4567-890abcdef012",
			Direction:  log.DirectionIn,
			Layer:      log.LayerWire,
			Category:   log.CategoryInbound,
			DeviceName: "greenhouse",
			Pack:       &log.PackEvent{Records: 2, Size: 30, Sync: true},
		},
		{
			Timestamp: ts.Add(2 * time.Millisecond),
			SessionID: "abc12345-6789-0123-4567-890abcdef012",
			Direction: log.DirectionIn,
			Layer:     log.LayerContainer,
			Category:  log.CategorySync,
			Property:  &log.PropertyEvent{Name: "setpoint", Identifier: 3, LocalChange: 1700000000, CloudChange: 1700000100},
		},
		{
			Timestamp: ts.Add(3 * time.Millisecond),
			SessionID: "abc12345-6789-0123-4567-890abcdef012",
			Direction: log.DirectionIn,
			Layer:     log.LayerContainer,
			Category:  log.CategoryDropped,
			Property:  &log.PropertyEvent{Name: "temperature", Identifier: 0, Reason: log.DropNotWritable},
		},
		{
			Timestamp: ts.Add(4 * time.Second),
			SessionID: "ffff0000-second-session",
			Direction: log.DirectionIn,
			Layer:     log.LayerContainer,
			Category:  log.CategoryInbound,
			Property:  &log.PropertyEvent{Name: "setpoint", Identifier: 3, Value: 22.5},
		},
		{
			Timestamp: ts.Add(5 * time.Second),
			SessionID: "ffff0000-second-session",
			Direction: log.DirectionIn,
			Layer:     log.LayerWire,
			Category:  log.CategoryError,
			Error:     &log.ErrorEventData{Layer: log.LayerWire, Message: "unexpected EOF", Context: "decode"},
		},
	}
}

func TestFormatEvents(t *testing.T) {
	tests := []struct {
		name  string
		event log.Event
		want  []string
	}{
		{
			name:  "frame",
			event: sampleEvents()[0],
			want: []string{
				"2026-01-28T10:15:32.123456Z",
				"[session:abc12345]",
				"OUT TRANSPORT PUBLISH Frame",
				"Device: greenhouse  Remote: 10.0.0.2:9000",
				"Size: 12 bytes",
				"Data: 81a2",
			},
		},
		{
			name:  "sync pack",
			event: sampleEvents()[1],
			want:  []string{"IN  WIRE INBOUND Pack", "Records: 2  Size: 30 bytes  (sync)"},
		},
		{
			name:  "sync decision",
			event: sampleEvents()[2],
			want:  []string{"CONTAINER SYNC setpoint", "Property: setpoint (#3)", "Local change: 1700000000  Cloud change: 1700000100"},
		},
		{
			name:  "drop",
			event: sampleEvents()[3],
			want:  []string{"DROPPED temperature", "Reason: NOT_WRITABLE"},
		},
		{
			name:  "inbound value",
			event: sampleEvents()[4],
			want:  []string{"[session:ffff0000]", "Value: 22.5"},
		},
		{
			name:  "error",
			event: sampleEvents()[5],
			want:  []string{"ERROR Error", "Message: unexpected EOF", "Context: decode"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			formatEvent(&buf, tt.event)
			out := buf.String()
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("output missing %q:\n%s", w, out)
				}
			}
		})
	}
}

func TestFormatDropOmitsSyncTimes(t *testing.T) {
	var buf bytes.Buffer
	formatEvent(&buf, sampleEvents()[3])
	if strings.Contains(buf.String(), "Local change") {
		t.Errorf("drop event shows sync times:\n%s", buf.String())
	}
}

func TestParseFlags(t *testing.T) {
	if l, err := ParseLayerFlag("Container"); err != nil || l != log.LayerContainer {
		t.Errorf("ParseLayerFlag(Container) = %v, %v", l, err)
	}
	if _, err := ParseLayerFlag("service"); err == nil {
		t.Error("ParseLayerFlag(service) should fail")
	}
	if d, err := ParseDirectionFlag("OUT"); err != nil || d != log.DirectionOut {
		t.Errorf("ParseDirectionFlag(OUT) = %v, %v", d, err)
	}
	if _, err := ParseDirectionFlag("sideways"); err == nil {
		t.Error("ParseDirectionFlag(sideways) should fail")
	}
	if c, err := ParseCategoryFlag("dropped"); err != nil || c != log.CategoryDropped {
		t.Errorf("ParseCategoryFlag(dropped) = %v, %v", c, err)
	}
	if _, err := ParseCategoryFlag("message"); err == nil {
		t.Error("ParseCategoryFlag(message) should fail")
	}
}

func TestRunViewFilters(t *testing.T) {
	path := createTestLogFile(t, sampleEvents())

	filter, err := FilterOptions{Property: "setpoint"}.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	var buf bytes.Buffer
	if err := RunView(path, filter, &buf); err != nil {
		t.Fatalf("RunView failed: %v", err)
	}

	out := buf.String()
	if n := strings.Count(out, "Property: setpoint"); n != 2 {
		t.Errorf("expected 2 setpoint events, got %d:\n%s", n, out)
	}
	if strings.Contains(out, "temperature") {
		t.Errorf("filtered output contains other properties:\n%s", out)
	}
}

func TestRunViewMissingFile(t *testing.T) {
	err := RunView(filepath.Join(t.TempDir(), "missing.tlog"), log.Filter{}, &bytes.Buffer{})
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestFilterOptionsBuild(t *testing.T) {
	filter, err := FilterOptions{
		SessionID: "s",
		TimeStart: "2026-01-28T10:00:00Z",
		TimeEnd:   "2026-01-28T11:00:00Z",
		Layer:     "wire",
		Direction: "in",
		Category:  "inbound",
	}.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if filter.SessionID != "s" || filter.TimeStart == nil || filter.TimeEnd == nil {
		t.Errorf("unexpected filter: %+v", filter)
	}
	if *filter.Layer != log.LayerWire || *filter.Direction != log.DirectionIn || *filter.Category != log.CategoryInbound {
		t.Errorf("unexpected selectors: %v %v %v", *filter.Layer, *filter.Direction, *filter.Category)
	}

	for _, bad := range []FilterOptions{
		{TimeStart: "yesterday"},
		{TimeEnd: "10:00"},
		{Layer: "session"},
		{Direction: "both"},
		{Category: "state"},
	} {
		if _, err := bad.Build(); err == nil {
			t.Errorf("Build(%+v) should fail", bad)
		}
	}
}

func TestRunFilterWritesMatchingEvents(t *testing.T) {
	path := createTestLogFile(t, sampleEvents())
	outPath := filepath.Join(t.TempDir(), "filtered.tlog")

	count, err := RunFilter(path, outPath, FilterOptions{SessionID: "ffff0000-second-session"})
	if err != nil {
		t.Fatalf("RunFilter failed: %v", err)
	}
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}

	reader, err := log.NewReader(outPath)
	if err != nil {
		t.Fatalf("failed to open output: %v", err)
	}
	defer reader.Close()

	event, err := reader.Next()
	if err != nil {
		t.Fatalf("failed to read event: %v", err)
	}
	if event.SessionID != "ffff0000-second-session" || event.Property == nil || event.Property.Name != "setpoint" {
		t.Errorf("unexpected first event: %+v", event)
	}
}

func TestRunFilterRejectsBadOptions(t *testing.T) {
	path := createTestLogFile(t, sampleEvents())
	if _, err := RunFilter(path, filepath.Join(t.TempDir(), "out.tlog"), FilterOptions{Category: "bogus"}); err == nil {
		t.Error("expected error for bad category")
	}
}

func TestExportJSONL(t *testing.T) {
	path := createTestLogFile(t, sampleEvents())
	outPath := filepath.Join(t.TempDir(), "out.jsonl")

	if err := RunExport(path, "jsonl", outPath); err != nil {
		t.Fatalf("RunExport failed: %v", err)
	}

	f, err := os.Open(outPath)
	if err != nil {
		t.Fatalf("failed to open export: %v", err)
	}
	defer f.Close()

	lines := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var event log.Event
		if err := json.Unmarshal(scanner.Bytes(), &event); err != nil {
			t.Fatalf("line %d is not an event: %v", lines, err)
		}
		lines++
	}
	if lines != len(sampleEvents()) {
		t.Errorf("exported %d lines, want %d", lines, len(sampleEvents()))
	}
}

func TestExportCSV(t *testing.T) {
	path := createTestLogFile(t, sampleEvents())
	outPath := filepath.Join(t.TempDir(), "out.csv")

	if err := RunExport(path, "csv", outPath); err != nil {
		t.Fatalf("RunExport failed: %v", err)
	}

	f, err := os.Open(outPath)
	if err != nil {
		t.Fatalf("failed to open export: %v", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("invalid CSV: %v", err)
	}
	if len(rows) != len(sampleEvents())+1 {
		t.Fatalf("got %d rows, want header plus %d", len(rows), len(sampleEvents()))
	}
	if rows[0][0] != "timestamp" || rows[0][7] != "property" {
		t.Errorf("unexpected header: %v", rows[0])
	}
	// Dropped temperature update.
	drop := rows[4]
	if drop[6] != "property" || drop[7] != "temperature" || drop[8] != "NOT_WRITABLE" {
		t.Errorf("unexpected drop row: %v", drop)
	}
	// Sync pack.
	if rows[2][6] != "pack" || rows[2][9] != "2" {
		t.Errorf("unexpected pack row: %v", rows[2])
	}
}

func TestExportUnknownFormat(t *testing.T) {
	path := createTestLogFile(t, sampleEvents())
	if err := RunExport(path, "xml", filepath.Join(t.TempDir(), "out.xml")); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestRunStats(t *testing.T) {
	path := createTestLogFile(t, sampleEvents())

	var buf bytes.Buffer
	if err := RunStats(path, &buf); err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"Total Events: 6",
		"TRANSPORT:",
		"CONTAINER:",
		"DROPPED:",
		"NOT_WRITABLE:",
		"setpoint",
		"inbound=1 sync=1 dropped=0",
		"temperature",
		"Sessions: 2",
		"[abc12345] 4 events, 1 packs (1 sync)",
		"Device: greenhouse",
		"Remote: 10.0.0.2:9000",
		"Errors: 1",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("stats missing %q:\n%s", want, out)
		}
	}
}

func TestRunStatsEmptyFile(t *testing.T) {
	path := createTestLogFile(t, nil)

	var buf bytes.Buffer
	if err := RunStats(path, &buf); err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}
	if !strings.Contains(buf.String(), "Total Events: 0") {
		t.Errorf("unexpected output:\n%s", buf.String())
	}
	if strings.Contains(buf.String(), "Time Range") {
		t.Error("empty log should not print a time range")
	}
}
