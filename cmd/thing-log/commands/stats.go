package commands

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/thingsync/thing-go/pkg/log"
)

// Stats holds aggregate statistics about a log file.
type Stats struct {
	TotalEvents       int
	EventsByLayer     map[log.Layer]int
	EventsByCategory  map[log.Category]int
	EventsByDirection map[log.Direction]int
	DropsByReason     map[log.DropReason]int
	Sessions          map[string]*SessionStats
	Properties        map[string]*PropertyStats
	Errors            int
	TimeRange         struct {
		Start time.Time
		End   time.Time
	}
}

// SessionStats holds statistics for a single container session.
type SessionStats struct {
	FirstSeen  time.Time
	LastSeen   time.Time
	Events     int
	DeviceName string
	RemoteAddr string
	Packs      int
	SyncPacks  int
}

// PropertyStats counts container decisions for one property.
type PropertyStats struct {
	Inbound int
	Synced  int
	Dropped int
}

func newStats() *Stats {
	return &Stats{
		EventsByLayer:     make(map[log.Layer]int),
		EventsByCategory:  make(map[log.Category]int),
		EventsByDirection: make(map[log.Direction]int),
		DropsByReason:     make(map[log.DropReason]int),
		Sessions:          make(map[string]*SessionStats),
		Properties:        make(map[string]*PropertyStats),
	}
}

func (s *Stats) add(event log.Event) {
	s.TotalEvents++
	s.EventsByLayer[event.Layer]++
	s.EventsByCategory[event.Category]++
	s.EventsByDirection[event.Direction]++

	if s.TimeRange.Start.IsZero() || event.Timestamp.Before(s.TimeRange.Start) {
		s.TimeRange.Start = event.Timestamp
	}
	if event.Timestamp.After(s.TimeRange.End) {
		s.TimeRange.End = event.Timestamp
	}

	sess, ok := s.Sessions[event.SessionID]
	if !ok {
		sess = &SessionStats{FirstSeen: event.Timestamp, LastSeen: event.Timestamp}
		s.Sessions[event.SessionID] = sess
	}
	sess.Events++
	if event.Timestamp.After(sess.LastSeen) {
		sess.LastSeen = event.Timestamp
	}
	if event.DeviceName != "" && sess.DeviceName == "" {
		sess.DeviceName = event.DeviceName
	}
	if event.RemoteAddr != "" {
		sess.RemoteAddr = event.RemoteAddr
	}
	if event.Pack != nil {
		sess.Packs++
		if event.Pack.Sync {
			sess.SyncPacks++
		}
	}

	if p := event.Property; p != nil {
		ps, ok := s.Properties[p.Name]
		if !ok {
			ps = &PropertyStats{}
			s.Properties[p.Name] = ps
		}
		switch event.Category {
		case log.CategoryInbound:
			ps.Inbound++
		case log.CategorySync:
			ps.Synced++
		case log.CategoryDropped:
			ps.Dropped++
			s.DropsByReason[p.Reason]++
		}
	}

	if event.Error != nil {
		s.Errors++
	}
}

// RunStats analyzes the log file and prints statistics.
func RunStats(path string, w io.Writer) error {
	reader, err := log.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	stats := newStats()
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		stats.add(event)
	}

	printStats(w, stats)
	return nil
}

func printStats(w io.Writer, stats *Stats) {
	fmt.Fprintln(w, "=== Property Sync Log Statistics ===")
	fmt.Fprintln(w)

	if stats.TotalEvents > 0 {
		fmt.Fprintf(w, "Time Range: %s to %s\n",
			stats.TimeRange.Start.Format(time.RFC3339),
			stats.TimeRange.End.Format(time.RFC3339))
		fmt.Fprintf(w, "Duration:   %s\n", stats.TimeRange.End.Sub(stats.TimeRange.Start).Round(time.Second))
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Total Events: %d\n", stats.TotalEvents)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Layer:")
	for _, layer := range []log.Layer{log.LayerTransport, log.LayerWire, log.LayerContainer} {
		if count := stats.EventsByLayer[layer]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", layer.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Category:")
	for _, cat := range []log.Category{log.CategoryPublish, log.CategoryInbound, log.CategorySync, log.CategoryDropped, log.CategoryError} {
		if count := stats.EventsByCategory[cat]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", cat.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Direction:")
	for _, dir := range []log.Direction{log.DirectionIn, log.DirectionOut} {
		if count := stats.EventsByDirection[dir]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", dir.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	if len(stats.DropsByReason) > 0 {
		fmt.Fprintln(w, "Drops by Reason:")
		for _, r := range []log.DropReason{log.DropUnknownProperty, log.DropNotWritable, log.DropTypeMismatch} {
			if count := stats.DropsByReason[r]; count > 0 {
				fmt.Fprintf(w, "  %-18s %d\n", r.String()+":", count)
			}
		}
		fmt.Fprintln(w)
	}

	if len(stats.Properties) > 0 {
		names := make([]string, 0, len(stats.Properties))
		for name := range stats.Properties {
			names = append(names, name)
		}
		sort.Strings(names)

		fmt.Fprintf(w, "Properties: %d\n", len(names))
		for _, name := range names {
			ps := stats.Properties[name]
			fmt.Fprintf(w, "  %-20s inbound=%d sync=%d dropped=%d\n", name, ps.Inbound, ps.Synced, ps.Dropped)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Sessions: %d\n", len(stats.Sessions))
	if len(stats.Sessions) > 0 {
		type sessionInfo struct {
			id    string
			stats *SessionStats
		}
		sessions := make([]sessionInfo, 0, len(stats.Sessions))
		for id, ss := range stats.Sessions {
			sessions = append(sessions, sessionInfo{id, ss})
		}
		sort.Slice(sessions, func(i, j int) bool {
			return sessions[i].stats.FirstSeen.Before(sessions[j].stats.FirstSeen)
		})

		fmt.Fprintln(w)
		for _, s := range sessions {
			duration := s.stats.LastSeen.Sub(s.stats.FirstSeen).Round(time.Millisecond)
			fmt.Fprintf(w, "  [%s] %d events, %d packs (%d sync), duration %s\n",
				shortenID(s.id), s.stats.Events, s.stats.Packs, s.stats.SyncPacks, duration)
			if s.stats.DeviceName != "" {
				fmt.Fprintf(w, "           Device: %s\n", s.stats.DeviceName)
			}
			if s.stats.RemoteAddr != "" {
				fmt.Fprintf(w, "           Remote: %s\n", s.stats.RemoteAddr)
			}
		}
	}

	if stats.Errors > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Errors: %d\n", stats.Errors)
	}
}
