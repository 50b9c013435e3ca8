// Command thing-log is a tool for viewing and analyzing property sync logs.
//
// Log files are written by thing-device when started with the -sync-log
// flag (or log.file in the device description).
//
// Usage:
//
//	thing-log <command> [flags] <file.tlog>
//
// Commands:
//
//	view     View log file in human-readable format
//	export   Export log file to JSON or CSV format
//	filter   Filter log file and write to new file
//	stats    Show statistics about the log file
//
// Examples:
//
//	# View all events
//	thing-log view device.tlog
//
//	# View only dropped inbound updates
//	thing-log view -category dropped device.tlog
//
//	# Follow a single property
//	thing-log view -property setpoint device.tlog
//
//	# Export to JSONL
//	thing-log export -format jsonl device.tlog
//
//	# Keep one session and save to new file
//	thing-log filter -session 3f2a9c1e-... -o session.tlog device.tlog
//
//	# Show statistics
//	thing-log stats device.tlog
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/thingsync/thing-go/cmd/thing-log/commands"
)

const usage = `thing-log - Property Sync Log Analyzer

Usage:
  thing-log <command> [flags] <file.tlog>

Commands:
  view     View log file in human-readable format
  export   Export log file to JSON or CSV format
  filter   Filter log file and write to new file
  stats    Show statistics about the log file

Use "thing-log <command> -help" for more information about a command.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "view":
		runView(args)
	case "export":
		runExport(args)
	case "filter":
		runFilter(args)
	case "stats":
		runStats(args)
	case "-h", "-help", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
}

// filterFlags registers the event selection flags shared by view and filter.
func filterFlags(fs *flag.FlagSet) *commands.FilterOptions {
	opts := &commands.FilterOptions{}
	fs.StringVar(&opts.SessionID, "session", "", "Filter by session ID")
	fs.StringVar(&opts.DeviceName, "device", "", "Filter by device name")
	fs.StringVar(&opts.Property, "property", "", "Filter by property name")
	fs.StringVar(&opts.TimeStart, "time-start", "", "Filter by start time (RFC3339)")
	fs.StringVar(&opts.TimeEnd, "time-end", "", "Filter by end time (RFC3339)")
	fs.StringVar(&opts.Layer, "layer", "", "Filter by layer (transport, wire, container)")
	fs.StringVar(&opts.Direction, "direction", "", "Filter by direction (in, out)")
	fs.StringVar(&opts.Category, "category", "", "Filter by category (publish, inbound, sync, dropped, error)")
	return opts
}

// requirePath returns the single positional log file argument.
func requirePath(fs *flag.FlagSet) string {
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: log file path required")
		fs.Usage()
		os.Exit(1)
	}
	return fs.Arg(0)
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func runView(args []string) {
	fs := flag.NewFlagSet("view", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `thing-log view - View log file in human-readable format

Usage:
  thing-log view [flags] <file.tlog>

Flags:
`)
		fs.PrintDefaults()
	}
	opts := filterFlags(fs)

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	path := requirePath(fs)

	filter, err := opts.Build()
	if err != nil {
		fail(err)
	}
	if err := commands.RunView(path, filter, os.Stdout); err != nil {
		fail(err)
	}
}

func runExport(args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `thing-log export - Export log file to JSON or CSV format

Usage:
  thing-log export [flags] <file.tlog>

Flags:
`)
		fs.PrintDefaults()
	}

	format := fs.String("format", "jsonl", "Output format (jsonl, csv)")
	output := fs.String("o", "", "Output file (default: stdout)")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	path := requirePath(fs)

	if err := commands.RunExport(path, *format, *output); err != nil {
		fail(err)
	}
}

func runFilter(args []string) {
	fs := flag.NewFlagSet("filter", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `thing-log filter - Filter log file and write to new file

Usage:
  thing-log filter [flags] <file.tlog>

Flags:
`)
		fs.PrintDefaults()
	}

	output := fs.String("o", "", "Output file (required)")
	opts := filterFlags(fs)

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	path := requirePath(fs)

	if *output == "" {
		fmt.Fprintln(os.Stderr, "Error: output file (-o) required")
		fs.Usage()
		os.Exit(1)
	}

	count, err := commands.RunFilter(path, *output, *opts)
	if err != nil {
		fail(err)
	}
	fmt.Printf("Filtered %d events to %s\n", count, *output)
}

func runStats(args []string) {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `thing-log stats - Show statistics about the log file

Usage:
  thing-log stats <file.tlog>

`)
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	path := requirePath(fs)

	if err := commands.RunStats(path, os.Stdout); err != nil {
		fail(err)
	}
}
