// Package interactive provides the interactive command-line interface
// for the thing device.
package interactive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"github.com/thingsync/thing-go/pkg/memio"
	"github.com/thingsync/thing-go/pkg/property"
	"github.com/thingsync/thing-go/pkg/thing"
)

// Controller gives the console access to the device's property container.
// The container is not safe for concurrent use, so every access runs
// through Do on the goroutine that owns it.
type Controller interface {
	// Do runs fn on the goroutine owning the container.
	Do(ctx context.Context, fn func(th *thing.Thing)) error

	// Sync replays the attribute bridge through the sync hooks and
	// publishes every readable property.
	Sync(ctx context.Context) error

	// Connected reports whether a mirror link is up.
	Connected(ctx context.Context) bool
}

// Device handles interactive mode for thing-device.
type Device struct {
	ctrl  Controller
	store *memio.Store
	rl    *readline.Instance
	out   io.Writer
}

// New creates a new interactive device handler.
func New(ctrl Controller, store *memio.Store) (*Device, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "thing> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		AutoComplete:    completer(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}

	d := newDevice(ctrl, store, rl.Stdout())
	d.rl = rl
	return d, nil
}

func newDevice(ctrl Controller, store *memio.Store, out io.Writer) *Device {
	return &Device{ctrl: ctrl, store: store, out: out}
}

func completer() *readline.PrefixCompleter {
	return readline.NewPrefixCompleter(
		readline.PcItem("help"),
		readline.PcItem("show"),
		readline.PcItem("get"),
		readline.PcItem("set"),
		readline.PcItem("inbound"),
		readline.PcItem("bridge"),
		readline.PcItem("sync"),
		readline.PcItem("stats"),
		readline.PcItem("quit"),
	)
}

// Stdout returns a writer that properly coordinates with the readline input.
// Use this for log output to avoid interfering with the command prompt.
func (d *Device) Stdout() io.Writer {
	return d.rl.Stdout()
}

// Run starts the interactive command loop.
func (d *Device) Run(ctx context.Context, cancel context.CancelFunc) {
	defer d.rl.Close()

	d.printHelp()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := d.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(d.out, "Exiting...")
			cancel()
			return
		}

		if d.Execute(ctx, line) {
			cancel()
			return
		}
	}
}

// Execute runs one command line. It returns true if the console should exit.
func (d *Device) Execute(ctx context.Context, line string) bool {
	input := strings.TrimSpace(line)
	if input == "" {
		return false
	}

	parts := strings.Fields(input)
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "help", "?":
		d.printHelp()

	case "show", "ls":
		d.cmdShow(ctx)

	case "get", "g":
		d.cmdGet(ctx, args)

	case "set", "s":
		d.cmdSet(ctx, args)

	case "inbound", "in":
		d.cmdInbound(ctx, args)

	case "bridge", "b":
		d.cmdBridge()

	case "sync":
		d.cmdSync(ctx)

	case "stats":
		d.cmdStats(ctx)

	case "quit", "exit", "q":
		fmt.Fprintln(d.out, "Exiting...")
		return true

	default:
		fmt.Fprintf(d.out, "Unknown command: %s (type 'help' for commands)\n", cmd)
	}
	return false
}

func (d *Device) printHelp() {
	fmt.Fprintln(d.out, `
Thing Device Commands:
  Properties:
    show                   - List all properties with local and cloud values
    get <name>             - Show one property in detail
    set <name> <value>     - Change a device-owned value (composite: set pos.lat 45.1)

  Attribute Bridge:
    inbound <attr> <value> - Write a value into the bridge, as the radio module would
    bridge                 - List the bridge attributes

  Sync:
    sync                   - Replay the bridge through the sync hooks and publish all
    stats                  - Show container and bridge counters

  General:
    help                   - Show this help
    quit                   - Exit device`)
}

func (d *Device) cmdShow(ctx context.Context) {
	err := d.ctrl.Do(ctx, func(th *thing.Thing) {
		props := th.Properties()
		if len(props) == 0 {
			fmt.Fprintln(d.out, "No properties")
			return
		}

		fmt.Fprintf(d.out, "\nProperties (%d):\n", len(props))
		fmt.Fprintln(d.out, "-------------------------------------------")
		for _, p := range props {
			for _, attr := range p.Value().Attributes() {
				name := th.Naming().Join(p.Name(), attr.Name)
				marker := " "
				if attr.Scalar.IsDifferentFromCloud(0) {
					marker = "*"
				}
				fmt.Fprintf(d.out, "%s %-20s #%-4d %-2s %-8s local=%-12v cloud=%v\n",
					marker, name, p.Identifier(), p.Permission(), attr.Scalar.Kind(),
					attr.Scalar.Local(), attr.Scalar.Cloud())
			}
		}
		fmt.Fprintln(d.out, "(* local value not yet published)")
	})
	d.report(err)
}

func (d *Device) cmdGet(ctx context.Context, args []string) {
	if len(args) < 1 {
		fmt.Fprintln(d.out, "Usage: get <name>")
		return
	}

	err := d.ctrl.Do(ctx, func(th *thing.Thing) {
		p := th.Lookup(args[0])
		if p == nil {
			fmt.Fprintf(d.out, "Unknown property: %s\n", args[0])
			return
		}

		fmt.Fprintf(d.out, "%s (#%d)\n", p.Name(), p.Identifier())
		fmt.Fprintf(d.out, "  Type:        %s\n", p.Value().Kind())
		fmt.Fprintf(d.out, "  Permission:  %s\n", p.Permission())
		fmt.Fprintf(d.out, "  Policy:      %s\n", p.Policy())
		if p.MinDelta() > 0 {
			fmt.Fprintf(d.out, "  Min delta:   %g\n", p.MinDelta())
		}
		for _, attr := range p.Value().Attributes() {
			label := "Value"
			if attr.Name != "" {
				label = attr.Name
			}
			fmt.Fprintf(d.out, "  %-12s local=%v cloud=%v\n", label+":", attr.Scalar.Local(), attr.Scalar.Cloud())
		}
		fmt.Fprintf(d.out, "  Last update: %d ms\n", p.LastUpdated())
		fmt.Fprintf(d.out, "  Local change: %d  Cloud change: %d\n", p.LastLocalChange(), p.LastCloudChange())
	})
	d.report(err)
}

func (d *Device) cmdSet(ctx context.Context, args []string) {
	if len(args) < 2 {
		fmt.Fprintln(d.out, "Usage: set <name> <value>")
		fmt.Fprintln(d.out, "  Example: set temperature 21.5")
		return
	}
	raw := strings.Join(args[1:], " ")

	var setErr error
	err := d.ctrl.Do(ctx, func(th *thing.Thing) {
		scalar, err := resolveScalar(th, args[0])
		if err != nil {
			setErr = err
			return
		}
		v, err := ParseValue(scalar.Kind(), raw)
		if err != nil {
			setErr = err
			return
		}
		setErr = scalar.SetLocal(v)
	})
	if err == nil {
		err = setErr
	}
	if err != nil {
		fmt.Fprintf(d.out, "Set failed: %v\n", err)
		return
	}
	fmt.Fprintln(d.out, "OK")
}

func (d *Device) cmdInbound(ctx context.Context, args []string) {
	if len(args) < 2 {
		fmt.Fprintln(d.out, "Usage: inbound <attr> <value>")
		fmt.Fprintln(d.out, "  Example: inbound setpoint 19")
		return
	}
	name, raw := args[0], strings.Join(args[1:], " ")

	current, ok := d.store.Get(name)
	if !ok {
		fmt.Fprintf(d.out, "Unknown attribute: %s (see 'bridge')\n", name)
		return
	}
	v, err := ParseValue(kindOf(current), raw)
	if err != nil {
		fmt.Fprintf(d.out, "Inbound failed: %v\n", err)
		return
	}

	// Between two cycles, so the write pass cannot overwrite it.
	var setErr error
	if err := d.ctrl.Do(ctx, func(*thing.Thing) { setErr = d.store.Set(name, v) }); err != nil {
		setErr = err
	}
	if setErr != nil {
		fmt.Fprintf(d.out, "Inbound failed: %v\n", setErr)
		return
	}
	fmt.Fprintln(d.out, "OK (applied on the next cycle)")
}

func (d *Device) cmdBridge() {
	names := d.store.Names()
	if len(names) == 0 {
		fmt.Fprintln(d.out, "Bridge is empty")
		return
	}
	for _, name := range names {
		v, _ := d.store.Get(name)
		fmt.Fprintf(d.out, "  %-20s %v\n", name, v)
	}
}

func (d *Device) cmdSync(ctx context.Context) {
	if err := d.ctrl.Sync(ctx); err != nil {
		fmt.Fprintf(d.out, "Sync failed: %v\n", err)
		return
	}
	fmt.Fprintln(d.out, "Sync done")
}

func (d *Device) cmdStats(ctx context.Context) {
	connected := d.ctrl.Connected(ctx)
	err := d.ctrl.Do(ctx, func(th *thing.Thing) {
		s := th.Stats()
		fmt.Fprintf(d.out, "Session:    %s\n", th.SessionID())
		fmt.Fprintf(d.out, "Mirror:     %s\n", connectedString(connected))
		fmt.Fprintf(d.out, "Properties: %d (%d primitive)\n", th.Count(), th.PrimitiveCount())
		fmt.Fprintf(d.out, "Published:  %d\n", s.Published)
		fmt.Fprintf(d.out, "Applied:    %d\n", s.Applied)
		fmt.Fprintf(d.out, "Synced:     %d\n", s.Synced)
		fmt.Fprintf(d.out, "Dropped:    %d\n", s.Dropped)
	})
	if err != nil {
		d.report(err)
		return
	}
	reads, writes := d.store.Counts()
	fmt.Fprintf(d.out, "Bridge:     %d reads, %d writes\n", reads, writes)
}

func (d *Device) report(err error) {
	if err != nil {
		fmt.Fprintf(d.out, "Error: %v\n", err)
	}
}

func connectedString(up bool) string {
	if up {
		return "connected"
	}
	return "offline"
}

// resolveScalar finds the scalar addressed by a property name or a
// property attribute name. Cloud-writable properties are refused: the
// read pass replaces their local value with the bridge value.
func resolveScalar(th *thing.Thing, name string) (property.Scalar, error) {
	p, attr := th.Lookup(name), ""
	if p == nil {
		var prop string
		prop, attr = th.Naming().Split(name)
		if p = th.Lookup(prop); p == nil {
			return nil, fmt.Errorf("unknown property: %s", prop)
		}
	}
	if p.IsWritableByCloud() {
		return nil, fmt.Errorf("%s is written through the bridge, use 'inbound'", p.Name())
	}

	attrs := p.Value().Attributes()
	if attr == "" {
		if !p.IsPrimitive() {
			return nil, fmt.Errorf("%s is composite, address an attribute (%s)", name, th.Naming().Join(name, attrs[0].Name))
		}
		return attrs[0].Scalar, nil
	}
	for _, a := range attrs {
		if a.Name == attr {
			return a.Scalar, nil
		}
	}
	return nil, fmt.Errorf("unknown attribute %q of %s", attr, p.Name())
}

// ParseValue parses a console argument into the Go type of kind.
func ParseValue(kind property.Kind, s string) (any, error) {
	switch kind {
	case property.KindBool:
		return strconv.ParseBool(s)
	case property.KindInt:
		return strconv.ParseInt(s, 10, 64)
	case property.KindFloat:
		return strconv.ParseFloat(s, 64)
	case property.KindString:
		return strings.Trim(s, "\"'"), nil
	default:
		return nil, errors.New("unsupported value type " + kind.String())
	}
}

func kindOf(v any) property.Kind {
	switch v.(type) {
	case bool:
		return property.KindBool
	case int64:
		return property.KindInt
	case float64:
		return property.KindFloat
	default:
		return property.KindString
	}
}
