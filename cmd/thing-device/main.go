// Command thing-device is a reference device running the property sync core.
//
// It registers the properties of a device description, bridges them to an
// in-memory attribute store and keeps them in sync with a cloud mirror:
//   - Device descriptions in YAML or TOML
//   - Mirror links over TCP, TLS or WebSocket
//   - Reconnection with last-values synchronization
//   - Simulated sensor values
//   - Sync event logging for thing-log
//
// Usage:
//
//	thing-device [flags]
//
// Flags:
//
//	-config string      Device description (YAML or TOML)
//	-mirror string      Mirror address (host:port or ws:// URL)
//	-transport string   Mirror transport: tcp, tls, websocket
//	-interval duration  Cycle interval (overrides the description)
//	-sync-log string    File path for sync event logging (CBOR format)
//	-log-level string   Log level: debug, info, warn, error (default "info")
//	-interactive        Start the interactive console
//	-simulate           Drive read-only values with synthetic data
//	-version            Print the sync protocol version and exit
//
// Examples:
//
//	# Run the built-in thermostat offline with the console
//	thing-device -interactive
//
//	# Sync a described device with a mirror over WebSocket
//	thing-device -config porch.yaml -mirror ws://localhost:8080/sync -transport websocket
//
//	# Record sync events for later analysis
//	thing-device -config porch.yaml -mirror localhost:4000 -sync-log porch.tlog
package main

import (
	"context"
	"crypto/tls"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/thingsync/thing-go/cmd/thing-device/interactive"
	"github.com/thingsync/thing-go/pkg/config"
	synclog "github.com/thingsync/thing-go/pkg/log"
	"github.com/thingsync/thing-go/pkg/memio"
	"github.com/thingsync/thing-go/pkg/thing"
	"github.com/thingsync/thing-go/pkg/transport"
	"github.com/thingsync/thing-go/pkg/version"
)

// defaultDescription is used when no -config is given.
const defaultDescription = `
device:
  name: thermostat
cycle:
  interval: 1s
properties:
  - name: temperature
    type: float
    permission: read
    initial: 21.0
    publish: {mode: on-change, min_delta: 0.5}
  - name: setpoint
    type: float
    permission: readwrite
    initial: 20.5
    publish: {mode: on-change}
    sync: most-recent-wins
  - name: heating
    type: bool
    permission: readwrite
    publish: {mode: on-change}
    sync: cloud-wins
  - name: cycles
    type: int
    permission: read
    publish: {mode: every, interval: 10s}
  - name: position
    type: location
    permission: read
    initial: {lat: 45.07, lon: 7.69}
    publish: {mode: on-change, min_delta: 0.001}
`

// Options holds the command line settings.
type Options struct {
	ConfigFile  string
	Mirror      string
	Transport   string
	Interval    time.Duration
	SyncLog     string
	LogLevel    string
	Interactive bool
	Simulate    bool
	Version     bool
}

var opts Options

func init() {
	flag.StringVar(&opts.ConfigFile, "config", "", "Device description (YAML or TOML)")
	flag.StringVar(&opts.Mirror, "mirror", "", "Mirror address (host:port or ws:// URL)")
	flag.StringVar(&opts.Transport, "transport", "", "Mirror transport: tcp, tls, websocket")
	flag.DurationVar(&opts.Interval, "interval", 0, "Cycle interval (overrides the description)")
	flag.StringVar(&opts.SyncLog, "sync-log", "", "File path for sync event logging (CBOR format)")
	flag.StringVar(&opts.LogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	flag.BoolVar(&opts.Interactive, "interactive", false, "Start the interactive console")
	flag.BoolVar(&opts.Simulate, "simulate", true, "Drive read-only values with synthetic data")
	flag.BoolVar(&opts.Version, "version", false, "Print the sync protocol version and exit")
}

func main() {
	flag.Parse()

	if opts.Version {
		fmt.Printf("thing-device (sync protocol %s)\n", version.Current)
		return
	}

	setupLogging(opts.LogLevel)

	cfg, err := loadDescription()
	if err != nil {
		log.Fatalf("Invalid device description: %v", err)
	}
	overrideFromFlags(cfg)
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid device description: %v", err)
	}

	log.Println("Thing Reference Device")
	log.Println("======================")
	log.Printf("Device: %s", cfg.Device.Name)
	log.Printf("Sync protocol: %s", version.Current)
	if cfg.Mirror.Address != "" {
		log.Printf("Mirror: %s (%s)", cfg.Mirror.Address, cfg.Mirror.Transport)
	} else {
		log.Println("Mirror: none (offline)")
	}

	// Sync event logging
	var fileLogger *synclog.FileLogger
	if cfg.Log.File != "" {
		fileLogger, err = synclog.NewFileLogger(cfg.Log.File)
		if err != nil {
			log.Fatalf("Failed to create sync logger: %v", err)
		}
		defer fileLogger.Close()
		log.Printf("Sync logging to: %s", fileLogger.Path())
	}

	debug := cfg.Log.Debug || opts.LogLevel == "debug"
	slogger := newSlogger(debug)
	protocolLogger := newProtocolLogger(fileLogger, slogger, debug)

	store := memio.New()
	thCfg, err := cfg.ThingConfig()
	if err != nil {
		log.Fatalf("Invalid device description: %v", err)
	}
	thCfg.IO = store
	thCfg.Logger = slogger
	// Only set logger when non-nil to avoid typed-nil interface issue.
	if protocolLogger != nil {
		thCfg.ProtocolLogger = protocolLogger
	}

	th := thing.New(thCfg)
	props, err := config.Apply(th, cfg)
	if err != nil {
		log.Fatalf("Failed to register properties: %v", err)
	}
	// Seed the bridge with the initial values.
	if err := th.WritePass(); err != nil {
		log.Fatalf("Failed to seed attribute store: %v", err)
	}
	log.Printf("Registered %d properties (session %s)", len(props), th.SessionID())

	interval, _ := cfg.CycleInterval()
	reconnect, maxReconnect, _ := cfg.ReconnectDelay()

	driverCfg := DriverConfig{
		Interval:     interval,
		Reconnect:    reconnect,
		MaxReconnect: maxReconnect,
	}
	if cfg.Mirror.Address != "" {
		driverCfg.Dial = dialer(cfg.Mirror, protocolLogger, th.SessionID())
	}
	if opts.Simulate {
		driverCfg.Step = newSimulator().Step
	}
	driver := NewDriver(th, driverCfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- driver.Run(ctx) }()

	if opts.Interactive {
		console, err := interactive.New(driver, store)
		if err != nil {
			log.Fatalf("Failed to start console: %v", err)
		}
		log.SetOutput(console.Stdout())
		console.Run(ctx, cancel)
	} else {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		select {
		case sig := <-sigCh:
			log.Printf("Received signal: %v", sig)
		case <-ctx.Done():
		}
		cancel()
	}

	log.Println("Shutting down...")
	if err := <-done; err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("Driver stopped: %v", err)
	}

	s := th.Stats()
	log.Printf("Published %d, applied %d, synced %d, dropped %d", s.Published, s.Applied, s.Synced, s.Dropped)
	if fileLogger != nil {
		written, failed := fileLogger.Counts()
		log.Printf("Sync log: %d events written, %d failed", written, failed)
	}
	log.Println("Goodbye!")
}

func setupLogging(level string) {
	log.SetFlags(log.Ltime | log.Lmicroseconds)

	switch level {
	case "debug":
		log.SetFlags(log.Ltime | log.Lmicroseconds | log.Lshortfile)
	case "warn", "error":
		log.SetFlags(log.Ltime)
	}
}

func loadDescription() (*config.Config, error) {
	if opts.ConfigFile == "" {
		return config.Parse([]byte(defaultDescription), config.FormatYAML)
	}
	return config.Load(opts.ConfigFile)
}

func overrideFromFlags(cfg *config.Config) {
	if opts.Mirror != "" {
		cfg.Mirror.Address = opts.Mirror
	}
	if opts.Transport != "" {
		cfg.Mirror.Transport = opts.Transport
	}
	if opts.Interval > 0 {
		cfg.Cycle.Interval = opts.Interval.String()
	}
	if opts.SyncLog != "" {
		cfg.Log.File = opts.SyncLog
	}
}

func newSlogger(debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// newProtocolLogger combines the sync event file with debug output. It
// returns nil if neither is enabled.
func newProtocolLogger(file *synclog.FileLogger, slogger *slog.Logger, debug bool) synclog.Logger {
	var loggers []synclog.Logger
	if file != nil {
		loggers = append(loggers, file)
	}
	if debug {
		loggers = append(loggers, synclog.NewSlogAdapter(slogger))
	}
	return synclog.Tee(loggers...)
}

// dialer returns the dial function for the configured mirror transport.
func dialer(mc config.MirrorConfig, logger synclog.Logger, sessionID string) DialFunc {
	var linkOpts []transport.Option
	if logger != nil {
		linkOpts = append(linkOpts, transport.WithLogger(logger, sessionID))
	}

	switch strings.ToLower(mc.Transport) {
	case "websocket", "ws":
		return func(ctx context.Context) (transport.Link, error) {
			return dialWebSocket(ctx, mc.Address, linkOpts...)
		}
	case "tls":
		tlsConf := &tls.Config{
			MinVersion:         tls.VersionTLS12,
			InsecureSkipVerify: mc.InsecureSkipVerify, //nolint:gosec // opt-in for test mirrors
		}
		return func(ctx context.Context) (transport.Link, error) {
			return dialStream(ctx, mc.Address, tlsConf, linkOpts)
		}
	default:
		return func(ctx context.Context) (transport.Link, error) {
			return dialStream(ctx, mc.Address, nil, linkOpts)
		}
	}
}

// dialStream dials a TCP or TLS mirror. A failed dial returns a nil Link,
// not a typed nil.
func dialStream(ctx context.Context, addr string, tlsConf *tls.Config, linkOpts []transport.Option) (transport.Link, error) {
	link, err := transport.DialTCP(ctx, addr, tlsConf, linkOpts...)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}
	return link, nil
}

// dialWebSocket dials a WebSocket mirror.
func dialWebSocket(ctx context.Context, url string, linkOpts ...transport.Option) (transport.Link, error) {
	link, err := transport.DialWebSocket(ctx, url, linkOpts...)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	return link, nil
}
