package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/thingsync/thing-go/pkg/property"
	"github.com/thingsync/thing-go/pkg/thing"
)

// Config is a device description.
type Config struct {
	Device     DeviceConfig     `yaml:"device" toml:"device"`
	Cycle      CycleConfig      `yaml:"cycle" toml:"cycle"`
	Mirror     MirrorConfig     `yaml:"mirror" toml:"mirror"`
	Log        LogConfig        `yaml:"log" toml:"log"`
	Properties []PropertyConfig `yaml:"properties" toml:"properties"`
}

// DeviceConfig describes the device identity and addressing.
type DeviceConfig struct {
	Name           string `yaml:"name" toml:"name"`
	BaseName       string `yaml:"base_name" toml:"base_name"`
	Naming         string `yaml:"naming" toml:"naming"`
	UseIdentifiers bool   `yaml:"use_identifiers" toml:"use_identifiers"`

	// Clock is "system" or "monotonic" (no wall clock).
	Clock string `yaml:"clock" toml:"clock"`
}

// CycleConfig configures the cycle driver.
type CycleConfig struct {
	// Interval between two cycles, e.g. "500ms".
	Interval string `yaml:"interval" toml:"interval"`
}

// MirrorConfig configures the connection to the cloud mirror.
type MirrorConfig struct {
	// Address is host:port for tcp and tls, or a ws:// or wss:// URL.
	Address string `yaml:"address" toml:"address"`

	// Transport is "tcp", "tls" or "websocket".
	Transport string `yaml:"transport" toml:"transport"`

	InsecureSkipVerify bool `yaml:"insecure_skip_verify" toml:"insecure_skip_verify"`

	// Reconnect is the first delay before redialing a lost mirror.
	Reconnect string `yaml:"reconnect" toml:"reconnect"`

	// MaxReconnect caps the exponential redial backoff.
	MaxReconnect string `yaml:"max_reconnect" toml:"max_reconnect"`
}

// LogConfig configures logging.
type LogConfig struct {
	Debug bool `yaml:"debug" toml:"debug"`

	// File is the sync event log (.tlog). Empty disables it.
	File string `yaml:"file" toml:"file"`
}

// PropertyConfig declares one property.
type PropertyConfig struct {
	Name       string `yaml:"name" toml:"name"`
	Type       string `yaml:"type" toml:"type"`
	Permission string `yaml:"permission" toml:"permission"`

	// Identifier is assigned explicitly if set.
	Identifier *int `yaml:"identifier" toml:"identifier"`

	// Initial is the start value: a scalar, or a list or map of
	// attribute values for composite types.
	Initial any `yaml:"initial" toml:"initial"`

	Publish PublishConfig `yaml:"publish" toml:"publish"`

	// Sync names the reconnection policy: most-recent-wins, cloud-wins
	// or device-wins.
	Sync string `yaml:"sync" toml:"sync"`
}

// PublishConfig declares the update policy.
type PublishConfig struct {
	// Mode is "on-change", "every" or "none".
	Mode        string  `yaml:"mode" toml:"mode"`
	MinDelta    float64 `yaml:"min_delta" toml:"min_delta"`
	MinInterval string  `yaml:"min_interval" toml:"min_interval"`
	Interval    string  `yaml:"interval" toml:"interval"`
}

// Default returns the settings used for anything a file leaves out.
func Default() *Config {
	return &Config{
		Device: DeviceConfig{
			Name:   "thing",
			Naming: "flat",
			Clock:  "system",
		},
		Cycle: CycleConfig{Interval: "1s"},
		Mirror: MirrorConfig{
			Transport:    "tcp",
			Reconnect:    "1s",
			MaxReconnect: "60s",
		},
	}
}

// Load reads a description file. The format follows the extension.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{File: path, Message: "failed to read file", Cause: err}
	}

	cfg, err := Parse(data, formatOf(path))
	if err != nil {
		if le, ok := err.(*LoadError); ok {
			le.File = path
			return nil, le
		}
		return nil, &LoadError{File: path, Message: err.Error()}
	}
	return cfg, nil
}

// Format is a description file format.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

func formatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return ""
	}
}

// Parse decodes a description over the defaults and validates it.
func Parse(data []byte, format Format) (*Config, error) {
	cfg := Default()

	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil {
			return nil, &LoadError{Message: "failed to parse YAML", Cause: err}
		}
	case FormatTOML:
		md, err := toml.Decode(string(data), cfg)
		if err != nil {
			return nil, &LoadError{Message: "failed to parse TOML", Cause: err}
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, &LoadError{Message: fmt.Sprintf("unknown key %q", undecoded[0].String())}
		}
	default:
		return nil, &LoadError{Message: fmt.Sprintf("unsupported format %q", format)}
	}

	if err := cfg.Validate(); err != nil {
		return nil, &LoadError{Message: "invalid description", Cause: err}
	}
	return cfg, nil
}

// LoadError describes a failure to load a description.
type LoadError struct {
	// File is the path to the file that failed to load.
	File string

	// Message describes the error.
	Message string

	// Cause is the underlying error, if any.
	Cause error
}

func (e *LoadError) Error() string {
	msg := e.Message
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	if e.File == "" {
		return msg
	}
	return e.File + ": " + msg
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}

// Validate checks the description without registering anything.
func (c *Config) Validate() error {
	if _, err := thing.ParseNaming(c.Device.Naming); err != nil {
		return err
	}
	if _, err := c.Clock(); err != nil {
		return err
	}
	if _, err := c.CycleInterval(); err != nil {
		return err
	}
	if _, _, err := c.ReconnectDelay(); err != nil {
		return err
	}
	switch strings.ToLower(c.Mirror.Transport) {
	case "", "tcp", "tls", "websocket", "ws":
	default:
		return fmt.Errorf("unknown mirror transport %q", c.Mirror.Transport)
	}

	seen := make(map[string]bool, len(c.Properties))
	for i, pc := range c.Properties {
		if pc.Name == "" {
			return fmt.Errorf("property %d: %w", i, thing.ErrInvalidName)
		}
		if seen[pc.Name] {
			return fmt.Errorf("property %q declared twice", pc.Name)
		}
		seen[pc.Name] = true
		if _, err := pc.build(); err != nil {
			return err
		}
	}
	return nil
}

// Clock returns the configured clock.
func (c *Config) Clock() (property.Clock, error) {
	switch strings.ToLower(c.Device.Clock) {
	case "", "system":
		return property.NewSystemClock(), nil
	case "monotonic", "none":
		return property.NewMonotonicClock(), nil
	default:
		return nil, fmt.Errorf("unknown clock %q", c.Device.Clock)
	}
}

// CycleInterval returns the parsed cycle interval.
func (c *Config) CycleInterval() (time.Duration, error) {
	d, err := parseDuration(c.Cycle.Interval)
	if err != nil {
		return 0, fmt.Errorf("cycle interval: %w", err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("cycle interval must be positive, got %q", c.Cycle.Interval)
	}
	return d, nil
}

// ReconnectDelay returns the parsed first and maximum mirror redial delays.
func (c *Config) ReconnectDelay() (first, limit time.Duration, err error) {
	first, err = parseDuration(c.Mirror.Reconnect)
	if err != nil {
		return 0, 0, fmt.Errorf("mirror reconnect: %w", err)
	}
	limit, err = parseDuration(c.Mirror.MaxReconnect)
	if err != nil {
		return 0, 0, fmt.Errorf("mirror max_reconnect: %w", err)
	}
	return first, limit, nil
}

// ThingConfig returns the container settings. Logging and I/O are left
// for the caller to fill in.
func (c *Config) ThingConfig() (thing.Config, error) {
	naming, err := thing.ParseNaming(c.Device.Naming)
	if err != nil {
		return thing.Config{}, err
	}
	clock, err := c.Clock()
	if err != nil {
		return thing.Config{}, err
	}
	return thing.Config{
		Name:           c.Device.Name,
		BaseName:       c.Device.BaseName,
		Clock:          clock,
		Naming:         naming,
		UseIdentifiers: c.Device.UseIdentifiers,
	}, nil
}

func parseDuration(s string) (time.Duration, error) {
	if s == "" || s == "0" {
		return 0, nil
	}
	return time.ParseDuration(s)
}
