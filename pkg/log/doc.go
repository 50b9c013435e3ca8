// Package log provides structured sync-event logging for things.
//
// This package defines the Logger interface and Event types for capturing
// what the property container publishes, receives, reconciles and drops.
// It is separate from operational logging (slog) - sync capture provides
// a complete machine-readable trace for debugging and analysis.
//
// # Basic Usage
//
// Applications configure logging by providing a Logger implementation:
//
//	// For development: log to console via slog
//	cfg.ProtocolLogger = log.NewSlogAdapter(slog.Default())
//
//	// For production: write to binary file
//	cfg.ProtocolLogger, _ = log.NewFileLogger("/var/log/thing/device.tlog")
//
//	// Both: Tee skips nil loggers
//	file, _ := log.NewFileLogger("/var/log/thing/device.tlog")
//	cfg.ProtocolLogger = log.Tee(log.NewSlogAdapter(slog.Default()), file)
//
// # Event Types
//
// Events are captured at multiple layers:
//   - Transport: Raw frame bytes (FrameEvent)
//   - Wire: Encoded and decoded packs (PackEvent)
//   - Container: Per-property decisions (PropertyEvent)
//
// Errors have a dedicated event type.
//
// # File Format
//
// Log files use CBOR encoding with .tlog extension. The thing-log CLI tool
// provides viewing and statistics.
package log
