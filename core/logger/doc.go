// Package logger provides a structured logging facility based on Zap.
//
// New builds a development logger for the debug level and a production one
// otherwise. WithRayID ties log entries to the request they belong to.
//
// # Context Awareness
//
// The rayid middleware stores a request id in the Fiber context. WithRayID
// reads it and adds it as the ray_id field.
//
// # Configuration
//
// The package supports configuration for:
//   - Level: debug, info, warn, error
//   - Format: json or console
//
// # Usage
//
//	log, _ := logger.New(&logger.Config{Level: "info", Format: "json"})
//	log.Info("Server started")
//
//	// In a request handler:
//	l := logger.WithRayID(log, c)
//	l.Error("Handler failed", zap.Error(err))
package logger
