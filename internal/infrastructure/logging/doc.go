// Package logging provides structured logging using uber/zap.
//
// Two modes:
//   - Production: JSON output for machine parsing
//   - Development: colored console output for human readability
//
// Example Usage:
//
//	logger := logging.NewDefault()
//	logger.Info("activating project", zap.String("project", id))
//	logger.Warn("focus restore failed", zap.Error(err))
package logging
