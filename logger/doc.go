// Package logger provides structured logging for flowkit using zerolog.
//
// It supports JSON and console output, log level configuration, and
// component-scoped loggers with structured fields. Library packages log
// through component loggers obtained with Get, so an application can swap
// in its own configuration with Init or Register.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.Get("flow")
//	log.Debug("rate limit wait", logger.Fields("stage", "rate_limit", "wait_ms", 40))
package logger
