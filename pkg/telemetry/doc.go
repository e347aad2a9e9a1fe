// Package telemetry provides structured logging for envaudit.
//
// Logging is built on zerolog. The package wraps it with component-scoped
// child loggers and context propagation:
//
//	logger, err := telemetry.NewLogger(telemetry.DefaultLoggingConfig())
//	if err != nil {
//	    return err
//	}
//	scanLog := logger.NewComponentLogger("scan")
//	scanLog.Infof("scanned %d files", n)
//
// Log levels: trace, debug, info, warn, error, fatal. The console format is
// the default; set LOG_FORMAT=json for machine-readable output.
package telemetry
