// Package logger provides structured logging on top of zerolog.
//
// Loggers are created from a Config (level, json or console format, output)
// and carry a service name. Component-scoped loggers and field maps keep log
// lines machine-readable:
//
//	log := logger.New(&cfg, "transcribe").WithComponent("client")
//	log.Info("job started", logger.Fields(logger.FieldJobName, "job1"))
//
// WithContext adds the request id stored by ContextWithRequestID and the
// trace/span ids of the active OpenTelemetry span.
package logger
