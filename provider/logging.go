package provider

import (
	"context"
	"time"

	"github.com/kbukum/transcribe/errors"
	"github.com/kbukum/transcribe/logger"
)

// WithLogging logs each Execute call: debug on success, error on failure,
// with operation, duration and, for AppErrors, code and request id.
func WithLogging[I, O any](log *logger.Logger) Middleware[I, O] {
	return WithLoggingFields[I, O](log, nil)
}

// WithLoggingFields is WithLogging with extra fields derived from the
// input, such as the job name. fields may be nil.
func WithLoggingFields[I, O any](log *logger.Logger, fields func(I) map[string]interface{}) Middleware[I, O] {
	return func(inner RequestResponse[I, O]) RequestResponse[I, O] {
		return &loggingRR[I, O]{inner: inner, log: log, fields: fields}
	}
}

type loggingRR[I, O any] struct {
	inner  RequestResponse[I, O]
	log    *logger.Logger
	fields func(I) map[string]interface{}
}

func (l *loggingRR[I, O]) Name() string                         { return l.inner.Name() }
func (l *loggingRR[I, O]) IsAvailable(ctx context.Context) bool { return l.inner.IsAvailable(ctx) }

func (l *loggingRR[I, O]) Execute(ctx context.Context, input I) (O, error) {
	start := time.Now()
	output, err := l.inner.Execute(ctx, input)

	fields := logger.DurationFields(l.inner.Name(), time.Since(start))
	if l.fields != nil {
		for k, v := range l.fields(input) {
			fields[k] = v
		}
	}
	log := l.log.WithContext(ctx)
	if err == nil {
		log.Debug("operation ok", fields)
		return output, nil
	}

	fields[logger.FieldError] = err.Error()
	if appErr, ok := errors.AsAppError(err); ok {
		fields[logger.FieldErrorCode] = string(appErr.Code)
		if appErr.RequestID != "" {
			fields[logger.FieldRequestID] = appErr.RequestID
		}
	}
	log.Error("operation failed", fields)
	return output, err
}
