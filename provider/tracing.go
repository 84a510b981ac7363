package provider

import (
	"context"

	"github.com/kbukum/transcribe/errors"
	"github.com/kbukum/transcribe/observability"
)

// WithTracing creates a client span "{serviceName}.{providerName}" around
// each Execute call and records failures on it.
func WithTracing[I, O any](serviceName string) Middleware[I, O] {
	return func(inner RequestResponse[I, O]) RequestResponse[I, O] {
		return &tracingRR[I, O]{inner: inner, serviceName: serviceName}
	}
}

type tracingRR[I, O any] struct {
	inner       RequestResponse[I, O]
	serviceName string
}

func (t *tracingRR[I, O]) Name() string                         { return t.inner.Name() }
func (t *tracingRR[I, O]) IsAvailable(ctx context.Context) bool { return t.inner.IsAvailable(ctx) }

func (t *tracingRR[I, O]) Execute(ctx context.Context, input I) (O, error) {
	ctx, span := observability.StartSpan(ctx, t.serviceName+"."+t.inner.Name())
	defer span.End()

	observability.SetSpanAttribute(ctx, observability.AttrRPCSystem, "aws-api")
	observability.SetSpanAttribute(ctx, observability.AttrRPCService, t.serviceName)
	observability.SetSpanAttribute(ctx, observability.AttrRPCMethod, t.inner.Name())

	output, err := t.inner.Execute(ctx, input)
	if err != nil {
		if appErr, ok := errors.AsAppError(err); ok {
			observability.SetSpanAttribute(ctx, observability.AttrErrorCode, string(appErr.Code))
			if appErr.RequestID != "" {
				observability.SetSpanAttribute(ctx, observability.AttrRequestID, appErr.RequestID)
			}
		}
		observability.SetSpanError(ctx, err)
	}
	return output, err
}
