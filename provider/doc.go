// Package provider is the generic call pipeline behind every client
// operation.
//
// A RequestResponse[I, O] executes one input into one output. Adapt bridges
// a transport-level provider to typed operation inputs and outputs, and
// Middleware wraps a provider with cross-cutting behavior:
//
//	op := provider.Chain(
//	    provider.WithLogging[In, Out](log),
//	    provider.WithTracing[In, Out]("transcribe"),
//	    provider.WithMetrics[In, Out](metrics),
//	    provider.WithResilience[In, Out](state),
//	)(provider.Adapt(transport, "GetTranscriptionJob", encode, decode))
//
// Iterator[T] is the pull interface used for paginated results.
package provider
