// Package observability wires OpenTelemetry tracing and metrics for the
// transcription client.
//
// Tracing:
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultTracerConfig("transcribe"))
//	defer tp.Shutdown(ctx)
//
//	ctx, span := observability.StartSpan(ctx, "transcribe.GetTranscriptionJob")
//	defer span.End()
//
// Metrics:
//
//	mp, err := observability.InitMeter(ctx, observability.DefaultMeterConfig("transcribe"))
//	defer mp.Shutdown(ctx)
//
//	metrics, err := observability.NewMetrics(observability.Meter("transcribe"))
//	metrics.RecordOperation(ctx, "GetTranscriptionJob", "ok", duration)
//
// Without Init* calls the global no-op providers are used, so spans and
// instruments cost nothing.
package observability
