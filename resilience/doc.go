// Package resilience provides the fault-tolerance primitives the client
// composes around remote calls:
//
//   - Retry with exponential backoff for idempotent operations
//   - Backoff schedules shared by retry and job polling
//   - CircuitBreaker that fails fast while the endpoint is unhealthy
//   - RateLimiter, a token bucket that paces outgoing requests
//   - Bulkhead that caps in-flight asynchronous calls
//
// All configs carry mapstructure tags so they can be loaded from config.yml.
// None of them is enabled by default.
package resilience
