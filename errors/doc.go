// Package errors provides the error model shared by the transcription client.
//
// Every failure surfaced to callers is an *AppError carrying a domain
// (service or client), a typed code, a retryable flag and, for errors
// reported by the endpoint, the raw exception type and request id.
// Use CodeOf or IsCode to branch on the taxonomy:
//
//	if errors.IsCode(err, errors.ErrCodeConflict) {
//	    // job name already taken
//	}
package errors
