// Package security builds TLS client configuration from file-based settings.
//
//	cfg := security.TLSConfig{
//	    CAFile:     "/etc/transcribe/ca.pem",
//	    MinVersion: "1.3",
//	}
//	tlsConfig, err := cfg.Build()
//
// A nil *tls.Config is returned when nothing is configured, so callers can
// keep the transport defaults.
package security
