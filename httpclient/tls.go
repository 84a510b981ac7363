package httpclient

import "github.com/kbukum/transcribe/security"

// TLSConfig is the shared security TLS configuration.
type TLSConfig = security.TLSConfig
