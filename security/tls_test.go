package security

import (
	"crypto/tls"
	"net/http"
	"strings"
	"testing"

	"github.com/kbukum/transcribe/security/tlstest"
)

func TestTLSConfig_BuildDisabled(t *testing.T) {
	var nilCfg *TLSConfig
	if got, err := nilCfg.Build(); got != nil || err != nil {
		t.Errorf("expected nil, nil for nil config, got %v, %v", got, err)
	}
	if got, err := (&TLSConfig{}).Build(); got != nil || err != nil {
		t.Errorf("expected nil, nil for zero config, got %v, %v", got, err)
	}
}

func TestTLSConfig_BuildSimpleFields(t *testing.T) {
	got, err := (&TLSConfig{SkipVerify: true, ServerName: "transcribe.local"}).Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.InsecureSkipVerify {
		t.Error("expected InsecureSkipVerify")
	}
	if got.ServerName != "transcribe.local" {
		t.Errorf("expected ServerName transcribe.local, got %q", got.ServerName)
	}
	if got.MinVersion != tls.VersionTLS12 {
		t.Errorf("expected TLS 1.2 default, got %x", got.MinVersion)
	}

	got, _ = (&TLSConfig{MinVersion: "1.3"}).Build()
	if got == nil || got.MinVersion != tls.VersionTLS13 {
		t.Errorf("expected TLS 1.3, got %v", got)
	}
}

func TestTLSConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *TLSConfig
		wantErr string
	}{
		{"nil", nil, ""},
		{"empty", &TLSConfig{}, ""},
		{"cert without key", &TLSConfig{CertFile: "c.pem"}, "provided together"},
		{"key without cert", &TLSConfig{KeyFile: "k.pem"}, "provided together"},
		{"bad version", &TLSConfig{MinVersion: "1.0"}, "min_version"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("expected error containing %q, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestTLSConfig_BuildFileErrors(t *testing.T) {
	if _, err := (&TLSConfig{CAFile: "/nonexistent/ca.pem"}).Build(); err == nil {
		t.Error("expected error for missing CA file")
	}
	if _, err := (&TLSConfig{CAFile: tlstest.WriteInvalidPEM(t, "ca.pem")}).Build(); err == nil {
		t.Error("expected error for unparsable CA file")
	}
	if _, err := (&TLSConfig{CertFile: "/nonexistent/c.pem", KeyFile: "/nonexistent/k.pem"}).Build(); err == nil {
		t.Error("expected error for missing client certificate")
	}
}

func TestTLSConfig_BuildWithGeneratedCerts(t *testing.T) {
	certs := tlstest.Generate(t)
	got, err := (&TLSConfig{CAFile: certs.CAFile, CertFile: certs.CertFile, KeyFile: certs.KeyFile}).Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.RootCAs == nil {
		t.Error("expected RootCAs to be set")
	}
	if len(got.Certificates) != 1 {
		t.Errorf("expected 1 client certificate, got %d", len(got.Certificates))
	}
}

func TestTLSConfig_TrustsPrivateEndpoint(t *testing.T) {
	certs := tlstest.Generate(t)
	srv := certs.NewServer(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	tlsCfg, err := (&TLSConfig{CAFile: certs.CAFile}).Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	client := &http.Client{Transport: &http.Transport{TLSClientConfig: tlsCfg}}
	resp, err := client.Get(srv.URL)
	if err != nil {
		t.Fatalf("expected handshake to succeed with the private CA: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("expected 204, got %d", resp.StatusCode)
	}

	if _, err := http.Get(srv.URL); err == nil {
		t.Error("expected default client to reject the private CA")
	}
}
