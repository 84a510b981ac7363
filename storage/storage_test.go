package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/kbukum/transcribe/component"
	"github.com/kbukum/transcribe/logger"
)

func TestConfig_ApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	if cfg.Provider != ProviderLocal {
		t.Errorf("expected local provider, got %q", cfg.Provider)
	}
	if cfg.BasePath != DefaultBasePath {
		t.Errorf("expected default base path, got %q", cfg.BasePath)
	}
	if cfg.Region != DefaultRegion || cfg.MaxFileSize != DefaultMaxFileSize {
		t.Errorf("unexpected defaults %+v", cfg)
	}

	s3cfg := Config{Provider: ProviderS3, Bucket: "media"}
	s3cfg.ApplyDefaults()
	if s3cfg.BasePath != "" {
		t.Errorf("s3 provider must not get a base path, got %q", s3cfg.BasePath)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"local", Config{Provider: ProviderLocal, BasePath: "/tmp/x"}, ""},
		{"local no path", Config{Provider: ProviderLocal}, "base_path"},
		{"s3", Config{Provider: ProviderS3, Bucket: "b", Region: "us-east-1"}, ""},
		{"s3 no bucket", Config{Provider: ProviderS3, Region: "us-east-1"}, "bucket is required"},
		{"s3 half keys", Config{Provider: ProviderS3, Bucket: "b", Region: "r", AccessKey: "a"}, "set together"},
		{"bad prefix", Config{Provider: ProviderLocal, BasePath: "/tmp", Prefix: "/abs"}, "prefix"},
		{"unknown", Config{Provider: "ftp"}, "unsupported provider"},
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

func TestConfig_Key(t *testing.T) {
	tests := []struct {
		prefix, key, want string
	}{
		{"", "a.wav", "a.wav"},
		{"", "/a.wav", "a.wav"},
		{"incoming", "a.wav", "incoming/a.wav"},
		{"incoming/", "/a.wav", "incoming/a.wav"},
	}
	for _, tc := range tests {
		c := Config{Prefix: tc.prefix}
		if got := c.Key(tc.key); got != tc.want {
			t.Errorf("Key(%q, %q): expected %q, got %q", tc.prefix, tc.key, tc.want, got)
		}
	}
}

type memStorage struct {
	objects map[string]string
}

func (m *memStorage) Upload(_ context.Context, key string, r io.Reader, _ string) error {
	b, _ := io.ReadAll(r)
	m.objects[key] = string(b)
	return nil
}
func (m *memStorage) Download(_ context.Context, key string) (io.ReadCloser, error) {
	v, ok := m.objects[key]
	if !ok {
		return nil, ErrNotFound
	}
	return io.NopCloser(strings.NewReader(v)), nil
}
func (m *memStorage) Delete(_ context.Context, key string) error { delete(m.objects, key); return nil }
func (m *memStorage) Exists(_ context.Context, key string) (bool, error) {
	_, ok := m.objects[key]
	return ok, nil
}
func (m *memStorage) URI(key string) string { return "mem://" + key }
func (m *memStorage) List(context.Context, string) ([]FileInfo, error) { return nil, nil }

func TestRegisterFactory_Providers(t *testing.T) {
	RegisterFactory("mem-test", func(Config, *logger.Logger) (Storage, error) {
		return &memStorage{objects: map[string]string{}}, nil
	})
	defer func() {
		factoriesMu.Lock()
		delete(factories, "mem-test")
		factoriesMu.Unlock()
	}()

	found := false
	for _, p := range Providers() {
		if p == "mem-test" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected mem-test in %v", Providers())
	}
}

func TestNew_UnregisteredProvider(t *testing.T) {
	factoriesMu.Lock()
	saved, had := factories[ProviderS3]
	delete(factories, ProviderS3)
	factoriesMu.Unlock()
	defer func() {
		if had {
			RegisterFactory(ProviderS3, saved)
		}
	}()

	_, err := New(Config{Provider: ProviderS3, Bucket: "b"}, logger.Nop())
	if err == nil || !strings.Contains(err.Error(), "not registered") {
		t.Errorf("expected not registered error, got %v", err)
	}
}

func TestComponent(t *testing.T) {
	factoriesMu.Lock()
	saved, had := factories[ProviderLocal]
	factoriesMu.Unlock()
	RegisterFactory(ProviderLocal, func(Config, *logger.Logger) (Storage, error) {
		return &memStorage{objects: map[string]string{}}, nil
	})
	defer func() {
		factoriesMu.Lock()
		if had {
			factories[ProviderLocal] = saved
		} else {
			delete(factories, ProviderLocal)
		}
		factoriesMu.Unlock()
	}()

	disabled := NewComponent(Config{}, logger.Nop())
	if err := disabled.Start(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h := disabled.Health(context.Background()); h.Status != component.StatusHealthy || h.Message != "disabled" {
		t.Errorf("expected healthy disabled component, got %+v", h)
	}

	c := NewComponent(Config{Enabled: true, BasePath: "/tmp/media"}, logger.Nop())
	if h := c.Health(context.Background()); h.Status != component.StatusUnhealthy {
		t.Errorf("expected unhealthy before start, got %s", h.Status)
	}
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Storage() == nil {
		t.Fatal("expected storage after start")
	}
	if h := c.Health(context.Background()); h.Status != component.StatusHealthy {
		t.Errorf("expected healthy after start, got %+v", h)
	}
	if d := c.Describe(); d.Type != "storage" || d.Details != "provider=local path=/tmp/media" {
		t.Errorf("unexpected description %+v", d)
	}
	_ = c.Stop(context.Background())
	if c.Storage() != nil {
		t.Error("expected nil storage after stop")
	}
}
