package local

import (
	"context"
	stderrors "errors"
	"io"
	"strings"
	"testing"

	"github.com/kbukum/transcribe/logger"
	"github.com/kbukum/transcribe/storage"
)

func newTestStorage(t *testing.T, prefix string, maxSize int64) *Storage {
	t.Helper()
	s, err := NewStorage(storage.Config{Provider: storage.ProviderLocal, BasePath: t.TempDir(), Prefix: prefix, MaxFileSize: maxSize})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return s
}

func TestLocal_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t, "incoming", 0)

	if err := s.Upload(ctx, "calls/a.wav", strings.NewReader("RIFF"), "audio/wav"); err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	ok, err := s.Exists(ctx, "calls/a.wav")
	if err != nil || !ok {
		t.Fatalf("expected object to exist, got %v (%v)", ok, err)
	}

	rc, err := s.Download(ctx, "calls/a.wav")
	if err != nil {
		t.Fatalf("Download failed: %v", err)
	}
	b, _ := io.ReadAll(rc)
	rc.Close()
	if string(b) != "RIFF" {
		t.Errorf("expected RIFF, got %q", b)
	}

	uri := s.URI("calls/a.wav")
	if !strings.HasPrefix(uri, "file://") || !strings.HasSuffix(uri, "/incoming/calls/a.wav") {
		t.Errorf("unexpected URI %q", uri)
	}

	files, err := s.List(ctx, "calls/")
	if err != nil || len(files) != 1 || files[0].Path != "calls/a.wav" {
		t.Fatalf("expected one listed file, got %v (%v)", files, err)
	}
	if files[0].Size != 4 {
		t.Errorf("expected size 4, got %d", files[0].Size)
	}

	if err := s.Delete(ctx, "calls/a.wav"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := s.Delete(ctx, "calls/a.wav"); err != nil {
		t.Errorf("deleting a missing file must not fail: %v", err)
	}
	if ok, _ := s.Exists(ctx, "calls/a.wav"); ok {
		t.Error("expected object to be gone")
	}
}

func TestLocal_DownloadMissing(t *testing.T) {
	_, err := newTestStorage(t, "", 0).Download(context.Background(), "nope.wav")
	if !stderrors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestLocal_RejectsPathEscape(t *testing.T) {
	s := newTestStorage(t, "", 0)
	if err := s.Upload(context.Background(), "../../etc/passwd", strings.NewReader("x"), ""); err == nil {
		t.Error("expected escaping key to be rejected")
	}
}

func TestLocal_MaxFileSize(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t, "", 4)
	if err := s.Upload(ctx, "big.wav", strings.NewReader("12345"), ""); err == nil {
		t.Fatal("expected size limit error")
	}
	if ok, _ := s.Exists(ctx, "big.wav"); ok {
		t.Error("oversized upload must not leave a file behind")
	}
	if err := s.Upload(ctx, "ok.wav", strings.NewReader("1234"), ""); err != nil {
		t.Errorf("expected upload at the limit to succeed: %v", err)
	}
}

func TestLocal_ListEmpty(t *testing.T) {
	files, err := newTestStorage(t, "never-created", 0).List(context.Background(), "")
	if err != nil || len(files) != 0 {
		t.Errorf("expected empty list, got %v (%v)", files, err)
	}
}

func TestLocal_RegisteredFactory(t *testing.T) {
	st, err := storage.New(storage.Config{Provider: storage.ProviderLocal, BasePath: t.TempDir()}, logger.Nop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := st.(*Storage); !ok {
		t.Errorf("expected *local.Storage, got %T", st)
	}
}
