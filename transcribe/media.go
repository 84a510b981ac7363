package transcribe

import (
	"context"
	"fmt"
	"io"

	"github.com/gabriel-vasile/mimetype"

	"github.com/kbukum/transcribe/errors"
	"github.com/kbukum/transcribe/storage"
)

// Detected MIME types and the media format each maps to.
var mediaFormatsByMIME = []struct {
	mime   string
	format MediaFormat
}{
	{"audio/flac", MediaFormatFLAC},
	{"audio/mpeg", MediaFormatMP3},
	{"audio/wav", MediaFormatWAV},
	{"audio/mp4", MediaFormatMP4},
	{"video/mp4", MediaFormatMP4},
}

// DetectMediaFormat sniffs the content of r. The reader is consumed; the
// returned MIME type is suitable as an upload content type.
func DetectMediaFormat(r io.Reader) (MediaFormat, string, error) {
	mt, err := mimetype.DetectReader(r)
	if err != nil {
		return "", "", errors.InvalidInput("media", "could not be read").WithCause(err)
	}
	for m := mt; m != nil; m = m.Parent() {
		for _, entry := range mediaFormatsByMIME {
			if m.Is(entry.mime) {
				return entry.format, mt.String(), nil
			}
		}
	}
	return "", mt.String(), errors.InvalidInput("media", fmt.Sprintf("unsupported media type %s; expected flac, mp3, mp4 or wav", mt.String())).
		WithDetail("mime_type", mt.String())
}

// UploadMedia detects the format of r, rewinds it and stores it under key.
// The returned Media points at the stored object and can be passed
// straight to StartTranscriptionJob.
func UploadMedia(ctx context.Context, store storage.Storage, key string, r io.ReadSeeker) (*Media, MediaFormat, error) {
	if store == nil {
		return nil, "", errors.MissingField("storage")
	}
	if key == "" {
		return nil, "", errors.MissingField("key")
	}

	format, contentType, err := DetectMediaFormat(r)
	if err != nil {
		return nil, "", err
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, "", fmt.Errorf("transcribe: rewind media: %w", err)
	}
	if err := store.Upload(ctx, key, r, contentType); err != nil {
		return nil, "", fmt.Errorf("transcribe: upload media %s: %w", key, err)
	}
	return &Media{FileURI: store.URI(key)}, format, nil
}
