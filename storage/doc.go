// Package storage abstracts the object store that holds media files before
// transcription.
//
// Backends register themselves by provider name when imported:
//
//	import _ "github.com/kbukum/transcribe/storage/s3"
//
//	st, err := storage.New(storage.Config{Provider: "s3", Bucket: "media"}, log)
//	err = st.Upload(ctx, "calls/1.wav", f, "audio/wav")
//	uri := st.URI("calls/1.wav") // s3://media/calls/1.wav
package storage
