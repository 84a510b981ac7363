package main

import (
	"context"
	stderrors "errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/kbukum/transcribe/errors"
	"github.com/kbukum/transcribe/logger"
	"github.com/kbukum/transcribe/transcribe"
)

func (a *app) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	return fs
}

// jobName returns the -name flag, falling back to the first positional argument.
func jobName(fs *flag.FlagSet, name string) string {
	if name == "" && fs.NArg() > 0 {
		return fs.Arg(0)
	}
	return name
}

type startFlags struct {
	name     *string
	language *string
	format   *string
	rate     *int
}

func addStartFlags(fs *flag.FlagSet) startFlags {
	return startFlags{
		name:     fs.String("name", "", "job name"),
		language: fs.String("language", string(transcribe.LanguageCodeEnUS), "language code (en-US, es-US)"),
		format:   fs.String("format", "", "media format (flac, mp3, mp4, wav)"),
		rate:     fs.Int("rate", 0, "media sample rate in Hz (8000-48000)"),
	}
}

func (f startFlags) request(uri string, format transcribe.MediaFormat) *transcribe.StartTranscriptionJobRequest {
	req := &transcribe.StartTranscriptionJobRequest{
		JobName:      *f.name,
		LanguageCode: transcribe.LanguageCode(*f.language),
		Media:        &transcribe.Media{FileURI: uri},
		MediaFormat:  transcribe.MediaFormat(*f.format),
	}
	if req.MediaFormat == "" {
		req.MediaFormat = format
	}
	if *f.rate != 0 {
		req.MediaSampleRateHertz = transcribe.Int32(int32(*f.rate))
	}
	return req
}

func runStart(ctx context.Context, a *app, args []string) error {
	fs := a.flags("start")
	sf := addStartFlags(fs)
	uri := fs.String("uri", "", "media location, e.g. s3://bucket/key")
	wait := fs.Bool("wait", false, "wait for the job to finish")
	if err := fs.Parse(args); err != nil {
		return err
	}

	job, err := a.client.StartTranscriptionJob(ctx, sf.request(*uri, ""))
	if err != nil {
		return err
	}
	a.log.Info("job started", logger.Fields(logger.FieldJobName, job.JobName))
	if *wait {
		return a.waitAndPrint(ctx, job.JobName, transcribe.WaitOptions{})
	}
	return writeJSON(a.out, job)
}

func runGet(ctx context.Context, a *app, args []string) error {
	fs := a.flags("get")
	name := fs.String("name", "", "job name")
	if err := fs.Parse(args); err != nil {
		return err
	}
	job, err := a.client.GetTranscriptionJob(ctx, jobName(fs, *name))
	if err != nil {
		return err
	}
	return writeJSON(a.out, job)
}

func runList(ctx context.Context, a *app, args []string) error {
	fs := a.flags("list")
	status := fs.String("status", string(transcribe.JobStatusCompleted), "job status (COMPLETED, FAILED, IN_PROGRESS)")
	pageSize := fs.Int("page-size", 0, "jobs per page (1-100); 0 uses the service default")
	if err := fs.Parse(args); err != nil {
		return err
	}

	req := &transcribe.ListTranscriptionJobsRequest{Status: transcribe.JobStatus(*status)}
	if *pageSize != 0 {
		req.MaxResults = transcribe.Int32(int32(*pageSize))
	}
	p := transcribe.NewListTranscriptionJobsPaginator(a.client, req)
	out := transcribe.ListTranscriptionJobsResponse{JobSummaries: []transcribe.JobSummary{}}
	for pages := 1; p.HasMorePages(); pages++ {
		page, err := p.NextPage(ctx)
		if page != nil {
			out.Status = page.Status
			out.JobSummaries = append(out.JobSummaries, page.JobSummaries...)
		}
		if err != nil {
			return err
		}
		a.log.Debug("page received", logger.Fields("page", pages, "jobs", len(page.JobSummaries)))
	}
	return writeJSON(a.out, out)
}

func runWait(ctx context.Context, a *app, args []string) error {
	fs := a.flags("wait")
	name := fs.String("name", "", "job name")
	minDelay := fs.Duration("min-delay", transcribe.DefaultWaitMinDelay, "first polling delay")
	maxDelay := fs.Duration("max-delay", transcribe.DefaultWaitMaxDelay, "longest polling delay")
	timeout := fs.Duration("timeout", 0, "give up after this long; 0 waits indefinitely")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *timeout)
		defer cancel()
	}
	return a.waitAndPrint(ctx, jobName(fs, *name), transcribe.WaitOptions{MinDelay: *minDelay, MaxDelay: *maxDelay})
}

// waitAndPrint prints the final job, including a FAILED one, before
// returning the wait error.
func (a *app) waitAndPrint(ctx context.Context, name string, opts transcribe.WaitOptions) error {
	start := time.Now()
	job, err := a.client.WaitForTranscriptionJob(ctx, name, opts)
	var failed *transcribe.JobFailedError
	if err != nil && !stderrors.As(err, &failed) {
		return err
	}
	a.log.Info("job finished", logger.Fields(
		logger.FieldJobName, name,
		logger.FieldJobStatus, string(job.JobStatus),
		logger.FieldDuration, time.Since(start).Milliseconds(),
	))
	if werr := writeJSON(a.out, job); werr != nil {
		return werr
	}
	return err
}

func runUpload(ctx context.Context, a *app, args []string) error {
	fs := a.flags("upload")
	file := fs.String("file", "", "local media file")
	key := fs.String("key", "", "storage key; defaults to the file name")
	sf := addStartFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *file == "" {
		return errors.MissingField("file")
	}
	if *key == "" {
		*key = filepath.Base(*file)
	}

	f, err := os.Open(*file)
	if err != nil {
		return fmt.Errorf("open media: %w", err)
	}
	defer f.Close()

	media, format, err := transcribe.UploadMedia(ctx, a.store, *key, f)
	if err != nil {
		return err
	}
	a.log.Info("media uploaded", logger.Fields("key", *key, "uri", media.FileURI, "format", string(format)))
	if *sf.name == "" {
		return writeJSON(a.out, struct {
			Media       *transcribe.Media      `json:"media"`
			MediaFormat transcribe.MediaFormat `json:"mediaFormat"`
		}{media, format})
	}

	job, err := a.client.StartTranscriptionJob(ctx, sf.request(media.FileURI, format))
	if err != nil {
		return err
	}
	return writeJSON(a.out, job)
}

func runTranscript(ctx context.Context, a *app, args []string) error {
	fs := a.flags("transcript")
	name := fs.String("name", "", "job name")
	text := fs.Bool("text", false, "print only the transcript text")
	if err := fs.Parse(args); err != nil {
		return err
	}

	job, err := a.client.GetTranscriptionJob(ctx, jobName(fs, *name))
	if err != nil {
		return err
	}
	doc, err := a.client.FetchTranscript(ctx, job)
	if err != nil {
		return err
	}
	if *text {
		_, err := io.WriteString(a.out, doc.Text()+"\n")
		return err
	}
	return writeJSON(a.out, doc)
}
