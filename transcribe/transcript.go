package transcribe

import (
	"context"
	"net/url"
	"strings"

	"github.com/kbukum/transcribe/errors"
	"github.com/kbukum/transcribe/httpclient"
)

// TranscriptDocument is the JSON document the service writes at a
// completed job's transcript location.
type TranscriptDocument struct {
	JobName   string            `json:"jobName"`
	AccountID string            `json:"accountId"`
	Status    string            `json:"status"`
	Results   TranscriptResults `json:"results"`
}

// TranscriptResults holds the full transcripts and the word-level items.
type TranscriptResults struct {
	Transcripts []TranscriptText `json:"transcripts"`
	Items       []TranscriptItem `json:"items"`
}

// TranscriptText is one full transcript of the media.
type TranscriptText struct {
	Transcript string `json:"transcript"`
}

// TranscriptItem is a recognized word or punctuation mark. Times are
// seconds as decimal strings; punctuation has none.
type TranscriptItem struct {
	StartTime    string                  `json:"start_time,omitempty"`
	EndTime      string                  `json:"end_time,omitempty"`
	Alternatives []TranscriptAlternative `json:"alternatives"`
	Type         string                  `json:"type"`
}

// TranscriptAlternative is one candidate for an item.
type TranscriptAlternative struct {
	Confidence string `json:"confidence"`
	Content    string `json:"content"`
}

// Text joins the transcripts with newlines.
func (d *TranscriptDocument) Text() string {
	parts := make([]string, 0, len(d.Results.Transcripts))
	for _, t := range d.Results.Transcripts {
		parts = append(parts, t.Transcript)
	}
	return strings.Join(parts, "\n")
}

// FetchTranscript downloads and decodes the transcript of a COMPLETED job.
// The location must be an http(s) URL, normally presigned, and is fetched
// without request signing.
func (c *Client) FetchTranscript(ctx context.Context, job *Job) (*TranscriptDocument, error) {
	if job == nil {
		return nil, errors.MissingField("job")
	}
	if job.JobStatus != JobStatusCompleted {
		return nil, errors.InvalidInput("job", "transcript is only available once the job is COMPLETED, got "+string(job.JobStatus))
	}
	if job.Transcript == nil || job.Transcript.FileURI == "" {
		return nil, errors.MissingField("transcript.fileUri")
	}
	u, err := url.Parse(job.Transcript.FileURI)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, errors.InvalidInput("transcript.fileUri", "must be an http(s) URL")
	}
	return c.transcript.Execute(ctx, job.Transcript.FileURI)
}

func (c *Client) downloadTranscript(ctx context.Context, location string) (*TranscriptDocument, error) {
	resp, err := c.adapter.Get(ctx, location)
	if err != nil {
		return nil, err
	}
	return httpclient.Decode[TranscriptDocument](resp)
}
