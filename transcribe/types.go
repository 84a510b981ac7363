package transcribe

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// JobStatus is the server-owned state of a job.
type JobStatus string

const (
	JobStatusCompleted  JobStatus = "COMPLETED"
	JobStatusFailed     JobStatus = "FAILED"
	JobStatusInProgress JobStatus = "IN_PROGRESS"
)

// JobStatuses lists every known status in wire form.
var JobStatuses = []JobStatus{JobStatusCompleted, JobStatusFailed, JobStatusInProgress}

// ParseJobStatus parses s case-insensitively. "in-progress" and
// "in_progress" are both accepted.
func ParseJobStatus(s string) (JobStatus, error) {
	norm := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "-", "_"))
	for _, st := range JobStatuses {
		if string(st) == norm {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown job status %q", s)
}

// Valid reports whether s is a known status in wire form.
func (s JobStatus) Valid() bool {
	for _, st := range JobStatuses {
		if s == st {
			return true
		}
	}
	return false
}

// Terminal reports whether the job has stopped changing.
func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// UnmarshalJSON accepts any casing for known statuses. Unknown values are
// kept verbatim.
func (s *JobStatus) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if st, err := ParseJobStatus(raw); err == nil {
		*s = st
		return nil
	}
	*s = JobStatus(raw)
	return nil
}

// LanguageCode is the language of the media.
type LanguageCode string

const (
	LanguageCodeEnUS LanguageCode = "en-US"
	LanguageCodeEsUS LanguageCode = "es-US"
)

// LanguageCodes lists every supported language code.
var LanguageCodes = []LanguageCode{LanguageCodeEnUS, LanguageCodeEsUS}

// ParseLanguageCode parses s case-insensitively, accepting "_" for "-".
func ParseLanguageCode(s string) (LanguageCode, error) {
	norm := strings.ReplaceAll(strings.TrimSpace(s), "_", "-")
	for _, lc := range LanguageCodes {
		if strings.EqualFold(string(lc), norm) {
			return lc, nil
		}
	}
	return "", fmt.Errorf("unknown language code %q", s)
}

// Valid reports whether c is a supported language code.
func (c LanguageCode) Valid() bool {
	for _, lc := range LanguageCodes {
		if c == lc {
			return true
		}
	}
	return false
}

// MediaFormat is the encoding of the input media.
type MediaFormat string

const (
	MediaFormatFLAC MediaFormat = "flac"
	MediaFormatMP3  MediaFormat = "mp3"
	MediaFormatMP4  MediaFormat = "mp4"
	MediaFormatWAV  MediaFormat = "wav"
)

// MediaFormats lists every supported media format.
var MediaFormats = []MediaFormat{MediaFormatFLAC, MediaFormatMP3, MediaFormatMP4, MediaFormatWAV}

// ParseMediaFormat parses s case-insensitively. A leading dot is ignored,
// so file extensions can be passed directly.
func ParseMediaFormat(s string) (MediaFormat, error) {
	norm := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), "."))
	for _, f := range MediaFormats {
		if string(f) == norm {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown media format %q", s)
}

// Valid reports whether f is a supported media format.
func (f MediaFormat) Valid() bool {
	for _, mf := range MediaFormats {
		if f == mf {
			return true
		}
	}
	return false
}

// Timestamp is a point in time encoded as epoch seconds with millisecond
// precision. RFC 3339 strings are accepted on decode.
type Timestamp struct {
	time.Time
}

// NewTimestamp truncates t to milliseconds in UTC.
func NewTimestamp(t time.Time) *Timestamp {
	return &Timestamp{Time: time.UnixMilli(t.UnixMilli()).UTC()}
}

// MarshalJSON encodes the time as a JSON number of seconds.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(float64(t.UnixMilli())/1e3, 'f', -1, 64)), nil
}

// UnmarshalJSON decodes epoch seconds or an RFC 3339 string.
func (t *Timestamp) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" || s == "" {
		t.Time = time.Time{}
		return nil
	}
	if s[0] == '"' {
		var raw string
		if err := json.Unmarshal(b, &raw); err != nil {
			return err
		}
		parsed, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return fmt.Errorf("timestamp: %w", err)
		}
		t.Time = time.UnixMilli(parsed.UnixMilli()).UTC()
		return nil
	}
	secs, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}
	t.Time = time.UnixMilli(int64(math.Round(secs * 1e3))).UTC()
	return nil
}

// Media points at the input audio.
type Media struct {
	FileURI string `json:"fileUri" validate:"required,max=2000"`
}

// Transcript points at the output document. It is set only once the job
// has completed.
type Transcript struct {
	FileURI string `json:"fileUri,omitempty"`
}

// JobSummary is the listing projection of a job.
type JobSummary struct {
	JobName        string       `json:"jobName,omitempty"`
	JobStatus      JobStatus    `json:"jobStatus,omitempty"`
	LanguageCode   LanguageCode `json:"languageCode,omitempty"`
	CreationTime   *Timestamp   `json:"creationTime,omitempty"`
	CompletionTime *Timestamp   `json:"completionTime,omitempty"`
	FailureReason  string       `json:"failureReason,omitempty"`
}

// Job is the full record of a job. Its summary fields are promoted from
// the embedded JobSummary.
type Job struct {
	JobSummary
	Media                *Media      `json:"media,omitempty"`
	MediaFormat          MediaFormat `json:"mediaFormat,omitempty"`
	MediaSampleRateHertz *int32      `json:"mediaSampleRateHertz,omitempty"`
	Transcript           *Transcript `json:"transcript,omitempty"`
}

// Summary returns the listing projection of j.
func (j *Job) Summary() JobSummary {
	return j.JobSummary
}

// StartTranscriptionJobRequest starts a new job. MediaFormat and
// MediaSampleRateHertz are optional.
type StartTranscriptionJobRequest struct {
	JobName              string       `json:"jobName" validate:"required,jobname"`
	LanguageCode         LanguageCode `json:"languageCode" validate:"required,language_code"`
	Media                *Media       `json:"media" validate:"required"`
	MediaFormat          MediaFormat  `json:"mediaFormat,omitempty" validate:"omitempty,media_format"`
	MediaSampleRateHertz *int32       `json:"mediaSampleRateHertz,omitempty" validate:"omitempty,gte=8000,lte=48000"`
}

// GetTranscriptionJobRequest fetches one job by name.
type GetTranscriptionJobRequest struct {
	JobName string `json:"jobName" validate:"required,jobname"`
}

// ListTranscriptionJobsRequest lists jobs in one status. NextToken must be
// a token returned by a previous page of the same listing.
type ListTranscriptionJobsRequest struct {
	Status     JobStatus `json:"status" validate:"required,job_status"`
	MaxResults *int32    `json:"maxResults,omitempty" validate:"omitempty,gte=1,lte=100"`
	NextToken  string    `json:"nextToken,omitempty" validate:"max=8192"`
}

// StartTranscriptionJobResponse carries the created job.
type StartTranscriptionJobResponse struct {
	Job *Job `json:"job"`
}

// GetTranscriptionJobResponse carries the requested job.
type GetTranscriptionJobResponse struct {
	Job *Job `json:"job"`
}

// ListTranscriptionJobsResponse is one page of a listing. JobSummaries is
// never nil; an empty page decodes to an empty slice.
type ListTranscriptionJobsResponse struct {
	JobSummaries []JobSummary `json:"jobSummaries"`
	NextToken    string       `json:"nextToken,omitempty"`
	Status       JobStatus    `json:"status,omitempty"`
}

// Int32 returns a pointer to v, for optional request fields.
func Int32(v int32) *int32 { return &v }
