package transcribe

import (
	"regexp"

	"github.com/kbukum/transcribe/errors"
	"github.com/kbukum/transcribe/validation"
)

var jobNamePattern = regexp.MustCompile(`^[0-9a-zA-Z._-]{1,200}$`)

func init() {
	validation.RegisterRule("jobname", jobNamePattern.MatchString,
		"must be 1-200 characters of letters, digits, '.', '_' or '-'")
	validation.RegisterRule("language_code", func(s string) bool {
		_, err := ParseLanguageCode(s)
		return err == nil
	}, "must be one of: en-US es-US")
	validation.RegisterRule("media_format", func(s string) bool {
		_, err := ParseMediaFormat(s)
		return err == nil
	}, "must be one of: flac mp3 mp4 wav")
	validation.RegisterRule("job_status", func(s string) bool {
		_, err := ParseJobStatus(s)
		return err == nil
	}, "must be one of: COMPLETED FAILED IN_PROGRESS")
}

// ValidJobName reports whether name is accepted as a job name.
func ValidJobName(name string) bool {
	return jobNamePattern.MatchString(name)
}

// Validate checks the request locally. Violations are VALIDATION_ERROR
// AppErrors listing every offending field.
func (r *StartTranscriptionJobRequest) Validate() error {
	if r == nil {
		return errors.MissingField("request")
	}
	return validation.Validate(r)
}

// Validate checks the request locally.
func (r *GetTranscriptionJobRequest) Validate() error {
	if r == nil {
		return errors.MissingField("request")
	}
	return validation.Validate(r)
}

// Validate checks the request locally.
func (r *ListTranscriptionJobsRequest) Validate() error {
	if r == nil {
		return errors.MissingField("request")
	}
	return validation.Validate(r)
}

// normalized returns a copy with enum fields in wire form. It assumes
// Validate passed.
func (r *StartTranscriptionJobRequest) normalized() *StartTranscriptionJobRequest {
	out := *r
	out.LanguageCode, _ = ParseLanguageCode(string(r.LanguageCode))
	if r.MediaFormat != "" {
		out.MediaFormat, _ = ParseMediaFormat(string(r.MediaFormat))
	}
	return &out
}

func (r *ListTranscriptionJobsRequest) normalized() *ListTranscriptionJobsRequest {
	out := *r
	out.Status, _ = ParseJobStatus(string(r.Status))
	return &out
}
