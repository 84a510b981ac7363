package transcribe

import (
	"context"
	"time"

	"github.com/kbukum/transcribe/errors"
	"github.com/kbukum/transcribe/logger"
	"github.com/kbukum/transcribe/provider"
	"github.com/kbukum/transcribe/resilience"
)

// Default polling bounds for WaitForTranscriptionJob.
const (
	DefaultWaitMinDelay = 2 * time.Second
	DefaultWaitMaxDelay = 60 * time.Second
)

// WaitOptions bounds the polling delay. Zero values use the defaults.
type WaitOptions struct {
	MinDelay time.Duration
	MaxDelay time.Duration
}

func (o *WaitOptions) applyDefaults() {
	if o.MinDelay <= 0 {
		o.MinDelay = DefaultWaitMinDelay
	}
	if o.MaxDelay <= 0 {
		o.MaxDelay = DefaultWaitMaxDelay
	}
	if o.MaxDelay < o.MinDelay {
		o.MaxDelay = o.MinDelay
	}
}

// JobFailedError reports a waited-on job that finished FAILED. It unwraps
// to a JOB_FAILED AppError.
type JobFailedError struct {
	Job *Job
	err *errors.AppError
}

func newJobFailedError(job *Job) *JobFailedError {
	return &JobFailedError{Job: job, err: errors.JobFailed(job.JobName, job.FailureReason)}
}

func (e *JobFailedError) Error() string { return e.err.Error() }
func (e *JobFailedError) Unwrap() error { return e.err }

// WaitForTranscriptionJob polls the job with exponential backoff until it
// leaves IN_PROGRESS. A COMPLETED job is returned with a nil error; a
// FAILED job is returned with a *JobFailedError. The last job seen is
// returned when ctx ends first.
func (c *Client) WaitForTranscriptionJob(ctx context.Context, name string, opts WaitOptions) (*Job, error) {
	opts.applyDefaults()
	backoff := resilience.Backoff{Initial: opts.MinDelay, Max: opts.MaxDelay, Factor: 2}

	var last *Job
	for attempt := 1; ; attempt++ {
		job, err := c.GetTranscriptionJob(ctx, name)
		if err != nil {
			return last, err
		}
		last = job

		switch job.JobStatus {
		case JobStatusCompleted:
			return job, nil
		case JobStatusFailed:
			return job, newJobFailedError(job)
		case JobStatusInProgress:
		default:
			return job, errors.Unknown("", "unexpected job status "+string(job.JobStatus), 0).
				WithDetail("job_name", name)
		}

		delay := backoff.Delay(attempt)
		c.log.Debug("job still in progress", logger.Fields(
			logger.FieldJobName, name,
			logger.FieldAttempt, attempt,
			"next_poll_ms", delay.Milliseconds(),
		))
		if err := resilience.Sleep(ctx, delay); err != nil {
			return job, provider.WrapResilienceError(err)
		}
	}
}
