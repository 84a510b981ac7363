// Package transcribe is a client for a job-based speech transcription
// service speaking the AWS JSON 1.1 protocol.
//
// A Client exposes three operations: StartTranscriptionJob,
// GetTranscriptionJob and ListTranscriptionJobs. Requests are validated
// locally before anything is sent; failures are *errors.AppError values
// carrying a typed code, the raw exception type, the HTTP status and the
// request id.
//
// # Usage
//
//	client, err := transcribe.New(ctx, transcribe.Config{Region: "us-east-1"})
//	if err != nil {
//		return err
//	}
//	job, err := client.StartTranscriptionJob(ctx, &transcribe.StartTranscriptionJobRequest{
//		JobName:      "job1",
//		LanguageCode: transcribe.LanguageCodeEnUS,
//		Media:        &transcribe.Media{FileURI: "s3://bucket/a.mp3"},
//		MediaFormat:  transcribe.MediaFormatMP3,
//	})
//	job, err = client.WaitForTranscriptionJob(ctx, job.JobName, transcribe.WaitOptions{})
//
// Every blocking call has an Async form returning a Future. Retry is
// opt-in through Config.Retry and never applies to StartTranscriptionJob,
// which is not idempotent.
package transcribe
