// Package httpclient is the transport for AWS JSON 1.1 endpoints.
//
// An Adapter POSTs a JSON body to the endpoint root with the operation name
// in the X-Amz-Target header, signs it with SigV4 when credentials are
// configured, and maps non-2xx responses onto *errors.AppError using the
// exception type from the body or the X-Amzn-ErrorType header.
//
//	a, err := httpclient.New(httpclient.Config{
//	    Endpoint:     "https://transcribe.us-east-1.amazonaws.com",
//	    Region:       "us-east-1",
//	    TargetPrefix: "Transcribe",
//	}, httpclient.WithSigner(httpclient.NewSigner(creds, "us-east-1", "transcribe")))
//
//	resp, err := a.Do(ctx, httpclient.Request{
//	    Operation: "GetTranscriptionJob",
//	    Body:      map[string]string{"jobName": "job1"},
//	})
//
// The Adapter satisfies provider.RequestResponse[Request, *Response], so
// typed operations are built on it with provider.Adapt.
package httpclient
