package httpclient

import "github.com/kbukum/transcribe/provider"

var _ provider.RequestResponse[Request, *Response] = (*Adapter)(nil)
