package httpclient

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"

	"github.com/kbukum/transcribe/errors"
)

// Signer applies SigV4 signatures to outbound requests.
type Signer struct {
	credentials aws.CredentialsProvider
	region      string
	service     string
	signer      *v4.Signer
	now         func() time.Time
}

// NewSigner creates a Signer. A nil or anonymous credentials provider
// produces a Signer that leaves requests unsigned.
func NewSigner(credentials aws.CredentialsProvider, region, service string) *Signer {
	return &Signer{
		credentials: credentials,
		region:      region,
		service:     service,
		signer:      v4.NewSigner(),
		now:         time.Now,
	}
}

// Anonymous reports whether requests go out unsigned.
func (s *Signer) Anonymous() bool {
	return s == nil || s.credentials == nil ||
		aws.IsCredentialsProvider(s.credentials, aws.AnonymousCredentials{})
}

// sign adds the Authorization, X-Amz-Date and, for temporary credentials,
// X-Amz-Security-Token headers. payload must be the exact request body.
func (s *Signer) sign(ctx context.Context, req *http.Request, payload []byte) error {
	if s.Anonymous() {
		return nil
	}
	creds, err := s.credentials.Retrieve(ctx)
	if err != nil {
		return errors.Unauthorized("Unable to resolve credentials.").WithCause(err)
	}
	sum := sha256.Sum256(payload)
	if err := s.signer.SignHTTP(ctx, creds, req, hex.EncodeToString(sum[:]), s.service, s.region, s.now().UTC()); err != nil {
		return errors.Unauthorized("Unable to sign the request.").WithCause(err)
	}
	return nil
}
