package transcribe

import (
	"context"

	"github.com/kbukum/transcribe/errors"
	"github.com/kbukum/transcribe/provider"
)

// ListTranscriptionJobsPaginator walks the pages of a listing, echoing each
// nextToken into the following request.
type ListTranscriptionJobsPaginator struct {
	client    *Client
	params    ListTranscriptionJobsRequest
	nextToken string
	firstPage bool
	seen      map[string]struct{}
}

var _ provider.Iterator[*ListTranscriptionJobsResponse] = (*ListTranscriptionJobsPaginator)(nil)

// NewListTranscriptionJobsPaginator starts from params.NextToken, which is
// usually empty. params is copied.
func NewListTranscriptionJobsPaginator(client *Client, params *ListTranscriptionJobsRequest) *ListTranscriptionJobsPaginator {
	p := &ListTranscriptionJobsPaginator{
		client:    client,
		firstPage: true,
		seen:      make(map[string]struct{}),
	}
	if params != nil {
		p.params = *params
		p.nextToken = params.NextToken
	}
	return p
}

// HasMorePages reports whether NextPage should be called again.
func (p *ListTranscriptionJobsPaginator) HasMorePages() bool {
	return p.firstPage || p.nextToken != ""
}

// NextPage fetches the next page. A service that hands back a token it
// was already given makes NextPage fail with UNKNOWN instead of looping.
func (p *ListTranscriptionJobsPaginator) NextPage(ctx context.Context) (*ListTranscriptionJobsResponse, error) {
	if !p.HasMorePages() {
		return nil, errors.Validation("no more pages")
	}

	req := p.params
	req.NextToken = p.nextToken
	page, err := p.client.ListTranscriptionJobs(ctx, &req)
	if err != nil {
		return nil, err
	}
	p.firstPage = false

	if p.nextToken != "" {
		p.seen[p.nextToken] = struct{}{}
	}
	if _, dup := p.seen[page.NextToken]; dup {
		p.nextToken = ""
		return page, errors.Unknown("", "The service returned a pagination token it had already issued.", 0).
			WithDetail("next_token", page.NextToken)
	}
	p.nextToken = page.NextToken
	return page, nil
}

// Next implements provider.Iterator. A page that arrives with a repeated
// token is returned alongside the error.
func (p *ListTranscriptionJobsPaginator) Next(ctx context.Context) (*ListTranscriptionJobsResponse, bool, error) {
	if !p.HasMorePages() {
		return nil, false, nil
	}
	page, err := p.NextPage(ctx)
	return page, page != nil, err
}

// Close stops the walk.
func (p *ListTranscriptionJobsPaginator) Close() error {
	p.firstPage = false
	p.nextToken = ""
	return nil
}
