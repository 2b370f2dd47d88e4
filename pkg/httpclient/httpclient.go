package httpclient

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"
)

// Response exposes the parts of an HTTP response the pipeline consumes.
type Response interface {
	StatusCode() int
	Body() []byte
}

// Client performs a single GET with optional request headers. Implementations
// do not retry; transport failures surface to the caller unmodified.
type Client interface {
	Get(ctx context.Context, url string, headers map[string]string) (Response, error)
}

// restyClient backs Client with a shared resty client so cookies and
// connection state persist across consecutive requests to the same source.
type restyClient struct {
	rc *resty.Client
}

// NewRestyClient builds a Client with the given per-request timeout.
func NewRestyClient(timeout time.Duration) Client {
	rc := resty.New().
		SetTimeout(timeout).
		SetHeader("User-Agent", "feedbook/1.0 (+https://github.com/inkfold/feedbook)")
	return &restyClient{rc: rc}
}

// Get issues one blocking GET against url.
func (c *restyClient) Get(ctx context.Context, url string, headers map[string]string) (Response, error) {
	req := c.rc.R().SetContext(ctx)
	if len(headers) > 0 {
		req.SetHeaders(headers)
	}

	resp, err := req.Get(url)
	if err != nil {
		return nil, err
	}
	return restyResponse{resp: resp}, nil
}

type restyResponse struct {
	resp *resty.Response
}

func (r restyResponse) StatusCode() int { return r.resp.StatusCode() }
func (r restyResponse) Body() []byte    { return r.resp.Body() }
