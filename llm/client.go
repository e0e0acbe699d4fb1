package llm

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/vinayprograms/vogsphere/errors"
)

// Doer sends an HTTP request. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Completer issues one provider call and returns the generated text.
type Completer interface {
	Complete(ctx context.Context, req *Request) (string, error)
}

// Client sends a built Request over HTTP. It never retries and enforces no
// timeout of its own; cancel ctx to abort.
type Client struct {
	http Doer
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the HTTP transport.
func WithHTTPClient(d Doer) ClientOption {
	return func(c *Client) {
		c.http = d
	}
}

// NewClient creates a Client using http.DefaultClient unless overridden.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{http: http.DefaultClient}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ErrorBodyPlaceholder replaces an error body that could not be read.
const ErrorBodyPlaceholder = "Could not read error body"

// Complete POSTs the request and normalises the reply.
func (c *Client) Complete(ctx context.Context, req *Request) (string, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, req.URL, bytes.NewReader(req.Body))
	if err != nil {
		return "", errors.Configuration(fmt.Sprintf("Invalid provider URL %q.", req.URL),
			errors.WithCause(err),
			errors.WithMetadata("provider", string(req.Provider)),
		)
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", errors.Wrap(ctxErr, "Agent Connection Error")
		}
		return "", errors.WrapWithCode(err, errors.ErrCodeTransport, "Agent Connection Error",
			errors.WithMetadata("provider", string(req.Provider)),
			errors.WithMetadata("url", req.URL),
		)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		return "", statusError(req, httpResp)
	}

	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrCodeTransport, "failed to read response",
			errors.WithMetadata("provider", string(req.Provider)),
		)
	}

	return ParseResponse(string(req.Provider), raw)
}

// statusError builds the TRANSPORT error for a non-2xx reply.
func statusError(req *Request, resp *http.Response) error {
	text := ErrorBodyPlaceholder
	if body, err := io.ReadAll(resp.Body); err == nil {
		text = string(body)
	}
	statusText := StatusText(resp)

	return errors.Transport(
		fmt.Sprintf("Agent Connection Error (%d %s): %s", resp.StatusCode, statusText, text),
		errors.WithMetadata("provider", string(req.Provider)),
		errors.WithMetadata("status_code", strconv.Itoa(resp.StatusCode)),
		errors.WithMetadata("status_text", statusText),
		errors.WithMetadata("body", text),
	)
}

// StatusText returns the reason phrase the server sent, falling back to the
// standard text for the code.
func StatusText(resp *http.Response) string {
	code := strconv.Itoa(resp.StatusCode)
	if s := strings.TrimSpace(strings.TrimPrefix(resp.Status, code)); s != "" {
		return s
	}
	return http.StatusText(resp.StatusCode)
}
