package extract

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vinayprograms/vogsphere/errors"
)

const (
	// DefaultTimeout bounds one page fetch.
	DefaultTimeout = 15 * time.Second

	userAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// HTTP fetches a page and extracts its readable content.
type HTTP struct {
	client *http.Client
}

// NewHTTP creates an HTTP extractor. A nil client gets one with
// DefaultTimeout.
func NewHTTP(client *http.Client) *HTTP {
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	return &HTTP{client: client}
}

// Extract downloads target and parses it.
func (h *HTTP) Extract(ctx context.Context, target string) (*Content, error) {
	target = strings.TrimSpace(target)
	if target == "" {
		return nil, errors.InvalidInput("page URL is empty")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, errors.InvalidInput("invalid page URL", errors.WithCause(err))
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := h.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, errors.Wrap(ctx.Err(), "fetching page")
		}
		return nil, errors.WrapWithCode(err, errors.ErrCodeExtraction, "Extraction failed.")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, errors.Extraction(fmt.Sprintf("fetch http %d: %s", resp.StatusCode, strings.TrimSpace(string(body))),
			errors.WithMetadata("url", target),
			errors.WithMetadata("status_code", fmt.Sprint(resp.StatusCode)),
		)
	}

	return Parse(resp.Body, target)
}

// File extracts content from a local HTML file.
type File struct {
	// URL overrides the recorded page URL. Empty means file://{abs path}.
	URL string
}

// Extract reads the file at target and parses it.
func (f File) Extract(ctx context.Context, target string) (*Content, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "reading page")
	}

	fh, err := os.Open(target)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFound(fmt.Sprintf("file not found: %s", target), errors.WithCause(err))
		}
		return nil, errors.WrapWithCode(err, errors.ErrCodeExtraction, "Extraction failed.")
	}
	defer fh.Close()

	pageURL := f.URL
	if pageURL == "" {
		abs, err := filepath.Abs(target)
		if err != nil {
			abs = target
		}
		pageURL = "file://" + filepath.ToSlash(abs)
	}
	return Parse(fh, pageURL)
}
