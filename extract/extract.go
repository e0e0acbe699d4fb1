// Package extract turns a web page, a local HTML file or an external
// extractor's JSON result into readable content for the prompt.
package extract

import (
	"context"
	"encoding/json"
	"io"

	"github.com/vinayprograms/vogsphere/errors"
)

// Content is the readable form of one page.
type Content struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	URL      string `json:"url"`
	SiteName string `json:"siteName"`
}

// Extractor yields readable content for a target (URL or path).
type Extractor interface {
	Extract(ctx context.Context, target string) (*Content, error)
}

// ErrNoContent is the message used when a page has no readable text.
const ErrNoContent = "Could not extract main content from this page."

// result is the envelope written by an external extractor.
type result struct {
	Content
	Error string `json:"error"`
}

// DecodeResult reads an extractor result of the form
// {title, content, url, siteName} or {error}.
func DecodeResult(r io.Reader) (*Content, error) {
	var res *result
	if err := json.NewDecoder(r).Decode(&res); err != nil {
		if err == io.EOF {
			return nil, errors.FromCode(errors.ErrCodeExtraction)
		}
		return nil, errors.Extraction("Extraction failed.", errors.WithCause(err))
	}
	if res == nil {
		return nil, errors.FromCode(errors.ErrCodeExtraction)
	}
	if res.Error != "" {
		return nil, errors.Extraction(res.Error)
	}
	return &res.Content, nil
}

// Static always returns the same content. A nil value yields the generic
// extraction failure.
type Static struct {
	Value *Content
}

// Extract returns a copy of the static value.
func (s Static) Extract(ctx context.Context, target string) (*Content, error) {
	if s.Value == nil {
		return nil, errors.FromCode(errors.ErrCodeExtraction)
	}
	c := *s.Value
	return &c, nil
}
