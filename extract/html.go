package extract

import (
	"io"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/vinayprograms/vogsphere/errors"
)

// boilerplate is removed before the readable text is taken.
const boilerplate = "script, style, noscript, nav, header, footer, aside, form"

// contentRoots are tried in order; the first with text wins.
var contentRoots = []string{"article", "main", "body"}

// Parse reads an HTML document and returns its readable content. pageURL is
// recorded as-is and its host is the site name fallback.
func Parse(r io.Reader, pageURL string) (*Content, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, errors.Extraction("Extraction failed.", errors.WithCause(err))
	}

	c := &Content{
		Title:    title(doc),
		SiteName: siteName(doc, pageURL),
		URL:      pageURL,
	}

	doc.Find(boilerplate).Remove()
	for _, sel := range contentRoots {
		if text := readableText(doc.Find(sel).First()); text != "" {
			c.Content = text
			break
		}
	}
	if c.Content == "" {
		return nil, errors.Extraction(ErrNoContent, errors.WithMetadata("url", pageURL))
	}
	return c, nil
}

func title(doc *goquery.Document) string {
	if v, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	if v := collapse(doc.Find("title").First().Text()); v != "" {
		return v
	}
	return collapse(doc.Find("h1").First().Text())
}

func siteName(doc *goquery.Document, pageURL string) string {
	if v, ok := doc.Find(`meta[property="og:site_name"]`).Attr("content"); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	if u, err := url.Parse(pageURL); err == nil {
		return u.Host
	}
	return ""
}

// readableText joins the selection's text nodes with spaces in document
// order, so adjacent elements never run their words together.
func readableText(sel *goquery.Selection) string {
	var parts []string
	var walk func(*goquery.Selection)
	walk = func(s *goquery.Selection) {
		s.Contents().Each(func(_ int, child *goquery.Selection) {
			if goquery.NodeName(child) == "#text" {
				parts = append(parts, child.Text())
				return
			}
			walk(child)
		})
	}
	walk(sel)
	return collapse(strings.Join(parts, " "))
}

// collapse folds runs of whitespace into single spaces.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
