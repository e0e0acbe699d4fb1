// Package archive keeps a full-text index of generated notes so earlier
// research can be found again.
package archive

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"
	"github.com/google/uuid"

	"github.com/vinayprograms/vogsphere/errors"
)

// IndexDir is the index directory name under the archive root.
const IndexDir = "notes.bleve"

// DefaultLimit caps search results when the caller passes none.
const DefaultLimit = 10

// Note is one archived Markdown note.
type Note struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Filename  string    `json:"filename"`
	Source    string    `json:"source"`
	Tags      []string  `json:"tags"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// Hit is a search result.
type Hit struct {
	Note
	Score float64
}

// Archive is a Bleve-backed note index. It is safe for concurrent use.
type Archive struct {
	mu     sync.RWMutex
	index  bleve.Index
	path   string
	closed bool
}

// Open opens the archive under dir, creating it when missing.
func Open(dir string) (*Archive, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrap(err, "failed to create archive directory")
	}

	indexPath := filepath.Join(dir, IndexDir)

	var index bleve.Index
	var err error
	if _, statErr := os.Stat(indexPath); os.IsNotExist(statErr) {
		index, err = bleve.New(indexPath, buildIndexMapping())
		if err != nil {
			return nil, errors.Wrap(err, "failed to create archive index")
		}
	} else {
		index, err = bleve.Open(indexPath)
		if err != nil {
			return nil, errors.Wrap(err, "failed to open archive index")
		}
	}

	return &Archive{index: index, path: indexPath}, nil
}

// buildIndexMapping analyses title and body; tags, source and filename are
// exact-match keywords.
func buildIndexMapping() mapping.IndexMapping {
	noteMapping := bleve.NewDocumentMapping()

	textFieldMapping := bleve.NewTextFieldMapping()
	textFieldMapping.Analyzer = standard.Name

	keywordFieldMapping := bleve.NewKeywordFieldMapping()

	dateFieldMapping := bleve.NewDateTimeFieldMapping()

	noteMapping.AddFieldMappingsAt("title", textFieldMapping)
	noteMapping.AddFieldMappingsAt("body", textFieldMapping)
	noteMapping.AddFieldMappingsAt("tags", keywordFieldMapping)
	noteMapping.AddFieldMappingsAt("source", keywordFieldMapping)
	noteMapping.AddFieldMappingsAt("filename", keywordFieldMapping)
	noteMapping.AddFieldMappingsAt("created_at", dateFieldMapping)

	idMapping := bleve.NewKeywordFieldMapping()
	idMapping.Index = false
	noteMapping.AddFieldMappingsAt("id", idMapping)

	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultMapping = noteMapping
	indexMapping.DefaultAnalyzer = standard.Name

	return indexMapping
}

// Index stores n and returns its id. An empty id gets a fresh UUID and a
// zero CreatedAt is set to now. Indexing an existing id replaces the note.
func (a *Archive) Index(ctx context.Context, n Note) (string, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.closed {
		return "", errClosed()
	}
	if err := ctx.Err(); err != nil {
		return "", errors.Wrap(err, "indexing note")
	}

	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}

	if err := a.index.Index(n.ID, n); err != nil {
		return "", errors.Wrap(err, "failed to index note")
	}
	return n.ID, nil
}

// Search runs q against the archive. q uses Bleve query-string syntax, so
// "tags:vogsphere" filters by tag; an empty q matches every note, newest
// first.
func (a *Archive) Search(ctx context.Context, q string, limit int) ([]Hit, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.closed {
		return nil, errClosed()
	}

	if limit <= 0 {
		limit = DefaultLimit
	}

	var searchQuery query.Query
	q = strings.TrimSpace(q)
	if q == "" {
		searchQuery = bleve.NewMatchAllQuery()
	} else {
		searchQuery = bleve.NewQueryStringQuery(q)
	}

	req := bleve.NewSearchRequest(searchQuery)
	req.Size = limit
	req.Fields = []string{"*"}
	if q == "" {
		req.SortBy([]string{"-created_at"})
	}

	res, err := a.index.SearchInContext(ctx, req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, errors.Wrap(ctx.Err(), "search canceled")
		}
		return nil, errors.InvalidInput(fmt.Sprintf("search failed: %v", err),
			errors.WithCause(err),
			errors.WithMetadata("query", q),
		)
	}

	hits := make([]Hit, 0, len(res.Hits))
	for _, h := range res.Hits {
		hits = append(hits, Hit{Note: noteFromFields(h.ID, h.Fields), Score: h.Score})
	}
	return hits, nil
}

// Get returns the note with the given id.
func (a *Archive) Get(ctx context.Context, id string) (*Note, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.closed {
		return nil, errClosed()
	}

	req := bleve.NewSearchRequest(bleve.NewDocIDQuery([]string{id}))
	req.Fields = []string{"*"}
	req.Size = 1

	res, err := a.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, errors.Wrap(err, "lookup failed")
	}
	if res.Total == 0 {
		return nil, errors.NotFound(fmt.Sprintf("note %s not found", id))
	}
	n := noteFromFields(id, res.Hits[0].Fields)
	return &n, nil
}

// Delete removes a note.
func (a *Archive) Delete(ctx context.Context, id string) error {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.closed {
		return errClosed()
	}
	if err := a.index.Delete(id); err != nil {
		return errors.Wrap(err, "failed to delete note")
	}
	return nil
}

// Count returns the number of archived notes.
func (a *Archive) Count() (uint64, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.closed {
		return 0, errClosed()
	}
	n, err := a.index.DocCount()
	if err != nil {
		return 0, errors.Wrap(err, "failed to count notes")
	}
	return n, nil
}

// Close releases the index. Further calls fail.
func (a *Archive) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return nil
	}
	a.closed = true
	return a.index.Close()
}

func errClosed() error {
	return errors.Precondition("archive is closed")
}

func noteFromFields(id string, fields map[string]interface{}) Note {
	n := Note{ID: id}
	n.Title, _ = fields["title"].(string)
	n.Filename, _ = fields["filename"].(string)
	n.Source, _ = fields["source"].(string)
	n.Body, _ = fields["body"].(string)

	// A single-valued array field comes back as a plain string.
	switch v := fields["tags"].(type) {
	case string:
		n.Tags = []string{v}
	case []interface{}:
		for _, t := range v {
			if s, ok := t.(string); ok {
				n.Tags = append(n.Tags, s)
			}
		}
	}

	if s, ok := fields["created_at"].(string); ok {
		if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
			n.CreatedAt = t
		}
	}
	return n
}
