package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

// maxDocumentSize bounds how much of a response body is read.
const maxDocumentSize = 64 << 10

// Source fetches the current split.
type Source interface {
	Fetch(ctx context.Context) (Percentages, error)
}

// document is the wire form: {"full": number, "partial": number}.
type document struct {
	Full    *float64 `json:"full"`
	Partial *float64 `json:"partial"`
}

// Decode parses a JSON document into Percentages.
func Decode(r io.Reader) (Percentages, error) {
	var doc document
	if err := json.NewDecoder(io.LimitReader(r, maxDocumentSize)).Decode(&doc); err != nil {
		return Percentages{}, fmt.Errorf("decoding split document: %w", err)
	}
	if doc.Full == nil || doc.Partial == nil {
		return Percentages{}, fmt.Errorf("split document missing full or partial")
	}
	return NewPercentages(*doc.Full, *doc.Partial)
}

// NewSource returns an HTTPSource for http(s) URLs and a FileSource otherwise.
func NewSource(location string, client *http.Client) Source {
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		return &HTTPSource{URL: location, Client: client}
	}
	return &FileSource{Path: location}
}

// HTTPSource fetches the document with a GET request.
type HTTPSource struct {
	URL    string
	Client *http.Client // nil = http.DefaultClient
}

// Fetch implements Source.
func (s *HTTPSource) Fetch(ctx context.Context) (Percentages, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return Percentages{}, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return Percentages{}, fmt.Errorf("fetching %s: %w", s.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Percentages{}, fmt.Errorf("fetching %s: unexpected status %s", s.URL, resp.Status)
	}
	return Decode(resp.Body)
}

// FileSource reads the document from disk on every fetch.
type FileSource struct {
	Path string
}

// Fetch implements Source.
func (s *FileSource) Fetch(ctx context.Context) (Percentages, error) {
	if err := ctx.Err(); err != nil {
		return Percentages{}, err
	}
	f, err := os.Open(s.Path)
	if err != nil {
		return Percentages{}, fmt.Errorf("opening split document: %w", err)
	}
	defer f.Close()
	return Decode(f)
}
