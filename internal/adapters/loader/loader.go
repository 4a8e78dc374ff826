// Package loader provides verse source adapters.
// Clean Architecture: Adapters implementing ports.CorpusSource.
package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	httpPkg "net/http"
	"os"
	"strings"
	"time"
)

// maxCorpusBytes bounds the size of a verse file.
const maxCorpusBytes = 4 << 20

// ErrTooLarge is returned for verse files over maxCorpusBytes.
var ErrTooLarge = errors.New("verse file too large")

// readCorpus reads r whole, failing rather than cutting a verse in half.
func readCorpus(r io.Reader) (string, error) {
	content, err := io.ReadAll(io.LimitReader(r, maxCorpusBytes+1))
	if err != nil {
		return "", err
	}
	if len(content) > maxCorpusBytes {
		return "", fmt.Errorf("%w: exceeds %d bytes", ErrTooLarge, maxCorpusBytes)
	}
	return string(content), nil
}

// FileSource reads the verse file from disk.
type FileSource struct {
	path string
}

// NewFileSource creates a source for a local verse file.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Load reads the whole file.
func (s *FileSource) Load(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	file, err := os.Open(s.path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	return readCorpus(file)
}

// Describe returns the file path.
func (s *FileSource) Describe() string { return s.path }

// Path returns the watched location.
func (s *FileSource) Path() string { return s.path }

// HTTPSource fetches the verse file from a URL.
type HTTPSource struct {
	url    string
	client *httpPkg.Client
}

// NewHTTPSource creates a source for a remote verse file.
func NewHTTPSource(url string, timeout time.Duration) *HTTPSource {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPSource{url: url, client: &httpPkg.Client{Timeout: timeout}}
}

// Load fetches the file. Any non-2xx status is an error.
func (s *HTTPSource) Load(ctx context.Context) (string, error) {
	req, err := httpPkg.NewRequestWithContext(ctx, httpPkg.MethodGet, s.url, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "text/plain")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching verses: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("fetching verses: status %d", resp.StatusCode)
	}

	content, err := readCorpus(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading verses: %w", err)
	}
	return content, nil
}

// Describe returns the URL.
func (s *HTTPSource) Describe() string { return s.url }

// IsRemote reports whether location should be fetched over HTTP.
func IsRemote(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}
