package snapshot

import (
	"context"
	"fmt"
	"os"
	"strings"

	drepo "Hikari/internal/domain/repository"
	xhttp "Hikari/pkg/http"
)

// HTTPSource reads the dashboard document from a URL.
type HTTPSource struct {
	url  string
	http *xhttp.Client
}

var _ drepo.SnapshotSource = (*HTTPSource)(nil)

func NewHTTPSource(url string, hc *xhttp.Client) *HTTPSource {
	if hc == nil {
		hc = xhttp.NewClient()
	}
	return &HTTPSource{url: url, http: hc}
}

// Fetch returns the raw body. Any non-2xx status is an error.
func (s *HTTPSource) Fetch(ctx context.Context) ([]byte, error) {
	var body []byte
	err := s.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:  xhttp.MethodGet,
		URL:     s.url,
		Headers: map[string]string{"Cache-Control": "no-store"},
	}, &body)
	if err != nil {
		return nil, fmt.Errorf("fetch dashboard %s: %w", s.url, err)
	}
	return body, nil
}

func (s *HTTPSource) Name() string { return s.url }

// FileSource reads the dashboard document from disk on every fetch.
type FileSource struct {
	path string
}

var _ drepo.SnapshotSource = (*FileSource)(nil)

func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (s *FileSource) Fetch(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read dashboard %s: %w", s.path, err)
	}
	return b, nil
}

func (s *FileSource) Name() string { return "file:" + s.path }

// New picks an HTTP source for http(s) URLs and a file source otherwise. An
// empty location yields nil, which the loader treats as "no source".
func New(location string, hc *xhttp.Client) drepo.SnapshotSource {
	switch {
	case location == "":
		return nil
	case strings.HasPrefix(location, "http://"), strings.HasPrefix(location, "https://"):
		return NewHTTPSource(location, hc)
	default:
		return NewFileSource(strings.TrimPrefix(location, "file://"))
	}
}
