package dataset

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/nao1215/stopverifage/internal/model"
)

//go:embed data/sites.json
var defaultDocument []byte

// DefaultDocument returns a copy of the dataset compiled into the binary.
func DefaultDocument() []byte {
	out := make([]byte, len(defaultDocument))
	copy(out, defaultDocument)
	return out
}

// DatasetPath is the location of the dataset relative to the site root.
const DatasetPath = "data/sites.json"

const (
	// DefaultFetchTimeout bounds a single fetch of the dataset.
	DefaultFetchTimeout = 10 * time.Second

	// DefaultMaxBodySize limits how much of a fetched dataset is read.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB
)

// Source errors.
var (
	// ErrNoEmbeddedData is returned by an embedded source that holds no document.
	ErrNoEmbeddedData = errors.New("no embedded dataset")

	// ErrUnexpectedStatus is returned when the dataset fetch answers with a non-2xx status.
	ErrUnexpectedStatus = errors.New("unexpected HTTP status")

	// ErrBodyTooLarge is returned when a fetched dataset exceeds the size limit.
	ErrBodyTooLarge = errors.New("dataset exceeds size limit")
)

// Source provides a dataset.
type Source interface {
	// Name identifies the source in logs and metrics.
	Name() string

	// Load reads and decodes the dataset.
	Load(ctx context.Context) (*model.Dataset, error)
}

// embeddedSource decodes a document held in memory.
type embeddedSource struct {
	data []byte
}

// Embedded returns a Source decoding the given document. A document that
// is empty or has no "sites" array fails, letting the next source answer.
func Embedded(data []byte) Source {
	return &embeddedSource{data: data}
}

func (s *embeddedSource) Name() string { return "embedded" }

func (s *embeddedSource) Load(_ context.Context) (*model.Dataset, error) {
	if len(s.data) == 0 {
		return nil, ErrNoEmbeddedData
	}
	return model.ParseDataset(s.data)
}

// fileSource reads a document from the local filesystem.
type fileSource struct {
	path string
}

// File returns a Source reading the dataset from path on every load.
func File(path string) Source {
	return &fileSource{path: path}
}

func (s *fileSource) Name() string { return "file" }

// Path returns the file the source reads.
func (s *fileSource) Path() string { return s.path }

func (s *fileSource) Load(_ context.Context) (*model.Dataset, error) {
	data, err := os.ReadFile(s.path) //nolint:gosec // User-provided dataset path is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset file: %w", err)
	}
	return model.ParseDataset(data)
}

// httpSource fetches data/sites.json relative to a base URL.
type httpSource struct {
	base        string
	client      *http.Client
	maxBodySize int64
	userAgent   string
}

// HTTPOption configures an HTTP source.
type HTTPOption func(*httpSource)

// WithHTTPClient sets the client used for the fetch.
func WithHTTPClient(client *http.Client) HTTPOption {
	return func(s *httpSource) {
		if client != nil {
			s.client = client
		}
	}
}

// WithMaxBodySize sets the maximum dataset size in bytes.
// Non-positive values keep the default.
func WithMaxBodySize(n int64) HTTPOption {
	return func(s *httpSource) {
		if n > 0 {
			s.maxBodySize = n
		}
	}
}

// WithUserAgent sets the User-Agent header of the fetch.
func WithUserAgent(ua string) HTTPOption {
	return func(s *httpSource) {
		s.userAgent = ua
	}
}

// HTTP returns a Source fetching DatasetPath relative to baseURL, the way
// a page fetches a same-origin resource next to itself.
func HTTP(baseURL string, opts ...HTTPOption) Source {
	s := &httpSource{
		base:        baseURL,
		client:      &http.Client{Timeout: DefaultFetchTimeout},
		maxBodySize: DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *httpSource) Name() string { return "fetch" }

// URL returns the resolved dataset URL.
func (s *httpSource) URL() (string, error) {
	base, err := url.Parse(s.base)
	if err != nil {
		return "", fmt.Errorf("invalid dataset base URL: %w", err)
	}
	ref, _ := url.Parse(DatasetPath) //nolint:errcheck // constant relative path always parses
	return base.ResolveReference(ref).String(), nil
}

func (s *httpSource) Load(ctx context.Context) (*model.Dataset, error) {
	target, err := s.URL()
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build dataset request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch dataset: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s from %s", ErrUnexpectedStatus, resp.Status, target)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, s.maxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset response: %w", err)
	}
	if int64(len(data)) > s.maxBodySize {
		return nil, ErrBodyTooLarge
	}
	return model.ParseDataset(data)
}
