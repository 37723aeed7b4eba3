package linkcheck

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/stopverifage/internal/model"
)

// Kind tells what a link points to.
type Kind string

const (
	// KindSite is the URL of a directory entry.
	KindSite Kind = "site"

	// KindAlternative is the URL of an alternative listed under an entry.
	KindAlternative Kind = "alternative"
)

// Default settings of a Checker.
const (
	DefaultConcurrency = 8
	DefaultTimeout     = 10 * time.Second
	DefaultUserAgent   = "stopverifage-linkcheck/1.0"
)

// ErrInvalidURL is reported for links that are not absolute http(s) URLs.
var ErrInvalidURL = errors.New("not an absolute http(s) URL")

// Link is one URL taken from the dataset.
type Link struct {
	SiteID int    `json:"site_id"`
	Site   string `json:"site"`
	Kind   Kind   `json:"kind"`
	Name   string `json:"name"`
	URL    string `json:"url"`
}

// Result is the outcome of checking a Link.
type Result struct {
	Link

	// Status is the final HTTP status code, or 0 when no response arrived.
	Status int `json:"status"`

	// Method is the request method that produced Status.
	Method string `json:"method,omitempty"`

	// Error describes why the link failed to answer.
	Error string `json:"error,omitempty"`

	// Duration is the time spent on the link, fallback included.
	Duration time.Duration `json:"duration"`
}

// OK reports whether the link answered with a non-error status.
func (r Result) OK() bool {
	return r.Error == "" && r.Status >= 200 && r.Status < 400
}

// Links lists the site URLs and alternative URLs of sites, in dataset order.
// Empty URLs are skipped.
func Links(sites []model.Site) []Link {
	links := make([]Link, 0, len(sites))
	for _, s := range sites {
		if s.URL != "" {
			links = append(links, Link{SiteID: s.ID, Site: s.Name, Kind: KindSite, Name: s.Name, URL: s.URL})
		}
		for _, a := range s.Alternatives {
			if a.URL == "" {
				continue
			}
			links = append(links, Link{SiteID: s.ID, Site: s.Name, Kind: KindAlternative, Name: a.Name, URL: a.URL})
		}
	}
	return links
}

// Failed returns the results that did not answer.
func Failed(results []Result) []Result {
	out := make([]Result, 0)
	for _, r := range results {
		if !r.OK() {
			out = append(out, r)
		}
	}
	return out
}

// ProgressFunc is called after each link is checked. It is called from
// the checking goroutines and must be safe for concurrent use.
type ProgressFunc func(r Result, done, total int)

// Checker requests links concurrently.
type Checker struct {
	client      *http.Client
	userAgent   string
	concurrency int
	timeout     time.Duration
	logger      *slog.Logger
	progress    ProgressFunc
}

// Option configures a Checker.
type Option func(*Checker)

// WithHTTPClient sets the client used for requests.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Checker) {
		if client != nil {
			c.client = client
		}
	}
}

// WithUserAgent sets the User-Agent header. Some sites answer differently
// to unknown agents.
func WithUserAgent(ua string) Option {
	return func(c *Checker) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithConcurrency bounds the number of links checked at once.
func WithConcurrency(n int) Option {
	return func(c *Checker) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// WithTimeout bounds each link, fallback request included.
func WithTimeout(d time.Duration) Option {
	return func(c *Checker) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Checker) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithProgress registers a callback invoked after each link.
func WithProgress(fn ProgressFunc) Option {
	return func(c *Checker) {
		c.progress = fn
	}
}

// NewChecker returns a Checker.
func NewChecker(opts ...Option) *Checker {
	c := &Checker{
		client:      &http.Client{},
		userAgent:   DefaultUserAgent,
		concurrency: DefaultConcurrency,
		timeout:     DefaultTimeout,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Check requests every link and returns one result per link, in the
// order given. Link failures are recorded in the results; the error is
// only set when ctx is cancelled. The results then keep what was checked
// before, and every link left unchecked carries the cancellation error
// with a zero Status.
func (c *Checker) Check(ctx context.Context, links []Link) ([]Result, error) {
	c.logger.Info("checking links", "total", len(links), "concurrency", c.concurrency)
	start := time.Now()

	results := make([]Result, len(links))
	checked := make([]bool, len(links))
	var (
		mu   sync.Mutex
		done int
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i, link := range links {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			r := c.checkOne(ctx, link)
			if !r.OK() {
				c.logger.Warn("link did not answer",
					"site", link.Site,
					"url", link.URL,
					"status", r.Status,
					"error", r.Error,
				)
			}

			mu.Lock()
			results[i] = r
			checked[i] = true
			done++
			n := done
			mu.Unlock()

			if c.progress != nil {
				c.progress(r, n, len(links))
			}
			return nil
		})
	}
	err := g.Wait()
	if err != nil {
		for i, link := range links {
			if !checked[i] {
				results[i] = Result{Link: link, Error: err.Error()}
			}
		}
	}

	c.logger.Info("link check complete", "total", len(links), "elapsed", time.Since(start))
	return results, err
}

// CheckSites checks every link of sites.
func (c *Checker) CheckSites(ctx context.Context, sites []model.Site) ([]Result, error) {
	return c.Check(ctx, Links(sites))
}

func (c *Checker) checkOne(ctx context.Context, link Link) (r Result) {
	r.Link = link
	start := time.Now()
	defer func() { r.Duration = time.Since(start) }()

	u, err := url.Parse(link.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		r.Error = ErrInvalidURL.Error()
		return r
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	status, err := c.request(ctx, http.MethodHead, link.URL)
	r.Method = http.MethodHead
	if err == nil && (status == http.StatusMethodNotAllowed || status == http.StatusNotImplemented) {
		status, err = c.request(ctx, http.MethodGet, link.URL)
		r.Method = http.MethodGet
	}
	r.Status = status
	if err != nil {
		r.Error = err.Error()
	}
	return r
}

// request sends one request and returns its status. The body is drained
// up to a small limit so the connection can be reused.
func (c *Checker) request(ctx context.Context, method, target string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, method, target, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64*1024))
	return resp.StatusCode, nil
}
