package scraper

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/text/encoding/htmlindex"
)

const (
	BaseURL   = "https://www.palegis.us"
	UserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	Timeout   = 30 * time.Second
)

// FetchError reports a failed page fetch: either a non-2xx status or a
// transport error. Callers decide whether to skip; the scraper never retries.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e == nil {
		return ""
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetching %s: HTTP %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetching %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Scraper fetches pages from the legislature website
type Scraper struct {
	client  *http.Client
	baseURL string
}

// Option configures a Scraper
type Option func(*Scraper)

// WithBaseURL points the scraper at another host, e.g. a test server.
func WithBaseURL(baseURL string) Option {
	return func(s *Scraper) {
		s.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(s *Scraper) {
		if timeout > 0 {
			s.client.Timeout = timeout
		}
	}
}

// New creates a new Scraper instance
func New(opts ...Option) *Scraper {
	s := &Scraper{
		client: &http.Client{
			Timeout: Timeout,
		},
		baseURL: BaseURL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// BaseURL returns the site root all URLs are built from.
func (s *Scraper) BaseURL() string {
	return s.baseURL
}

// Fetch issues a single GET and returns the response body as UTF-8 text.
// Failures are returned as *FetchError.
func (s *Scraper) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return "", &FetchError{URL: url, Err: err}
	}
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", &FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &FetchError{URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(decodeBody(resp))
	if err != nil {
		return "", &FetchError{URL: url, Err: eris.Wrap(err, "reading body")}
	}

	return string(body), nil
}

// decodeBody converts the response body to UTF-8 when the server declares
// another charset. Unknown charsets are passed through unchanged.
func decodeBody(resp *http.Response) io.Reader {
	_, params, err := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if err != nil {
		return resp.Body
	}

	charset := strings.ToLower(params["charset"])
	if charset == "" || charset == "utf-8" || charset == "utf8" {
		return resp.Body
	}

	enc, err := htmlindex.Get(charset)
	if err != nil {
		return resp.Body
	}
	return enc.NewDecoder().Reader(resp.Body)
}
