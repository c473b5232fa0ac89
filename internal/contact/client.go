package contact

import (
	"context"
	"time"

	"github.com/paunplugged/legis-tracker/internal/bill"
	"github.com/paunplugged/legis-tracker/internal/logger"
	"github.com/paunplugged/legis-tracker/internal/scraper"
	"github.com/rotisserie/eris"
)

// Metric names recorded by the client
const (
	MetricCacheHits   = "contacts.cache_hits"
	MetricCacheMisses = "contacts.cache_misses"
	MetricFailures    = "contacts.failures"
	MetricFetchTiming = "fetch.contact"
)

// PageFetcher fetches a page body by absolute URL
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Client looks up legislator contacts, consulting its cache before the site
type Client struct {
	fetcher PageFetcher
	baseURL string
	cache   *Cache
	metrics *logger.Metrics
}

// Option configures a Client
type Option func(*Client)

// WithCache makes the client read and fill an existing cache.
func WithCache(cache *Cache) Option {
	return func(c *Client) {
		if cache != nil {
			c.cache = cache
		}
	}
}

// WithMetrics records cache and fetch counters on m.
func WithMetrics(m *logger.Metrics) Option {
	return func(c *Client) {
		if m != nil {
			c.metrics = m
		}
	}
}

// NewClient creates a client that resolves bio paths against baseURL.
func NewClient(fetcher PageFetcher, baseURL string, opts ...Option) *Client {
	c := &Client{
		fetcher: fetcher,
		baseURL: baseURL,
		cache:   NewCache(),
		metrics: logger.NewMetrics(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetCache returns the client's cache
func (c *Client) GetCache() *Cache {
	return c.cache
}

// Fetch downloads and parses one member bio page, bypassing the cache.
func (c *Client) Fetch(ctx context.Context, bioPath string) (bill.Contact, error) {
	start := time.Now()
	html, err := c.fetcher.Fetch(ctx, scraper.MemberURL(c.baseURL, bioPath))
	c.metrics.RecordTiming(MetricFetchTiming, time.Since(start))
	if err != nil {
		return bill.Contact{Offices: []bill.Office{}}, eris.Wrapf(err, "fetching contact for %s", bioPath)
	}
	return ParseBioPage(html), nil
}

// Lookup returns the contact for a bio path from the cache, fetching it on a
// miss. A failed fetch yields an empty contact and is not cached, so the next
// run tries again.
func (c *Client) Lookup(ctx context.Context, bioPath string) bill.Contact {
	if e, ok := c.cache.Get(bioPath); ok {
		c.metrics.IncrCounter(MetricCacheHits)
		return e.Contact
	}
	c.metrics.IncrCounter(MetricCacheMisses)

	contact, err := c.Fetch(ctx, bioPath)
	if err != nil {
		c.metrics.IncrCounter(MetricFailures)
		logger.Warn("Couldn't fetch sponsor contact", logger.Fields{
			"bio_path": bioPath,
			"error":    err.Error(),
		})
		return contact
	}

	c.cache.Put(bioPath, contact)
	return contact
}
