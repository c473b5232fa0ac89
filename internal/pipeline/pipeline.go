package pipeline

import (
	"context"
	"time"

	"github.com/paunplugged/legis-tracker/internal/bill"
	"github.com/paunplugged/legis-tracker/internal/config"
	"github.com/paunplugged/legis-tracker/internal/logger"
	"github.com/paunplugged/legis-tracker/internal/scraper"
	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

// DefaultDelay is the minimum spacing between search and bill page requests
const DefaultDelay = 300 * time.Millisecond

// Metric names recorded during a run
const (
	MetricSearches        = "searches"
	MetricSearchFailures  = "searches.failed"
	MetricBillsFetched    = "bills.fetched"
	MetricBillFailures    = "bills.failed"
	MetricBillsDiscovered = "bills.discovered"
	MetricSearchTiming    = "fetch.search"
	MetricBillTiming      = "fetch.bill"
)

// Fetcher fetches a page body by absolute URL
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// ContactLookup resolves a sponsor bio path to contact details. It never fails;
// unknown details are left empty.
type ContactLookup interface {
	Lookup(ctx context.Context, bioPath string) bill.Contact
}

// Options tunes a pipeline
type Options struct {
	BaseURL     string
	SessionYear string
	Delay       time.Duration    // zero disables pacing
	Metrics     *logger.Metrics  // optional
	Now         func() time.Time // optional, for the generated timestamp
}

// Pipeline runs discovery and enrichment for a topic configuration
type Pipeline struct {
	fetcher  Fetcher
	contacts ContactLookup
	topics   *config.Topics
	known    *config.KnownBills
	opts     Options
	limiter  *rate.Limiter
	metrics  *logger.Metrics
}

// New creates a pipeline. A nil known-bills set means no annotations.
func New(fetcher Fetcher, contacts ContactLookup, topics *config.Topics, known *config.KnownBills, opts Options) *Pipeline {
	if known == nil {
		known = config.NewKnownBills()
	}
	if opts.BaseURL == "" {
		opts.BaseURL = scraper.BaseURL
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	metrics := opts.Metrics
	if metrics == nil {
		metrics = logger.NewMetrics()
	}

	return &Pipeline{
		fetcher:  fetcher,
		contacts: contacts,
		topics:   topics,
		known:    known,
		opts:     opts,
		limiter:  newLimiter(opts.Delay),
		metrics:  metrics,
	}
}

// newLimiter spaces requests at least delay apart. The first request is not delayed.
func newLimiter(delay time.Duration) *rate.Limiter {
	if delay <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(delay), 1)
}

// Metrics returns the tracker the pipeline records to
func (p *Pipeline) Metrics() *logger.Metrics {
	return p.metrics
}

// Run executes a full pass and returns the document to publish. It only
// fails when the context ends; per-bill and per-keyword failures are logged.
func (p *Pipeline) Run(ctx context.Context) (*bill.Document, error) {
	logger.Info("Run started", logger.Fields{
		"session_year": p.opts.SessionYear,
		"topics":       len(p.topics.Issues),
	})

	candidates, err := p.Discover(ctx)
	if err != nil {
		return nil, err
	}
	p.metrics.SetGauge(MetricBillsDiscovered, float64(len(candidates)))
	logger.Info("Discovery complete", logger.Fields{
		"unique_bills": len(candidates),
	})

	records := make([]*bill.Record, 0, len(candidates))
	for _, c := range candidates {
		r, err := p.Enrich(ctx, c)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}

	groups := Group(p.topics.Names(), records)

	doc := &bill.Document{
		Generated:   p.opts.Now().UTC(),
		SessionYear: p.opts.SessionYear,
		TotalBills:  len(records),
		Issues:      groups,
	}

	logger.Info("Run complete", logger.Fields{
		"bills":  doc.TotalBills,
		"issues": groups.Len(),
	})
	return doc, nil
}

// wait blocks until the next request may be made.
func (p *Pipeline) wait(ctx context.Context) error {
	if err := p.limiter.Wait(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return eris.Wrap(ctxErr, "run cancelled")
		}
		return eris.Wrap(err, "pacing requests")
	}
	return nil
}

// fetch waits for pacing, then fetches url, recording its duration under timing.
func (p *Pipeline) fetch(ctx context.Context, url, timing string) (string, error) {
	if err := p.wait(ctx); err != nil {
		return "", err
	}
	start := time.Now()
	html, err := p.fetcher.Fetch(ctx, url)
	p.metrics.RecordTiming(timing, time.Since(start))
	return html, err
}
