package pipeline

import (
	"context"

	"github.com/paunplugged/legis-tracker/internal/bill"
	"github.com/paunplugged/legis-tracker/internal/logger"
	"github.com/paunplugged/legis-tracker/internal/scraper"
	"github.com/rotisserie/eris"
)

// Enrich builds the record for a discovered bill from its detail page.
// When the page cannot be fetched the record is built from the search stub
// alone. Only a cancelled context is returned as an error.
func (p *Pipeline) Enrich(ctx context.Context, c *Candidate) (*bill.Record, error) {
	id := c.Stub.BillID

	url, err := scraper.BillURL(p.opts.BaseURL, id, p.opts.SessionYear)
	if err != nil {
		logger.Error("Discovered bill has an invalid id", logger.Fields{"bill_id": id}, err)
		return p.degradedRecord(c), nil
	}

	logger.Debug("Fetching bill", logger.Fields{"bill_id": id})
	html, err := p.fetch(ctx, url, MetricBillTiming)
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		p.metrics.IncrCounter(MetricBillFailures)
		logger.Warn("Bill page fetch failed", logger.Fields{
			"bill_id": id,
			"url":     url,
			"error":   err.Error(),
		})
		return p.degradedRecord(c), nil
	}
	p.metrics.IncrCounter(MetricBillsFetched)

	detail := scraper.ParseBillPage(html, p.opts.BaseURL)
	return p.record(ctx, c, detail), nil
}

// Bill fetches and normalizes a single bill outside of discovery. Unlike
// Enrich it reports fetch failures to the caller.
func (p *Pipeline) Bill(ctx context.Context, billID string) (*bill.Record, error) {
	id, err := scraper.ValidateBillID(billID)
	if err != nil {
		return nil, err
	}

	url, err := scraper.BillURL(p.opts.BaseURL, id, p.opts.SessionYear)
	if err != nil {
		return nil, err
	}

	html, err := p.fetch(ctx, url, MetricBillTiming)
	if err != nil {
		p.metrics.IncrCounter(MetricBillFailures)
		return nil, eris.Wrapf(err, "fetching %s", id)
	}
	p.metrics.IncrCounter(MetricBillsFetched)

	c := &Candidate{Stub: bill.Stub{BillID: id, URL: url}}
	return p.record(ctx, c, scraper.ParseBillPage(html, p.opts.BaseURL)), nil
}

// record merges a candidate, its parsed detail page and curated annotations.
func (p *Pipeline) record(ctx context.Context, c *Candidate, d *bill.Detail) *bill.Record {
	id := c.Stub.BillID

	lastAction := firstNonEmpty(d.LastAction, c.Stub.LastAction)

	var prime *bill.SponsorContact
	if d.PrimeSponsor != nil {
		var contact bill.Contact
		if d.PrimeSponsor.BioPath != "" && p.contacts != nil {
			contact = p.contacts.Lookup(ctx, d.PrimeSponsor.BioPath)
		}
		prime = bill.WithContact(*d.PrimeSponsor, contact)
	}

	timeline := bill.NormalizeTimeline(d.Timeline)
	if len(d.Timeline) == 0 {
		logger.Debug("Bill page has no timeline", logger.Fields{"bill_id": id})
	}

	return &bill.Record{
		ID:              id,
		URL:             c.Stub.URL,
		Title:           firstNonEmpty(d.ShortTitle, d.Title, c.Stub.ShortTitle),
		Nickname:        p.known.Nickname(id),
		Description:     p.known.Description(id),
		Note:            p.known.Note(id),
		Issues:          nonNil(c.Issues),
		LastAction:      lastAction,
		Status:          bill.BuildStatus(d.Chamber, d.Committee, lastAction),
		Chamber:         bill.Optional(d.Chamber),
		Committee:       bill.Optional(d.Committee),
		Timeline:        timeline,
		PrimeSponsor:    prime,
		CoSponsorCount:  len(d.CoSponsors),
		CoSponsors:      bill.TopCoSponsors(d.CoSponsors),
		MatchedKeywords: nonNil(c.Keywords),
	}
}

// degradedRecord is the record for a bill whose detail page is unavailable.
func (p *Pipeline) degradedRecord(c *Candidate) *bill.Record {
	id := c.Stub.BillID
	return &bill.Record{
		ID:              id,
		URL:             c.Stub.URL,
		Title:           c.Stub.ShortTitle,
		Nickname:        p.known.Nickname(id),
		Description:     p.known.Description(id),
		Note:            p.known.Note(id),
		Issues:          nonNil(c.Issues),
		LastAction:      c.Stub.LastAction,
		Status:          bill.BuildStatus("", "", c.Stub.LastAction),
		Timeline:        []bill.Stage{},
		CoSponsors:      []bill.Sponsor{},
		MatchedKeywords: nonNil(c.Keywords),
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
