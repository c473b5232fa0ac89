package pipeline

import (
	"context"

	"github.com/paunplugged/legis-tracker/internal/bill"
	"github.com/paunplugged/legis-tracker/internal/config"
	"github.com/paunplugged/legis-tracker/internal/logger"
	"github.com/paunplugged/legis-tracker/internal/scraper"
)

// Candidate is a discovered bill with every topic and keyword that found it
type Candidate struct {
	Stub     bill.Stub
	Issues   []string // topic order; the first is the primary topic
	Keywords []string // ordered union across topics
}

// Discover searches every keyword of every topic and merges the results.
// Bills keep the order in which they were first found. Hidden bills are
// dropped. A failed search is logged and skipped.
func (p *Pipeline) Discover(ctx context.Context) ([]*Candidate, error) {
	var order []*Candidate
	byID := make(map[string]*Candidate)

	for _, topic := range p.topics.Issues {
		stubs, err := p.scanTopic(ctx, topic)
		if err != nil {
			return nil, err
		}
		logger.Info("Scanned issue", logger.Fields{
			"issue": topic.Name,
			"bills": len(stubs),
		})

		for _, stub := range stubs {
			if p.known.Hidden(stub.BillID) {
				logger.Debug("Skipping hidden bill", logger.Fields{"bill_id": stub.BillID})
				continue
			}

			c, ok := byID[stub.BillID]
			if !ok {
				c = &Candidate{Stub: stub}
				byID[stub.BillID] = c
				order = append(order, c)
			}
			c.Issues = appendUnique(c.Issues, topic.Name)
			c.Keywords = appendUnique(c.Keywords, stub.MatchedKeywords...)
		}
	}

	return order, nil
}

// scanTopic runs one search per keyword. A bill found by several keywords
// appears once, carrying every matching keyword.
func (p *Pipeline) scanTopic(ctx context.Context, topic config.Topic) ([]bill.Stub, error) {
	var stubs []bill.Stub
	index := make(map[string]int)

	for _, keyword := range topic.Keywords {
		p.metrics.IncrCounter(MetricSearches)

		html, err := p.fetch(ctx, scraper.SearchURL(p.opts.BaseURL, keyword, p.opts.SessionYear), MetricSearchTiming)
		if err != nil {
			if ctx.Err() != nil {
				return nil, err
			}
			p.metrics.IncrCounter(MetricSearchFailures)
			logger.Warn("Search failed", logger.Fields{
				"issue":   topic.Name,
				"keyword": keyword,
				"error":   err.Error(),
			})
			continue
		}

		for _, stub := range scraper.ParseSearchResults(html, p.opts.BaseURL) {
			if i, ok := index[stub.BillID]; ok {
				stubs[i].MatchedKeywords = appendUnique(stubs[i].MatchedKeywords, keyword)
				continue
			}
			stub.MatchedKeywords = []string{keyword}
			index[stub.BillID] = len(stubs)
			stubs = append(stubs, stub)
		}
	}

	return stubs, nil
}

func appendUnique(list []string, values ...string) []string {
	for _, v := range values {
		found := false
		for _, existing := range list {
			if existing == v {
				found = true
				break
			}
		}
		if !found {
			list = append(list, v)
		}
	}
	return list
}
