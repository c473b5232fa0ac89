package scraper

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/paunplugged/legis-tracker/internal/bill"
	"github.com/paunplugged/legis-tracker/internal/logger"
)

var (
	titleBoilerplatePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?s)\s*Information;.*$`),
		regexp.MustCompile(`(?s) - The Official.*$`),
	}
	ellipsisPattern       = regexp.MustCompile(`\.\s\.\s\.|…`)
	lastActionPattern     = regexp.MustCompile(`<strong>Last Action:\s*</strong>([\s\S]*?)(?:\n\s*<span|</div>)`)
	currentChamberPattern = regexp.MustCompile(`Legislation is currently in the\s*<strong>(\w+)</strong>`)
	primeSectionPattern   = regexp.MustCompile(`Prime Sponsor\s*<hr\s*/?>\s*</div>([\s\S]*?)(?:<div class="h3|<div class="accordion|$)`)
	coSectionPattern      = regexp.MustCompile(`Co-Sponsors\s*<hr\s*/?>\s*</div>([\s\S]*?)(?:<div[^>]*id="section-pn"|$)`)
)

// page is one bill page as seen by the extraction rules
type page struct {
	raw     string
	baseURL string
	doc     *goquery.Document // nil when the markup could not be read
}

// extractionRule fills one field of a Detail and reports whether its markup matched
type extractionRule struct {
	name  string
	apply func(p *page, d *bill.Detail) bool
}

var detailRules = []extractionRule{
	{"title", extractTitle},
	{"short-title", extractShortTitle},
	{"last-action", extractLastAction},
	{"chamber", extractChamber},
	{"committee", extractCommittee},
	{"prime-sponsor", extractPrimeSponsor},
	{"co-sponsors", extractCoSponsors},
	{"timeline", extractTimeline},
}

// ParseBillPage extracts structured bill data from a bill detail page.
// Every rule runs independently; fields whose markup is absent stay empty.
func ParseBillPage(html, baseURL string) *bill.Detail {
	p := &page{raw: html, baseURL: baseURL}
	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(html)); err == nil {
		p.doc = doc
	}

	d := &bill.Detail{
		CoSponsors: []bill.Sponsor{},
		Timeline:   []bill.TimelineStep{},
	}

	var missed []string
	for _, rule := range detailRules {
		if !p.run(rule, d) {
			missed = append(missed, rule.name)
		}
	}
	if len(missed) > 0 {
		logger.Debug("Bill page rules without a match", logger.Fields{
			"rules": missed,
		})
	}

	return d
}

// run applies one rule, treating a panic as a miss so other rules still run.
func (p *page) run(rule extractionRule, d *bill.Detail) (matched bool) {
	defer func() {
		if r := recover(); r != nil {
			logger.Warn("Extraction rule failed", logger.Fields{
				"rule":  rule.name,
				"panic": fmt.Sprint(r),
			})
			matched = false
		}
	}()
	return rule.apply(p, d)
}

func extractTitle(p *page, d *bill.Detail) bool {
	if p.doc == nil {
		return false
	}
	title := strings.TrimSpace(p.doc.Find("title").First().Text())
	for _, pattern := range titleBoilerplatePatterns {
		title = pattern.ReplaceAllString(title, "")
	}
	d.Title = collapseSpace(title)
	return d.Title != ""
}

// extractShortTitle reads the collapsible short-title block, including its
// hidden remainder, without the expand button or ellipsis markers.
func extractShortTitle(p *page, d *bill.Detail) bool {
	if p.doc == nil {
		return false
	}
	wrapper := p.doc.Find("#shortTitle-wrapper").First()
	if wrapper.Length() == 0 {
		return false
	}

	block := wrapper.Clone()
	block.Find("button").Remove()
	text := ellipsisPattern.ReplaceAllString(block.Text(), "")
	d.ShortTitle = collapseSpace(text)
	return d.ShortTitle != ""
}

func extractLastAction(p *page, d *bill.Detail) bool {
	m := lastActionPattern.FindStringSubmatch(p.raw)
	if m == nil {
		return false
	}
	d.LastAction = cleanText(m[1])
	return d.LastAction != ""
}

func extractChamber(p *page, d *bill.Detail) bool {
	m := currentChamberPattern.FindStringSubmatch(p.raw)
	if m == nil {
		return false
	}
	d.Chamber = m[1]
	return true
}

func extractCommittee(p *page, d *bill.Detail) bool {
	if p.doc == nil {
		return false
	}
	link := p.doc.Find(`a[class^="committee"]`).First()
	if link.Length() == 0 {
		return false
	}
	d.Committee = collapseSpace(link.Text())
	return d.Committee != ""
}

func extractPrimeSponsor(p *page, d *bill.Detail) bool {
	m := primeSectionPattern.FindStringSubmatch(p.raw)
	if m == nil {
		return false
	}
	sponsors := ParseSponsors(m[1], p.baseURL)
	if len(sponsors) == 0 {
		return false
	}
	d.PrimeSponsor = &sponsors[0]
	return true
}

func extractCoSponsors(p *page, d *bill.Detail) bool {
	m := coSectionPattern.FindStringSubmatch(p.raw)
	if m == nil {
		return false
	}
	d.CoSponsors = ParseSponsors(m[1], p.baseURL)
	return len(d.CoSponsors) > 0
}

func extractTimeline(p *page, d *bill.Detail) bool {
	if p.doc == nil {
		return false
	}
	d.Timeline = ParseTimeline(p.doc.Selection)
	return len(d.Timeline) > 0
}
