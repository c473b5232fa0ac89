package scraper

import (
	"html"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/paunplugged/legis-tracker/internal/bill"
)

const (
	stepCompleteClass = "bg-color-success"
	stepPendingClass  = "bg-color-neutral"
	pendingPhrase     = "has not yet reached this milestone"
	tooltipSelector   = `[data-bs-toggle="tooltip"], [data-toggle="tooltip"]`
)

var tooltipRewrites = []struct {
	pattern *regexp.Regexp
	with    string
}{
	{regexp.MustCompile(`</?strong>`), ""},
	{regexp.MustCompile(`<div[^>]*>`), " — "},
	{regexp.MustCompile(`</div>`), ""},
	{regexp.MustCompile(`</?p>`), "\n"},
	{regexp.MustCompile(`<br\s*/?>`), "\n"},
	{regexp.MustCompile(`&nbsp;|&#160;`), " "},
}

// ParseTimeline extracts the raw procedural timeline from a bill page in page
// order. Completion comes from each step's marker class; when no marked steps
// exist it is inferred from the tooltip text instead.
func ParseTimeline(root *goquery.Selection) []bill.TimelineStep {
	steps := make([]bill.TimelineStep, 0)

	container := root.Find(".timeline.timeline-big").First()
	if container.Length() == 0 {
		return steps
	}

	container.Find("div.timeline-Element").Each(func(_ int, el *goquery.Selection) {
		var completed bool
		switch {
		case el.HasClass(stepCompleteClass):
			completed = true
		case el.HasClass(stepPendingClass):
			completed = false
		default:
			return
		}

		label, ok := tooltipLabel(el)
		if !ok {
			return
		}
		steps = append(steps, bill.TimelineStep{Label: label, Completed: completed})
	})

	if len(steps) > 0 {
		return steps
	}

	container.Find(tooltipSelector).Each(func(_ int, tip *goquery.Selection) {
		title, _ := tip.Attr("title")
		label, ok := normalizeTooltip(title)
		if !ok {
			return
		}
		steps = append(steps, bill.TimelineStep{
			Label:     label,
			Completed: !strings.Contains(label, pendingPhrase),
		})
	})

	return steps
}

// tooltipLabel returns the tooltip text of a step element, looking at the
// element itself first and then its descendants.
func tooltipLabel(el *goquery.Selection) (string, bool) {
	tip := el.Filter(tooltipSelector)
	if tip.Length() == 0 {
		tip = el.Find(tooltipSelector).First()
	}
	if tip.Length() == 0 {
		return "", false
	}
	title, _ := tip.Attr("title")
	return normalizeTooltip(title)
}

// normalizeTooltip turns tooltip markup into one line of text. Navigation
// hints are not steps and are rejected.
func normalizeTooltip(title string) (string, bool) {
	for _, rw := range tooltipRewrites {
		title = rw.pattern.ReplaceAllString(title, rw.with)
	}
	label := collapseSpace(html.UnescapeString(stripTags(title)))
	if label == "" || strings.HasPrefix(label, "Navigate to") {
		return "", false
	}
	return label, true
}
