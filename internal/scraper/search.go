package scraper

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/paunplugged/legis-tracker/internal/bill"
)

const nbsp = `(?:\s|&nbsp;|&#160;)*`

var (
	resultCountPattern = regexp.MustCompile(`returned\s*<strong>([\d,]+)</strong>\s*results`)

	// <a href="/legislation/bills/2025/sb123">SB0123 &nbsp;P.N.&nbsp;1456</a>
	resultCardPattern = regexp.MustCompile(`href="/legislation/bills/(\d+)/(\w+)"[^>]*>\s*(\w+)` + nbsp + `P\.N\.` + nbsp + `(\d+)`)

	shortTitleFieldPattern = regexp.MustCompile(`<strong>Short Title:</strong>[\s\S]*?<div class="col-lg-10 flex-grow-1">\s*([\s\S]*?)\s*</div>`)
	lastActionFieldPattern = regexp.MustCompile(`<strong>Last Action:</strong>[\s\S]*?<div class="col-lg-10 flex-grow-1">\s*([\s\S]*?)\s*</div>`)
)

// ResultCount returns the number of results a search page reports, or 0
// when the page does not report one.
func ResultCount(html string) int {
	m := resultCountPattern.FindStringSubmatch(html)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(strings.ReplaceAll(m[1], ",", ""))
	if err != nil {
		return 0
	}
	return n
}

// ParseSearchResults extracts bill stubs from a keyword search results page.
// A page reporting zero results yields an empty list without scanning.
// The first card for a bill wins; missing short titles or last actions are
// left empty.
func ParseSearchResults(html, baseURL string) []bill.Stub {
	stubs := make([]bill.Stub, 0)
	if ResultCount(html) == 0 {
		return stubs
	}

	cards := resultCardPattern.FindAllStringSubmatchIndex(html, -1)
	ids := make([]string, len(cards))
	for i, loc := range cards {
		ids[i] = NormalizeBillID(html[loc[6]:loc[7]])
	}

	seen := make(map[string]bool)
	for i, loc := range cards {
		id := ids[i]
		if seen[id] {
			continue
		}
		seen[id] = true

		year := html[loc[2]:loc[3]]
		slug := html[loc[4]:loc[5]]

		// Card fields are only searched up to the next bill's card.
		end := len(html)
		for j := i + 1; j < len(cards); j++ {
			if ids[j] != id {
				end = cards[j][0]
				break
			}
		}
		segment := html[loc[1]:end]

		stubs = append(stubs, bill.Stub{
			BillID:     id,
			Slug:       slug,
			URL:        BillPageURL(baseURL, year, slug),
			ShortTitle: cardField(shortTitleFieldPattern, segment),
			LastAction: cardField(lastActionFieldPattern, segment),
		})
	}

	return stubs
}

func cardField(pattern *regexp.Regexp, segment string) string {
	m := pattern.FindStringSubmatch(segment)
	if m == nil {
		return ""
	}
	return cleanText(m[1])
}
