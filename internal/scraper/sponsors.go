package scraper

import (
	"html"
	"regexp"
	"strings"

	"github.com/paunplugged/legis-tracker/internal/bill"
)

// <a href='/senate/members/bio/1234/jane-doe' ...>Jane Doe</a> ...
// <span class="badge bg-party-D">D</span> ... Senate District&nbsp;17
var sponsorEntryPattern = regexp.MustCompile(
	`<a href=['"](/(senate|house)/members/bio/(\d+)/[^'"]*)['"][^>]*>([^<]+)</a>` +
		`[\s\S]*?<span class=['"]badge bg-party-(\w)['"]>` +
		`[\s\S]*?(?:Senate|House) District(?:&nbsp;|&#160;|\s)+(\d+)`)

// ParseSponsors extracts every sponsor entry from a sponsor-list fragment in
// page order. A fragment without entries yields an empty list.
func ParseSponsors(fragment, baseURL string) []bill.Sponsor {
	sponsors := make([]bill.Sponsor, 0)
	for _, m := range sponsorEntryPattern.FindAllStringSubmatch(fragment, -1) {
		chamber := "House"
		if strings.EqualFold(m[2], "senate") {
			chamber = "Senate"
		}
		sponsors = append(sponsors, bill.Sponsor{
			Name:     strings.TrimSpace(html.UnescapeString(m[4])),
			Party:    strings.ToUpper(m[5]),
			District: m[6],
			MemberID: m[3],
			BioPath:  m[1],
			PhotoURL: PhotoURL(baseURL, m[3]),
			Chamber:  chamber,
		})
	}
	return sponsors
}
