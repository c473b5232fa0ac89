package contact

import (
	"regexp"
	"strings"

	"github.com/paunplugged/legis-tracker/internal/bill"
)

var (
	// tried in order, first match wins
	emailPatterns = []*regexp.Regexp{
		regexp.MustCompile(`mailto:([^"']+)`),
		regexp.MustCompile(`['"]([a-zA-Z0-9._%+-]+@(?:pasen|pahouse|pahousegop)\.gov)['"]`),
		regexp.MustCompile(`([a-zA-Z0-9._%+-]+@(?:pasen|pahouse|pahousegop)\.gov)`),
	}

	// phones are only read from the address block, not the whole page
	addressAreaPattern = regexp.MustCompile(`District Address([\s\S]*?)(?:<footer|<script|$)`)
	phonePattern       = regexp.MustCompile(`\(\d{3}\)\s*\d{3}[-.]?\d{4}`)
)

const capitolAreaCode = "(717)"

// ParseBioPage extracts contact details from a member bio page.
// The Harrisburg (717) number is preferred as the main phone; the first other
// number is the district phone.
func ParseBioPage(html string) bill.Contact {
	c := bill.Contact{Offices: []bill.Office{}}

	for _, pattern := range emailPatterns {
		if m := pattern.FindStringSubmatch(html); m != nil {
			c.Email = bill.Optional(strings.TrimSpace(m[1]))
			break
		}
	}

	var area string
	if m := addressAreaPattern.FindStringSubmatch(html); m != nil {
		area = m[1]
	}

	var phones []string
	seen := make(map[string]bool)
	for _, p := range phonePattern.FindAllString(area, -1) {
		if !seen[p] {
			seen[p] = true
			phones = append(phones, p)
		}
	}

	var capitol, district string
	for _, p := range phones {
		if strings.HasPrefix(p, capitolAreaCode) {
			if capitol == "" {
				capitol = p
			}
		} else if district == "" {
			district = p
		}
	}

	switch {
	case capitol != "":
		c.Phone = bill.Optional(capitol)
	case district != "":
		c.Phone = bill.Optional(district)
	case len(phones) > 0:
		c.Phone = bill.Optional(phones[0])
	}
	c.DistrictPhone = bill.Optional(district)

	return c
}
