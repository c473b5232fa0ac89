package bill

import (
	"regexp"
	"strings"
	"time"
)

// "Feb. 4, 2026", "November 18, 2025", "Sept. 30, 2025"
var actionDatePattern = regexp.MustCompile(`(\w+)\.?\s+(\d{1,2}),\s*(\d{4})`)

// ParseActionDate finds the date embedded in last-action text.
// Returns time.Time{} (zero value) if no candidate parses.
func ParseActionDate(lastAction string) time.Time {
	if lastAction == "" {
		return time.Time{}
	}

	for _, m := range actionDatePattern.FindAllStringSubmatch(lastAction, -1) {
		month := monthAbbrev(m[1])
		if month == "" {
			continue
		}

		// Try "Feb 4, 2026" format
		t, err := time.Parse("Jan 2, 2006", month+" "+m[2]+", "+m[3])
		if err == nil {
			return t
		}
	}

	return time.Time{}
}

// monthAbbrev reduces a month word to the three-letter form time.Parse expects.
// "Sept" and "September" both become "Sep".
func monthAbbrev(word string) string {
	if len(word) < 3 {
		return ""
	}
	return strings.ToUpper(word[:1]) + strings.ToLower(word[1:3])
}
