package scraper

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/rotisserie/eris"
)

// ErrInvalidBillID is returned for identifiers that are not chamber+type+number.
var ErrInvalidBillID = eris.New("invalid bill id")

var (
	// "SB0123" -> "SB123"
	paddedBillIDPattern = regexp.MustCompile(`^([A-Z]{2})0*(\d+)$`)
	billIDPattern       = regexp.MustCompile(`^(S|H)(B|R)(\d+)$`)
)

// NormalizeBillID strips zero padding and upper-cases a bill identifier.
// It is idempotent: "SB0123", "sb123" and "SB123" all give "SB123".
func NormalizeBillID(id string) string {
	id = strings.ToUpper(strings.TrimSpace(id))
	return paddedBillIDPattern.ReplaceAllString(id, "${1}${2}")
}

// ValidateBillID normalizes id and checks it is a Senate/House bill or resolution.
func ValidateBillID(id string) (string, error) {
	normalized := NormalizeBillID(id)
	if !billIDPattern.MatchString(normalized) {
		return "", eris.Wrapf(ErrInvalidBillID, "%q", id)
	}
	return normalized, nil
}

// BillURL builds the detail page URL for a bill in a session.
// Malformed identifiers are rejected before any request is made.
func BillURL(baseURL, billID, sessionYear string) (string, error) {
	normalized, err := ValidateBillID(billID)
	if err != nil {
		return "", err
	}
	m := billIDPattern.FindStringSubmatch(normalized)
	slug := strings.ToLower(m[1]+m[2]) + m[3]
	return BillPageURL(baseURL, sessionYear, slug), nil
}

// BillPageURL builds a bill page URL from a search-result slug.
func BillPageURL(baseURL, sessionYear, slug string) string {
	return fmt.Sprintf("%s/legislation/bills/%s/%s", baseURL, sessionYear, slug)
}

// SearchURL builds a keyword search over current printer's numbers of bills.
func SearchURL(baseURL, keyword, sessionYear string) string {
	params := url.Values{}
	params.Set("sessYr", sessionYear)
	params.Set("sessInd", "0")
	params.Set("keyword", keyword)
	params.Set("searchType", "text")
	params.Set("billBody", "")
	params.Set("billType", "B")
	params.Set("currPNOnly", "true")
	return fmt.Sprintf("%s/legislation/bills/bill-keyword-search?%s", baseURL, params.Encode())
}

// PhotoURL builds a member portrait URL from their numeric member id.
func PhotoURL(baseURL, memberID string) string {
	return fmt.Sprintf("%s/resources/images/members/300/%s.jpg", baseURL, memberID)
}

// MemberURL builds the absolute URL of a member bio path.
func MemberURL(baseURL, bioPath string) string {
	if !strings.HasPrefix(bioPath, "/") {
		bioPath = "/" + bioPath
	}
	return baseURL + bioPath
}
