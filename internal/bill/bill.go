package bill

import (
	"time"
)

// MaxCoSponsors is the number of co-sponsors kept on a record for display.
const MaxCoSponsors = 5

// Stub is a bill as listed on a keyword search results page
type Stub struct {
	BillID          string   `json:"billId"`
	Slug            string   `json:"slug"`
	URL             string   `json:"url"`
	ShortTitle      string   `json:"shortTitle"`
	LastAction      string   `json:"lastAction"`
	MatchedKeywords []string `json:"matchedKeywords,omitempty"`
}

// Sponsor is a legislator credited on a bill page
type Sponsor struct {
	Name     string `json:"name"`
	Party    string `json:"party"` // single letter: R, D, I
	District string `json:"district"`
	MemberID string `json:"memberId"`
	BioPath  string `json:"bioPath"`
	PhotoURL string `json:"photoUrl"`
	Chamber  string `json:"chamber"` // "Senate" or "House"
}

// PartyName returns the full party name for the sponsor's party letter.
func (s Sponsor) PartyName() string {
	switch s.Party {
	case "R":
		return "Republican"
	case "D":
		return "Democrat"
	case "I":
		return "Independent"
	}
	return s.Party
}

// Office is a named legislator office with free-text details
type Office struct {
	Name    string `json:"name"`
	Details string `json:"details"`
}

// Contact holds the contact details scraped from a member bio page.
// Unknown values are nil so they serialize as JSON null.
type Contact struct {
	Email         *string  `json:"email"`
	Phone         *string  `json:"phone"`
	DistrictPhone *string  `json:"districtPhone"`
	Offices       []Office `json:"offices"`
}

// IsEmpty reports whether no contact detail is known.
func (c Contact) IsEmpty() bool {
	return c.Email == nil && c.Phone == nil && c.DistrictPhone == nil && len(c.Offices) == 0
}

// SponsorContact is a sponsor merged with their contact details
type SponsorContact struct {
	Sponsor
	Contact
}

// WithContact merges a sponsor with contact details.
func WithContact(s Sponsor, c Contact) *SponsorContact {
	if c.Offices == nil {
		c.Offices = []Office{}
	}
	return &SponsorContact{Sponsor: s, Contact: c}
}

// TimelineStep is one raw procedural milestone in page order
type TimelineStep struct {
	Label     string `json:"label"`
	Completed bool   `json:"completed"`
}

// Detail is everything extracted from a single bill page.
// Any field may be zero when the page markup did not match.
type Detail struct {
	Title        string
	ShortTitle   string
	LastAction   string
	Chamber      string
	Committee    string
	PrimeSponsor *Sponsor
	CoSponsors   []Sponsor
	Timeline     []TimelineStep
}

// Record is the normalized bill written to the output document
type Record struct {
	ID              string          `json:"id"`
	URL             string          `json:"url"`
	Title           string          `json:"title"`
	Nickname        *string         `json:"nickname"`
	Description     *string         `json:"description"`
	Note            *string         `json:"note"`
	Issues          []string        `json:"issues"` // first is the primary topic
	LastAction      string          `json:"lastAction"`
	Status          string          `json:"status"`
	Chamber         *string         `json:"chamber"`
	Committee       *string         `json:"committee"`
	Timeline        []Stage         `json:"timeline"`
	PrimeSponsor    *SponsorContact `json:"primeSponsor"`
	CoSponsorCount  int             `json:"coSponsorCount"`
	CoSponsors      []Sponsor       `json:"coSponsors"`
	MatchedKeywords []string        `json:"matchedKeywords"`
}

// PrimaryIssue returns the topic the record is grouped under.
func (r *Record) PrimaryIssue() string {
	if len(r.Issues) == 0 {
		return ""
	}
	return r.Issues[0]
}

// ActionDate returns the date embedded in the record's last action,
// or the zero time when none can be parsed.
func (r *Record) ActionDate() time.Time {
	return ParseActionDate(r.LastAction)
}

// TopCoSponsors returns at most MaxCoSponsors co-sponsors, never nil.
func TopCoSponsors(all []Sponsor) []Sponsor {
	n := len(all)
	if n > MaxCoSponsors {
		n = MaxCoSponsors
	}
	top := make([]Sponsor, n)
	copy(top, all[:n])
	return top
}

// Optional returns nil for an empty string, otherwise a pointer to s.
func Optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Document is the single artifact consumed by the dashboard
type Document struct {
	Generated   time.Time `json:"generated"`
	SessionYear string    `json:"sessionYear"`
	TotalBills  int       `json:"totalBills"`
	Issues      *Groups   `json:"issues"`
}
