package pipeline

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

// fakeCard is one search result card
type fakeCard struct {
	id     string
	title  string
	action string
}

func (c fakeCard) slug() string {
	return strings.ToLower(c.id)
}

func searchPage(cards ...fakeCard) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<p>Your search returned <strong>%d</strong> results</p>\n", len(cards))
	for _, c := range cards {
		fmt.Fprintf(&b, `<div class="card">
  <a href="/legislation/bills/2025/%s">%s&nbsp;P.N.&nbsp;100</a>
  <div><strong>Short Title:</strong></div>
  <div class="col-lg-10 flex-grow-1">%s</div>
  <div><strong>Last Action:</strong></div>
  <div class="col-lg-10 flex-grow-1">%s</div>
</div>
`, c.slug(), c.id, c.title, c.action)
	}
	return b.String()
}

// fakeBill is the content of one bill detail page
type fakeBill struct {
	shortTitle string
	lastAction string
	chamber    string
	committee  string
	coSponsors int
}

func sponsorHTML(chamber string, memberID int, name, party string, district int) string {
	path := strings.ToLower(chamber)
	return fmt.Sprintf(`<div class="sponsor">
  <a href="/%s/members/bio/%d/%s">%s</a>
  <span class="badge bg-party-%s">%s</span>
  <div>%s District&nbsp;%d</div>
</div>
`, path, memberID, strings.ToLower(strings.ReplaceAll(name, " ", "-")), name, party, party, chamber, district)
}

func billPage(b fakeBill) string {
	var co strings.Builder
	for i := 0; i < b.coSponsors; i++ {
		co.WriteString(sponsorHTML("House", 500+i, fmt.Sprintf("Rep %d", i), "R", 10+i))
	}

	committee := ""
	if b.committee != "" {
		committee = fmt.Sprintf(`<a class="committee-link" href="/committees/1">%s</a>`, b.committee)
	}

	return fmt.Sprintf(`<html><head><title>Bill Information; Pennsylvania General Assembly</title></head><body>
<div id="shortTitle-wrapper">%s</div>
<div><strong>Last Action:</strong> %s</div>
<div>Legislation is currently in the <strong>%s</strong> %s</div>
<div class="timeline timeline-big">
  <div class="timeline-Element bg-color-success"><span data-bs-toggle="tooltip" title="Introduced in the Senate"></span></div>
  <div class="timeline-Element bg-color-success"><span data-bs-toggle="tooltip" title="Referred to Education"></span></div>
  <div class="timeline-Element bg-color-neutral"><span data-bs-toggle="tooltip" title="Reported"></span></div>
  <div class="timeline-Element bg-color-neutral"><span data-bs-toggle="tooltip" title="Final passage"></span></div>
</div>
<div class="h3">Prime Sponsor <hr/></div>
%s
<div class="accordion">
<div class="h3">Co-Sponsors <hr/></div>
%s
</div>
<div id="section-pn"></div>
</body></html>`, b.shortTitle, b.lastAction, b.chamber, committee,
		sponsorHTML("Senate", 1234, "Jane Doe", "D", 17), co.String())
}

const bioHTML = `<a href="mailto:jdoe@pasen.gov">Email</a>
District Address (610) 555-0101 (717) 787-1234`

// fakeSite serves search, bill and member pages and records every request
type fakeSite struct {
	mu       sync.Mutex
	searches map[string][]fakeCard // keyword -> cards
	bills    map[string]fakeBill   // slug -> page
	failing  map[string]bool       // keyword or slug answering 500
	requests []string
	times    []time.Time
}

func newFakeSite() *fakeSite {
	return &fakeSite{
		searches: make(map[string][]fakeCard),
		bills:    make(map[string]fakeBill),
		failing:  make(map[string]bool),
	}
}

func (s *fakeSite) start(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(s)
	t.Cleanup(server.Close)
	return server
}

func (s *fakeSite) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.requests = append(s.requests, r.URL.RequestURI())
	s.times = append(s.times, time.Now())
	s.mu.Unlock()

	switch {
	case r.URL.Path == "/legislation/bills/bill-keyword-search":
		keyword := r.URL.Query().Get("keyword")
		if s.failing[keyword] {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(searchPage(s.searches[keyword]...)))

	case strings.HasPrefix(r.URL.Path, "/legislation/bills/2025/"):
		slug := strings.TrimPrefix(r.URL.Path, "/legislation/bills/2025/")
		page, ok := s.bills[slug]
		if !ok || s.failing[slug] {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(billPage(page)))

	case strings.Contains(r.URL.Path, "/members/bio/"):
		_, _ = w.Write([]byte(bioHTML))

	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (s *fakeSite) count(prefix string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, r := range s.requests {
		if strings.HasPrefix(r, prefix) {
			n++
		}
	}
	return n
}
