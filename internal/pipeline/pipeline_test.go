package pipeline

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/paunplugged/legis-tracker/internal/bill"
	"github.com/paunplugged/legis-tracker/internal/config"
	"github.com/paunplugged/legis-tracker/internal/contact"
	"github.com/paunplugged/legis-tracker/internal/logger"
	"github.com/paunplugged/legis-tracker/internal/scraper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTopics = &config.Topics{
	SessionYear: "2025",
	Issues: []config.Topic{
		{Name: "Phone-Free Schools", Keywords: []string{"cell phone", "cellphone"}},
		{Name: "School Safety", Keywords: []string{"threat assessment", "broken"}},
		{Name: "Unused", Keywords: []string{"nothing"}},
	},
}

func newTestSite() *fakeSite {
	site := newFakeSite()
	site.searches["cell phone"] = []fakeCard{
		{"SB1", "Phones in class", "Referred to Education, Jan. 5, 2026"},
		{"HB2", "Device storage", "Laid on the table, Feb. 1, 2026"},
	}
	site.searches["cellphone"] = []fakeCard{
		{"SB1", "Phones in class", "Referred to Education, Jan. 5, 2026"},
		{"HB3", "Phone pouches", "Pending"},
	}
	site.searches["threat assessment"] = []fakeCard{
		{"HB2", "Device storage", "Laid on the table, Feb. 1, 2026"},
		{"SB9", "Hidden bill", "Referred to Judiciary, Mar. 1, 2026"},
		{"HB4", "Threat teams", "Referred to Education, Mar. 2, 2026"},
	}
	site.failing["broken"] = true

	site.bills["sb1"] = fakeBill{
		shortTitle: "An Act restricting phones in class",
		lastAction: "Referred to Education, Jan. 5, 2026",
		chamber:    "Senate",
		committee:  "Education",
		coSponsors: 7,
	}
	site.bills["hb2"] = fakeBill{
		shortTitle: "An Act on device storage",
		lastAction: "Laid on the table, Feb. 1, 2026",
		chamber:    "House",
	}
	site.bills["hb4"] = fakeBill{
		shortTitle: "An Act on threat teams",
		lastAction: "Referred to Education, Mar. 2, 2026",
		chamber:    "House",
		committee:  "Education",
	}
	// hb3 has no page: its fetch fails with 404
	return site
}

func newTestPipeline(t *testing.T, site *fakeSite, known *config.KnownBills) (*Pipeline, *contact.Client) {
	t.Helper()
	server := site.start(t)

	metrics := logger.NewMetrics()
	s := scraper.New(scraper.WithBaseURL(server.URL))
	contacts := contact.NewClient(s, s.BaseURL(), contact.WithMetrics(metrics))

	p := New(s, contacts, testTopics, known, Options{
		BaseURL:     s.BaseURL(),
		SessionYear: "2025",
		Metrics:     metrics,
		Now:         func() time.Time { return time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC) },
	})
	return p, contacts
}

func hideSB9(t *testing.T) *config.KnownBills {
	t.Helper()
	k := &config.KnownBills{
		Hide:      []string{"sb0009"},
		Nicknames: map[string]string{"SB1": "Bell-to-Bell"},
		Notes:     map[string]string{"HB3": "Watch this one"},
	}
	require.NoError(t, k.Normalize())
	return k
}

func TestRun(t *testing.T) {
	site := newTestSite()
	p, contacts := newTestPipeline(t, site, hideSB9(t))

	doc, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "2025", doc.SessionYear)
	assert.Equal(t, 4, doc.TotalBills)
	assert.Equal(t, time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC), doc.Generated)
	assert.Equal(t, []string{"Phone-Free Schools", "School Safety"}, doc.Issues.Topics())

	phones := doc.Issues.Bills("Phone-Free Schools")
	require.Len(t, phones, 3)
	assert.Equal(t, "HB2", phones[0].ID, "most recent action first")
	assert.Equal(t, "SB1", phones[1].ID)
	assert.Equal(t, "HB3", phones[2].ID, "undated action last")

	safety := doc.Issues.Bills("School Safety")
	require.Len(t, safety, 1)
	assert.Equal(t, "HB4", safety[0].ID)

	t.Run("merged topics and keywords", func(t *testing.T) {
		sb1 := phones[1]
		assert.Equal(t, []string{"Phone-Free Schools"}, sb1.Issues)
		assert.Equal(t, []string{"cell phone", "cellphone"}, sb1.MatchedKeywords)

		hb2 := phones[0]
		assert.Equal(t, []string{"Phone-Free Schools", "School Safety"}, hb2.Issues)
		assert.Equal(t, []string{"cell phone", "threat assessment"}, hb2.MatchedKeywords)
	})

	t.Run("enriched record", func(t *testing.T) {
		sb1 := phones[1]
		assert.Equal(t, "An Act restricting phones in class", sb1.Title)
		assert.Equal(t, "Bell-to-Bell", *sb1.Nickname)
		assert.Nil(t, sb1.Note)
		assert.Equal(t, "Senate", *sb1.Chamber)
		assert.Equal(t, "Education", *sb1.Committee)
		assert.Equal(t, "In Senate Education Committee"+bill.StatusSeparator+"Referred Jan. 5, 2026", sb1.Status)
		assert.Equal(t, 7, sb1.CoSponsorCount)
		assert.Len(t, sb1.CoSponsors, bill.MaxCoSponsors)
		require.Len(t, sb1.Timeline, 6)
		assert.Equal(t, "Senate Committee", sb1.Timeline[1].Label)
		assert.True(t, sb1.Timeline[1].Current)

		require.NotNil(t, sb1.PrimeSponsor)
		assert.Equal(t, "Jane Doe", sb1.PrimeSponsor.Name)
		assert.Equal(t, "jdoe@pasen.gov", *sb1.PrimeSponsor.Email)
		assert.Equal(t, "(717) 787-1234", *sb1.PrimeSponsor.Phone)
		assert.Equal(t, "(610) 555-0101", *sb1.PrimeSponsor.DistrictPhone)
		assert.True(t, strings.HasSuffix(sb1.URL, "/legislation/bills/2025/sb1"))
	})

	t.Run("degraded record", func(t *testing.T) {
		hb3 := phones[2]
		assert.Equal(t, "Phone pouches", hb3.Title)
		assert.Equal(t, "Pending", hb3.LastAction)
		assert.Equal(t, "Pending", hb3.Status)
		assert.Equal(t, "Watch this one", *hb3.Note)
		assert.Nil(t, hb3.Chamber)
		assert.Nil(t, hb3.Committee)
		assert.Nil(t, hb3.PrimeSponsor)
		assert.Empty(t, hb3.Timeline)
		assert.NotNil(t, hb3.Timeline)
		assert.Zero(t, hb3.CoSponsorCount)
		assert.NotNil(t, hb3.CoSponsors)
	})

	t.Run("hidden bill never fetched", func(t *testing.T) {
		assert.Zero(t, site.count("/legislation/bills/2025/sb9"))
		for _, topic := range doc.Issues.Topics() {
			for _, r := range doc.Issues.Bills(topic) {
				assert.NotEqual(t, "SB9", r.ID)
			}
		}
	})

	t.Run("contacts fetched once per sponsor", func(t *testing.T) {
		assert.Equal(t, 1, site.count("/senate/members/bio/1234/"))
		assert.Equal(t, 1, contacts.GetCache().Len())
	})

	t.Run("metrics", func(t *testing.T) {
		m := p.Metrics()
		assert.Equal(t, int64(5), m.Counter(MetricSearches))
		assert.Equal(t, int64(1), m.Counter(MetricSearchFailures))
		assert.Equal(t, int64(3), m.Counter(MetricBillsFetched))
		assert.Equal(t, int64(1), m.Counter(MetricBillFailures))
		assert.Equal(t, int64(2), m.Counter(contact.MetricCacheHits))
	})

	t.Run("issues serialize in topic order", func(t *testing.T) {
		data, err := json.Marshal(doc)
		require.NoError(t, err)
		out := string(data)
		assert.Less(t, strings.Index(out, `"Phone-Free Schools"`), strings.Index(out, `"School Safety"`))
		assert.NotContains(t, out, `"Unused"`)
		assert.Contains(t, out, `"chamber":null`)
	})
}

func TestRunAllSearchesFail(t *testing.T) {
	site := newFakeSite()
	for _, topic := range testTopics.Issues {
		for _, kw := range topic.Keywords {
			site.failing[kw] = true
		}
	}
	p, _ := newTestPipeline(t, site, nil)

	doc, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, doc.TotalBills)
	assert.Empty(t, doc.Issues.Topics())

	data, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"issues":{}`)
}

func TestRunCancelled(t *testing.T) {
	site := newTestSite()
	p, _ := newTestPipeline(t, site, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	doc, err := p.Run(ctx)
	require.Error(t, err)
	assert.Nil(t, doc)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPacing(t *testing.T) {
	site := newFakeSite()
	server := site.start(t)
	s := scraper.New(scraper.WithBaseURL(server.URL))

	topics := &config.Topics{Issues: []config.Topic{
		{Name: "A", Keywords: []string{"one", "two", "three"}},
	}}
	delay := 50 * time.Millisecond
	p := New(s, nil, topics, nil, Options{BaseURL: s.BaseURL(), SessionYear: "2025", Delay: delay})

	_, err := p.Run(context.Background())
	require.NoError(t, err)

	site.mu.Lock()
	defer site.mu.Unlock()
	require.Len(t, site.times, 3)
	for i := 1; i < len(site.times); i++ {
		gap := site.times[i].Sub(site.times[i-1])
		assert.GreaterOrEqual(t, gap, delay-10*time.Millisecond, "request %d came too soon", i)
	}
}

func TestBill(t *testing.T) {
	site := newTestSite()
	p, _ := newTestPipeline(t, site, nil)

	r, err := p.Bill(context.Background(), "sb0001")
	require.NoError(t, err)
	assert.Equal(t, "SB1", r.ID)
	assert.Equal(t, "An Act restricting phones in class", r.Title)
	assert.Empty(t, r.Issues)
	assert.NotNil(t, r.Issues)
	assert.NotNil(t, r.MatchedKeywords)

	_, err = p.Bill(context.Background(), "HB3")
	var fetchErr *scraper.FetchError
	assert.ErrorAs(t, err, &fetchErr)
}

func TestBillRejectsMalformedID(t *testing.T) {
	site := newTestSite()
	p, _ := newTestPipeline(t, site, nil)

	_, err := p.Bill(context.Background(), "XB1")
	assert.ErrorIs(t, err, scraper.ErrInvalidBillID)

	site.mu.Lock()
	defer site.mu.Unlock()
	assert.Empty(t, site.requests)
}

func TestEnrichInvalidDiscoveredID(t *testing.T) {
	site := newTestSite()
	p, _ := newTestPipeline(t, site, nil)

	r, err := p.Enrich(context.Background(), &Candidate{
		Stub:   bill.Stub{BillID: "SR12X", ShortTitle: "Odd", LastAction: "Adopted, Apr. 1, 2026"},
		Issues: []string{"Phone-Free Schools"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Odd", r.Title)
	assert.Equal(t, "Adopted Apr. 1, 2026", r.Status)
	assert.Empty(t, r.Timeline)

	site.mu.Lock()
	defer site.mu.Unlock()
	assert.Empty(t, site.requests)
}
