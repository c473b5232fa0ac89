package contact

import (
	"encoding/json"
	"time"

	"github.com/paunplugged/legis-tracker/internal/bill"
)

// TTL is how long a cached contact stays valid
const TTL = 7 * 24 * time.Hour

// Entry is a cached contact and the time it was fetched
type Entry struct {
	bill.Contact
	CachedAt time.Time
}

// Expired reports whether the entry is at least TTL old at now.
func (e Entry) Expired(now time.Time) bool {
	return now.Sub(e.CachedAt) >= TTL
}

type entryJSON struct {
	Email         *string       `json:"email"`
	Phone         *string       `json:"phone"`
	DistrictPhone *string       `json:"districtPhone"`
	Offices       []bill.Office `json:"offices"`
	Timestamp     int64         `json:"_ts"` // Unix milliseconds
}

// MarshalJSON writes the entry in the cache file format.
func (e Entry) MarshalJSON() ([]byte, error) {
	offices := e.Offices
	if offices == nil {
		offices = []bill.Office{}
	}
	return json.Marshal(entryJSON{
		Email:         e.Email,
		Phone:         e.Phone,
		DistrictPhone: e.DistrictPhone,
		Offices:       offices,
		Timestamp:     e.CachedAt.UnixMilli(),
	})
}

// UnmarshalJSON reads an entry from the cache file format. A missing
// timestamp reads as the Unix epoch, which is always expired.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var raw entryJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	e.Contact = bill.Contact{
		Email:         raw.Email,
		Phone:         raw.Phone,
		DistrictPhone: raw.DistrictPhone,
		Offices:       raw.Offices,
	}
	if e.Offices == nil {
		e.Offices = []bill.Office{}
	}
	e.CachedAt = time.UnixMilli(raw.Timestamp)
	return nil
}

// Cache maps member bio paths to contact details
type Cache struct {
	entries map[string]Entry
	now     func() time.Time
}

// NewCache creates an empty cache
func NewCache() *Cache {
	return &Cache{
		entries: make(map[string]Entry),
		now:     time.Now,
	}
}

// Get returns the cached entry for a bio path. Entries are not checked for
// expiry here.
func (c *Cache) Get(bioPath string) (Entry, bool) {
	e, ok := c.entries[bioPath]
	return e, ok
}

// Put stores a contact stamped with the current time.
func (c *Cache) Put(bioPath string, contact bill.Contact) {
	c.Restore(bioPath, Entry{Contact: contact, CachedAt: c.now()})
}

// Restore stores an entry as-is, keeping its original timestamp.
func (c *Cache) Restore(bioPath string, e Entry) {
	c.entries[bioPath] = e
}

// Len returns the number of cached entries
func (c *Cache) Len() int {
	return len(c.entries)
}

// Entries returns a copy of all cached entries.
func (c *Cache) Entries() map[string]Entry {
	out := make(map[string]Entry, len(c.entries))
	for k, v := range c.entries {
		out[k] = v
	}
	return out
}
