package config

import (
	"errors"
	"os"

	"github.com/paunplugged/legis-tracker/internal/scraper"
	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// KnownBills holds curated annotations keyed by bill id and the ids to hide.
type KnownBills struct {
	Hide         []string          `yaml:"hide"`
	Nicknames    map[string]string `yaml:"nicknames"`
	Descriptions map[string]string `yaml:"descriptions"`
	Notes        map[string]string `yaml:"notes"`

	hidden map[string]bool
}

// LoadKnownBills reads the known-bills file. A missing file means no
// annotations.
func LoadKnownBills(path string) (*KnownBills, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return NewKnownBills(), nil
		}
		return nil, eris.Wrapf(err, "reading known bills %s", path)
	}

	var k KnownBills
	if err := yaml.Unmarshal(data, &k); err != nil {
		return nil, eris.Wrapf(err, "parsing known bills %s", path)
	}

	if err := k.Normalize(); err != nil {
		return nil, eris.Wrapf(err, "invalid known bills %s", path)
	}
	return &k, nil
}

// NewKnownBills returns an empty annotation set
func NewKnownBills() *KnownBills {
	k := &KnownBills{}
	_ = k.Normalize()
	return k
}

// Normalize rewrites every id to its canonical form and rebuilds the hide
// index. Malformed hide ids are rejected; malformed annotation keys can never
// match and are kept.
func (k *KnownBills) Normalize() error {
	k.hidden = make(map[string]bool, len(k.Hide))
	for i, id := range k.Hide {
		normalized, err := scraper.ValidateBillID(id)
		if err != nil {
			return eris.Wrapf(ErrInvalidHideID, "hide[%d] %q", i, id)
		}
		k.Hide[i] = normalized
		k.hidden[normalized] = true
	}

	k.Nicknames = normalizeKeys(k.Nicknames)
	k.Descriptions = normalizeKeys(k.Descriptions)
	k.Notes = normalizeKeys(k.Notes)
	return nil
}

func normalizeKeys(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for id, v := range in {
		out[scraper.NormalizeBillID(id)] = v
	}
	return out
}

// Hidden reports whether a bill is on the hide list.
func (k *KnownBills) Hidden(billID string) bool {
	return k.hidden[scraper.NormalizeBillID(billID)]
}

// Nickname returns the curated nickname for a bill, or nil.
func (k *KnownBills) Nickname(billID string) *string {
	return lookup(k.Nicknames, billID)
}

// Description returns the curated description for a bill, or nil.
func (k *KnownBills) Description(billID string) *string {
	return lookup(k.Descriptions, billID)
}

// Note returns the curated note for a bill, or nil.
func (k *KnownBills) Note(billID string) *string {
	return lookup(k.Notes, billID)
}

func lookup(m map[string]string, billID string) *string {
	v, ok := m[scraper.NormalizeBillID(billID)]
	if !ok || v == "" {
		return nil
	}
	return &v
}
