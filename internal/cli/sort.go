package cli

import (
	"sort"
	"strings"

	"github.com/paunplugged/legis-tracker/internal/bill"
	"github.com/rotisserie/eris"
)

// SortOrder represents the available sorting options
type SortOrder string

const (
	SortByDate  SortOrder = "date"
	SortByID    SortOrder = "id"
	SortByTitle SortOrder = "title"
)

// ParseSortOrder validates a sort order name. Empty means by date.
func ParseSortOrder(s string) (SortOrder, error) {
	switch order := SortOrder(strings.ToLower(strings.TrimSpace(s))); order {
	case "":
		return SortByDate, nil
	case SortByDate, SortByID, SortByTitle:
		return order, nil
	}
	return "", eris.Errorf("invalid sort order: %s (must be 'date', 'id' or 'title')", s)
}

// sortRecords returns a sorted copy of records
func sortRecords(records []*bill.Record, sortOrder SortOrder) []*bill.Record {
	sorted := make([]*bill.Record, len(records))
	copy(sorted, records)

	switch sortOrder {
	case SortByDate:
		sort.SliceStable(sorted, func(i, j int) bool {
			return compareByDate(sorted[i], sorted[j])
		})
	case SortByID:
		sort.SliceStable(sorted, func(i, j int) bool {
			return compareByID(sorted[i], sorted[j])
		})
	case SortByTitle:
		sort.SliceStable(sorted, func(i, j int) bool {
			ti, tj := strings.ToLower(sorted[i].Title), strings.ToLower(sorted[j].Title)
			if ti != tj {
				return ti < tj
			}
			return compareByID(sorted[i], sorted[j])
		})
	}
	return sorted
}

// compareByDate puts the most recent last action first and undated bills last.
func compareByDate(i, j *bill.Record) bool {
	dateI := i.ActionDate()
	dateJ := j.ActionDate()

	if !dateI.IsZero() && !dateJ.IsZero() {
		return dateI.After(dateJ)
	}
	return !dateI.IsZero()
}

// compareByID orders by chamber and type, then numerically: HB2 < HB10 < SB1.
func compareByID(i, j *bill.Record) bool {
	pi, ni := splitID(i.ID)
	pj, nj := splitID(j.ID)
	if pi != pj {
		return pi < pj
	}
	return ni < nj
}

func splitID(id string) (string, int) {
	n := 0
	prefix := id
	for k, r := range id {
		if r >= '0' && r <= '9' {
			prefix = id[:k]
			for _, d := range id[k:] {
				if d < '0' || d > '9' {
					break
				}
				n = n*10 + int(d-'0')
			}
			break
		}
	}
	return prefix, n
}
