package pipeline

import (
	"github.com/paunplugged/legis-tracker/internal/bill"
)

// Group files each record under its primary topic and orders every topic by
// last-action date, most recent first. Records without a parseable date sort
// last; ties keep discovery order. Topics without records are left out of the
// serialized groups.
func Group(topics []string, records []*bill.Record) *bill.Groups {
	groups := bill.NewGroups(topics...)
	for _, r := range records {
		if r.PrimaryIssue() == "" {
			continue
		}
		groups.Add(r.PrimaryIssue(), r)
	}

	groups.SortStable(func(a, b *bill.Record) bool {
		return a.ActionDate().After(b.ActionDate())
	})
	return groups
}
