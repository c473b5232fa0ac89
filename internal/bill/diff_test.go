package bill

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func docWith(records map[string][]*Record, topics ...string) *Document {
	g := NewGroups(topics...)
	for _, topic := range topics {
		for _, r := range records[topic] {
			g.Add(topic, r)
		}
	}
	return &Document{Issues: g, TotalBills: g.Total()}
}

func TestDiff(t *testing.T) {
	previous := docWith(map[string][]*Record{
		"Phones": {
			{ID: "SB1", Title: "Phones", Status: "In the Senate", LastAction: "Referred, Jan. 5, 2026"},
			{ID: "HB9", Title: "Gone"},
		},
	}, "Phones")

	current := docWith(map[string][]*Record{
		"Phones": {
			{ID: "SB1", Title: "Phones", Status: "In the House", LastAction: "Passed Senate, Feb. 1, 2026"},
		},
		"Privacy": {
			{ID: "HB2", Title: "Privacy"},
			{ID: "SB1", Title: "Phones", Status: "In the House", LastAction: "Passed Senate, Feb. 1, 2026"},
		},
	}, "Phones", "Privacy")

	t.Run("finds new removed and changed bills", func(t *testing.T) {
		result := Diff(previous, current)

		require.Len(t, result.New, 1)
		assert.Equal(t, "HB2", result.New[0].ID)
		assert.Equal(t, []string{"HB9"}, result.Removed)
		assert.Equal(t, 1, result.Updated())

		var fields []string
		for _, c := range result.Changes {
			fields = append(fields, c.BillID+":"+c.Field)
		}
		assert.Equal(t, []string{"HB2:new", "SB1:status", "SB1:lastAction"}, fields)
	})

	t.Run("handles nil previous document", func(t *testing.T) {
		result := Diff(nil, current)

		assert.Len(t, result.New, 2)
		assert.Empty(t, result.Removed)
		assert.Zero(t, result.Updated())
	})

	t.Run("identical documents", func(t *testing.T) {
		result := Diff(current, current)

		assert.Empty(t, result.New)
		assert.Empty(t, result.Removed)
		assert.Empty(t, result.Changes)
	})
}

func TestDetectChanges(t *testing.T) {
	prev := &Record{ID: "SB1", Title: "Old title", Status: "In the Senate"}
	cur := &Record{ID: "SB1", Title: "New title", Status: "In the Senate"}

	changes := DetectChanges(prev, cur)
	require.Len(t, changes, 1)
	assert.Equal(t, &Change{BillID: "SB1", Field: ChangeTitle, Old: "Old title", New: "New title"}, changes[0])
}
