package bill

import "sort"

// Change field names
const (
	ChangeNew        = "new"
	ChangeTitle      = "title"
	ChangeStatus     = "status"
	ChangeLastAction = "lastAction"
)

// Change is one difference for a bill between two documents
type Change struct {
	BillID string `json:"billId"`
	Field  string `json:"field"`
	Old    string `json:"old,omitempty"`
	New    string `json:"new"`
}

// DiffResult contains the results of comparing two documents
type DiffResult struct {
	New     []*Record `json:"-"`
	Removed []string  `json:"removed"`
	Changes []*Change `json:"changes"`
}

// Diff compares the bills of current against a previously written document.
// A nil previous document treats every bill as new. Bills are matched by id
// across all issues, so moving between issues is not a change.
func Diff(previous, current *Document) *DiffResult {
	result := &DiffResult{
		New:     make([]*Record, 0),
		Removed: make([]string, 0),
		Changes: make([]*Change, 0),
	}

	before := indexByID(previous)
	after := indexByID(current)

	for _, id := range sortedIDs(after) {
		cur := after[id]
		prev, ok := before[id]
		if !ok {
			result.New = append(result.New, cur)
			result.Changes = append(result.Changes, &Change{BillID: id, Field: ChangeNew, New: cur.Title})
			continue
		}
		result.Changes = append(result.Changes, DetectChanges(prev, cur)...)
	}

	for _, id := range sortedIDs(before) {
		if _, ok := after[id]; !ok {
			result.Removed = append(result.Removed, id)
		}
	}

	return result
}

// DetectChanges compares two versions of the same bill
func DetectChanges(previous, current *Record) []*Change {
	var changes []*Change
	fields := []struct {
		name     string
		old, new string
	}{
		{ChangeTitle, previous.Title, current.Title},
		{ChangeStatus, previous.Status, current.Status},
		{ChangeLastAction, previous.LastAction, current.LastAction},
	}
	for _, f := range fields {
		if f.old != f.new {
			changes = append(changes, &Change{BillID: current.ID, Field: f.name, Old: f.old, New: f.new})
		}
	}
	return changes
}

// Updated counts the distinct existing bills with at least one change.
func (r *DiffResult) Updated() int {
	seen := make(map[string]bool)
	for _, c := range r.Changes {
		if c.Field != ChangeNew {
			seen[c.BillID] = true
		}
	}
	return len(seen)
}

func indexByID(doc *Document) map[string]*Record {
	index := make(map[string]*Record)
	if doc == nil || doc.Issues == nil {
		return index
	}
	for _, topic := range doc.Issues.Topics() {
		for _, r := range doc.Issues.Bills(topic) {
			if _, ok := index[r.ID]; !ok {
				index[r.ID] = r
			}
		}
	}
	return index
}

func sortedIDs(index map[string]*Record) []string {
	ids := make([]string, 0, len(index))
	for id := range index {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
