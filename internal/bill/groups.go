package bill

import (
	"bytes"
	"encoding/json"
	"sort"

	"github.com/rotisserie/eris"
)

// Groups maps topic names to their bills, keeping topic order.
// It marshals to a JSON object whose keys follow that order and omits
// topics without bills.
type Groups struct {
	order []string
	bills map[string][]*Record
}

// NewGroups creates groups with the given topic order.
func NewGroups(topics ...string) *Groups {
	g := &Groups{bills: make(map[string][]*Record)}
	for _, topic := range topics {
		g.register(topic)
	}
	return g
}

func (g *Groups) register(topic string) {
	if g.bills == nil {
		g.bills = make(map[string][]*Record)
	}
	if _, ok := g.bills[topic]; ok {
		return
	}
	g.order = append(g.order, topic)
	g.bills[topic] = nil
}

// Add appends a record to a topic. Unknown topics are appended to the order.
func (g *Groups) Add(topic string, r *Record) {
	g.register(topic)
	g.bills[topic] = append(g.bills[topic], r)
}

// Topics returns the topics that have at least one bill, in order.
func (g *Groups) Topics() []string {
	topics := make([]string, 0, len(g.order))
	for _, topic := range g.order {
		if len(g.bills[topic]) > 0 {
			topics = append(topics, topic)
		}
	}
	return topics
}

// Bills returns the bills grouped under a topic.
func (g *Groups) Bills(topic string) []*Record {
	return g.bills[topic]
}

// Len returns the number of non-empty topics.
func (g *Groups) Len() int {
	return len(g.Topics())
}

// Total returns the number of grouped bills.
func (g *Groups) Total() int {
	total := 0
	for _, records := range g.bills {
		total += len(records)
	}
	return total
}

// SortStable orders every topic's bills with less, keeping the relative
// order of equal bills.
func (g *Groups) SortStable(less func(a, b *Record) bool) {
	for _, records := range g.bills {
		sort.SliceStable(records, func(i, j int) bool {
			return less(records[i], records[j])
		})
	}
}

// MarshalJSON writes the non-empty topics as a JSON object in topic order.
func (g *Groups) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, topic := range g.Topics() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(topic)
		if err != nil {
			return nil, eris.Wrapf(err, "encoding topic %q", topic)
		}
		records, err := json.Marshal(g.bills[topic])
		if err != nil {
			return nil, eris.Wrapf(err, "encoding bills for topic %q", topic)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(records)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a topic object, keeping the key order of the input.
func (g *Groups) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return eris.Wrap(err, "reading issues")
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return eris.Errorf("issues: expected object, got %v", tok)
	}

	*g = Groups{bills: make(map[string][]*Record)}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return eris.Wrap(err, "reading issue name")
		}
		topic, ok := tok.(string)
		if !ok {
			return eris.Errorf("issues: expected topic name, got %v", tok)
		}

		var records []*Record
		if err := dec.Decode(&records); err != nil {
			return eris.Wrapf(err, "decoding bills for topic %q", topic)
		}
		g.register(topic)
		g.bills[topic] = append(g.bills[topic], records...)
	}

	if _, err := dec.Token(); err != nil {
		return eris.Wrap(err, "reading issues")
	}
	return nil
}
