package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadTopicsJSON(t *testing.T) {
	path := writeFile(t, t.TempDir(), "issues.json", `{
  "session_year": "2025",
  "issues": [
    {"name": "Phone-Free Schools", "keywords": ["cell phone", "cellphone"]},
    {"name": "School Safety", "keywords": ["threat assessment"]}
  ]
}`)

	topics, err := LoadTopics(path)
	require.NoError(t, err)

	assert.Equal(t, "2025", topics.SessionYear)
	assert.Equal(t, []string{"Phone-Free Schools", "School Safety"}, topics.Names())
	assert.Equal(t, []string{"cell phone", "cellphone"}, topics.Issues[0].Keywords)
}

func TestLoadTopicsYAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "issues.yaml", `session_year: "2025"
issues:
  - name: Phone-Free Schools
    keywords: [cell phone]
`)

	topics, err := LoadTopics(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Phone-Free Schools"}, topics.Names())
}

func TestTopicsValidate(t *testing.T) {
	tests := []struct {
		name    string
		topics  Topics
		wantErr error
	}{
		{
			name:    "no issues",
			topics:  Topics{},
			wantErr: ErrNoTopics,
		},
		{
			name:    "missing name",
			topics:  Topics{Issues: []Topic{{Name: " ", Keywords: []string{"a"}}}},
			wantErr: ErrTopicMissingName,
		},
		{
			name: "duplicate name",
			topics: Topics{Issues: []Topic{
				{Name: "A", Keywords: []string{"a"}},
				{Name: "A", Keywords: []string{"b"}},
			}},
			wantErr: ErrDuplicateTopic,
		},
		{
			name:    "no keywords",
			topics:  Topics{Issues: []Topic{{Name: "A"}}},
			wantErr: ErrTopicNoKeywords,
		},
		{
			name:    "blank keyword",
			topics:  Topics{Issues: []Topic{{Name: "A", Keywords: []string{""}}}},
			wantErr: ErrEmptyKeyword,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.topics.Validate(), tt.wantErr)
		})
	}
}

func TestLoadTopicsErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadTopics(dir + "/missing.json")
	assert.Error(t, err)

	bad := writeFile(t, dir, "bad.json", `{"issues": [`)
	_, err = LoadTopics(bad)
	assert.Error(t, err)

	empty := writeFile(t, dir, "empty.json", `{"session_year": "2025", "issues": []}`)
	_, err = LoadTopics(empty)
	assert.ErrorIs(t, err, ErrNoTopics)
}

func TestResolveSessionYear(t *testing.T) {
	topics := &Topics{SessionYear: "2025"}

	year, err := topics.ResolveSessionYear("")
	require.NoError(t, err)
	assert.Equal(t, "2025", year)

	year, err = topics.ResolveSessionYear("2023")
	require.NoError(t, err)
	assert.Equal(t, "2023", year)

	_, err = (&Topics{}).ResolveSessionYear("")
	assert.ErrorIs(t, err, ErrMissingSession)
}
