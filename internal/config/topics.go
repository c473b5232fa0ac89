package config

import (
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Topic is a named policy area searched by its keywords
type Topic struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

// Topics is the topic configuration file
type Topics struct {
	SessionYear string  `yaml:"session_year"`
	Issues      []Topic `yaml:"issues"`
}

// LoadTopics reads and validates a topic configuration file.
func LoadTopics(path string) (*Topics, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "reading topics %s", path)
	}

	var t Topics
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, eris.Wrapf(err, "parsing topics %s", path)
	}

	if err := t.Validate(); err != nil {
		return nil, eris.Wrapf(err, "invalid topics %s", path)
	}
	return &t, nil
}

// Validate checks names are present and unique and every topic has keywords.
func (t *Topics) Validate() error {
	if len(t.Issues) == 0 {
		return ErrNoTopics
	}

	seen := make(map[string]bool, len(t.Issues))
	for i, topic := range t.Issues {
		name := strings.TrimSpace(topic.Name)
		if name == "" {
			return eris.Wrapf(ErrTopicMissingName, "issues[%d]", i)
		}
		if seen[name] {
			return eris.Wrapf(ErrDuplicateTopic, "%q", name)
		}
		seen[name] = true

		if len(topic.Keywords) == 0 {
			return eris.Wrapf(ErrTopicNoKeywords, "%q", name)
		}
		for _, kw := range topic.Keywords {
			if strings.TrimSpace(kw) == "" {
				return eris.Wrapf(ErrEmptyKeyword, "%q", name)
			}
		}
	}
	return nil
}

// Names returns the topic names in configuration order.
func (t *Topics) Names() []string {
	names := make([]string, len(t.Issues))
	for i, topic := range t.Issues {
		names[i] = topic.Name
	}
	return names
}

// ResolveSessionYear returns override when set, otherwise the session year from the
// topics file.
func (t *Topics) ResolveSessionYear(override string) (string, error) {
	if year := strings.TrimSpace(override); year != "" {
		return year, nil
	}
	if year := strings.TrimSpace(t.SessionYear); year != "" {
		return year, nil
	}
	return "", ErrMissingSession
}
