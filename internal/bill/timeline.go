package bill

import (
	"fmt"
	"regexp"
	"strings"
)

// Stage is one of the six normalized procedural milestones
type Stage struct {
	Key       string `json:"key"`
	Label     string `json:"label"`
	Completed bool   `json:"completed"`
	Current   bool   `json:"current"`
	Vote      bool   `json:"vote"`
	Detail    string `json:"detail,omitempty"` // e.g. "Passed 46-1"
}

// Stage keys in procedural order.
const (
	StageIntroduced = "introduced"
	StageCommittee1 = "committee1"
	StageVote1      = "vote1"
	StageCommittee2 = "committee2"
	StageVote2      = "vote2"
	StageGovernor   = "governor"
)

// stageSources maps each normalized stage onto the conventional nine raw steps:
// 0 introduced, 1 referred, 2 reported, 3 vote, 4 crossed chambers,
// 5 referred, 6 reported, 7 vote, 8 governor.
var stageSources = []struct {
	key   string
	index int
	vote  bool
}{
	{StageIntroduced, 0, false},
	{StageCommittee1, 1, false},
	{StageVote1, 3, true},
	{StageCommittee2, 5, false},
	{StageVote2, 7, true},
	{StageGovernor, 8, false},
}

var voteTallyPattern = regexp.MustCompile(`\((\d+-\d+)\)`)

// OriginChamber returns the chamber a bill was introduced in, judged from the
// text of its first timeline step. Defaults to the House.
func OriginChamber(steps []TimelineStep) string {
	if len(steps) > 0 && strings.Contains(strings.ToLower(steps[0].Label), "senate") {
		return "Senate"
	}
	return "House"
}

// otherChamber returns the chamber a bill crosses into.
func otherChamber(chamber string) string {
	if chamber == "Senate" {
		return "House"
	}
	return "Senate"
}

// NormalizeTimeline maps a raw timeline of any length onto six fixed stages.
// Steps missing from a short timeline become incomplete stages.
// An empty raw timeline yields an empty list.
func NormalizeTimeline(steps []TimelineStep) []Stage {
	if len(steps) == 0 {
		return []Stage{}
	}

	origin := OriginChamber(steps)
	other := otherChamber(origin)
	labels := map[string]string{
		StageIntroduced: "Introduced",
		StageCommittee1: fmt.Sprintf("%s Committee", origin),
		StageVote1:      fmt.Sprintf("%s Vote", origin),
		StageCommittee2: fmt.Sprintf("%s Committee", other),
		StageVote2:      fmt.Sprintf("%s Vote", other),
		StageGovernor:   "Governor",
	}

	stages := make([]Stage, len(stageSources))
	for i, src := range stageSources {
		stage := Stage{Key: src.key, Label: labels[src.key], Vote: src.vote}
		if src.index < len(steps) {
			raw := steps[src.index]
			stage.Completed = raw.Completed
			if src.vote {
				stage.Detail = VoteDetail(raw.Label)
			}
		}
		stages[i] = stage
	}

	for i := range stages {
		last := i == len(stages)-1
		stages[i].Current = stages[i].Completed && (last || !stages[i+1].Completed)
	}

	return stages
}

// VoteDetail extracts a "(won-lost)" tally from a step label as "Passed won-lost".
// Returns "" when the label carries no tally.
func VoteDetail(label string) string {
	m := voteTallyPattern.FindStringSubmatch(label)
	if m == nil {
		return ""
	}
	return "Passed " + m[1]
}
