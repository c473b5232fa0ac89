package bill

import (
	"fmt"
	"regexp"
	"strings"
)

// StatusSeparator joins the location and action phrases of a status line.
const StatusSeparator = " — "

var (
	// ", Feb. 4, 2026" / ", November 18, 2025"
	statusDatePattern    = regexp.MustCompile(`,\s*(\w+\.?\s+\d{1,2},\s*\d{4})`)
	trailingCommaPattern = regexp.MustCompile(`,\s*$`)
	chamberClausePattern = regexp.MustCompile(`(?i)\s+to\s+[\w\s&]+\[(?:Senate|House)\]$`)
)

// BuildStatus derives a one-line status from where a bill sits and its last action.
//
// Example: chamber "House", committee "Education", last action
// "Referred to Education, Feb. 4, 2026" gives
// "In House Education Committee — Referred Feb. 4, 2026".
func BuildStatus(chamber, committee, lastAction string) string {
	parts := make([]string, 0, 2)

	switch {
	case chamber != "" && committee != "":
		parts = append(parts, fmt.Sprintf("In %s %s Committee", chamber, committee))
	case chamber != "":
		parts = append(parts, "In the "+chamber)
	}

	if lastAction != "" {
		parts = append(parts, actionPhrase(committee, lastAction))
	}

	return strings.Join(parts, StatusSeparator)
}

// actionPhrase rewrites "Referred to Education, Feb. 4, 2026" as
// "Referred Feb. 4, 2026", dropping the committee named in the location.
// Falls back to the raw text when no date is found.
func actionPhrase(committee, lastAction string) string {
	loc := statusDatePattern.FindStringSubmatchIndex(lastAction)
	if loc == nil {
		return lastAction
	}
	date := lastAction[loc[2]:loc[3]]

	action := strings.TrimSpace(lastAction[:loc[0]] + lastAction[loc[1]:])
	action = trailingCommaPattern.ReplaceAllString(action, "")

	if committee != "" {
		action = stripCommitteeClause(action, committee)
	}

	action = strings.TrimSpace(action)
	if action == "" || date == "" {
		return lastAction
	}
	return action + " " + date
}

func stripCommitteeClause(action, committee string) string {
	name := regexp.QuoteMeta(committee)
	for _, prefix := range []string{"to", "from"} {
		clause := regexp.MustCompile(`(?i)\s+` + prefix + `\s+` + name + `.*$`)
		action = clause.ReplaceAllString(action, "")
	}
	return chamberClausePattern.ReplaceAllString(action, "")
}
