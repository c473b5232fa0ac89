package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/paunplugged/legis-tracker/internal/bill"
	"github.com/paunplugged/legis-tracker/internal/contact"
	"github.com/paunplugged/legis-tracker/internal/logger"
	"github.com/paunplugged/legis-tracker/internal/pipeline"
	"github.com/rotisserie/eris"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// IssueSummary counts the bills filed under one issue
type IssueSummary struct {
	Name    string         `json:"name"`
	Bills   int            `json:"bills"`
	Records []*bill.Record `json:"-"`
}

// RunSummary describes a completed run
type RunSummary struct {
	RunID       string           `json:"run_id"`
	Generated   time.Time        `json:"generated"`
	SessionYear string           `json:"session_year"`
	Output      string           `json:"output"`
	TotalBills  int              `json:"total_bills"`
	Issues      []IssueSummary   `json:"issues"`
	Changes     *bill.DiffResult `json:"changes,omitempty"`
	Duration    string           `json:"duration"`
	Metrics     logger.Snapshot  `json:"metrics"`
}

// NewRunSummary summarizes a written document.
func NewRunSummary(runID, output string, doc *bill.Document, metrics logger.Snapshot, elapsed time.Duration) *RunSummary {
	s := &RunSummary{
		RunID:       runID,
		Generated:   doc.Generated,
		SessionYear: doc.SessionYear,
		Output:      output,
		TotalBills:  doc.TotalBills,
		Issues:      []IssueSummary{},
		Duration:    elapsed.Round(time.Millisecond).String(),
		Metrics:     metrics,
	}
	for _, topic := range doc.Issues.Topics() {
		records := doc.Issues.Bills(topic)
		s.Issues = append(s.Issues, IssueSummary{Name: topic, Bills: len(records), Records: records})
	}
	return s
}

// WriteOutput writes the summary in the specified format
func WriteOutput(w io.Writer, summary *RunSummary, format OutputFormat, verbose bool, order SortOrder) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, summary)
	case FormatText:
		parsed, err := ParseSortOrder(string(order))
		if err != nil {
			return err
		}
		return writeText(w, summary, verbose, parsed)
	default:
		return eris.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs v as indented JSON
func writeJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// writeText outputs the summary as human-readable text
func writeText(w io.Writer, s *RunSummary, verbose bool, order SortOrder) error {
	if s.TotalBills == 0 {
		fmt.Fprintf(w, "No bills found for session %s.\n", s.SessionYear)
	} else {
		fmt.Fprintf(w, "Wrote %d bills across %d issues to %s (session %s)\n",
			s.TotalBills, len(s.Issues), s.Output, s.SessionYear)
	}

	for _, issue := range s.Issues {
		fmt.Fprintf(w, "\n%s (%d bills)\n", issue.Name, issue.Bills)
		if !verbose {
			continue
		}
		for _, r := range sortRecords(issue.Records, order) {
			fmt.Fprintf(w, "  %-7s %s\n", r.ID, r.Title)
			if r.Status != "" {
				fmt.Fprintf(w, "          %s\n", r.Status)
			}
		}
	}

	if d := s.Changes; d != nil {
		fmt.Fprintf(w, "\nSince last run: %d new, %d updated, %d removed\n", len(d.New), d.Updated(), len(d.Removed))
		if verbose {
			for _, c := range d.Changes {
				if c.Field == bill.ChangeNew {
					fmt.Fprintf(w, "  + %-7s %s\n", c.BillID, c.New)
					continue
				}
				fmt.Fprintf(w, "  ~ %-7s %s: %s -> %s\n", c.BillID, c.Field, c.Old, c.New)
			}
			for _, id := range d.Removed {
				fmt.Fprintf(w, "  - %s\n", id)
			}
		}
	}

	c := s.Metrics.Counters
	fmt.Fprintf(w, "\nSearches: %d (%d failed)\n", c[pipeline.MetricSearches], c[pipeline.MetricSearchFailures])
	fmt.Fprintf(w, "Bill pages: %d fetched, %d failed\n", c[pipeline.MetricBillsFetched], c[pipeline.MetricBillFailures])
	fmt.Fprintf(w, "Contacts: %d cached, %d fetched, %d failed\n",
		c[contact.MetricCacheHits], c[contact.MetricCacheMisses]-c[contact.MetricFailures], c[contact.MetricFailures])
	fmt.Fprintf(w, "Completed in %s\n", s.Duration)

	return nil
}

// WriteBill writes a single record
func WriteBill(w io.Writer, r *bill.Record, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, r)
	case FormatText:
		return writeBillText(w, r)
	default:
		return eris.Errorf("unknown format: %s", format)
	}
}

func writeBillText(w io.Writer, r *bill.Record) error {
	fmt.Fprintf(w, "%s: %s\n", r.ID, r.Title)
	fmt.Fprintf(w, "  URL:         %s\n", r.URL)
	if r.Status != "" {
		fmt.Fprintf(w, "  Status:      %s\n", r.Status)
	}
	if r.LastAction != "" {
		fmt.Fprintf(w, "  Last action: %s\n", r.LastAction)
	}
	if p := r.PrimeSponsor; p != nil {
		fmt.Fprintf(w, "  Sponsor:     %s (%s, %s District %s)\n", p.Name, p.PartyName(), p.Chamber, p.District)
		if p.Email != nil {
			fmt.Fprintf(w, "  Email:       %s\n", *p.Email)
		}
		if p.Phone != nil {
			fmt.Fprintf(w, "  Phone:       %s\n", *p.Phone)
		}
	}
	if r.CoSponsorCount > 0 {
		fmt.Fprintf(w, "  Co-sponsors: %d\n", r.CoSponsorCount)
	}
	for _, stage := range r.Timeline {
		mark := " "
		if stage.Completed {
			mark = "x"
		}
		line := fmt.Sprintf("  [%s] %s", mark, stage.Label)
		if stage.Detail != "" {
			line += " (" + stage.Detail + ")"
		}
		fmt.Fprintln(w, line)
	}
	return nil
}
