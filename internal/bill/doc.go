// Package bill provides the normalized bill records produced by the tracker.
//
// The bill package holds the data model shared by the scraper and pipeline
// packages (stubs, sponsors, timeline steps and records), the derivations that
// turn loosely worded legislature text into display fields (status line,
// six-stage timeline, last-action date), and the ordered topic grouping that
// is written out as the dashboard's JSON document.
package bill
