// Package cli implements the command-line interface for legis-tracker.
//
// The root command (also available as "run") searches the legislature site for
// every configured issue, writes the dashboard document and the member contact
// cache, and prints a run summary as text or JSON. The "bill" command fetches
// and prints a single normalized bill. Settings come from flags, LEGIS_*
// environment variables and an optional legis-tracker.yaml.
package cli
