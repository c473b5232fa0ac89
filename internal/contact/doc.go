// Package contact looks up legislator contact details from member bio pages.
//
// Lookups go through a Cache keyed by bio path so each legislator's page is
// fetched at most once per run. Cached entries carry the time they were
// fetched; expiry is applied when the cache file is loaded.
package contact
