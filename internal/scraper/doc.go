// Package scraper provides HTTP fetching and HTML extraction for palegis.us bill pages.
//
// The scraper package fetches keyword search results and individual bill pages
// from the Pennsylvania General Assembly website and turns their loosely
// structured markup into bill stubs and bill details. Extraction is a list of
// independent rules: a rule whose markup is missing leaves its field empty and
// never affects the others. Only network failures and malformed bill
// identifiers are reported as errors.
package scraper
