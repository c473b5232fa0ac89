// Package pipeline turns topic keyword searches into the dashboard document.
//
// A run discovers bills through keyword searches, merges them across topics,
// enriches each bill from its detail page and its prime sponsor's contact
// details, and groups the results by primary topic, most recent activity
// first. Requests are made one at a time and paced by a rate limiter.
// Failures of individual searches, bill pages or contact lookups are logged
// and skipped; they never abort a run.
package pipeline
