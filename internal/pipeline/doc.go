// Package pipeline runs a complete filter pass: load the journal ranking,
// filter every export file, and write the combined result.
//
// Run returns a Summary carrying the per-file outcomes in discovery order.
// Only reference, directory listing, and write failures are returned as
// errors; a bad export file is reported on its FileResult and the run goes
// on. When history is enabled the outcome is appended to the run ledger, and
// ledger failures are logged without affecting the result.
package pipeline
