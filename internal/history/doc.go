// Package history persists a ledger of filter runs in SQLite.
//
// Each run records its inputs, threshold, outcome, and counters, plus one row
// per discovered export file with that file's status. The schema is applied
// from embedded migrations when the store is opened. Queries are assembled
// with squirrel so optional filters and limits compose without string
// concatenation.
package history
