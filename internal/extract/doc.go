// Package extract discovers bibliographic export files and reduces each one
// to the records that clear the citation threshold and belong to an accepted
// journal.
//
// Files are processed one at a time in name order. A file that cannot be read
// or lacks a required column is reported as skipped in its FileResult and
// never stops the remaining files.
package extract
