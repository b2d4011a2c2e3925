// Package textutil provides the small text normalizations paperfilter relies on.
//
// JournalKey folds journal names to the lowercase form used for reference
// set membership. SanitizeSheetName makes arbitrary labels safe for use as
// spreadsheet worksheet names.
package textutil
