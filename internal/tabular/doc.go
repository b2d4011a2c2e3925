// Package tabular holds the in-memory table model shared by the reference
// loader, the per-file extractor, and the exporter.
//
// A Table is a header plus string rows, every row aligned to the header.
// Readers decode byte-order marks (UTF-8 and UTF-16) before tokenizing:
// ReadDelimited treats quotes literally and honours an escape character, as
// bibliographic exports require; ReadQuoted follows RFC 4180 quoting with a
// configurable separator, as ranking exports require. Concat appends tables
// in order, reconciling divergent headers by column union.
package tabular
