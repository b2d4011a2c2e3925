package tabular

import (
	"io"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// NewDecodingReader returns a reader yielding UTF-8 text from r. A leading
// UTF-8 byte-order mark is stripped; a UTF-16 byte-order mark switches to
// UTF-16 decoding. Without a mark the input is read as UTF-8 and invalid
// sequences become U+FFFD.
func NewDecodingReader(r io.Reader) io.Reader {
	return transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
}
