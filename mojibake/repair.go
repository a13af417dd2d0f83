// Package mojibake repairs text that was decoded with the wrong character
// encoding one layer too early, a common defect in the older pages of the
// archive: UTF-8 bytes stored as Latin-1 render Devanagari as strings like
// "à¤¶à¥à¤²à¥‹à¤•".
package mojibake

import (
	"unicode/utf8"

	"github.com/slokaweb/versefetch"
	"golang.org/x/text/encoding/charmap"
)

// Ensure Repairer implements versefetch.Repairer at compile time.
var _ versefetch.Repairer = (*Repairer)(nil)

// Repairer reverses one layer of premature decoding: the text is re-encoded
// as if it had been stored in Latin-1, and the resulting byte sequence is
// reinterpreted as UTF-8. The transform is lossless on failure: any text
// that does not round-trip cleanly is returned unchanged.
type Repairer struct{}

// NewRepairer creates a new Repairer.
func NewRepairer() *Repairer {
	return &Repairer{}
}

// Repair returns the corrected text, or the input unchanged when the
// reinterpretation fails. It never errors; callers apply it independently
// per verse.
func (r *Repairer) Repair(text string) string {
	encoded, err := charmap.ISO8859_1.NewEncoder().String(text)
	if err != nil {
		// A rune outside Latin-1 means the text was never stored that way.
		return text
	}
	if !utf8.ValidString(encoded) {
		return text
	}
	return encoded
}
