// internal/slug/slug.go
//
// Title → URL slug conversion.
//
// Context
// -------
// Slugs are appended to numeric identifiers in board URLs purely for human
// readability (`viewtopic.php?t=42-general-discussion`).  The board coerces
// the parameter back to an integer server-side, so the slug never affects
// routing and only ever needs to be *presentable*: lowercase, hyphen-joined,
// free of punctuation, and bounded in length.
//
// Rules
// -----
//  1. NFC-normalize, then lower-case.  Combining marks are kept, not
//     stripped; modern URL bars render them fine and percent-encoding keeps
//     the href valid.
//  2. Words are maximal runs of letters, marks, or numbers.  Everything
//     else is a separator and is discarded.
//  3. Words are joined with "-".
//  4. With a positive MaxLength, words accumulate from the *end* of the
//     title (the most specific part) until the next word plus its joining
//     "-" would reach the bound.  The first accumulated word always
//     survives, so a single oversized word still yields a slug.
//
// The resulting slug is strictly shorter than MaxLength (in runes) whenever
// MaxLength > 0.  MaxLength == Unbounded disables truncation entirely.
//
// Notes
// -----
// • Oxford commas, two spaces after periods.

package slug

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Unbounded disables length truncation.
const Unbounded = -1

// Slugifier converts titles into slugs bounded by MaxLength runes.  The
// zero value produces empty slugs only; construct with New.
type Slugifier struct {
	MaxLength int
}

// New returns a Slugifier with the given rune bound.  Pass Unbounded to
// keep every word of the title.
func New(maxLength int) Slugifier {
	return Slugifier{MaxLength: maxLength}
}

// Slugify converts arbitrary title text into a lowercase hyphen-joined
// slug.  Titles with no letters or numbers yield "".
func (s Slugifier) Slugify(title string) string {
	words := splitWords(title)
	if len(words) == 0 {
		return ""
	}

	if s.MaxLength == Unbounded || s.MaxLength <= 0 {
		if s.MaxLength == Unbounded {
			return strings.Join(words, "-")
		}
		return ""
	}

	// Accumulate tail-first: the end of a title tends to carry the most
	// specific part ("Re: help with … → MySQL 8 upgrade").
	start := len(words)
	total := 0
	for i := len(words) - 1; i >= 0; i-- {
		n := utf8.RuneCountInString(words[i])
		if start == len(words) {
			// First word is always taken, even when it alone meets
			// or exceeds the bound.
			start, total = i, n
			continue
		}
		// +1 accounts for the joining "-".
		if total+1+n >= s.MaxLength {
			break
		}
		start, total = i, total+1+n
	}
	return strings.Join(words[start:], "-")
}

// splitWords lower-cases the NFC-normalized title and slices it into
// maximal runs of letters, marks, and numbers.
func splitWords(title string) []string {
	folded := strings.ToLower(norm.NFC.String(title))

	var words []string
	var b strings.Builder
	for _, r := range folded {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.IsMark(r) {
			b.WriteRune(r)
			continue
		}
		if b.Len() > 0 {
			words = append(words, b.String())
			b.Reset()
		}
	}
	if b.Len() > 0 {
		words = append(words, b.String())
	}
	return words
}
