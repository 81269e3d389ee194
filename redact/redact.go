// Package redact masks payment card numbers (PANs) in text before it is
// encrypted.
//
// A PAN is any run of 13 to 19 digits, optionally separated by spaces or
// hyphens, that sits on word boundaries.  Each match is replaced by
//
//	**** **** **** <last four digits>
//
// Redaction is a text operation.  Binary payloads must not be passed through
// it; the prism engine only calls it for valid UTF-8 input and only before
// the first encryption layer.
package redact

import (
	"regexp"
	"strings"
)

// Mask is the prefix written in place of all but the last four digits.
const Mask = "**** **** **** "

var panPattern = regexp.MustCompile(`\b(?:\d[ -]*?){13,19}\b`)

var separators = strings.NewReplacer(" ", "", "-", "")

// PAN returns text with every card-number-like digit run masked.  When
// enabled is false the input is returned unchanged.  The result contains no
// maskable run, so applying PAN to it again changes nothing.
func PAN(text string, enabled bool) string {
	if !enabled {
		return text
	}
	out, _ := Apply(text)
	return out
}

// Count reports how many replacements [PAN] makes on text.
func Count(text string) int {
	_, n := Apply(text)
	return n
}

// Apply masks text and reports the number of replacements made.
//
// The four digits kept by a replacement can join the digit groups that
// follow it into a new run, so passes repeat until none matches.  Each pass
// removes at least nine digits, which bounds the loop.
func Apply(text string) (string, int) {
	total := 0
	for {
		n := 0
		text = panPattern.ReplaceAllStringFunc(text, func(match string) string {
			n++
			return maskMatch(match)
		})
		if n == 0 {
			return text, total
		}
		total += n
	}
}

func maskMatch(match string) string {
	digits := separators.Replace(match)
	if len(digits) < 4 {
		return match
	}
	return Mask + digits[len(digits)-4:]
}
