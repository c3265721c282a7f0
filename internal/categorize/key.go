// Package categorize derives category rules from transaction history and
// applies them to new transactions. Matching never errors: a transaction
// that matches nothing simply stays uncategorized.
package categorize

import (
	"strings"
	"unicode"
)

// Tokens that carry processor noise rather than merchant identity.
var noiseTokens = map[string]struct{}{
	"pos":      {},
	"purchase": {},
	"debit":    {},
	"credit":   {},
	"card":     {},
	"visa":     {},
	"mc":       {},
	"ach":      {},
	"compra":   {},
	"cartao":   {},
	"parc":     {},
}

// NormalizeKey reduces a description to the key rules are stored under:
// lowercase, punctuation folded to spaces, digit runs and processor noise
// dropped. Two spellings of the same merchant should land on the same key.
func NormalizeKey(desc string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(desc) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}

	fields := strings.Fields(b.String())
	kept := fields[:0]
	for _, f := range fields {
		if isDigits(f) {
			continue
		}
		if _, noisy := noiseTokens[f]; noisy {
			continue
		}
		kept = append(kept, f)
	}

	return strings.Join(kept, " ")
}

func isDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return len(s) > 0
}
