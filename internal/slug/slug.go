// Package slug derives URL-safe identifiers from human-readable titles.
package slug

import (
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Make folds text into ASCII kebab-case. When nothing survives the folding
// it falls back to "<entity>-<unix millis>" using now.
func Make(text, entity string, now time.Time) string {
	s := fold(strings.ToLower(text))

	var b strings.Builder
	b.Grow(len(s))
	pendingDash := false
	for _, r := range s {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
		case r == '-' || unicode.IsSpace(r):
			// whitespace runs and repeated hyphens collapse into one
			pendingDash = true
		}
	}

	if b.Len() == 0 {
		return entity + "-" + strconv.FormatInt(now.UnixMilli(), 10)
	}
	return b.String()
}

// Unique appends -2, -3, ... to base until taken reports false.
func Unique(base string, taken func(string) bool) string {
	if !taken(base) {
		return base
	}
	for i := 2; ; i++ {
		candidate := base + "-" + strconv.Itoa(i)
		if !taken(candidate) {
			return candidate
		}
	}
}

func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
