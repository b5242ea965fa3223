package document

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Slugify turns heading text into an anchor the way GitHub does: lower
// case, diacritics removed, punctuation dropped, spaces replaced by '-'.
func Slugify(title string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, title)
	if err != nil {
		folded = title
	}

	var sb strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(folded)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-':
			sb.WriteRune(r)
		case r == ' ':
			sb.WriteByte('-')
		}
	}
	return sb.String()
}

// slugger hands out unique slugs, suffixing repeats with -1, -2, ...
type slugger struct {
	used map[string]bool
}

func newSlugger() *slugger {
	return &slugger{used: make(map[string]bool)}
}

func (s *slugger) next(title string) string {
	base := Slugify(title)
	if base == "" {
		base = "section"
	}
	slug := base
	for n := 1; s.used[slug]; n++ {
		slug = base + "-" + strconv.Itoa(n)
	}
	s.used[slug] = true
	return slug
}
