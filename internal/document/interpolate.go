package document

import (
	"strings"

	"github.com/vk/mdrun/internal/value"
)

// Interpolate replaces each `$path` reference in text with the text form of
// the value lookup returns for it; missing values render as the empty
// string. A `$` that does not start a valid path is kept, and `\$` is
// written as a literal dollar sign.
func Interpolate(text string, lookup func(value.Path) value.Value) string {
	if !strings.ContainsRune(text, '$') {
		return text
	}
	var sb strings.Builder
	walkRefs(text, func(lit string) {
		sb.WriteString(lit)
	}, func(p value.Path) {
		sb.WriteString(lookup(p).Text())
	})
	return sb.String()
}

// Refs lists the distinct paths referenced by text, in order of first use.
func Refs(text string) []value.Path {
	var out []value.Path
	seen := make(map[string]bool)
	walkRefs(text, func(string) {}, func(p value.Path) {
		if k := p.String(); !seen[k] {
			seen[k] = true
			out = append(out, p)
		}
	})
	return out
}

func walkRefs(text string, literal func(string), ref func(value.Path)) {
	start := 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\\':
			if i+1 < len(text) && text[i+1] == '$' {
				literal(text[start:i])
				literal("$")
				i++
				start = i + 1
			}
		case '$':
			p, n, err := value.ScanPath(text[i:])
			if err != nil {
				continue
			}
			literal(text[start:i])
			ref(p)
			i += n - 1
			start = i + 1
		}
	}
	literal(text[start:])
}
