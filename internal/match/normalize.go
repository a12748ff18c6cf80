package match

import "strings"

// Normalize lowercases text and keeps only ASCII letters and digits.
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	var sb strings.Builder
	sb.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			sb.WriteRune(r)
		}
	}
	return strings.TrimSpace(sb.String())
}

// tokens splits the lowercase form of text on whitespace and normalizes each
// piece, dropping pieces that normalize to nothing.
func tokens(text string) map[string]bool {
	out := map[string]bool{}
	for _, w := range strings.Fields(strings.ToLower(text)) {
		if n := Normalize(w); n != "" {
			out[n] = true
		}
	}
	return out
}
