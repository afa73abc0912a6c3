package analysis

import (
	"regexp"
	"sort"
	"strings"
)

var (
	wordRe    = regexp.MustCompile(`[a-z0-9]+`)
	tokenRe   = regexp.MustCompile(`[a-z0-9]+|[.,;:!?#$%&()\[\]"'-]`)
	numericRe = regexp.MustCompile(`\d+(\.\d+)?`)
	spaceRe   = regexp.MustCompile(`\s+`)
)

// normalizeText lowercases and collapses all whitespace runs to single
// spaces. Previews stored on fingerprints use this form so byte-level layout
// differences (line wrapping, OCR spacing) do not defeat fuzzy matching.
func normalizeText(s string) string {
	return strings.TrimSpace(spaceRe.ReplaceAllString(strings.ToLower(s), " "))
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// wordSet returns the set of normalized word tokens in s.
func wordSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range wordRe.FindAllString(strings.ToLower(s), -1) {
		set[w] = struct{}{}
	}
	return set
}

// tokenSet returns the set of word and punctuation tokens in s. Punctuation
// is kept because edits that only shuffle sentence structure still move
// punctuation around.
func tokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, t := range tokenRe.FindAllString(strings.ToLower(s), -1) {
		set[t] = struct{}{}
	}
	return set
}

// numericTokens returns the set of numeric tokens (integers and decimals).
func numericTokens(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, t := range numericRe.FindAllString(s, -1) {
		set[t] = struct{}{}
	}
	return set
}

// jaccard computes |A∩B| / |A∪B| over two token sets. Two empty sets are
// identical by definition, so the result is 1.
func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	inter := 0
	for t := range a {
		if _, ok := b[t]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	return float64(inter) / float64(union)
}

// countMentions counts case-insensitive whole-word occurrences of name in
// text. Multi-word names match as a whole phrase.
func countMentions(text, name string) int {
	if text == "" || name == "" {
		return 0
	}
	re, err := mentionPattern(name)
	if err != nil {
		return 0
	}
	return len(re.FindAllStringIndex(text, -1))
}

func mentionPattern(name string) (*regexp.Regexp, error) {
	return regexp.Compile(`(?i)\b` + regexp.QuoteMeta(name) + `\b`)
}

// countOccurrences counts case-insensitive substring occurrences of phrase.
// Used for vocabulary scans where indicators may be multi-word fragments
// ("contrary to") that whole-word boundaries would complicate.
func countOccurrences(text, phrase string) int {
	if text == "" || phrase == "" {
		return 0
	}
	return strings.Count(strings.ToLower(text), strings.ToLower(phrase))
}

func setToSorted(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for t := range set {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
