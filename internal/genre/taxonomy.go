package genre

import (
	"regexp"
	"slices"
	"strings"

	"setlist/internal/textnorm"
)

type rule struct {
	pattern *regexp.Regexp
	label   string
}

// Rules are evaluated in order against the folded, lowercased label and the
// first match wins. Each canonical label matches its own rule, which keeps
// Normalize idempotent.
var rules = []rule{
	// Brazilian styles
	{regexp.MustCompile(`\bmpb\b`), "mpb"},
	{regexp.MustCompile(`sertanej`), "sertanejo"},
	{regexp.MustCompile(`pagode`), "pagode"},
	{regexp.MustCompile(`samba`), "samba"},
	{regexp.MustCompile(`axe`), "axé"},
	{regexp.MustCompile(`forro`), "forró"},
	{regexp.MustCompile(`bossa`), "bossa nova"},
	{regexp.MustCompile(`funk\s*carioca|baile\s*funk`), "funk carioca"},

	// International
	{regexp.MustCompile(`grunge`), "grunge"},
	{regexp.MustCompile(`alt`), "alternative"},
	{regexp.MustCompile(`indie`), "indie"},
	{regexp.MustCompile(`hard\s*rock`), "rock"},
	{regexp.MustCompile(`rock`), "rock"},
	{regexp.MustCompile(`metal`), "metal"},
	{regexp.MustCompile(`punk`), "punk"},
	{regexp.MustCompile(`hip[-\s]?hop|rap|trap`), "hip-hop"},
	{regexp.MustCompile(`r&b|rhythm.*blues`), "r&b"},
	{regexp.MustCompile(`soul`), "soul"},
	{regexp.MustCompile(`edm|electro|dance`), "electronic"},
	{regexp.MustCompile(`house`), "house"},
	{regexp.MustCompile(`techno`), "techno"},
	{regexp.MustCompile(`reggae`), "reggae"},
	{regexp.MustCompile(`pop`), "pop"},
	{regexp.MustCompile(`country`), "country"},
	{regexp.MustCompile(`blues`), "blues"},
	{regexp.MustCompile(`jazz`), "jazz"},
	{regexp.MustCompile(`latin`), "latin"},
	{regexp.MustCompile(`acoustic`), "acoustic"},
}

// Classify maps one raw label to its canonical label. ok is false for labels
// outside the vocabulary.
func Classify(raw string) (string, bool) {
	x := strings.ToLower(textnorm.Fold(strings.TrimSpace(raw)))
	if x == "" {
		return "", false
	}
	for _, r := range rules {
		if r.pattern.MatchString(x) {
			return r.label, true
		}
	}
	return "", false
}

// Normalize collapses raw labels into the sorted set of canonical labels they
// map to. Unknown labels are dropped.
func Normalize(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, g := range raw {
		label, ok := Classify(g)
		if !ok {
			continue
		}
		if _, dup := seen[label]; dup {
			continue
		}
		seen[label] = struct{}{}
		out = append(out, label)
	}
	slices.Sort(out)
	return out
}

// Labels lists the canonical vocabulary in rule order, without duplicates.
func Labels() []string {
	out := make([]string, 0, len(rules))
	for _, r := range rules {
		if !slices.Contains(out, r.label) {
			out = append(out, r.label)
		}
	}
	return out
}

// IsCanonical reports whether label is part of the vocabulary.
func IsCanonical(label string) bool {
	return slices.Contains(Labels(), label)
}
