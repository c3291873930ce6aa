// Package matcher reconciles noisy in-game item names with catalog entries.
package matcher

import (
	"strings"
	"unicode/utf8"

	"poe2scout/pricer/internal/domain"

	log "github.com/sirupsen/logrus"
)

const (
	DefaultMinSimilarity  = 0.6
	DefaultSubstringScore = 0.8
)

type Matcher struct {
	minSimilarity  float64
	substringScore float64
}

// New builds a matcher with the given policy. Values outside (0, 1] fall back to the defaults.
func New(minSimilarity, substringScore float64) *Matcher {
	if minSimilarity <= 0 || minSimilarity > 1 {
		minSimilarity = DefaultMinSimilarity
	}
	if substringScore <= 0 || substringScore > 1 {
		substringScore = DefaultSubstringScore
	}
	return &Matcher{
		minSimilarity:  minSimilarity,
		substringScore: substringScore,
	}
}

func Default() *Matcher {
	return New(DefaultMinSimilarity, DefaultSubstringScore)
}

var punctuation = strings.NewReplacer(
	"\u2019", "'",
	"\u2018", "'",
	"\u201c", `"`,
	"\u201d", `"`,
)

// NormalizeName folds punctuation variants, trims and lowercases
func NormalizeName(name string) string {
	if name == "" {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(punctuation.Replace(name)))
}

// Similarity scores two names in [0, 1]. Names that normalise to nothing score 0.
func (m *Matcher) Similarity(a, b string) float64 {
	na, nb := NormalizeName(a), NormalizeName(b)
	if na == "" || nb == "" {
		return 0
	}
	if na == nb {
		return 1
	}
	if strings.Contains(na, nb) || strings.Contains(nb, na) {
		return m.substringScore
	}

	maxLen := max(utf8.RuneCountInString(na), utf8.RuneCountInString(nb))
	return 1 - float64(Levenshtein(na, nb))/float64(maxLen)
}

// Levenshtein is the unit-cost edit distance over runes
func Levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}

	return prev[len(rb)]
}

// FindBestMatch returns the candidate whose name scores highest against query.
// Scores below the matcher's minimum never win; on ties the earliest candidate is kept.
func FindBestMatch[T any](m *Matcher, query string, candidates []T, nameOf func(T) string) (T, bool) {
	idx := m.bestMatchIndex(query, len(candidates), func(i int) string { return nameOf(candidates[i]) })
	if idx < 0 {
		var zero T
		return zero, false
	}
	return candidates[idx], true
}

func (m *Matcher) bestMatchIndex(query string, n int, nameAt func(int) string) int {
	best := -1
	bestScore := 0.0

	for i := 0; i < n; i++ {
		score := m.Similarity(query, nameAt(i))
		if score > bestScore && score >= m.minSimilarity {
			best = i
			bestScore = score
		}
	}

	if best >= 0 {
		log.Debugf("Best match for %q: %q (similarity: %.2f)", query, nameAt(best), bestScore)
	}
	return best
}

// FindCurrencyItem resolves a currency name: shard alias, exact text, exact api id, then fuzzy text
func (m *Matcher) FindCurrencyItem(name, categoryAPIID string, items []domain.CurrencyItem) *domain.CurrencyItem {
	if strings.TrimSpace(name) == "" {
		return nil
	}
	normalized := NormalizeName(name)
	textAt := func(i int) string { return items[i].Text }

	if fullName, ok := ShardTarget(name); ok {
		if idx := m.bestMatchIndex(fullName, len(items), textAt); idx >= 0 {
			log.Debugf("Found shard mapping: %s -> %s", name, fullName)
			return &items[idx]
		}
	}

	for i := range items {
		if strings.EqualFold(items[i].Text, name) {
			return &items[i]
		}
	}

	for i := range items {
		if strings.EqualFold(items[i].APIID, normalized) {
			return &items[i]
		}
	}

	if idx := m.bestMatchIndex(normalized, len(items), textAt); idx >= 0 {
		return &items[idx]
	}

	log.Debugf("No currency match for %q in %q", name, categoryAPIID)
	return nil
}

// FindUniqueItem resolves a unique name: exact name, exact text, exact base type, fuzzy name, fuzzy text
func (m *Matcher) FindUniqueItem(name, baseName, categoryAPIID string, items []domain.UniqueItem) *domain.UniqueItem {
	if strings.TrimSpace(name) == "" {
		return nil
	}
	normalized := NormalizeName(name)

	for i := range items {
		if strings.EqualFold(items[i].Name, name) {
			return &items[i]
		}
	}

	for i := range items {
		if strings.EqualFold(items[i].Text, name) {
			return &items[i]
		}
	}

	if baseName != "" {
		for i := range items {
			if strings.EqualFold(items[i].Type, baseName) {
				return &items[i]
			}
		}
	}

	if idx := m.bestMatchIndex(normalized, len(items), func(i int) string { return items[i].Name }); idx >= 0 {
		return &items[idx]
	}

	if idx := m.bestMatchIndex(normalized, len(items), func(i int) string { return items[i].Text }); idx >= 0 {
		return &items[idx]
	}

	log.Debugf("No unique match for %q in %q", name, categoryAPIID)
	return nil
}
