package spamsift

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/cloudflare/ahocorasick"
)

// SaliencyHeuristic is a fast, model-free lexical spam signal. It counts
// distinct lexicon patterns present in a message and divides by a saturation
// constant, clamped to [0,1]. Matchers are built once and queried through
// their thread-safe path, so a single heuristic serves concurrent callers.
type SaliencyHeuristic struct {
	spam       *ahocorasick.Matcher
	promo      *ahocorasick.Matcher
	system     *ahocorasick.Matcher
	currency   *regexp.Regexp
	saturation float64
}

// NewSaliencyHeuristic compiles the lexicon into Aho-Corasick matchers.
func NewSaliencyHeuristic(lex Lexicon) (*SaliencyHeuristic, error) {
	if lex.Saturation <= 0 {
		return nil, fmt.Errorf("lexicon saturation must be positive, got %v", lex.Saturation)
	}
	if len(lex.SpamPatterns) == 0 {
		return nil, fmt.Errorf("lexicon has no spam patterns")
	}

	var currency *regexp.Regexp
	if lex.CurrencyPattern != "" {
		re, err := regexp.Compile(lex.CurrencyPattern)
		if err != nil {
			return nil, fmt.Errorf("invalid currency pattern: %w", err)
		}
		currency = re
	}

	return &SaliencyHeuristic{
		spam:       newMatcher(lex.SpamPatterns),
		promo:      newMatcher(lex.PromoPatterns),
		system:     newMatcher(lex.SystemPatterns),
		currency:   currency,
		saturation: lex.Saturation,
	}, nil
}

// Score returns the spam-likelihood of the raw text in [0,1]. Deterministic,
// no side effects, cheap enough to run once per masked token variant during
// explanation.
func (h *SaliencyHeuristic) Score(text string) float64 {
	lower := strings.ToLower(text)
	count := len(h.spam.MatchThreadSafe([]byte(lower)))
	if h.currency != nil && h.currency.MatchString(lower) {
		count++
	}

	score := float64(count) / h.saturation
	if score > 1 {
		return 1
	}
	return score
}

// PromoMatches counts distinct advertising-lexicon patterns in the text.
func (h *SaliencyHeuristic) PromoMatches(text string) int {
	if h.promo == nil {
		return 0
	}
	return len(h.promo.MatchThreadSafe([]byte(strings.ToLower(text))))
}

// SystemMatches counts distinct system/security-lexicon patterns in the text.
func (h *SaliencyHeuristic) SystemMatches(text string) int {
	if h.system == nil {
		return 0
	}
	return len(h.system.MatchThreadSafe([]byte(strings.ToLower(text))))
}

// newMatcher builds a lowercase matcher, or nil for an empty pattern list
// (ahocorasick does not accept empty dictionaries).
func newMatcher(patterns []string) *ahocorasick.Matcher {
	if len(patterns) == 0 {
		return nil
	}
	lowered := make([]string, len(patterns))
	for i, p := range patterns {
		lowered[i] = strings.ToLower(p)
	}
	return ahocorasick.NewStringMatcher(lowered)
}
