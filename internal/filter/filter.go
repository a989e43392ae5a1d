// Package filter screens inbound text for disclosure-seeking phrases
// before it reaches the reasoning engine.
//
// This is a heuristic gate, not a security boundary. The engine's own
// instructions are the primary mitigation; the filter is defense in depth.
package filter

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/obeidat/hrdesk/internal/logging"
)

// Verdict is the classification of one inbound text.
type Verdict int

const (
	Safe Verdict = iota
	Suspicious
)

func (v Verdict) String() string {
	if v == Suspicious {
		return "suspicious"
	}
	return "safe"
}

// DefaultPhrases are the built-in disclosure-seeking phrases, in English
// and Arabic. Config may extend or replace them.
var DefaultPhrases = []string{
	"system prompt",
	"internal instructions",
	"ignore previous",
	"give me your prompt",
	"system instructions",
	"reveal tools",
	"سستم برومبت",
	"سيستم برومبت",
	"برومبت",
	"توجيهاتك",
	"اوامرك",
	"تعليماتك",
}

// Filter matches normalized inbound text against configured phrases.
// It is stateless and safe for concurrent use.
type Filter struct {
	phrases []string
	fold    cases.Caser
	log     *logging.Logger
}

// New creates a filter from the given phrase list. An empty list falls
// back to DefaultPhrases. Phrases are normalized once at construction so
// matching is insensitive to case and Arabic diacritics.
func New(phrases []string, log *logging.Logger) *Filter {
	if len(phrases) == 0 {
		phrases = DefaultPhrases
	}
	f := &Filter{
		fold: cases.Fold(),
		log:  log.Sub("filter"),
	}
	for _, p := range phrases {
		if n := f.normalize(p); n != "" {
			f.phrases = append(f.phrases, n)
		}
	}
	return f
}

// Classify returns Suspicious when the text contains any configured
// phrase. It never panics; an internal failure classifies as Suspicious,
// since a false block is cheaper than a leak.
func (f *Filter) Classify(text string) (verdict Verdict) {
	defer func() {
		if r := recover(); r != nil {
			f.log.Error().Interface("panic", r).Msg("filter failure, classifying as suspicious")
			verdict = Suspicious
		}
	}()

	normalized := f.normalize(text)
	for _, phrase := range f.phrases {
		if strings.Contains(normalized, phrase) {
			f.log.Warn().Str("phrase", phrase).Msg("disclosure-seeking text blocked")
			return Suspicious
		}
	}
	return Safe
}

// normalize case-folds the text and strips combining marks and the
// Arabic tatweel, so harakat or stretched letters cannot dodge a match.
func (f *Filter) normalize(text string) string {
	folded := f.fold.String(norm.NFKC.String(text))

	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		if unicode.Is(unicode.Mn, r) || r == 'ـ' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
