package textfilter

import (
	"slices"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// profanityReplacements maps each filtered word to a tamer stand-in.
var profanityReplacements = map[string]string{
	"fuck":         "fudge",
	"shit":         "shoot",
	"damn":         "dang",
	"damned":       "danged",
	"goddamn":      "gosh-dang",
	"hell":         "heck",
	"ass":          "butt",
	"asshole":      "jerk",
	"bitch":        "jerk",
	"bastard":      "jerk",
	"crap":         "crud",
	"piss":         "ticked",
	"prick":        "jerk",
	"bullshit":     "baloney",
	"motherfucker": "mother-trucker",
	"dumbass":      "dummy",
	"jackass":      "jerk",
}

// Profanity matches the words handled by ProfanityFilter.
var Profanity = NewLexicon("profanity", profanityTerms()...)

func profanityTerms() []string {
	terms := make([]string, 0, len(profanityReplacements))
	for word := range profanityReplacements {
		terms = append(terms, word)
	}
	slices.Sort(terms)
	return terms
}

// ProfanityFilter swaps profanity for family-friendly words while keeping
// the original capitalization.
type ProfanityFilter struct {
	lexicon *Lexicon
}

// NewProfanityFilter creates a filter over the built-in profanity lexicon.
func NewProfanityFilter() *ProfanityFilter {
	return &ProfanityFilter{
		lexicon: Profanity,
	}
}

// FilterText replaces every profane word in text.
func (pf *ProfanityFilter) FilterText(text string) string {
	if pf.lexicon.pattern == nil {
		return text
	}
	return pf.lexicon.pattern.ReplaceAllStringFunc(text, func(match string) string {
		replacement, ok := profanityReplacements[strings.ToLower(match)]
		if !ok {
			return match
		}
		return preserveCase(match, replacement)
	})
}

// ContainsProfanity reports whether text holds any filtered word.
func (pf *ProfanityFilter) ContainsProfanity(text string) bool {
	return pf.lexicon.Match(text)
}

func preserveCase(original, replacement string) string {
	title := cases.Title(language.English)
	switch {
	case strings.ToUpper(original) == original:
		return strings.ToUpper(replacement)
	case strings.ToLower(original) == original:
		return replacement
	case title.String(strings.ToLower(original)) == original:
		return title.String(replacement)
	}

	orig := []rune(original)
	out := []rune(replacement)
	for i, r := range out {
		if i < len(orig) && unicode.IsUpper(orig[i]) {
			out[i] = unicode.ToUpper(r)
		} else {
			out[i] = unicode.ToLower(r)
		}
	}
	return string(out)
}

// ShouldFilterContent reports whether a content rating calls for filtering.
func ShouldFilterContent(rating string) bool {
	switch strings.ToUpper(strings.TrimSpace(rating)) {
	case "G", "PG", "PG13", "PG-13":
		return true
	}
	return false
}
