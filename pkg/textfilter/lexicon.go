package textfilter

import (
	"regexp"
	"strings"
	"unicode"
)

// Lexicon is a named set of words and phrases matched case-insensitively.
// Terms that start or end with a letter or digit only match on a word
// boundary, so "ass" never matches inside "classical".
type Lexicon struct {
	name    string
	terms   []string
	pattern *regexp.Regexp
}

// NewLexicon compiles the terms into a single alternation.
func NewLexicon(name string, terms ...string) *Lexicon {
	parts := make([]string, 0, len(terms))
	kept := make([]string, 0, len(terms))
	for _, term := range terms {
		term = strings.ToLower(strings.TrimSpace(term))
		if term == "" {
			continue
		}
		kept = append(kept, term)
		parts = append(parts, boundaryPattern(term))
	}

	l := &Lexicon{name: name, terms: kept}
	if len(parts) > 0 {
		l.pattern = regexp.MustCompile(`(?i)(?:` + strings.Join(parts, "|") + `)`)
	}
	return l
}

func boundaryPattern(term string) string {
	p := regexp.QuoteMeta(term)
	runes := []rune(term)
	if isWordRune(runes[0]) {
		p = `\b` + p
	}
	if isWordRune(runes[len(runes)-1]) {
		p += `\b`
	}
	return p
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// Name identifies the lexicon in logs.
func (l *Lexicon) Name() string {
	return l.name
}

// Match reports whether any term occurs in text.
func (l *Lexicon) Match(text string) bool {
	return l.pattern != nil && l.pattern.MatchString(text)
}

// Find returns every occurrence of a term in text, in order.
func (l *Lexicon) Find(text string) []string {
	if l.pattern == nil {
		return nil
	}
	return l.pattern.FindAllString(text, -1)
}

// Built-in marker lexicons used to read the tone of a line of dialogue.
var (
	Laughter = NewLexicon("laughter",
		"haha", "hahaha", "hehe", "heh", "lol", "*laughs*", "*chuckles*", "*giggles*", "*grins*")

	Whisper = NewLexicon("whisper",
		"*whispers*", "psst", "shh", "between you and me", "keep your voice down", "no one must know")

	Pleading = NewLexicon("pleading",
		"please", "i beg you", "i beg", "i implore you", "have mercy", "mercy", "help me", "i'm begging")
)
