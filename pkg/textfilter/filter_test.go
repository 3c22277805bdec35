package textfilter

import "testing"

func TestProfanityFilter_FilterText(t *testing.T) {
	filter := NewProfanityFilter()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "simple replacement", input: "What the hell is going on?", expected: "What the heck is going on?"},
		{name: "multiple words", input: "This is damn crap!", expected: "This is dang crud!"},
		{name: "uppercase preserved", input: "DAMN that's annoying!", expected: "DANG that's annoying!"},
		{name: "title case preserved", input: "Hell no, not again", expected: "Heck no, not again"},
		{name: "mixed case", input: "HeLl yeah", expected: "HeCk yeah"},
		{name: "word boundaries respected", input: "I love classical music", expected: "I love classical music"},
		{name: "longer word not split", input: "You asshole.", expected: "You jerk."},
		{name: "clean text untouched", input: "A perfectly clean sentence.", expected: "A perfectly clean sentence."},
		{name: "empty string", input: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := filter.FilterText(tt.input); got != tt.expected {
				t.Errorf("FilterText() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestProfanityFilter_ContainsProfanity(t *testing.T) {
	filter := NewProfanityFilter()

	tests := []struct {
		input    string
		expected bool
	}{
		{"What the hell is this?", true},
		{"BASTARD!", true},
		{"I need to process this data", false},
		{"Hello there, traveler", false},
	}

	for _, tt := range tests {
		if got := filter.ContainsProfanity(tt.input); got != tt.expected {
			t.Errorf("ContainsProfanity(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func TestLexicon_Match(t *testing.T) {
	tests := []struct {
		name     string
		lexicon  *Lexicon
		input    string
		expected bool
	}{
		{name: "laughter word", lexicon: Laughter, input: "Haha, you fool", expected: true},
		{name: "laughter emote", lexicon: Laughter, input: "*laughs* Of course", expected: true},
		{name: "laughter inside word", lexicon: Laughter, input: "The shehe tribe", expected: false},
		{name: "whisper emote", lexicon: Whisper, input: "*whispers* Over here", expected: true},
		{name: "whisper phrase", lexicon: Whisper, input: "Keep your voice down, friend", expected: true},
		{name: "pleading", lexicon: Pleading, input: "Please, I need this", expected: true},
		{name: "pleading inside word", lexicon: Pleading, input: "That was pleasing", expected: false},
		{name: "empty lexicon", lexicon: NewLexicon("empty"), input: "anything", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.lexicon.Match(tt.input); got != tt.expected {
				t.Errorf("%s.Match(%q) = %v, want %v", tt.lexicon.Name(), tt.input, got, tt.expected)
			}
		})
	}
}

func TestLexicon_Find(t *testing.T) {
	l := NewLexicon("test", "ale", "mead")
	found := l.Find("Ale for me, MEAD for her, and more ale")
	if len(found) != 3 {
		t.Fatalf("expected 3 matches, got %v", found)
	}
	if found[1] != "MEAD" {
		t.Errorf("expected original casing, got %q", found[1])
	}
}

func TestShouldFilterContent(t *testing.T) {
	tests := []struct {
		rating   string
		expected bool
	}{
		{"G", true},
		{"pg", true},
		{" PG-13 ", true},
		{"PG13", true},
		{"R", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := ShouldFilterContent(tt.rating); got != tt.expected {
			t.Errorf("ShouldFilterContent(%q) = %v, want %v", tt.rating, got, tt.expected)
		}
	}
}
