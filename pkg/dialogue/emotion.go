package dialogue

import (
	"strings"
	"unicode/utf8"

	"github.com/Miltondz/one-page-rpg-sub001/pkg/textfilter"
)

const curiousMaxLength = 50

// DetectEmotion reads the tone of a line with ordered rules; the first
// matching rule wins.
func DetectEmotion(text string) Emotion {
	t := strings.TrimSpace(text)
	switch {
	case strings.Contains(t, "!") || textfilter.Profanity.Match(t):
		return EmotionAngry
	case strings.HasSuffix(t, "?") && utf8.RuneCountInString(t) < curiousMaxLength:
		return EmotionCurious
	case textfilter.Laughter.Match(t):
		return EmotionAmused
	case strings.Contains(t, "...") || strings.Contains(t, "…") || textfilter.Whisper.Match(t):
		return EmotionMysterious
	case textfilter.Pleading.Match(t):
		return EmotionDesperate
	default:
		return EmotionNeutral
	}
}
