package dialogue

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// noResponse is what the providers return when the backend sent nothing.
const noResponse = "(no response)"

var (
	responsesHeader = regexp.MustCompile(`(?i)^\s*(suggested\s+)?(responses|replies|options)\s*:\s*$`)
	listItem        = regexp.MustCompile(`^\s*(?:[-*•]|\d+[.)])\s+(.+)$`)
)

type generatedJSON struct {
	Text               string   `json:"text"`
	Emotion            string   `json:"emotion"`
	SuggestedResponses []string `json:"suggested_responses"`
	Responses          []string `json:"responses"`
	Actions            []Action `json:"actions"`
}

// ParseResponse turns raw generated text into a dialogue line. JSON output is
// preferred; anything else is read as the spoken line optionally followed by
// a "Responses:" list. The emotion is left for the caller to detect.
func ParseResponse(raw string) (GeneratedDialogue, error) {
	body := stripCodeFence(strings.TrimSpace(raw))
	if body == "" || body == noResponse {
		return GeneratedDialogue{}, ErrEmptyResponse
	}

	if strings.HasPrefix(body, "{") {
		return parseJSON(body)
	}
	return parsePlain(body)
}

func parseJSON(body string) (GeneratedDialogue, error) {
	var g generatedJSON
	if err := json.Unmarshal([]byte(body), &g); err != nil {
		return GeneratedDialogue{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	text := cleanLine(g.Text)
	if text == "" {
		return GeneratedDialogue{}, ErrEmptyResponse
	}
	responses := g.SuggestedResponses
	if len(responses) == 0 {
		responses = g.Responses
	}

	var actions []Action
	for _, a := range g.Actions {
		if strings.TrimSpace(a.Label) != "" {
			actions = append(actions, a)
		}
	}
	return GeneratedDialogue{
		Text:               text,
		SuggestedResponses: capResponses(responses),
		Actions:            actions,
	}, nil
}

func parsePlain(body string) (GeneratedDialogue, error) {
	var lines, responses []string
	inResponses := false
	for _, line := range strings.Split(body, "\n") {
		if responsesHeader.MatchString(line) {
			inResponses = true
			continue
		}
		if inResponses {
			if m := listItem.FindStringSubmatch(line); m != nil {
				responses = append(responses, cleanLine(m[1]))
			}
			continue
		}
		if l := strings.TrimSpace(line); l != "" {
			lines = append(lines, l)
		}
	}

	text := cleanLine(strings.Join(lines, " "))
	if text == "" {
		return GeneratedDialogue{}, ErrEmptyResponse
	}
	return GeneratedDialogue{Text: text, SuggestedResponses: capResponses(responses)}, nil
}

func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.Index(s, "\n"); i >= 0 {
		s = s[i+1:] // language tag
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// cleanLine trims whitespace and a single pair of surrounding quotes.
func cleanLine(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	return s
}
