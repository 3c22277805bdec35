package chat

import "testing"

func TestChatMessage_Validate(t *testing.T) {
	tests := []struct {
		name    string
		msg     ChatMessage
		wantErr bool
	}{
		{"user message", ChatMessage{Role: ChatRoleUser, Content: "Hello"}, false},
		{"system message", ChatMessage{Role: ChatRoleSystem, Content: "You are a guard."}, false},
		{"unknown role", ChatMessage{Role: "narrator", Content: "Hello"}, true},
		{"blank content", ChatMessage{Role: ChatRoleAgent, Content: "   "}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.msg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSplitSystem(t *testing.T) {
	messages := []ChatMessage{
		{Role: ChatRoleSystem, Content: "You are Mara."},
		{Role: ChatRoleUser, Content: "Hi"},
		{Role: ChatRoleSystem, Content: "Reply in JSON."},
	}

	system, rest := SplitSystem(messages)
	if system != "You are Mara.\n\nReply in JSON." {
		t.Errorf("unexpected system prompt %q", system)
	}
	if len(rest) != 1 || rest[0].Content != "Hi" {
		t.Errorf("expected only the user message to remain, got %+v", rest)
	}
}
