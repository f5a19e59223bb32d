package ai

import (
	"strings"
	"testing"
)

func TestSystemPrompt_KeepsMarkdownLayout(t *testing.T) {
	for _, line := range []string{
		"    - Use fluent, neutral, Hinglish that feels natural and conversational.  \n",
		"   - Start with introducing yourself (You are Zara, an AI psychologist)   \n",
		"  - Avoid emojis, slang, and unnecessary symbols.  \n",
	} {
		if !strings.Contains(SystemPrompt, line) {
			t.Fatalf("prompt lost line %q", line)
		}
	}
	if n := strings.Count(SystemPrompt, "  \n"); n < 20 {
		t.Fatalf("hard line breaks = %d, trailing double spaces were stripped", n)
	}
	if !strings.HasPrefix(SystemPrompt, "## System Prompt: Zara") {
		t.Fatalf("unexpected prompt head: %q", SystemPrompt[:40])
	}
}
