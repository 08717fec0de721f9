package mindmap

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/OFFIS-RIT/studymap/backend/pkg/ai"
	"github.com/OFFIS-RIT/studymap/backend/pkg/common"
)

func TestAskMap(t *testing.T) {
	var gotPrompt string
	stub := &stubAIClient{
		completion: func(ctx context.Context, prompt string, opts *ai.GenerateOptions) (string, error) {
			if len(opts.SystemPrompts) != 1 || opts.SystemPrompts[0] != ai.ChatPrompt {
				t.Errorf("system prompts = %#v, want the chat persona", opts.SystemPrompts)
			}
			gotPrompt = prompt
			return "  Entropy measures disorder.  ", nil
		},
	}

	answer, err := testMapClient(t).AskMap(context.Background(), MapQuestion{
		Question: "What is entropy?",
		History: []ai.ChatMessage{
			{Role: "user", Message: "Summarize the map."},
			{Role: "assistant", Message: "It covers thermodynamics."},
		},
		Nodes: []common.TopicNode{
			{ID: "a", Title: "Thermodynamics", Depth: 0},
			{ID: "b", Title: "Entropy", Depth: 1, ParentID: "a"},
		},
		ChunkSummaries: []string{"Heat flows from hot to cold."},
		Summary:        "The document covers thermodynamics.",
	}, stub)
	if err != nil {
		t.Fatalf("AskMap() error = %v", err)
	}
	if answer != "Entropy measures disorder." {
		t.Errorf("answer = %q, want trimmed model reply", answer)
	}

	for _, want := range []string{
		"Context:\n",
		"Mind Map Topics:",
		"- Thermodynamics",
		"- Entropy",
		"Source Text Highlights:",
		"- Heat flows from hot to cold.",
		"Overall Summary:\nThe document covers thermodynamics.",
		"User: Summarize the map.",
		"Assistant: It covers thermodynamics.",
		"User Question: What is entropy?",
	} {
		if !strings.Contains(gotPrompt, want) {
			t.Errorf("prompt is missing %q:\n%s", want, gotPrompt)
		}
	}
	if !strings.HasSuffix(gotPrompt, "User Question: What is entropy?") {
		t.Errorf("prompt does not end with the current question:\n%s", gotPrompt)
	}
}

func TestAskMapEmptyQuestion(t *testing.T) {
	_, err := testMapClient(t).AskMap(context.Background(), MapQuestion{Question: "  \n "}, &stubAIClient{})
	if !errors.Is(err, ErrEmptyInput) {
		t.Errorf("AskMap() error = %v, want ErrEmptyInput", err)
	}
}

func TestAskMapModelFailure(t *testing.T) {
	stub := &stubAIClient{
		completion: func(ctx context.Context, prompt string, opts *ai.GenerateOptions) (string, error) {
			return "", errors.New("model unavailable")
		},
	}
	_, err := testMapClient(t).AskMap(context.Background(), MapQuestion{Question: "Why?"}, stub)
	if err == nil || !strings.Contains(err.Error(), "model unavailable") {
		t.Errorf("AskMap() error = %v, want wrapped model failure", err)
	}
}

func TestComposeChatContextCaps(t *testing.T) {
	nodes := make([]common.TopicNode, maxChatTopics+2)
	for i := range nodes {
		nodes[i] = common.TopicNode{ID: fmt.Sprintf("n%d", i), Title: fmt.Sprintf("Topic %d", i)}
	}
	highlights := make([]string, maxChatHighlights+3)
	for i := range highlights {
		highlights[i] = fmt.Sprintf("Highlight %d", i)
	}

	got := composeChatContext(nodes, highlights, "")
	if !strings.Contains(got, fmt.Sprintf("- Topic %d", maxChatTopics-1)) {
		t.Error("context is missing the last topic inside the cap")
	}
	if strings.Contains(got, fmt.Sprintf("- Topic %d", maxChatTopics)) {
		t.Error("context lists topics beyond the cap")
	}
	if strings.Contains(got, fmt.Sprintf("- Highlight %d", maxChatHighlights)) {
		t.Error("context lists highlights beyond the cap")
	}
}

func TestComposeChatContextEmpty(t *testing.T) {
	if got := composeChatContext(nil, nil, "  "); got != "No map context provided." {
		t.Errorf("composeChatContext() = %q", got)
	}
}
