package mindmap

import (
	"context"
	"fmt"
	"strings"

	"github.com/OFFIS-RIT/studymap/backend/pkg/ai"
	"github.com/OFFIS-RIT/studymap/backend/pkg/common"
	"github.com/OFFIS-RIT/studymap/backend/pkg/logger"
)

// Caps keep the composed context inside a sane prompt size for large maps.
const (
	maxChatTopics     = 50
	maxChatHighlights = 40
)

// MapQuestion is one question asked against an already-built map. The
// caller sends back the node set and summaries it received from the
// build, so answering needs no server-side state.
type MapQuestion struct {
	Question       string
	History        []ai.ChatMessage
	Nodes          []common.TopicNode
	ChunkSummaries []string
	Summary        string
}

// AskMap answers a free-form question about a generated mind map. The
// map content is rendered into a textual context and sent together with
// the prior conversation as a single completion request.
func (c *MapClient) AskMap(
	ctx context.Context,
	q MapQuestion,
	client ai.MapAIClient,
) (string, error) {
	question := strings.TrimSpace(q.Question)
	if question == "" {
		return "", ErrEmptyInput
	}

	logger.Debug("[Map] Answering map question",
		"nodes", len(q.Nodes), "history", len(q.History))

	var sb strings.Builder
	sb.WriteString("Context:\n")
	sb.WriteString(composeChatContext(q.Nodes, q.ChunkSummaries, q.Summary))
	for _, msg := range q.History {
		role := "User"
		if msg.Role == "assistant" {
			role = "Assistant"
		}
		fmt.Fprintf(&sb, "\n\n%s: %s", role, msg.Message)
	}
	fmt.Fprintf(&sb, "\n\nUser Question: %s", question)

	answer, err := client.GenerateCompletion(
		ctx,
		sb.String(),
		ai.WithSystemPrompts(ai.ChatPrompt),
	)
	if err != nil {
		return "", fmt.Errorf("failed to answer map question: %w", err)
	}

	answer = strings.TrimSpace(answer)
	if answer == "" {
		return "", fmt.Errorf("model returned an empty answer")
	}
	return answer, nil
}

// composeChatContext renders the map into the context block of the chat
// prompt: topic titles, source highlights and the overall summary, each
// section capped so huge maps stay promptable.
func composeChatContext(
	nodes []common.TopicNode,
	chunkSummaries []string,
	summary string,
) string {
	var sections []string

	if len(nodes) > 0 {
		topics := nodes
		if len(topics) > maxChatTopics {
			topics = topics[:maxChatTopics]
		}
		lines := make([]string, 0, len(topics)+1)
		lines = append(lines, "Mind Map Topics:")
		for _, node := range topics {
			lines = append(lines, "- "+node.Title)
		}
		sections = append(sections, strings.Join(lines, "\n"))
	}

	if len(chunkSummaries) > 0 {
		highlights := chunkSummaries
		if len(highlights) > maxChatHighlights {
			highlights = highlights[:maxChatHighlights]
		}
		lines := make([]string, 0, len(highlights)+1)
		lines = append(lines, "Source Text Highlights:")
		for _, highlight := range highlights {
			lines = append(lines, "- "+highlight)
		}
		sections = append(sections, strings.Join(lines, "\n"))
	}

	if s := strings.TrimSpace(summary); s != "" {
		sections = append(sections, "Overall Summary:\n"+s)
	}

	if len(sections) == 0 {
		return "No map context provided."
	}
	return strings.Join(sections, "\n\n")
}
