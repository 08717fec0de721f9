package mindmap

import (
	"context"
	"fmt"
	"strings"

	"github.com/OFFIS-RIT/studymap/backend/pkg/ai"
	"github.com/OFFIS-RIT/studymap/backend/pkg/common"
	"github.com/OFFIS-RIT/studymap/backend/pkg/logger"
)

type artifactFlashcard struct {
	Question string `json:"question" jsonschema_description:"Front of the flashcard, a short question"`
	Answer   string `json:"answer" jsonschema_description:"Back of the flashcard, a concise answer"`
}

type artifactQuizItem struct {
	Question string   `json:"question" jsonschema_description:"The quiz question"`
	Options  []string `json:"options" jsonschema_description:"Exactly four answer options"`
	Answer   int      `json:"answer" jsonschema_description:"0-based index of the single correct option"`
}

type artifactsResponse struct {
	Summary    string              `json:"summary" jsonschema_description:"Short prose study summary of the whole document"`
	Bullets    []string            `json:"bullets" jsonschema_description:"Around six quick revision points"`
	Flashcards []artifactFlashcard `json:"flashcards" jsonschema_description:"Five question/answer flashcards"`
	QuizItems  []artifactQuizItem  `json:"quiz_items" jsonschema_description:"Five multiple-choice quiz questions"`
}

// RegenerateArtifacts derives study artifacts from an already-built node
// set and the chunk summaries of the same run. It is the narrow entry
// point behind the "regenerate flashcards" action: it never re-derives or
// mutates node data, so it can be called any number of times against the
// same graph.
func (c *MapClient) RegenerateArtifacts(
	ctx context.Context,
	nodes []common.TopicNode,
	chunkSummaries []string,
	client ai.MapAIClient,
) (*common.StudyArtifacts, error) {
	outline := renderOutline(nodes)
	if outline == "" {
		return nil, ErrEmptyInput
	}

	prompt := fmt.Sprintf(ai.ArtifactsPrompt, outline, strings.Join(chunkSummaries, "\n"))

	var lastErr error
	var lastRaw string
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		attemptPrompt := prompt
		if lastErr != nil {
			attemptPrompt = prompt + fmt.Sprintf(ai.ArtifactsRepairPrompt, faultyOutput(lastRaw, lastErr))
			logger.Debug("Retrying artifact generation", "attempt", attempt)
		}

		var res artifactsResponse
		err := client.GenerateCompletionWithFormat(
			ctx,
			"study_artifacts",
			"Summary, revision bullets, flashcards and quiz items for a document.",
			attemptPrompt,
			&res,
		)
		raw := rawResponse(err)
		if err == nil {
			artifacts, validateErr := validateArtifacts(&res)
			if validateErr == nil {
				return artifacts, nil
			}
			err = validateErr
			raw = marshalForDiagnostics(res)
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		lastErr = err
		lastRaw = raw
	}

	return nil, &ArtifactGenerationError{
		Attempts:    c.maxRetries,
		RawResponse: lastRaw,
		Err:         lastErr,
	}
}

// validateArtifacts imposes the internal contract on a parsed response.
// A missing summary is malformed and triggers a retry; individually
// broken flashcards and quiz items (empty sides, out-of-range answer
// index) are dropped rather than failing the whole batch.
func validateArtifacts(res *artifactsResponse) (*common.StudyArtifacts, error) {
	if strings.TrimSpace(res.Summary) == "" {
		return nil, fmt.Errorf("artifact response has no summary")
	}

	bullets := make([]string, 0, len(res.Bullets))
	for _, bullet := range res.Bullets {
		if b := strings.TrimSpace(bullet); b != "" {
			bullets = append(bullets, b)
		}
	}

	flashcards := make([]common.Flashcard, 0, len(res.Flashcards))
	for _, card := range res.Flashcards {
		if strings.TrimSpace(card.Question) == "" || strings.TrimSpace(card.Answer) == "" {
			logger.Warn("Dropping flashcard with empty side")
			continue
		}
		flashcards = append(flashcards, common.Flashcard{
			Question: card.Question,
			Answer:   card.Answer,
		})
	}

	quizItems := make([]common.QuizItem, 0, len(res.QuizItems))
	for _, item := range res.QuizItems {
		if strings.TrimSpace(item.Question) == "" || len(item.Options) < 2 {
			logger.Warn("Dropping malformed quiz item", "question", item.Question)
			continue
		}
		if item.Answer < 0 || item.Answer >= len(item.Options) {
			logger.Warn("Dropping quiz item with out-of-range answer", "question", item.Question)
			continue
		}
		quizItems = append(quizItems, common.QuizItem{
			Question: item.Question,
			Options:  item.Options,
			Answer:   item.Answer,
		})
	}

	return &common.StudyArtifacts{
		Summary:    res.Summary,
		Bullets:    bullets,
		Flashcards: flashcards,
		QuizItems:  quizItems,
	}, nil
}

// renderOutline turns the flat node set back into an indented text
// outline for prompting. Nodes are already in depth-first source order.
func renderOutline(nodes []common.TopicNode) string {
	var sb strings.Builder
	for _, node := range nodes {
		sb.WriteString(strings.Repeat("  ", node.Depth))
		sb.WriteString("- ")
		sb.WriteString(node.Title)
		if node.Summary != "" {
			sb.WriteString(": ")
			sb.WriteString(node.Summary)
		}
		sb.WriteString("\n")
	}
	return strings.TrimSpace(sb.String())
}
