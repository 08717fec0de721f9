package mindmap

import (
	"context"
	"fmt"
	"strings"

	"github.com/OFFIS-RIT/studymap/backend/internal/util"
	"github.com/OFFIS-RIT/studymap/backend/pkg/ai"
	"github.com/OFFIS-RIT/studymap/backend/pkg/logger"

	"golang.org/x/sync/errgroup"
)

// HierarchyNode is one topic of the recursive hierarchy returned by the
// extraction call, prior to flattening. Depth is unbounded and decided
// by the model.
type HierarchyNode struct {
	Title     string           `json:"title" jsonschema_description:"Short descriptive name of the topic, 2-6 words"`
	Summary   string           `json:"summary" jsonschema_description:"Concise explanation of the topic, at most 40 words"`
	KeyPoints []string         `json:"key_points" jsonschema_description:"1-4 short bullet points for the topic, may be empty"`
	Subtopics []*HierarchyNode `json:"subtopics" jsonschema_description:"Deeper related topics, may be empty"`
}

type hierarchyResponse struct {
	Topics []*HierarchyNode `json:"topics" jsonschema_description:"Top-level topics of the document, one per independent subject"`
}

// summarizeChunks produces one concise summary per chunk. Calls run
// concurrently up to the configured limit; results are written into an
// index-addressed slot so the returned slice is always in chunk order
// regardless of completion order. A single chunk skips the AI round trip
// and is passed through as its own summary.
func (c *MapClient) summarizeChunks(
	ctx context.Context,
	chunks []Chunk,
	client ai.MapAIClient,
) ([]string, error) {
	if len(chunks) == 1 {
		return []string{chunks[0].Text}, nil
	}

	summaries := make([]string, len(chunks))

	eg, gCtx := errgroup.WithContext(ctx)
	eg.SetLimit(c.parallelAiRequests)
	for _, chunk := range chunks {
		ch := chunk
		eg.Go(func() error {
			select {
			case <-gCtx.Done():
				return gCtx.Err()
			default:
			}

			summary, err := util.RetryWithContext(gCtx, c.maxRetries, func(ctx context.Context) (string, error) {
				return client.GenerateCompletion(
					ctx,
					ch.Text,
					ai.WithSystemPrompts(ai.ChunkSummaryPrompt),
				)
			})
			if err != nil {
				return fmt.Errorf("failed to summarize chunk %d: %w", ch.Index, err)
			}

			summaries[ch.Index] = strings.TrimSpace(summary)
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return summaries, nil
}

// extractHierarchy asks the model for the full topic hierarchy of the
// given material. A response that fails to parse or validate is retried
// with a corrective prompt carrying the previous offending output, up to
// the configured attempt limit; after that a HierarchyExtractionError is
// returned and nothing downstream runs.
func (c *MapClient) extractHierarchy(
	ctx context.Context,
	material string,
	client ai.MapAIClient,
) ([]*HierarchyNode, error) {
	var lastErr error
	var lastRaw string

	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		prompt := material
		if lastErr != nil {
			prompt = fmt.Sprintf(ai.HierarchyRepairPrompt, faultyOutput(lastRaw, lastErr), material)
			logger.Debug("Retrying hierarchy extraction", "attempt", attempt)
		}

		var res hierarchyResponse
		err := client.GenerateCompletionWithFormat(
			ctx,
			"topic_hierarchy",
			"Hierarchical topic structure of a study document.",
			prompt,
			&res,
			ai.WithSystemPrompts(ai.HierarchyPrompt),
		)
		raw := rawResponse(err)
		if err == nil {
			if err = validateHierarchy(res.Topics); err != nil {
				raw = marshalForDiagnostics(res)
			}
		}
		if err == nil {
			return res.Topics, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		lastErr = err
		lastRaw = raw
	}

	return nil, &HierarchyExtractionError{
		Attempts:    c.maxRetries,
		RawResponse: lastRaw,
		Err:         lastErr,
	}
}

// validateHierarchy rejects responses that parsed but are unusable:
// no topics at all, or topics without a title. Structural violations
// (cycles, duplicates) are the graph builder's concern.
func validateHierarchy(topics []*HierarchyNode) error {
	if len(topics) == 0 {
		return fmt.Errorf("hierarchy contains no topics")
	}
	var check func(node *HierarchyNode) error
	check = func(node *HierarchyNode) error {
		if node == nil {
			return nil
		}
		if strings.TrimSpace(node.Title) == "" {
			return fmt.Errorf("hierarchy contains a topic without a title")
		}
		for _, sub := range node.Subtopics {
			if err := check(sub); err != nil {
				return err
			}
		}
		return nil
	}
	for _, topic := range topics {
		if err := check(topic); err != nil {
			return err
		}
	}
	return nil
}

// generateTitle asks the model for a short document title. Failures
// degrade to the first root topic's title, never to an error.
func (c *MapClient) generateTitle(
	ctx context.Context,
	material string,
	roots []*HierarchyNode,
	client ai.MapAIClient,
) string {
	title, err := client.GenerateCompletion(
		ctx,
		material,
		ai.WithSystemPrompts(ai.TitlePrompt),
	)
	if err == nil {
		if line := firstLine(title); line != "" {
			return line
		}
	}
	if err != nil {
		logger.Warn("Failed to generate map title, falling back to root topic", "err", err)
	}

	if len(roots) > 0 {
		return roots[0].Title
	}
	return ""
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.IndexByte(s, '\n'); idx != -1 {
		s = s[:idx]
	}
	return strings.TrimSpace(strings.Trim(s, `"`))
}
