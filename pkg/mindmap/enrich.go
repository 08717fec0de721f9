package mindmap

import (
	"context"
	"fmt"
	"strings"

	"github.com/OFFIS-RIT/studymap/backend/pkg/ai"
	"github.com/OFFIS-RIT/studymap/backend/pkg/common"
	"github.com/OFFIS-RIT/studymap/backend/pkg/logger"

	"golang.org/x/sync/errgroup"
)

type explanationResponse struct {
	Layman    string `json:"layman" jsonschema_description:"Plain-language explanation of the topic, 2-3 sentences"`
	Technical string `json:"technical" jsonschema_description:"Precise explanation using correct terminology, 2-3 sentences"`
	Analogy   string `json:"analogy" jsonschema_description:"One short everyday analogy or learning tip"`
}

// enrichNodes requests one explanation per node. Every node is an
// independent unit of work writing into its own slot: a failed or
// canceled request leaves that node's explanation nil and never affects
// other nodes or the node set itself. There are no retries here, quality
// degrades gracefully instead.
func (c *MapClient) enrichNodes(
	ctx context.Context,
	nodes []common.TopicNode,
	client ai.MapAIClient,
) map[string]*common.Explanation {
	titleByID := make(map[string]string, len(nodes))
	for _, node := range nodes {
		titleByID[node.ID] = node.Title
	}

	slots := make([]*common.Explanation, len(nodes))

	eg, gCtx := errgroup.WithContext(ctx)
	eg.SetLimit(c.parallelAiRequests)
	for i, node := range nodes {
		i, node := i, node
		eg.Go(func() error {
			if gCtx.Err() != nil {
				return nil
			}

			parentContext := ""
			if node.ParentID != "" {
				parentContext = fmt.Sprintf("- Parent topic: %s", titleByID[node.ParentID])
			}
			prompt := fmt.Sprintf(ai.ExplainPrompt, node.Title, node.Summary, parentContext)

			var res explanationResponse
			err := client.GenerateCompletionWithFormat(
				gCtx,
				"topic_explanation",
				"Layman, technical and analogy explanation of one study topic.",
				prompt,
				&res,
			)
			if err != nil {
				logger.Warn("Explanation failed for topic", "title", node.Title, "err", err)
				return nil
			}
			if strings.TrimSpace(res.Layman) == "" && strings.TrimSpace(res.Technical) == "" {
				logger.Warn("Explanation empty for topic", "title", node.Title)
				return nil
			}

			slots[i] = &common.Explanation{
				Layman:    res.Layman,
				Technical: res.Technical,
				Analogy:   res.Analogy,
			}
			return nil
		})
	}
	// Goroutines absorb their own failures, Wait only synchronizes.
	_ = eg.Wait()

	explanations := make(map[string]*common.Explanation, len(nodes))
	for i, node := range nodes {
		explanations[node.ID] = slots[i]
	}
	return explanations
}
