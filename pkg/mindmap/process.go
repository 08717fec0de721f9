package mindmap

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/OFFIS-RIT/studymap/backend/pkg/ai"
	"github.com/OFFIS-RIT/studymap/backend/pkg/common"
	"github.com/OFFIS-RIT/studymap/backend/pkg/logger"
)

// ProcessText runs the full document-to-mind-map pipeline on one piece of
// study material: chunking, per-chunk summarization, hierarchy extraction,
// graph building, per-node explanation enrichment, study artifacts, and
// keywords. The result is one self-contained MindMap; no state is shared
// between runs.
//
// Cancellation of ctx stops the pipeline between stages and stops new AI
// calls from being issued inside them. Enrichment and artifact failures
// degrade (nil explanation, nil artifacts); empty input, a persistently
// malformed hierarchy, and structural violations are returned as typed
// errors.
func (c *MapClient) ProcessText(
	ctx context.Context,
	text string,
	client ai.MapAIClient,
) (*common.MindMap, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyInput
	}

	chunks, err := chunkText(text, c.tokenEncoder, c.maxChunkTokens)
	if err != nil {
		return nil, fmt.Errorf("failed to chunk input text: %w", err)
	}
	if len(chunks) == 0 {
		return nil, ErrEmptyInput
	}

	logger.Info("[Map] Processing input", "chunks", len(chunks))

	summaries, err := c.summarizeChunks(ctx, chunks, client)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize chunks: %w", err)
	}

	material := text
	if len(chunks) > 1 {
		material = strings.Join(summaries, "\n")
	}

	logger.Info("[Map] Extracting topic hierarchy")

	roots, err := c.extractHierarchy(ctx, material, client)
	if err != nil {
		return nil, err
	}

	nodes, err := BuildGraph(roots)
	if err != nil {
		return nil, err
	}
	edges := DeriveEdges(nodes)

	logger.Info("[Map] Graph built", "nodes", len(nodes), "edges", len(edges))

	title := c.generateTitle(ctx, material, roots, client)

	var (
		explanations map[string]*common.Explanation
		artifacts    *common.StudyArtifacts
		wg           sync.WaitGroup
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		explanations = c.enrichNodes(ctx, nodes, client)
	}()
	go func() {
		defer wg.Done()
		var artErr error
		artifacts, artErr = c.RegenerateArtifacts(ctx, nodes, summaries, client)
		if artErr != nil {
			if errors.Is(artErr, context.Canceled) || errors.Is(artErr, context.DeadlineExceeded) {
				return
			}
			logger.Error("Study artifact generation failed, continuing without artifacts", "err", artErr)
		}
	}()
	wg.Wait()

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	keywords := ExtractKeywords(text, c.maxKeywords, nil)

	logger.Info("[Map] Pipeline completed", "nodes", len(nodes), "keywords", len(keywords))

	return &common.MindMap{
		Title:          title,
		Nodes:          nodes,
		Edges:          edges,
		Explanations:   explanations,
		Artifacts:      artifacts,
		Keywords:       keywords,
		ChunkSummaries: summaries,
	}, nil
}
