package mindmap

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/OFFIS-RIT/studymap/backend/pkg/common"
)

func TestEnrichNodes(t *testing.T) {
	nodes := []common.TopicNode{
		{ID: "n1", Title: "Photosynthesis", Summary: "How plants make energy."},
		{ID: "n2", Title: "Chlorophyll", Summary: "The green pigment.", ParentID: "n1"},
	}

	var sawParentContext bool
	stub := &stubAIClient{
		structured: func(ctx context.Context, name string, prompt string, out any) error {
			if name != "topic_explanation" {
				t.Errorf("schema name = %q, want topic_explanation", name)
			}
			if strings.Contains(prompt, "Parent topic: Photosynthesis") {
				sawParentContext = true
			}
			*out.(*explanationResponse) = explanationResponse{
				Layman:    "Plants turn light into food.",
				Technical: "Light reactions drive carbon fixation.",
				Analogy:   "Like a solar panel.",
			}
			return nil
		},
	}

	got := testMapClient(t).enrichNodes(context.Background(), nodes, stub)

	if len(got) != 2 {
		t.Fatalf("enrichNodes() returned %d entries, want 2", len(got))
	}
	for _, node := range nodes {
		exp := got[node.ID]
		if exp == nil {
			t.Fatalf("node %q has nil explanation", node.ID)
		}
		if exp.Layman == "" || exp.Technical == "" {
			t.Errorf("node %q explanation incomplete: %+v", node.ID, exp)
		}
	}
	if !sawParentContext {
		t.Error("child node prompt did not mention its parent topic")
	}
}

func TestEnrichNodesPartialFailure(t *testing.T) {
	nodes := []common.TopicNode{
		{ID: "ok", Title: "Mitosis"},
		{ID: "bad", Title: "Meiosis"},
		{ID: "empty", Title: "Cytokinesis"},
	}

	stub := &stubAIClient{
		structured: func(ctx context.Context, name string, prompt string, out any) error {
			switch {
			case strings.Contains(prompt, "Meiosis"):
				return errors.New("model timeout")
			case strings.Contains(prompt, "Cytokinesis"):
				// Parsed but useless response.
				return nil
			default:
				*out.(*explanationResponse) = explanationResponse{Layman: "Cells divide."}
				return nil
			}
		},
	}

	got := testMapClient(t).enrichNodes(context.Background(), nodes, stub)

	if got["ok"] == nil {
		t.Error("healthy node lost its explanation")
	}
	if got["bad"] != nil {
		t.Errorf("failed node explanation = %+v, want nil", got["bad"])
	}
	if got["empty"] != nil {
		t.Errorf("empty response explanation = %+v, want nil", got["empty"])
	}
}

func TestEnrichNodesEmpty(t *testing.T) {
	got := testMapClient(t).enrichNodes(context.Background(), nil, &stubAIClient{})
	if len(got) != 0 {
		t.Errorf("enrichNodes(nil) = %#v, want empty map", got)
	}
}
