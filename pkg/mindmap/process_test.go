package mindmap

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/OFFIS-RIT/studymap/backend/pkg/ai"
	"github.com/OFFIS-RIT/studymap/backend/pkg/common"
)

// stubAIClient implements ai.MapAIClient with swappable behavior per test.
type stubAIClient struct {
	completion func(ctx context.Context, prompt string, opts *ai.GenerateOptions) (string, error)
	structured func(ctx context.Context, name string, prompt string, out any) error
}

func (s *stubAIClient) GenerateCompletion(
	ctx context.Context,
	prompt string,
	opts ...ai.GenerateOption,
) (string, error) {
	options := &ai.GenerateOptions{}
	for _, opt := range opts {
		opt(options)
	}
	if s.completion == nil {
		return "", errors.New("no completion configured")
	}
	return s.completion(ctx, prompt, options)
}

func (s *stubAIClient) GenerateCompletionWithFormat(
	ctx context.Context,
	name string,
	description string,
	prompt string,
	out any,
	opts ...ai.GenerateOption,
) error {
	if s.structured == nil {
		return errors.New("no structured completion configured")
	}
	return s.structured(ctx, name, prompt, out)
}

func (s *stubAIClient) ResetMetrics() {}

func (s *stubAIClient) GetMetrics() ai.ModelMetrics { return ai.ModelMetrics{} }

func testMapClient(t *testing.T) *MapClient {
	t.Helper()
	client, err := NewMapClient(NewMapClientParams{
		MaxChunkTokens:     500,
		ParallelAiRequests: 2,
		MaxRetries:         2,
		MaxKeywords:        5,
	})
	if err != nil {
		t.Fatalf("NewMapClient() error = %v", err)
	}
	return client
}

func testHierarchy() []*HierarchyNode {
	return []*HierarchyNode{
		{
			Title:   "Neural Networks",
			Summary: "Models built from connected layers.",
			Subtopics: []*HierarchyNode{
				{
					Title:   "Layers",
					Summary: "Stages that transform activations.",
					Subtopics: []*HierarchyNode{
						{Title: "Activation Functions", Summary: "Nonlinearities between layers."},
					},
				},
				{Title: "Backpropagation", Summary: "Gradient-based weight updates."},
			},
		},
		{Title: "Training Data", Summary: "Examples the model learns from."},
	}
}

func TestProcessText(t *testing.T) {
	text := "Learning shapes the network. Deep learning uses layered learning models. " +
		"Backpropagation updates weights after every pass."

	stub := &stubAIClient{
		completion: func(ctx context.Context, prompt string, opts *ai.GenerateOptions) (string, error) {
			if len(opts.SystemPrompts) > 0 && opts.SystemPrompts[0] == ai.TitlePrompt {
				return "  Neural Networks Primer  \nExtra line.", nil
			}
			return "summary of: " + prompt, nil
		},
		structured: func(ctx context.Context, name string, prompt string, out any) error {
			switch name {
			case "topic_hierarchy":
				out.(*hierarchyResponse).Topics = testHierarchy()
			case "topic_explanation":
				*out.(*explanationResponse) = explanationResponse{
					Layman:    "In simple terms.",
					Technical: "In precise terms.",
					Analogy:   "Like a relay race.",
				}
			case "study_artifacts":
				*out.(*artifactsResponse) = artifactsResponse{
					Summary: "The document covers neural networks.",
					Bullets: []string{"Layers transform data.", "Gradients drive training."},
					Flashcards: []artifactFlashcard{
						{Question: "What is a layer?", Answer: "A transformation stage."},
					},
					QuizItems: []artifactQuizItem{
						{Question: "What updates weights?", Options: []string{"Backprop", "Dropout", "Pooling", "Padding"}, Answer: 0},
					},
				}
			default:
				return errors.New("unexpected schema " + name)
			}
			return nil
		},
	}

	m, err := testMapClient(t).ProcessText(context.Background(), text, stub)
	if err != nil {
		t.Fatalf("ProcessText() error = %v", err)
	}

	if m.Title != "Neural Networks Primer" {
		t.Errorf("Title = %q, want %q", m.Title, "Neural Networks Primer")
	}
	if len(m.Nodes) != 5 {
		t.Fatalf("Nodes = %d, want 5", len(m.Nodes))
	}
	if len(m.Edges) != 4 {
		t.Errorf("Edges = %d, want 4", len(m.Edges))
	}
	for _, node := range m.Nodes {
		if m.Explanations[node.ID] == nil {
			t.Errorf("node %q has no explanation", node.Title)
		}
	}
	if m.Artifacts == nil {
		t.Fatal("Artifacts = nil, want populated")
	}
	if len(m.Artifacts.Flashcards) != 1 || len(m.Artifacts.QuizItems) != 1 {
		t.Errorf("Artifacts = %+v, want 1 flashcard and 1 quiz item", m.Artifacts)
	}
	if len(m.Keywords) == 0 || m.Keywords[0].Word != "learning" {
		t.Errorf("Keywords = %#v, want %q first", m.Keywords, "learning")
	}
	if len(m.ChunkSummaries) != 1 {
		t.Errorf("ChunkSummaries = %d, want 1 for single-chunk input", len(m.ChunkSummaries))
	}
}

func TestProcessTextEmptyInput(t *testing.T) {
	for _, text := range []string{"", "   \n\t  "} {
		_, err := testMapClient(t).ProcessText(context.Background(), text, &stubAIClient{})
		if !errors.Is(err, ErrEmptyInput) {
			t.Errorf("ProcessText(%q) error = %v, want ErrEmptyInput", text, err)
		}
	}
}

func TestProcessTextHierarchyFailure(t *testing.T) {
	attempts := 0
	repairs := 0
	stub := &stubAIClient{
		completion: func(ctx context.Context, prompt string, opts *ai.GenerateOptions) (string, error) {
			return "title", nil
		},
		structured: func(ctx context.Context, name string, prompt string, out any) error {
			if name != "topic_hierarchy" {
				t.Fatalf("unexpected schema %q before hierarchy succeeded", name)
			}
			attempts++
			if strings.Contains(prompt, "not valid") {
				repairs++
			}
			return errors.New("response was not valid JSON")
		},
	}

	_, err := testMapClient(t).ProcessText(context.Background(), "Some study material here.", stub)
	var extractErr *HierarchyExtractionError
	if !errors.As(err, &extractErr) {
		t.Fatalf("ProcessText() error = %v, want HierarchyExtractionError", err)
	}
	if extractErr.Attempts != 2 || attempts != 2 {
		t.Errorf("attempts = %d (error reports %d), want 2", attempts, extractErr.Attempts)
	}
	if repairs != 1 {
		t.Errorf("corrective prompts = %d, want 1", repairs)
	}
}

func TestProcessTextHierarchyErrorCarriesResponse(t *testing.T) {
	const brokenOutput = `{"topics": [{"title": "Neural`

	attempts := 0
	stub := &stubAIClient{
		structured: func(ctx context.Context, name string, prompt string, out any) error {
			attempts++
			if attempts > 1 && !strings.Contains(prompt, brokenOutput) {
				t.Errorf("retry prompt does not carry the offending output:\n%s", prompt)
			}
			return &ai.MalformedResponseError{Raw: brokenOutput, Err: errors.New("json repair failed")}
		},
	}

	_, err := testMapClient(t).ProcessText(context.Background(), "Some study material here.", stub)
	var extractErr *HierarchyExtractionError
	if !errors.As(err, &extractErr) {
		t.Fatalf("ProcessText() error = %v, want HierarchyExtractionError", err)
	}
	if extractErr.RawResponse != brokenOutput {
		t.Errorf("RawResponse = %q, want %q", extractErr.RawResponse, brokenOutput)
	}
}

func TestProcessTextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int32
	stub := &stubAIClient{
		completion: func(ctx context.Context, prompt string, opts *ai.GenerateOptions) (string, error) {
			calls.Add(1)
			return "title", nil
		},
		structured: func(ctx context.Context, name string, prompt string, out any) error {
			if calls.Add(1) == 1 {
				cancel()
			}
			return ctx.Err()
		},
	}

	_, err := testMapClient(t).ProcessText(ctx, "Some study material here.", stub)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("ProcessText() error = %v, want context.Canceled", err)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("model calls after cancellation = %d, want none beyond the first", got-1)
	}
}

func TestProcessTextArtifactFailureDegrades(t *testing.T) {
	stub := &stubAIClient{
		completion: func(ctx context.Context, prompt string, opts *ai.GenerateOptions) (string, error) {
			return "title", nil
		},
		structured: func(ctx context.Context, name string, prompt string, out any) error {
			switch name {
			case "topic_hierarchy":
				out.(*hierarchyResponse).Topics = testHierarchy()
			case "topic_explanation":
				*out.(*explanationResponse) = explanationResponse{Layman: "Simple."}
			case "study_artifacts":
				return errors.New("model unavailable")
			}
			return nil
		},
	}

	m, err := testMapClient(t).ProcessText(context.Background(), "Some study material here.", stub)
	if err != nil {
		t.Fatalf("ProcessText() error = %v", err)
	}
	if m.Artifacts != nil {
		t.Errorf("Artifacts = %+v, want nil after persistent failure", m.Artifacts)
	}
	if len(m.Nodes) != 5 {
		t.Errorf("Nodes = %d, want 5 despite artifact failure", len(m.Nodes))
	}
}

func TestRegenerateArtifactsLeavesNodesUnchanged(t *testing.T) {
	nodes, err := BuildGraph(testHierarchy())
	if err != nil {
		t.Fatalf("BuildGraph() error = %v", err)
	}
	snapshot := make([]string, len(nodes))
	for i, node := range nodes {
		snapshot[i] = node.ID + "|" + node.Title
	}

	calls := 0
	stub := &stubAIClient{
		structured: func(ctx context.Context, name string, prompt string, out any) error {
			calls++
			*out.(*artifactsResponse) = artifactsResponse{Summary: fmt.Sprintf("Summary version %d.", calls)}
			return nil
		},
	}

	client := testMapClient(t)
	var results []*common.StudyArtifacts
	for range 2 {
		artifacts, err := client.RegenerateArtifacts(context.Background(), nodes, []string{"summary"}, stub)
		if err != nil {
			t.Fatalf("RegenerateArtifacts() error = %v", err)
		}
		results = append(results, artifacts)
	}
	if results[0].Summary == results[1].Summary {
		t.Error("expected independent artifact objects per regeneration")
	}

	after := make([]string, len(nodes))
	for i, node := range nodes {
		after[i] = node.ID + "|" + node.Title
	}
	if !reflect.DeepEqual(snapshot, after) {
		t.Errorf("nodes changed across regeneration: %v != %v", after, snapshot)
	}
}
