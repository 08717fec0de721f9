package mindmap

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/OFFIS-RIT/studymap/backend/pkg/common"
)

func TestBuildGraph(t *testing.T) {
	roots := []*HierarchyNode{
		{
			Title:   "Machine Learning",
			Summary: "Algorithms that improve with data.",
			Subtopics: []*HierarchyNode{
				{
					Title:   "Supervised Learning",
					Summary: "Learning from labeled examples.",
					Subtopics: []*HierarchyNode{
						{Title: "Linear Regression", Summary: "Fitting a line to data."},
					},
				},
				{Title: "Unsupervised Learning", Summary: "Finding structure without labels."},
			},
		},
		{Title: "Statistics", Summary: "The mathematics of data."},
	}

	nodes, err := BuildGraph(roots)
	if err != nil {
		t.Fatalf("BuildGraph() error = %v", err)
	}

	if len(nodes) != 5 {
		t.Fatalf("BuildGraph() returned %d nodes, want 5", len(nodes))
	}

	wantTitles := []string{
		"Machine Learning",
		"Supervised Learning",
		"Linear Regression",
		"Unsupervised Learning",
		"Statistics",
	}
	wantDepths := []int{0, 1, 2, 1, 0}
	ids := make(map[string]int)
	for i, node := range nodes {
		if node.Title != wantTitles[i] {
			t.Errorf("node[%d].Title = %q, want %q", i, node.Title, wantTitles[i])
		}
		if node.Depth != wantDepths[i] {
			t.Errorf("node[%d].Depth = %d, want %d", i, node.Depth, wantDepths[i])
		}
		if node.ID == "" {
			t.Errorf("node[%d] has empty ID", i)
		}
		ids[node.ID] = i
	}
	if len(ids) != len(nodes) {
		t.Errorf("node IDs are not unique: %d distinct IDs for %d nodes", len(ids), len(nodes))
	}

	// Parent and child references must agree on both sides.
	for i, node := range nodes {
		if node.Depth == 0 {
			if node.ParentID != "" {
				t.Errorf("root node[%d] has ParentID %q", i, node.ParentID)
			}
			continue
		}
		parentIdx, ok := ids[node.ParentID]
		if !ok {
			t.Errorf("node[%d].ParentID %q does not exist", i, node.ParentID)
			continue
		}
		found := false
		for _, childID := range nodes[parentIdx].ChildIDs {
			if childID == node.ID {
				found = true
			}
		}
		if !found {
			t.Errorf("node[%d] missing from its parent's ChildIDs", i)
		}
	}

	if got := len(nodes[0].ChildIDs); got != 2 {
		t.Errorf("root ChildIDs = %d, want 2", got)
	}
}

func TestBuildGraphTruncation(t *testing.T) {
	roots := []*HierarchyNode{
		{
			Title:   strings.Repeat("t", 200),
			Summary: strings.Repeat("s", 500),
			KeyPoints: []string{
				"one", "two", "three", "four", "five", "six", "seven", "eight",
			},
		},
	}

	nodes, err := BuildGraph(roots)
	if err != nil {
		t.Fatalf("BuildGraph() error = %v", err)
	}
	if len(nodes) != 1 {
		t.Fatalf("BuildGraph() returned %d nodes, want 1", len(nodes))
	}
	if got := len([]rune(nodes[0].Title)); got != maxTitleLen {
		t.Errorf("title length = %d, want %d", got, maxTitleLen)
	}
	if got := len([]rune(nodes[0].Summary)); got != maxSummaryLen {
		t.Errorf("summary length = %d, want %d", got, maxSummaryLen)
	}
	if got := len(nodes[0].KeyPoints); got != maxKeyPoints {
		t.Errorf("key points = %d, want %d", got, maxKeyPoints)
	}
}

func TestBuildGraphCycle(t *testing.T) {
	child := &HierarchyNode{Title: "Recursion"}
	root := &HierarchyNode{Title: "Algorithms", Subtopics: []*HierarchyNode{child}}
	child.Subtopics = []*HierarchyNode{root}

	_, err := BuildGraph([]*HierarchyNode{root})
	var structErr *GraphStructureError
	if !errors.As(err, &structErr) {
		t.Fatalf("BuildGraph() error = %v, want GraphStructureError", err)
	}
	if structErr.Title != "Algorithms" {
		t.Errorf("error title = %q, want %q", structErr.Title, "Algorithms")
	}
}

func TestBuildGraphDuplicate(t *testing.T) {
	shared := &HierarchyNode{Title: "Gradient Descent"}
	roots := []*HierarchyNode{
		{Title: "Optimization", Subtopics: []*HierarchyNode{shared}},
		{Title: "Neural Networks", Subtopics: []*HierarchyNode{shared}},
	}

	_, err := BuildGraph(roots)
	var structErr *GraphStructureError
	if !errors.As(err, &structErr) {
		t.Fatalf("BuildGraph() error = %v, want GraphStructureError", err)
	}
	if structErr.Title != "Gradient Descent" {
		t.Errorf("error title = %q, want %q", structErr.Title, "Gradient Descent")
	}
}

func TestDeriveEdges(t *testing.T) {
	nodes := []common.TopicNode{
		{ID: "a", ChildIDs: []string{"b", "c"}},
		{ID: "b", ParentID: "a"},
		{ID: "c", ParentID: "a", ChildIDs: []string{"d"}},
		{ID: "d", ParentID: "c"},
	}

	got := DeriveEdges(nodes)
	want := []common.Edge{
		{Source: "a", Target: "b"},
		{Source: "a", Target: "c"},
		{Source: "c", Target: "d"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DeriveEdges() = %#v, want %#v", got, want)
	}

	if edges := DeriveEdges(nil); len(edges) != 0 {
		t.Errorf("DeriveEdges(nil) = %#v, want empty", edges)
	}
}
