package mindmap

import (
	"github.com/OFFIS-RIT/studymap/backend/pkg/common"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	maxTitleLen   = 140
	maxSummaryLen = 400
	maxKeyPoints  = 6
)

// BuildGraph flattens a validated hierarchy into the TopicNode set.
// Each node is minted a fresh unique ID as it is visited depth-first,
// with depth equal to recursion depth and children kept in source order.
// Multiple roots are permitted (a forest).
//
// Identity is structural position, not title: the same title may appear
// at different positions. A node value reachable twice (shared subtree or
// a node listed as its own descendant) violates the tree invariant and
// fails with GraphStructureError.
func BuildGraph(roots []*HierarchyNode) ([]common.TopicNode, error) {
	var nodes []common.TopicNode
	onPath := make(map[*HierarchyNode]bool)
	seen := make(map[*HierarchyNode]bool)

	var walk func(node *HierarchyNode, parentID string, depth int, path []string) (string, error)
	walk = func(node *HierarchyNode, parentID string, depth int, path []string) (string, error) {
		if onPath[node] {
			return "", &GraphStructureError{
				Title:  node.Title,
				Path:   append(path, node.Title),
				Reason: "topic is listed as its own descendant",
			}
		}
		if seen[node] {
			return "", &GraphStructureError{
				Title:  node.Title,
				Path:   append(path, node.Title),
				Reason: "topic appears at two positions in the hierarchy",
			}
		}
		onPath[node] = true
		seen[node] = true
		defer delete(onPath, node)

		id, err := gonanoid.New()
		if err != nil {
			return "", err
		}

		keyPoints := node.KeyPoints
		if len(keyPoints) > maxKeyPoints {
			keyPoints = keyPoints[:maxKeyPoints]
		}

		nodes = append(nodes, common.TopicNode{
			ID:        id,
			Title:     truncate(node.Title, maxTitleLen),
			Summary:   truncate(node.Summary, maxSummaryLen),
			KeyPoints: keyPoints,
			Depth:     depth,
			ParentID:  parentID,
		})
		idx := len(nodes) - 1

		childPath := append(path, node.Title)
		for _, sub := range node.Subtopics {
			if sub == nil {
				continue
			}
			childID, err := walk(sub, id, depth+1, childPath)
			if err != nil {
				return "", err
			}
			nodes[idx].ChildIDs = append(nodes[idx].ChildIDs, childID)
		}

		return id, nil
	}

	for _, root := range roots {
		if root == nil {
			continue
		}
		if _, err := walk(root, "", 0, nil); err != nil {
			return nil, err
		}
	}

	return nodes, nil
}

// DeriveEdges recomputes the parent→child edge list from the node set.
// Edges are never stored independently: they exist iff the corresponding
// relation holds in the nodes.
func DeriveEdges(nodes []common.TopicNode) []common.Edge {
	edges := make([]common.Edge, 0)
	for _, node := range nodes {
		for _, childID := range node.ChildIDs {
			edges = append(edges, common.Edge{
				Source: node.ID,
				Target: childID,
			})
		}
	}
	return edges
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
