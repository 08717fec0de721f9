package common

// MindMap is the complete result of one pipeline run. It is the sole
// handoff to the presentation layer: nodes, derived edges, per-node
// explanations, study artifacts, and keywords in one self-contained
// object with no shared state between runs.
type MindMap struct {
	Title        string                  `json:"title"`
	Nodes        []TopicNode             `json:"nodes"`
	Edges        []Edge                  `json:"edges"`
	Explanations map[string]*Explanation `json:"explanations"`
	Artifacts    *StudyArtifacts         `json:"artifacts,omitempty"`
	Keywords     []Keyword               `json:"keywords"`

	// ChunkSummaries preserves the per-chunk summaries the hierarchy was
	// extracted from, so the caller can hand them back to the artifact
	// regeneration entry point without re-running the pipeline.
	ChunkSummaries []string `json:"chunk_summaries,omitempty"`
}

// TopicNode is a single concept in the flattened topic hierarchy.
//
// Nodes form a forest: every non-root node has exactly one parent and
// Depth is always parent depth plus one. ParentID is empty for roots.
// ChildIDs preserves the order the extraction produced, which is the
// order the presentation layer renders in.
//
// The node set is fixed once the graph is built. Explanations live in
// the MindMap's node-keyed map rather than on the node itself, so
// enrichment and artifact regeneration never mutate nodes.
type TopicNode struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Summary   string   `json:"summary"`
	KeyPoints []string `json:"key_points,omitempty"`
	Depth     int      `json:"depth"`
	ParentID  string   `json:"parent_id,omitempty"`
	ChildIDs  []string `json:"child_ids,omitempty"`
}

// Edge is a directed parent→child relation between two topic nodes.
// Edges are derived from the node set, never stored independently.
type Edge struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// Explanation is the three-register explanation attached to one node:
// a layman version, a technical version, and an analogy. A node whose
// enrichment failed has no Explanation (nil in the MindMap map).
type Explanation struct {
	Layman    string `json:"layman"`
	Technical string `json:"technical"`
	Analogy   string `json:"analogy"`
}

// StudyArtifacts bundles the derived study material for one run:
// an overall summary, quick-revision bullet points, flashcards, and
// multiple-choice quiz items. Artifacts are derived from the hierarchy
// and chunk summaries only and can be regenerated without touching
// the graph.
type StudyArtifacts struct {
	Summary    string      `json:"summary"`
	Bullets    []string    `json:"bullets"`
	Flashcards []Flashcard `json:"flashcards"`
	QuizItems  []QuizItem  `json:"quiz_items"`
}

// Flashcard is a question/answer pair. Both sides are non-empty.
type Flashcard struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// QuizItem is a multiple-choice question. Answer is the index into
// Options of the single correct option and is always in range; items
// that come back from the model without a valid index are dropped
// during validation.
type QuizItem struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Answer   int      `json:"answer"`
}

// Keyword is one entry of the frequency-ranked keyword list.
type Keyword struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}
