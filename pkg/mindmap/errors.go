package mindmap

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/OFFIS-RIT/studymap/backend/pkg/ai"
)

// ErrEmptyInput is returned when the pipeline is invoked with empty or
// whitespace-only input text. It is reported to the caller without retry.
var ErrEmptyInput = errors.New("input text is empty")

// HierarchyExtractionError is returned when the external model could not
// produce a parsable topic hierarchy within the configured number of
// attempts. It is fatal for the document: nothing downstream runs.
type HierarchyExtractionError struct {
	Attempts    int
	RawResponse string
	Err         error
}

func (e *HierarchyExtractionError) Error() string {
	return fmt.Sprintf("hierarchy extraction failed after %d attempts: %v", e.Attempts, e.Err)
}

func (e *HierarchyExtractionError) Unwrap() error {
	return e.Err
}

// GraphStructureError is returned when a parsed hierarchy violates the
// tree invariants (a topic appearing twice, or listed as its own
// descendant). This signals a contract violation by the extraction step,
// not a user error.
type GraphStructureError struct {
	Title  string
	Path   []string
	Reason string
}

func (e *GraphStructureError) Error() string {
	return fmt.Sprintf(
		"invalid hierarchy structure: %s (topic %q, path %s)",
		e.Reason, e.Title, strings.Join(e.Path, " > "),
	)
}

// ArtifactGenerationError is returned when the study-artifact response
// stayed malformed through all attempts. It is fatal only for artifact
// generation: an already-built graph stays valid and the caller may retry
// RegenerateArtifacts independently.
type ArtifactGenerationError struct {
	Attempts    int
	RawResponse string
	Err         error
}

func (e *ArtifactGenerationError) Error() string {
	return fmt.Sprintf("study artifact generation failed after %d attempts: %v", e.Attempts, e.Err)
}

func (e *ArtifactGenerationError) Unwrap() error {
	return e.Err
}

// rawResponse extracts the offending model output from an unmarshal
// failure. Transport errors carry no response text and yield "".
func rawResponse(err error) string {
	var malformed *ai.MalformedResponseError
	if errors.As(err, &malformed) {
		return malformed.Raw
	}
	return ""
}

// marshalForDiagnostics re-encodes a response that parsed but failed
// validation, so the rejected content is available for re-prompting and
// error reporting.
func marshalForDiagnostics(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

// faultyOutput picks the text to show the model in a corrective
// re-prompt: the raw offending response when one exists, otherwise the
// error message.
func faultyOutput(raw string, err error) string {
	if raw != "" {
		return raw
	}
	if err != nil {
		return err.Error()
	}
	return ""
}
