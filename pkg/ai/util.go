package ai

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/kaptinlin/jsonrepair"
)

// GenerateSchema creates a JSON Schema from the given Go type.
// It uses reflection to inspect the type structure and generates
// a schema suitable for use with AI structured output.
func GenerateSchema(value any) any {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}

	t := reflect.TypeOf(value)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	v := reflect.New(t).Interface()
	return reflector.Reflect(v)
}

func stripDuplicateLeadingBrace(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "{") {
		rest := strings.TrimSpace(s[1:])
		if strings.HasPrefix(rest, "{") {
			return rest
		}
	}
	return s
}

// MalformedResponseError reports model output that survived none of the
// unmarshal strategies. Raw preserves the offending response text so
// callers can feed it into a corrective re-prompt or surface it in
// diagnostics.
type MalformedResponseError struct {
	Raw string
	Err error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("%v (response: %s)", e.Err, e.Raw)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}

// UnmarshalFlexible attempts to unmarshal model output into the target with
// multiple fallback strategies: standard JSON first, then double-encoded
// JSON strings, then jsonrepair for malformed output. Structure is imposed
// here, never assumed: an input that survives none of the strategies fails
// with a MalformedResponseError carrying the offending text.
func UnmarshalFlexible(input string, out any) error {
	input = strings.TrimSpace(input)

	if err := json.Unmarshal([]byte(input), out); err == nil {
		return nil
	}

	var asString string
	if err := json.Unmarshal([]byte(input), &asString); err == nil {
		asString = strings.TrimSpace(asString)
		if err := json.Unmarshal([]byte(asString), out); err == nil {
			return nil
		}
		input = asString
	}

	input = stripDuplicateLeadingBrace(input)
	repaired, err := jsonrepair.JSONRepair(input)
	if err != nil {
		return &MalformedResponseError{
			Raw: input,
			Err: fmt.Errorf("json repair failed: %w", err),
		}
	}

	if err := json.Unmarshal([]byte(repaired), out); err == nil {
		return nil
	}

	return &MalformedResponseError{
		Raw: input,
		Err: fmt.Errorf("unmarshal failed after repair (repaired: %s)", repaired),
	}
}
