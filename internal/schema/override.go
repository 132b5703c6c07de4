package schema

import (
	_ "embed"
	"encoding/json"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/override.schema.json
var overrideSchemaJSON string

// overrideSchema rejects override documents that are not JSON objects or
// that carry non-string @context/@type.
var overrideSchema = jsonschema.MustCompileString("override.schema.json", overrideSchemaJSON)

// parseOverride decodes a per-item custom JSON override. Malformed JSON,
// non-object documents and schema violations all report not-ok; the caller
// falls back to the generated object with no error surfaced.
func parseOverride(raw string) (map[string]any, bool) {
	if strings.TrimSpace(raw) == "" {
		return nil, false
	}
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil, false
	}
	if err := overrideSchema.Validate(v); err != nil {
		return nil, false
	}
	m, ok := v.(map[string]any)
	if !ok || len(m) == 0 {
		return nil, false
	}
	return m, true
}

// mergeOverride shallow-merges override keys on top of the generated
// object. Override values replace generated ones at the top level only;
// there is no deep merge.
func mergeOverride(generated Object, override map[string]any) Object {
	merged := make(Object, len(generated)+len(override))
	for k, v := range generated {
		merged[k] = v
	}
	for k, v := range override {
		merged[k] = v
	}
	return merged
}
