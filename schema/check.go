package schema

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/jsonschema-go/jsonschema"
)

// InstanceError reports a JSON document that does not satisfy a schema.
type InstanceError struct {
	Message string
	Err     error
}

func (e *InstanceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *InstanceError) Unwrap() error { return e.Err }

// resolved caches compiled schemas by their JSON text.
var resolved sync.Map // string -> *jsonschema.Resolved

// Check validates a JSON document against a schema. It returns nil when the
// document conforms, otherwise an *InstanceError.
func Check(schemaJSON json.RawMessage, data []byte) error {
	rs, err := resolve(schemaJSON)
	if err != nil {
		return err
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return &InstanceError{Message: "invalid JSON", Err: err}
	}
	if err := rs.Validate(doc); err != nil {
		return &InstanceError{Message: "document does not match schema", Err: err}
	}
	return nil
}

func resolve(schemaJSON json.RawMessage) (*jsonschema.Resolved, error) {
	key := string(schemaJSON)
	if rs, ok := resolved.Load(key); ok {
		return rs.(*jsonschema.Resolved), nil
	}

	var s jsonschema.Schema
	if err := json.Unmarshal(schemaJSON, &s); err != nil {
		return nil, fmt.Errorf("schema: decode schema: %w", err)
	}
	rs, err := s.Resolve(nil)
	if err != nil {
		return nil, fmt.Errorf("schema: resolve schema: %w", err)
	}
	resolved.Store(key, rs)
	return rs, nil
}
