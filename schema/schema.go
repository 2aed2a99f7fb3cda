package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
)

// Builder is the interface implemented by all schema builders.
type Builder interface {
	// Build serializes the schema, failing if it is internally inconsistent.
	Build() (json.RawMessage, error)

	// MustBuild is like Build but panics on error.
	MustBuild() json.RawMessage

	schema() *schemaNode
}

// schemaNode is the internal representation of a JSON Schema.
type schemaNode struct {
	Type        string `json:"type,omitempty"`
	Nullable    bool   `json:"-"`
	Description string `json:"description,omitempty"`
	Enum        []any  `json:"enum,omitempty"`

	MinLength *int   `json:"minLength,omitempty"`
	MaxLength *int   `json:"maxLength,omitempty"`
	Pattern   string `json:"pattern,omitempty"`

	Minimum *float64 `json:"minimum,omitempty"`
	Maximum *float64 `json:"maximum,omitempty"`

	Items    *schemaNode `json:"items,omitempty"`
	MinItems *int        `json:"minItems,omitempty"`
	MaxItems *int        `json:"maxItems,omitempty"`

	Properties           map[string]*schemaNode `json:"properties,omitempty"`
	Required             []string               `json:"required,omitempty"`
	AdditionalProperties *bool                  `json:"additionalProperties,omitempty"`
}

// MarshalJSON writes a nullable node's type as [type, "null"].
func (s *schemaNode) MarshalJSON() ([]byte, error) {
	type plain schemaNode
	if !s.Nullable {
		return json.Marshal((*plain)(s))
	}
	return json.Marshal(struct {
		Type []string `json:"type"`
		*plain
	}{Type: []string{s.Type, "null"}, plain: (*plain)(s)})
}

// Sentinel errors for schema construction.
var (
	// ErrInvalidRange is returned when a minimum exceeds its maximum.
	ErrInvalidRange = errors.New("schema: minimum exceeds maximum")

	// ErrInvalidPattern is returned when a regex pattern does not compile.
	ErrInvalidPattern = errors.New("schema: invalid regex pattern")

	// ErrNilItems is returned when an array has no items schema.
	ErrNilItems = errors.New("schema: array requires items schema")
)

// ValidationError represents an inconsistent schema definition.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("schema: field %q: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("schema: %s", e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func (s *schemaNode) validate() error {
	switch s.Type {
	case "string":
		if s.MinLength != nil && s.MaxLength != nil && *s.MinLength > *s.MaxLength {
			return &ValidationError{Message: "minLength exceeds maxLength", Err: ErrInvalidRange}
		}
		if s.Pattern != "" {
			if _, err := regexp.Compile(s.Pattern); err != nil {
				return &ValidationError{
					Message: fmt.Sprintf("invalid pattern %q: %v", s.Pattern, err),
					Err:     ErrInvalidPattern,
				}
			}
		}

	case "integer":
		if s.Minimum != nil && s.Maximum != nil && *s.Minimum > *s.Maximum {
			return &ValidationError{Message: "minimum exceeds maximum", Err: ErrInvalidRange}
		}

	case "array":
		if s.Items == nil {
			return &ValidationError{Message: "array requires items schema", Err: ErrNilItems}
		}
		if s.MinItems != nil && s.MaxItems != nil && *s.MinItems > *s.MaxItems {
			return &ValidationError{Message: "minItems exceeds maxItems", Err: ErrInvalidRange}
		}
		if err := s.Items.validate(); err != nil {
			return &ValidationError{Message: fmt.Sprintf("invalid items schema: %v", err), Err: err}
		}

	case "object":
		for name, prop := range s.Properties {
			if err := prop.validate(); err != nil {
				return &ValidationError{Field: name, Message: err.Error(), Err: err}
			}
		}
	}
	return nil
}

// base carries the serialization shared by every builder.
type base struct {
	node *schemaNode
}

// Build serializes the schema to json.RawMessage.
func (b base) Build() (json.RawMessage, error) {
	if err := b.node.validate(); err != nil {
		return nil, err
	}
	return json.Marshal(b.node)
}

// MustBuild is like Build but panics on error.
func (b base) MustBuild() json.RawMessage {
	data, err := b.Build()
	if err != nil {
		panic(err)
	}
	return data
}

func (b base) schema() *schemaNode {
	return b.node
}

// Required marks this field as required when used in an object.
func (b base) Required() *RequiredField {
	return &RequiredField{builder: b}
}

// RequiredField wraps a Builder to mark it as required in an object.
type RequiredField struct {
	builder Builder
}

func ptr[T any](v T) *T {
	return &v
}
