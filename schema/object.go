package schema

import "fmt"

// Object creates a new object schema builder.
func Object() *ObjectBuilder {
	return &ObjectBuilder{base{&schemaNode{
		Type:       "object",
		Properties: make(map[string]*schemaNode),
	}}}
}

// ObjectBuilder constructs object type schemas.
type ObjectBuilder struct{ base }

// Desc sets the description for the object itself.
func (b *ObjectBuilder) Desc(description string) *ObjectBuilder {
	b.node.Description = description
	return b
}

// Field adds a field with its schema.
// The field argument can be a Builder or a *RequiredField.
func (b *ObjectBuilder) Field(name string, field any) *ObjectBuilder {
	switch f := field.(type) {
	case *RequiredField:
		b.node.Properties[name] = f.builder.schema()
		b.addRequired(name)
	case Builder:
		b.node.Properties[name] = f.schema()
	default:
		panic(fmt.Sprintf("schema: Field %q requires a Builder or *RequiredField, got %T", name, field))
	}
	return b
}

func (b *ObjectBuilder) addRequired(name string) {
	for _, r := range b.node.Required {
		if r == name {
			return
		}
	}
	b.node.Required = append(b.node.Required, name)
}

// StrictMode forbids properties not declared with Field.
func (b *ObjectBuilder) StrictMode() *ObjectBuilder {
	b.node.AdditionalProperties = ptr(false)
	return b
}
