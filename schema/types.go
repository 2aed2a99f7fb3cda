package schema

// String creates a new string schema builder.
func String() *StringBuilder {
	return &StringBuilder{base{&schemaNode{Type: "string"}}}
}

// StringBuilder constructs string type schemas.
type StringBuilder struct{ base }

// Desc sets the description for this field.
func (b *StringBuilder) Desc(description string) *StringBuilder {
	b.node.Description = description
	return b
}

// Enum restricts the value to one of the provided options.
func (b *StringBuilder) Enum(values ...string) *StringBuilder {
	b.node.Enum = make([]any, len(values))
	for i, v := range values {
		b.node.Enum[i] = v
	}
	return b
}

// MinLength sets the minimum string length in characters.
func (b *StringBuilder) MinLength(n int) *StringBuilder {
	b.node.MinLength = ptr(n)
	return b
}

// MaxLength sets the maximum string length in characters.
func (b *StringBuilder) MaxLength(n int) *StringBuilder {
	b.node.MaxLength = ptr(n)
	return b
}

// Nullable also accepts null in place of a string.
func (b *StringBuilder) Nullable() *StringBuilder {
	b.node.Nullable = true
	return b
}

// Pattern sets a regex pattern the string must match.
func (b *StringBuilder) Pattern(regex string) *StringBuilder {
	b.node.Pattern = regex
	return b
}

// Int creates a new integer schema builder.
func Int() *IntBuilder {
	return &IntBuilder{base{&schemaNode{Type: "integer"}}}
}

// IntBuilder constructs integer type schemas.
type IntBuilder struct{ base }

// Desc sets the description.
func (b *IntBuilder) Desc(description string) *IntBuilder {
	b.node.Description = description
	return b
}

// Min sets the minimum value (inclusive).
func (b *IntBuilder) Min(n int) *IntBuilder {
	b.node.Minimum = ptr(float64(n))
	return b
}

// Max sets the maximum value (inclusive).
func (b *IntBuilder) Max(n int) *IntBuilder {
	b.node.Maximum = ptr(float64(n))
	return b
}

// Bool creates a new boolean schema builder.
func Bool() *BoolBuilder {
	return &BoolBuilder{base{&schemaNode{Type: "boolean"}}}
}

// BoolBuilder constructs boolean type schemas.
type BoolBuilder struct{ base }

// Desc sets the description.
func (b *BoolBuilder) Desc(description string) *BoolBuilder {
	b.node.Description = description
	return b
}

// Array creates a new array schema builder with the specified item type.
func Array(items Builder) *ArrayBuilder {
	return &ArrayBuilder{base{&schemaNode{Type: "array", Items: items.schema()}}}
}

// ArrayBuilder constructs array type schemas.
type ArrayBuilder struct{ base }

// Desc sets the description.
func (b *ArrayBuilder) Desc(description string) *ArrayBuilder {
	b.node.Description = description
	return b
}

// MinItems sets the minimum number of items.
func (b *ArrayBuilder) MinItems(n int) *ArrayBuilder {
	b.node.MinItems = ptr(n)
	return b
}

// MaxItems sets the maximum number of items.
func (b *ArrayBuilder) MaxItems(n int) *ArrayBuilder {
	b.node.MaxItems = ptr(n)
	return b
}
