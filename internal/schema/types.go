// Package schema holds the per-component index schemas and maps tagged
// records onto them.
package schema

import (
	"errors"

	"speclogic/internal/models"
)

var (
	ErrUnknownSchema        = errors.New("no schema for component type")
	ErrMissingRequiredField = errors.New("missing required field")
	ErrCoercion             = errors.New("type coercion failed")
)

// FieldType is the declared type of a schema field.
type FieldType int

const (
	TypeString FieldType = iota + 1
	TypeInt
	TypeFloat
	TypeBool
	TypeList
)

func (t FieldType) String() string {
	switch t {
	case TypeString:
		return "str"
	case TypeInt:
		return "int"
	case TypeFloat:
		return "float"
	case TypeBool:
		return "bool"
	case TypeList:
		return "list"
	}

	return "unknown"
}

// Field declares one schema entry. A nil Default means the field has none.
type Field struct {
	Name     string
	Type     FieldType
	Required bool
	Default  any
}

// HasDefault reports whether the field declares a default value.
func (f Field) HasDefault() bool {
	return f.Default != nil
}

// Schema is the ordered field list of one component type.
type Schema struct {
	ComponentType models.ComponentType
	Fields        []Field
}

// Field returns the declaration of name.
func (s Schema) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}

	return Field{}, false
}

// RequiredFields lists required field names in schema order.
func (s Schema) RequiredFields() []string {
	var out []string

	for _, f := range s.Fields {
		if f.Required {
			out = append(out, f.Name)
		}
	}

	return out
}
