package schema

import (
	"fmt"
	"reflect"
)

// Type defines the contract for field validation.
type Type interface {
	// Name returns the human-readable name of the type (e.g., "string", "float").
	Name() string
	// Validate checks if a value conforms to this type.
	Validate(value any) error
}

type scalarType struct {
	name  string
	check func(any) bool
}

func (t *scalarType) Name() string { return t.name }

func (t *scalarType) Validate(value any) error {
	if !t.check(value) {
		return fmt.Errorf("expected %s, got %T", t.name, value)
	}
	return nil
}

type sliceType struct {
	elem Type
}

func (t *sliceType) Name() string { return "[" + t.elem.Name() + "]" }

func (t *sliceType) Validate(value any) error {
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return fmt.Errorf("expected slice, got %T", value)
	}
	for i := 0; i < rv.Len(); i++ {
		if err := t.elem.Validate(rv.Index(i).Interface()); err != nil {
			return fmt.Errorf("element %d: %w", i, err)
		}
	}
	return nil
}

type customType struct {
	name     string
	validate func(any) error
}

func (t *customType) Name() string { return t.name }

func (t *customType) Validate(value any) error { return t.validate(value) }

// String creates a string type validator.
func String() Type {
	return &scalarType{name: "string", check: func(v any) bool {
		_, ok := v.(string)
		return ok
	}}
}

// Float creates a numeric type validator. Integers are accepted.
func Float() Type {
	return &scalarType{name: "float", check: func(v any) bool {
		switch v.(type) {
		case float32, float64, int, int8, int16, int32, int64:
			return true
		}
		return false
	}}
}

// Bool creates a boolean type validator.
func Bool() Type {
	return &scalarType{name: "bool", check: func(v any) bool {
		_, ok := v.(bool)
		return ok
	}}
}

// Slice creates a slice type validator for elements of the given type.
func Slice(elem Type) Type {
	return &sliceType{elem: elem}
}

// Custom creates a custom type validator with a user-defined function.
func Custom(name string, validate func(any) error) Type {
	return &customType{name: name, validate: validate}
}
