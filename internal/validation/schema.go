// Package validation checks decoded JSON documents against JSON schemas.
package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

var (
	ErrSchemaInvalid    = errors.New("validation: schema invalid")
	ErrSchemaValidation = errors.New("validation: instance rejected")
)

// Violation is a single failed keyword located by JSON pointer into the
// instance. The root is "".
type Violation struct {
	Pointer string
	Reason  string
}

func (v Violation) String() string {
	if v.Pointer == "" {
		return v.Reason
	}
	return v.Pointer + ": " + v.Reason
}

// Error lists every leaf violation of one instance in schema order.
type Error struct {
	Schema     string
	Violations []Violation
}

func (e *Error) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.String())
	}
	if len(parts) == 0 {
		return e.Schema + ": instance rejected"
	}
	return strings.Join(parts, "; ")
}

func (e *Error) Is(target error) bool { return target == ErrSchemaValidation }

// Violations returns the located failures carried by err, if any.
func Violations(err error) []Violation {
	var typed *Error
	if errors.As(err, &typed) {
		return typed.Violations
	}
	return nil
}

// Schema is a compiled draft 2020-12 schema, safe for concurrent use.
type Schema struct {
	name     string
	compiled *jsonschema.Schema
}

func Compile(name, document string) (*Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(name, strings.NewReader(document)); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSchemaInvalid, name, err)
	}
	compiled, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSchemaInvalid, name, err)
	}
	return &Schema{name: name, compiled: compiled}, nil
}

// MustCompile panics on a broken schema. Use it for package level schemas.
func MustCompile(name, document string) *Schema {
	s, err := Compile(name, document)
	if err != nil {
		panic(err)
	}
	return s
}

// Validate checks an instance made of maps, slices, strings, bools, nil and
// float64 values.
func (s *Schema) Validate(instance any) error {
	err := s.compiled.Validate(instance)
	if err == nil {
		return nil
	}
	var failed *jsonschema.ValidationError
	if !errors.As(err, &failed) {
		return err
	}
	return &Error{Schema: s.name, Violations: leaves(failed, nil)}
}

// ValidateJSON decodes raw and validates the result. Decoding failures are
// returned as they are.
func (s *Schema) ValidateJSON(raw []byte) error {
	var instance any
	if err := json.Unmarshal(raw, &instance); err != nil {
		return err
	}
	return s.Validate(instance)
}

func leaves(node *jsonschema.ValidationError, out []Violation) []Violation {
	if len(node.Causes) == 0 {
		return append(out, Violation{
			Pointer: strings.TrimPrefix(strings.TrimSpace(node.InstanceLocation), "#"),
			Reason:  strings.TrimSpace(node.Message),
		})
	}
	for _, cause := range node.Causes {
		out = leaves(cause, out)
	}
	return out
}
