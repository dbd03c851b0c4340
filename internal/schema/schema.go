// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package schema derives a JSON Schema, a YAML example and a Markdown field table
// from the yaml and docdesc struct tags of the engine configuration document.
package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"slices"
	"strings"

	"github.com/goccy/go-yaml"
)

// ErrNotAStruct is returned when the definition is not a struct or a pointer to one.
var ErrNotAStruct = errors.New("expected struct type")

const draft = "https://json-schema.org/draft/2020-12/schema"

// Property is a JSON Schema property.
type Property struct {
	Type                 string               `json:"type"`
	Description          string               `json:"description,omitempty"`
	Items                *Property            `json:"items,omitempty"`
	Properties           map[string]*Property `json:"properties,omitempty"`
	Required             []string             `json:"required,omitempty"`
	AdditionalProperties *bool                `json:"additionalProperties,omitempty"`
}

// JSONSchema is a root JSON Schema document.
type JSONSchema struct {
	Schema string `json:"$schema"`
	Title  string `json:"title,omitempty"`
	Property
}

// Field is a flattened view of one struct field, used for the Markdown table.
type Field struct {
	Name        string
	Type        string
	Description string
	Required    bool
}

// Generator builds schemas from struct definitions.
type Generator struct{}

// NewGenerator creates a new Generator.
func NewGenerator() *Generator {
	return &Generator{}
}

// Generate returns the JSON Schema of def, which must be a struct or a pointer to one.
func (g *Generator) Generate(title, description string, def any) (*JSONSchema, error) {
	prop, err := g.objectProperty(reflect.TypeOf(def))
	if err != nil {
		return nil, err
	}

	prop.Description = description

	return &JSONSchema{
		Schema:   draft,
		Title:    title,
		Property: *prop,
	}, nil
}

// Fields returns the top level fields of def: name first, commands last, the rest in declaration order.
func (g *Generator) Fields(def any) ([]Field, error) {
	t, err := structType(reflect.TypeOf(def))
	if err != nil {
		return nil, err
	}

	var fields []Field

	for sf := range fieldsOf(t) {
		name, required, ok := yamlName(sf)
		if !ok {
			continue
		}

		fields = append(fields, Field{
			Name:        name,
			Type:        schemaType(sf.Type),
			Description: sf.Tag.Get("docdesc"),
			Required:    required,
		})
	}

	slices.SortStableFunc(fields, func(a, b Field) int {
		return fieldRank(a.Name) - fieldRank(b.Name)
	})

	return fields, nil
}

// WriteJSONSchema writes the indented JSON Schema of def to w.
func (g *Generator) WriteJSONSchema(w io.Writer, title, description string, def any) error {
	s, err := g.Generate(title, description, def)
	if err != nil {
		return err
	}

	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON schema: %w", err)
	}

	_, err = fmt.Fprintln(w, string(b))

	return err
}

// WriteYAMLExample writes example as YAML, preceded by a comment per top level field.
func (g *Generator) WriteYAMLExample(w io.Writer, example any) error {
	fields, err := g.Fields(example)
	if err != nil {
		return err
	}

	b, err := yaml.Marshal(example)
	if err != nil {
		return fmt.Errorf("failed to marshal YAML example: %w", err)
	}

	var sb strings.Builder

	for _, f := range fields {
		req := "optional"
		if f.Required {
			req = "required"
		}

		fmt.Fprintf(&sb, "# %s (%s, %s): %s\n", f.Name, f.Type, req, f.Description)
	}

	sb.Write(b)

	_, err = io.WriteString(w, sb.String())

	return err
}

// WriteMarkdownDoc writes a Markdown table of the fields of def.
func (g *Generator) WriteMarkdownDoc(w io.Writer, title string, def any) error {
	fields, err := g.Fields(def)
	if err != nil {
		return err
	}

	var sb strings.Builder

	fmt.Fprintf(&sb, "# %s\n\n", title)
	sb.WriteString("| Field | Type | Required | Description |\n")
	sb.WriteString("|-------|------|----------|-------------|\n")

	for _, f := range fields {
		required := "No"
		if f.Required {
			required = "Yes"
		}

		fmt.Fprintf(&sb, "| `%s` | %s | %s | %s |\n", f.Name, f.Type, required, f.Description)
	}

	_, err = io.WriteString(w, sb.String())

	return err
}

func (g *Generator) objectProperty(t reflect.Type) (*Property, error) {
	t, err := structType(t)
	if err != nil {
		return nil, err
	}

	closed := false
	prop := &Property{
		Type:                 "object",
		Properties:           make(map[string]*Property),
		AdditionalProperties: &closed,
	}

	for sf := range fieldsOf(t) {
		name, required, ok := yamlName(sf)
		if !ok {
			continue
		}

		child, err := g.property(sf.Type)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", sf.Name, err)
		}

		child.Description = sf.Tag.Get("docdesc")
		prop.Properties[name] = child

		if required {
			prop.Required = append(prop.Required, name)
		}
	}

	slices.SortFunc(prop.Required, func(a, b string) int {
		if d := fieldRank(a) - fieldRank(b); d != 0 {
			return d
		}

		return strings.Compare(a, b)
	})

	return prop, nil
}

func (g *Generator) property(t reflect.Type) (*Property, error) {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	switch t.Kind() {
	case reflect.Struct:
		return g.objectProperty(t)
	case reflect.Slice, reflect.Array:
		items, err := g.property(t.Elem())
		if err != nil {
			return nil, err
		}

		return &Property{Type: "array", Items: items}, nil
	default:
		return &Property{Type: schemaType(t)}, nil
	}
}

func structType(t reflect.Type) (reflect.Type, error) {
	if t == nil {
		return nil, fmt.Errorf("%w, got nil", ErrNotAStruct)
	}

	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w, got %s", ErrNotAStruct, t.Kind())
	}

	return t, nil
}

// fieldsOf yields the exported fields of t, flattening embedded structs.
func fieldsOf(t reflect.Type) func(yield func(reflect.StructField) bool) {
	return func(yield func(reflect.StructField) bool) {
		for i := range t.NumField() {
			sf := t.Field(i)
			if !sf.IsExported() {
				continue
			}

			if sf.Anonymous && sf.Type.Kind() == reflect.Struct {
				for inner := range fieldsOf(sf.Type) {
					if !yield(inner) {
						return
					}
				}

				continue
			}

			if !yield(sf) {
				return
			}
		}
	}
}

// yamlName returns the document key of a field and whether it is required.
// Fields tagged yaml:"-" are skipped.
func yamlName(sf reflect.StructField) (string, bool, bool) {
	tag := sf.Tag.Get("yaml")
	if tag == "-" {
		return "", false, false
	}

	name, opts, _ := strings.Cut(tag, ",")
	if name == "" {
		name = strings.ToLower(sf.Name)
	}

	return name, !strings.Contains(opts, "omitempty"), true
}

func schemaType(t reflect.Type) string {
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Bool:
		return "boolean"
	case reflect.Slice, reflect.Array:
		return "array"
	case reflect.Map, reflect.Struct:
		return "object"
	case reflect.Ptr:
		return schemaType(t.Elem())
	default:
		return "string"
	}
}

func fieldRank(name string) int {
	switch name {
	case "name":
		return 0
	case "commands":
		return 2
	default:
		return 1
	}
}
