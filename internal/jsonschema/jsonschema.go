package jsonschema

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// JSON Schema type names emitted by the generator.
const (
	TypeObject  = "object"
	TypeArray   = "array"
	TypeString  = "string"
	TypeInteger = "integer"
	TypeNumber  = "number"
	TypeBoolean = "boolean"
)

// Schema is the subset of JSON Schema used to describe structured LLM output.
// It is sent to the provider as the response_format schema and reused by the
// response parser to check required fields and property types.
type Schema struct {
	Type        string   `json:"type,omitempty"`
	Description string   `json:"description,omitempty"`
	Required    []string `json:"required,omitempty"`
	// Properties of an object, keyed by JSON field name
	Properties map[string]*Schema `json:"properties,omitempty"`
	// Items is the element schema of an array
	Items *Schema `json:"items,omitempty"`
	// AdditionalProperties is the value schema of a map, or false for structs
	AdditionalProperties any   `json:"additionalProperties,omitempty"`
	Enum                 []any `json:"enum,omitempty"`
	// Ref points into Defs for recursive types
	Ref  string             `json:"$ref,omitempty"`
	Defs map[string]*Schema `json:"$defs,omitempty"`
}

// GenerateJSONSchema derives a Schema from the Go type T.
//
// Struct fields are named after their json tag. A field is required when it is
// neither a pointer nor tagged omitempty, or when its jsonschema tag contains
// "required". The jsonschema tag also accepts description=... and enum=...
// entries, comma separated.
func GenerateJSONSchema[T any]() (*Schema, error) {
	g := &generator{
		inProgress: make(map[reflect.Type]bool),
		recursive:  make(map[reflect.Type]bool),
		defs:       make(map[string]*Schema),
	}

	schema, err := g.generate(reflect.TypeFor[T](), true)
	if err != nil {
		return nil, err
	}

	if len(g.defs) > 0 {
		schema.Defs = g.defs
	}
	return schema, nil
}

type generator struct {
	inProgress map[reflect.Type]bool
	recursive  map[reflect.Type]bool
	defs       map[string]*Schema
}

func (g *generator) generate(t reflect.Type, isRoot bool) (*Schema, error) {
	switch t.Kind() {
	case reflect.Ptr:
		return g.generate(t.Elem(), isRoot)
	case reflect.Struct:
		return g.generateStruct(t, isRoot)
	case reflect.Slice, reflect.Array:
		items, err := g.generate(t.Elem(), false)
		if err != nil {
			return nil, err
		}
		return &Schema{Type: TypeArray, Items: items}, nil
	case reflect.Map:
		values, err := g.generate(t.Elem(), false)
		if err != nil {
			return nil, err
		}
		return &Schema{Type: TypeObject, AdditionalProperties: values}, nil
	default:
		return &Schema{Type: primitiveType(t)}, nil
	}
}

func (g *generator) generateStruct(t reflect.Type, isRoot bool) (*Schema, error) {
	name := defName(t)
	if g.inProgress[t] {
		g.recursive[t] = true
		return &Schema{Ref: "#/$defs/" + name}, nil
	}
	g.inProgress[t] = true
	defer delete(g.inProgress, t)

	schema := &Schema{Type: TypeObject, Properties: map[string]*Schema{}, AdditionalProperties: false}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		fieldName, omitEmpty, skip := jsonFieldName(field)
		if skip {
			continue
		}

		fieldSchema, err := g.generate(field.Type, false)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", fieldName, err)
		}

		requiredByTag := false
		if fieldSchema.Ref == "" {
			requiredByTag, err = applyTag(field, fieldSchema)
			if err != nil {
				return nil, fmt.Errorf("field %s: %w", fieldName, err)
			}
		}

		schema.Properties[fieldName] = fieldSchema
		if (field.Type.Kind() != reflect.Ptr && !omitEmpty) || requiredByTag {
			schema.Required = append(schema.Required, fieldName)
		}
	}

	if !g.recursive[t] {
		return schema, nil
	}

	g.defs[name] = &Schema{
		Type:                 schema.Type,
		Required:             schema.Required,
		Properties:           schema.Properties,
		AdditionalProperties: schema.AdditionalProperties,
	}
	if isRoot {
		return schema, nil
	}
	return &Schema{Ref: "#/$defs/" + name}, nil
}

// jsonFieldName resolves the wire name of a struct field from its json tag.
func jsonFieldName(field reflect.StructField) (name string, omitEmpty bool, skip bool) {
	tag := field.Tag.Get("json")
	if tag == "-" {
		return "", false, true
	}

	name = field.Name
	if tag == "" {
		return name, false, false
	}

	parts := strings.Split(tag, ",")
	if parts[0] != "" {
		name = parts[0]
	}
	for _, opt := range parts[1:] {
		if opt == "omitempty" || opt == "omitzero" {
			omitEmpty = true
		}
	}
	return name, omitEmpty, false
}

// applyTag copies jsonschema tag settings onto schema and reports whether the
// tag marks the field as required.
// Descriptions cannot contain commas.
func applyTag(field reflect.StructField, schema *Schema) (bool, error) {
	tag := field.Tag.Get("jsonschema")
	if tag == "" {
		return false, nil
	}

	required := false
	for _, item := range strings.Split(tag, ",") {
		key, value, hasValue := strings.Cut(strings.TrimSpace(item), "=")
		switch {
		case !hasValue && key == "required":
			required = true
		case hasValue && key == "description":
			schema.Description = value
		case hasValue && key == "enum":
			v, err := enumValue(field.Type, value)
			if err != nil {
				return false, err
			}
			schema.Enum = append(schema.Enum, v)
		}
	}
	return required, nil
}

// enumValue converts an enum tag entry to the Go kind of the field.
func enumValue(t reflect.Type, value string) (any, error) {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	switch t.Kind() {
	case reflect.String:
		return value, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		v, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("enum value %q is not an integer: %w", value, err)
		}
		return v, nil
	case reflect.Float32, reflect.Float64:
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("enum value %q is not a number: %w", value, err)
		}
		return v, nil
	case reflect.Bool:
		v, err := strconv.ParseBool(value)
		if err != nil {
			return nil, fmt.Errorf("enum value %q is not a boolean: %w", value, err)
		}
		return v, nil
	default:
		return nil, fmt.Errorf("enum tag unsupported for field type %v", t)
	}
}

func primitiveType(t reflect.Type) string {
	switch t.Kind() {
	case reflect.String:
		return TypeString
	case reflect.Bool:
		return TypeBoolean
	case reflect.Float32, reflect.Float64:
		return TypeNumber
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return TypeInteger
	default:
		return TypeObject
	}
}

func defName(t reflect.Type) string {
	if t.Name() != "" {
		return strings.ToLower(t.Name())
	}
	return "anonymousStruct"
}

// IsRequired reports whether name is listed in the schema's required set.
func (s *Schema) IsRequired(name string) bool {
	for _, r := range s.Required {
		if r == name {
			return true
		}
	}
	return false
}

// StrictCompatible reports whether the schema can be sent with strict
// structured outputs: every object lists all of its properties as required
// and forbids additional ones. Maps and optional fields rule it out.
func (s *Schema) StrictCompatible() bool {
	if s == nil {
		return false
	}
	for _, def := range s.Defs {
		if !def.strictCompatible() {
			return false
		}
	}
	return s.strictCompatible()
}

func (s *Schema) strictCompatible() bool {
	if s.Ref != "" {
		return true
	}
	switch s.Type {
	case TypeObject:
		if closed, ok := s.AdditionalProperties.(bool); !ok || closed {
			return false
		}
		for name, prop := range s.Properties {
			if !s.IsRequired(name) || !prop.strictCompatible() {
				return false
			}
		}
	case TypeArray:
		if s.Items != nil {
			return s.Items.strictCompatible()
		}
	}
	return true
}

// JsonString returns the JSON encoding of the schema, indented when indent is true.
func (s *Schema) JsonString(indent ...bool) (string, error) {
	var (
		b   []byte
		err error
	)
	if len(indent) > 0 && indent[0] {
		b, err = json.MarshalIndent(s, "", "  ")
	} else {
		b, err = json.Marshal(s)
	}
	if err != nil {
		return "", fmt.Errorf("failed to marshal schema to JSON: %w", err)
	}
	return string(b), nil
}

// String returns the compact JSON encoding of the schema.
func (s *Schema) String() string {
	str, err := s.JsonString()
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return str
}
