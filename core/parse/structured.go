package parse

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/kaptinlin/jsonrepair"

	"github.com/leofalp/capitalagent/internal/jsonschema"
)

// Validator is implemented by output types that check their own invariants
// after decoding.
type Validator interface {
	Validate() error
}

// ParseStructured decodes a model reply into T, checking it against schema.
//
// The JSON value is located in content (markdown fences and surrounding prose
// are ignored) and repaired with jsonrepair when malformed. Every required
// property must be present and non-null, and every present property must have
// its declared JSON type and, when given, one of its enum values. The value is
// then decoded into T and, if T implements [Validator], validated.
//
// Schema-shaped replies ({"type": ..., "value": ...} envelopes) are unwrapped
// when the reply fails as is. A nil schema skips the property checks.
// Every failure is a *SchemaValidationError.
func ParseStructured[T any](content string, schema *jsonschema.Schema) (*T, error) {
	texts := extractJSONCandidates(content)
	// repair may still recover truncated or unquoted JSON
	if trimmed := strings.TrimSpace(content); len(texts) == 0 || texts[0] != trimmed {
		texts = append(texts, trimmed)
	}

	var firstErr *SchemaValidationError
	for _, text := range texts {
		data, err := decodeJSON(text)
		if err != nil {
			if firstErr == nil {
				firstErr = newSchemaValidationError("", "reply is not valid JSON", content, err)
			}
			continue
		}

		out, verr := decodeChecked[T](data, schema, content)
		if verr == nil {
			return out, nil
		}

		if unwrapped := recursiveUnwrap(data); !jsonEqual(unwrapped, data) {
			if out, err := decodeChecked[T](unwrapped, schema, content); err == nil {
				return out, nil
			}
		}

		// a well formed JSON value is a better diagnosis than a syntax error
		if firstErr == nil || firstErr.Reason == "reply is not valid JSON" {
			firstErr = verr
		}
	}

	if firstErr == nil {
		firstErr = newSchemaValidationError("", "reply contains no JSON value", content, nil)
	}
	return nil, firstErr
}

// maxRepairLength bounds the replies handed to jsonrepair.
const maxRepairLength = 64 << 10

// decodeJSON parses text into generic values, numbers kept as json.Number.
func decodeJSON(text string) (any, error) {
	data, err := decodeNumbers(text)
	if err == nil || len(text) > maxRepairLength {
		return data, err
	}

	repaired, repairErr := jsonrepair.JSONRepair(text)
	if repairErr != nil {
		return nil, err
	}
	return decodeNumbers(repaired)
}

func decodeNumbers(text string) (any, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	var data any
	if err := dec.Decode(&data); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, errors.New("unexpected data after top-level value")
	}
	return data, nil
}

func decodeChecked[T any](data any, schema *jsonschema.Schema, content string) (*T, *SchemaValidationError) {
	if schema != nil {
		c := checker{root: schema}
		normalized, err := c.check(data, schema, "")
		if err != nil {
			return nil, newSchemaValidationError(err.Field, err.Reason, content, nil)
		}
		data = normalized
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return nil, newSchemaValidationError("", "reply cannot be re-encoded", content, err)
	}

	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		field := ""
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			field = typeErr.Field
		}
		return nil, newSchemaValidationError(field, "reply does not decode into the output type", content, err)
	}

	if v, ok := any(&out).(Validator); ok {
		if err := v.Validate(); err != nil {
			return nil, newSchemaValidationError(validationField(err), "record failed validation", content, err)
		}
	}

	return &out, nil
}

// FieldError can be returned by Validate to name the offending field.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Reason
}

func validationField(err error) string {
	var fe *FieldError
	if errors.As(err, &fe) {
		return fe.Field
	}
	return ""
}

// checker walks generic JSON data alongside a schema.
type checker struct {
	root *jsonschema.Schema
}

// check validates value against s and returns it with integral numbers
// normalised so they decode into Go integer fields.
func (c checker) check(value any, s *jsonschema.Schema, path string) (any, *SchemaValidationError) {
	s, err := c.resolve(s, path)
	if err != nil {
		return nil, err
	}

	switch s.Type {
	case jsonschema.TypeObject:
		obj, ok := value.(map[string]any)
		if !ok {
			return nil, typeMismatch(path, s.Type, value)
		}
		return c.checkObject(obj, s, path)

	case jsonschema.TypeArray:
		arr, ok := value.([]any)
		if !ok {
			return nil, typeMismatch(path, s.Type, value)
		}
		if s.Items == nil {
			return arr, nil
		}
		out := make([]any, len(arr))
		for i, item := range arr {
			if item == nil {
				out[i] = nil
				continue
			}
			v, err := c.check(item, s.Items, fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil

	case jsonschema.TypeString:
		if _, ok := value.(string); !ok {
			return nil, typeMismatch(path, s.Type, value)
		}

	case jsonschema.TypeBoolean:
		if _, ok := value.(bool); !ok {
			return nil, typeMismatch(path, s.Type, value)
		}

	case jsonschema.TypeNumber:
		if _, ok := value.(json.Number); !ok {
			return nil, typeMismatch(path, s.Type, value)
		}

	case jsonschema.TypeInteger:
		n, ok := value.(json.Number)
		if !ok {
			return nil, typeMismatch(path, s.Type, value)
		}
		i, ok := integral(n)
		if !ok {
			return nil, &SchemaValidationError{Field: path, Reason: fmt.Sprintf("expected integer, got %s", n)}
		}
		value = i
	}

	if len(s.Enum) > 0 && !inEnum(value, s.Enum) {
		return nil, &SchemaValidationError{Field: path, Reason: fmt.Sprintf("value %v is not one of %v", value, s.Enum)}
	}
	return value, nil
}

func (c checker) checkObject(obj map[string]any, s *jsonschema.Schema, path string) (any, *SchemaValidationError) {
	for _, name := range s.Required {
		v, present := obj[name]
		if !present {
			return nil, &SchemaValidationError{Field: joinPath(path, name), Reason: "required field is missing"}
		}
		if v == nil {
			return nil, &SchemaValidationError{Field: joinPath(path, name), Reason: "required field is null"}
		}
	}

	out := make(map[string]any, len(obj))
	for name, v := range obj {
		out[name] = v
		if v == nil {
			continue
		}

		prop := s.Properties[name]
		if prop == nil {
			prop, _ = s.AdditionalProperties.(*jsonschema.Schema)
		}
		if prop == nil {
			continue
		}

		normalized, err := c.check(v, prop, joinPath(path, name))
		if err != nil {
			return nil, err
		}
		out[name] = normalized
	}
	return out, nil
}

func (c checker) resolve(s *jsonschema.Schema, path string) (*jsonschema.Schema, *SchemaValidationError) {
	if s.Ref == "" {
		return s, nil
	}
	name := strings.TrimPrefix(s.Ref, "#/$defs/")
	if def, ok := c.root.Defs[name]; ok {
		return def, nil
	}
	return nil, &SchemaValidationError{Field: path, Reason: fmt.Sprintf("unresolvable schema reference %q", s.Ref)}
}

func typeMismatch(path, want string, got any) *SchemaValidationError {
	return &SchemaValidationError{Field: path, Reason: fmt.Sprintf("expected %s, got %s", want, jsonTypeName(got))}
}

func jsonTypeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return jsonschema.TypeObject
	case []any:
		return jsonschema.TypeArray
	case string:
		return jsonschema.TypeString
	case bool:
		return jsonschema.TypeBoolean
	case json.Number:
		return jsonschema.TypeNumber
	default:
		return fmt.Sprintf("%T", v)
	}
}

// integral returns n as an integer literal when it has no fractional part,
// so 2.1e6 becomes 2100000.
func integral(n json.Number) (json.Number, bool) {
	if _, err := n.Int64(); err == nil {
		return n, true
	}
	f, err := n.Float64()
	if err != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt64 {
		return "", false
	}
	return json.Number(fmt.Sprintf("%.0f", f)), true
}

func inEnum(value any, enum []any) bool {
	for _, e := range enum {
		switch want := e.(type) {
		case string:
			if got, ok := value.(string); ok && got == want {
				return true
			}
		case bool:
			if got, ok := value.(bool); ok && got == want {
				return true
			}
		case int64:
			if got, ok := value.(json.Number); ok {
				if f, err := got.Float64(); err == nil && f == float64(want) {
					return true
				}
			}
		case float64:
			if got, ok := value.(json.Number); ok {
				if f, err := got.Float64(); err == nil && f == want {
					return true
				}
			}
		}
	}
	return false
}

func joinPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "." + name
}

func jsonEqual(a, b any) bool {
	ab, errA := json.Marshal(a)
	bb, errB := json.Marshal(b)
	return errA == nil && errB == nil && bytes.Equal(ab, bb)
}
