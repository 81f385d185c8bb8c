package parse

// recursiveUnwrap replaces every {"type": ..., "value": ...} envelope in data
// with its value. Models sometimes answer with schema-shaped data:
//
//	{"name": {"type": "string", "value": "John"}}  ->  {"name": "John"}
func recursiveUnwrap(data any) any {
	switch v := data.(type) {
	case map[string]any:
		if value, ok := envelopeValue(v); ok {
			return recursiveUnwrap(value)
		}
		out := make(map[string]any, len(v))
		for key, val := range v {
			out[key] = recursiveUnwrap(val)
		}
		return out

	case []any:
		out := make([]any, len(v))
		for i, val := range v {
			out[i] = recursiveUnwrap(val)
		}
		return out

	default:
		return data
	}
}

// envelopeValue reports whether m is exactly {"type": ..., "value": ...}.
func envelopeValue(m map[string]any) (any, bool) {
	if len(m) != 2 {
		return nil, false
	}
	if _, hasType := m["type"]; !hasType {
		return nil, false
	}
	value, hasValue := m["value"]
	return value, hasValue
}
