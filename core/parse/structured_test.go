package parse

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leofalp/capitalagent/internal/jsonschema"
)

type cityInfo struct {
	City       string   `json:"city" jsonschema:"description=City name"`
	Population int64    `json:"population"`
	Area       float64  `json:"area"`
	Coastal    bool     `json:"coastal"`
	Districts  []string `json:"districts,omitempty"`
	Size       string   `json:"size,omitempty" jsonschema:"enum=small,enum=large"`
}

func (c cityInfo) Validate() error {
	if c.Population < 0 {
		return &FieldError{Field: "population", Reason: "must not be negative"}
	}
	return nil
}

func citySchema(t *testing.T) *jsonschema.Schema {
	t.Helper()
	schema, err := jsonschema.GenerateJSONSchema[cityInfo]()
	require.NoError(t, err)
	return schema
}

func requireSchemaError(t *testing.T, err error) *SchemaValidationError {
	t.Helper()
	require.Error(t, err)
	var sve *SchemaValidationError
	require.True(t, errors.As(err, &sve), "expected *SchemaValidationError, got %T: %v", err, err)
	return sve
}

func TestParseStructured_Valid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"plain", `{"city":"Paris","population":2100000,"area":105.4,"coastal":false}`},
		{"fenced", "```json\n{\"city\":\"Paris\",\"population\":2100000,\"area\":105.4,\"coastal\":false}\n```"},
		{"prose", "Sure! Here it is:\n{\"city\":\"Paris\",\"population\":2100000,\"area\":105.4,\"coastal\":false}\nEnjoy."},
		{"repairable", `{city: 'Paris', population: 2100000, area: 105.4, coastal: false,}`},
		{"exponent integer", `{"city":"Paris","population":2.1e6,"area":105.4,"coastal":false}`},
		{"envelopes", `{"city":{"type":"string","value":"Paris"},"population":{"type":"integer","value":2100000},"area":{"type":"number","value":105.4},"coastal":{"type":"boolean","value":false}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseStructured[cityInfo](tt.content, citySchema(t))
			require.NoError(t, err)
			assert.Equal(t, "Paris", got.City)
			assert.Equal(t, int64(2100000), got.Population)
			assert.InDelta(t, 105.4, got.Area, 1e-9)
			assert.False(t, got.Coastal)
		})
	}
}

func TestParseStructured_OptionalAndEnumFields(t *testing.T) {
	got, err := ParseStructured[cityInfo](
		`{"city":"Nice","population":340000,"area":71.9,"coastal":true,"districts":["Vieux Nice"],"size":"small"}`,
		citySchema(t))
	require.NoError(t, err)
	assert.Equal(t, []string{"Vieux Nice"}, got.Districts)
	assert.Equal(t, "small", got.Size)
}

func TestParseStructured_Failures(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		wantField string
		wantIn    string
	}{
		{"missing required field", `{"city":"Paris","area":105.4,"coastal":false}`, "population", "missing"},
		{"null required field", `{"city":null,"population":1,"area":1,"coastal":false}`, "city", "null"},
		{"string for integer", `{"city":"Paris","population":"many","area":1,"coastal":false}`, "population", "expected integer"},
		{"fractional integer", `{"city":"Paris","population":1.5,"area":1,"coastal":false}`, "population", "expected integer"},
		{"number for boolean", `{"city":"Paris","population":1,"area":1,"coastal":0}`, "coastal", "expected boolean"},
		{"wrong item type", `{"city":"Paris","population":1,"area":1,"coastal":false,"districts":[1]}`, "districts[0]", "expected string"},
		{"enum violation", `{"city":"Paris","population":1,"area":1,"coastal":false,"size":"huge"}`, "size", "not one of"},
		{"validate hook", `{"city":"Paris","population":-5,"area":1,"coastal":false}`, "population", "failed validation"},
		{"array instead of object", `[{"city":"Paris"}]`, "", "expected object"},
		{"complete record inside array", `[{"city":"Paris","population":1,"area":1,"coastal":false}]`, "", "expected object"},
		{"complete record under a key", `{"result":{"city":"Paris","population":1,"area":1,"coastal":false}}`, "city", "missing"},
		{"invalid record with valid nested one", `{"city":"Lyon","population":-5,"area":1,"coastal":false,"other":{"city":"Paris","population":1,"area":1,"coastal":false}}`, "population", "failed validation"},
		{"empty reply", ``, "", "not valid JSON"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseStructured[cityInfo](tt.content, citySchema(t))
			assert.Nil(t, got, "no partial record")

			sve := requireSchemaError(t, err)
			assert.Equal(t, tt.wantField, sve.Field)
			assert.Contains(t, sve.Error(), tt.wantIn)
		})
	}
}

func TestParseStructured_RefusalText(t *testing.T) {
	_, err := ParseStructured[cityInfo]("I'm sorry, I can't help with that.", citySchema(t))
	sve := requireSchemaError(t, err)
	assert.Equal(t, "I'm sorry, I can't help with that.", sve.Content)
}

func TestParseStructured_ValidateErrorIsWrapped(t *testing.T) {
	_, err := ParseStructured[cityInfo](`{"city":"Paris","population":-1,"area":1,"coastal":false}`, citySchema(t))

	var fe *FieldError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "population", fe.Field)
}

func TestParseStructured_NilSchemaStillDecodes(t *testing.T) {
	got, err := ParseStructured[cityInfo](`{"city":"Lyon","population":500000}`, nil)
	require.NoError(t, err)
	assert.Equal(t, "Lyon", got.City)

	_, err = ParseStructured[cityInfo](`{"city":"Lyon","population":"lots"}`, nil)
	sve := requireSchemaError(t, err)
	assert.Equal(t, "population", sve.Field)
}

type node struct {
	Name     string  `json:"name"`
	Children []*node `json:"children,omitempty"`
}

func TestParseStructured_RecursiveSchema(t *testing.T) {
	schema, err := jsonschema.GenerateJSONSchema[node]()
	require.NoError(t, err)

	got, err := ParseStructured[node](`{"name":"root","children":[{"name":"leaf"}]}`, schema)
	require.NoError(t, err)
	require.Len(t, got.Children, 1)
	assert.Equal(t, "leaf", got.Children[0].Name)

	_, err = ParseStructured[node](`{"name":"root","children":[{"children":[]}]}`, schema)
	sve := requireSchemaError(t, err)
	assert.Equal(t, "children[0].name", sve.Field)
}

func TestSchemaValidationError_Message(t *testing.T) {
	err := &SchemaValidationError{Field: "capital", Reason: "required field is missing"}
	assert.Equal(t, `schema validation failed at "capital": required field is missing`, err.Error())

	cause := errors.New("boom")
	err = &SchemaValidationError{Reason: "record failed validation", Err: cause}
	assert.Equal(t, "schema validation failed: record failed validation: boom", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestParseStructured_LargeUnterminatedReply(t *testing.T) {
	content := strings.Repeat("[", 1<<20)

	start := time.Now()
	got, err := ParseStructured[cityInfo](content, citySchema(t))
	assert.Nil(t, got)
	requireSchemaError(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)
}
