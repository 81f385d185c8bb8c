package capital

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/leofalp/capitalagent/core/parse"
	"github.com/leofalp/capitalagent/providers/ai"
	"github.com/leofalp/capitalagent/providers/ai/mocks"
)

func TestValidate(t *testing.T) {
	valid := CapitalInfo{Country: "France", Capital: "Paris", Population: 2102650, FunFact: "Paris has a replica of the Statue of Liberty."}

	tests := []struct {
		name  string
		info  func() CapitalInfo
		field string
	}{
		{"valid", func() CapitalInfo { return valid }, ""},
		{"zero population", func() CapitalInfo { c := valid; c.Population = 0; return c }, ""},
		{"empty country", func() CapitalInfo { c := valid; c.Country = ""; return c }, "country"},
		{"blank capital", func() CapitalInfo { c := valid; c.Capital = "  "; return c }, "capital"},
		{"empty fun fact", func() CapitalInfo { c := valid; c.FunFact = ""; return c }, "fun_fact"},
		{"negative population", func() CapitalInfo { c := valid; c.Population = -1; return c }, "population"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.info().Validate()
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var fe *parse.FieldError
			require.True(t, errors.As(err, &fe))
			assert.Equal(t, tt.field, fe.Field)
		})
	}
}

func TestFormat(t *testing.T) {
	out := Format(CapitalInfo{Country: "France", Capital: "Paris", Population: 2102650, FunFact: "Home of the Eiffel Tower."})
	assert.Equal(t, "Country: France\nCapital: Paris\nPopulation: 2102650\nFun fact: Home of the Eiffel Tower.\n", out)
}

func TestAgentRequest(t *testing.T) {
	ctrl := gomock.NewController(t)
	a, err := NewAgent(mocks.NewMockProvider(ctrl), DefaultDefinition("gemini-2.0-flash"))
	require.NoError(t, err)
	assert.Equal(t, AgentName, a.Name())

	req, err := a.BuildRequest(DefaultQuery)
	require.NoError(t, err)
	assert.Equal(t, DefaultInstructions, req.SystemPrompt)
	assert.Equal(t, "gemini-2.0-flash", req.Model)
	require.NotNil(t, req.ResponseFormat)
	assert.Equal(t, "capital_info", req.ResponseFormat.Name)

	schema := req.ResponseFormat.OutputSchema
	assert.ElementsMatch(t, []string{"country", "capital", "population", "fun_fact"}, schema.Required)
	assert.Equal(t, "integer", schema.Properties["population"].Type)
}

func TestAgentAnswersFrance(t *testing.T) {
	ctrl := gomock.NewController(t)
	provider := mocks.NewMockProvider(ctrl)
	provider.EXPECT().
		SendMessage(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req ai.ChatRequest) (*ai.ChatResponse, error) {
			require.Len(t, req.Messages, 1)
			assert.Equal(t, DefaultQuery, req.Messages[0].Content)
			return &ai.ChatResponse{
				Content: `{"country":"France","capital":"Paris","population":2102650,"fun_fact":"Paris was originally a Roman city called Lutetia."}`,
				Usage:   &ai.Usage{TotalTokens: 64},
			}, nil
		})

	a, err := NewAgent(provider, DefaultDefinition("gemini-2.0-flash"))
	require.NoError(t, err)

	result, err := a.Run(context.Background(), DefaultQuery)
	require.NoError(t, err)
	assert.Equal(t, AgentName, result.AgentName)
	assert.Equal(t, "France", result.FinalOutput.Country)
	assert.Equal(t, "Paris", result.FinalOutput.Capital)
	assert.GreaterOrEqual(t, result.FinalOutput.Population, int64(0))
	assert.NotEmpty(t, result.FinalOutput.FunFact)
}

func TestAgentRejectsInvalidReplies(t *testing.T) {
	replies := map[string]struct {
		content string
		field   string
	}{
		"missing fun fact":    {`{"country":"France","capital":"Paris","population":2102650}`, "fun_fact"},
		"negative population": {`{"country":"France","capital":"Paris","population":-5,"fun_fact":"x"}`, "population"},
		"empty capital":       {`{"country":"France","capital":"","population":1,"fun_fact":"x"}`, "capital"},
		"population as text":  {`{"country":"France","capital":"Paris","population":"many","fun_fact":"x"}`, "population"},
		"record inside array": {`[{"country":"France","capital":"Paris","population":1,"fun_fact":"x"}]`, ""},
		"record under a key":  {`{"result":{"country":"France","capital":"Paris","population":1,"fun_fact":"x"}}`, "country"},
		"other record nested": {
			`{"country":"Spain","capital":"Madrid","population":-5,"fun_fact":"x","other":{"country":"France","capital":"Paris","population":1,"fun_fact":"y"}}`,
			"population",
		},
	}

	for name, tt := range replies {
		t.Run(name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			provider := mocks.NewMockProvider(ctrl)
			provider.EXPECT().
				SendMessage(gomock.Any(), gomock.Any()).
				Return(&ai.ChatResponse{Content: tt.content}, nil).
				Times(1)

			a, err := NewAgent(provider, DefaultDefinition("gemini-2.0-flash"))
			require.NoError(t, err)

			result, err := a.Run(context.Background(), DefaultQuery)
			assert.Nil(t, result)

			var schemaErr *parse.SchemaValidationError
			require.True(t, errors.As(err, &schemaErr), "got %v", err)
			assert.Equal(t, tt.field, schemaErr.Field)
		})
	}
}
