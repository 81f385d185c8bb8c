package agent

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/leofalp/capitalagent/core/client"
	"github.com/leofalp/capitalagent/core/parse"
	"github.com/leofalp/capitalagent/internal/utils"
	"github.com/leofalp/capitalagent/providers/ai"
	"github.com/leofalp/capitalagent/providers/ai/mocks"
	"github.com/leofalp/capitalagent/providers/observability"
	slogobs "github.com/leofalp/capitalagent/providers/observability/slog"
)

type weather struct {
	City        string `json:"city"`
	Celsius     int    `json:"celsius"`
	Description string `json:"description"`
}

var testDefinition = Definition{
	Name:         "weather_agent",
	Instructions: "Report the weather for the city in the message.",
	Model:        "gemini-2.0-flash",
}

func TestDefinitionValidate(t *testing.T) {
	assert.NoError(t, testDefinition.Validate())
	assert.ErrorIs(t, Definition{Instructions: "x"}.Validate(), ErrMissingName)
	assert.ErrorIs(t, Definition{Name: "x", Instructions: "  "}.Validate(), ErrMissingInstructions)
}

func TestNew_InvalidDefinition(t *testing.T) {
	ctrl := gomock.NewController(t)
	a, err := New[weather](mocks.NewMockProvider(ctrl), Definition{})
	assert.Nil(t, a)
	assert.ErrorIs(t, err, ErrMissingName)
}

func TestNew_NilProvider(t *testing.T) {
	_, err := New[weather](nil, testDefinition)
	assert.ErrorIs(t, err, client.ErrNilProvider)
}

func TestBuildRequest(t *testing.T) {
	ctrl := gomock.NewController(t)
	provider := mocks.NewMockProvider(ctrl)
	provider.EXPECT().SendMessage(gomock.Any(), gomock.Any()).Times(0)

	a, err := New[weather](provider, testDefinition)
	require.NoError(t, err)
	assert.Equal(t, "weather_agent", a.Name())
	assert.Equal(t, testDefinition, a.Definition())

	req, err := a.BuildRequest("Weather in Rome?")
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.0-flash", req.Model)
	assert.Equal(t, testDefinition.Instructions, req.SystemPrompt)
	require.Len(t, req.Messages, 1)
	assert.Equal(t, ai.RoleUser, req.Messages[0].Role)
	assert.Equal(t, "Weather in Rome?", req.Messages[0].Content)
	require.NotNil(t, req.ResponseFormat)
	assert.Equal(t, ai.ResponseFormatJSONSchema, req.ResponseFormat.Type)
	assert.ElementsMatch(t, []string{"city", "celsius", "description"}, req.ResponseFormat.OutputSchema.Required)

	again, err := a.BuildRequest("Weather in Rome?")
	require.NoError(t, err)
	assert.Equal(t, req, again)

	_, err = a.BuildRequest("   ")
	assert.ErrorIs(t, err, client.ErrEmptyPrompt)
}

func TestRun_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	provider := mocks.NewMockProvider(ctrl)
	provider.EXPECT().
		SendMessage(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req ai.ChatRequest) (*ai.ChatResponse, error) {
			assert.Equal(t, testDefinition.Instructions, req.SystemPrompt)
			return &ai.ChatResponse{
				Id:      "resp-1",
				Model:   "gemini-2.0-flash",
				Content: `{"city":"Rome","celsius":21,"description":"sunny"}`,
				Usage:   &ai.Usage{PromptTokens: 30, CompletionTokens: 12, TotalTokens: 42},
			}, nil
		})

	a, err := New[weather](provider, testDefinition)
	require.NoError(t, err)

	result, err := a.Run(context.Background(), "Weather in Rome?")
	require.NoError(t, err)
	assert.Equal(t, "weather_agent", result.AgentName)
	assert.Equal(t, weather{City: "Rome", Celsius: 21, Description: "sunny"}, result.FinalOutput)
	assert.Equal(t, 42, result.Usage.TotalTokens)
	assert.Equal(t, "resp-1", result.Raw.Id)
}

func TestRun_RemoteFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	provider := mocks.NewMockProvider(ctrl)
	provider.EXPECT().
		SendMessage(gomock.Any(), gomock.Any()).
		Return(nil, &utils.HTTPStatusError{StatusCode: 503, Body: "unavailable"}).
		Times(1)

	a, err := New[weather](provider, testDefinition)
	require.NoError(t, err)

	result, err := a.Run(context.Background(), "Weather in Rome?")
	assert.Nil(t, result)

	var remoteErr *client.RemoteCallError
	require.True(t, errors.As(err, &remoteErr))
	assert.Equal(t, 503, remoteErr.StatusCode)
	assert.Equal(t, "gemini-2.0-flash", remoteErr.Model)
}

func TestRun_SchemaMismatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	provider := mocks.NewMockProvider(ctrl)
	provider.EXPECT().
		SendMessage(gomock.Any(), gomock.Any()).
		Return(&ai.ChatResponse{Content: `{"city":"Rome","description":"sunny"}`}, nil).
		Times(1)

	a, err := New[weather](provider, testDefinition)
	require.NoError(t, err)

	result, err := a.Run(context.Background(), "Weather in Rome?")
	assert.Nil(t, result)

	var schemaErr *parse.SchemaValidationError
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, "celsius", schemaErr.Field)
}

func TestRun_EmptyMessageSkipsProvider(t *testing.T) {
	ctrl := gomock.NewController(t)
	provider := mocks.NewMockProvider(ctrl)
	provider.EXPECT().SendMessage(gomock.Any(), gomock.Any()).Times(0)

	a, err := New[weather](provider, testDefinition)
	require.NoError(t, err)

	_, err = a.Run(context.Background(), "")
	assert.ErrorIs(t, err, client.ErrEmptyPrompt)
}

func TestRun_Observability(t *testing.T) {
	var buf bytes.Buffer
	observer := slogobs.New(slogobs.NewLogger(&buf, slog.LevelDebug, false))

	ctrl := gomock.NewController(t)
	provider := mocks.NewMockProvider(ctrl)
	gomock.InOrder(
		provider.EXPECT().
			SendMessage(gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, _ ai.ChatRequest) (*ai.ChatResponse, error) {
				assert.NotNil(t, observability.SpanFromContext(ctx))
				return &ai.ChatResponse{Content: `{"city":"Rome","celsius":21,"description":"sunny"}`}, nil
			}),
		provider.EXPECT().
			SendMessage(gomock.Any(), gomock.Any()).
			Return(&ai.ChatResponse{Content: `not json at all`}, nil),
	)

	a, err := New[weather](provider, testDefinition, client.WithObserver(observer))
	require.NoError(t, err)

	_, err = a.Run(context.Background(), "Weather in Rome?")
	require.NoError(t, err)
	_, err = a.Run(context.Background(), "Weather in Rome?")
	require.Error(t, err)

	assert.Equal(t, int64(2), observer.CounterValue(observability.MetricAgentRunCount))
	out := buf.String()
	assert.Contains(t, out, "span=agent.run")
	assert.Contains(t, out, "agent.name=weather_agent")
	assert.Contains(t, out, "agent run failed")
}
