package capital

import (
	"fmt"
	"strings"

	"github.com/leofalp/capitalagent/core/agent"
	"github.com/leofalp/capitalagent/core/client"
	"github.com/leofalp/capitalagent/core/parse"
	"github.com/leofalp/capitalagent/providers/ai"
)

const (
	AgentName           = "capital_info_agent"
	DefaultInstructions = "You are a helpful assistant that provides information about a country's capital, population, and fun fact."
	DefaultQuery        = "What is the capital of France?"
)

// CapitalInfo is the record the capital agent answers with.
type CapitalInfo struct {
	Country    string `json:"country" jsonschema:"description=Name of the country"`
	Capital    string `json:"capital" jsonschema:"description=Capital city of the country"`
	Population int64  `json:"population" jsonschema:"description=Population of the capital city"`
	FunFact    string `json:"fun_fact" jsonschema:"description=A short fun fact about the capital"`
}

// Validate rejects records with empty text fields or a negative population.
func (c CapitalInfo) Validate() error {
	for _, field := range []struct{ name, value string }{
		{"country", c.Country},
		{"capital", c.Capital},
		{"fun_fact", c.FunFact},
	} {
		if strings.TrimSpace(field.value) == "" {
			return &parse.FieldError{Field: field.name, Reason: "must not be empty"}
		}
	}
	if c.Population < 0 {
		return &parse.FieldError{Field: "population", Reason: fmt.Sprintf("must be >= 0, got %d", c.Population)}
	}
	return nil
}

// DefaultDefinition returns the capital agent definition answering with model.
func DefaultDefinition(model string) agent.Definition {
	return agent.Definition{
		Name:         AgentName,
		Instructions: DefaultInstructions,
		Model:        model,
	}
}

// NewAgent builds an agent that answers with CapitalInfo.
func NewAgent(llmProvider ai.Provider, def agent.Definition, opts ...func(*client.ClientOptions)) (*agent.Agent[CapitalInfo], error) {
	return agent.New[CapitalInfo](llmProvider, def, opts...)
}

// Format renders info one field value per line, in declaration order.
func Format(info CapitalInfo) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Country: %s\n", info.Country)
	fmt.Fprintf(&sb, "Capital: %s\n", info.Capital)
	fmt.Fprintf(&sb, "Population: %d\n", info.Population)
	fmt.Fprintf(&sb, "Fun fact: %s\n", info.FunFact)
	return sb.String()
}
