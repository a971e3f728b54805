package mcp

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/papercomputeco/cassette/pkg/assistant"
	"github.com/papercomputeco/cassette/pkg/tools"
)

// description returns the listed description for a tool name.
func description(name string) string {
	for _, d := range tools.Definitions {
		if d.Name == name {
			return d.Description
		}
	}
	return ""
}

// TimeInput takes no arguments.
type TimeInput struct{}

// TimeOutput is the rendered local time.
type TimeOutput struct {
	Time string `json:"time"`
}

// CalcInput represents the input arguments for the MCP calc tool.
type CalcInput struct {
	Expression string `json:"expression" jsonschema:"the arithmetic expression to evaluate, e.g. 12 * (3 + 4)"`
}

// CalcOutput is the formatted result.
type CalcOutput struct {
	Result string `json:"result"`
}

// JokeInput takes no arguments.
type JokeInput struct{}

// JokeOutput carries one joke.
type JokeOutput struct {
	Joke string `json:"joke"`
}

// WeatherInput represents the input arguments for the MCP weather tool.
type WeatherInput struct {
	City string `json:"city" jsonschema:"the city to report the weather for"`
}

// WeatherOutput is the rendered report.
type WeatherOutput struct {
	City      string `json:"city"`
	Report    string `json:"report"`
	Simulated bool   `json:"simulated"`
}

func (s *Server) handleTime(_ context.Context, _ *mcp.CallToolRequest, _ TimeInput) (*mcp.CallToolResult, TimeOutput, error) {
	now := s.config.Tools.Clock.Now()
	return textResult(now), TimeOutput{Time: now}, nil
}

func (s *Server) handleCalc(_ context.Context, _ *mcp.CallToolRequest, input CalcInput) (*mcp.CallToolResult, CalcOutput, error) {
	if input.Expression == "" {
		return errorResult("expression is required"), CalcOutput{}, nil
	}

	result, err := tools.Calculate(input.Expression)
	if err != nil {
		s.config.Logger.Debug("mcp calc failed", "expr", input.Expression, "error", err)
		return errorResult(assistant.CalcApology), CalcOutput{}, nil
	}

	return textResult(result), CalcOutput{Result: result}, nil
}

func (s *Server) handleJoke(_ context.Context, _ *mcp.CallToolRequest, _ JokeInput) (*mcp.CallToolResult, JokeOutput, error) {
	joke := s.config.Tools.Jokes.Pick()
	return textResult(joke), JokeOutput{Joke: joke}, nil
}

func (s *Server) handleWeather(ctx context.Context, _ *mcp.CallToolRequest, input WeatherInput) (*mcp.CallToolResult, WeatherOutput, error) {
	report, err := s.config.Tools.Weather.Lookup(ctx, input.City)
	if err != nil {
		if errors.Is(err, tools.ErrMissingArgument) {
			return errorResult(tools.WeatherUsage), WeatherOutput{}, nil
		}
		return errorResult(assistant.WeatherApology(input.City)), WeatherOutput{}, nil
	}

	output := WeatherOutput{
		City:      report.City,
		Report:    report.Text,
		Simulated: report.Simulated,
	}
	return textResult(report.Text), output, nil
}
