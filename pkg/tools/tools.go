// Package tools provides the assistant's capabilities: a clock, a restricted
// calculator, a joke picker and a weather lookup with simulated fallback.
//
// Tools are near-pure and know nothing about intents or memory. The
// orchestrator decides when to call them, and the MCP server exposes them
// by name.
package tools

// Tool names, shared by the orchestrator's activity log and the MCP server.
const (
	NameTime    = "time"
	NameCalc    = "calc"
	NameJoke    = "joke"
	NameWeather = "weather"
)

// Definition describes a tool for listing.
type Definition struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Definitions lists every tool in a stable order.
var Definitions = []Definition{
	{Name: NameTime, Description: "Returns the current local date and time."},
	{Name: NameCalc, Description: "Evaluates an arithmetic expression using + - * / % and parentheses."},
	{Name: NameJoke, Description: "Tells a random programming joke."},
	{Name: NameWeather, Description: "Returns current weather for a city. Simulated when no provider key is configured."},
}

// Toolbox bundles one instance of every tool.
type Toolbox struct {
	Clock   Clock
	Jokes   *JokePicker
	Weather *Weather
}

// NewToolbox creates a Toolbox with the system clock, random jokes and the
// configured weather tool.
func NewToolbox(weather WeatherConfig) *Toolbox {
	return &Toolbox{
		Clock:   SystemClock,
		Jokes:   NewJokePicker(nil),
		Weather: NewWeather(weather),
	}
}
