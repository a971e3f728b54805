package tools

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

const (
	// DefaultWeatherBaseURL is the OpenWeatherMap-compatible provider.
	DefaultWeatherBaseURL = "https://api.openweathermap.org"

	// DefaultWeatherTimeout bounds a single provider call.
	DefaultWeatherTimeout = 5 * time.Second

	// WeatherUsage is the hint returned when no city was given.
	WeatherUsage = `Please tell me a city, e.g. "weather in Paris".`

	maxWeatherBody = 1 << 20
)

// SimulatedWeather are the templates used without a provider credential, and
// as the fallback when the provider fails. Each takes the city name.
var SimulatedWeather = []string{
	"Simulated weather for %s: 22°C, sunny with a light breeze.",
	"Simulated weather for %s: 15°C, overcast with a chance of rain.",
	"Simulated weather for %s: 9°C, cold and windy.",
	"Simulated weather for %s: 28°C, hot and humid.",
}

// providerUnavailable is appended to a simulated reading that replaced a
// failed provider call.
const providerUnavailable = " (simulated, provider unavailable)"

// WeatherConfig configures the weather tool.
type WeatherConfig struct {
	// APIKey enables live lookups. Empty means always simulate.
	APIKey string

	// BaseURL of the provider. Defaults to DefaultWeatherBaseURL.
	BaseURL string

	// Timeout for a single provider call. Defaults to DefaultWeatherTimeout.
	Timeout time.Duration

	// HTTPClient defaults to a client without its own timeout; the call is
	// bounded by a context deadline instead.
	HTTPClient *http.Client

	// Intn picks a simulated template. Defaults to math/rand/v2.
	Intn func(n int) int

	Logger *slog.Logger
}

// WeatherReport is the outcome of a lookup.
type WeatherReport struct {
	City string
	Text string

	// Simulated is true when Text did not come from the provider.
	Simulated bool

	// ProviderErr is set when a live lookup failed and was degraded.
	ProviderErr error
}

// Weather looks up current conditions for a city.
type Weather struct {
	config WeatherConfig
	client *http.Client
}

// NewWeather creates the weather tool.
func NewWeather(c WeatherConfig) *Weather {
	if c.BaseURL == "" {
		c.BaseURL = DefaultWeatherBaseURL
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultWeatherTimeout
	}
	if c.Intn == nil {
		c.Intn = rand.IntN
	}

	client := c.HTTPClient
	if client == nil {
		client = &http.Client{}
	}

	return &Weather{config: c, client: client}
}

// Live reports whether a provider credential is configured.
func (w *Weather) Live() bool {
	return w.config.APIKey != ""
}

// Lookup returns a report for city. The only error is ErrMissingArgument for
// an empty city, in which case no network call is made. Provider failures
// degrade to a labeled simulated reading.
func (w *Weather) Lookup(ctx context.Context, city string) (WeatherReport, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return WeatherReport{}, fmt.Errorf("%w: city", ErrMissingArgument)
	}

	if !w.Live() {
		return w.simulated(city), nil
	}

	text, err := w.fetch(ctx, city)
	if err != nil {
		w.logger().Warn("weather provider failed, using simulated reading",
			"city", city,
			"error", err,
		)
		report := w.simulated(city)
		report.Text += providerUnavailable
		report.ProviderErr = err
		return report, nil
	}

	return WeatherReport{City: city, Text: text}, nil
}

func (w *Weather) simulated(city string) WeatherReport {
	tmpl := SimulatedWeather[w.config.Intn(len(SimulatedWeather))]
	return WeatherReport{
		City:      city,
		Text:      fmt.Sprintf(tmpl, city),
		Simulated: true,
	}
}

func (w *Weather) fetch(ctx context.Context, city string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, w.config.Timeout)
	defer cancel()

	q := url.Values{}
	q.Set("q", city)
	q.Set("units", "metric")
	q.Set("appid", w.config.APIKey)
	endpoint := strings.TrimRight(w.config.BaseURL, "/") + "/data/2.5/weather?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("%w: creating request: %w", ErrProvider, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrProvider, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxWeatherBody))
	if err != nil {
		return "", fmt.Errorf("%w: reading response: %w", ErrProvider, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: status %d", ErrProvider, resp.StatusCode)
	}

	if !gjson.ValidBytes(body) {
		return "", fmt.Errorf("%w: response is not JSON", ErrProvider)
	}

	return formatReading(city, body), nil
}

// formatReading renders a provider payload. Missing fields degrade to
// "N/A" or "unknown".
func formatReading(city string, body []byte) string {
	fields := gjson.GetManyBytes(body, "name", "main.temp", "main.humidity", "weather.0.description")

	name := city
	if fields[0].Exists() && fields[0].String() != "" {
		name = fields[0].String()
	}

	temp := "N/A"
	if fields[1].Exists() && fields[1].Type == gjson.Number {
		temp = strconv.FormatFloat(fields[1].Float(), 'f', -1, 64) + "°C"
	}

	humidity := "N/A"
	if fields[2].Exists() && fields[2].Type == gjson.Number {
		humidity = strconv.FormatFloat(fields[2].Float(), 'f', -1, 64) + "%"
	}

	desc := "unknown"
	if fields[3].Exists() && fields[3].String() != "" {
		desc = fields[3].String()
	}

	return fmt.Sprintf("Weather in %s: %s, %s, humidity %s.", name, temp, desc, humidity)
}

func (w *Weather) logger() *slog.Logger {
	if w.config.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return w.config.Logger
}
