package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"
)

var (
	errServerError = errors.New("weatherapi server error")
	errRateLimited = errors.New("weatherapi rate limited")
	errBadStatus   = errors.New("weatherapi unexpected status")
)

// Client fetches current conditions from WeatherAPI.com. Outbound calls go
// through a circuit breaker and a short exponential backoff, so one flaky
// stretch of the upstream does not turn every firing into a slow failure.
type Client struct {
	httpClient *http.Client
	apiKey     string
	lang       string
	baseURL    string
	circuit    *gobreaker.CircuitBreaker

	maxRetries      int
	initialInterval time.Duration
}

// NewClient creates a WeatherAPI.com client.
func NewClient(httpClient *http.Client, apiKey, lang string) *Client {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "weatherapi",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})
	return &Client{
		httpClient:      httpClient,
		apiKey:          apiKey,
		lang:            lang,
		baseURL:         "https://api.weatherapi.com/v1/current.json",
		circuit:         cb,
		maxRetries:      2,
		initialInterval: 500 * time.Millisecond,
	}
}

// Current returns the current-conditions snapshot for the given coordinates.
func (c *Client) Current(ctx context.Context, lat, lon float64) (*Snapshot, error) {
	if c.apiKey == "" {
		return nil, errors.New("weatherapi api key is not configured")
	}

	values := url.Values{}
	values.Set("key", c.apiKey)
	values.Set("q", fmt.Sprintf("%f,%f", lat, lon))
	if c.lang != "" {
		values.Set("lang", c.lang)
	}
	reqURL := fmt.Sprintf("%s?%s", c.baseURL, values.Encode())

	resp, err := c.doWithResilience(ctx, reqURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload struct {
		Location struct {
			Name      string `json:"name"`
			Region    string `json:"region"`
			Country   string `json:"country"`
			Localtime string `json:"localtime"`
		} `json:"location"`
		Current struct {
			TempC      float64 `json:"temp_c"`
			FeelsC     float64 `json:"feelslike_c"`
			IsDay      int     `json:"is_day"`
			WindKph    float64 `json:"wind_kph"`
			Humidity   float64 `json:"humidity"`
			PressureMb float64 `json:"pressure_mb"`
			PrecipMm   float64 `json:"precip_mm"`
			Cloud      float64 `json:"cloud"`
			UV         float64 `json:"uv"`
			Condition  struct {
				Text string `json:"text"`
			} `json:"condition"`
		} `json:"current"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode weatherapi response: %w", err)
	}

	return &Snapshot{
		City:       payload.Location.Name,
		Region:     payload.Location.Region,
		Country:    payload.Location.Country,
		LocalTime:  payload.Location.Localtime,
		TempC:      payload.Current.TempC,
		FeelsC:     payload.Current.FeelsC,
		Condition:  payload.Current.Condition.Text,
		WindKph:    payload.Current.WindKph,
		Humidity:   payload.Current.Humidity,
		PressureMb: payload.Current.PressureMb,
		PrecipMm:   payload.Current.PrecipMm,
		CloudPct:   payload.Current.Cloud,
		UV:         payload.Current.UV,
		IsDay:      payload.Current.IsDay == 1,
	}, nil
}

// doWithResilience executes the GET with retries behind the circuit breaker.
// An open circuit fails fast without consuming retries.
func (c *Client) doWithResilience(ctx context.Context, reqURL string) (*http.Response, error) {
	var lastErr error

	for attempt := 0; ; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, err
		}

		result, err := c.circuit.Execute(func() (interface{}, error) {
			resp, execErr := c.httpClient.Do(req)
			if execErr != nil {
				return nil, execErr
			}
			switch {
			case resp.StatusCode == http.StatusTooManyRequests:
				resp.Body.Close()
				return nil, errRateLimited
			case resp.StatusCode >= 500:
				resp.Body.Close()
				return nil, errServerError
			case resp.StatusCode < 200 || resp.StatusCode >= 300:
				resp.Body.Close()
				return nil, fmt.Errorf("%w: %d", errBadStatus, resp.StatusCode)
			}
			return resp, nil
		})
		if err == nil {
			return result.(*http.Response), nil
		}
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("weatherapi circuit open: %w", err)
		}

		lastErr = err
		if attempt >= c.maxRetries {
			return nil, lastErr
		}

		delay := c.initialInterval << attempt
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}
