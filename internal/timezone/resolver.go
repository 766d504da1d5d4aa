// Package timezone maps coordinates to an IANA timezone name via
// timezonedb.com. Lookups degrade to a configured default zone instead of
// failing: a wrong-but-valid timezone is recoverable by the user, an aborted
// location flow is not.
package timezone

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/Viacheslav828206/WeatherBot/internal/domain"
)

type Resolver struct {
	httpClient *http.Client
	apiKey     string
	defaultTZ  string
	baseURL    string
	log        *zap.Logger
}

func NewResolver(httpClient *http.Client, apiKey, defaultTZ string, log *zap.Logger) *Resolver {
	return &Resolver{
		httpClient: httpClient,
		apiKey:     apiKey,
		defaultTZ:  defaultTZ,
		baseURL:    "https://api.timezonedb.com/v2.1/get-time-zone",
		log:        log,
	}
}

// Resolve returns the IANA timezone name for the coordinates. Any failure —
// network, bad status, malformed or unknown zone — yields the default zone.
func (r *Resolver) Resolve(ctx context.Context, lat, lon float64) string {
	values := url.Values{}
	values.Set("key", r.apiKey)
	values.Set("format", "json")
	values.Set("by", "position")
	values.Set("lat", fmt.Sprintf("%f", lat))
	values.Set("lng", fmt.Sprintf("%f", lon))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s?%s", r.baseURL, values.Encode()), nil)
	if err != nil {
		return r.defaultTZ
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		r.log.Warn("timezone lookup failed, using default",
			zap.Error(err), zap.String("default", r.defaultTZ))
		return r.defaultTZ
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		r.log.Warn("timezone lookup bad status, using default",
			zap.Int("status", resp.StatusCode), zap.String("default", r.defaultTZ))
		return r.defaultTZ
	}

	var payload struct {
		ZoneName string `json:"zoneName"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		r.log.Warn("timezone lookup decode failed, using default", zap.Error(err))
		return r.defaultTZ
	}
	if payload.ZoneName == "" {
		return r.defaultTZ
	}
	zone, err := domain.ValidateTZ(payload.ZoneName)
	if err != nil {
		r.log.Warn("timezone lookup returned unknown zone, using default",
			zap.String("zone", payload.ZoneName))
		return r.defaultTZ
	}
	return zone
}
