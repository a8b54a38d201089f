package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/krishibondhu/server/internal/assistant/model"
)

const defaultTimeout = 10 * time.Second

// OpenMeteoProvider fetches hourly forecasts from the Open-Meteo API. The
// API is unauthenticated, so the provider carries no credentials.
type OpenMeteoProvider struct {
	baseURL string
	client  *http.Client
}

func NewOpenMeteoProvider(config model.WeatherConfig) *OpenMeteoProvider {
	timeout := time.Duration(config.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &OpenMeteoProvider{
		baseURL: config.BaseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

func (p *OpenMeteoProvider) Forecast(ctx context.Context, latitude, longitude float64) (*model.WeatherSnapshot, error) {
	params := url.Values{}
	params.Set("latitude", strconv.FormatFloat(latitude, 'f', -1, 64))
	params.Set("longitude", strconv.FormatFloat(longitude, 'f', -1, 64))
	params.Set("hourly", "temperature_2m,relativehumidity_2m,precipitation")
	params.Set("timezone", "auto")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build forecast request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("forecast request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("forecast request: unexpected status %d", resp.StatusCode)
	}

	var snapshot model.WeatherSnapshot
	if err := json.NewDecoder(resp.Body).Decode(&snapshot); err != nil {
		return nil, fmt.Errorf("decode forecast response: %w", err)
	}
	return &snapshot, nil
}
