// Package forecast sources yearly metric trajectories from a generative
// model instead of the dynamics engine, and converts them into state
// snapshots that share the simulator's output format.
package forecast

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Default request parameters.
const (
	DefaultStartYear = 2026
	DefaultHorizon   = 50
)

var (
	// ErrUnavailable is returned when a forecaster has no credentials.
	ErrUnavailable = errors.New("forecaster is not configured")

	// ErrEmptyForecast is returned when a response carries no yearly entries.
	ErrEmptyForecast = errors.New("forecast contains no entries")
)

// Request describes one forecast.
type Request struct {
	StartYear int            `json:"start_year"`
	Horizon   int            `json:"horizon"`
	Levers    map[string]any `json:"levers"`
}

// Entry is one forecast year.
type Entry struct {
	Year            int     `json:"year"`
	Gini            float64 `json:"gini"`
	CivicTrust      float64 `json:"civic_trust"`
	AnnualEmissions float64 `json:"annual_emissions"`
	ResilienceScore float64 `json:"resilience_score"`
	AIInfluence     float64 `json:"ai_influence"`
}

// Forecast is a model response.
type Forecast struct {
	StartYear int     `json:"start_year"`
	Data      []Entry `json:"data"`
}

// Forecaster produces forecasts for policy lever settings.
type Forecaster interface {
	// Forecast returns yearly projections for req.
	Forecast(ctx context.Context, req Request) (*Forecast, error)

	// Available reports whether the forecaster can serve requests.
	Available() bool
}

// Parse decodes a model response. Unknown fields are rejected and an empty
// data list yields ErrEmptyForecast.
func Parse(text string) (*Forecast, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(text)))
	dec.DisallowUnknownFields()

	var f Forecast
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decoding forecast: %w", err)
	}
	if len(f.Data) == 0 {
		return nil, ErrEmptyForecast
	}
	return &f, nil
}
