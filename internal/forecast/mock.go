package forecast

import (
	"context"
	"sync"
)

// MockForecaster implements Forecaster for testing.
// It returns a configured forecast or error and records every request.
type MockForecaster struct {
	mu sync.Mutex

	forecast  *Forecast
	fn        func(Request) (*Forecast, error)
	err       error
	available bool

	// Calls records each request in order.
	Calls []Request
}

// NewMockForecaster returns an available mock that answers with a flat
// forecast covering the requested horizon.
func NewMockForecaster() *MockForecaster {
	return &MockForecaster{available: true, Calls: make([]Request, 0)}
}

// WithForecast fixes the forecast returned for every request.
func (m *MockForecaster) WithForecast(f *Forecast) *MockForecaster {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.forecast = f
	return m
}

// WithFunc computes responses per request. It takes precedence over
// WithForecast.
func (m *MockForecaster) WithFunc(fn func(Request) (*Forecast, error)) *MockForecaster {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fn = fn
	return m
}

// WithError makes every request fail with err.
func (m *MockForecaster) WithError(err error) *MockForecaster {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
	return m
}

// WithAvailable configures Available.
func (m *MockForecaster) WithAvailable(available bool) *MockForecaster {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.available = available
	return m
}

// Available implements Forecaster.
func (m *MockForecaster) Available() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.available
}

// Forecast implements Forecaster.
func (m *MockForecaster) Forecast(ctx context.Context, req Request) (*Forecast, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, req)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.err != nil {
		return nil, m.err
	}
	if m.fn != nil {
		return m.fn(req)
	}
	if m.forecast != nil {
		return m.forecast, nil
	}
	return Flat(req), nil
}

// Flat returns a forecast that holds mid-range values for every requested
// year.
func Flat(req Request) *Forecast {
	f := &Forecast{StartYear: req.StartYear, Data: make([]Entry, 0, max(req.Horizon, 0))}
	for i := range max(req.Horizon, 0) {
		f.Data = append(f.Data, Entry{
			Year:            req.StartYear + i,
			Gini:            0.38,
			CivicTrust:      0.45,
			AnnualEmissions: 30,
			ResilienceScore: 0.4,
			AIInfluence:     0.3,
		})
	}
	return f
}
