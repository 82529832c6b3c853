package forecast

import (
	"context"
	"errors"
	"testing"

	"github.com/nvandessel/futuresim/internal/metrics"
	"github.com/nvandessel/futuresim/internal/simulation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseOutput() simulation.Output {
	out := simulation.NewOutput("pathways")
	for _, b := range []simulation.Branch{
		simulation.NewBranch([]simulation.Setting{{Lever: "civic_dividend_rate", Value: 0.0}, {Lever: "ai_charter", Value: false}}),
		simulation.NewBranch([]simulation.Setting{{Lever: "civic_dividend_rate", Value: 0.1}, {Lever: "ai_charter", Value: true}}),
	} {
		out.Runs = append(out.Runs, simulation.Run{Branch: b, FinalMetrics: map[string]float64{}})
	}
	return out
}

func TestOverride(t *testing.T) {
	mock := NewMockForecaster()
	req := Request{StartYear: 2026, Horizon: 10}

	out, err := Override(context.Background(), mock, baseOutput(), req, nil)
	require.NoError(t, err)

	assert.Equal(t, OverrideScenario, out.Scenario)
	require.Len(t, out.Runs, 2)
	require.Len(t, mock.Calls, 2)

	assert.Equal(t, map[string]any{"civic_dividend_rate": 0.1, "ai_charter": true}, mock.Calls[1].Levers)
	assert.Equal(t, 10, mock.Calls[1].Horizon)
	assert.Nil(t, req.Levers, "caller's request must not be modified")

	r := out.Runs[1]
	assert.Equal(t, "civic_dividend_rate=0.1 ai_charter=true", r.Branch.String())
	require.Len(t, r.Trajectory, 10)
	assert.Equal(t, 2026, r.Trajectory[0].Year)
	assert.Equal(t, 2035, r.Trajectory[9].Year)

	assert.Len(t, r.FinalMetrics, len(metrics.All()))
	assert.Equal(t, 1.0, r.FinalMetrics["gdp"])
	assert.Equal(t, 0.38, r.FinalMetrics["gini"])
	assert.Equal(t, 0.0, r.FinalMetrics["cumulative_emissions"])
}

func TestOverrideUnavailable(t *testing.T) {
	mock := NewMockForecaster().WithAvailable(false)
	_, err := Override(context.Background(), mock, baseOutput(), Request{Horizon: 5}, nil)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Empty(t, mock.Calls)
}

func TestOverrideStopsOnFirstFailure(t *testing.T) {
	boom := errors.New("boom")
	mock := NewMockForecaster().WithError(boom)

	_, err := Override(context.Background(), mock, baseOutput(), Request{Horizon: 5}, nil)
	assert.ErrorIs(t, err, boom)
	assert.Len(t, mock.Calls, 1)
}

func TestOverrideEmptyForecast(t *testing.T) {
	mock := NewMockForecaster().WithForecast(&Forecast{StartYear: 2026})
	_, err := Override(context.Background(), mock, baseOutput(), Request{Horizon: 5}, nil)
	assert.ErrorIs(t, err, ErrEmptyForecast)
}

func TestOverrideEmptyBase(t *testing.T) {
	out, err := Override(context.Background(), NewMockForecaster(), simulation.NewOutput("none"), Request{Horizon: 5}, nil)
	require.NoError(t, err)
	assert.Equal(t, OverrideScenario, out.Scenario)
	assert.NotNil(t, out.Runs)
	assert.Empty(t, out.Runs)
}

func TestOverrideUsesPerBranchForecasts(t *testing.T) {
	mock := NewMockForecaster().WithFunc(func(req Request) (*Forecast, error) {
		f := Flat(req)
		if req.Levers["ai_charter"] == true {
			for i := range f.Data {
				f.Data[i].CivicTrust = 0.7
			}
		}
		return f, nil
	})

	out, err := Override(context.Background(), mock, baseOutput(), Request{StartYear: 2026, Horizon: 3}, nil)
	require.NoError(t, err)
	assert.Equal(t, 0.45, out.Runs[0].FinalMetrics["civic_trust"])
	assert.Equal(t, 0.7, out.Runs[1].FinalMetrics["civic_trust"])
}
