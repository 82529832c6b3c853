// Package scenario loads scenario definitions from YAML.
//
// A scenario names its start year, horizon, lever axes, stochastic events and
// the metrics to report. Only structural problems are errors: malformed
// YAML, a missing name or a missing start year. Everything else the simulator
// cannot use is carried or dropped silently and reported by Lint.
package scenario

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/nvandessel/futuresim/internal/dynamics"
	"github.com/nvandessel/futuresim/internal/metrics"
	"gopkg.in/yaml.v3"
)

// Sentinel errors for structurally invalid scenarios.
var (
	ErrMissingName      = errors.New("scenario name is required")
	ErrMissingStartYear = errors.New("scenario start_year is required")
)

// LeverAxis is one branch factor: a lever and its candidate values.
type LeverAxis struct {
	Lever   string `json:"lever" yaml:"lever"`
	Options []any  `json:"options" yaml:"options"`
}

// Scenario is a loaded scenario definition.
type Scenario struct {
	Name         string           `json:"name" yaml:"name"`
	StartYear    int              `json:"start_year" yaml:"start_year"`
	HorizonYears int              `json:"horizon_years" yaml:"horizon_years"`
	Axes         []LeverAxis      `json:"branch_factors" yaml:"branch_factors"`
	Events       []dynamics.Event `json:"stochastic_events" yaml:"stochastic_events"`
	Metrics      []string         `json:"metrics" yaml:"metrics"`
}

// Load reads a scenario from a YAML file.
func Load(path string) (*Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening scenario: %w", err)
	}
	defer f.Close()

	sc, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return sc, nil
}

// Decode parses a scenario from YAML.
//
// Axes without a lever name or without an options key are dropped. An axis
// with an empty options list is kept and enumerates no branches. Events are
// kept in declaration order even when unnamed, so each one still consumes its
// yearly draw.
func Decode(r io.Reader) (*Scenario, error) {
	var raw struct {
		Name         string           `yaml:"name"`
		StartYear    *int             `yaml:"start_year"`
		HorizonYears int              `yaml:"horizon_years"`
		Axes         []LeverAxis      `yaml:"branch_factors"`
		Events       []dynamics.Event `yaml:"stochastic_events"`
		Metrics      []string         `yaml:"metrics"`
	}
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrMissingName
		}
		return nil, fmt.Errorf("parsing scenario: %w", err)
	}

	if raw.Name == "" {
		return nil, ErrMissingName
	}
	if raw.StartYear == nil {
		return nil, ErrMissingStartYear
	}

	sc := &Scenario{
		Name:         raw.Name,
		StartYear:    *raw.StartYear,
		HorizonYears: raw.HorizonYears,
		Events:       raw.Events,
		Metrics:      raw.Metrics,
	}
	for _, ax := range raw.Axes {
		if ax.Lever == "" || ax.Options == nil {
			continue
		}
		sc.Axes = append(sc.Axes, ax)
	}
	return sc, nil
}

// BranchCount returns the number of branches the axes enumerate.
func (s *Scenario) BranchCount() int {
	if len(s.Axes) == 0 {
		return 0
	}
	n := 1
	for _, ax := range s.Axes {
		n *= len(ax.Options)
	}
	return n
}

// Warning is a non-fatal issue found by Lint.
type Warning struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Lint reports scenario content the simulator will ignore.
func (s *Scenario) Lint() []Warning {
	var warnings []Warning
	if s.HorizonYears <= 0 {
		warnings = append(warnings, Warning{
			Field:   "horizon_years",
			Message: fmt.Sprintf("horizon %d produces no trajectories", s.HorizonYears),
		})
	}
	if len(s.Axes) == 0 {
		warnings = append(warnings, Warning{
			Field:   "branch_factors",
			Message: "no lever axes, no branches will be simulated",
		})
	}
	seen := make(map[string]bool, len(s.Axes))
	for _, ax := range s.Axes {
		if !dynamics.KnownLever(ax.Lever) {
			warnings = append(warnings, Warning{
				Field:   "branch_factors",
				Message: fmt.Sprintf("unknown lever %q has no effect", ax.Lever),
			})
		}
		if seen[ax.Lever] {
			warnings = append(warnings, Warning{
				Field:   "branch_factors",
				Message: fmt.Sprintf("lever %q declared more than once, the last axis wins", ax.Lever),
			})
		}
		if len(ax.Options) == 0 {
			warnings = append(warnings, Warning{
				Field:   "branch_factors",
				Message: fmt.Sprintf("axis %q has no options, no branches will be simulated", ax.Lever),
			})
		}
		seen[ax.Lever] = true
	}
	for _, ev := range s.Events {
		if ev.Name == "" {
			warnings = append(warnings, Warning{
				Field:   "stochastic_events",
				Message: "unnamed event has no effect",
			})
		} else if !dynamics.KnownEvent(ev.Name) {
			warnings = append(warnings, Warning{
				Field:   "stochastic_events",
				Message: fmt.Sprintf("unknown event %q has no effect", ev.Name),
			})
		}
		if ev.Probability < 0 || ev.Probability > 1 {
			warnings = append(warnings, Warning{
				Field:   "stochastic_events",
				Message: fmt.Sprintf("event %q probability %g outside [0, 1]", ev.Name, ev.Probability),
			})
		}
	}
	for _, name := range metrics.Unknown(s.Metrics) {
		warnings = append(warnings, Warning{
			Field:   "metrics",
			Message: fmt.Sprintf("unknown metric %q will be omitted", name),
		})
	}
	return warnings
}
