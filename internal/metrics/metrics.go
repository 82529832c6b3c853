// Package metrics maps metric names to read-only projections of a State.
package metrics

import (
	"github.com/nvandessel/futuresim/internal/state"
)

// ID identifies a metric.
type ID int

const (
	GiniIndex ID = iota
	CivicTrust
	AnnualEmissions
	ResilienceScore
	AIInfluence
	GDP
	GDPGrowth
	CumulativeEmissions
)

type definition struct {
	name   string
	access func(state.State) float64
}

var registry = [...]definition{
	GiniIndex:           {"gini", func(s state.State) float64 { return s.Economy.Gini }},
	CivicTrust:          {"civic_trust", func(s state.State) float64 { return s.Economy.CivicTrust }},
	AnnualEmissions:     {"annual_emissions", func(s state.State) float64 { return s.Climate.AnnualEmissions }},
	ResilienceScore:     {"resilience_score", func(s state.State) float64 { return s.Climate.ResilienceScore }},
	AIInfluence:         {"ai_influence", func(s state.State) float64 { return s.Economy.AIInfluence }},
	GDP:                 {"gdp", func(s state.State) float64 { return s.Economy.GDP }},
	GDPGrowth:           {"gdp_growth", func(s state.State) float64 { return s.Economy.GDPGrowth }},
	CumulativeEmissions: {"cumulative_emissions", func(s state.State) float64 { return s.Climate.CumulativeEmissions }},
}

var byName = func() map[string]ID {
	m := make(map[string]ID, len(registry))
	for id, d := range registry {
		m[d.name] = ID(id)
	}
	return m
}()

// Name returns the metric's scenario name.
func (id ID) Name() string {
	if id < 0 || int(id) >= len(registry) {
		return ""
	}
	return registry[id].name
}

// Value reads the metric from s.
func (id ID) Value(s state.State) float64 {
	return registry[id].access(s)
}

// Lookup returns the ID for name.
func Lookup(name string) (ID, bool) {
	id, ok := byName[name]
	return id, ok
}

// All returns every metric in registry order.
func All() []ID {
	ids := make([]ID, len(registry))
	for i := range registry {
		ids[i] = ID(i)
	}
	return ids
}

// Names returns every metric name in registry order.
func Names() []string {
	names := make([]string, len(registry))
	for i, d := range registry {
		names[i] = d.name
	}
	return names
}

// Set is a resolved list of metrics requested by a scenario.
type Set []ID

// Resolve turns names into a Set, dropping unknown names. Duplicates keep
// their first position.
func Resolve(names []string) Set {
	set := make(Set, 0, len(names))
	seen := make(map[ID]bool, len(names))
	for _, n := range names {
		id, ok := byName[n]
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		set = append(set, id)
	}
	return set
}

// Unknown returns the names that Resolve would drop.
func Unknown(names []string) []string {
	var unknown []string
	for _, n := range names {
		if _, ok := byName[n]; !ok {
			unknown = append(unknown, n)
		}
	}
	return unknown
}

// Extract reads every metric in the set from s.
func (set Set) Extract(s state.State) map[string]float64 {
	out := make(map[string]float64, len(set))
	for _, id := range set {
		out[id.Name()] = id.Value(s)
	}
	return out
}
