package dynamics

// Optional is a lever override. An unset Optional means "use the value
// already stored in the state".
type Optional[T any] struct {
	value T
	set   bool
}

// Some returns an Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, set: true}
}

// None returns an unset Optional.
func None[T any]() Optional[T] {
	return Optional[T]{}
}

// Get returns the value and whether it is set.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.set
}

// IsSet reports whether o holds a value.
func (o Optional[T]) IsSet() bool {
	return o.set
}

// Or returns the held value, or fallback when unset.
func (o Optional[T]) Or(fallback T) T {
	if o.set {
		return o.value
	}
	return fallback
}

// Lever names accepted in scenario branch factors.
const (
	LeverCivicDividendRate = "civic_dividend_rate"
	LeverAICharter         = "ai_charter"
	LeverClimateCapexShare = "climate_capex_share"
)

// Levers is the set of overrides a branch applies every year.
type Levers struct {
	CivicDividendRate Optional[float64]
	AICharter         Optional[bool]
	ClimateCapexShare Optional[float64]
}

// KnownLever reports whether name is a lever the engine understands.
func KnownLever(name string) bool {
	switch name {
	case LeverCivicDividendRate, LeverAICharter, LeverClimateCapexShare:
		return true
	}
	return false
}

// ParseLevers builds typed overrides from raw lever settings. Unknown lever
// names and values of the wrong type are ignored, leaving that lever unset.
func ParseLevers(settings map[string]any) Levers {
	var l Levers
	if v, ok := toFloat(settings[LeverCivicDividendRate]); ok {
		l.CivicDividendRate = Some(v)
	}
	if v, ok := settings[LeverAICharter].(bool); ok {
		l.AICharter = Some(v)
	}
	if v, ok := toFloat(settings[LeverClimateCapexShare]); ok {
		l.ClimateCapexShare = Some(v)
	}
	return l
}

// toFloat accepts the numeric types a YAML or JSON decoder may produce.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}
