package simulation

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/nvandessel/futuresim/internal/dynamics"
	"github.com/nvandessel/futuresim/internal/scenario"
)

// Setting is one lever value chosen for a branch.
type Setting struct {
	Lever string
	Value any
}

// Branch is one combination of lever values. It serializes as a JSON object
// whose keys keep axis declaration order.
type Branch struct {
	settings []Setting
	levers   dynamics.Levers
}

// NewBranch builds a branch from ordered settings. When a lever appears more
// than once the last value wins.
func NewBranch(settings []Setting) Branch {
	deduped := make([]Setting, 0, len(settings))
	pos := make(map[string]int, len(settings))
	for _, st := range settings {
		if i, ok := pos[st.Lever]; ok {
			deduped[i].Value = st.Value
			continue
		}
		pos[st.Lever] = len(deduped)
		deduped = append(deduped, st)
	}
	b := Branch{settings: deduped}
	b.levers = dynamics.ParseLevers(b.Map())
	return b
}

// Settings returns the branch's lever settings in declaration order.
func (b Branch) Settings() []Setting {
	out := make([]Setting, len(b.settings))
	copy(out, b.settings)
	return out
}

// Map returns the settings keyed by lever name.
func (b Branch) Map() map[string]any {
	m := make(map[string]any, len(b.settings))
	for _, st := range b.settings {
		m[st.Lever] = st.Value
	}
	return m
}

// Value returns the setting for lever.
func (b Branch) Value(lever string) (any, bool) {
	for _, st := range b.settings {
		if st.Lever == lever {
			return st.Value, true
		}
	}
	return nil, false
}

// Levers returns the typed overrides the engine applies.
func (b Branch) Levers() dynamics.Levers {
	return b.levers
}

// String formats the branch as lever=value pairs.
func (b Branch) String() string {
	var buf bytes.Buffer
	for i, st := range b.settings {
		if i > 0 {
			buf.WriteByte(' ')
		}
		fmt.Fprintf(&buf, "%s=%v", st.Lever, st.Value)
	}
	return buf.String()
}

// MarshalJSON implements json.Marshaler.
func (b Branch) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, st := range b.settings {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(st.Lever)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(st.Value)
		if err != nil {
			return nil, fmt.Errorf("marshaling lever %s: %w", st.Lever, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON implements json.Unmarshaler, preserving key order.
func (b *Branch) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("branch must be a JSON object")
	}

	var settings []Setting
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		lever, ok := tok.(string)
		if !ok {
			return fmt.Errorf("branch key must be a string")
		}
		var value any
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("decoding lever %s: %w", lever, err)
		}
		settings = append(settings, Setting{Lever: lever, Value: value})
	}
	*b = NewBranch(settings)
	return nil
}

// Enumerate returns the cartesian product of axes. The first axis varies
// slowest. An empty axis list, or any axis without options, yields no
// branches.
func Enumerate(axes []scenario.LeverAxis) []Branch {
	if len(axes) == 0 {
		return nil
	}
	total := 1
	for _, ax := range axes {
		total *= len(ax.Options)
	}
	if total == 0 {
		return nil
	}

	branches := make([]Branch, 0, total)
	idx := make([]int, len(axes))
	for {
		settings := make([]Setting, len(axes))
		for i, ax := range axes {
			settings[i] = Setting{Lever: ax.Lever, Value: ax.Options[idx[i]]}
		}
		branches = append(branches, NewBranch(settings))

		// Odometer increment, last axis fastest.
		i := len(axes) - 1
		for ; i >= 0; i-- {
			idx[i]++
			if idx[i] < len(axes[i].Options) {
				break
			}
			idx[i] = 0
		}
		if i < 0 {
			return branches
		}
	}
}
