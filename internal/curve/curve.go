package curve

import (
	"fmt"
	"math"
	"sort"
)

// a configured point on a member light's brightness curve
type Breakpoint struct {
	Control int
	Output  int
}

// ConfigError is returned by Build for malformed breakpoint lists.
// A table is never created from a bad configuration.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid brightness curve: %s", e.Reason)
}

// Table maps a control value (0-100) to a member output value (0-100)
// by piecewise-linear interpolation between breakpoints. Tables are
// immutable once built; reconfiguration replaces the whole table.
type Table struct {
	points []Breakpoint
}

// Build normalises and validates the configured breakpoints:
// points are sorted by control value, an implicit (0,0) floor is added
// unless control=0 is configured, and an implicit (100,100) endpoint is
// added unless control=100 is configured.
func Build(points []Breakpoint) (*Table, error) {

	normalised := make([]Breakpoint, 0, len(points)+2)

	seen := map[int]bool{}
	for _, p := range points {
		if p.Control < 0 || p.Control > 100 {
			return nil, &ConfigError{Reason: fmt.Sprintf("control value %d is outside 0-100", p.Control)}
		}
		if p.Output < 0 || p.Output > 100 {
			return nil, &ConfigError{Reason: fmt.Sprintf("output value %d is outside 0-100", p.Output)}
		}
		if seen[p.Control] {
			return nil, &ConfigError{Reason: fmt.Sprintf("duplicate breakpoint for control value %d", p.Control)}
		}
		seen[p.Control] = true
		normalised = append(normalised, p)
	}

	if !seen[0] {
		normalised = append(normalised, Breakpoint{Control: 0, Output: 0})
	}
	if !seen[100] {
		normalised = append(normalised, Breakpoint{Control: 100, Output: 100})
	}

	sort.Slice(normalised, func(i, j int) bool {
		return normalised[i].Control < normalised[j].Control
	})

	return &Table{points: normalised}, nil
}

// Breakpoints returns a copy of the normalised breakpoint list.
func (t *Table) Breakpoints() []Breakpoint {
	points := make([]Breakpoint, len(t.points))
	copy(points, t.points)
	return points
}

// Forward maps a control value to the member output value.
// Exact breakpoint hits return the configured output directly, values
// between breakpoints are interpolated and rounded half away from zero.
func (t *Table) Forward(control int) int {
	control = clamp(control)

	for i, p := range t.points {
		if control == p.Control {
			return p.Output
		}
		if control < p.Control {
			prev := t.points[i-1]
			return clamp(interpolate(prev, p, control))
		}
	}

	// unreachable after normalisation, the table always ends at 100
	return t.points[len(t.points)-1].Output
}

// InverseCandidates returns every control value whose forward output
// equals the given output, one candidate per bracketing curve segment,
// in ascending control order. Non-monotonic curves make the inverse
// multi-valued, so the full candidate list is exposed for callers that
// need to inspect ambiguity.
func (t *Table) InverseCandidates(output int) []int {
	output = clamp(output)

	var candidates []int
	for i := 0; i < len(t.points)-1; i++ {
		p0, p1 := t.points[i], t.points[i+1]

		lo, hi := p0.Output, p1.Output
		if lo > hi {
			lo, hi = hi, lo
		}
		if output < lo || output > hi {
			continue
		}

		var control int
		if p0.Output == p1.Output {
			// flat segment, the earliest control value wins
			control = p0.Control
		} else {
			progress := float64(output-p0.Output) / float64(p1.Output-p0.Output)
			control = clamp(int(math.Round(float64(p0.Control) + progress*float64(p1.Control-p0.Control))))
		}

		if len(candidates) > 0 && candidates[len(candidates)-1] == control {
			// adjacent segments share a breakpoint
			continue
		}
		candidates = append(candidates, control)
	}

	return candidates
}

// Inverse picks the control value equivalent to an observed member
// output. hint is the last control value the table was driven with and
// biases the choice towards continuity; pass a negative hint when no
// previous value is known, in which case the smallest matching control
// value wins. Returns false when no control value produces the output.
func (t *Table) Inverse(output int, hint int) (int, bool) {
	candidates := t.InverseCandidates(output)
	if len(candidates) == 0 {
		return 0, false
	}

	if hint < 0 {
		return candidates[0], true
	}

	best := candidates[0]
	for _, c := range candidates[1:] {
		if distance(c, hint) < distance(best, hint) {
			best = c
		}
	}
	return best, true
}

func interpolate(p0 Breakpoint, p1 Breakpoint, control int) int {
	slope := float64(p1.Output-p0.Output) / float64(p1.Control-p0.Control)
	return int(math.Round(float64(p0.Output) + slope*float64(control-p0.Control)))
}

func distance(a int, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
