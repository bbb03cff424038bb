package group

import (
	"errors"
	"fmt"

	"github.com/lumener/lumener/internal/constants"
	"github.com/lumener/lumener/internal/models"
	"github.com/lumener/lumener/internal/profile"
)

// ErrUnknown is returned by InferControl when no member observation
// yields usable evidence for a control value. Callers must leave the
// current state untouched in that case.
var ErrUnknown = errors.New("control value cannot be inferred from member observations")

// Mapper owns the member profiles of one virtual light and translates
// between the control value and per-member states, in both directions.
type Mapper struct {
	order    []string
	profiles map[string]profile.Profile
}

func NewMapper(profiles []profile.Profile) (*Mapper, error) {
	m := &Mapper{profiles: map[string]profile.Profile{}}
	for _, p := range profiles {
		if _, exists := m.profiles[p.ID]; exists {
			return nil, fmt.Errorf("duplicate member (%s) in group", p.ID)
		}
		m.order = append(m.order, p.ID)
		m.profiles[p.ID] = p
	}
	return m, nil
}

// Members returns the member ids in configuration order.
func (m *Mapper) Members() []string {
	members := make([]string, len(m.order))
	copy(members, m.order)
	return members
}

func (m *Mapper) Profile(id string) (profile.Profile, bool) {
	p, ok := m.profiles[id]
	return p, ok
}

// Forward evaluates every member profile for the given control value.
// Pure function of the control value and configuration.
func (m *Mapper) Forward(control int) map[string]models.MemberTarget {
	targets := make(map[string]models.MemberTarget, len(m.order))
	for _, id := range m.order {
		targets[id] = m.profiles[id].Evaluate(control)
	}
	return targets
}

type candidate struct {
	memberID string
	control  int
	dimmable bool
	observed models.Observation
}

// InferControl derives the control value equivalent to a set of member
// observations, typically after an external/manual change. hint is the
// previous control value and biases ambiguous inverse lookups towards
// continuity (pass a negative value when unknown).
//
// Dimmable members provide evidence through their observed brightness
// (or brightness 0 when observed off). On/off-only members are only
// usable when observed off, and only when no dimmable member yields a
// reading, since "on" is compatible with a wide control range.
// Disagreeing candidates are resolved by preferring dimmable evidence,
// then the most recently changed member.
func (m *Mapper) InferControl(observations map[string]models.Observation, hint int) (int, error) {

	var dimmable []candidate
	var binary []candidate

	for _, id := range m.order {
		obs, observed := observations[id]
		if !observed {
			continue
		}
		p := m.profiles[id]

		if p.Dimmable() {
			output := 0
			if obs.On {
				if obs.Brightness == nil {
					continue
				}
				output = *obs.Brightness
			}
			if control, ok := p.Table.Inverse(output, hint); ok {
				dimmable = append(dimmable, candidate{memberID: id, control: control, dimmable: true, observed: obs})
			}
			continue
		}

		if !obs.On {
			// the smallest control value driving this member's output to zero
			if candidates := p.Table.InverseCandidates(0); len(candidates) > 0 {
				binary = append(binary, candidate{memberID: id, control: candidates[0], observed: obs})
			}
		}
	}

	candidates := dimmable
	if len(candidates) == 0 {
		candidates = binary
	}
	if len(candidates) == 0 {
		return 0, ErrUnknown
	}

	return resolve(candidates), nil
}

// resolve picks the winning candidate: when candidates disagree by more
// than the tolerance the most recently changed member wins, otherwise
// the first in configuration order.
func resolve(candidates []candidate) int {
	winner := candidates[0]

	agreed := true
	for _, c := range candidates[1:] {
		if diff(c.control, winner.control) > constants.InferenceTolerance {
			agreed = false
			break
		}
	}
	if agreed {
		return winner.control
	}

	for _, c := range candidates[1:] {
		if c.observed.Time.After(winner.observed.Time) {
			winner = c
		}
	}
	return winner.control
}

func diff(a int, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}
