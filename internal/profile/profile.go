package profile

import (
	"github.com/lumener/lumener/internal/curve"
	"github.com/lumener/lumener/internal/models"
)

// Profile ties one member light to its brightness curve and capability.
// Immutable after construction, a capability or curve change is a
// reconfiguration that replaces the profile.
type Profile struct {
	ID         string
	Name       string
	Capability models.Capability
	Table      *curve.Table
}

func New(id string, name string, capability models.Capability, table *curve.Table) Profile {
	return Profile{ID: id, Name: name, Capability: capability, Table: table}
}

// Evaluate maps a control value to the state this member should be in.
// On/off-only members collapse any nonzero output to "on" but the curve
// is still evaluated in full so inverse lookups stay consistent with
// the dimmable case.
func (p Profile) Evaluate(control int) models.MemberTarget {
	output := p.Table.Forward(control)

	if p.Capability == models.CapabilityOnOff {
		return models.MemberTarget{On: output > 0}
	}

	if output == 0 {
		return models.MemberTarget{On: false}
	}
	return models.MemberTarget{On: true, Brightness: &output}
}

// Dimmable reports whether the member supports brightness control.
func (p Profile) Dimmable() bool {
	return p.Capability == models.CapabilityDimmable
}
