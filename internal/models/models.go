package models

import "time"

type Capability string

const (
	CapabilityDimmable Capability = "dimmable"
	CapabilityOnOff    Capability = "onoff"
)

// the state a member light should be driven to for a given control value
type MemberTarget struct {
	On bool
	// nil for on/off-only members and for lights that are off
	Brightness *int
}

// a state report for a member light, either following one of our own
// commands or an external/manual change
type Observation struct {
	On         bool
	Brightness *int
	Time       time.Time
}

// the virtual light's own reported state; Brightness is only
// meaningful while On is true
type ControlState struct {
	On         bool `json:"on"`
	Brightness int  `json:"brightness"`
}

// an event received from the bridge event stream
type Event struct {
	CreationTime time.Time   `json:"creationtime"`
	Data         []EventData `json:"data"`
	Type         string      `json:"type"`
}

type EventData struct {
	Id string `json:"id"`
	On *struct {
		On bool `json:"on"`
	} `json:"on"`
	Dimming *struct {
		Brightness float64 `json:"brightness"`
	} `json:"dimming"`
	Type   string `json:"type"`
	Status string `json:"status"`
}
