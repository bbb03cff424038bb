package reconciler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/lumener/lumener/internal/constants"
	"github.com/lumener/lumener/internal/group"
	"github.com/lumener/lumener/internal/models"
)

type deviceControl interface {
	SetBrightness(memberID string, percent int) error
	SetOnOff(memberID string, on bool) error
}

type stateStore interface {
	SetMemberObserved(memberID string, on bool, brightness *int) error
	SetMemberAvailable(memberID string, available bool) error
	SetMemberCommanded(memberID string, target models.MemberTarget) error
	SetVirtualLightState(name string, state models.ControlState) error
}

// DispatchReport describes the outcome of one SetState call. Failures
// are isolated per member, the virtual light state still updates
// optimistically.
type DispatchReport struct {
	Issued  []string
	Skipped []string
	Failed  map[string]error
}

func (r DispatchReport) Err() error {
	if len(r.Failed) == 0 {
		return nil
	}
	return errors.New("one or more member commands failed")
}

// a command we issued and whose confirmation we expect on the event
// stream; observations matching an unexpired marker are self-caused
// and must not be re-interpreted as external changes
type pendingMarker struct {
	token   uuid.UUID
	target  models.MemberTarget
	expires time.Time
}

type eventKind int

const (
	eventCommand eventKind = iota
	eventObservation
	eventAvailability
	eventGetState
)

type event struct {
	kind        eventKind
	on          bool
	brightness  *int
	memberID    string
	observation models.Observation
	available   bool
	reportReply chan DispatchReport
	stateReply  chan models.ControlState
}

// StateReconciler owns the state of one virtual light. All commands
// and member observations are serialised through a single event queue
// drained by Run, so there is never concurrent mutation of the light's
// state or markers. Instances for different virtual lights are fully
// independent.
type StateReconciler struct {
	logger *log.Logger
	name   string
	mapper *group.Mapper
	device deviceControl
	store  stateStore

	markerTimeout time.Duration
	events        chan event

	state        models.ControlState
	lastControl  int
	lastNonZero  int
	observations map[string]models.Observation
	lastTargets  map[string]models.MemberTarget
	unavailable  map[string]bool
	markers      map[string]pendingMarker

	subscriberMu sync.Mutex
	subscribers  []chan models.ControlState
}

func NewStateReconciler(
	logger *log.Logger,
	name string,
	mapper *group.Mapper,
	device deviceControl,
	store stateStore,
	markerTimeout time.Duration,
) *StateReconciler {
	if markerTimeout <= 0 {
		markerTimeout = constants.DefaultMarkerTimeout
	}
	return &StateReconciler{
		logger:        logger,
		name:          name,
		mapper:        mapper,
		device:        device,
		store:         store,
		markerTimeout: markerTimeout,
		events:        make(chan event, constants.EventQueueSize),
		lastControl:   -1,
		observations:  map[string]models.Observation{},
		lastTargets:   map[string]models.MemberTarget{},
		unavailable:   map[string]bool{},
		markers:       map[string]pendingMarker{},
	}
}

func (r *StateReconciler) Name() string {
	return r.name
}

// RestoreState seeds the reported state from a previous run.
// Must be called before Run.
func (r *StateReconciler) RestoreState(state models.ControlState) {
	r.state = state
	if state.On {
		r.lastControl = state.Brightness
		r.lastNonZero = state.Brightness
	} else {
		r.lastControl = 0
	}
}

// Run drains the event queue until the context is cancelled.
func (r *StateReconciler) Run(ctx context.Context) {
	sweep := time.NewTicker(constants.MarkerSweepInterval)
	defer sweep.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Debugf("reconciler (%s): stop signal received", r.name)
			return

		case evt := <-r.events:
			r.handle(evt)

		case t := <-sweep.C:
			r.expireMarkers(t)
		}
	}
}

// SetState drives the virtual light to the requested state, issuing
// commands to every member whose target changed. Blocks until the
// commands have been dispatched and returns the per-member outcome.
func (r *StateReconciler) SetState(on bool, brightness *int) DispatchReport {
	reply := make(chan DispatchReport, 1)
	r.events <- event{kind: eventCommand, on: on, brightness: brightness, reportReply: reply}
	return <-reply
}

// Observe enqueues a member state report from the device stream.
func (r *StateReconciler) Observe(memberID string, observation models.Observation) {
	r.events <- event{kind: eventObservation, memberID: memberID, observation: observation}
}

// SetAvailable marks a member (un)reachable. Unreachable members are
// skipped by command dispatch and excluded from inference.
func (r *StateReconciler) SetAvailable(memberID string, available bool) {
	r.events <- event{kind: eventAvailability, memberID: memberID, available: available}
}

func (r *StateReconciler) GetState() models.ControlState {
	reply := make(chan models.ControlState, 1)
	r.events <- event{kind: eventGetState, stateReply: reply}
	return <-reply
}

// Subscribe registers a channel receiving every reported state change.
// Slow subscribers are skipped rather than blocking reconciliation.
func (r *StateReconciler) Subscribe(ch chan models.ControlState) {
	r.subscriberMu.Lock()
	defer r.subscriberMu.Unlock()
	r.subscribers = append(r.subscribers, ch)
}

func (r *StateReconciler) handle(evt event) {
	switch evt.kind {
	case eventCommand:
		evt.reportReply <- r.handleCommand(evt.on, evt.brightness)
	case eventObservation:
		r.handleObservation(evt.memberID, evt.observation)
	case eventAvailability:
		r.handleAvailability(evt.memberID, evt.available)
	case eventGetState:
		evt.stateReply <- r.state
	}
}

func (r *StateReconciler) handleCommand(on bool, brightness *int) DispatchReport {
	control := r.normaliseControl(on, brightness)
	targets := r.mapper.Forward(control)

	r.logger.Debugf("(%s): command in, driving members to control value %d", r.name, control)

	report := DispatchReport{Failed: map[string]error{}}
	now := time.Now()

	for _, id := range r.mapper.Members() {
		target := targets[id]

		if r.unavailable[id] {
			r.logger.Debugf("(%s): member (%s) unreachable, skipping command", r.name, id)
			report.Skipped = append(report.Skipped, id)
			continue
		}

		if last, known := r.lastTargets[id]; known && targetsEqual(last, target) {
			continue
		}

		if err := r.dispatch(id, target); err != nil {
			r.logger.Error("error sending command to member", "light", r.name, "member", id, "err", err)
			report.Failed[id] = err
			continue
		}

		r.markers[id] = pendingMarker{token: uuid.New(), target: target, expires: now.Add(r.markerTimeout)}
		r.lastTargets[id] = target
		if err := r.store.SetMemberCommanded(id, target); err != nil {
			r.logger.Error(err)
		}
		report.Issued = append(report.Issued, id)
	}

	// optimistic, a later observation will contradict us if needed
	r.setControl(control)

	return report
}

func (r *StateReconciler) dispatch(id string, target models.MemberTarget) error {
	if !target.On {
		return r.device.SetOnOff(id, false)
	}
	if target.Brightness != nil {
		return r.device.SetBrightness(id, *target.Brightness)
	}
	return r.device.SetOnOff(id, true)
}

func (r *StateReconciler) handleObservation(memberID string, observation models.Observation) {
	if _, known := r.mapper.Profile(memberID); !known {
		r.logger.Debugf("(%s): observation for unknown member (%s), ignoring", r.name, memberID)
		return
	}

	if err := r.store.SetMemberObserved(memberID, observation.On, observation.Brightness); err != nil {
		r.logger.Error(err)
	}

	if marker, pending := r.markers[memberID]; pending {
		if observation.Time.Before(marker.expires) && matchesTarget(marker.target, observation) {
			// confirmation of our own command, already reflected
			r.logger.Debugf("(%s): member (%s) confirmed command %s", r.name, memberID, marker.token)
			delete(r.markers, memberID)
			r.observations[memberID] = observation
			return
		}
		// the member did something other than what we asked for,
		// treat it as an external change
		delete(r.markers, memberID)
	}

	r.logger.Debugf("(%s): external change on member (%s)", r.name, memberID)

	r.observations[memberID] = observation
	r.lastTargets[memberID] = models.MemberTarget{On: observation.On, Brightness: observation.Brightness}

	control, err := r.mapper.InferControl(r.usableObservations(), r.lastControl)
	if err != nil {
		// no usable evidence, never guess
		r.logger.Debugf("(%s): %v, leaving state unchanged", r.name, err)
		return
	}

	// update the reported state only; siblings are deliberately not
	// re-synchronised to the inferred value, that way a manual change
	// to one member cannot oscillate through the whole group
	r.setControl(control)
}

func (r *StateReconciler) handleAvailability(memberID string, available bool) {
	if _, known := r.mapper.Profile(memberID); !known {
		return
	}

	if available {
		r.logger.Debugf("(%s): member (%s) became reachable", r.name, memberID)
		delete(r.unavailable, memberID)
	} else {
		r.logger.Debugf("(%s): member (%s) became unreachable", r.name, memberID)
		r.unavailable[memberID] = true
		delete(r.observations, memberID)
		delete(r.markers, memberID)
		delete(r.lastTargets, memberID)
	}

	if err := r.store.SetMemberAvailable(memberID, available); err != nil {
		r.logger.Error(err)
	}
}

func (r *StateReconciler) expireMarkers(now time.Time) {
	for id, marker := range r.markers {
		if now.After(marker.expires) {
			r.logger.Debugf("(%s): command %s to member (%s) was never confirmed", r.name, marker.token, id)
			delete(r.markers, id)
		}
	}
}

func (r *StateReconciler) normaliseControl(on bool, brightness *int) int {
	if !on {
		return 0
	}
	if brightness != nil {
		return clamp(*brightness)
	}
	if r.lastNonZero > 0 {
		return r.lastNonZero
	}
	return constants.DefaultOnBrightness
}

func (r *StateReconciler) setControl(control int) {
	var state models.ControlState
	if control > 0 {
		state = models.ControlState{On: true, Brightness: control}
		r.lastNonZero = control
	} else {
		state = models.ControlState{On: false}
	}
	r.lastControl = control

	if state == r.state {
		return
	}
	r.state = state

	if err := r.store.SetVirtualLightState(r.name, state); err != nil {
		r.logger.Error(err)
	}
	r.notify(state)
}

func (r *StateReconciler) notify(state models.ControlState) {
	r.subscriberMu.Lock()
	defer r.subscriberMu.Unlock()
	for _, ch := range r.subscribers {
		select {
		case ch <- state:
		default:
			r.logger.Warn("state subscriber is not keeping up, dropping update", "light", r.name)
		}
	}
}

func (r *StateReconciler) usableObservations() map[string]models.Observation {
	usable := make(map[string]models.Observation, len(r.observations))
	for id, obs := range r.observations {
		if !r.unavailable[id] {
			usable[id] = obs
		}
	}
	return usable
}

func targetsEqual(a models.MemberTarget, b models.MemberTarget) bool {
	if a.On != b.On {
		return false
	}
	if a.Brightness == nil || b.Brightness == nil {
		return a.Brightness == b.Brightness
	}
	return *a.Brightness == *b.Brightness
}

// matchesTarget reports whether an observation confirms a commanded
// target, allowing a small brightness deviation for devices that snap
// to their own internal scale
func matchesTarget(target models.MemberTarget, observation models.Observation) bool {
	if target.On != observation.On {
		return false
	}
	if target.Brightness == nil || observation.Brightness == nil {
		return true
	}
	diff := *target.Brightness - *observation.Brightness
	if diff < 0 {
		diff = -diff
	}
	return diff <= constants.ObservationToleranceBrightness
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
