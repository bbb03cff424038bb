package supervisor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	sse "github.com/r3labs/sse/v2"
	"github.com/samber/lo"

	"github.com/lumener/lumener/internal/concurrency"
	"github.com/lumener/lumener/internal/config"
	"github.com/lumener/lumener/internal/constants"
	"github.com/lumener/lumener/internal/curve"
	"github.com/lumener/lumener/internal/group"
	"github.com/lumener/lumener/internal/hue"
	"github.com/lumener/lumener/internal/models"
	"github.com/lumener/lumener/internal/profile"
	"github.com/lumener/lumener/internal/reconciler"
	"github.com/lumener/lumener/internal/repos"
)

var ErrUnknownLight = errors.New("unknown virtual light")

type deviceService interface {
	GetMember(id string) (*hue.MemberState, error)
	SetBrightness(memberID string, percent int) error
	SetOnOff(memberID string, on bool) error
}

type eventConsumer interface {
	Subscribe(chan *sse.Event)
	Unsubscribe()
}

type stateRepo interface {
	AddMembers(members []repos.MemberRecord) error
	SetMemberObserved(memberID string, on bool, brightness *int) error
	SetMemberAvailable(memberID string, available bool) error
	SetMemberCommanded(memberID string, target models.MemberTarget) error
	SetVirtualLightState(name string, state models.ControlState) error
	GetVirtualLightState(name string) (models.ControlState, bool, error)
}

type LightInfo struct {
	Name  string              `json:"name"`
	State models.ControlState `json:"state"`
}

// a virtual light state change, for the notification stream
type StateChange struct {
	Light string              `json:"light"`
	State models.ControlState `json:"state"`
}

// Supervisor builds one reconciler per configured virtual light, routes
// bridge events to the owning reconciler and exposes the virtual
// lights upward. Reconcilers run on their own goroutines; slow device
// I/O for one light never blocks the others.
type Supervisor struct {
	logger   *log.Logger
	cfg      *config.Config
	device   deviceService
	consumer eventConsumer
	repo     stateRepo

	order       []string
	reconcilers map[string]*reconciler.StateReconciler
	byMember    map[string]*reconciler.StateReconciler
	byZigbee    map[string]string

	// last merged observation per member, bridge events carry only the
	// fields that changed
	lastSeen map[string]models.Observation

	subscriberMu sync.Mutex
	subscribers  []chan StateChange
}

func New(
	logger *log.Logger,
	cfg *config.Config,
	device deviceService,
	consumer eventConsumer,
	repo stateRepo,
) *Supervisor {
	return &Supervisor{
		logger:      logger,
		cfg:         cfg,
		device:      device,
		consumer:    consumer,
		repo:        repo,
		reconcilers: map[string]*reconciler.StateReconciler{},
		byMember:    map[string]*reconciler.StateReconciler{},
		byZigbee:    map[string]string{},
		lastSeen:    map[string]models.Observation{},
	}
}

// Initialise reads the current state of every configured member from
// the bridge and builds the reconcilers. Malformed curve configuration
// fails here, never at runtime.
func (s *Supervisor) Initialise() error {
	s.logger.Debug("Supervisor.Initialise")

	memberStates := s.readMemberStates()

	var records []repos.MemberRecord
	markerTimeout := time.Duration(s.cfg.MarkerTimeoutSeconds) * time.Second

	for _, light := range s.cfg.Lights {

		var profiles []profile.Profile
		for _, member := range light.Members {

			if _, claimed := s.byMember[member.Id]; claimed {
				return fmt.Errorf("member (%s) is configured in more than one virtual light", member.Id)
			}

			points := lo.Map(member.Breakpoints, func(b config.Breakpoint, _ int) curve.Breakpoint {
				return curve.Breakpoint{Control: b.Control, Output: b.Output}
			})
			table, err := curve.Build(points)
			if err != nil {
				return fmt.Errorf("virtual light (%s), member (%s): %w", light.Name, member.Id, err)
			}

			capability := s.resolveCapability(member, memberStates[member.Id])
			profiles = append(profiles, profile.New(member.Id, member.Name, capability, table))

			record := repos.MemberRecord{
				ID:           member.Id,
				Name:         member.Name,
				VirtualLight: light.Name,
				Capability:   capability,
			}
			if state := memberStates[member.Id]; state != nil {
				record.ZigbeeServiceID = state.ZigbeeServiceID
				s.byZigbee[state.ZigbeeServiceID] = member.Id
				s.lastSeen[member.Id] = state.Observation
			}
			records = append(records, record)
		}

		mapper, err := group.NewMapper(profiles)
		if err != nil {
			return fmt.Errorf("virtual light (%s): %w", light.Name, err)
		}

		r := reconciler.NewStateReconciler(s.logger, light.Name, mapper, s.device, s.repo, markerTimeout)

		previous, found, err := s.repo.GetVirtualLightState(light.Name)
		if err != nil {
			s.logger.Error(err)
		} else if found {
			r.RestoreState(previous)
		}

		s.order = append(s.order, light.Name)
		s.reconcilers[light.Name] = r
		for _, member := range light.Members {
			s.byMember[member.Id] = r
		}
	}

	if err := s.repo.AddMembers(records); err != nil {
		return err
	}

	s.logger.Info("Initialised virtual lights", "lights", len(s.order), "members", len(s.byMember))
	return nil
}

// readMemberStates reads every configured member's bridge state,
// throttled so the bridge isn't flooded at startup. Unreachable
// members are logged and resolved later through connectivity events.
func (s *Supervisor) readMemberStates() map[string]*hue.MemberState {
	states := map[string]*hue.MemberState{}

	var ids []string
	for _, light := range s.cfg.Lights {
		for _, member := range light.Members {
			ids = append(ids, member.Id)
		}
	}

	worker := concurrency.NewThrottledWorker(func(id string) error {
		state, err := s.device.GetMember(id)
		if err != nil {
			s.logger.Warn("Member state couldn't be read", "member", id, "err", err)
			return err
		}
		states[id] = state
		return nil
	})
	worker.Run(ids)

	return states
}

func (s *Supervisor) resolveCapability(member config.Member, state *hue.MemberState) models.Capability {
	if member.Capability != "" {
		return models.Capability(member.Capability)
	}
	if state != nil {
		return state.Capability
	}
	// nothing configured and the bridge couldn't be asked
	return models.CapabilityDimmable
}

// Run starts every reconciler, seeds them with the member states read
// at startup and routes bridge events until the context is cancelled.
func (s *Supervisor) Run(ctx context.Context) {
	s.logger.Debug("Supervisor.Run")

	for _, name := range s.order {
		r := s.reconcilers[name]
		go r.Run(ctx)

		updates := make(chan models.ControlState, constants.EventQueueSize)
		r.Subscribe(updates)
		go s.forwardStateChanges(ctx, name, updates)
	}

	// seed the reconcilers with the states read at startup so the
	// reported state reflects the members from the first moment
	for id, observation := range s.lastSeen {
		s.byMember[id].Observe(id, observation)
	}

	eventChannel := make(chan *sse.Event)
	s.consumer.Subscribe(eventChannel)
	defer s.consumer.Unsubscribe()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Supervisor.Run: stop signal received")
			return

		case event := <-eventChannel:
			s.handleBridgeEvent(event)
		}
	}
}

func (s *Supervisor) handleBridgeEvent(event *sse.Event) {
	events := []models.Event{}
	if err := json.Unmarshal(event.Data, &events); err != nil {
		s.logger.Error(err)
		return
	}

	for _, evt := range events {
		if evt.Type != constants.EventBatchTypeUpdate {
			continue
		}
		for _, eventData := range evt.Data {
			switch eventData.Type {

			case constants.EventTypeLight:
				s.handleLightEvent(evt.CreationTime, eventData)

			case constants.EventTypeZigbeeConnectivity:
				s.handleConnectivityEvent(eventData)
			}
		}
	}
}

func (s *Supervisor) handleLightEvent(eventTime time.Time, eventData models.EventData) {
	owner, known := s.byMember[eventData.Id]
	if !known {
		// not a light we are controlling so ignore
		s.logger.Debug("event received for an unmanaged light, ignoring")
		return
	}

	// merge the partial event into the last known member state
	observation := s.lastSeen[eventData.Id]
	if eventData.On != nil {
		observation.On = eventData.On.On
	}
	if eventData.Dimming != nil {
		brightness := int(math.Round(eventData.Dimming.Brightness))
		observation.Brightness = &brightness
	}
	if !observation.On {
		observation.Brightness = nil
	}
	observation.Time = eventTime
	if observation.Time.IsZero() {
		observation.Time = time.Now()
	}

	s.lastSeen[eventData.Id] = observation
	owner.Observe(eventData.Id, observation)
}

func (s *Supervisor) handleConnectivityEvent(eventData models.EventData) {
	memberID, known := s.byZigbee[eventData.Id]
	if !known {
		return
	}
	owner := s.byMember[memberID]

	switch eventData.Status {

	case constants.EventStatusConnectivityIssue:
		s.logger.Debugf("member (%s) became unreachable", memberID)
		owner.SetAvailable(memberID, false)

	case constants.EventStatusConnected:
		s.logger.Debugf("member (%s) was just powered on", memberID)
		owner.SetAvailable(memberID, true)

		// the member may have changed while away, read it fresh
		state, err := s.device.GetMember(memberID)
		if err != nil {
			s.logger.Error(err)
			return
		}
		s.lastSeen[memberID] = state.Observation
		owner.Observe(memberID, state.Observation)
	}
}

func (s *Supervisor) forwardStateChanges(ctx context.Context, name string, updates chan models.ControlState) {
	for {
		select {
		case <-ctx.Done():
			return
		case state := <-updates:
			s.notify(StateChange{Light: name, State: state})
		}
	}
}

func (s *Supervisor) notify(change StateChange) {
	s.subscriberMu.Lock()
	defer s.subscriberMu.Unlock()
	for _, ch := range s.subscribers {
		select {
		case ch <- change:
		default:
			s.logger.Warn("state change subscriber is not keeping up, dropping update")
		}
	}
}

// Subscribe registers a channel receiving every virtual light state
// change.
func (s *Supervisor) Subscribe(ch chan StateChange) {
	s.subscriberMu.Lock()
	defer s.subscriberMu.Unlock()
	s.subscribers = append(s.subscribers, ch)
}

// Lights returns every virtual light and its reported state, in
// configuration order.
func (s *Supervisor) Lights() []LightInfo {
	return lo.Map(s.order, func(name string, _ int) LightInfo {
		return LightInfo{Name: name, State: s.reconcilers[name].GetState()}
	})
}

func (s *Supervisor) GetState(name string) (models.ControlState, error) {
	r, known := s.reconcilers[name]
	if !known {
		return models.ControlState{}, ErrUnknownLight
	}
	return r.GetState(), nil
}

func (s *Supervisor) SetState(name string, on bool, brightness *int) (reconciler.DispatchReport, error) {
	r, known := s.reconcilers[name]
	if !known {
		return reconciler.DispatchReport{}, ErrUnknownLight
	}
	return r.SetState(on, brightness), nil
}
