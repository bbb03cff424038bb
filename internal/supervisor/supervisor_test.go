package supervisor_test

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	sse "github.com/r3labs/sse/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/lumener/lumener/internal/config"
	"github.com/lumener/lumener/internal/constants"
	"github.com/lumener/lumener/internal/hue"
	"github.com/lumener/lumener/internal/models"
	"github.com/lumener/lumener/internal/supervisor"
	"github.com/lumener/lumener/mocks"
)

func singleLightConfig() *config.Config {
	return &config.Config{
		MarkerTimeoutSeconds: 5,
		Lights: []config.VirtualLight{{
			Name: "living_room",
			Members: []config.Member{{
				Id:         "ls1",
				Name:       "Lamp",
				Capability: string(models.CapabilityDimmable),
			}},
		}},
	}
}

func memberState(on bool, brightness int) *hue.MemberState {
	state := &hue.MemberState{
		ZigbeeServiceID: "zb1",
		Capability:      models.CapabilityDimmable,
		Observation:     models.Observation{On: on, Time: time.Now()},
	}
	if on {
		state.Observation.Brightness = &brightness
	}
	return state
}

func bridgeEvent(t *testing.T, data models.EventData) *sse.Event {
	t.Helper()
	events := []models.Event{{
		Type:         constants.EventBatchTypeUpdate,
		CreationTime: time.Now(),
		Data:         []models.EventData{data},
	}}
	raw, err := json.Marshal(events)
	assert.NoError(t, err)
	return &sse.Event{Data: raw}
}

func dimmingEvent(t *testing.T, id string, brightness float64) *sse.Event {
	t.Helper()
	return bridgeEvent(t, models.EventData{
		Id:   id,
		Type: constants.EventTypeLight,
		Dimming: &struct {
			Brightness float64 `json:"brightness"`
		}{Brightness: brightness},
	})
}

// expectations common to every startup: one member read from the
// bridge, registered in the repo and seeded into the reconciler
func expectStartup(mockDevice *mocks.MockSupervisorDeviceService, mockRepo *mocks.MockSupervisorStateRepo) {
	mockDevice.On("GetMember", "ls1").Return(memberState(true, 50), nil)
	mockRepo.On("GetVirtualLightState", "living_room").Return(models.ControlState{}, false, nil)
	mockRepo.On("AddMembers", mock.Anything).Return(nil)
	mockRepo.On("SetMemberObserved", "ls1", true, mock.Anything).Return(nil)
	mockRepo.On("SetVirtualLightState", "living_room", mock.Anything).Return(nil)
}

func startSupervisor(t *testing.T, cfg *config.Config, device *mocks.MockSupervisorDeviceService, repo *mocks.MockSupervisorStateRepo) (*supervisor.Supervisor, chan *sse.Event) {
	t.Helper()

	logger := log.NewWithOptions(os.Stderr, log.Options{Level: log.FatalLevel})

	subscribed := make(chan chan *sse.Event, 1)
	mockConsumer := mocks.NewMockSupervisorEventConsumer(t)
	mockConsumer.On("Subscribe", mock.Anything).Run(func(args mock.Arguments) {
		subscribed <- args.Get(0).(chan *sse.Event)
	})
	mockConsumer.On("Unsubscribe").Maybe()

	sup := supervisor.New(logger, cfg, device, mockConsumer, repo)
	assert.NoError(t, sup.Initialise())

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go sup.Run(ctx)

	select {
	case eventChannel := <-subscribed:
		return sup, eventChannel
	case <-time.After(time.Second):
		t.Fatal("supervisor never subscribed to the event stream")
		return nil, nil
	}
}

func hasState(sup *supervisor.Supervisor, want models.ControlState) func() bool {
	return func() bool {
		state, err := sup.GetState("living_room")
		return err == nil && state == want
	}
}

func Test_Run(t *testing.T) {

	t.Run("should seed the reported state from member states read at startup", func(t *testing.T) {
		// arrange
		mockDevice := mocks.NewMockSupervisorDeviceService(t)
		mockRepo := mocks.NewMockSupervisorStateRepo(t)
		expectStartup(mockDevice, mockRepo)

		// act
		sup, _ := startSupervisor(t, singleLightConfig(), mockDevice, mockRepo)

		// assert
		assert.Eventually(t, hasState(sup, models.ControlState{On: true, Brightness: 50}), time.Second, 10*time.Millisecond)
	})

	t.Run("external brightness event: reported state follows the member", func(t *testing.T) {
		// arrange
		mockDevice := mocks.NewMockSupervisorDeviceService(t)
		mockRepo := mocks.NewMockSupervisorStateRepo(t)
		expectStartup(mockDevice, mockRepo)

		sup, eventChannel := startSupervisor(t, singleLightConfig(), mockDevice, mockRepo)

		// act: the member was dimmed to 80 outside of any command
		eventChannel <- dimmingEvent(t, "ls1", 80)

		// assert
		assert.Eventually(t, hasState(sup, models.ControlState{On: true, Brightness: 80}), time.Second, 10*time.Millisecond)
	})

	t.Run("events for unmanaged lights are ignored", func(t *testing.T) {
		// arrange
		mockDevice := mocks.NewMockSupervisorDeviceService(t)
		mockRepo := mocks.NewMockSupervisorStateRepo(t)
		expectStartup(mockDevice, mockRepo)

		sup, eventChannel := startSupervisor(t, singleLightConfig(), mockDevice, mockRepo)

		// act
		eventChannel <- dimmingEvent(t, "someone_elses_light", 10)
		eventChannel <- dimmingEvent(t, "ls1", 30)

		// assert: only our own member's event had any effect
		assert.Eventually(t, hasState(sup, models.ControlState{On: true, Brightness: 30}), time.Second, 10*time.Millisecond)
	})

	t.Run("connectivity issue: member is marked unavailable", func(t *testing.T) {
		// arrange
		mockDevice := mocks.NewMockSupervisorDeviceService(t)
		mockRepo := mocks.NewMockSupervisorStateRepo(t)
		expectStartup(mockDevice, mockRepo)

		excluded := make(chan struct{})
		mockRepo.On("SetMemberAvailable", "ls1", false).Return(nil).Run(func(mock.Arguments) {
			close(excluded)
		})

		_, eventChannel := startSupervisor(t, singleLightConfig(), mockDevice, mockRepo)

		// act
		eventChannel <- bridgeEvent(t, models.EventData{
			Id:     "zb1",
			Type:   constants.EventTypeZigbeeConnectivity,
			Status: constants.EventStatusConnectivityIssue,
		})

		// assert
		select {
		case <-excluded:
		case <-time.After(time.Second):
			t.Fatal("member was never marked unavailable")
		}
	})

	t.Run("reconnect: member state is read fresh from the bridge", func(t *testing.T) {
		// arrange
		mockDevice := mocks.NewMockSupervisorDeviceService(t)
		mockRepo := mocks.NewMockSupervisorStateRepo(t)

		mockDevice.On("GetMember", "ls1").Return(memberState(true, 50), nil).Once()
		// the state read after the reconnect
		mockDevice.On("GetMember", "ls1").Return(memberState(true, 20), nil)
		mockRepo.On("GetVirtualLightState", "living_room").Return(models.ControlState{}, false, nil)
		mockRepo.On("AddMembers", mock.Anything).Return(nil)
		mockRepo.On("SetMemberObserved", "ls1", true, mock.Anything).Return(nil)
		mockRepo.On("SetVirtualLightState", "living_room", mock.Anything).Return(nil)
		mockRepo.On("SetMemberAvailable", "ls1", true).Return(nil)

		sup, eventChannel := startSupervisor(t, singleLightConfig(), mockDevice, mockRepo)

		// act
		eventChannel <- bridgeEvent(t, models.EventData{
			Id:     "zb1",
			Type:   constants.EventTypeZigbeeConnectivity,
			Status: constants.EventStatusConnected,
		})

		// assert
		assert.Eventually(t, hasState(sup, models.ControlState{On: true, Brightness: 20}), time.Second, 10*time.Millisecond)
	})

}

func Test_Initialise(t *testing.T) {

	t.Run("malformed breakpoints fail fast", func(t *testing.T) {
		// arrange
		logger := log.NewWithOptions(os.Stderr, log.Options{Level: log.FatalLevel})
		mockDevice := mocks.NewMockSupervisorDeviceService(t)
		mockRepo := mocks.NewMockSupervisorStateRepo(t)
		mockConsumer := mocks.NewMockSupervisorEventConsumer(t)

		mockDevice.On("GetMember", "ls1").Return(memberState(true, 50), nil)

		cfg := singleLightConfig()
		cfg.Lights[0].Members[0].Breakpoints = []config.Breakpoint{{Control: 150, Output: 50}}

		sup := supervisor.New(logger, cfg, mockDevice, mockConsumer, mockRepo)

		// act/assert
		assert.Error(t, sup.Initialise())
	})

	t.Run("a member cannot belong to two virtual lights", func(t *testing.T) {
		// arrange
		logger := log.NewWithOptions(os.Stderr, log.Options{Level: log.FatalLevel})
		mockDevice := mocks.NewMockSupervisorDeviceService(t)
		mockRepo := mocks.NewMockSupervisorStateRepo(t)
		mockConsumer := mocks.NewMockSupervisorEventConsumer(t)

		mockDevice.On("GetMember", "ls1").Return(memberState(true, 50), nil)
		mockRepo.On("GetVirtualLightState", "living_room").Return(models.ControlState{}, false, nil)

		cfg := singleLightConfig()
		cfg.Lights = append(cfg.Lights, config.VirtualLight{
			Name:    "office",
			Members: []config.Member{{Id: "ls1", Name: "Lamp"}},
		})

		sup := supervisor.New(logger, cfg, mockDevice, mockConsumer, mockRepo)

		// act/assert
		assert.Error(t, sup.Initialise())
	})

}
