package hue

import (
	"bytes"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/samber/lo"
	"github.com/spf13/viper"

	"github.com/lumener/lumener/internal/models"
)

// ErrUnreachable is returned when the bridge reports a light as
// powered down or otherwise not accepting commands.
var ErrUnreachable = errors.New("unreachable")

// HueAPIService talks to the Hue bridge CLIP v2 API. It is the
// device-control collaborator driving the member lights.
type HueAPIService struct {
	logger *log.Logger
}

func NewHueAPIService(logger *log.Logger) *HueAPIService {
	return &HueAPIService{logger}
}

func (h *HueAPIService) GET(url string) ([]byte, error) {
	return h.makeRequest("GET", url, nil)
}

func (h *HueAPIService) PUT(url string, body []byte) ([]byte, error) {
	return h.makeRequest("PUT", url, body)
}

// MemberState is a member light's bridge-side state at startup,
// including the zigbee service id used to track reachability.
type MemberState struct {
	ZigbeeServiceID string
	Capability      models.Capability
	Observation     models.Observation
}

// GetMember reads the current state of one member light.
func (h *HueAPIService) GetMember(id string) (*MemberState, error) {

	// get the light
	body, err := h.GET(fmt.Sprintf("/clip/v2/resource/light/%s", id))
	if err != nil {
		return nil, err
	}
	lresp := LightResponse{}
	if err := json.Unmarshal(body, &lresp); err != nil {
		return nil, fmt.Errorf("error parsing light response for (%s): %w", id, err)
	}
	if len(lresp.Data) == 0 {
		return nil, fmt.Errorf("light (%s) not found on bridge", id)
	}
	light := lresp.Data[0]

	// get the owning device for the zigbee connectivity service
	body, err = h.GET(fmt.Sprintf("/clip/v2/resource/device/%s", light.Owner.DeviceID))
	if err != nil {
		return nil, err
	}
	dresp := DevicesResponse{}
	if err := json.Unmarshal(body, &dresp); err != nil {
		return nil, fmt.Errorf("error parsing device response for (%s): %w", id, err)
	}

	var zigbeeID string
	if len(dresp.Data) > 0 {
		zbService, found := lo.Find(dresp.Data[0].Services, func(s HueDeviceService) bool {
			return s.RType == "zigbee_connectivity"
		})
		if found {
			zigbeeID = zbService.RID
		}
	}

	state := &MemberState{
		ZigbeeServiceID: zigbeeID,
		Capability:      models.CapabilityOnOff,
		Observation:     models.Observation{On: light.On.On},
	}

	if light.Dimming != nil {
		state.Capability = models.CapabilityDimmable
		if light.On.On {
			brightness := int(math.Round(light.Dimming.Brightness))
			state.Observation.Brightness = &brightness
		}
	}

	return state, nil
}

// SetBrightness turns a member on at the given brightness percentage.
func (h *HueAPIService) SetBrightness(id string, percent int) error {
	requestBody := []byte(fmt.Sprintf(`{ "dimming": { "brightness": %d }, "on": { "on": true } }`, percent))
	_, err := h.PUT(fmt.Sprintf("/clip/v2/resource/light/%s", id), requestBody)
	return err
}

// SetOnOff switches a member on or off without touching brightness.
func (h *HueAPIService) SetOnOff(id string, on bool) error {
	requestBody := []byte(fmt.Sprintf(`{ "on": { "on": %t } }`, on))
	_, err := h.PUT(fmt.Sprintf("/clip/v2/resource/light/%s", id), requestBody)
	return err
}

func (h *HueAPIService) makeRequest(verb string, url string, body []byte) ([]byte, error) {

	bodyReader := bytes.NewReader(body)
	req, err := http.NewRequest(verb, fmt.Sprintf("https://%s%s", viper.GetString("bridgeIp"), url), bodyReader)
	if err != nil {
		return nil, err
	}

	// set headers
	req.Header.Set("hue-application-key", viper.GetString("hueApplicationKey"))
	tr := &http.Transport{
		TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
	}
	client := &http.Client{Transport: tr}

	// make the request
	resp, err := client.Do(req)
	if err != nil {
		h.logger.Error(err)
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case 200:
		// all good
		responseBody, _ := io.ReadAll(resp.Body)
		return responseBody, nil
	case 207:
		// the bridge accepted the request but the light didn't
		return nil, ErrUnreachable
	default:
		h.logger.Error("Error making Hue API call", "url", url, "status", resp.Status)
		return nil, fmt.Errorf("hue api call failed: %s", resp.Status)
	}

}
