package hue

type HueDeviceService struct {
	RID   string `json:"rid"`
	RType string `json:"rtype"`
}

type HueDevice struct {
	Id       string `json:"id"`
	Metadata struct {
		Name string `json:"name"`
		Type string `json:"archetype"`
	} `json:"metadata"`
	Services []HueDeviceService `json:"services"`
}

type HueLight struct {
	HueDevice
	Owner struct {
		DeviceID string `json:"rid"`
	} `json:"owner"`
	On struct {
		On bool `json:"on"`
	} `json:"on"`
	Dimming *struct {
		Brightness float64 `json:"brightness"`
	} `json:"dimming"`
}

type DevicesResponse struct {
	Errors []interface{} `json:"errors"`
	Data   []HueDevice   `json:"data"`
}

type LightResponse struct {
	Errors []interface{} `json:"errors"`
	Data   []HueLight    `json:"data"`
}
