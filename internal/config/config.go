package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type Breakpoint struct {
	Control int `json:"control" mapstructure:"control"`
	Output  int `json:"output" mapstructure:"output"`
}

type Member struct {
	Id   string `json:"id" mapstructure:"id"`
	Name string `json:"name" mapstructure:"name"`
	// "dimmable" or "onoff"; left empty the capability is detected
	// from the bridge at startup
	Capability  string       `json:"capability" mapstructure:"capability"`
	Breakpoints []Breakpoint `json:"breakpoints" mapstructure:"breakpoints"`
}

type VirtualLight struct {
	Name    string   `json:"name" mapstructure:"name"`
	Members []Member `json:"members" mapstructure:"members"`
}

type Config struct {
	BridgeIP             string         `json:"bridgeIp" mapstructure:"bridgeIp"`
	HueAppKey            string         `json:"hueApplicationKey" mapstructure:"hueApplicationKey"`
	DatabasePath         string         `json:"databasePath" mapstructure:"databasePath"`
	LogFile              string         `json:"logFile" mapstructure:"logFile"`
	ApiPort              int            `json:"apiPort" mapstructure:"apiPort"`
	MarkerTimeoutSeconds int            `json:"markerTimeoutSeconds" mapstructure:"markerTimeoutSeconds"`
	Lights               []VirtualLight `json:"lights" mapstructure:"lights"`
}

func InitialiseConfig() (*Config, error) {
	viper.SetConfigName("config")                 // name of config file (without extension)
	viper.SetConfigType("json")                   // REQUIRED if the config file does not have the extension in the name
	viper.AddConfigPath("/etc/lumener/")          // path to look for the config file in
	viper.AddConfigPath("$HOME/.config/lumener/") // call multiple times to add many search paths
	viper.AddConfigPath(".")                      // optionally look for config in the working directory

	viper.SetDefault("databasePath", "lumener.db")
	viper.SetDefault("apiPort", 8080)
	viper.SetDefault("markerTimeoutSeconds", 5)

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("fatal error config file: %w", err)
	}

	config := Config{}
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("fatal error parsing config file: %w", err)
	}

	return &config, nil
}
