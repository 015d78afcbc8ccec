package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// ConfigFileName is the name of the configuration file looked up in the config directory.
const ConfigFileName = "oxy_world.cfg.json"

// WindowConfig holds the viewer window settings.
type WindowConfig struct {
	Width  int    `json:"width" mapstructure:"width"`
	Height int    `json:"height" mapstructure:"height"`
	Title  string `json:"title" mapstructure:"title"`
}

// RenderConfig holds renderer backend settings.
type RenderConfig struct {
	Backend    string `json:"backend" mapstructure:"backend"`
	MSAA       int    `json:"msaa" mapstructure:"msaa"`
	VSync      bool   `json:"vsync" mapstructure:"vsync"`
	DebugPaths bool   `json:"debugPaths" mapstructure:"debugPaths"`
	// Frames is the number of frames rendered in headless mode.
	Frames int `json:"frames" mapstructure:"frames"`
	// DrawCapacity is the initial number of per-draw uniform slots.
	DrawCapacity int `json:"drawCapacity" mapstructure:"drawCapacity"`
}

// WorldConfig holds simulation settings.
type WorldConfig struct {
	WeatherPreset string `json:"weatherPreset" mapstructure:"weatherPreset"`
	// StartTime is the game clock at start-up in minutes since midnight.
	StartTime float32 `json:"startTime" mapstructure:"startTime"`
	// TimeScale is game minutes per real second.
	TimeScale float32 `json:"timeScale" mapstructure:"timeScale"`
	TickRate  float64 `json:"tickRate" mapstructure:"tickRate"`
}

// WaterConfig holds the water grid layout and the height table path.
type WaterConfig struct {
	WorldSize    float32 `json:"worldSize" mapstructure:"worldSize"`
	HQDataSize   int     `json:"hqDataSize" mapstructure:"hqDataSize"`
	LQDataSize   int     `json:"lqDataSize" mapstructure:"lqDataSize"`
	HQDistance   float32 `json:"hqDistance" mapstructure:"hqDistance"`
	NoWaterIndex int     `json:"noWaterIndex" mapstructure:"noWaterIndex"`
	// Table is the path of the binary height table. Empty selects a flat table.
	Table string `json:"table" mapstructure:"table"`
	// Height is the water level of the flat table.
	Height float32 `json:"height" mapstructure:"height"`
}

// AssetsConfig holds asset store settings.
type AssetsConfig struct {
	Dir     string `json:"dir" mapstructure:"dir"`
	Workers int    `json:"workers" mapstructure:"workers"`
}

// CatalogConfig holds the object definition database settings.
type CatalogConfig struct {
	// Path is the sqlite file. Empty opens an in-memory database.
	Path string `json:"path" mapstructure:"path"`
}

// CameraConfig holds the projection settings of the viewer camera.
type CameraConfig struct {
	Fov  float32 `json:"fov" mapstructure:"fov"`
	Near float32 `json:"near" mapstructure:"near"`
}

// Settings is a typed snapshot of the whole configuration.
type Settings struct {
	LogLevel string        `json:"logLevel" mapstructure:"logLevel"`
	Window   WindowConfig  `json:"window" mapstructure:"window"`
	Render   RenderConfig  `json:"render" mapstructure:"render"`
	World    WorldConfig   `json:"world" mapstructure:"world"`
	Water    WaterConfig   `json:"water" mapstructure:"water"`
	Assets   AssetsConfig  `json:"assets" mapstructure:"assets"`
	Catalog  CatalogConfig `json:"catalog" mapstructure:"catalog"`
	Camera   CameraConfig  `json:"camera" mapstructure:"camera"`
}

// SetDefaults registers the default value of every key.
func SetDefaults() {
	viper.SetDefault("logLevel", "info")

	viper.SetDefault("window.width", 1280)
	viper.SetDefault("window.height", 720)
	viper.SetDefault("window.title", "oxy-world")

	viper.SetDefault("render.backend", "wgpu")
	viper.SetDefault("render.msaa", 4)
	viper.SetDefault("render.vsync", true)
	viper.SetDefault("render.debugPaths", false)
	viper.SetDefault("render.frames", 60)
	viper.SetDefault("render.drawCapacity", 1024)

	viper.SetDefault("world.weatherPreset", "sunny")
	viper.SetDefault("world.startTime", 720)
	viper.SetDefault("world.timeScale", 1)
	viper.SetDefault("world.tickRate", 30)

	viper.SetDefault("water.worldSize", 4096)
	viper.SetDefault("water.hqDataSize", 128)
	viper.SetDefault("water.lqDataSize", 64)
	viper.SetDefault("water.hqDistance", 512)
	viper.SetDefault("water.noWaterIndex", 48)
	viper.SetDefault("water.table", "")
	viper.SetDefault("water.height", 0)

	viper.SetDefault("assets.dir", "./data")
	viper.SetDefault("assets.workers", 4)

	viper.SetDefault("catalog.path", "")

	viper.SetDefault("camera.fov", 60)
	viper.SetDefault("camera.near", 0.1)
}

// Load reads configuration from the JSON file in configDir on top of the defaults.
//
// Parameters:
//   - configDir: the directory containing oxy_world.cfg.json
//
// Returns:
//   - error: an error if the file is missing or malformed
func Load(configDir string) error {
	SetDefaults()

	viper.SetConfigName(ConfigFileName)
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}
	return nil
}

// Current decodes the loaded configuration into a Settings snapshot.
//
// Returns:
//   - Settings: the snapshot
//   - error: an error if a value cannot be decoded into its field
func Current() (Settings, error) {
	var s Settings
	if err := viper.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("error decoding config: %w", err)
	}
	return s, nil
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetFloat returns a float config value.
func GetFloat(key string) float64 {
	return viper.GetFloat64(key)
}
