// Package config handles tool configuration loading and management.
package config

// Config holds all settings.
type Config struct {
	Data      DataConfig      `yaml:"data"`
	Animation AnimationConfig `yaml:"animation"`
	Editor    EditorConfig    `yaml:"editor"`
	Flight    FlightConfig    `yaml:"flight"`
	Export    ExportConfig    `yaml:"export"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// DataConfig holds data file locations.
type DataConfig struct {
	Dir   string `yaml:"dir"`   // Base directory for mesh and texture paths
	Model string `yaml:"model"` // Default model file
}

// AnimationConfig holds playback settings.
type AnimationConfig struct {
	StartDelayMs int `yaml:"start_delay_ms"` // Delay before the first keyframe
	TickMs       int `yaml:"tick_ms"`        // Simulated frame time for headless playback
}

// EditorConfig holds animation editor settings.
type EditorConfig struct {
	FrameIntervalMs int     `yaml:"frame_interval_ms"`
	RotateStep      float32 `yaml:"rotate_step"` // Degrees per rotate command
	Output          string  `yaml:"output"`
}

// FlightConfig holds flock settings.
type FlightConfig struct {
	WorldSize float32 `yaml:"world_size"`
	MaxBirds  int     `yaml:"max_birds"`
	Seed      int64   `yaml:"seed"`
}

// ExportConfig holds glTF export settings.
type ExportConfig struct {
	Binary bool `yaml:"binary"` // Write .glb instead of .gltf
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Data: DataConfig{
			Dir:   "data",
			Model: "data/model/bird.mdl",
		},
		Animation: AnimationConfig{
			StartDelayMs: 50,
			TickMs:       16,
		},
		Editor: EditorConfig{
			FrameIntervalMs: 200,
			RotateStep:      5,
			Output:          "animation.txt",
		},
		Flight: FlightConfig{
			WorldSize: 512,
			MaxBirds:  128,
			Seed:      1,
		},
		Export: ExportConfig{
			Binary: true,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
