// Package config handles terrainview configuration loading and management.
package config

// Config holds all settings.
type Config struct {
	Logging LoggingConfig `yaml:"logging"`
	Decode  DecodeConfig  `yaml:"decode"`
	Render  RenderConfig  `yaml:"render"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// DecodeConfig controls how archives are decoded.
type DecodeConfig struct {
	Workers         int    `yaml:"workers"`          // parallel block decoders, 1 = sequential
	VerifyCRC       bool   `yaml:"verify_crc"`       // skip blocks with a bad checksum
	ExpectedVersion uint16 `yaml:"expected_version"` // 0 = accept any
	ExpectedSpacing uint16 `yaml:"expected_spacing"` // 0 = accept any
}

// RenderConfig holds image output settings.
type RenderConfig struct {
	Output string `yaml:"output"` // empty = derive from archive name
	Scale  int    `yaml:"scale"`
	Method string `yaml:"method"` // nearest, bilinear, catmullrom
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
		Decode: DecodeConfig{
			Workers:         1,
			VerifyCRC:       false,
			ExpectedVersion: 0,
			ExpectedSpacing: 0,
		},
		Render: RenderConfig{
			Output: "",
			Scale:  1,
			Method: "nearest",
		},
	}
}
