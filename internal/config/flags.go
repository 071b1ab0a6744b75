package config

// Overrides carries command-line values that take priority over the config
// file. Zero values leave the loaded setting untouched.
type Overrides struct {
	ConfigPath string
	Debug      bool
	LogLevel   string
	LogFile    string

	Workers         int
	VerifyCRC       bool
	ExpectedVersion uint16
	ExpectedSpacing uint16

	Output string
	Scale  int
	Method string
}

// applyOverrides applies CLI flag overrides to the config.
func applyOverrides(cfg *Config, o Overrides) {
	if o.LogLevel != "" {
		cfg.Logging.Level = o.LogLevel
	}
	if o.Debug {
		cfg.Logging.Level = "debug"
	}
	if o.LogFile != "" {
		cfg.Logging.LogFile = o.LogFile
	}
	if o.Workers > 0 {
		cfg.Decode.Workers = o.Workers
	}
	if o.VerifyCRC {
		cfg.Decode.VerifyCRC = true
	}
	if o.ExpectedVersion > 0 {
		cfg.Decode.ExpectedVersion = o.ExpectedVersion
	}
	if o.ExpectedSpacing > 0 {
		cfg.Decode.ExpectedSpacing = o.ExpectedSpacing
	}
	if o.Output != "" {
		cfg.Render.Output = o.Output
	}
	if o.Scale > 0 {
		cfg.Render.Scale = o.Scale
	}
	if o.Method != "" {
		cfg.Render.Method = o.Method
	}
}
