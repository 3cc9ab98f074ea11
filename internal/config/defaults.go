package config

// Default values.
const (
	DefaultPattern       = "frame_%05d.png"
	DefaultKeyColor      = "#00ff00"
	DefaultThreshold     = 100
	DefaultFPS           = 60
	DefaultInterpolation = "bilinear"
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "text"
)

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Output: OutputConfig{
			Pattern: DefaultPattern,
		},
		Key: KeyConfig{
			Color:     DefaultKeyColor,
			Threshold: DefaultThreshold,
		},
		Background: BackgroundConfig{
			Color: DefaultKeyColor,
		},
		Render: RenderConfig{
			FPS:           DefaultFPS,
			Workers:       1,
			Interpolation: DefaultInterpolation,
		},
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
