package config

const (
	defaultOutputDir          = "~/Videos/brancoder"
	defaultLogDir             = "~/.local/share/brancoder/logs"
	defaultStateDir           = "~/.local/share/brancoder"
	defaultContainer          = "mp4"
	defaultVideoCodec         = "libx264"
	defaultAudioCodec         = "aac"
	defaultQualityFactor      = 23
	defaultPasses             = 1
	defaultSampleSeconds      = 2
	defaultNtfyRequestTimeout = 10
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			OutputDir: defaultOutputDir,
			LogDir:    defaultLogDir,
			StateDir:  defaultStateDir,
		},
		Render: Render{
			Container:     defaultContainer,
			VideoCodec:    defaultVideoCodec,
			AudioCodec:    defaultAudioCodec,
			QualityFactor: defaultQualityFactor,
			Passes:        defaultPasses,
		},
		Estimate: Estimate{
			SampleSeconds: defaultSampleSeconds,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNtfyRequestTimeout,
			Completion:     true,
			Errors:         true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
