package config

const (
	defaultFramesToExtract = 20
	defaultSkipFraction    = 0.10
	defaultMinFrameCount   = 10
	defaultModelDir        = "~/.local/share/fancam/models"
	defaultEps             = 0.4
	defaultMinSamples      = 1
	defaultOutputDirName   = "organized"
	defaultLogDir          = "~/.local/share/fancam/logs"
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
)

// defaultVideoExtensions mirrors the container formats fancams commonly ship in.
func defaultVideoExtensions() []string {
	return []string{".mp4", ".avi", ".mov", ".mkv", ".webm", ".flv", ".wmv"}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Sampling: Sampling{
			FramesToExtract: defaultFramesToExtract,
			SkipFraction:    defaultSkipFraction,
			MinFrameCount:   defaultMinFrameCount,
		},
		Detector: Detector{
			ModelDir: defaultModelDir,
		},
		Clustering: Clustering{
			Eps:        defaultEps,
			MinSamples: defaultMinSamples,
		},
		Organize: Organize{
			VideoExtensions: defaultVideoExtensions(),
			OutputDirName:   defaultOutputDirName,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
			LogDir: defaultLogDir,
		},
	}
}
