package config

const (
	defaultSourceDir  = "~/downloads"
	defaultLibraryDir = "~/library/tv"
	defaultLogDir     = "~/.local/share/linkarr/logs"
	defaultLogFormat  = "console"
	defaultLogLevel   = "info"
	defaultWorkers    = 4
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			SourceDir:  defaultSourceDir,
			LibraryDir: defaultLibraryDir,
			LogDir:     defaultLogDir,
		},
		Matching: Matching{
			PartSpacingVariants: true,
		},
		Workers: Workers{
			Count: defaultWorkers,
		},
		Cleanup: Cleanup{
			Enabled: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
