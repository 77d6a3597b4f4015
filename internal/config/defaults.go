package config

const (
	defaultDataRoot            = "~/PHOENIX"
	defaultLogDir              = "~/.local/share/avexport/logs"
	defaultDBPath              = "~/.local/share/avexport/pipeline.db"
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
	defaultIdleSnoozeSeconds   = 300
	defaultErrorRetrySeconds   = 10
	defaultClaimTimeoutMinutes = 60
)

// Default returns a Config populated with repository defaults. The study
// list is deployment-specific and has no default; validation rejects an
// empty list.
func Default() Config {
	return Config{
		Paths: Paths{
			DataRoot: defaultDataRoot,
			LogDir:   defaultLogDir,
			DBPath:   defaultDBPath,
		},
		Workflow: Workflow{
			IdleSnoozeSeconds:   defaultIdleSnoozeSeconds,
			ErrorRetrySeconds:   defaultErrorRetrySeconds,
			ClaimTimeoutMinutes: defaultClaimTimeoutMinutes,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
