package env

const AppName = "mbrscope"

// Set at build time with -ldflags "-X github.com/ostafen/mbrscope/internal/env.Version=...".
var (
	Version    = "dev"
	CommitHash = "unknown"
	BuildTime  = "unknown"
)
