package common

import "time"

// Default launch timings.
const (
	// DefaultLaunchTimeout bounds how long a launch waits for the
	// browser to print its DevTools WebSocket URL.
	DefaultLaunchTimeout = 10 * time.Second

	// DefaultPollInterval is how often the launch wait loop re-checks
	// the endpoint slot and the process status.
	DefaultPollInterval = 100 * time.Millisecond

	// DefaultProfileName is the directory name used under the user
	// cache root for persistent profiles.
	DefaultProfileName = "web-intel-profile"
)

// Viewport represents the browser window size.
type Viewport struct {
	Width  int64
	Height int64
}

// LaunchOptions is an immutable snapshot of all launch options. It is
// assembled by the caller-facing builder, consumed exactly once at
// launch time, and never mutated after the process has been spawned.
type LaunchOptions struct {
	ProfileName    string
	Viewport       *Viewport
	Headless       bool
	Extensions     []string
	ExecutablePath string
	Ephemeral      bool
	AIFlags        bool
	ExtraArgs      []string
	AppMode        bool
	StartURL       string

	// Env holds extra environment variables injected into the child
	// process, e.g. the API keys and the strategy marker.
	Env map[string]string

	Timeout      time.Duration
	PollInterval time.Duration
}

// NewLaunchOptions returns a LaunchOptions with the defaults applied.
func NewLaunchOptions() *LaunchOptions {
	return &LaunchOptions{
		ProfileName:  DefaultProfileName,
		AIFlags:      true,
		Env:          make(map[string]string),
		Timeout:      DefaultLaunchTimeout,
		PollInterval: DefaultPollInterval,
	}
}
