// Package webintel launches a Chromium-family browser configured for
// programmatic control: remote debugging on an OS-assigned port, an
// isolated user profile, and optionally the experimental built-in AI
// feature flags. A successful launch hands back a handle carrying the
// browser's DevTools WebSocket endpoint; closing the handle terminates
// the process and removes ephemeral profile storage.
package webintel

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/rvoidex7/web-intelligence-go/chromium"
	"github.com/rvoidex7/web-intelligence-go/common"
	"github.com/rvoidex7/web-intelligence-go/env"
	"github.com/rvoidex7/web-intelligence-go/log"
)

// Errors callers can branch on with errors.Is.
var (
	ErrBrowserNotFound       = common.ErrBrowserNotFound
	ErrBrowserNotFoundAtPath = common.ErrBrowserNotFoundAtPath
	ErrProfileCreation       = common.ErrProfileCreation
	ErrLaunch                = common.ErrLaunch
	ErrWebSocketURLNotFound  = common.ErrWebSocketURLNotFound
	ErrOutputRead            = common.ErrOutputRead
)

// Strategy selects how AI execution is resolved by the browser-side
// tooling. It is passed to the child process as an opaque environment
// marker and never interpreted by this library.
type Strategy int

const (
	// StrategyLocal forces usage of the built-in browser AI.
	StrategyLocal Strategy = iota
	// StrategyCloud skips local checks and always uses a cloud API key.
	StrategyCloud
	// StrategyHybrid tries local first and falls back to cloud.
	StrategyHybrid
)

// String returns the environment marker value for the strategy.
func (s Strategy) String() string {
	switch s {
	case StrategyCloud:
		return "cloud"
	case StrategyHybrid:
		return "hybrid"
	default:
		return "local"
	}
}

// ParseStrategy parses a strategy marker string ("local", "cloud" or
// "hybrid").
func ParseStrategy(s string) (Strategy, error) {
	switch s {
	case "local":
		return StrategyLocal, nil
	case "cloud":
		return StrategyCloud, nil
	case "hybrid":
		return StrategyHybrid, nil
	default:
		return StrategyLocal, fmt.Errorf("invalid AI execution strategy %q, expected local, cloud or hybrid", s)
	}
}

// Launcher configures and launches a browser. Its setters chain and
// the zero value of New is ready to use:
//
//	handle, err := webintel.New().
//		Ephemeral(true).
//		Headless(true).
//		StartURL("https://example.com").
//		Launch(ctx)
type Launcher struct {
	opts         *common.LaunchOptions
	strategy     Strategy
	openAIKey    string
	anthropicKey string
	logger       *logrus.Logger
}

// New creates a launcher with the default settings: a persistent
// profile named "web-intel-profile", AI flags enabled, headed mode, and
// the local AI strategy.
func New() *Launcher {
	return &Launcher{opts: common.NewLaunchOptions()}
}

// ProfileName sets the directory name used for the profile in
// persistent mode.
func (l *Launcher) ProfileName(name string) *Launcher {
	l.opts.ProfileName = name
	return l
}

// Viewport sets the browser window size.
func (l *Launcher) Viewport(width, height int64) *Launcher {
	l.opts.Viewport = &common.Viewport{Width: width, Height: height}
	return l
}

// Headless enables or disables headless mode.
func (l *Launcher) Headless(headless bool) *Launcher {
	l.opts.Headless = headless
	return l
}

// WithExtension adds an unpacked extension to load.
func (l *Launcher) WithExtension(path string) *Launcher {
	l.opts.Extensions = append(l.opts.Extensions, path)
	return l
}

// ExecutablePath sets a custom browser executable path. The path must
// exist; no fallback search happens when it doesn't.
func (l *Launcher) ExecutablePath(path string) *Launcher {
	l.opts.ExecutablePath = path
	return l
}

// Ephemeral makes the profile a temporary directory that is deleted
// when the handle is closed.
func (l *Launcher) Ephemeral(ephemeral bool) *Launcher {
	l.opts.Ephemeral = ephemeral
	return l
}

// WithAIFlags enables or disables the built-in AI feature flags
// (Gemini Nano model downloading and the Prompt API). On by default.
func (l *Launcher) WithAIFlags(enabled bool) *Launcher {
	l.opts.AIFlags = enabled
	return l
}

// Arg appends an extra argument to the browser command line, passed
// through verbatim after everything the launcher assembles itself.
func (l *Launcher) Arg(arg string) *Launcher {
	l.opts.ExtraArgs = append(l.opts.ExtraArgs, arg)
	return l
}

// AppMode launches the start URL as a frameless application window
// (--app=URL) instead of a regular tab.
func (l *Launcher) AppMode(enabled bool) *Launcher {
	l.opts.AppMode = enabled
	return l
}

// StartURL sets the URL the browser opens on startup.
func (l *Launcher) StartURL(url string) *Launcher {
	l.opts.StartURL = url
	return l
}

// WithStrategy sets the AI execution strategy marker.
func (l *Launcher) WithStrategy(s Strategy) *Launcher {
	l.strategy = s
	return l
}

// OpenAIAPIKey forwards an OpenAI API key to the child process.
func (l *Launcher) OpenAIAPIKey(key string) *Launcher {
	l.openAIKey = key
	return l
}

// AnthropicAPIKey forwards an Anthropic API key to the child process.
func (l *Launcher) AnthropicAPIKey(key string) *Launcher {
	l.anthropicKey = key
	return l
}

// Timeout overrides how long Launch waits for the DevTools endpoint.
func (l *Launcher) Timeout(d time.Duration) *Launcher {
	l.opts.Timeout = d
	return l
}

// Logger routes launcher logs through the given logrus logger.
func (l *Launcher) Logger(logger *logrus.Logger) *Launcher {
	l.logger = logger
	return l
}

// Options returns the launch option snapshot the terminal Launch call
// will consume, with the environment contract applied.
func (l *Launcher) Options() *common.LaunchOptions {
	if l.openAIKey != "" {
		l.opts.Env[env.OpenAIAPIKey] = l.openAIKey
	}
	if l.anthropicKey != "" {
		l.opts.Env[env.AnthropicAPIKey] = l.anthropicKey
	}
	l.opts.Env[env.Strategy] = l.strategy.String()
	return l.opts
}

// Launch starts the browser with the configured settings and returns a
// handle to it, or a structured error when resolution, profile
// creation, spawning, or endpoint discovery fails. The launcher is
// consumed; launch again from a fresh one.
func (l *Launcher) Launch(ctx context.Context) (*common.BrowserProcess, error) {
	logger := log.New(l.logger)
	if level, ok := os.LookupEnv(env.LogLevel); ok {
		if err := logger.SetLevel(level); err != nil {
			return nil, err
		}
	}
	return chromium.NewBrowserType(logger).Launch(ctx, l.Options())
}
