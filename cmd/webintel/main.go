// Command webintel launches a Chromium-family browser wired for remote
// debugging and prints its DevTools WebSocket endpoint.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/mstoykov/envconfig"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	webintel "github.com/rvoidex7/web-intelligence-go"
	"github.com/rvoidex7/web-intelligence-go/chromium"
	"github.com/rvoidex7/web-intelligence-go/common"
	"github.com/rvoidex7/web-intelligence-go/env"
	"github.com/rvoidex7/web-intelligence-go/log"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var verbose bool

	logger := logrus.New()
	root := &cobra.Command{
		Use:           "webintel",
		Short:         "Launch a Chromium-family browser wired for automation",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if verbose {
				logger.SetLevel(logrus.DebugLevel)
			}
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newLaunchCommand(logger))
	root.AddCommand(newResolveCommand(logger))

	return root
}

// launchConfig carries the env-derived defaults for the launch command,
// read from WEB_INTEL_* variables. Flags override them.
type launchConfig struct {
	Headless   bool          `envconfig:"HEADLESS"`
	Ephemeral  bool          `envconfig:"EPHEMERAL"`
	Profile    string        `envconfig:"PROFILE" default:"web-intel-profile"`
	Executable string        `envconfig:"BROWSER_PATH"`
	Strategy   string        `envconfig:"STRATEGY" default:"local"`
	Timeout    time.Duration `envconfig:"TIMEOUT" default:"10s"`
}

func newLaunchCommand(logger *logrus.Logger) *cobra.Command {
	var cfg launchConfig
	if err := envconfig.Process("WEB_INTEL", &cfg); err != nil {
		logger.WithError(err).Fatal("could not process environment configuration")
	}

	var (
		startURL   string
		appMode    bool
		aiFlags    bool
		extensions []string
		extraArgs  []string
		width      int64
		height     int64
		check      bool
		detach     bool
	)

	cmd := &cobra.Command{
		Use:   "launch",
		Short: "Launch a browser and print its DevTools WebSocket endpoint",
		RunE: func(cmd *cobra.Command, _ []string) error {
			strategy, err := webintel.ParseStrategy(cfg.Strategy)
			if err != nil {
				return err
			}

			l := webintel.New().
				ProfileName(cfg.Profile).
				Headless(cfg.Headless).
				Ephemeral(cfg.Ephemeral).
				ExecutablePath(cfg.Executable).
				Timeout(cfg.Timeout).
				WithAIFlags(aiFlags).
				AppMode(appMode).
				WithStrategy(strategy).
				Logger(logger)
			if startURL != "" {
				l.StartURL(startURL)
			}
			if width > 0 && height > 0 {
				l.Viewport(width, height)
			}
			for _, ext := range extensions {
				l.WithExtension(ext)
			}
			for _, arg := range extraArgs {
				l.Arg(arg)
			}
			if key := os.Getenv(env.OpenAIAPIKey); key != "" {
				l.OpenAIAPIKey(key)
			}
			if key := os.Getenv(env.AnthropicAPIKey); key != "" {
				l.AnthropicAPIKey(key)
			}

			handle, err := l.Launch(cmd.Context())
			if err != nil {
				return err
			}

			if check {
				if err := common.VerifyEndpoint(cmd.Context(), handle.WsURL()); err != nil {
					_ = handle.Close()
					return err
				}
			}

			color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "Browser launched (PID %d)\n", handle.Pid())
			color.New(color.FgCyan).Fprintf(cmd.OutOrStdout(), "%s\n", handle.WsURL())

			if detach {
				// Leave the browser running; the OS parent-death signal
				// still applies where supported.
				return nil
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Press Ctrl+C to stop...")
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			<-ctx.Done()

			return handle.Close()
		},
	}

	flags := cmd.Flags()
	flags.BoolVar(&cfg.Headless, "headless", cfg.Headless, "run the browser in headless mode")
	flags.BoolVar(&cfg.Ephemeral, "ephemeral", cfg.Ephemeral, "use a temporary profile, deleted on exit")
	flags.StringVar(&cfg.Profile, "profile", cfg.Profile, "profile directory name for persistent mode")
	flags.StringVar(&cfg.Executable, "executable", cfg.Executable, "path to the browser executable")
	flags.StringVar(&cfg.Strategy, "strategy", cfg.Strategy, "AI execution strategy: local, cloud or hybrid")
	flags.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "how long to wait for the DevTools endpoint")
	flags.StringVar(&startURL, "url", "", "URL to open on startup")
	flags.BoolVar(&appMode, "app", false, "open the start URL as a frameless app window")
	flags.BoolVar(&aiFlags, "ai-flags", true, "enable the built-in AI feature flags")
	flags.StringSliceVar(&extensions, "extension", nil, "unpacked extension to load (repeatable)")
	flags.StringArrayVar(&extraArgs, "arg", nil, "extra browser argument, passed verbatim (repeatable)")
	flags.Int64Var(&width, "width", 0, "window width")
	flags.Int64Var(&height, "height", 0, "window height")
	flags.BoolVar(&check, "check", false, "dial the DevTools endpoint once after launch")
	flags.BoolVar(&detach, "detach", false, "print the endpoint and exit, leaving the browser running")

	return cmd
}

func newResolveCommand(logger *logrus.Logger) *cobra.Command {
	var executable string

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Print the browser executable the launcher would use",
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := chromium.NewBrowserType(log.New(logger)).ExecutablePath(executable)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	cmd.Flags().StringVar(&executable, "executable", "", "explicit path to check instead of searching")

	return cmd
}
