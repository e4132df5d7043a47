// Package chromium is responsible for launching a Chrome browser
// process and managing its lifetime.
package chromium

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/rvoidex7/web-intelligence-go/common"
	"github.com/rvoidex7/web-intelligence-go/env"
	"github.com/rvoidex7/web-intelligence-go/log"
	"github.com/rvoidex7/web-intelligence-go/storage"
)

// BrowserType provides methods to launch a Chrome browser instance.
// It's the entry point for interacting with the browser.
type BrowserType struct {
	logger       *log.Logger
	envLookupper env.LookupFunc
}

// NewBrowserType returns a new Chrome browser type. A nil logger
// discards all output.
func NewBrowserType(logger *log.Logger) *BrowserType {
	if logger == nil {
		logger = log.NewNullLogger()
	}
	return &BrowserType{
		logger:       logger,
		envLookupper: os.LookupEnv,
	}
}

// Name returns the name of this browser type.
func (b *BrowserType) Name() string {
	return "chromium"
}

// Launch allocates a new Chrome browser process and returns a handle to
// it. A single launch attempt either succeeds or fails terminally;
// callers retry a whole launch from scratch if they want retries.
func (b *BrowserType) Launch(
	ctx context.Context, opts *common.LaunchOptions,
) (*common.BrowserProcess, error) {
	userPath := opts.ExecutablePath
	if userPath == "" {
		userPath, _ = b.envLookupper(env.BrowserPath)
	}
	path, err := executablePath(userPath, b.envLookupper, os.Stat, exec.LookPath, runtime.GOOS)
	if err != nil {
		return nil, err
	}
	b.logger.Debugf("BrowserType:Launch", "using browser executable %q", path)

	dataDir := &storage.Dir{}
	if err := dataDir.Make(b.tmpdir(), opts.Ephemeral, opts.ProfileName); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrProfileCreation, err)
	}
	b.logger.Debugf("BrowserType:Launch", "using user data directory %q", dataDir.Dir)

	args := prepareArgs(opts, dataDir.Dir, os.Getuid())
	envv := prepareEnv(opts)

	proc, err := common.NewBrowserProcess(
		ctx, path, args, envv, dataDir, opts.Timeout, opts.PollInterval, b.logger,
	)
	if err != nil {
		// The process is already terminated at this point; only the
		// data directory is left to clean up.
		if cerr := dataDir.Cleanup(); cerr != nil {
			b.logger.Errorf("BrowserType:Launch", "cleaning up the user data directory: %v", cerr)
		}
		return nil, err
	}

	return proc, nil
}

// ExecutablePath returns the path where this browser type expects to
// find the browser executable, or an error when none can be found.
func (b *BrowserType) ExecutablePath(userPath string) (string, error) {
	if userPath == "" {
		userPath, _ = b.envLookupper(env.BrowserPath)
	}
	return executablePath(userPath, b.envLookupper, os.Stat, exec.LookPath, runtime.GOOS)
}

// tmpdir returns the temporary directory to create ephemeral profiles
// under. It returns the value of the TMPDIR environment variable if
// set, otherwise an empty string for the OS default.
func (b *BrowserType) tmpdir() string {
	dir, _ := b.envLookupper("TMPDIR")
	return dir
}

type (
	statFunc     func(name string) (fs.FileInfo, error) // os.Stat
	lookPathFunc func(file string) (string, error)      // exec.LookPath
)

// executablePath returns the path of the browser executable to launch.
//
// A user-provided path must exist; no candidate search is attempted
// when it doesn't. Otherwise an ordered, platform-specific candidate
// list is probed: absolute candidates are checked for existence, bare
// names are resolved through the executable search path. The first
// satisfying candidate wins.
func executablePath(
	userPath string,
	envLookup env.LookupFunc,
	stat statFunc,
	lookPath lookPathFunc,
	goos string,
) (string, error) {
	if userPath = strings.TrimSpace(userPath); userPath != "" {
		if _, err := stat(userPath); err == nil {
			return userPath, nil
		}
		return "", fmt.Errorf("%w: %s", common.ErrBrowserNotFoundAtPath, userPath)
	}

	for _, candidate := range defaultExecutablePaths(goos, envLookup) {
		if isAbs(candidate, goos) {
			if _, err := stat(candidate); err == nil {
				return candidate, nil
			}
			continue
		}
		if path, err := lookPath(candidate); err == nil {
			return path, nil
		}
	}

	return "", common.ErrBrowserNotFound
}

// defaultExecutablePaths returns the ordered candidate list for the
// given platform. Unstable channels come first: they are the ones that
// ship the experimental AI features this launcher exists for.
func defaultExecutablePaths(goos string, envLookup env.LookupFunc) []string {
	switch goos {
	case "windows":
		lookupOr := func(key, fallback string) string {
			if v, ok := envLookup(key); ok && v != "" {
				return v
			}
			return fallback
		}
		var (
			programFiles    = lookupOr("ProgramFiles", `C:\Program Files`)
			programFilesX86 = lookupOr("ProgramFiles(x86)", `C:\Program Files (x86)`)
			localAppData    = lookupOr("LOCALAPPDATA", `C:\Users\Default\AppData\Local`)
		)
		return []string{
			"chrome.exe",
			"msedge.exe",
			"chromium.exe",
			localAppData + `\Google\Chrome SxS\Application\chrome.exe`, // Canary
			programFiles + `\Google\Chrome\Application\chrome.exe`,
			programFilesX86 + `\Google\Chrome\Application\chrome.exe`,
			programFiles + `\Microsoft\Edge\Application\msedge.exe`,
			programFilesX86 + `\Microsoft\Edge\Application\msedge.exe`,
		}
	case "darwin":
		return []string{
			"/Applications/Google Chrome Canary.app/Contents/MacOS/Google Chrome Canary",
			"/Applications/Google Chrome Dev.app/Contents/MacOS/Google Chrome Dev",
			"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
			"/Applications/Chromium.app/Contents/MacOS/Chromium",
			"/Applications/Microsoft Edge.app/Contents/MacOS/Microsoft Edge",
		}
	default:
		return []string{
			"google-chrome-unstable",
			"google-chrome-beta",
			"google-chrome",
			"google-chrome-stable",
			"chromium",
			"chromium-browser",
		}
	}
}

// isAbs reports whether candidate is an absolute path on the given
// platform. Windows drive-letter paths must be recognized even when the
// resolver runs (in tests) on another OS.
func isAbs(candidate, goos string) bool {
	if goos == "windows" && len(candidate) > 1 && candidate[1] == ':' {
		return true
	}
	return filepath.IsAbs(candidate)
}

// prepareArgs assembles the browser command line in a fixed order:
// profile and debugging flags first, then the optional display and
// feature flags, the start URL, and finally the caller's extra
// arguments verbatim.
func prepareArgs(opts *common.LaunchOptions, userDataDir string, uid int) []string {
	args := []string{
		"--user-data-dir=" + userDataDir,
		"--remote-debugging-port=0", // let the OS pick a free port
		"--no-first-run",
		"--no-default-browser-check",
	}
	if opts.Headless {
		args = append(args, "--headless=new")
	}
	if vp := opts.Viewport; vp != nil {
		args = append(args, fmt.Sprintf("--window-size=%d,%d", vp.Width, vp.Height))
	}
	if len(opts.Extensions) > 0 {
		args = append(args, "--load-extension="+strings.Join(opts.Extensions, ","))
	}
	if opts.AIFlags {
		args = append(args,
			"--enable-features=OptimizationGuideModelDownloading,"+
				"OptimizationGuideOnDeviceModel,PromptAPIForGeminiNano",
			"--allow-insecure-localhost",
		)
	}
	if uid == 0 && !hasArg(opts.ExtraArgs, "no-sandbox") {
		// Chromium refuses to start sandboxed as root, e.g. in a
		// container.
		args = append(args, "--no-sandbox")
	}
	if opts.StartURL != "" {
		if opts.AppMode {
			args = append(args, "--app="+opts.StartURL)
		} else {
			args = append(args, opts.StartURL)
		}
	}
	return append(args, opts.ExtraArgs...)
}

func hasArg(args []string, name string) bool {
	for _, arg := range args {
		arg = strings.TrimLeft(strings.TrimSpace(arg), "-")
		if arg == name || strings.HasPrefix(arg, name+"=") {
			return true
		}
	}
	return false
}

// prepareEnv turns the configured environment entries into KEY=VALUE
// pairs, sorted for determinism.
func prepareEnv(opts *common.LaunchOptions) []string {
	envv := make([]string, 0, len(opts.Env))
	for k, v := range opts.Env {
		envv = append(envv, k+"="+v)
	}
	sort.Strings(envv)
	return envv
}
