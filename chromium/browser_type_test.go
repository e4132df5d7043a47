package chromium

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rvoidex7/web-intelligence-go/common"
	"github.com/rvoidex7/web-intelligence-go/env"
)

func TestExecutablePath(t *testing.T) {
	t.Parallel()

	fileNotExists := func(string) (fs.FileInfo, error) {
		return nil, fs.ErrNotExist
	}
	lookupNotFound := func(string) (string, error) {
		return "", fs.ErrNotExist
	}

	tests := map[string]struct {
		userPath string
		goos     string
		envs     env.LookupFunc
		stat     statFunc
		lookPath lookPathFunc

		wantPath string
		wantErr  error
	}{
		"user_path_exists": {
			userPath: "/opt/thorium/thorium",
			goos:     "linux",
			envs:     env.EmptyLookup,
			stat: func(name string) (fs.FileInfo, error) {
				if name == "/opt/thorium/thorium" {
					return nil, nil
				}
				return nil, fs.ErrNotExist
			},
			lookPath: lookupNotFound,
			wantPath: "/opt/thorium/thorium",
		},
		"user_path_missing_no_fallback_search": {
			userPath: "/opt/thorium/thorium",
			goos:     "linux",
			envs:     env.EmptyLookup,
			stat:     fileNotExists,
			lookPath: func(file string) (string, error) {
				t.Errorf("unexpected PATH search for %q with an explicit path set", file)
				return "", fs.ErrNotExist
			},
			wantErr: common.ErrBrowserNotFoundAtPath,
		},
		"linux_prefers_unstable_channel": {
			goos: "linux",
			envs: env.EmptyLookup,
			stat: fileNotExists,
			lookPath: func(file string) (string, error) {
				switch file {
				case "google-chrome-unstable", "google-chrome-stable":
					return "/usr/bin/" + file, nil
				}
				return "", fs.ErrNotExist
			},
			wantPath: "/usr/bin/google-chrome-unstable",
		},
		"linux_nothing_installed": {
			goos:     "linux",
			envs:     env.EmptyLookup,
			stat:     fileNotExists,
			lookPath: lookupNotFound,
			wantErr:  common.ErrBrowserNotFound,
		},
		"darwin_bundle_path_checked_for_existence": {
			goos: "darwin",
			envs: env.EmptyLookup,
			stat: func(name string) (fs.FileInfo, error) {
				if name == "/Applications/Google Chrome.app/Contents/MacOS/Google Chrome" {
					return nil, nil
				}
				return nil, fs.ErrNotExist
			},
			lookPath: lookupNotFound,
			wantPath: "/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
		},
		"darwin_canary_wins_over_stable": {
			goos: "darwin",
			envs: env.EmptyLookup,
			stat: func(name string) (fs.FileInfo, error) {
				if strings.Contains(name, "Canary") || strings.Contains(name, "Chrome.app") {
					return nil, nil
				}
				return nil, fs.ErrNotExist
			},
			lookPath: lookupNotFound,
			wantPath: "/Applications/Google Chrome Canary.app/Contents/MacOS/Google Chrome Canary",
		},
		"windows_canary_from_local_app_data": {
			goos: "windows",
			envs: env.ConstLookup("LOCALAPPDATA", `C:\Users\me\AppData\Local`),
			stat: func(name string) (fs.FileInfo, error) {
				if name == `C:\Users\me\AppData\Local\Google\Chrome SxS\Application\chrome.exe` {
					return nil, nil
				}
				return nil, fs.ErrNotExist
			},
			lookPath: lookupNotFound,
			wantPath: `C:\Users\me\AppData\Local\Google\Chrome SxS\Application\chrome.exe`,
		},
		"windows_path_names_first": {
			goos:     "windows",
			envs:     env.EmptyLookup,
			stat:     fileNotExists,
			lookPath: func(file string) (string, error) {
				if file == "msedge.exe" {
					return `C:\Windows\msedge.exe`, nil
				}
				return "", fs.ErrNotExist
			},
			wantPath: `C:\Windows\msedge.exe`,
		},
	}

	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			path, err := executablePath(tt.userPath, tt.envs, tt.stat, tt.lookPath, tt.goos)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantPath, path)
		})
	}
}

func TestPrepareArgs(t *testing.T) {
	t.Parallel()

	const userDataDir = "/tmp/web-intel-x"

	baseArgs := []string{
		"--user-data-dir=" + userDataDir,
		"--remote-debugging-port=0",
		"--no-first-run",
		"--no-default-browser-check",
	}
	aiArgs := []string{
		"--enable-features=OptimizationGuideModelDownloading," +
			"OptimizationGuideOnDeviceModel,PromptAPIForGeminiNano",
		"--allow-insecure-localhost",
	}

	tests := []struct {
		name string
		opts *common.LaunchOptions
		uid  int
		want []string
	}{
		{
			name: "defaults",
			opts: &common.LaunchOptions{},
			uid:  1000,
			want: baseArgs,
		},
		{
			name: "headless_and_viewport",
			opts: &common.LaunchOptions{
				Headless: true,
				Viewport: &common.Viewport{Width: 1280, Height: 720},
			},
			uid: 1000,
			want: append(append([]string{}, baseArgs...),
				"--headless=new", "--window-size=1280,720"),
		},
		{
			name: "extensions_joined",
			opts: &common.LaunchOptions{
				Extensions: []string{"/ext/a", "/ext/b"},
			},
			uid: 1000,
			want: append(append([]string{}, baseArgs...),
				"--load-extension=/ext/a,/ext/b"),
		},
		{
			name: "ai_flags",
			opts: &common.LaunchOptions{AIFlags: true},
			uid:  1000,
			want: append(append([]string{}, baseArgs...), aiArgs...),
		},
		{
			name: "app_mode_combines_url_flag",
			opts: &common.LaunchOptions{
				AppMode:  true,
				StartURL: "https://example.com",
			},
			uid: 1000,
			want: append(append([]string{}, baseArgs...),
				"--app=https://example.com"),
		},
		{
			name: "bare_start_url_without_app_mode",
			opts: &common.LaunchOptions{
				StartURL: "https://example.com",
			},
			uid: 1000,
			want: append(append([]string{}, baseArgs...),
				"https://example.com"),
		},
		{
			name: "extra_args_appended_verbatim_in_order",
			opts: &common.LaunchOptions{
				ExtraArgs: []string{"--mute-audio", "--disable-gpu"},
			},
			uid: 1000,
			want: append(append([]string{}, baseArgs...),
				"--mute-audio", "--disable-gpu"),
		},
		{
			name: "no_sandbox_added_for_root",
			opts: &common.LaunchOptions{},
			uid:  0,
			want: append(append([]string{}, baseArgs...), "--no-sandbox"),
		},
		{
			name: "no_sandbox_not_duplicated",
			opts: &common.LaunchOptions{ExtraArgs: []string{"--no-sandbox"}},
			uid:  0,
			want: append(append([]string{}, baseArgs...), "--no-sandbox"),
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := prepareArgs(tt.opts, userDataDir, tt.uid)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPrepareArgsAppModeExclusivity(t *testing.T) {
	t.Parallel()

	opts := &common.LaunchOptions{AppMode: true, StartURL: "https://example.com"}
	args := prepareArgs(opts, "/tmp/d", 1000)

	assert.Contains(t, args, "--app=https://example.com")
	assert.NotContains(t, args, "https://example.com")

	opts.AppMode = false
	args = prepareArgs(opts, "/tmp/d", 1000)

	assert.Contains(t, args, "https://example.com")
	assert.NotContains(t, args, "--app=https://example.com")
}

func TestPrepareEnv(t *testing.T) {
	t.Parallel()

	opts := &common.LaunchOptions{Env: map[string]string{
		env.Strategy:     "hybrid",
		env.OpenAIAPIKey: "sk-test",
	}}

	assert.Equal(t, []string{
		"OPENAI_API_KEY=sk-test",
		"WEB_INTEL_STRATEGY=hybrid",
	}, prepareEnv(opts))

	assert.Empty(t, prepareEnv(&common.LaunchOptions{}))
}
