package common

import "errors"

// Sentinel errors for the launch pipeline. Each launch attempt fails
// terminally with exactly one of these; callers branch with errors.Is.
var (
	// ErrBrowserNotFound is returned when no Chromium-family browser
	// executable could be found on this system.
	ErrBrowserNotFound = errors.New(
		"couldn't detect google chrome or a chromium-supported browser on this system",
	)

	// ErrBrowserNotFoundAtPath is returned when an explicitly supplied
	// executable path doesn't exist. No candidate search is attempted in
	// that case.
	ErrBrowserNotFoundAtPath = errors.New(
		"couldn't detect google chrome or a chromium-supported browser on the given path",
	)

	// ErrProfileCreation is returned when the user data directory could
	// not be created, or the user cache root could not be determined.
	ErrProfileCreation = errors.New("creating browser profile directory")

	// ErrLaunch is returned when the browser process could not be
	// spawned, or exited before announcing its DevTools endpoint.
	ErrLaunch = errors.New("launching browser process")

	// ErrWebSocketURLNotFound is returned when the browser did not print
	// its DevTools WebSocket URL before the launch deadline.
	ErrWebSocketURLNotFound = errors.New(
		"timed out waiting for the browser to print its DevTools WebSocket URL",
	)

	// ErrOutputRead is returned when the browser's diagnostic output
	// stream could not be captured.
	ErrOutputRead = errors.New("reading browser process output")
)
