package common

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/rvoidex7/web-intelligence-go/log"
	"github.com/rvoidex7/web-intelligence-go/storage"
)

// BrowserProcess is the handle to a running browser. It owns the
// process, the DevTools WebSocket URL discovered at launch, and the
// user data directory; Close tears all three down in that order.
type BrowserProcess struct {
	cmd *exec.Cmd

	// done is closed once the process has exited and been reaped.
	done chan struct{}

	// Browser's WebSocket URL to speak CDP. Immutable after launch.
	wsURL string

	// The directory where user data for the browser is stored.
	userDataDir *storage.Dir

	logger *log.Logger

	closeOnce sync.Once
	closeErr  error
}

// NewBrowserProcess starts a local browser process and waits for it to
// announce its DevTools WebSocket URL on stderr. On any failure after
// the process has been spawned, the process is killed and reaped before
// the error is returned, so a failed launch never leaks a running
// browser. Cleaning up the user data directory stays with the caller,
// which owns it until a handle is returned.
func NewBrowserProcess(
	ctx context.Context, path string, args, envv []string,
	dataDir *storage.Dir, timeout, pollInterval time.Duration,
	logger *log.Logger,
) (*BrowserProcess, error) {
	cmd, err := execute(ctx, path, args, envv, logger)
	if err != nil {
		return nil, err
	}

	slot := &devToolsURLSlot{}
	go scanDevToolsURL(cmd.stderr, slot, logger)

	wsURL, err := waitForDevToolsURL(slot, cmd.done, timeout, pollInterval)
	if err != nil {
		if cmd.Process != nil {
			_ = cmd.Process.Kill()
		}
		<-cmd.done
		return nil, err
	}
	logger.Infof("browser", "launched with PID %d, DevTools endpoint %s", cmd.Process.Pid, wsURL)

	return &BrowserProcess{
		cmd:         cmd.Cmd,
		done:        cmd.done,
		wsURL:       wsURL,
		userDataDir: dataDir,
		logger:      logger,
	}, nil
}

// WsURL returns the WebSocket URL that the browser is listening on for
// CDP clients.
func (p *BrowserProcess) WsURL() string {
	return p.wsURL
}

// Pid returns the browser process ID.
func (p *BrowserProcess) Pid() int {
	return p.cmd.Process.Pid
}

// Cmd exposes the underlying command for advanced control of the
// browser process. The handle keeps ownership; callers must not Wait on
// it themselves.
func (p *BrowserProcess) Cmd() *exec.Cmd {
	return p.cmd
}

// UserDataDir returns the path of the browser's user data directory.
func (p *BrowserProcess) UserDataDir() string {
	return p.userDataDir.Dir
}

// Close terminates the browser process, reaps it, and then removes the
// user data directory if it was ephemeral. The process is stopped
// before the directory it runs from is deleted. Close is idempotent
// and safe to call after the process has already exited.
func (p *BrowserProcess) Close() error {
	p.closeOnce.Do(func() {
		p.logger.Debugf("browser", "terminating PID %d", p.cmd.Process.Pid)
		if err := p.cmd.Process.Kill(); err != nil {
			// Already exited; nothing left to signal.
			p.logger.Debugf("browser", "kill PID %d: %v", p.cmd.Process.Pid, err)
		}
		<-p.done
		p.closeErr = p.userDataDir.Cleanup()
	})
	return p.closeErr
}

type command struct {
	*exec.Cmd
	done   chan struct{}
	stderr io.Reader
}

func execute(
	ctx context.Context, path string, args, envv []string, logger *log.Logger,
) (command, error) {
	cmd := exec.CommandContext(ctx, path, args...)
	killAfterParent(cmd)

	// Stdout is discarded, never buffered: an unread pipe would fill up
	// and stall the child. Stderr is the diagnostic channel the browser
	// announces its DevTools endpoint on.
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return command{}, fmt.Errorf("%w: %w", ErrOutputRead, err)
	}

	if len(envv) > 0 {
		cmd.Env = append(os.Environ(), envv...)
	}

	// We must start the cmd before calling cmd.Wait, as otherwise the
	// two can run into a data race.
	err = cmd.Start()
	if os.IsNotExist(err) { //nolint:forbidigo
		return command{}, fmt.Errorf("%w: file does not exist: %s", ErrLaunch, path)
	}
	if err != nil {
		return command{}, fmt.Errorf("%w: %w", ErrLaunch, err)
	}
	if ctx.Err() != nil {
		return command{}, fmt.Errorf("%w: %w", ErrLaunch, ctx.Err())
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := cmd.Wait(); err != nil {
			logger.Debugf("browser", "process with PID %d ended: %v", cmd.Process.Pid, err)
		}
	}()

	return command{cmd, done, stderr}, nil
}

// waitForDevToolsURL polls the endpoint slot until it is populated, the
// process exits, or the deadline passes. The slot is checked before the
// process status on every iteration: if the browser prints its endpoint
// and then exits in the same window, the launch still succeeds.
func waitForDevToolsURL(
	slot *devToolsURLSlot, done <-chan struct{}, timeout, pollInterval time.Duration,
) (string, error) {
	if timeout <= 0 {
		timeout = DefaultLaunchTimeout
	}
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}
	deadline := time.Now().Add(timeout)
	for {
		if url, ok := slot.get(); ok {
			return url, nil
		}
		select {
		case <-done:
			return "", fmt.Errorf(
				"%w: process exited unexpectedly before announcing its DevTools endpoint", ErrLaunch)
		default:
		}
		if !time.Now().Before(deadline) {
			return "", ErrWebSocketURLNotFound
		}
		time.Sleep(pollInterval)
	}
}
