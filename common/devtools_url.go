package common

import (
	"bufio"
	"io"
	"regexp"
	"sync"

	"github.com/rvoidex7/web-intelligence-go/log"
)

// devToolsURLRE matches the loopback DevTools WebSocket URL Chromium
// prints on stderr once its remote debugging server is up.
var devToolsURLRE = regexp.MustCompile(`ws://127\.0\.0\.1:\d+/devtools/browser/[\w-]+`)

// devToolsURLSlot is a single-assignment cell for the DevTools URL.
// The scanner goroutine writes it at most once; the launch wait loop
// polls it. Once set it is never overwritten.
type devToolsURLSlot struct {
	mu  sync.Mutex
	url string
}

// publish stores url unless a value has already been published.
// The first match wins.
func (s *devToolsURLSlot) publish(url string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.url == "" {
		s.url = url
	}
}

// get returns the published URL, if any.
func (s *devToolsURLSlot) get() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.url, s.url != ""
}

// scanDevToolsURL reads the browser's diagnostic stream line by line
// until EOF, publishing the first DevTools URL match into slot. It keeps
// draining the stream after a match so the child never blocks on a full
// stderr pipe. Unmatched lines are diagnostic only and are skipped.
func scanDevToolsURL(r io.Reader, slot *devToolsURLSlot, logger *log.Logger) {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := sc.Text()
		logger.Debugf("browser:stderr", "%s", line)
		if m := devToolsURLRE.FindString(line); m != "" {
			slot.publish(m)
		}
	}
	if err := sc.Err(); err != nil {
		logger.Debugf("browser:stderr", "diagnostic stream closed: %v", err)
	}
}
