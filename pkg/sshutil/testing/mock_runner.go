// Package testing provides a scripted Runner for exercising code that
// talks to a remote host without a live SSH connection.
package testing

import (
	"context"
	"errors"
	"regexp"
	"sync"
)

// Response defines a canned response for a command pattern.
type Response struct {
	Stdout string
	Err    error
}

// MockRunner simulates remote command execution with canned responses.
// Commands are matched exactly first, then against registered regexp
// patterns in registration order. Unmatched commands return empty output,
// mirroring a quiet remote probe.
type MockRunner struct {
	mu       sync.Mutex
	host     string
	exact    map[string]Response
	patterns []patternResponse
	calls    []string
	closed   bool
}

type patternResponse struct {
	re   *regexp.Regexp
	resp Response
}

// NewMockRunner creates a mock runner bound to the given target identity.
func NewMockRunner(host string) *MockRunner {
	return &MockRunner{
		host:  host,
		exact: make(map[string]Response),
	}
}

// Respond registers an exact-match response for a command.
func (m *MockRunner) Respond(cmd, stdout string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.exact[cmd] = Response{Stdout: stdout}
}

// RespondErr registers an exact-match error for a command.
func (m *MockRunner) RespondErr(cmd string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.exact[cmd] = Response{Err: err}
}

// RespondPattern registers a regexp-matched response.
func (m *MockRunner) RespondPattern(pattern, stdout string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.patterns = append(m.patterns, patternResponse{
		re:   regexp.MustCompile(pattern),
		resp: Response{Stdout: stdout},
	})
}

// RespondPatternErr registers a regexp-matched error.
func (m *MockRunner) RespondPatternErr(pattern string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.patterns = append(m.patterns, patternResponse{
		re:   regexp.MustCompile(pattern),
		resp: Response{Err: err},
	})
}

// Close makes all subsequent Execute calls fail.
func (m *MockRunner) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
}

// Execute returns the scripted response for cmd and records the call.
func (m *MockRunner) Execute(ctx context.Context, cmd string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return "", errors.New("connection closed")
	}

	m.calls = append(m.calls, cmd)

	if resp, ok := m.exact[cmd]; ok {
		return resp.Stdout, resp.Err
	}
	for _, p := range m.patterns {
		if p.re.MatchString(cmd) {
			return p.resp.Stdout, p.resp.Err
		}
	}
	return "", nil
}

// Host returns the target identity the runner was created with.
func (m *MockRunner) Host() string {
	return m.host
}

// Calls returns all executed commands in order.
func (m *MockRunner) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.calls))
	copy(out, m.calls)
	return out
}

// CallsMatching returns the number of executed commands matching pattern.
func (m *MockRunner) CallsMatching(pattern string) int {
	re := regexp.MustCompile(pattern)
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		if re.MatchString(c) {
			n++
		}
	}
	return n
}
