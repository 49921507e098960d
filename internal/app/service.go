// Package app wires the remote session, metrics collector, and
// discovery cache into one service object. All state lives here and is
// passed by reference into each operation; there are no ambient
// singletons.
package app

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/dockhand/dockhand/internal/config"
	"github.com/dockhand/dockhand/internal/discovery"
	"github.com/dockhand/dockhand/internal/errors"
	"github.com/dockhand/dockhand/internal/logger"
	"github.com/dockhand/dockhand/internal/metrics"
	"github.com/dockhand/dockhand/pkg/sshutil"
)

// Service owns the single current session and the components built on
// it. Exactly one session may be current at a time; reconnecting to a
// different target requires an explicit Disconnect first.
type Service struct {
	mu      sync.Mutex
	session *sshutil.Session
	fixed   sshutil.Runner // injected runner for tests; nil in production

	collector *metrics.Collector
	scanner   *discovery.Scanner
	cache     *discovery.Cache
	log       logger.Logger
}

// DefaultCacheDir returns the discovery cache directory.
func DefaultCacheDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.Getenv("HOME")
	}
	return filepath.Join(home, ".config", "dockhand")
}

// New builds a service with the discovery cache rooted at cacheDir.
func New(cacheDir string) (*Service, error) {
	cache, err := discovery.NewCache(cacheDir)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrCache,
			"Failed to create cache directory",
			"Check permissions for "+cacheDir)
	}
	return newService(cache, nil), nil
}

// NewWithDeps wires a service from explicit collaborators. The runner
// substitutes for a connected session; tests use it with a scripted
// runner.
func NewWithDeps(cache *discovery.Cache, runner sshutil.Runner) *Service {
	return newService(cache, runner)
}

func newService(cache *discovery.Cache, fixed sshutil.Runner) *Service {
	s := &Service{
		fixed: fixed,
		cache: cache,
		log:   logger.NewEnvLogger("[app]"),
	}
	s.collector = metrics.NewCollector(&currentRunner{svc: s})
	s.scanner = discovery.NewScanner(cache)
	return s
}

// SetLogger replaces the loggers of the service and its components.
func (s *Service) SetLogger(log logger.Logger) {
	s.log = log
	s.collector.SetLogger(log)
	s.scanner.SetLogger(log)
	s.cache.SetLogger(log)
}

// Cache exposes the discovery cache for direct invalidation.
func (s *Service) Cache() *discovery.Cache {
	return s.cache
}

// Connect establishes the current session from a profile. Fails when a
// session is already current.
func (s *Service) Connect(profile config.Profile) error {
	if err := profile.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	if s.session != nil {
		s.mu.Unlock()
		return errors.New(errors.ErrConnect,
			"A session is already active",
			"Disconnect before connecting to another server")
	}
	session := sshutil.NewSession(profile.Host)
	s.session = session
	s.mu.Unlock()

	if err := session.Connect(profile); err != nil {
		s.mu.Lock()
		s.session = nil
		s.mu.Unlock()
		return err
	}

	// A fresh connection starts network trends from a zero delta.
	s.collector.ResetNetwork(profile.Host)
	return nil
}

// TestConnection connects with the profile and immediately disconnects,
// reporting only whether authentication succeeded.
func (s *Service) TestConnection(profile config.Profile) error {
	if err := profile.Validate(); err != nil {
		return err
	}
	session := sshutil.NewSession(profile.Host)
	if err := session.Connect(profile); err != nil {
		return err
	}
	session.Disconnect()
	return nil
}

// Disconnect drops the current session. Safe to call when none is
// active.
func (s *Service) Disconnect() {
	s.mu.Lock()
	session := s.session
	s.session = nil
	s.mu.Unlock()

	if session != nil {
		session.Disconnect()
	}
}

// IsConnected reports whether a usable session or injected runner is
// current.
func (s *Service) IsConnected() bool {
	if s.fixed != nil {
		return true
	}
	s.mu.Lock()
	session := s.session
	s.mu.Unlock()
	return session != nil && session.IsConnected()
}

// Host returns the current target identity, or empty when disconnected.
func (s *Service) Host() string {
	if s.fixed != nil {
		return s.fixed.Host()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return ""
	}
	return s.session.Host()
}

// GetMetricsSnapshot builds one composite metrics snapshot. The only
// hard failure is the absence of a connected session; individual
// command failures degrade to zero defaults inside the collector.
func (s *Service) GetMetricsSnapshot(ctx context.Context) (*metrics.Snapshot, error) {
	if _, err := s.runner(); err != nil {
		return nil, err
	}
	return s.collector.Collect(ctx)
}

// ScanProjects returns discovered compose projects, honoring the cache
// TTL.
func (s *Service) ScanProjects(ctx context.Context) ([]discovery.Project, error) {
	runner, err := s.runner()
	if err != nil {
		return nil, err
	}
	return s.scanner.Scan(ctx, runner)
}

// RefreshProjects invalidates the cache and performs a full rescan.
func (s *Service) RefreshProjects(ctx context.Context) ([]discovery.Project, error) {
	runner, err := s.runner()
	if err != nil {
		return nil, err
	}
	return s.scanner.Refresh(ctx, runner)
}

// Exec runs one arbitrary command on the current session.
func (s *Service) Exec(ctx context.Context, cmd string) (string, error) {
	runner, err := s.runner()
	if err != nil {
		return "", err
	}
	return runner.Execute(ctx, cmd)
}

// runner returns the active runner or a not-connected error.
func (s *Service) runner() (sshutil.Runner, error) {
	if s.fixed != nil {
		return s.fixed, nil
	}
	s.mu.Lock()
	session := s.session
	s.mu.Unlock()
	if session == nil || !session.IsConnected() {
		return nil, errors.New(errors.ErrConnect,
			"Not connected",
			"Connect to a server first: dockhand connect <profile>")
	}
	return session, nil
}

// currentRunner lets the collector hold a stable runner reference while
// the underlying session is replaced across reconnects.
type currentRunner struct {
	svc *Service
}

func (r *currentRunner) Execute(ctx context.Context, cmd string) (string, error) {
	runner, err := r.svc.runner()
	if err != nil {
		return "", err
	}
	return runner.Execute(ctx, cmd)
}

func (r *currentRunner) Host() string {
	return r.svc.Host()
}

// CollectTimeout configures the per-snapshot deadline.
func (s *Service) CollectTimeout(d time.Duration) {
	s.collector.SetTimeout(d)
}
