package discovery

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/dockhand/dockhand/internal/logger"
	"github.com/dockhand/dockhand/pkg/sshutil"
)

// CacheTTL is how long a scan result stays fresh. Entries older than
// this trigger a full directory walk on the next Scan.
const CacheTTL = 86400 * time.Second

// maxScanDepth bounds the remote directory walk.
const maxScanDepth = 3

// DefaultScanRoots are the path patterns walked for compose files.
var DefaultScanRoots = []string{"/home/*/", "/opt/", "/srv/"}

// composeFilenames are the filenames the walk matches.
var composeFilenames = []string{
	"docker-compose.yml",
	"docker-compose.yaml",
	"compose.yml",
	"compose.yaml",
}

// unreadableContent substitutes for files that exist in the cache but
// can no longer be read.
const unreadableContent = "Unable to read file"

// Project is a fully materialized discovery result. Services and
// content are derived from live remote reads on every call, never
// served from the cache.
type Project struct {
	Name     string
	Path     string
	Services []string
	Content  string
}

// Scanner drives the discovery protocol over a remote session, backed
// by the two-tier cache. The cache's lock is never held while remote
// reads are in flight, so slow scans don't block unrelated cache reads.
type Scanner struct {
	cache *Cache
	roots []string
	log   logger.Logger
}

// NewScanner creates a scanner over the given cache using the default
// scan roots.
func NewScanner(cache *Cache) *Scanner {
	return &Scanner{
		cache: cache,
		roots: DefaultScanRoots,
		log:   logger.NewEnvLogger("[discovery]"),
	}
}

// SetLogger replaces the scanner's logger.
func (s *Scanner) SetLogger(log logger.Logger) {
	s.log = log
}

// SetRoots overrides the scan root patterns.
func (s *Scanner) SetRoots(roots []string) {
	s.roots = roots
}

// Scan returns the compose projects for the runner's target. A fresh
// cache entry skips the directory walk but still performs one remote
// read per known compose file, so returned content always reflects the
// current remote state. A missing or stale entry triggers a full walk.
func (s *Scanner) Scan(ctx context.Context, runner sshutil.Runner) ([]Project, error) {
	target := runner.Host()

	if entry, ok := s.cache.Get(target); ok {
		age := uint64(time.Now().Unix()) - entry.LastScan
		if age < uint64(CacheTTL/time.Second) {
			s.log.Info("using cached compose files for %s", target)
			return s.fromCache(ctx, runner, entry)
		}
	}

	s.log.Info("scanning for compose files on %s", target)
	return s.scanAndCache(ctx, runner, target)
}

// Refresh forces a full rescan, discarding any cached entry first.
func (s *Scanner) Refresh(ctx context.Context, runner sshutil.Runner) ([]Project, error) {
	target := runner.Host()
	s.cache.Invalidate(target)
	return s.scanAndCache(ctx, runner, target)
}

// fromCache materializes projects from cached locations, re-reading
// each compose file and re-deriving its service list.
func (s *Scanner) fromCache(ctx context.Context, runner sshutil.Runner, entry Entry) ([]Project, error) {
	projects := make([]Project, 0, len(entry.Projects))

	for _, ref := range entry.Projects {
		content, err := runner.Execute(ctx, readFileCommand(ref.Path))
		if err != nil {
			content = unreadableContent
		}

		projects = append(projects, Project{
			Name:     ref.Name,
			Path:     ref.Path,
			Services: ExtractServices(content),
			Content:  content,
		})
	}

	return projects, nil
}

// scanAndCache walks the scan roots, reads every match, and replaces
// the cache entry wholesale.
func (s *Scanner) scanAndCache(ctx context.Context, runner sshutil.Runner, target string) ([]Project, error) {
	now := uint64(time.Now().Unix())

	var projects []Project
	var refs []ProjectRef

	for _, root := range s.roots {
		output, err := runner.Execute(ctx, findCommand(root))
		if err != nil {
			s.log.Debug("walk of %s produced no results: %v", root, err)
			continue
		}

		for _, line := range strings.Split(output, "\n") {
			composePath := strings.TrimSpace(line)
			if composePath == "" {
				continue
			}

			// The project takes its name from the parent directory.
			name := path.Base(path.Dir(composePath))

			content, err := runner.Execute(ctx, readFileCommand(composePath))
			if err != nil {
				content = unreadableContent
			}

			projects = append(projects, Project{
				Name:     name,
				Path:     composePath,
				Services: ExtractServices(content),
				Content:  content,
			})
			refs = append(refs, ProjectRef{
				Name:        name,
				Path:        composePath,
				ComposeFile: composePath,
			})
		}
	}

	s.cache.Set(target, Entry{
		Projects:  refs,
		LastScan:  now,
		ScanPaths: s.roots,
	})

	return projects, nil
}

// findCommand builds the bounded walk for one root pattern.
func findCommand(root string) string {
	clauses := make([]string, len(composeFilenames))
	for i, name := range composeFilenames {
		clauses[i] = fmt.Sprintf("-name '%s'", name)
	}
	return fmt.Sprintf(
		`find %s -maxdepth %d -type f \( %s \) 2>/dev/null`,
		root, maxScanDepth, strings.Join(clauses, " -o "),
	)
}

func readFileCommand(p string) string {
	return fmt.Sprintf("cat '%s'", p)
}
