// Package discovery scans source files for include and use directives and
// attaches the referenced local files as dependencies.
package discovery

import (
	"bufio"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"go.trai.ch/kiln/internal/core/domain"
)

var (
	cIncludePattern         = regexp.MustCompile(`^\s*#\s*include\s*["<]([^">]+)[">]`)
	fortranUsePattern       = regexp.MustCompile(`(?i)^\s*use\s+([a-z][a-z0-9_]*)`)
	interfaceIncludePattern = regexp.MustCompile(`^\s*%include\s*["<]([^">]+)[">]`)
)

var (
	cExtensions         = []string{".c", ".h", ".cc", ".cpp", ".cxx", ".hpp", ".hh", ".hxx"}
	fortranExtensions   = []string{".f", ".for", ".ftn", ".f77", ".f90", ".f95", ".f03", ".f08"}
	interfaceExtensions = []string{".i", ".swg"}
)

type dialect int

const (
	dialectNone dialect = iota
	dialectC
	dialectFortran
	dialectInterface
)

// Scanner implements ports.Discoverer.
type Scanner struct {
	foldCase bool
}

// New creates a Scanner that follows the case rules of the host platform.
func New() *Scanner {
	return NewWithCaseFolding(runtime.GOOS == "windows" || runtime.GOOS == "darwin")
}

// NewWithCaseFolding creates a Scanner that compares file names
// case-insensitively when foldCase is set.
func NewWithCaseFolding(foldCase bool) *Scanner {
	return &Scanner{foldCase: foldCase}
}

// Discover scans src and attaches every referenced file present next to it.
// Only paths src does not already depend on are added. A source that cannot
// be read gains nothing.
func (s *Scanner) Discover(reg *domain.Registry, src *domain.Target) ([]*domain.Target, error) {
	if src.Kind() != domain.KindSource {
		return nil, nil
	}
	return reg.AttachSources(src, s.Scan(src.Path())...), nil
}

// DiscoverTransitive runs Discover on src and then on every source it reaches.
func (s *Scanner) DiscoverTransitive(reg *domain.Registry, src *domain.Target) ([]*domain.Target, error) {
	var added []*domain.Target
	visited := map[string]bool{}
	queue := []*domain.Target{src}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if visited[cur.Path()] {
			continue
		}
		visited[cur.Path()] = true

		fresh, err := s.Discover(reg, cur)
		if err != nil {
			return added, err
		}
		added = append(added, fresh...)

		for _, c := range cur.Children() {
			if c.Kind() == domain.KindSource && !visited[c.Path()] {
				queue = append(queue, c)
			}
		}
	}
	return added, nil
}

// Scan returns the resolved paths of the local files path refers to, in
// directive order without repeats.
func (s *Scanner) Scan(path string) []string {
	d := dialectOf(path)
	if d == dialectNone {
		return nil
	}

	f, err := os.Open(path) //nolint:gosec // Paths come from the build description
	if err != nil {
		return nil
	}
	defer f.Close() //nolint:errcheck // Read-only handle

	dir := filepath.Dir(path)
	listing := s.list(dir)

	var (
		out  []string
		seen = map[string]bool{}
	)
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		ref, ok := match(d, sc.Text())
		if !ok {
			continue
		}
		resolved, ok := s.resolve(d, dir, ref, listing)
		if !ok || seen[resolved] || resolved == filepath.Clean(path) {
			continue
		}
		seen[resolved] = true
		out = append(out, resolved)
	}
	return out
}

func match(d dialect, line string) (string, bool) {
	var m []string
	switch d {
	case dialectC:
		m = cIncludePattern.FindStringSubmatch(line)
	case dialectFortran:
		m = fortranUsePattern.FindStringSubmatch(line)
	case dialectInterface:
		m = interfaceIncludePattern.FindStringSubmatch(line)
	case dialectNone:
	}
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}

// resolve maps a directive reference to a file present in dir.
func (s *Scanner) resolve(d dialect, dir, ref string, listing []string) (string, bool) {
	if d == dialectFortran {
		for _, name := range listing {
			ext := filepath.Ext(name)
			if !hasExt(fortranExtensions, ext) {
				continue
			}
			// Fortran names are case-insensitive whatever the filesystem does.
			if strings.EqualFold(strings.TrimSuffix(name, ext), ref) {
				return filepath.Join(dir, name), true
			}
		}
		return "", false
	}

	if strings.ContainsAny(ref, `/\`) {
		candidate := filepath.Join(dir, filepath.FromSlash(ref))
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}
		return "", false
	}

	for _, name := range listing {
		if s.sameName(name, ref) {
			return filepath.Join(dir, name), true
		}
	}
	return "", false
}

func (s *Scanner) sameName(a, b string) bool {
	if s.foldCase {
		return strings.EqualFold(a, b)
	}
	return a == b
}

func (s *Scanner) list(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names
}

func dialectOf(path string) dialect {
	ext := filepath.Ext(path)
	switch {
	case hasExt(cExtensions, ext):
		return dialectC
	case hasExt(fortranExtensions, ext):
		return dialectFortran
	case hasExt(interfaceExtensions, ext):
		return dialectInterface
	default:
		return dialectNone
	}
}

func hasExt(exts []string, ext string) bool {
	for _, e := range exts {
		if strings.EqualFold(e, ext) {
			return true
		}
	}
	return false
}
