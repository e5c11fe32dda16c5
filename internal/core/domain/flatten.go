package domain

import (
	"strings"

	"go.trai.ch/zerr"
)

// Flatten returns the targets to consider when building root, children before
// parents. Linked children are skipped: a library or executable is built from
// its own root. A generated source contributes only itself. Shared
// dependencies appear once per path that reaches them.
func Flatten(root *Target) ([]*Target, error) {
	var (
		out    []*Target
		path   []*Target
		onPath = make(map[*Target]bool)
	)

	var visit func(t *Target) error
	visit = func(t *Target) error {
		if t.kind == KindGeneratedSource {
			out = append(out, t)
			return nil
		}

		onPath[t] = true
		path = append(path, t)
		for _, c := range t.children {
			if c.kind.IsLinked() {
				continue
			}
			if onPath[c] {
				return buildCycleError(path, c)
			}
			if err := visit(c); err != nil {
				return err
			}
		}
		onPath[t] = false
		path = path[:len(path)-1]

		out = append(out, t)
		return nil
	}

	if err := visit(root); err != nil {
		return nil, err
	}
	return out, nil
}

// BuildSet drops repeated targets from seq, keyed by output path, keeping the first.
func BuildSet(seq []*Target) []*Target {
	seen := make(map[string]struct{}, len(seq))
	out := make([]*Target, 0, len(seq))
	for _, t := range seq {
		p := t.Path()
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, t)
	}
	return out
}

// buildCycleError constructs an error with cycle path metadata.
func buildCycleError(path []*Target, dep *Target) error {
	start := 0
	for i, t := range path {
		if t == dep {
			start = i
			break
		}
	}
	names := make([]string, 0, len(path)-start+1)
	for _, t := range path[start:] {
		names = append(names, t.name)
	}
	names = append(names, dep.name)
	return zerr.With(ErrCycleDetected, "cycle", strings.Join(names, " -> "))
}
