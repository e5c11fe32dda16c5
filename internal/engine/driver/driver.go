// Package driver runs the commands that bring a target up to date.
package driver

import (
	"context"
	"math"
	"path/filepath"
	"strings"
	"sync"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

// StepStatus represents the outcome of a build step.
type StepStatus string

const (
	// StatusRunning indicates the step's command is executing.
	StatusRunning StepStatus = "Running"
	// StatusBuilt indicates the step's command succeeded.
	StatusBuilt StepStatus = "Built"
	// StatusTouched indicates a stale source had its timestamp refreshed.
	StatusTouched StepStatus = "Touched"
	// StatusUpToDate indicates the step was skipped because nothing changed.
	StatusUpToDate StepStatus = "UpToDate"
	// StatusFailed indicates the step's command failed.
	StatusFailed StepStatus = "Failed"
)

// Options tunes a build.
type Options struct {
	// Jobs is the number of commands allowed to run at once. Values below 2 build sequentially.
	Jobs int
	// Dedupe builds each output path once even when several parents reach it.
	Dedupe bool
	// Force rebuilds every non-source target regardless of timestamps.
	Force bool
}

// Step is one planned action of a build.
type Step struct {
	Target *domain.Target
	// Argv is the command to run, or nil when the step touches a source.
	Argv []string
}

// String renders the step as a shell-like line.
func (s Step) String() string {
	if s.Argv == nil {
		return "touch " + s.Target.Path()
	}
	return strings.Join(s.Argv, " ")
}

// Driver builds targets by running the toolchain over their stale dependencies.
type Driver struct {
	executor  ports.Executor
	workspace ports.Workspace
	oracle    ports.TimestampOracle
	telemetry ports.Telemetry
	logger    ports.Logger

	mu     sync.RWMutex
	status map[string]StepStatus
}

// NewDriver creates a new Driver with the given ports.
func NewDriver(
	executor ports.Executor,
	workspace ports.Workspace,
	oracle ports.TimestampOracle,
	telemetry ports.Telemetry,
	logger ports.Logger,
) *Driver {
	return &Driver{
		executor:  executor,
		workspace: workspace,
		oracle:    oracle,
		telemetry: telemetry,
		logger:    logger,
		status:    make(map[string]StepStatus),
	}
}

// Build brings root up to date. Each target's staleness is judged when it is
// reached, so later targets observe the rebuilds of earlier ones.
// The first failing command aborts the build.
func (d *Driver) Build(ctx context.Context, tc *domain.Toolchain, root *domain.Target, opts Options) error {
	seq, err := sequence(root, opts.Dedupe)
	if err != nil {
		return err
	}

	if opts.Jobs > 1 {
		return d.runParallel(ctx, tc, seq, opts)
	}

	for _, t := range seq {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := d.step(ctx, tc, t, opts.Force); err != nil {
			return err
		}
	}
	return nil
}

// Clean removes every artifact root's build produces. Sources are never removed.
func (d *Driver) Clean(ctx context.Context, root *domain.Target) error {
	seq, err := sequence(root, true)
	if err != nil {
		return err
	}

	for _, t := range seq {
		if err := ctx.Err(); err != nil {
			return err
		}
		if t.Kind() == domain.KindSource {
			continue
		}
		for _, p := range append([]string{t.Path()}, t.Companions()...) {
			removed, err := d.workspace.Remove(p)
			if err != nil {
				return zerr.With(zerr.Wrap(err, "failed to clean target"), "target", t.Name())
			}
			if removed {
				d.logger.Info("removed " + p)
			}
		}
	}
	return nil
}

// Plan returns the steps Build would take for root without running them.
// Each planned step counts as newer than everything on disk and every earlier
// step when later targets are judged.
func (d *Driver) Plan(tc *domain.Toolchain, root *domain.Target, opts Options) ([]Step, error) {
	seq, err := sequence(root, opts.Dedupe)
	if err != nil {
		return nil, err
	}

	// Planned outputs get timestamps past anything on disk, in step order.
	clock := domain.Timestamp(math.MaxInt64 / 2)
	planned := make(map[string]domain.Timestamp)
	mtime := func(p string) domain.Timestamp {
		if ts, ok := planned[p]; ok {
			return ts
		}
		return d.oracle.Mtime(p)
	}

	var steps []Step
	for _, t := range seq {
		if !d.isStale(t, mtime, opts.Force) {
			continue
		}
		step := Step{Target: t}
		if t.Kind() != domain.KindSource {
			tool, err := toolFor(tc, t)
			if err != nil {
				return nil, err
			}
			if step.Argv, err = Command(tool, t); err != nil {
				return nil, err
			}
		}
		clock++
		planned[t.Path()] = clock
		for _, c := range t.Companions() {
			planned[c] = clock
		}
		steps = append(steps, step)
	}
	return steps, nil
}

// Statuses returns a copy of the step outcomes recorded so far, keyed by output path.
func (d *Driver) Statuses() map[string]StepStatus {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make(map[string]StepStatus, len(d.status))
	for k, v := range d.status {
		out[k] = v
	}
	return out
}

func (d *Driver) setStatus(path string, s StepStatus) {
	d.mu.Lock()
	defer d.mu.Unlock()

	// A later root that finds the output current does not hide the rebuild.
	if s == StatusUpToDate && d.status[path] == StatusBuilt {
		return
	}
	d.status[path] = s
}

func (d *Driver) isStale(t *domain.Target, mtime domain.MtimeFunc, force bool) bool {
	if force && t.Kind() != domain.KindSource {
		return true
	}
	return t.NeedsUpdating(mtime)
}

// step brings a single target up to date, assuming its children already are.
func (d *Driver) step(ctx context.Context, tc *domain.Toolchain, t *domain.Target, force bool) error {
	path := t.Path()

	if !d.isStale(t, d.oracle.Mtime, force) {
		if t.Kind() != domain.KindSource {
			_, v := d.telemetry.Record(ctx, path, t.String())
			v.Cached()
		}
		d.setStatus(path, StatusUpToDate)
		return nil
	}

	if t.Kind() == domain.KindSource {
		if err := d.workspace.Touch(path); err != nil {
			return zerr.With(zerr.Wrap(err, "failed to touch source"), "path", path)
		}
		d.setStatus(path, StatusTouched)
		return nil
	}

	tool, err := toolFor(tc, t)
	if err != nil {
		return err
	}
	argv, err := Command(tool, t)
	if err != nil {
		return err
	}
	if err := d.workspace.EnsureDir(filepath.Dir(path)); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create output directory"), "path", path)
	}

	d.setStatus(path, StatusRunning)
	d.logger.Info(strings.Join(argv, " "))

	vctx, v := d.telemetry.Record(ctx, path, t.String())
	err = d.executor.Execute(vctx, argv)
	v.Complete(err)
	if err != nil {
		d.setStatus(path, StatusFailed)
		return zerr.With(zerr.With(zerr.Wrap(err, "build step failed"), "target", t.Name()), "path", path)
	}

	d.setStatus(path, StatusBuilt)
	return nil
}

func sequence(root *domain.Target, dedupe bool) ([]*domain.Target, error) {
	seq, err := domain.Flatten(root)
	if err != nil {
		return nil, zerr.With(err, "root", root.Name())
	}
	if dedupe {
		seq = domain.BuildSet(seq)
	}
	return seq, nil
}
