// Package shell provides the executor that runs build commands as external processes.
package shell

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os/exec"
	"strings"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

// Executor implements ports.Executor using os/exec.
type Executor struct {
	logger ports.Logger
	dir    string
}

// NewExecutor creates a new Executor running commands in the current directory.
func NewExecutor(logger ports.Logger) *Executor {
	return &Executor{logger: logger}
}

// WithDir returns a copy of e that runs commands in dir.
func (e *Executor) WithDir(dir string) *Executor {
	return &Executor{logger: e.logger, dir: dir}
}

// Execute runs argv and waits for it. Output lines go to the logger and, when
// ctx carries a vertex, to the vertex as well.
func (e *Executor) Execute(ctx context.Context, argv []string) error {
	if len(argv) == 0 {
		return nil
	}

	stdoutLog := &logWriter{emit: e.logger.Info}
	stderrLog := &logWriter{emit: e.logger.Warn}
	defer func() {
		_ = stdoutLog.Close()
		_ = stderrLog.Close()
	}()

	var stdout, stderr io.Writer = stdoutLog, stderrLog
	if v, ok := ports.VertexFromContext(ctx); ok {
		stdout = io.MultiWriter(stdoutLog, v.Stdout())
		stderr = io.MultiWriter(stderrLog, v.Stderr())
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...) //nolint:gosec // Commands come from the project toolchain
	cmd.Dir = e.dir
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Run(); err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		failed := zerr.With(zerr.Wrap(domain.ErrCommandFailed, argv[0]), "exit_code", exitCode)
		return zerr.With(failed, "cause", err.Error())
	}
	return nil
}

// logWriter turns a byte stream into one log call per line.
type logWriter struct {
	emit func(string)
	buf  []byte
}

func (w *logWriter) Write(p []byte) (int, error) {
	w.buf = append(w.buf, p...)
	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}
		w.logLine(w.buf[:i])
		w.buf = w.buf[i+1:]
	}
	return len(p), nil
}

func (w *logWriter) Close() error {
	if len(w.buf) > 0 {
		w.logLine(w.buf)
		w.buf = nil
	}
	return nil
}

func (w *logWriter) logLine(line []byte) {
	w.emit(strings.TrimSuffix(string(line), "\r"))
}
