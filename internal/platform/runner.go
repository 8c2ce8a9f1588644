package platform

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"sync/atomic"
)

// Result codes returned by Runner.Run. Any other nonzero value is the
// external tool's own exit code.
const (
	CodeSuccess   = 0
	CodeCancelled = -1
)

// Read buffer size for the output stream. Lines themselves are unbounded;
// a flat-playlist -J payload is one JSON line that can run to many MiB.
const readBufferSize = 64 * 1024

// ErrRunnerBusy is returned when Run is called while a child process is
// still associated with the runner.
var ErrRunnerBusy = errors.New("runner: a process is already running")

// LineFunc receives each complete output line as it arrives
type LineFunc func(line string)

// Runner executes one external command at a time, streaming its merged
// stdout/stderr line by line to a caller-supplied callback. Run blocks until
// the process exits or is cancelled, so callers invoke it on a dedicated
// worker goroutine, never on the rendering goroutine.
type Runner struct {
	mu        sync.Mutex
	proc      *os.Process
	cancelled atomic.Bool
}

// NewRunner creates an idle runner
func NewRunner() *Runner {
	return &Runner{}
}

// Run spawns argv with stdout and stderr merged into one stream and
// dispatches complete lines to onLine as they arrive. It returns the exit
// code (CodeSuccess, the tool's nonzero code, or CodeCancelled) together
// with the full combined output, which callers need for the JSON metadata
// fetch. The process handle is cleared on every exit path; a cancelled run
// always reports CodeCancelled regardless of the killed process's own exit
// code. A non-nil error means the process could not be started at all.
func (r *Runner) Run(ctx context.Context, argv []string, onLine LineFunc) (int, string, error) {
	if len(argv) == 0 {
		return 0, "", errors.New("runner: empty argument vector")
	}

	r.mu.Lock()
	if r.proc != nil {
		r.mu.Unlock()
		return 0, "", ErrRunnerBusy
	}
	r.cancelled.Store(false)

	cmd := exec.Command(argv[0], argv[1:]...)
	hideConsoleWindow(cmd)

	pr, pw, err := os.Pipe()
	if err != nil {
		r.mu.Unlock()
		return 0, "", fmt.Errorf("runner: create pipe: %w", err)
	}
	cmd.Stdout = pw
	cmd.Stderr = pw

	if err := cmd.Start(); err != nil {
		r.mu.Unlock()
		pr.Close()
		pw.Close()
		return 0, "", fmt.Errorf("runner: start %s: %w", argv[0], err)
	}
	r.proc = cmd.Process
	r.mu.Unlock()

	// The child holds its own copy of the write end
	pw.Close()

	defer func() {
		r.mu.Lock()
		r.proc = nil
		r.mu.Unlock()
	}()

	// Propagate context cancellation into cooperative cancel + kill
	watchDone := make(chan struct{})
	defer close(watchDone)
	go func() {
		select {
		case <-ctx.Done():
			r.Cancel()
		case <-watchDone:
		}
	}()

	var combined strings.Builder
	reader := bufio.NewReaderSize(pr, readBufferSize)

	for {
		// Cooperative cancellation, checked before every read attempt.
		// Cancel also kills the child, which unblocks the pending read.
		if r.cancelled.Load() {
			r.killProcess()
			break
		}
		line, readErr := reader.ReadString('\n')
		if len(line) > 0 {
			trimmed := strings.TrimRight(line, "\r\n")
			// A complete line is always emitted, even when blank; a final
			// unterminated fragment only when it carries content.
			if readErr == nil || trimmed != "" {
				combined.WriteString(trimmed)
				combined.WriteByte('\n')
				if onLine != nil {
					onLine(trimmed)
				}
			}
		}
		if readErr != nil {
			break
		}
	}

	// Drain whatever is left so the read end reaches EOF before Wait
	_, _ = io.Copy(io.Discard, pr)
	pr.Close()

	waitErr := cmd.Wait()

	if r.cancelled.Load() {
		return CodeCancelled, combined.String(), nil
	}
	if waitErr != nil {
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			return exitErr.ExitCode(), combined.String(), nil
		}
		return 0, combined.String(), fmt.Errorf("runner: wait %s: %w", argv[0], waitErr)
	}
	return CodeSuccess, combined.String(), nil
}

// Cancel requests cooperative cancellation of the current run and forcibly
// terminates the child process. Safe to call from any goroutine, including
// when no process is running.
func (r *Runner) Cancel() {
	r.cancelled.Store(true)
	r.killProcess()
}

// Cancelled reports whether the most recent run was cancelled. The flag is
// reset when the next run starts.
func (r *Runner) Cancelled() bool {
	return r.cancelled.Load()
}

// Reset clears a cancellation flag left over from an earlier run. Flows call
// it once when they start, so that cancelling flow N cannot bleed into the
// first cancellation check of flow N+1.
func (r *Runner) Reset() {
	r.cancelled.Store(false)
}

// Busy reports whether a child process is currently associated with the
// runner. It is false immediately after Run returns, on every exit path.
func (r *Runner) Busy() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.proc != nil
}

func (r *Runner) killProcess() {
	r.mu.Lock()
	p := r.proc
	r.mu.Unlock()
	if p != nil {
		_ = p.Kill()
	}
}
