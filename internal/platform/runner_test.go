package platform

import (
	"context"
	"runtime"
	"testing"
	"time"
)

func shellCommand(t *testing.T, script string) []string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell-based runner tests are POSIX only")
	}
	return []string{"/bin/sh", "-c", script}
}

func TestRunnerStreamsLinesInOrder(t *testing.T) {
	runner := NewRunner()
	argv := shellCommand(t, `printf 'one\ntwo\nthree\n'`)

	var lines []string
	code, combined, err := runner.Run(context.Background(), argv, func(line string) {
		lines = append(lines, line)
	})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if code != CodeSuccess {
		t.Fatalf("code = %d, want %d", code, CodeSuccess)
	}

	want := []string{"one", "two", "three"}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d: %v", len(lines), len(want), lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
	if combined != "one\ntwo\nthree\n" {
		t.Errorf("combined = %q", combined)
	}
}

func TestRunnerStreamsOversizedLine(t *testing.T) {
	runner := NewRunner()
	// One 2 MiB line, the shape of a flat-playlist -J payload for a large
	// playlist. It must arrive whole, not truncate the stream.
	argv := shellCommand(t, `head -c 2097152 /dev/zero | tr '\0' a; echo; echo done`)

	var lines []string
	code, _, err := runner.Run(context.Background(), argv, func(line string) {
		lines = append(lines, line)
	})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if code != CodeSuccess {
		t.Fatalf("code = %d, want %d", code, CodeSuccess)
	}
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if len(lines[0]) != 2097152 {
		t.Errorf("long line length = %d, want 2097152", len(lines[0]))
	}
	if lines[1] != "done" {
		t.Errorf("trailing line = %q, want %q", lines[1], "done")
	}
}

func TestRunnerResetClearsCancelledFlag(t *testing.T) {
	runner := NewRunner()
	runner.Cancel()
	if !runner.Cancelled() {
		t.Fatal("Cancel must set the flag")
	}
	runner.Reset()
	if runner.Cancelled() {
		t.Error("Reset must clear the flag")
	}
}

func TestRunnerMergesStderr(t *testing.T) {
	runner := NewRunner()
	argv := shellCommand(t, `echo out; echo err 1>&2`)

	var lines []string
	_, _, err := runner.Run(context.Background(), argv, func(line string) {
		lines = append(lines, line)
	})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("expected both streams in output, got %v", lines)
	}
}

func TestRunnerReportsExitCode(t *testing.T) {
	runner := NewRunner()
	argv := shellCommand(t, `echo failing; exit 3`)

	code, combined, err := runner.Run(context.Background(), argv, nil)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if code != 3 {
		t.Errorf("code = %d, want 3", code)
	}
	if combined != "failing\n" {
		t.Errorf("combined = %q", combined)
	}
}

func TestRunnerStartFailure(t *testing.T) {
	runner := NewRunner()

	_, _, err := runner.Run(context.Background(), []string{"/nonexistent/binary/for/test"}, nil)
	if err == nil {
		t.Fatal("expected start error")
	}
	if runner.Busy() {
		t.Error("handle must be clear after a failed start")
	}
}

func TestRunnerCancelAlwaysWins(t *testing.T) {
	runner := NewRunner()
	argv := shellCommand(t, `echo started; sleep 30`)

	started := make(chan struct{})
	done := make(chan int, 1)
	go func() {
		code, _, err := runner.Run(context.Background(), argv, func(line string) {
			if line == "started" {
				close(started)
			}
		})
		if err != nil {
			t.Errorf("Run returned error: %v", err)
		}
		done <- code
	}()

	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatal("process did not start in time")
	}

	runner.Cancel()

	select {
	case code := <-done:
		if code != CodeCancelled {
			t.Errorf("code = %d, want %d", code, CodeCancelled)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("cancelled run did not return in time")
	}

	if runner.Busy() {
		t.Error("handle must be clear after a cancelled run")
	}
}

func TestRunnerContextCancellation(t *testing.T) {
	runner := NewRunner()
	argv := shellCommand(t, `sleep 30`)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan int, 1)
	go func() {
		code, _, _ := runner.Run(ctx, argv, nil)
		done <- code
	}()

	time.Sleep(200 * time.Millisecond)
	cancel()

	select {
	case code := <-done:
		if code != CodeCancelled {
			t.Errorf("code = %d, want %d", code, CodeCancelled)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("run did not stop on context cancellation")
	}
}

func TestRunnerRejectsConcurrentStart(t *testing.T) {
	runner := NewRunner()
	argv := shellCommand(t, `sleep 30`)

	go func() {
		_, _, _ = runner.Run(context.Background(), argv, nil)
	}()

	deadline := time.Now().Add(5 * time.Second)
	for !runner.Busy() {
		if time.Now().After(deadline) {
			t.Fatal("first run never became busy")
		}
		time.Sleep(10 * time.Millisecond)
	}

	_, _, err := runner.Run(context.Background(), []string{"/bin/true"}, nil)
	if err != ErrRunnerBusy {
		t.Errorf("err = %v, want ErrRunnerBusy", err)
	}

	runner.Cancel()
}

func TestRunnerHandleClearedAfterSuccess(t *testing.T) {
	runner := NewRunner()
	argv := shellCommand(t, `true`)

	if _, _, err := runner.Run(context.Background(), argv, nil); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if runner.Busy() {
		t.Error("handle must be clear after a successful run")
	}

	// A fresh run must be possible immediately afterwards
	code, _, err := runner.Run(context.Background(), argv, nil)
	if err != nil || code != CodeSuccess {
		t.Errorf("second run failed: code=%d err=%v", code, err)
	}
}
