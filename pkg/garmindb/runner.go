package garmindb

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"
	"time"
)

// maxOutputBytes caps captured stdout/stderr per stream.
const maxOutputBytes = 10 * 1024 * 1024

// Result captures one collector invocation.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Duration time.Duration
}

// Partial reports whether a failed run still produced recognizable activity
// output, meaning some data was downloaded before the failure.
func (r *Result) Partial() bool {
	return r.ExitCode != 0 && strings.Contains(r.Stdout, "activities")
}

// Runner invokes the garmindb collector as a subprocess. The collector is an
// opaque external collaborator; all we control is its config file, its
// argument vector and its timeout.
type Runner struct {
	pythonPath string
	cliPath    string
	timeout    time.Duration
}

func NewRunner(pythonPath, cliPath string, timeout time.Duration) *Runner {
	return &Runner{
		pythonPath: pythonPath,
		cliPath:    cliPath,
		timeout:    timeout,
	}
}

// Available reports whether the collector's Python interpreter exists.
func (r *Runner) Available() bool {
	_, err := os.Stat(r.pythonPath)
	return err == nil
}

// Run executes the collector for the given config directory with download,
// import and analyze enabled. latest restricts the download to data newer
// than the previous run. Credentials never appear in the argument vector;
// they live in the config file. Exit code and captured output are returned
// even on failure so the caller can classify the result.
func (r *Runner) Run(ctx context.Context, configDir, workDir string, latest bool) (*Result, error) {
	runCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	args := []string{"-f", configDir, "-A", "-d", "-i", "--analyze"}
	if latest {
		args = append(args, "-l")
	}
	var cmd *exec.Cmd
	if _, err := os.Stat(r.cliPath); err == nil {
		cmd = exec.CommandContext(runCtx, r.pythonPath, append([]string{r.cliPath}, args...)...)
	} else {
		// Fall back to running garmindb as a Python module.
		cmd = exec.CommandContext(runCtx, r.pythonPath, append([]string{"-m", "garmindb"}, args...)...)
	}
	cmd.Dir = workDir

	var stdout, stderr cappedBuffer
	stdout.limit = maxOutputBytes
	stderr.limit = maxOutputBytes
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	result := &Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}

	if err != nil {
		// A timed-out subprocess is killed and also surfaces as an
		// ExitError, so the deadline has to be checked first.
		if runCtx.Err() == context.DeadlineExceeded {
			result.ExitCode = -1
			return result, context.DeadlineExceeded
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		return result, err
	}

	return result, nil
}

// cappedBuffer discards writes past its limit so a chatty collector cannot
// grow memory unbounded.
type cappedBuffer struct {
	buf   bytes.Buffer
	limit int
}

func (c *cappedBuffer) Write(p []byte) (int, error) {
	remaining := c.limit - c.buf.Len()
	if remaining <= 0 {
		return len(p), nil
	}
	if len(p) > remaining {
		c.buf.Write(p[:remaining])
		return len(p), nil
	}
	return c.buf.Write(p)
}

func (c *cappedBuffer) String() string {
	return c.buf.String()
}
