package taskwarrior

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"time"
)

// DefaultWaitDelay bounds how long Run waits for the output pipes after the
// context kills the binary. Hooks and wrapper scripts may leave children
// holding them open.
const DefaultWaitDelay = time.Second

// Runner runs the task binary with args and returns what it wrote to
// stdout and stderr.
type Runner interface {
	Run(ctx context.Context, args ...string) (stdout, stderr []byte, err error)
}

// ExecRunner runs a real binary as a child process.
type ExecRunner struct {
	Binary string
	// Env is appended to the parent environment, e.g. TASKRC=/path.
	Env []string
	// WaitDelay overrides DefaultWaitDelay when positive.
	WaitDelay time.Duration
}

func (r *ExecRunner) Run(ctx context.Context, args ...string) ([]byte, []byte, error) {
	// #nosec G204 - args are built by the client, never from a shell string
	cmd := exec.CommandContext(ctx, r.Binary, args...)
	cmd.WaitDelay = DefaultWaitDelay
	if r.WaitDelay > 0 {
		cmd.WaitDelay = r.WaitDelay
	}
	if len(r.Env) > 0 {
		cmd.Env = append(os.Environ(), r.Env...)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}
