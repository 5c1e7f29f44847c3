package command

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"syscall"
)

// Result holds what a finished process wrote and how it exited.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Executor runs external programs. Everything that talks to the display tool
// goes through it so the parsing logic can be exercised without one.
type Executor interface {
	// Run blocks until the process exits. A non-zero exit status is reported
	// in Result, not as an error; err is set only when the program could not
	// be executed at all.
	Run(ctx context.Context, name string, args ...string) (Result, error)

	// Start launches the program and returns without waiting for it.
	Start(name string, args ...string) error
}

type execExecutor struct{}

// Exec is the os/exec backed Executor.
var Exec Executor = execExecutor{}

func (execExecutor) Run(ctx context.Context, name string, args ...string) (Result, error) {
	var stdout, stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
	case errors.As(err, &exitErr):
		res.ExitCode = exitErr.ExitCode()
	default:
		return res, fmt.Errorf("failed to run %s: %w", name, err)
	}
	return res, nil
}

func (execExecutor) Start(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start %s: %w", name, err)
	}

	// reap the child; its outcome is not inspected
	go cmd.Wait()
	return nil
}
