package cli

import (
	"context"
	"fmt"
	"os/exec"
)

// Commands used to produce display content.
const (
	AddressCommand = "hostname -I"
	ClockCommand   = "date"
)

// Runner runs a host command and returns what it wrote to standard output.
type Runner interface {
	Run(ctx context.Context, command string) (string, error)
}

// ShellRunner runs commands with a POSIX shell.
type ShellRunner struct {
	// Shell is the shell binary, "/bin/sh" if empty.
	Shell string
}

// Run executes command with "sh -c". The output is returned unmodified, including any trailing
// newline. A command that cannot start or exits non-zero is an error.
func (r ShellRunner) Run(ctx context.Context, command string) (string, error) {
	shell := r.Shell
	if shell == "" {
		shell = "/bin/sh"
	}

	out, err := exec.CommandContext(ctx, shell, "-c", command).Output()
	if err != nil {
		return string(out), fmt.Errorf("cli: run %q: %w", command, err)
	}
	return string(out), nil
}
