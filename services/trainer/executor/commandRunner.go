package executor

import (
	"context"
	"os/exec"
)

type osCommandRunner struct{}

// NewOSCommandRunner creates a runner that starts processes on the local machine
func NewOSCommandRunner() *osCommandRunner {
	return &osCommandRunner{}
}

// Run starts the command and waits for it. The process is killed when the context is done.
func (runner *osCommandRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	return cmd.CombinedOutput()
}

// IsInterfaceNil returns true if the value under the interface is nil
func (runner *osCommandRunner) IsInterfaceNil() bool {
	return runner == nil
}
