package testsCommon

import "context"

// CommandRunnerStub -
type CommandRunnerStub struct {
	RunHandler func(ctx context.Context, name string, args ...string) ([]byte, error)
}

// Run -
func (stub *CommandRunnerStub) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	if stub.RunHandler != nil {
		return stub.RunHandler(ctx, name, args...)
	}

	return make([]byte, 0), nil
}

// IsInterfaceNil -
func (stub *CommandRunnerStub) IsInterfaceNil() bool {
	return stub == nil
}
