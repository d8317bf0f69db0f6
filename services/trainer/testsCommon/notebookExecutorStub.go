package testsCommon

import (
	"context"

	"github.com/iulianpascalau/aa-samples/services/trainer/common"
)

// NotebookExecutorStub -
type NotebookExecutorStub struct {
	ExecuteHandler func(ctx context.Context, inputNotebook string, outputNotebook string, params common.RunParameters) error
}

// Execute -
func (stub *NotebookExecutorStub) Execute(ctx context.Context, inputNotebook string, outputNotebook string, params common.RunParameters) error {
	if stub.ExecuteHandler != nil {
		return stub.ExecuteHandler(ctx, inputNotebook, outputNotebook, params)
	}

	return nil
}

// IsInterfaceNil -
func (stub *NotebookExecutorStub) IsInterfaceNil() bool {
	return stub == nil
}
