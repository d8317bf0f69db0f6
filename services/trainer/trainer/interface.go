package trainer

import (
	"context"

	"github.com/iulianpascalau/aa-samples/services/trainer/common"
)

// NotebookExecutor runs one parameterized notebook
type NotebookExecutor interface {
	Execute(ctx context.Context, inputNotebook string, outputNotebook string, params common.RunParameters) error
	IsInterfaceNil() bool
}

// RunLedger records the outcome of each notebook run
type RunLedger interface {
	SaveRun(ctx context.Context, record common.RunRecord) error
	IsInterfaceNil() bool
}
