package testsCommon

import (
	"context"

	"github.com/iulianpascalau/aa-samples/services/trainer/common"
)

// StorageStub -
type StorageStub struct {
	SaveRunHandler        func(ctx context.Context, record common.RunRecord) error
	GetRunsHandler        func(ctx context.Context) ([]common.RunRecord, error)
	GetDatasetRunsHandler func(ctx context.Context, datasetName string) ([]common.RunRecord, error)
	CloseHandler          func() error
}

// SaveRun -
func (stub *StorageStub) SaveRun(ctx context.Context, record common.RunRecord) error {
	if stub.SaveRunHandler != nil {
		return stub.SaveRunHandler(ctx, record)
	}

	return nil
}

// GetRuns -
func (stub *StorageStub) GetRuns(ctx context.Context) ([]common.RunRecord, error) {
	if stub.GetRunsHandler != nil {
		return stub.GetRunsHandler(ctx)
	}

	return make([]common.RunRecord, 0), nil
}

// GetDatasetRuns -
func (stub *StorageStub) GetDatasetRuns(ctx context.Context, datasetName string) ([]common.RunRecord, error) {
	if stub.GetDatasetRunsHandler != nil {
		return stub.GetDatasetRunsHandler(ctx, datasetName)
	}

	return make([]common.RunRecord, 0), nil
}

// Close -
func (stub *StorageStub) Close() error {
	if stub.CloseHandler != nil {
		return stub.CloseHandler()
	}

	return nil
}

// IsInterfaceNil -
func (stub *StorageStub) IsInterfaceNil() bool {
	return stub == nil
}
