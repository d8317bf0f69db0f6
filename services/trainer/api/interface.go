package api

import (
	"context"

	"github.com/iulianpascalau/aa-samples/services/trainer/common"
)

// Storage defines the read side of the run ledger
type Storage interface {
	// GetRuns returns all retained runs, oldest first
	GetRuns(ctx context.Context) ([]common.RunRecord, error)

	// GetDatasetRuns returns the retained runs of one dataset or an error wrapping storage.ErrRunsNotFound
	GetDatasetRuns(ctx context.Context, datasetName string) ([]common.RunRecord, error)

	IsInterfaceNil() bool
}
