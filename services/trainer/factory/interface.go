package factory

import (
	"context"

	"github.com/iulianpascalau/aa-samples/services/trainer/common"
)

// Server defines the operation of an entity able to serve requests
type Server interface {
	Start() error
	Address() string
	Close() error
}

// Trainer defines the batch notebook runner
type Trainer interface {
	TrainAll(ctx context.Context) ([]common.RunRecord, error)
	IsInterfaceNil() bool
}

// Store defines the run ledger lifecycle
type Store interface {
	SaveRun(ctx context.Context, record common.RunRecord) error
	GetRuns(ctx context.Context) ([]common.RunRecord, error)
	GetDatasetRuns(ctx context.Context, datasetName string) ([]common.RunRecord, error)
	Close() error
	IsInterfaceNil() bool
}
