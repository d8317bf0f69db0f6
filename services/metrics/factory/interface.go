package factory

import (
	"context"

	"github.com/iulianpascalau/aa-samples/services/metrics/common"
)

// Engine defines the sample tool's operations
type Engine interface {
	Run(ctx context.Context) error
	Produce(ctx context.Context)
	Consume(ctx context.Context) (*common.AnomalyReport, error)
	IsInterfaceNil() bool
}
