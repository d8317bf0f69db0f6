package engine

import (
	"context"
	"time"

	"github.com/iulianpascalau/aa-samples/services/metrics/common"
)

// SampleProducer defines the component able to publish synthetic metrics
type SampleProducer interface {
	// SendSamples publishes numSamples fresh records and flushes them before returning.
	// Per-record delivery failures are counted in the returned stats, not returned as errors.
	SendSamples(ctx context.Context, numSamples int) (common.SendStats, error)
	Topic() string
	IsInterfaceNil() bool
}

// AnomalyConsumer defines the component able to read back the anomaly results
type AnomalyConsumer interface {
	// Consume reads records until the idle timeout elapses without new records
	Consume(ctx context.Context) (*common.AnomalyReport, error)
	IsInterfaceNil() bool
}

// ProgressPrinter defines the component that shows the consumer progress on a single line
type ProgressPrinter interface {
	Start(interval time.Duration)
	Stop()
	IsInterfaceNil() bool
}
