package testsCommon

import (
	"context"
	"time"

	"github.com/iulianpascalau/aa-samples/services/metrics/common"
)

// SampleProducerStub -
type SampleProducerStub struct {
	SendSamplesHandler func(ctx context.Context, numSamples int) (common.SendStats, error)
	TopicValue         string
}

// SendSamples -
func (stub *SampleProducerStub) SendSamples(ctx context.Context, numSamples int) (common.SendStats, error) {
	if stub.SendSamplesHandler != nil {
		return stub.SendSamplesHandler(ctx, numSamples)
	}

	return common.SendStats{Attempted: numSamples}, nil
}

// Topic -
func (stub *SampleProducerStub) Topic() string {
	return stub.TopicValue
}

// IsInterfaceNil -
func (stub *SampleProducerStub) IsInterfaceNil() bool {
	return stub == nil
}

// AnomalyConsumerStub -
type AnomalyConsumerStub struct {
	ConsumeHandler func(ctx context.Context) (*common.AnomalyReport, error)
}

// Consume -
func (stub *AnomalyConsumerStub) Consume(ctx context.Context) (*common.AnomalyReport, error) {
	if stub.ConsumeHandler != nil {
		return stub.ConsumeHandler(ctx)
	}

	return &common.AnomalyReport{}, nil
}

// IsInterfaceNil -
func (stub *AnomalyConsumerStub) IsInterfaceNil() bool {
	return stub == nil
}

// ProgressPrinterStub -
type ProgressPrinterStub struct {
	StartHandler func(interval time.Duration)
	StopHandler  func()
}

// Start -
func (stub *ProgressPrinterStub) Start(interval time.Duration) {
	if stub.StartHandler != nil {
		stub.StartHandler(interval)
	}
}

// Stop -
func (stub *ProgressPrinterStub) Stop() {
	if stub.StopHandler != nil {
		stub.StopHandler()
	}
}

// IsInterfaceNil -
func (stub *ProgressPrinterStub) IsInterfaceNil() bool {
	return stub == nil
}
