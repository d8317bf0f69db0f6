package producer

import (
	"context"

	"github.com/iulianpascalau/aa-samples/services/metrics/common"
	"github.com/twmb/franz-go/pkg/kgo"
)

// BrokerClient defines the Kafka operations used by the producer. *kgo.Client satisfies it.
type BrokerClient interface {
	Ping(ctx context.Context) error
	Produce(ctx context.Context, record *kgo.Record, promise func(*kgo.Record, error))
	Flush(ctx context.Context) error
}

// SampleGenerator builds fresh sample metrics
type SampleGenerator interface {
	Generate() common.SampleMetric
	IsInterfaceNil() bool
}

// Codec serializes sample metrics
type Codec interface {
	Encode(sample common.SampleMetric) ([]byte, error)
	Name() string
	IsInterfaceNil() bool
}
