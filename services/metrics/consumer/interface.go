package consumer

import (
	"context"

	"github.com/twmb/franz-go/pkg/kgo"
)

// BrokerClient defines the Kafka operations used by the consumer. *kgo.Client satisfies it.
type BrokerClient interface {
	Ping(ctx context.Context) error
	PollFetches(ctx context.Context) kgo.Fetches
}

// ProgressHandler receives the running counters after each record
type ProgressHandler interface {
	Update(anomalies int, total int)
	IsInterfaceNil() bool
}
