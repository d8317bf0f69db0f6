package producer

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/iulianpascalau/aa-samples/services/metrics/common"
	"github.com/multiversx/mx-chain-core-go/core/check"
	logger "github.com/multiversx/mx-chain-logger-go"
	"github.com/twmb/franz-go/pkg/kgo"
)

const pingTimeout = 10 * time.Second

var log = logger.GetOrCreate("producer")

// ArgsSampleProducer is the DTO used to create a new sample producer
type ArgsSampleProducer struct {
	Client       BrokerClient
	Generator    SampleGenerator
	Codec        Codec
	Topic        string
	PartitionKey string
}

type sampleProducer struct {
	client       BrokerClient
	generator    SampleGenerator
	codec        Codec
	topic        string
	partitionKey []byte
}

// NewSampleProducer creates a new producer that publishes synthetic metrics on the configured topic
func NewSampleProducer(args ArgsSampleProducer) (*sampleProducer, error) {
	if args.Client == nil {
		return nil, errNilBrokerClient
	}
	if check.IfNil(args.Generator) {
		return nil, errNilGenerator
	}
	if check.IfNil(args.Codec) {
		return nil, errNilCodec
	}
	if len(args.Topic) == 0 {
		return nil, errEmptyTopic
	}

	return &sampleProducer{
		client:       args.Client,
		generator:    args.Generator,
		codec:        args.Codec,
		topic:        args.Topic,
		partitionKey: []byte(args.PartitionKey),
	}, nil
}

// SendSamples publishes numSamples fresh samples without waiting for each acknowledgment and flushes the
// buffered records before returning. Delivery errors are logged and counted, they do not stop the batch.
func (p *sampleProducer) SendSamples(ctx context.Context, numSamples int) (common.SendStats, error) {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	err := p.client.Ping(pingCtx)
	cancel()
	if err != nil {
		return common.SendStats{}, fmt.Errorf("%w for topic %s: %v", common.ErrBrokerUnavailable, p.topic, err)
	}

	log.Info("sending random sample messages", "count", numSamples, "topic", p.topic, "codec", p.codec.Name())

	failed := int64(0)
	promise := func(record *kgo.Record, err error) {
		if err == nil {
			return
		}

		atomic.AddInt64(&failed, 1)
		log.Warn("failed to deliver sample", "topic", record.Topic, "error", err)
	}

	stats := common.SendStats{}
	for i := 0; i < numSamples; i++ {
		stats.Attempted++

		value, errEncode := p.codec.Encode(p.generator.Generate())
		if errEncode != nil {
			atomic.AddInt64(&failed, 1)
			log.Warn("failed to encode sample", "codec", p.codec.Name(), "error", errEncode)
			continue
		}

		p.client.Produce(ctx, &kgo.Record{
			Topic: p.topic,
			Key:   p.partitionKey,
			Value: value,
		}, promise)
	}

	err = p.client.Flush(ctx)
	stats.Failed = int(atomic.LoadInt64(&failed))
	if err != nil {
		return stats, fmt.Errorf("failed to flush samples: %w", err)
	}

	log.Debug("finished sending samples", "attempted", stats.Attempted, "failed", stats.Failed)

	return stats, nil
}

// Topic returns the destination topic
func (p *sampleProducer) Topic() string {
	return p.topic
}

// IsInterfaceNil returns true if the value under the interface is nil
func (p *sampleProducer) IsInterfaceNil() bool {
	return p == nil
}
