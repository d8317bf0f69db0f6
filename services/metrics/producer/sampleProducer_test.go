package producer

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/iulianpascalau/aa-samples/services/metrics/common"
	"github.com/iulianpascalau/aa-samples/services/metrics/testsCommon"
	"github.com/stretchr/testify/assert"
	"github.com/twmb/franz-go/pkg/kgo"
)

func createMockArgs() ArgsSampleProducer {
	return ArgsSampleProducer{
		Client:       &testsCommon.BrokerClientStub{},
		Generator:    &testsCommon.SampleGeneratorStub{},
		Codec:        &testsCommon.CodecStub{NameValue: "stub"},
		Topic:        "aa-metrics",
		PartitionKey: "prod.primary.sample-web.sample-metric",
	}
}

func TestNewSampleProducer(t *testing.T) {
	t.Parallel()

	t.Run("nil client should error", func(t *testing.T) {
		args := createMockArgs()
		args.Client = nil

		p, err := NewSampleProducer(args)
		assert.Nil(t, p)
		assert.True(t, p.IsInterfaceNil())
		assert.Equal(t, errNilBrokerClient, err)
	})
	t.Run("nil generator should error", func(t *testing.T) {
		args := createMockArgs()
		args.Generator = nil

		p, err := NewSampleProducer(args)
		assert.Nil(t, p)
		assert.Equal(t, errNilGenerator, err)
	})
	t.Run("nil codec should error", func(t *testing.T) {
		args := createMockArgs()
		args.Codec = nil

		p, err := NewSampleProducer(args)
		assert.Nil(t, p)
		assert.Equal(t, errNilCodec, err)
	})
	t.Run("empty topic should error", func(t *testing.T) {
		args := createMockArgs()
		args.Topic = ""

		p, err := NewSampleProducer(args)
		assert.Nil(t, p)
		assert.Equal(t, errEmptyTopic, err)
	})
	t.Run("should work", func(t *testing.T) {
		p, err := NewSampleProducer(createMockArgs())
		assert.Nil(t, err)
		assert.False(t, p.IsInterfaceNil())
		assert.Equal(t, "aa-metrics", p.Topic())
	})
}

func TestSampleProducer_SendSamples(t *testing.T) {
	t.Parallel()

	t.Run("unreachable broker should not produce", func(t *testing.T) {
		t.Parallel()

		numProduced := 0
		args := createMockArgs()
		args.Client = &testsCommon.BrokerClientStub{
			PingHandler: func(ctx context.Context) error {
				return errors.New("connection refused")
			},
			ProduceHandler: func(ctx context.Context, record *kgo.Record, promise func(*kgo.Record, error)) {
				numProduced++
			},
		}
		p, _ := NewSampleProducer(args)

		stats, err := p.SendSamples(context.Background(), 10)
		assert.True(t, errors.Is(err, common.ErrBrokerUnavailable))
		assert.Contains(t, err.Error(), "aa-metrics")
		assert.Contains(t, err.Error(), "connection refused")
		assert.Equal(t, common.SendStats{}, stats)
		assert.Zero(t, numProduced)
	})
	t.Run("should produce exactly n records and flush once", func(t *testing.T) {
		t.Parallel()

		var records []*kgo.Record
		numFlushes := 0
		args := createMockArgs()
		args.Client = &testsCommon.BrokerClientStub{
			ProduceHandler: func(ctx context.Context, record *kgo.Record, promise func(*kgo.Record, error)) {
				assert.Zero(t, numFlushes)
				records = append(records, record)
			},
			FlushHandler: func(ctx context.Context) error {
				numFlushes++
				return nil
			},
		}
		p, _ := NewSampleProducer(args)

		stats, err := p.SendSamples(context.Background(), 250)
		assert.Nil(t, err)
		assert.Equal(t, common.SendStats{Attempted: 250}, stats)
		assert.Equal(t, 1, numFlushes)
		assert.Len(t, records, 250)
		for _, record := range records {
			assert.Equal(t, "aa-metrics", record.Topic)
			assert.Equal(t, []byte("prod.primary.sample-web.sample-metric"), record.Key)
			assert.Equal(t, []byte("samplemetric"), record.Value)
		}
	})
	t.Run("delivery errors should be counted and not stop the batch", func(t *testing.T) {
		t.Parallel()

		var mut sync.Mutex
		numProduced := 0
		var wg sync.WaitGroup
		args := createMockArgs()
		args.Client = &testsCommon.BrokerClientStub{
			ProduceHandler: func(ctx context.Context, record *kgo.Record, promise func(*kgo.Record, error)) {
				mut.Lock()
				numProduced++
				shouldFail := numProduced%2 == 0
				mut.Unlock()

				wg.Add(1)
				go func() {
					defer wg.Done()

					if shouldFail {
						promise(record, kgo.ErrRecordTimeout)
						return
					}
					promise(record, nil)
				}()
			},
			FlushHandler: func(ctx context.Context) error {
				wg.Wait()
				return nil
			},
		}
		p, _ := NewSampleProducer(args)

		stats, err := p.SendSamples(context.Background(), 10)
		assert.Nil(t, err)
		assert.Equal(t, common.SendStats{Attempted: 10, Failed: 5}, stats)
	})
	t.Run("encode errors should be counted and skipped", func(t *testing.T) {
		t.Parallel()

		numEncoded := 0
		numProduced := 0
		args := createMockArgs()
		args.Codec = &testsCommon.CodecStub{
			EncodeHandler: func(sample common.SampleMetric) ([]byte, error) {
				numEncoded++
				if numEncoded == 1 {
					return nil, errors.New("encode failure")
				}
				return []byte("ok"), nil
			},
		}
		args.Client = &testsCommon.BrokerClientStub{
			ProduceHandler: func(ctx context.Context, record *kgo.Record, promise func(*kgo.Record, error)) {
				numProduced++
			},
		}
		p, _ := NewSampleProducer(args)

		stats, err := p.SendSamples(context.Background(), 3)
		assert.Nil(t, err)
		assert.Equal(t, common.SendStats{Attempted: 3, Failed: 1}, stats)
		assert.Equal(t, 2, numProduced)
	})
	t.Run("flush error should be returned", func(t *testing.T) {
		t.Parallel()

		expectedErr := errors.New("flush failure")
		args := createMockArgs()
		args.Client = &testsCommon.BrokerClientStub{
			FlushHandler: func(ctx context.Context) error {
				return expectedErr
			},
		}
		p, _ := NewSampleProducer(args)

		stats, err := p.SendSamples(context.Background(), 2)
		assert.True(t, errors.Is(err, expectedErr))
		assert.Equal(t, 2, stats.Attempted)
	})
}
