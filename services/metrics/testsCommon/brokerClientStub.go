package testsCommon

import (
	"context"

	"github.com/twmb/franz-go/pkg/kgo"
)

// BrokerClientStub -
type BrokerClientStub struct {
	PingHandler        func(ctx context.Context) error
	ProduceHandler     func(ctx context.Context, record *kgo.Record, promise func(*kgo.Record, error))
	FlushHandler       func(ctx context.Context) error
	PollFetchesHandler func(ctx context.Context) kgo.Fetches
	CloseHandler       func()
}

// Ping -
func (stub *BrokerClientStub) Ping(ctx context.Context) error {
	if stub.PingHandler != nil {
		return stub.PingHandler(ctx)
	}

	return nil
}

// Produce -
func (stub *BrokerClientStub) Produce(ctx context.Context, record *kgo.Record, promise func(*kgo.Record, error)) {
	if stub.ProduceHandler != nil {
		stub.ProduceHandler(ctx, record, promise)
		return
	}

	if promise != nil {
		promise(record, nil)
	}
}

// Flush -
func (stub *BrokerClientStub) Flush(ctx context.Context) error {
	if stub.FlushHandler != nil {
		return stub.FlushHandler(ctx)
	}

	return nil
}

// PollFetches -
func (stub *BrokerClientStub) PollFetches(ctx context.Context) kgo.Fetches {
	if stub.PollFetchesHandler != nil {
		return stub.PollFetchesHandler(ctx)
	}

	<-ctx.Done()

	return kgo.NewErrFetch(ctx.Err())
}

// Close -
func (stub *BrokerClientStub) Close() {
	if stub.CloseHandler != nil {
		stub.CloseHandler()
	}
}
