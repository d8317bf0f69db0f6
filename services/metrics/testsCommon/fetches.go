package testsCommon

import (
	"context"
	"sync"

	"github.com/twmb/franz-go/pkg/kgo"
)

// CreateFetches wraps the provided record values in a single partition fetch
func CreateFetches(topic string, firstOffset int64, values ...string) kgo.Fetches {
	records := make([]*kgo.Record, 0, len(values))
	for i, value := range values {
		records = append(records, &kgo.Record{
			Topic:  topic,
			Value:  []byte(value),
			Offset: firstOffset + int64(i),
		})
	}

	return kgo.Fetches{
		{
			Topics: []kgo.FetchTopic{
				{
					Topic: topic,
					Partitions: []kgo.FetchPartition{
						{
							Partition: 0,
							Records:   records,
						},
					},
				},
			},
		},
	}
}

// NewBatchedPollFetchesHandler returns a PollFetches handler that serves the provided batches in order and then
// blocks until the poll context expires, as an idle topic does
func NewBatchedPollFetchesHandler(batches ...kgo.Fetches) func(ctx context.Context) kgo.Fetches {
	var mut sync.Mutex
	index := 0

	return func(ctx context.Context) kgo.Fetches {
		mut.Lock()
		if index < len(batches) {
			batch := batches[index]
			index++
			mut.Unlock()

			return batch
		}
		mut.Unlock()

		<-ctx.Done()

		return kgo.NewErrFetch(ctx.Err())
	}
}
