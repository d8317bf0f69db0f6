package consumer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iulianpascalau/aa-samples/services/metrics/common"
	"github.com/multiversx/mx-chain-core-go/core/check"
	logger "github.com/multiversx/mx-chain-logger-go"
	"github.com/tidwall/gjson"
	"github.com/twmb/franz-go/pkg/kgo"
)

const (
	anomalyLevelPath = "anomalyResult.anomalyLevel"
	metricValuePath  = "metricData.value"
)

var log = logger.GetOrCreate("consumer")

// ArgsAnomalyConsumer is the DTO used to create a new anomaly consumer
type ArgsAnomalyConsumer struct {
	Client      BrokerClient
	Progress    ProgressHandler
	IdleTimeout time.Duration
	Topic       string
}

type anomalyConsumer struct {
	client      BrokerClient
	progress    ProgressHandler
	idleTimeout time.Duration
	topic       string
}

// NewAnomalyConsumer creates a new consumer that tallies the WEAK and STRONG anomalies
func NewAnomalyConsumer(args ArgsAnomalyConsumer) (*anomalyConsumer, error) {
	if args.Client == nil {
		return nil, errNilBrokerClient
	}
	if check.IfNil(args.Progress) {
		return nil, errNilProgressHandler
	}
	if args.IdleTimeout <= 0 {
		return nil, errInvalidIdleTimeout
	}

	return &anomalyConsumer{
		client:      args.Client,
		progress:    args.Progress,
		idleTimeout: args.IdleTimeout,
		topic:       args.Topic,
	}, nil
}

// Consume reads anomaly results until no record arrives for the idle timeout. Offsets are never committed.
func (c *anomalyConsumer) Consume(ctx context.Context) (*common.AnomalyReport, error) {
	err := c.client.Ping(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w for topic %s: %v", common.ErrBrokerUnavailable, c.topic, err)
	}

	report := &common.AnomalyReport{
		Weak:   make([]float64, 0),
		Strong: make([]float64, 0),
	}

	for {
		pollCtx, cancel := context.WithTimeout(ctx, c.idleTimeout)
		fetches := c.client.PollFetches(pollCtx)
		cancel()

		if fetches.IsClientClosed() {
			return nil, fmt.Errorf("%w for topic %s: client closed", common.ErrBrokerUnavailable, c.topic)
		}

		timedOut, err := c.checkFetchErrors(fetches)
		if err != nil {
			return nil, err
		}

		numRecords := 0
		fetches.EachRecord(func(record *kgo.Record) {
			if err != nil {
				return
			}

			numRecords++
			err = c.processRecord(record, report)
		})
		if err != nil {
			return nil, err
		}

		if timedOut && numRecords == 0 {
			log.Debug("no new anomaly records, stopping", "topic", c.topic, "total", report.Total, "anomalies", report.Anomalies)
			return report, nil
		}
	}
}

func (c *anomalyConsumer) checkFetchErrors(fetches kgo.Fetches) (bool, error) {
	timedOut := false
	var fetchErr error
	fetches.EachError(func(topic string, partition int32, err error) {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			timedOut = true
			return
		}
		if fetchErr == nil {
			fetchErr = fmt.Errorf("%w for topic %s, partition %d: %v", common.ErrBrokerUnavailable, topic, partition, err)
		}
	})

	return timedOut, fetchErr
}

func (c *anomalyConsumer) processRecord(record *kgo.Record, report *common.AnomalyReport) error {
	if !gjson.ValidBytes(record.Value) {
		return fmt.Errorf("%w at partition %d, offset %d", ErrMalformedRecord, record.Partition, record.Offset)
	}

	report.Total++
	defer func() {
		c.progress.Update(report.Anomalies, report.Total)
	}()

	level := common.AnomalyLevel(gjson.GetBytes(record.Value, anomalyLevelPath).String())
	if level != common.AnomalyLevelWeak && level != common.AnomalyLevelStrong {
		return nil
	}

	value := gjson.GetBytes(record.Value, metricValuePath)
	if value.Type != gjson.Number {
		return fmt.Errorf("%w at partition %d, offset %d: missing %s", ErrMalformedRecord, record.Partition, record.Offset, metricValuePath)
	}

	report.Anomalies++
	switch level {
	case common.AnomalyLevelWeak:
		report.Weak = append(report.Weak, value.Float())
	case common.AnomalyLevelStrong:
		report.Strong = append(report.Strong, value.Float())
	}

	return nil
}

// IsInterfaceNil returns true if the value under the interface is nil
func (c *anomalyConsumer) IsInterfaceNil() bool {
	return c == nil
}
