package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/iulianpascalau/aa-samples/services/metrics/common"
	"github.com/iulianpascalau/aa-samples/services/metrics/config"
	"github.com/multiversx/mx-chain-core-go/core/check"
	logger "github.com/multiversx/mx-chain-logger-go"
)

const defaultProgressInterval = 200 * time.Millisecond

var log = logger.GetOrCreate("engine")

// ArgsSamplesEngine is the DTO used to create a new samples engine
type ArgsSamplesEngine struct {
	Config   config.Config
	Producer SampleProducer
	Consumer AnomalyConsumer
	Progress ProgressPrinter
	Output   io.Writer
}

// samplesEngine runs the producer and the consumer as configured
type samplesEngine struct {
	config   config.Config
	producer SampleProducer
	consumer AnomalyConsumer
	progress ProgressPrinter
	output   io.Writer
}

// NewSamplesEngine creates a new engine instance
func NewSamplesEngine(args ArgsSamplesEngine) (*samplesEngine, error) {
	if check.IfNil(args.Producer) {
		return nil, errors.New("nil producer")
	}
	if check.IfNil(args.Consumer) {
		return nil, errors.New("nil consumer")
	}
	if check.IfNil(args.Progress) {
		return nil, errors.New("nil progress printer")
	}
	if args.Output == nil {
		return nil, errors.New("nil output")
	}

	return &samplesEngine{
		config:   args.Config,
		producer: args.Producer,
		consumer: args.Consumer,
		progress: args.Progress,
		output:   args.Output,
	}, nil
}

// Produce sends the configured number of samples. Broker failures are logged, not returned.
func (e *samplesEngine) Produce(ctx context.Context) {
	stats, err := e.producer.SendSamples(ctx, e.config.Producer.NumSamples)
	if err != nil {
		log.Error("Error connecting to Kafka. Make sure your Docker Compose environment is up and running",
			"topic", e.producer.Topic(), "error", err)
		return
	}

	log.Info("samples sent", "topic", e.producer.Topic(), "attempted", stats.Attempted, "failed", stats.Failed)
}

// Consume reads back the anomalies and prints the summary. On broker failures the returned report is nil.
func (e *samplesEngine) Consume(ctx context.Context) (*common.AnomalyReport, error) {
	e.printf("Checking for anomalies from Kafka...\n\n")

	e.progress.Start(e.progressInterval())
	report, err := e.consumer.Consume(ctx)
	e.progress.Stop()
	if err != nil {
		e.printf("\n")
		log.Error("Error connecting to Kafka. Make sure your Docker environment is up and running",
			"topic", e.config.Consumer.Topic, "error", err)
		return nil, err
	}

	e.printSummary(report)

	return report, nil
}

func (e *samplesEngine) progressInterval() time.Duration {
	if e.config.Consumer.ProgressIntervalInMs == 0 {
		return defaultProgressInterval
	}

	return time.Duration(e.config.Consumer.ProgressIntervalInMs) * time.Millisecond
}

func (e *samplesEngine) printSummary(report *common.AnomalyReport) {
	if !report.HasAnomalies() {
		e.printf("\nNo Anomalies were found. Make sure your Docker Compose environment is up and running.\n")
		return
	}

	e.printf("\n\n-- Found %d WEAK Anomalies\n", len(report.Weak))
	e.printf("\n-- Found %d STRONG Anomalies\n", len(report.Strong))
	log.Debug("anomalous values", "weak", report.Weak, "strong", report.Strong)
}

func (e *samplesEngine) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(e.output, format, args...)
}

// Run produces the samples. If configured, the consumer runs at the same time and the producer waits
// StartDelayInMs so the consumer is attached before the first sample is sent. Only errors other than broker
// failures are returned.
func (e *samplesEngine) Run(ctx context.Context) error {
	if !e.config.Consumer.RunConcurrently {
		e.Produce(ctx)
		return nil
	}

	var wg sync.WaitGroup
	var errConsume error
	wg.Add(1)
	go func() {
		defer wg.Done()

		_, errConsume = e.Consume(ctx)
	}()

	timer := time.NewTimer(time.Duration(e.config.Producer.StartDelayInMs) * time.Millisecond)
	select {
	case <-timer.C:
		e.Produce(ctx)
	case <-ctx.Done():
		timer.Stop()
	}

	wg.Wait()

	return FilterHandledError(errConsume)
}

// FilterHandledError drops the broker failures, which are reported but do not fail the tool
func FilterHandledError(err error) error {
	if errors.Is(err, common.ErrBrokerUnavailable) {
		return nil
	}

	return err
}

// IsInterfaceNil returns true if the value under the interface is nil
func (e *samplesEngine) IsInterfaceNil() bool {
	return e == nil
}
