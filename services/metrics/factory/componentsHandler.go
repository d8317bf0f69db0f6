package factory

import (
	"fmt"
	"io"
	"time"

	"github.com/iulianpascalau/aa-samples/services/metrics/codec"
	"github.com/iulianpascalau/aa-samples/services/metrics/config"
	"github.com/iulianpascalau/aa-samples/services/metrics/consumer"
	"github.com/iulianpascalau/aa-samples/services/metrics/engine"
	"github.com/iulianpascalau/aa-samples/services/metrics/generator"
	"github.com/iulianpascalau/aa-samples/services/metrics/producer"
	"github.com/iulianpascalau/aa-samples/services/metrics/progress"
	"github.com/twmb/franz-go/pkg/kgo"
)

type componentsHandler struct {
	producerClient *kgo.Client
	consumerClient *kgo.Client
	producer       engine.SampleProducer
	consumer       engine.AnomalyConsumer
	engine         Engine
}

// NewComponentsHandler creates a new components handler
func NewComponentsHandler(cfg config.Config, output io.Writer) (*componentsHandler, error) {
	err := cfg.Check()
	if err != nil {
		return nil, err
	}

	sampleCodec, err := codec.NewCodec(cfg.Producer.Codec)
	if err != nil {
		return nil, err
	}

	producerClient, err := kgo.NewClient(kgo.SeedBrokers(cfg.Broker.Addresses...))
	if err != nil {
		return nil, fmt.Errorf("unable to create producer client: %w", err)
	}

	consumerClient, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Broker.Addresses...),
		kgo.ConsumeTopics(cfg.Consumer.Topic),
		kgo.ConsumeResetOffset(resetOffset(cfg.Consumer.OffsetPolicy)),
	)
	if err != nil {
		producerClient.Close()
		return nil, fmt.Errorf("unable to create consumer client: %w", err)
	}

	ch := &componentsHandler{
		producerClient: producerClient,
		consumerClient: consumerClient,
	}
	err = ch.createComponents(cfg, sampleCodec, output)
	if err != nil {
		ch.Close()
		return nil, err
	}

	return ch, nil
}

func (ch *componentsHandler) createComponents(cfg config.Config, sampleCodec producer.Codec, output io.Writer) error {
	gen := generator.NewSampleGenerator(generator.ArgsSampleGenerator{
		RandomTag: cfg.Producer.RandomTag,
	})

	prod, err := producer.NewSampleProducer(producer.ArgsSampleProducer{
		Client:       ch.producerClient,
		Generator:    gen,
		Codec:        sampleCodec,
		Topic:        cfg.Producer.Topic,
		PartitionKey: cfg.Broker.PartitionKey,
	})
	if err != nil {
		return err
	}

	printer, err := progress.NewProgressPrinter(output)
	if err != nil {
		return err
	}

	cons, err := consumer.NewAnomalyConsumer(consumer.ArgsAnomalyConsumer{
		Client:      ch.consumerClient,
		Progress:    printer,
		IdleTimeout: time.Duration(cfg.Consumer.IdleTimeoutInMs) * time.Millisecond,
		Topic:       cfg.Consumer.Topic,
	})
	if err != nil {
		return err
	}

	eng, err := engine.NewSamplesEngine(engine.ArgsSamplesEngine{
		Config:   cfg,
		Producer: prod,
		Consumer: cons,
		Progress: printer,
		Output:   output,
	})
	if err != nil {
		return err
	}

	ch.producer = prod
	ch.consumer = cons
	ch.engine = eng

	return nil
}

func resetOffset(policy string) kgo.Offset {
	if policy == config.OffsetEarliest {
		return kgo.NewOffset().AtStart()
	}

	return kgo.NewOffset().AtEnd()
}

// GetProducer returns the producer component
func (ch *componentsHandler) GetProducer() engine.SampleProducer {
	return ch.producer
}

// GetConsumer returns the consumer component
func (ch *componentsHandler) GetConsumer() engine.AnomalyConsumer {
	return ch.consumer
}

// GetEngine returns the engine component
func (ch *componentsHandler) GetEngine() Engine {
	return ch.engine
}

// Close closes the Kafka clients. Buffered, unflushed records are dropped.
func (ch *componentsHandler) Close() {
	if ch.producerClient != nil {
		ch.producerClient.Close()
	}
	if ch.consumerClient != nil {
		ch.consumerClient.Close()
	}
}
