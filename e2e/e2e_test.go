package e2e_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"

	metricsCodec "github.com/iulianpascalau/aa-samples/services/metrics/codec"
	metricsCommon "github.com/iulianpascalau/aa-samples/services/metrics/common"
	metricsCfg "github.com/iulianpascalau/aa-samples/services/metrics/config"
	"github.com/iulianpascalau/aa-samples/services/metrics/consumer"
	"github.com/iulianpascalau/aa-samples/services/metrics/engine"
	"github.com/iulianpascalau/aa-samples/services/metrics/generator"
	"github.com/iulianpascalau/aa-samples/services/metrics/producer"
	"github.com/iulianpascalau/aa-samples/services/metrics/progress"
	metricsTestsCommon "github.com/iulianpascalau/aa-samples/services/metrics/testsCommon"
	trainerCommon "github.com/iulianpascalau/aa-samples/services/trainer/common"
	trainerCfg "github.com/iulianpascalau/aa-samples/services/trainer/config"
	trainerFactory "github.com/iulianpascalau/aa-samples/services/trainer/factory"
	logger "github.com/multiversx/mx-chain-logger-go"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"github.com/twmb/franz-go/pkg/kgo"
	"github.com/ugorji/go/codec"
)

var log = logger.GetOrCreate("e2e-test")

const (
	weakThreshold   = 150.0
	strongThreshold = 190.0
)

type safeBuffer struct {
	mut sync.Mutex
	buf bytes.Buffer
}

func (sb *safeBuffer) Write(p []byte) (int, error) {
	sb.mut.Lock()
	defer sb.mut.Unlock()

	return sb.buf.Write(p)
}

func (sb *safeBuffer) String() string {
	sb.mut.Lock()
	defer sb.mut.Unlock()

	return sb.buf.String()
}

// scorer plays the role of the anomaly detection pipeline: every produced sample becomes one anomaly result
// on the consumer side
type scorer struct {
	mut          sync.Mutex
	results      chan string
	decode       func(data []byte) float64
	offset       int64
	expectWeak   []float64
	expectStrong []float64
}

func newScorer(capacity int, decode func(data []byte) float64) *scorer {
	return &scorer{
		results: make(chan string, capacity),
		decode:  decode,
	}
}

func (s *scorer) produce(_ context.Context, record *kgo.Record, promise func(*kgo.Record, error)) {
	value := s.decode(record.Value)

	level := "NORMAL"
	s.mut.Lock()
	switch {
	case value > strongThreshold:
		level = string(metricsCommon.AnomalyLevelStrong)
		s.expectStrong = append(s.expectStrong, value)
	case value > weakThreshold:
		level = string(metricsCommon.AnomalyLevelWeak)
		s.expectWeak = append(s.expectWeak, value)
	}
	s.mut.Unlock()

	s.results <- fmt.Sprintf(`{"metricData":{"value":%v},"anomalyResult":{"anomalyLevel":"%s"}}`, value, level)
	promise(record, nil)
}

func (s *scorer) poll(ctx context.Context) kgo.Fetches {
	select {
	case result := <-s.results:
		s.mut.Lock()
		offset := s.offset
		s.offset++
		s.mut.Unlock()

		return metricsTestsCommon.CreateFetches("anomalies", offset, result)
	case <-ctx.Done():
		return kgo.NewErrFetch(ctx.Err())
	}
}

func decodeMsgpackValue(t *testing.T) func(data []byte) float64 {
	return func(data []byte) float64 {
		sample := metricsCommon.SampleMetric{}
		err := codec.NewDecoderBytes(data, &codec.MsgpackHandle{}).Decode(&sample)
		require.NoError(t, err)

		return sample.Value
	}
}

func decodeJSONValue(data []byte) float64 {
	return gjson.GetBytes(data, "value").Float()
}

func runMetricsFlow(t *testing.T, codecName string, decode func(data []byte) float64) {
	cfg, err := metricsCfg.Preset(metricsCfg.PresetLocal)
	require.NoError(t, err)
	cfg.Producer.Codec = codecName
	cfg.Producer.StartDelayInMs = 50
	cfg.Consumer.RunConcurrently = true
	cfg.Consumer.IdleTimeoutInMs = 1000
	cfg.Consumer.ProgressIntervalInMs = 20

	s := newScorer(cfg.Producer.NumSamples, decode)
	producerClient := &metricsTestsCommon.BrokerClientStub{
		ProduceHandler: s.produce,
	}
	consumerClient := &metricsTestsCommon.BrokerClientStub{
		PollFetchesHandler: s.poll,
	}

	sampleCodec, err := metricsCodec.NewCodec(cfg.Producer.Codec)
	require.NoError(t, err)

	prod, err := producer.NewSampleProducer(producer.ArgsSampleProducer{
		Client:       producerClient,
		Generator:    generator.NewSampleGenerator(generator.ArgsSampleGenerator{RandomTag: true}),
		Codec:        sampleCodec,
		Topic:        cfg.Producer.Topic,
		PartitionKey: cfg.Broker.PartitionKey,
	})
	require.NoError(t, err)

	output := &safeBuffer{}
	printer, err := progress.NewProgressPrinter(output)
	require.NoError(t, err)

	cons, err := consumer.NewAnomalyConsumer(consumer.ArgsAnomalyConsumer{
		Client:      consumerClient,
		Progress:    printer,
		IdleTimeout: time.Duration(cfg.Consumer.IdleTimeoutInMs) * time.Millisecond,
		Topic:       cfg.Consumer.Topic,
	})
	require.NoError(t, err)

	eng, err := engine.NewSamplesEngine(engine.ArgsSamplesEngine{
		Config:   cfg,
		Producer: prod,
		Consumer: cons,
		Progress: printer,
		Output:   output,
	})
	require.NoError(t, err)

	log.Info("======== running the producer and the concurrent consumer", "codec", codecName)
	err = eng.Run(context.Background())
	require.NoError(t, err)

	log.Info("======== verifying the printed summary")
	printed := output.String()
	require.Contains(t, printed, "Checking for anomalies from Kafka...")
	require.Contains(t, printed, fmt.Sprintf("out of %d", cfg.Producer.NumSamples))
	if len(s.expectWeak)+len(s.expectStrong) == 0 {
		require.Contains(t, printed, "No Anomalies were found.")
		return
	}
	require.Contains(t, printed, fmt.Sprintf("-- Found %d WEAK Anomalies", len(s.expectWeak)))
	require.Contains(t, printed, fmt.Sprintf("-- Found %d STRONG Anomalies", len(s.expectStrong)))
}

func TestE2EMetricsFlow(t *testing.T) {
	t.Run("msgpack codec", func(t *testing.T) {
		runMetricsFlow(t, metricsCodec.MsgpackName, decodeMsgpackValue(t))
	})
	t.Run("json codec", func(t *testing.T) {
		runMetricsFlow(t, metricsCodec.JSONName, decodeJSONValue)
	})
}

func TestE2ETrainerFlow(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not supported on this platform")
	}

	log.Info("======== 1. Prepare a fake notebook engine")
	tempDir := t.TempDir()
	engineScript := filepath.Join(tempDir, "papermill")
	contents := "#!/bin/sh\n" +
		"if [ \"$5\" = \"broken_data\" ]; then echo \"PapermillExecutionError\" >&2; exit 1; fi\n" +
		"printf '{\"cells\":[],\"args\":\"%s\"}' \"$*\" > \"$2\"\n"
	require.NoError(t, os.WriteFile(engineScript, []byte(contents), 0755))

	log.Info("======== 2. Create the trainer components")
	cfg := trainerCfg.DefaultConfig()
	cfg.Executable = engineScript
	cfg.InputNotebook = filepath.Join(tempDir, "stl.ipynb")
	cfg.OutputDir = filepath.Join(tempDir, "out")
	cfg.TimeoutInSeconds = 30
	cfg.RunsDatabasePath = filepath.Join(tempDir, "db", "runs.db")
	cfg.ListenAddress = "127.0.0.1:0"

	handler, err := trainerFactory.NewComponentsHandler(cfg)
	require.NoError(t, err)
	defer handler.Close()

	log.Info("======== 3. Train twice, the output directory already exists on the second run")
	for i := 0; i < 2; i++ {
		records, errTrain := handler.GetTrainer().TrainAll(context.Background())
		require.NoError(t, errTrain)
		require.Len(t, records, 1)
		require.Equal(t, trainerCommon.StatusSuccess, records[0].Status)
	}

	outputNotebook := filepath.Join(cfg.OutputDir, "stl-sample_data.ipynb")
	written, err := os.ReadFile(outputNotebook)
	require.NoError(t, err)
	require.Contains(t, string(written), "-p dataset_name sample_data -p interval 5 -p weeks 4")

	log.Info("======== 4. A failing dataset stops the batch")
	cfgBroken := cfg
	cfgBroken.RunsDatabasePath = filepath.Join(tempDir, "db", "broken.db")
	cfgBroken.Datasets = []trainerCfg.DatasetConfig{
		{Name: "broken_data", IntervalInMinutes: 5, Weeks: 4},
		{Name: "sample_data", IntervalInMinutes: 5, Weeks: 4},
	}
	brokenHandler, err := trainerFactory.NewComponentsHandler(cfgBroken)
	require.NoError(t, err)
	defer brokenHandler.Close()

	records, err := brokenHandler.GetTrainer().TrainAll(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "PapermillExecutionError")
	require.Len(t, records, 1)
	require.Equal(t, trainerCommon.StatusFailed, records[0].Status)

	log.Info("======== 5. Start the runs API and query it")
	err = handler.StartServer("test-service-key")
	require.NoError(t, err)
	baseURL := "http://" + handler.GetServer().Address()

	client := &http.Client{Timeout: 5 * time.Second}

	reqUnauthorized, err := http.NewRequest(http.MethodGet, baseURL+"/api/runs", nil)
	require.NoError(t, err)
	respUnauthorized, err := client.Do(reqUnauthorized)
	require.NoError(t, err)
	_ = respUnauthorized.Body.Close()
	require.Equal(t, http.StatusUnauthorized, respUnauthorized.StatusCode)

	reqRuns, err := http.NewRequest(http.MethodGet, baseURL+"/api/runs/sample_data", nil)
	require.NoError(t, err)
	reqRuns.Header.Set("X-Api-Key", "test-service-key")
	respRuns, err := client.Do(reqRuns)
	require.NoError(t, err)
	defer func() {
		_ = respRuns.Body.Close()
	}()
	require.Equal(t, http.StatusOK, respRuns.StatusCode)

	var runsData struct {
		Dataset string                    `json:"dataset"`
		Runs    []trainerCommon.RunRecord `json:"runs"`
	}
	err = json.NewDecoder(respRuns.Body).Decode(&runsData)
	require.NoError(t, err)
	require.Equal(t, "sample_data", runsData.Dataset)
	require.Len(t, runsData.Runs, 2)
	for _, run := range runsData.Runs {
		require.Equal(t, outputNotebook, run.OutputPath)
		require.Equal(t, trainerCommon.StatusSuccess, run.Status)
	}

	reqMissing, err := http.NewRequest(http.MethodGet, baseURL+"/api/runs/broken_data", nil)
	require.NoError(t, err)
	reqMissing.Header.Set("X-Api-Key", "test-service-key")
	respMissing, err := client.Do(reqMissing)
	require.NoError(t, err)
	_ = respMissing.Body.Close()
	require.Equal(t, http.StatusNotFound, respMissing.StatusCode)
}
