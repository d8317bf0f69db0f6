package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

const (
	// PresetDockerCompose targets the docker-compose environment, reading only new anomalies
	PresetDockerCompose = "docker-compose"
	// PresetLocal is the short local run, reading the anomalies topic from the beginning
	PresetLocal = "local"

	// OffsetLatest starts consuming from the end of the topic
	OffsetLatest = "latest"
	// OffsetEarliest starts consuming from the beginning of the topic
	OffsetEarliest = "earliest"
)

// BrokerConfig defines the Kafka connection settings
type BrokerConfig struct {
	Addresses    []string `toml:"Addresses"`
	PartitionKey string   `toml:"PartitionKey"`
}

// ProducerConfig defines how the sample metrics are generated and sent
type ProducerConfig struct {
	Topic          string `toml:"Topic"`
	NumSamples     int    `toml:"NumSamples"`
	Codec          string `toml:"Codec"`
	RandomTag      bool   `toml:"RandomTag"`
	StartDelayInMs uint32 `toml:"StartDelayInMs"`
}

// ConsumerConfig defines how the anomalies are read back
type ConsumerConfig struct {
	RunConcurrently      bool   `toml:"RunConcurrently"`
	Topic                string `toml:"Topic"`
	OffsetPolicy         string `toml:"OffsetPolicy"`
	IdleTimeoutInMs      uint32 `toml:"IdleTimeoutInMs"`
	ProgressIntervalInMs uint32 `toml:"ProgressIntervalInMs"`
}

// Config maps to the config.toml file for the sample metrics tool
type Config struct {
	Broker   BrokerConfig   `toml:"Broker"`
	Producer ProducerConfig `toml:"Producer"`
	Consumer ConsumerConfig `toml:"Consumer"`
}

// LoadConfig parses a TOML file into the Config struct. Values not present in the file are kept from the
// provided base config.
func LoadConfig(filepath string, base Config) (*Config, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", filepath, err)
	}

	cfg := base
	err = toml.Unmarshal(data, &cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	err = cfg.Check()
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Preset returns one of the built-in configurations
func Preset(name string) (Config, error) {
	switch name {
	case PresetDockerCompose:
		return dockerComposePreset(), nil
	case PresetLocal:
		return localPreset(), nil
	default:
		return Config{}, fmt.Errorf("%w: %s", ErrUnknownPreset, name)
	}
}

func dockerComposePreset() Config {
	return Config{
		Broker: BrokerConfig{
			Addresses:    []string{"localhost:19092"},
			PartitionKey: "prod.primary.sample-web.sample-metric",
		},
		Producer: ProducerConfig{
			Topic:          "aa-metrics",
			NumSamples:     1000000,
			Codec:          "msgpack",
			RandomTag:      true,
			StartDelayInMs: 1000,
		},
		Consumer: ConsumerConfig{
			RunConcurrently:      false,
			Topic:                "anomalies",
			OffsetPolicy:         OffsetLatest,
			IdleTimeoutInMs:      5000,
			ProgressIntervalInMs: 200,
		},
	}
}

func localPreset() Config {
	cfg := dockerComposePreset()
	cfg.Producer.NumSamples = 250
	cfg.Consumer.OffsetPolicy = OffsetEarliest

	return cfg
}

// Check returns an error if the configuration can not be used
func (cfg Config) Check() error {
	if len(cfg.Broker.Addresses) == 0 {
		return ErrNoBrokerAddresses
	}
	if len(cfg.Producer.Topic) == 0 || len(cfg.Consumer.Topic) == 0 {
		return ErrEmptyTopic
	}
	if cfg.Producer.NumSamples < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidNumSamples, cfg.Producer.NumSamples)
	}
	switch cfg.Consumer.OffsetPolicy {
	case OffsetLatest, OffsetEarliest:
	default:
		return fmt.Errorf("%w: %s", ErrInvalidOffsetPolicy, cfg.Consumer.OffsetPolicy)
	}
	if cfg.Consumer.IdleTimeoutInMs == 0 {
		return ErrInvalidIdleTimeout
	}

	return nil
}
