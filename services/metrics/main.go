package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	"github.com/iulianpascalau/aa-samples/commonGo"
	"github.com/iulianpascalau/aa-samples/services/metrics/config"
	"github.com/iulianpascalau/aa-samples/services/metrics/engine"
	"github.com/iulianpascalau/aa-samples/services/metrics/factory"
	logger "github.com/multiversx/mx-chain-logger-go"
	"github.com/urfave/cli"
)

const (
	defaultLogsPath = "logs"
	logFilePrefix   = "metrics"
	envFile         = "./.env"
	envKafkaBrokers = "KAFKA_BROKERS"
)

// appVersion should be populated at build time using ldflags
// Usage examples:
// Linux/macOS:
//
//	go build -v -ldflags="-X main.appVersion=$(git describe --all | cut -c7-32)
var appVersion = "undefined"
var fileLogging commonGo.FileLoggingHandler

var (
	helpTemplate = `NAME:
   {{.Name}} - {{.Usage}}
USAGE:
   {{.HelpName}} {{if .VisibleFlags}}[global options]{{end}} {{if .Commands}}command{{end}}
   {{if len .Authors}}
AUTHOR:
   {{range .Authors}}{{ . }}{{end}}
   {{end}}{{if .Commands}}
COMMANDS:
   {{range .Commands}}{{join .Names ", "}}{{ "\t" }}{{.Usage}}
   {{end}}
GLOBAL OPTIONS:
   {{range .VisibleFlags}}{{.}}
   {{end}}
VERSION:
   {{.Version}}
   {{end}}
`

	log = logger.GetOrCreate("main")

	// logLevel defines the logger level
	logLevel = cli.StringFlag{
		Name: "log-level",
		Usage: "This flag specifies the logger `level(s)`. It can contain multiple comma-separated value. For example" +
			", if set to *:INFO the logs for all packages will have the INFO level. However, if set to *:INFO,consumer:DEBUG" +
			" the logs for all packages will have the INFO level, excepting the consumer package which will receive a DEBUG" +
			" log level.",
		Value: "*:" + logger.LogInfo.String(),
	}
	// logFile is used when the log output needs to be logged in a file
	logSaveFile = cli.BoolFlag{
		Name:  "log-save",
		Usage: "Boolean option for enabling log saving. If set, it will automatically save all the logs into a file.",
	}
	// workingDirectory defines a flag for the path for the working directory.
	workingDirectory = cli.StringFlag{
		Name:  "working-directory",
		Usage: "This flag specifies the `directory` where the tool will store the logs.",
		Value: "",
	}
	// configFile defines an optional TOML file overriding the preset values
	configFile = cli.StringFlag{
		Name:  "config",
		Usage: "This flag specifies an optional TOML `file` whose values override the selected preset.",
		Value: "",
	}
	// preset selects one of the built-in configurations
	preset = cli.StringFlag{
		Name:  "preset",
		Usage: "This flag specifies the built-in configuration `name`: docker-compose or local.",
		Value: config.PresetDockerCompose,
	}
)

func main() {
	app := cli.NewApp()
	cli.AppHelpTemplate = helpTemplate
	app.Name = "Adaptive alerting sample metrics tool"
	app.Version = fmt.Sprintf("%s/%s/%s-%s", appVersion, runtime.Version(), runtime.GOOS, runtime.GOARCH)
	app.Usage = "Sends sample metrics to Kafka and reads back the detected anomalies"
	app.Flags = []cli.Flag{
		logLevel,
		logSaveFile,
		workingDirectory,
		configFile,
		preset,
	}
	app.Authors = []cli.Author{
		{
			Name:  "Iulian Pascalau",
			Email: "iulian.pascalau@gmail.com",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:   "run",
			Usage:  "produces the samples, optionally reading the anomalies at the same time",
			Action: run,
		},
		{
			Name:   "produce",
			Usage:  "only produces the samples",
			Action: produce,
		},
		{
			Name:   "consume",
			Usage:  "only reads the anomalies and prints the summary",
			Action: consume,
		},
	}
	app.Action = run

	defer func() {
		if fileLogging != nil {
			_ = fileLogging.Close()
		}
	}()

	err := app.Run(os.Args)
	if err != nil {
		log.Error(err.Error())
		os.Exit(1)
	}
}

func run(ctx *cli.Context) error {
	return startEngine(ctx, func(runCtx context.Context, eng factory.Engine) error {
		return eng.Run(runCtx)
	})
}

func produce(ctx *cli.Context) error {
	return startEngine(ctx, func(runCtx context.Context, eng factory.Engine) error {
		eng.Produce(runCtx)
		return nil
	})
}

func consume(ctx *cli.Context) error {
	return startEngine(ctx, func(runCtx context.Context, eng factory.Engine) error {
		_, err := eng.Consume(runCtx)
		return engine.FilterHandledError(err)
	})
}

func startEngine(ctx *cli.Context, handler func(runCtx context.Context, eng factory.Engine) error) error {
	err := logger.SetLogLevel(ctx.GlobalString(logLevel.Name))
	if err != nil {
		return err
	}

	fileLogging, err = commonGo.AttachFileLogger(
		log,
		defaultLogsPath,
		logFilePrefix,
		ctx.GlobalBool(logSaveFile.Name),
		ctx.GlobalString(workingDirectory.Name),
	)
	if err != nil {
		return err
	}

	log.Info("Starting sample metrics tool", "version", appVersion, "pid", os.Getpid())

	cfg, err := loadConfig(ctx.GlobalString(preset.Name), ctx.GlobalString(configFile.Name))
	if err != nil {
		return err
	}

	log.Debug("loaded config", "brokers", strings.Join(cfg.Broker.Addresses, ","),
		"producer topic", cfg.Producer.Topic, "consumer topic", cfg.Consumer.Topic,
		"codec", cfg.Producer.Codec, "samples", cfg.Producer.NumSamples, "offset", cfg.Consumer.OffsetPolicy)

	components, err := factory.NewComponentsHandler(cfg, os.Stdout)
	if err != nil {
		return err
	}
	defer components.Close()

	runCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)
	go func() {
		select {
		case <-sigs:
			log.Info("Application closing, cancelling the running operation...")
			cancel()
		case <-runCtx.Done():
		}
	}()

	return handler(runCtx, components.GetEngine())
}

func loadConfig(presetName string, filepath string) (config.Config, error) {
	cfg, err := config.Preset(presetName)
	if err != nil {
		return config.Config{}, err
	}

	if len(filepath) > 0 {
		loaded, errLoad := config.LoadConfig(filepath, cfg)
		if errLoad != nil {
			return config.Config{}, errLoad
		}
		cfg = *loaded
	}

	envFileContents := map[string]string{
		envKafkaBrokers: "",
	}
	err = commonGo.ReadOptionalEnvFile(envFile, envFileContents)
	if err != nil {
		return config.Config{}, err
	}

	brokers, found := envFileContents[envKafkaBrokers]
	if found {
		cfg.Broker.Addresses = splitBrokers(brokers)
	}

	return cfg, cfg.Check()
}

func splitBrokers(value string) []string {
	addresses := make([]string, 0)
	for _, address := range strings.Split(value, ",") {
		address = strings.TrimSpace(address)
		if len(address) > 0 {
			addresses = append(addresses, address)
		}
	}

	return addresses
}
