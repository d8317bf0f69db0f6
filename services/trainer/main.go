package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/iulianpascalau/aa-samples/commonGo"
	"github.com/iulianpascalau/aa-samples/services/trainer/config"
	"github.com/iulianpascalau/aa-samples/services/trainer/factory"
	logger "github.com/multiversx/mx-chain-logger-go"
	"github.com/urfave/cli"
)

const (
	defaultLogsPath = "logs"
	logFilePrefix   = "trainer"
	envFile         = "./.env"
	envServiceKey   = "SERVICE_KEY"
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
			", if set to *:INFO the logs for all packages will have the INFO level. However, if set to *:INFO,api:DEBUG" +
			" the logs for all packages will have the INFO level, excepting the api package which will receive a DEBUG" +
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
		Usage: "This flag specifies the `directory` where the trainer will store the logs.",
		Value: "",
	}
	// configFile defines an optional TOML file overriding the default values
	configFile = cli.StringFlag{
		Name:  "config",
		Usage: "This flag specifies an optional TOML `file` whose values override the built-in configuration.",
		Value: "",
	}
)

func main() {
	app := cli.NewApp()
	cli.AppHelpTemplate = helpTemplate
	app.Name = "Adaptive alerting notebook trainer"
	app.Version = fmt.Sprintf("%s/%s/%s-%s", appVersion, runtime.Version(), runtime.GOOS, runtime.GOARCH)
	app.Usage = "Runs the analysis notebook once per configured dataset and serves the run history"
	app.Flags = []cli.Flag{
		logLevel,
		logSaveFile,
		workingDirectory,
		configFile,
	}
	app.Authors = []cli.Author{
		{
			Name:  "Iulian Pascalau",
			Email: "iulian.pascalau@gmail.com",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:   "train",
			Usage:  "runs the notebook for every configured dataset",
			Action: train,
		},
		{
			Name:   "serve",
			Usage:  "serves the run history over HTTP",
			Action: serve,
		},
	}
	app.Action = train

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

func train(ctx *cli.Context) error {
	handler, err := createComponents(ctx)
	if err != nil {
		return err
	}
	defer handler.Close()

	runCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)
	go func() {
		select {
		case <-sigs:
			log.Info("Application closing, stopping the running notebook...")
			cancel()
		case <-runCtx.Done():
		}
	}()

	records, err := handler.GetTrainer().TrainAll(runCtx)
	for _, record := range records {
		log.Info("notebook run", "dataset", record.DatasetName, "status", string(record.Status),
			"output", record.OutputPath, "duration in sec", record.FinishedAt-record.StartedAt)
	}

	return err
}

func serve(ctx *cli.Context) error {
	envFileContents := map[string]string{
		envServiceKey: "",
	}
	err := commonGo.ReadEnvFile(envFile, envFileContents)
	if err != nil {
		return err
	}

	handler, err := createComponents(ctx)
	if err != nil {
		return err
	}
	defer handler.Close()

	err = handler.StartServer(envFileContents[envServiceKey])
	if err != nil {
		return err
	}

	log.Info("Trainer runs API started", "address", handler.GetServer().Address())

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	<-sigs

	log.Info("Application closing, calling Close on all subcomponents...")

	return nil
}

type components interface {
	GetTrainer() factory.Trainer
	GetServer() factory.Server
	StartServer(serviceKeyApi string) error
	Close()
}

func createComponents(ctx *cli.Context) (components, error) {
	err := logger.SetLogLevel(ctx.GlobalString(logLevel.Name))
	if err != nil {
		return nil, err
	}

	fileLogging, err = commonGo.AttachFileLogger(
		log,
		defaultLogsPath,
		logFilePrefix,
		ctx.GlobalBool(logSaveFile.Name),
		ctx.GlobalString(workingDirectory.Name),
	)
	if err != nil {
		return nil, err
	}

	log.Info("Starting notebook trainer", "version", appVersion, "pid", os.Getpid())

	cfg, err := loadConfig(ctx.GlobalString(configFile.Name))
	if err != nil {
		return nil, err
	}

	handler, err := factory.NewComponentsHandler(cfg)
	if err != nil {
		return nil, err
	}

	return handler, nil
}

func loadConfig(filepath string) (config.Config, error) {
	cfg := config.DefaultConfig()
	if len(filepath) == 0 {
		return cfg, nil
	}

	loaded, err := config.LoadConfig(filepath, cfg)
	if err != nil {
		return config.Config{}, err
	}

	return *loaded, nil
}
