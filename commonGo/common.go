package commonGo

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	logger "github.com/multiversx/mx-chain-logger-go"
	"github.com/multiversx/mx-chain-logger-go/file"
)

const (
	logFileLifeSpanInSec = 86400 // 24h
	logFileLifeSpanInMB  = 1024  // 1GB
)

// AttachFileLogger attaches, if required, a log file
func AttachFileLogger(
	log logger.Logger,
	defaultLogsPath string,
	logFilePrefix string,
	saveLogFile bool,
	workingDir string) (FileLoggingHandler, error) {
	err := logger.SetDisplayByteSlice(logger.ToHex)
	log.LogIfError(err)

	if !saveLogFile {
		return nil, nil
	}

	argsFileLogging := file.ArgsFileLogging{
		WorkingDir:      workingDir,
		DefaultLogsPath: defaultLogsPath,
		LogFilePrefix:   logFilePrefix,
	}
	logFile, err := file.NewFileLogging(argsFileLogging)
	if err != nil {
		return nil, fmt.Errorf("%w creating a log file", err)
	}

	timeLogLifeSpan := time.Second * time.Duration(logFileLifeSpanInSec)
	err = logFile.ChangeFileLifeSpan(timeLogLifeSpan, logFileLifeSpanInMB)
	if err != nil {
		_ = logFile.Close()
		return nil, err
	}

	log.Debug("attached file logger", "prefix", logFilePrefix, "working directory", workingDir)

	return logFile, nil
}

// ReadEnvFile will read the file contents in the provided map. All keys are mandatory.
func ReadEnvFile(envFile string, m map[string]string) error {
	err := godotenv.Load(envFile)
	if err != nil {
		return err
	}

	for k := range m {
		val := os.Getenv(k)
		if len(val) == 0 {
			return fmt.Errorf("%s is not set in the .env file", k)
		}

		m[k] = val
	}

	return nil
}

// ReadOptionalEnvFile reads the provided keys from the .env file, if the file exists. Keys that are not set
// are removed from the map so the caller keeps its defaults.
func ReadOptionalEnvFile(envFile string, m map[string]string) error {
	values, err := godotenv.Read(envFile)
	if errors.Is(err, fs.ErrNotExist) {
		clear(m)
		return nil
	}
	if err != nil {
		return err
	}

	for k := range m {
		val, found := values[k]
		if !found || len(val) == 0 {
			delete(m, k)
			continue
		}

		m[k] = val
	}

	return nil
}

// CronJobStarter is able to start a go routine that periodically calls the provided handler. The time between calls is
// provided as timeToCall
func CronJobStarter(ctx context.Context, handler func(ctx context.Context), timeToCall time.Duration) {
	go func() {
		timer := time.NewTimer(timeToCall)
		defer timer.Stop()

		handler(ctx)

		for {
			select {
			case <-timer.C:
				handler(ctx)
				timer.Reset(timeToCall)
			case <-ctx.Done():
				return
			}
		}
	}()
}
