package executor

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/iulianpascalau/aa-samples/services/trainer/common"
	"github.com/multiversx/mx-chain-core-go/core/check"
	logger "github.com/multiversx/mx-chain-logger-go"
)

const (
	paramDatasetName = "dataset_name"
	paramInterval    = "interval"
	paramWeeks       = "weeks"
	maxOutputTail    = 512
)

var log = logger.GetOrCreate("executor")

// ArgsPapermillExecutor is the DTO used to create a new papermill executor
type ArgsPapermillExecutor struct {
	Executable string
	Timeout    time.Duration
	Runner     CommandRunner
}

type papermillExecutor struct {
	executable string
	timeout    time.Duration
	runner     CommandRunner
}

// NewPapermillExecutor creates a notebook executor that calls the papermill command line tool
func NewPapermillExecutor(args ArgsPapermillExecutor) (*papermillExecutor, error) {
	if len(args.Executable) == 0 {
		return nil, errEmptyExecutable
	}
	if check.IfNil(args.Runner) {
		return nil, errNilCommandRunner
	}

	return &papermillExecutor{
		executable: args.Executable,
		timeout:    args.Timeout,
		runner:     args.Runner,
	}, nil
}

// Execute runs the input notebook with the provided parameters and writes the executed notebook to the output path.
// A zero timeout means the run is bounded only by the provided context.
func (executor *papermillExecutor) Execute(ctx context.Context, inputNotebook string, outputNotebook string, params common.RunParameters) error {
	if executor.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, executor.timeout)
		defer cancel()
	}

	args := CommandArgs(inputNotebook, outputNotebook, params)
	log.Debug("executing notebook", "executable", executor.executable, "args", strings.Join(args, " "))

	output, err := executor.runner.Run(ctx, executor.executable, args...)
	if err != nil {
		return fmt.Errorf("%w for dataset %s: %v, output: %s",
			ErrNotebookExecution, params.DatasetName, err, outputTail(output))
	}

	return nil
}

// CommandArgs returns the papermill arguments for one run
func CommandArgs(inputNotebook string, outputNotebook string, params common.RunParameters) []string {
	return []string{
		inputNotebook,
		outputNotebook,
		"-p", paramDatasetName, params.DatasetName,
		"-p", paramInterval, strconv.Itoa(params.IntervalInMinutes),
		"-p", paramWeeks, strconv.Itoa(params.Weeks),
	}
}

func outputTail(output []byte) string {
	tail := strings.TrimSpace(string(output))
	if len(tail) > maxOutputTail {
		tail = tail[len(tail)-maxOutputTail:]
	}

	return tail
}

// IsInterfaceNil returns true if the value under the interface is nil
func (executor *papermillExecutor) IsInterfaceNil() bool {
	return executor == nil
}
