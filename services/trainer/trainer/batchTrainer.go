package trainer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/iulianpascalau/aa-samples/services/trainer/common"
	"github.com/multiversx/mx-chain-core-go/core/check"
	logger "github.com/multiversx/mx-chain-logger-go"
)

const outputFilePrefix = "stl-"
const outputFileExtension = ".ipynb"

var log = logger.GetOrCreate("trainer")

// ArgsBatchTrainer is the DTO used to create a new batch trainer
type ArgsBatchTrainer struct {
	Executor      NotebookExecutor
	Ledger        RunLedger
	InputNotebook string
	OutputDir     string
	Datasets      []common.RunParameters
	TimeHandler   func() time.Time
}

type batchTrainer struct {
	executor      NotebookExecutor
	ledger        RunLedger
	inputNotebook string
	outputDir     string
	datasets      []common.RunParameters
	timeHandler   func() time.Time
}

// NewBatchTrainer creates a trainer running the input notebook once per dataset
func NewBatchTrainer(args ArgsBatchTrainer) (*batchTrainer, error) {
	if check.IfNil(args.Executor) {
		return nil, errors.New("nil notebook executor")
	}
	if check.IfNil(args.Ledger) {
		return nil, errors.New("nil run ledger")
	}
	if len(args.InputNotebook) == 0 {
		return nil, errors.New("empty input notebook")
	}
	if len(args.OutputDir) == 0 {
		return nil, errors.New("empty output directory")
	}

	timeHandler := args.TimeHandler
	if timeHandler == nil {
		timeHandler = time.Now
	}

	return &batchTrainer{
		executor:      args.Executor,
		ledger:        args.Ledger,
		inputNotebook: args.InputNotebook,
		outputDir:     args.OutputDir,
		datasets:      args.Datasets,
		timeHandler:   timeHandler,
	}, nil
}

// OutputPath returns the executed notebook path of a dataset
func OutputPath(outputDir string, datasetName string) string {
	return filepath.Join(outputDir, outputFilePrefix+datasetName+outputFileExtension)
}

// TrainAll runs the notebook for every dataset, in order. The first engine failure stops the batch and is returned
// together with the records of the runs done so far. Already written notebooks are left in place.
func (bt *batchTrainer) TrainAll(ctx context.Context) ([]common.RunRecord, error) {
	err := os.MkdirAll(bt.outputDir, os.ModePerm)
	if err != nil {
		return nil, fmt.Errorf("failed to create output directory '%s': %w", bt.outputDir, err)
	}

	records := make([]common.RunRecord, 0, len(bt.datasets))
	for _, params := range bt.datasets {
		record, errTrain := bt.train(ctx, params)
		records = append(records, record)
		if errTrain != nil {
			return records, errTrain
		}
	}

	return records, nil
}

func (bt *batchTrainer) train(ctx context.Context, params common.RunParameters) (common.RunRecord, error) {
	outputNotebook := OutputPath(bt.outputDir, params.DatasetName)
	record := common.RunRecord{
		DatasetName:       params.DatasetName,
		IntervalInMinutes: params.IntervalInMinutes,
		Weeks:             params.Weeks,
		OutputPath:        outputNotebook,
		Status:            common.StatusSuccess,
		StartedAt:         bt.timeHandler().Unix(),
	}

	log.Info("running notebook", "dataset", params.DatasetName, "interval", params.IntervalInMinutes,
		"weeks", params.Weeks, "output", outputNotebook)

	err := bt.executor.Execute(ctx, bt.inputNotebook, outputNotebook, params)
	record.FinishedAt = bt.timeHandler().Unix()
	if err != nil {
		record.Status = common.StatusFailed
		record.Error = err.Error()
	}

	errSave := bt.ledger.SaveRun(ctx, record)
	if errSave != nil {
		log.Warn("failed to save run", "dataset", params.DatasetName, "error", errSave)
	}

	return record, err
}

// IsInterfaceNil returns true if the value under the interface is nil
func (bt *batchTrainer) IsInterfaceNil() bool {
	return bt == nil
}
