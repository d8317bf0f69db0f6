package factory

import (
	"errors"
	"time"

	"github.com/iulianpascalau/aa-samples/services/trainer/api"
	"github.com/iulianpascalau/aa-samples/services/trainer/common"
	"github.com/iulianpascalau/aa-samples/services/trainer/config"
	"github.com/iulianpascalau/aa-samples/services/trainer/executor"
	"github.com/iulianpascalau/aa-samples/services/trainer/storage"
	"github.com/iulianpascalau/aa-samples/services/trainer/trainer"
)

type componentsHandler struct {
	cfg     config.Config
	store   Store
	trainer Trainer
	server  Server
}

// NewComponentsHandler creates a new components handler
func NewComponentsHandler(cfg config.Config) (*componentsHandler, error) {
	err := cfg.Check()
	if err != nil {
		return nil, err
	}

	store, err := storage.NewSQLiteStorage(cfg.RunsDatabasePath, cfg.RunsRetentionSeconds)
	if err != nil {
		return nil, err
	}

	notebookExecutor, err := executor.NewPapermillExecutor(executor.ArgsPapermillExecutor{
		Executable: cfg.Executable,
		Timeout:    time.Duration(cfg.TimeoutInSeconds) * time.Second,
		Runner:     executor.NewOSCommandRunner(),
	})
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	batchTrainer, err := trainer.NewBatchTrainer(trainer.ArgsBatchTrainer{
		Executor:      notebookExecutor,
		Ledger:        store,
		InputNotebook: cfg.InputNotebook,
		OutputDir:     cfg.OutputDir,
		Datasets:      runParameters(cfg.Datasets),
	})
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	return &componentsHandler{
		cfg:     cfg,
		store:   store,
		trainer: batchTrainer,
	}, nil
}

func runParameters(datasets []config.DatasetConfig) []common.RunParameters {
	params := make([]common.RunParameters, 0, len(datasets))
	for _, dataset := range datasets {
		params = append(params, common.RunParameters{
			DatasetName:       dataset.Name,
			IntervalInMinutes: dataset.IntervalInMinutes,
			Weeks:             dataset.Weeks,
		})
	}

	return params
}

// GetStore returns the storage component
func (ch *componentsHandler) GetStore() Store {
	return ch.store
}

// GetTrainer returns the batch trainer component
func (ch *componentsHandler) GetTrainer() Trainer {
	return ch.trainer
}

// GetServer returns the server component, nil before StartServer is called
func (ch *componentsHandler) GetServer() Server {
	return ch.server
}

// StartServer creates and starts the runs API
func (ch *componentsHandler) StartServer(serviceKeyApi string) error {
	if ch.server != nil {
		return errors.New("server already started")
	}

	server, err := api.NewServer(api.ArgsWebServer{
		ServiceKeyApi:  serviceKeyApi,
		ListenAddress:  ch.cfg.ListenAddress,
		Storage:        ch.store,
		GeneralHandler: api.CORSMiddleware,
	})
	if err != nil {
		return err
	}

	err = server.Start()
	if err != nil {
		return err
	}

	ch.server = server

	return nil
}

// Close closes the inner components
func (ch *componentsHandler) Close() {
	if ch.server != nil {
		_ = ch.server.Close()
	}
	_ = ch.store.Close()
}
