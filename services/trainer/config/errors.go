package config

import "errors"

// ErrEmptyExecutable signals that the notebook engine executable is not set
var ErrEmptyExecutable = errors.New("empty notebook engine executable")

// ErrEmptyInputNotebook signals that the input notebook path is not set
var ErrEmptyInputNotebook = errors.New("empty input notebook")

// ErrEmptyOutputDir signals that the output directory is not set
var ErrEmptyOutputDir = errors.New("empty output directory")

// ErrNegativeDuration signals a negative timeout or retention value
var ErrNegativeDuration = errors.New("negative duration")

// ErrNoDatasets signals that no dataset is configured
var ErrNoDatasets = errors.New("no datasets configured")

// ErrEmptyDatasetName signals a dataset without a name
var ErrEmptyDatasetName = errors.New("empty dataset name")

// ErrInvalidDatasetParameters signals a non-positive interval or week count
var ErrInvalidDatasetParameters = errors.New("invalid dataset parameters")
