package storage

import "errors"

// ErrRunsNotFound signals that the ledger holds no runs for the requested dataset
var ErrRunsNotFound = errors.New("runs not found")
