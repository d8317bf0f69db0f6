package executor

import "errors"

// ErrNotebookExecution signals that the notebook engine failed
var ErrNotebookExecution = errors.New("notebook execution failed")

var errEmptyExecutable = errors.New("empty executable")
var errNilCommandRunner = errors.New("nil command runner")
