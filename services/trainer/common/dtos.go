package common

// RunStatus is the outcome of a notebook run
type RunStatus string

const (
	// StatusSuccess marks a notebook run that completed
	StatusSuccess RunStatus = "success"
	// StatusFailed marks a notebook run the engine reported as failed
	StatusFailed RunStatus = "failed"
)

// RunParameters are the named parameters passed to the analysis notebook
type RunParameters struct {
	DatasetName       string `json:"datasetName"`
	IntervalInMinutes int    `json:"intervalInMinutes"`
	Weeks             int    `json:"weeks"`
}

// RunRecord is one entry of the run ledger
type RunRecord struct {
	DatasetName       string    `json:"datasetName"`
	IntervalInMinutes int       `json:"intervalInMinutes"`
	Weeks             int       `json:"weeks"`
	OutputPath        string    `json:"outputPath"`
	Status            RunStatus `json:"status"`
	Error             string    `json:"error,omitempty"`
	StartedAt         int64     `json:"startedAt"`
	FinishedAt        int64     `json:"finishedAt"`
}
