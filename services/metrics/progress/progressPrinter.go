package progress

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/iulianpascalau/aa-samples/commonGo"
)

const lineFormat = "\r- Total Anomalies Found: %d out of %d"

type progressPrinter struct {
	writer    io.Writer
	mut       sync.Mutex
	anomalies int
	total     int
	stopped   bool
	cancel    func()
}

// NewProgressPrinter creates a printer that keeps rewriting the same output line with the anomaly counters
func NewProgressPrinter(writer io.Writer) (*progressPrinter, error) {
	if writer == nil {
		return nil, errors.New("nil writer")
	}

	return &progressPrinter{
		writer: writer,
	}, nil
}

// Start begins the periodic refresh of the progress line
func (pp *progressPrinter) Start(interval time.Duration) {
	pp.mut.Lock()
	defer pp.mut.Unlock()

	if pp.cancel != nil {
		return
	}

	var ctx context.Context
	ctx, pp.cancel = context.WithCancel(context.Background())
	pp.stopped = false

	commonGo.CronJobStarter(ctx, pp.refresh, interval)
}

// Update stores the latest counters, they will be shown on the next refresh
func (pp *progressPrinter) Update(anomalies int, total int) {
	pp.mut.Lock()
	pp.anomalies = anomalies
	pp.total = total
	pp.mut.Unlock()
}

func (pp *progressPrinter) refresh(_ context.Context) {
	pp.mut.Lock()
	defer pp.mut.Unlock()

	if pp.stopped {
		return
	}

	pp.printLine()
}

func (pp *progressPrinter) printLine() {
	_, _ = fmt.Fprintf(pp.writer, lineFormat, pp.anomalies, pp.total)
}

// Stop halts the refresh and prints the final counters once more
func (pp *progressPrinter) Stop() {
	pp.mut.Lock()
	defer pp.mut.Unlock()

	if pp.cancel != nil {
		pp.cancel()
		pp.cancel = nil
	}
	if pp.stopped {
		return
	}

	pp.stopped = true
	pp.printLine()
}

// IsInterfaceNil returns true if the value under the interface is nil
func (pp *progressPrinter) IsInterfaceNil() bool {
	return pp == nil
}
