package worker

import (
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/ppiankov/zwischenruf/internal/logging"
)

// Progress counts finished speeches and logs at most once per interval
type Progress struct {
	total     int
	done      atomic.Int64
	failed    atomic.Int64
	sometimes rate.Sometimes
	logger    logging.Logger
}

// NewProgress creates a progress reporter for total speeches
func NewProgress(total int, interval time.Duration, logger logging.Logger) *Progress {
	return &Progress{
		total:     total,
		sometimes: rate.Sometimes{First: 1, Interval: interval},
		logger:    logger,
	}
}

// Step records one finished speech. It is safe for concurrent use.
func (p *Progress) Step(err error) {
	done := p.done.Add(1)
	failed := p.failed.Load()
	if err != nil {
		failed = p.failed.Add(1)
	}

	p.sometimes.Do(func() {
		p.logger.Info("batch progress",
			logging.Int64("done", done),
			logging.Int("total", p.total),
			logging.Int64("failed", failed),
		)
	})
}

// Counts returns the finished and failed speeches so far
func (p *Progress) Counts() (done, failed int) {
	return int(p.done.Load()), int(p.failed.Load())
}
