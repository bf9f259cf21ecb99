package service

import (
	"context"
	"sync"
	"time"

	"github.com/sparkyweld/sparky-client/models"
)

type metricsJob struct {
	system SystemService

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup

	latestMu sync.RWMutex
	latest   models.SystemMetrics
	polled   bool
}

// NewMetricsJob creates a metricsJob that polls SystemService.Metrics on a
// ticker for the dashboard. The job is idle until Start is called.
func NewMetricsJob(system SystemService) MetricsJob {
	return &metricsJob{system: system}
}

// Start implements [MetricsJob]. It stops any previously running job, then
// launches a background goroutine that polls every interval. If interval is
// zero or negative it defaults to 30 seconds. The goroutine exits when ctx
// is cancelled or Stop is called.
func (j *metricsJob) Start(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 30 * time.Second
	}

	j.Stop()

	j.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	j.cancel = cancel
	j.wg.Add(1)
	j.mu.Unlock()

	go func() {
		defer j.wg.Done()
		t := time.NewTicker(interval)
		defer t.Stop()

		j.poll(jobCtx)
		for {
			select {
			case <-jobCtx.Done():
				return
			case <-t.C:
				j.poll(jobCtx)
			}
		}
	}()
}

// Stop implements [MetricsJob]. It cancels the background goroutine's
// context and blocks until the goroutine has fully exited. Safe to call when
// the job is not running (no-op in that case).
func (j *metricsJob) Stop() {
	j.mu.Lock()
	cancel := j.cancel
	j.cancel = nil
	j.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	j.wg.Wait()
}

// Latest implements [MetricsJob].
func (j *metricsJob) Latest() (models.SystemMetrics, bool) {
	j.latestMu.RLock()
	defer j.latestMu.RUnlock()
	return j.latest, j.polled
}

func (j *metricsJob) poll(ctx context.Context) {
	metrics, err := j.system.Metrics(ctx)
	if err != nil {
		// The API client has already notified; the dashboard keeps showing
		// the previous sample.
		return
	}

	j.latestMu.Lock()
	j.latest = metrics
	j.polled = true
	j.latestMu.Unlock()
}
