// Package warmer periodically recomputes cached results so requests rarely pay for
// a cold scrape.
package warmer

import (
	"context"
	"fmt"
	"time"

	"github.com/acorn-hc/acorn-sports/internal/logger"
	"github.com/robfig/cron/v3"
)

// Job is one named refresh step
type Job struct {
	Name string
	Run  func(ctx context.Context) int
}

// Warmer runs its jobs in order on a cron schedule
type Warmer struct {
	spec string
	jobs []Job
	cron *cron.Cron
}

// New creates a Warmer for a standard five-field cron spec or a descriptor
// such as "@every 10m"
func New(spec string, jobs ...Job) *Warmer {
	return &Warmer{
		spec: spec,
		jobs: jobs,
		cron: cron.New(),
	}
}

// Start schedules the jobs. They run until ctx is cancelled or Stop is called.
func (w *Warmer) Start(ctx context.Context) error {
	if _, err := w.cron.AddFunc(w.spec, func() { w.RunOnce(ctx) }); err != nil {
		return fmt.Errorf("failed to schedule cache warmer: %w", err)
	}
	w.cron.Start()
	logger.Info("Cache warmer scheduled", logger.Fields{"schedule": w.spec, "jobs": len(w.jobs)})

	go func() {
		<-ctx.Done()
		w.Stop()
	}()
	return nil
}

// Stop halts scheduling and waits for a running refresh to finish
func (w *Warmer) Stop() {
	<-w.cron.Stop().Done()
}

// RunOnce runs every job immediately
func (w *Warmer) RunOnce(ctx context.Context) {
	for _, job := range w.jobs {
		if ctx.Err() != nil {
			return
		}
		start := time.Now()
		n := job.Run(ctx)
		logger.Info("Cache warmed", logger.Fields{
			"job":      job.Name,
			"items":    n,
			"duration": time.Since(start).String(),
		})
	}
}
