package scheduler

import (
	"fmt"
	"log"
	"sync"

	"BistRadar/internal/collect"
	"BistRadar/internal/resolve"
	"BistRadar/internal/scan"

	"github.com/robfig/cron/v3"
)

// Scheduler manages the cron-driven jobs. Each job carries its own
// lock; an invocation that finds the previous one still running logs
// and returns instead of stacking up.
type Scheduler struct {
	Cron *cron.Cron
	jobs map[string]*job
}

type job struct {
	mu  sync.Mutex
	run func() error
}

// NewScheduler wires the pipeline components into named jobs.
func NewScheduler(scanner *scan.Scanner, resolver *resolve.Resolver, collector *collect.Collector) *Scheduler {
	return &Scheduler{
		Cron: cron.New(cron.WithSeconds()),
		jobs: map[string]*job{
			"scan":    {run: scanner.Run},
			"resolve": {run: resolver.Run},
			"collect": {run: collector.Run},
			"expire":  {run: resolver.Sweep},
		},
	}
}

// JobNames lists the registered job names for flag help and manual
// triggers.
func (s *Scheduler) JobNames() []string {
	return []string{"scan", "resolve", "collect", "expire"}
}

// RegisterAll binds every job to its cron expression.
func (s *Scheduler) RegisterAll(scanCron, resolveCron, collectCron, expireCron string) error {
	specs := []struct {
		name string
		spec string
	}{
		{"scan", scanCron},
		{"resolve", resolveCron},
		{"collect", collectCron},
		{"expire", expireCron},
	}
	for _, entry := range specs {
		name := entry.name
		if _, err := s.Cron.AddFunc(entry.spec, func() {
			if err := s.RunJob(name); err != nil {
				log.Printf("[ERROR] job %s: %v", name, err)
			}
		}); err != nil {
			return fmt.Errorf("register %s task: %w", name, err)
		}
	}
	return nil
}

// RunJob executes one job immediately, for cron ticks and manual
// triggers alike. A job that is already running is skipped, not
// queued.
func (s *Scheduler) RunJob(name string) error {
	j, ok := s.jobs[name]
	if !ok {
		return fmt.Errorf("unknown job %q", name)
	}
	if !j.mu.TryLock() {
		log.Printf("[WARN] job %s already running, skipping", name)
		return nil
	}
	defer j.mu.Unlock()
	return j.run()
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}
