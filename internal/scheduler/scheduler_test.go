package scheduler

import (
	"sync"
	"testing"
	"time"

	"github.com/robfig/cron/v3"
)

func fakeScheduler(fn func() error) *Scheduler {
	return &Scheduler{
		Cron: cron.New(cron.WithSeconds()),
		jobs: map[string]*job{"scan": {run: fn}},
	}
}

func TestRunJob_UnknownName(t *testing.T) {
	s := fakeScheduler(func() error { return nil })
	if err := s.RunJob("nope"); err == nil {
		t.Error("unknown job name must error")
	}
}

func TestRunJob_SecondInvocationSkips(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	runs := 0
	var mu sync.Mutex
	var startOnce sync.Once

	s := fakeScheduler(func() error {
		mu.Lock()
		runs++
		mu.Unlock()
		startOnce.Do(func() { close(started) })
		<-release
		return nil
	})

	done := make(chan struct{})
	go func() {
		s.RunJob("scan")
		close(done)
	}()
	<-started

	// Overlapping call returns immediately without running the job.
	if err := s.RunJob("scan"); err != nil {
		t.Errorf("overlapping invocation errored: %v", err)
	}
	mu.Lock()
	if runs != 1 {
		t.Errorf("job ran %d times concurrently, want 1", runs)
	}
	mu.Unlock()

	close(release)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("first invocation never finished")
	}

	// After completion the job is runnable again.
	if err := s.RunJob("scan"); err != nil {
		t.Errorf("rerun after completion errored: %v", err)
	}
	mu.Lock()
	if runs != 2 {
		t.Errorf("job ran %d times total, want 2", runs)
	}
	mu.Unlock()
}

func TestRegisterAll_BadSpec(t *testing.T) {
	s := fakeScheduler(func() error { return nil })
	s.jobs["resolve"] = &job{run: func() error { return nil }}
	s.jobs["collect"] = &job{run: func() error { return nil }}
	s.jobs["expire"] = &job{run: func() error { return nil }}

	good := "0 */15 10-18 * * 1-5"
	if err := s.RegisterAll(good, good, good, good); err != nil {
		t.Errorf("valid specs rejected: %v", err)
	}
	if err := s.RegisterAll("not a cron line", good, good, good); err == nil {
		t.Error("invalid spec accepted")
	}
}
