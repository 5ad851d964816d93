package cron

import (
	"context"
	"errors"
	"testing"
)

type stubLock struct {
	acquired   bool
	acquireErr error
	releases   int
}

func (s *stubLock) Acquire(context.Context) (bool, error) { return s.acquired, s.acquireErr }
func (s *stubLock) Release(context.Context) error {
	s.releases++
	return nil
}

type stubJob struct {
	name string
	runs int
	err  error
}

func (s *stubJob) Name() string { return s.name }
func (s *stubJob) Run(context.Context) error {
	s.runs++
	return s.err
}

func TestRunCycleRunsAllJobs(t *testing.T) {
	lock := &stubLock{acquired: true}
	first := &stubJob{name: "first"}
	second := &stubJob{name: "second", err: errors.New("boom")}
	third := &stubJob{name: "third"}
	svc, err := NewService(ServiceParams{
		Logger:   testLogger(),
		Registry: NewRegistry(first, second, third),
		Lock:     lock,
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	if err := svc.runCycle(context.Background()); err != nil {
		t.Fatalf("runCycle: %v", err)
	}
	if first.runs != 1 || second.runs != 1 || third.runs != 1 {
		t.Errorf("job runs = %d/%d/%d, want 1/1/1", first.runs, second.runs, third.runs)
	}
	if lock.releases != 1 {
		t.Errorf("lock releases = %d, want 1", lock.releases)
	}
}

func TestRunCycleSkipsWhenLockHeld(t *testing.T) {
	job := &stubJob{name: "only"}
	svc, err := NewService(ServiceParams{
		Logger:   testLogger(),
		Registry: NewRegistry(job),
		Lock:     &stubLock{acquired: false},
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	if err := svc.runCycle(context.Background()); err != nil {
		t.Fatalf("runCycle: %v", err)
	}
	if job.runs != 0 {
		t.Errorf("job ran %d times while lock was held elsewhere", job.runs)
	}
}

func TestRunCycleLockError(t *testing.T) {
	svc, err := NewService(ServiceParams{
		Logger: testLogger(),
		Lock:   &stubLock{acquireErr: errors.New("redis down")},
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	if err := svc.runCycle(context.Background()); err == nil {
		t.Fatal("expected error when lock acquisition fails")
	}
}

func TestRegistrySkipsNilJobs(t *testing.T) {
	registry := NewRegistry(nil, &stubJob{name: "kept"})
	registry.Register(nil)
	if got := len(registry.Jobs()); got != 1 {
		t.Errorf("registry has %d jobs, want 1", got)
	}
}

func TestNewServiceValidation(t *testing.T) {
	if _, err := NewService(ServiceParams{Lock: &stubLock{}}); err == nil {
		t.Error("expected error without logger")
	}
	if _, err := NewService(ServiceParams{Logger: testLogger()}); err == nil {
		t.Error("expected error without lock")
	}
}
