// Package scheduler batches re-render requests into reconciliation passes.
//
// Invalidations made during one turn are coalesced: a job scheduled any
// number of times before the next pass runs once in that pass. A pass runs
// its jobs in depth order so that parents render before their children; jobs
// scheduled while a pass is running go to the following pass.
//
// All passes of a Scheduler run on a single goroutine. Use Run to drive them
// from an event loop, or Flush to drive them on the calling goroutine.
// Schedule, Tick and Dispatch are safe to call from any goroutine.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

var (
	// ErrPassLimit is returned when a flush keeps producing work past the
	// configured pass limit, usually a component invalidating itself on
	// every render.
	ErrPassLimit = errors.New("scheduler: pass limit exceeded")

	// ErrStopped is delivered to Tick waiters still pending when Run exits.
	ErrStopped = errors.New("scheduler: stopped")
)

// Job is a unit of work run by a pass, typically a dirty component instance.
type Job interface {
	// Depth orders jobs within a pass; lower depths run first.
	Depth() int

	// Run performs the work. A job that became stale since it was scheduled
	// returns nil without doing anything.
	Run() error
}

// Dropper is implemented by jobs that track their own pending state. Drop is
// called when the job is discarded without running, so that a later
// Schedule is not mistaken for a duplicate.
type Dropper interface {
	Drop()
}

// PassStats describes a completed pass.
type PassStats struct {
	Jobs     int
	Duration time.Duration
	Err      error
}

// Scheduler coalesces jobs into passes.
type Scheduler struct {
	logger    *slog.Logger
	onError   func(error)
	onPass    func(PassStats)
	maxPasses int

	mu      sync.Mutex
	dirty   map[Job]struct{}
	order   []Job
	waiters []chan error
	idle    []func()

	wake  chan struct{}
	tasks chan func()

	flushing atomic.Bool
	passes   atomic.Uint64
}

// New creates a scheduler.
func New(opts ...Option) *Scheduler {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	s := &Scheduler{
		logger:    cfg.logger,
		onError:   cfg.onError,
		onPass:    cfg.onPass,
		maxPasses: cfg.maxPasses,
		dirty:     make(map[Job]struct{}),
		wake:      make(chan struct{}, 1),
		tasks:     make(chan func(), cfg.queueSize),
	}
	if s.onError == nil {
		s.onError = func(err error) {
			s.logger.Error("unhandled pass failure", "error", err)
		}
	}
	return s
}

var (
	defaultScheduler     *Scheduler
	defaultSchedulerOnce sync.Once
)

// Default returns the process-wide scheduler used when no scheduler is
// configured explicitly. Nothing drives it until Run or Flush is called.
func Default() *Scheduler {
	defaultSchedulerOnce.Do(func() {
		defaultScheduler = New()
	})
	return defaultScheduler
}

// Schedule marks job for the next pass. Scheduling a job that is already
// pending is a no-op.
func (s *Scheduler) Schedule(job Job) {
	if job == nil {
		return
	}
	s.mu.Lock()
	if _, ok := s.dirty[job]; !ok {
		s.dirty[job] = struct{}{}
		s.order = append(s.order, job)
	}
	s.mu.Unlock()
	s.signal()
}

// Tick requests a pass and returns a channel that receives the pass result
// once it has completed, then is closed. Ticks requested before a pass
// starts share that pass.
func (s *Scheduler) Tick() <-chan error {
	ch := make(chan error, 1)
	s.mu.Lock()
	s.waiters = append(s.waiters, ch)
	s.mu.Unlock()
	s.signal()
	return ch
}

// Dispatch queues fn to run on the scheduler goroutine before the next pass.
// It reports false when the queue is full and fn was discarded.
func (s *Scheduler) Dispatch(fn func()) bool {
	if fn == nil {
		return true
	}
	select {
	case s.tasks <- fn:
		s.signal()
		return true
	default:
		s.logger.Warn("dispatch queue full, discarding callback")
		return false
	}
}

// OnIdle registers fn to run once, the next time the scheduler has no
// pending jobs, tasks or ticks.
func (s *Scheduler) OnIdle(fn func()) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	s.idle = append(s.idle, fn)
	s.mu.Unlock()
	s.signal()
}

// Pending reports whether a pass is waiting to run.
func (s *Scheduler) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.order) > 0 || len(s.waiters) > 0
}

// Passes returns the number of passes run so far.
func (s *Scheduler) Passes() uint64 {
	return s.passes.Load()
}

// Flush runs queued tasks and passes on the calling goroutine until nothing
// is pending, then runs idle callbacks. It returns the joined errors of the
// passes it ran. Calling Flush from inside a pass returns nil immediately;
// the outer flush picks up the new work.
func (s *Scheduler) Flush() error {
	return s.flush(false)
}

// Run drives the scheduler until ctx is done. Pass errors that no Tick
// waiter receives are reported through the error handler.
func (s *Scheduler) Run(ctx context.Context) error {
	defer s.failWaiters(ErrStopped)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.wake:
		}
		s.flush(true)
	}
}

func (s *Scheduler) signal() {
	select {
	case s.wake <- struct{}{}:
	default:
		// Already signaled
	}
}

func (s *Scheduler) flush(report bool) error {
	if !s.flushing.CompareAndSwap(false, true) {
		return nil
	}
	defer s.flushing.Store(false)

	var errs []error
	passes := 0
	for {
		s.drainTasks()

		if s.Pending() {
			if s.maxPasses > 0 && passes >= s.maxPasses {
				err := fmt.Errorf("%w: %d passes", ErrPassLimit, passes)
				s.dropPending(err)
				errs = append(errs, err)
				if report {
					s.onError(err)
				}
				break
			}
			if delivered, err := s.pass(); err != nil {
				errs = append(errs, err)
				if report && !delivered {
					s.onError(err)
				}
			}
			passes++
			continue
		}

		if len(s.tasks) > 0 {
			continue
		}
		if !s.runIdle() {
			break
		}
	}
	return errors.Join(errs...)
}

// pass runs every job pending at its start. It reports whether the result
// was handed to at least one Tick waiter.
func (s *Scheduler) pass() (delivered bool, err error) {
	s.mu.Lock()
	jobs := s.order
	waiters := s.waiters
	s.order = nil
	s.waiters = nil
	s.dirty = make(map[Job]struct{})
	s.mu.Unlock()

	start := time.Now()
	sort.SliceStable(jobs, func(i, j int) bool {
		return jobs[i].Depth() < jobs[j].Depth()
	})

	var errs []error
	for _, job := range jobs {
		if err := s.runJob(job); err != nil {
			errs = append(errs, err)
		}
	}
	err = errors.Join(errs...)
	s.passes.Add(1)

	if s.onPass != nil {
		s.onPass(PassStats{Jobs: len(jobs), Duration: time.Since(start), Err: err})
	}
	for _, ch := range waiters {
		ch <- err
		close(ch)
	}
	return len(waiters) > 0, err
}

func (s *Scheduler) runJob(job Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("job panic", "panic", r, "stack", string(debug.Stack()))
			err = fmt.Errorf("scheduler: job panic: %v", r)
		}
	}()
	return job.Run()
}

func (s *Scheduler) drainTasks() {
	for {
		select {
		case fn := <-s.tasks:
			s.safeExecute(fn)
		default:
			return
		}
	}
}

func (s *Scheduler) runIdle() bool {
	s.mu.Lock()
	if len(s.order) > 0 || len(s.waiters) > 0 || len(s.idle) == 0 {
		s.mu.Unlock()
		return false
	}
	idle := s.idle
	s.idle = nil
	s.mu.Unlock()

	for _, fn := range idle {
		s.safeExecute(fn)
	}
	return true
}

func (s *Scheduler) safeExecute(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("task panic", "panic", r, "stack", string(debug.Stack()))
		}
	}()
	fn()
}

// dropPending discards pending jobs and fails the Tick waiters with err.
func (s *Scheduler) dropPending(err error) {
	s.mu.Lock()
	jobs := s.order
	waiters := s.waiters
	s.order = nil
	s.waiters = nil
	s.dirty = make(map[Job]struct{})
	s.mu.Unlock()

	for _, job := range jobs {
		if d, ok := job.(Dropper); ok {
			s.safeExecute(d.Drop)
		}
	}
	for _, ch := range waiters {
		ch <- err
		close(ch)
	}
}

func (s *Scheduler) failWaiters(err error) {
	s.mu.Lock()
	waiters := s.waiters
	s.waiters = nil
	s.mu.Unlock()

	for _, ch := range waiters {
		ch <- err
		close(ch)
	}
}
