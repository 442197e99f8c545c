// File: core/concurrency/executor.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Executor dispatches tasks across a fixed pool of worker goroutines fed by a
// blocking MPMC queue. Every task moves waiting -> active -> complete; Wait
// and WaitFor observe those sets. Completion callbacks are serialized
// according to the executor's CompletionPolicy.

package concurrency

import (
	"runtime"
	"sync"

	"go.uber.org/zap"

	"github.com/momentics/hioload-cc/api"
	"github.com/momentics/hioload-cc/control"
	"github.com/momentics/hioload-cc/core/queue"
	affinity "github.com/momentics/hioload-cc/internal/concurrency"
)

// TaskID identifies a submitted task. IDs start at zero and increase by one
// per submission.
type TaskID = uint64

var _ api.Executor = (*Executor)(nil)

type taskRecord struct {
	id         TaskID
	task       func()
	completion func()
}

// Option configures an Executor.
type Option func(*Executor)

// WithWorkers sets the pool size. n <= 0 selects runtime.NumCPU().
func WithWorkers(n int) Option {
	return func(e *Executor) { e.workers = n }
}

// WithPolicy sets the completion policy.
func WithPolicy(p CompletionPolicy) Option {
	return func(e *Executor) { e.policy = p }
}

// WithLogger sets the logger used for worker lifecycle and task failures.
func WithLogger(l *zap.Logger) Option {
	return func(e *Executor) {
		if l != nil {
			e.log = l
		}
	}
}

// WithMetrics records task and worker counts in m.
func WithMetrics(m *control.Metrics) Option {
	return func(e *Executor) { e.metrics = m }
}

// WithPinning binds worker i to CPU i modulo the CPU count.
func WithPinning(pin bool) Option {
	return func(e *Executor) { e.pin = pin }
}

// Executor is a worker pool with task tracking.
type Executor struct {
	workers int
	policy  CompletionPolicy
	pin     bool
	log     *zap.Logger
	metrics *control.Metrics

	tasks *queue.MPMC[taskRecord]

	submitMu sync.Mutex
	nextID   TaskID
	closed   bool

	mu       sync.Mutex
	cond     *sync.Cond
	waiting  map[TaskID]struct{}
	active   map[TaskID]struct{}
	lowWater TaskID              // every id below is complete
	done     map[TaskID]struct{} // complete ids at or above lowWater

	completionMu sync.Mutex
	sequencer    *Sequencer

	wg            sync.WaitGroup
	terminateOnce sync.Once
}

// NewExecutor starts a pool configured by opts.
func NewExecutor(opts ...Option) *Executor {
	e := &Executor{
		log:       zap.NewNop(),
		tasks:     queue.NewMPMC[taskRecord](),
		waiting:   make(map[TaskID]struct{}),
		active:    make(map[TaskID]struct{}),
		done:      make(map[TaskID]struct{}),
		sequencer: NewSequencer(0),
	}
	e.cond = sync.NewCond(&e.mu)
	for _, opt := range opts {
		opt(e)
	}
	if e.workers <= 0 {
		e.workers = runtime.NumCPU()
	}
	e.log = e.log.With(zap.Stringer("policy", e.policy))

	e.wg.Add(e.workers)
	for i := 0; i < e.workers; i++ {
		go e.loop(i)
	}
	e.metrics.WorkersChanged(e.workers)
	e.log.Debug("executor started", zap.Int("workers", e.workers), zap.Bool("pinned", e.pin))
	return e
}

// NewUnordered starts n workers whose completions never overlap.
func NewUnordered(n int, opts ...Option) *Executor {
	return NewExecutor(append([]Option{WithWorkers(n), WithPolicy(PolicyUnordered)}, opts...)...)
}

// NewOrdered starts n workers whose completions run in submission order.
func NewOrdered(n int, opts ...Option) *Executor {
	return NewExecutor(append([]Option{WithWorkers(n), WithPolicy(PolicyOrdered)}, opts...)...)
}

// NewExecutorFromConfig starts a pool from environment configuration.
// Explicit opts override the configured values.
func NewExecutorFromConfig(cfg control.ExecutorConfig, opts ...Option) (*Executor, error) {
	if cfg.Workers < 0 {
		return nil, ErrInvalidWorkerCount
	}
	policy, err := ParsePolicy(cfg.Policy)
	if err != nil {
		return nil, err
	}
	base := []Option{WithWorkers(cfg.Workers), WithPolicy(policy), WithPinning(cfg.Pin)}
	return NewExecutor(append(base, opts...)...), nil
}

// Policy returns the completion policy.
func (e *Executor) Policy() CompletionPolicy { return e.policy }

// NumWorkers returns the pool size.
func (e *Executor) NumWorkers() int { return e.workers }

// Submit schedules task and returns its id.
func (e *Executor) Submit(task func()) (TaskID, error) {
	return e.SubmitWithCompletion(task, nil)
}

// SubmitWithCompletion schedules task; completion, if not nil, runs after it
// under the executor's policy.
func (e *Executor) SubmitWithCompletion(task, completion func()) (TaskID, error) {
	if task == nil {
		return 0, ErrNilTask
	}
	e.submitMu.Lock()
	defer e.submitMu.Unlock()
	if e.closed {
		return 0, ErrExecutorClosed
	}
	id := e.nextID
	e.nextID++

	e.mu.Lock()
	e.waiting[id] = struct{}{}
	e.mu.Unlock()

	// ids enter the queue in id order, which the ordered policy relies on.
	e.tasks.Push(taskRecord{id: id, task: task, completion: completion})
	e.metrics.TaskSubmitted()
	return id, nil
}

// Wait blocks until no task is waiting or active.
func (e *Executor) Wait() {
	e.mu.Lock()
	for len(e.waiting)+len(e.active) > 0 {
		e.cond.Wait()
	}
	e.mu.Unlock()
}

// WaitFor blocks until task id has completed. Waiting for an id that was
// never issued blocks forever.
func (e *Executor) WaitFor(id TaskID) {
	e.mu.Lock()
	for !e.isCompleteLocked(id) {
		e.cond.Wait()
	}
	e.mu.Unlock()
}

// Terminate stops accepting tasks, lets workers drain everything already
// queued and joins them. Safe to call more than once.
func (e *Executor) Terminate() {
	e.terminateOnce.Do(func() {
		e.submitMu.Lock()
		e.closed = true
		e.tasks.PushSentinel()
		e.submitMu.Unlock()

		e.wg.Wait()
		e.metrics.WorkersChanged(-e.workers)
		e.log.Debug("executor terminated", zap.Uint64("tasks", e.nextID))
	})
}

func (e *Executor) loop(worker int) {
	defer e.wg.Done()
	if e.pin {
		if err := affinity.PinCurrentThread(worker); err != nil {
			e.log.Warn("worker pinning failed", zap.Int("worker", worker), zap.Error(err))
		}
		defer func() {
			if err := affinity.UnpinCurrentThread(); err != nil {
				e.log.Debug("worker unpin failed", zap.Int("worker", worker), zap.Error(err))
			}
		}()
	}
	for {
		rec, ok := e.tasks.Pop()
		if !ok {
			return
		}
		e.execute(rec)
	}
}

func (e *Executor) execute(rec taskRecord) {
	e.mu.Lock()
	delete(e.waiting, rec.id)
	e.active[rec.id] = struct{}{}
	e.mu.Unlock()
	e.metrics.TaskStarted()

	e.invoke(rec.id, control.PhaseTask, rec.task)

	switch e.policy {
	case PolicyOrdered:
		e.sequencer.WaitFor(rec.id)
		e.invoke(rec.id, control.PhaseCompletion, rec.completion)
		e.sequencer.Next()
	case PolicyUnordered:
		e.completionMu.Lock()
		e.invoke(rec.id, control.PhaseCompletion, rec.completion)
		e.completionMu.Unlock()
	default:
		e.invoke(rec.id, control.PhaseCompletion, rec.completion)
	}

	e.metrics.TaskFinished()
	e.mu.Lock()
	delete(e.active, rec.id)
	e.markCompleteLocked(rec.id)
	e.cond.Broadcast()
	e.mu.Unlock()
}

// invoke runs fn, logging and counting a panic instead of propagating it.
func (e *Executor) invoke(id TaskID, phase string, fn func()) {
	if fn == nil {
		return
	}
	defer func() {
		if p := recover(); p != nil {
			e.metrics.TaskFailed(phase)
			e.log.Error("task failed",
				zap.Uint64("task_id", id),
				zap.String("phase", phase),
				zap.Any("panic", p))
		}
	}()
	fn()
}

func (e *Executor) isCompleteLocked(id TaskID) bool {
	if id < e.lowWater {
		return true
	}
	_, ok := e.done[id]
	return ok
}

func (e *Executor) markCompleteLocked(id TaskID) {
	e.done[id] = struct{}{}
	for {
		if _, ok := e.done[e.lowWater]; !ok {
			return
		}
		delete(e.done, e.lowWater)
		e.lowWater++
	}
}
