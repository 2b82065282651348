package worker

import (
	"context"
	"errors"
	"runtime"
	"sync"

	"telegram-account-binding/internal/infra/metrics"

	"github.com/rs/zerolog"
)

// Task is a unit of work run by the pool. Its error is logged, never returned to the submitter.
type Task = func(ctx context.Context) error

var (
	ErrNilTask     = errors.New("nil task")
	ErrQueueFull   = errors.New("worker queue full")
	ErrPoolStopped = errors.New("worker pool stopped")
)

// Pool runs submitted tasks on a fixed number of goroutines fed by a bounded queue.
type Pool struct {
	wg      sync.WaitGroup
	mu      sync.RWMutex
	jobs    chan Task
	stopped bool
	n       int
	log     *zerolog.Logger
}

func NewPool(workers, queue int, logger *zerolog.Logger) *Pool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if queue <= 0 {
		queue = workers * 4
	}
	compLog := logger.With().Str("component", "WorkerPool").Logger()
	return &Pool{jobs: make(chan Task, queue), n: workers, log: &compLog}
}

// Start launches the workers. Tasks receive ctx without its cancellation, so
// shutting down the caller does not abort deliveries already accepted.
func (p *Pool) Start(ctx context.Context) {
	taskCtx := context.WithoutCancel(ctx)
	for i := 0; i < p.n; i++ {
		p.wg.Add(1)
		go func(id int) {
			defer p.wg.Done()
			for task := range p.jobs {
				metrics.SetDeliveryQueueDepth(len(p.jobs))
				p.run(taskCtx, id, task)
			}
		}(i + 1)
	}
	p.log.Info().Int("workers", p.n).Int("queue", cap(p.jobs)).Msg("worker pool started")
}

func (p *Pool) run(ctx context.Context, id int, task Task) {
	metrics.IncDeliveryInFlight()
	defer metrics.DecDeliveryInFlight()
	defer func() {
		if rec := recover(); rec != nil {
			p.log.Error().Int("worker", id).Interface("panic", rec).Msg("task panicked")
		}
	}()
	if err := task(ctx); err != nil {
		p.log.Error().Int("worker", id).Err(err).Msg("task error")
	}
}

// Submit enqueues task without blocking. It fails when the queue is full or the pool is stopped.
func (p *Pool) Submit(task Task) error {
	if task == nil {
		return ErrNilTask
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.stopped {
		return ErrPoolStopped
	}
	select {
	case p.jobs <- task:
		metrics.SetDeliveryQueueDepth(len(p.jobs))
		return nil
	default:
		return ErrQueueFull
	}
}

// Stop refuses new tasks and waits for queued ones to finish, or for ctx to expire.
func (p *Pool) Stop(ctx context.Context) error {
	p.mu.Lock()
	if !p.stopped {
		p.stopped = true
		close(p.jobs)
	}
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
