package completion

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"vlmbridge/clients"
	"vlmbridge/core"
	"vlmbridge/metrics"
	"vlmbridge/models"
)

const (
	DefaultWorkers        = 2
	DefaultQueueSize      = 16
	DefaultRequestTimeout = 30 * time.Second
)

// Config controls the worker pool and the fixed decoding parameters applied
// to every call.
type Config struct {
	Workers        int
	QueueSize      int
	RequestTimeout time.Duration
	Params         clients.CompletionParams
}

type completionOutcome struct {
	text string
	err  error
}

type completionTask struct {
	ctx   context.Context
	turns []models.ConversationTurn
	// results is buffered with capacity 1 so a worker finishing after the
	// caller has given up never blocks - the late result is simply discarded.
	results chan completionOutcome
}

// CompletionServiceImpl routes completion calls through a fixed-size worker
// pool, decoupling them from request-handling concurrency. Calls beyond pool
// capacity queue FIFO; each call carries a deadline and cancellation is
// best-effort via context.
type CompletionServiceImpl struct {
	client  clients.CompletionClient
	params  clients.CompletionParams
	timeout time.Duration
	tasks   chan *completionTask
	stop    chan struct{}
	wg      sync.WaitGroup
}

// NewCompletionService creates the pool and starts its workers.
func NewCompletionService(client clients.CompletionClient, cfg Config) *CompletionServiceImpl {
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = DefaultQueueSize
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}

	s := &CompletionServiceImpl{
		client:  client,
		params:  cfg.Params,
		timeout: cfg.RequestTimeout,
		tasks:   make(chan *completionTask, cfg.QueueSize),
		stop:    make(chan struct{}),
	}

	for i := 0; i < cfg.Workers; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}
	log.Printf("✅ Completion pool started with %d workers (timeout %s)", cfg.Workers, cfg.RequestTimeout)

	return s
}

func (s *CompletionServiceImpl) worker(id int) {
	defer s.wg.Done()
	for {
		select {
		case <-s.stop:
			return
		case task := <-s.tasks:
			if task.ctx.Err() != nil {
				// Caller already gave up while the task sat in the queue.
				continue
			}
			text, err := s.client.GenerateCompletion(task.ctx, task.turns, s.params)
			task.results <- completionOutcome{text: text, err: err}
		}
	}
}

// GenerateCompletion submits one call to the pool and waits for its result,
// bounded by the per-attempt deadline. On expiry the outstanding call is
// cancelled best-effort and a timeout is reported; a response arriving after
// that is discarded, never consumed.
func (s *CompletionServiceImpl) GenerateCompletion(
	ctx context.Context,
	turns []models.ConversationTurn,
) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	started := time.Now()
	defer func() { metrics.CompletionDuration.Observe(time.Since(started).Seconds()) }()

	task := &completionTask{
		ctx:     callCtx,
		turns:   turns,
		results: make(chan completionOutcome, 1),
	}

	select {
	case s.tasks <- task:
	case <-s.stop:
		return "", fmt.Errorf("completion pool is shut down: %w", core.ErrCompletionTransport)
	case <-callCtx.Done():
		return "", s.classify(callCtx, nil)
	}

	select {
	case outcome := <-task.results:
		if outcome.err != nil {
			return "", s.classify(callCtx, outcome.err)
		}
		return outcome.text, nil
	case <-callCtx.Done():
		return "", s.classify(callCtx, nil)
	}
}

// classify folds a raw failure into the completion error taxonomy: deadline
// expiry becomes ErrCompletionTimeout, everything else ErrCompletionTransport.
func (s *CompletionServiceImpl) classify(callCtx context.Context, err error) error {
	if errors.Is(callCtx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w after %s", core.ErrCompletionTimeout, s.timeout)
	}
	if err == nil {
		err = callCtx.Err()
	}
	return fmt.Errorf("%w: %v", core.ErrCompletionTransport, err)
}

// Close stops the workers. In-flight calls finish; their results are
// discarded if the caller has already returned.
func (s *CompletionServiceImpl) Close() {
	close(s.stop)
	s.wg.Wait()
	log.Printf("🛑 Completion pool stopped")
}
