package execution

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"gtp/internal/config"
	"gtp/internal/domain"
	"gtp/internal/parser"
)

// WorkerPool manages a pool of workers for parallel test execution
type WorkerPool struct {
	config   *config.Config
	runner   TestRunner
	progress Progress
	parser   parser.Parser
	logger   *zap.Logger
}

// NewWorkerPool creates a new WorkerPool
func NewWorkerPool(cfg *config.Config, runner TestRunner, testParser parser.Parser, logger *zap.Logger) *WorkerPool {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WorkerPool{
		config: cfg,
		runner: runner,
		parser: testParser,
		logger: logger,
	}
}

// SetProgress sets the progress bar for the worker pool
func (wp *WorkerPool) SetProgress(progress Progress) {
	wp.progress = progress
}

// Execute executes tests in parallel using worker pool (no fail-fast).
func (wp *WorkerPool) Execute(ctx context.Context, tests []domain.Test) ([]domain.TestResult, time.Duration, error) {
	return wp.ExecuteWithOptions(ctx, tests, false)
}

type queuedTest struct {
	index int
	test  domain.Test
}

type indexedResult struct {
	index  int
	result domain.TestResult
}

// ExecuteWithOptions executes tests with optional fail-fast (stop on first failure).
// Results are returned in the order of tests; with fail-fast, jobs finishing after
// the first failure are dropped. The error is the context's if it was cancelled by the caller.
func (wp *WorkerPool) ExecuteWithOptions(ctx context.Context, tests []domain.Test, failFast bool) ([]domain.TestResult, time.Duration, error) {
	if len(tests) == 0 {
		return nil, 0, nil
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	testQueue := make(chan queuedTest)
	results := make(chan indexedResult, len(tests))

	go func() {
		defer close(testQueue)
		for i, test := range tests {
			select {
			case <-runCtx.Done():
				return
			case testQueue <- queuedTest{index: i, test: test}:
			}
		}
	}()

	var mu sync.Mutex
	var completed int
	var passedCases, failedCases int
	var seenFailure bool
	startTime := time.Now()
	workerCount := wp.config.Processors
	if workerCount <= 0 {
		workerCount = 1
	}

	var wg sync.WaitGroup
	for i := 1; i <= workerCount; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for queued := range testQueue {
				result := wp.runner.Run(runCtx, queued.test, workerID)
				passed, failed := wp.countCases(result)

				mu.Lock()
				if failFast && seenFailure {
					mu.Unlock()
					continue
				}
				completed++
				passedCases += passed
				failedCases += failed
				if wp.progress != nil {
					wp.progress.Update(completed, passedCases, failedCases)
				}
				if failFast && !result.Success {
					seenFailure = true
					wp.logger.Debug("Stopping after first failure", zap.String("test", queued.test.Label()))
					cancel()
				}
				mu.Unlock()

				results <- indexedResult{index: queued.index, result: result}
			}
		}(i)
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	ordered := make([]*domain.TestResult, len(tests))
	for r := range results {
		result := r.result
		ordered[r.index] = &result
	}
	if wp.progress != nil {
		wp.progress.Finish()
	}

	allResults := make([]domain.TestResult, 0, len(tests))
	for _, r := range ordered {
		if r != nil {
			allResults = append(allResults, *r)
		}
	}

	duration := time.Since(startTime)
	wp.logger.Debug("Execution finished",
		zap.Int("jobs", len(tests)),
		zap.Int("completed", len(allResults)),
		zap.Duration("duration", duration))

	return allResults, duration, ctx.Err()
}

func (wp *WorkerPool) countCases(result domain.TestResult) (passed, failed int) {
	if wp.parser != nil {
		return wp.parser.ParseTestCounts(result)
	}
	if result.Success {
		return 1, 0
	}
	return 0, 1
}
