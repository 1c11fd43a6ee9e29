package execution

import (
	"context"
	"time"

	"gtp/internal/domain"
)

// Executor executes tests and returns results
type Executor interface {
	Execute(ctx context.Context, tests []domain.Test) ([]domain.TestResult, time.Duration, error)
}

// TestRunner runs a single job on behalf of a worker
type TestRunner interface {
	Run(ctx context.Context, test domain.Test, workerID int) domain.TestResult
}

// Progress receives updates while jobs complete
type Progress interface {
	Update(completed, passed, failed int)
	Finish()
}
