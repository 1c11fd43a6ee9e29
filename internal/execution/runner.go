package execution

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"

	"go.uber.org/zap"

	"gtp/internal/config"
	"gtp/internal/domain"
)

// WorkerIDEnv tells a test executable which worker runs it
const WorkerIDEnv = "GTP_WORKER_ID"

// Runner executes a single GoogleTest job
type Runner struct {
	config *config.Config
	logger *zap.Logger
}

// NewRunner creates a new Runner
func NewRunner(cfg *config.Config, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{config: cfg, logger: logger}
}

// Args returns the command-line arguments for a job
func (r *Runner) Args(test domain.Test) []string {
	var args []string
	if test.Filter != "" {
		args = append(args, "--gtest_filter="+test.Filter)
	}
	if r.config.RunDisabledTests {
		args = append(args, "--gtest_also_run_disabled_tests")
	}
	if r.config.Repetitions != 1 {
		args = append(args, "--gtest_repeat="+strconv.Itoa(r.config.Repetitions))
	}
	if r.config.ShuffleTests {
		args = append(args, "--gtest_shuffle")
	}
	return append(args, r.config.AdditionalArgs...)
}

// Run executes the job's executable and captures its combined output
func (r *Runner) Run(ctx context.Context, test domain.Test, workerID int) domain.TestResult {
	if r.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.config.Timeout)
		defer cancel()
	}

	args := r.Args(test)
	cmd := exec.CommandContext(ctx, test.Path, args...)

	// Set environment variables
	cmd.Env = append(r.config.Environ(), fmt.Sprintf("%s=%d", WorkerIDEnv, workerID))

	// Run next to the executable so relative test data paths resolve
	cmd.Dir = filepath.Dir(test.Path)

	r.logger.Debug("Starting test executable",
		zap.String("path", test.Path),
		zap.Strings("args", args),
		zap.Int("worker", workerID))

	start := time.Now()
	output, err := cmd.CombinedOutput()
	duration := time.Since(start)

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		err = fmt.Errorf("%s timed out after %s: %w", test.Label(), r.config.Timeout, err)
	}
	if err != nil {
		r.logger.Debug("Test executable failed", zap.String("path", test.Path), zap.Error(err))
	}

	return domain.TestResult{
		Test:     test,
		Success:  err == nil,
		Output:   string(output),
		Error:    err,
		Duration: duration,
		WorkerID: workerID,
	}
}
