package domain

import "time"

// Outcome is the final state of a single test case
type Outcome string

const (
	OutcomePassed  Outcome = "passed"
	OutcomeFailed  Outcome = "failed"
	OutcomeSkipped Outcome = "skipped"
	OutcomeCrashed Outcome = "crashed"
)

// IsFailure reports whether the outcome counts as a failed test case
func (o Outcome) IsFailure() bool {
	return o == OutcomeFailed || o == OutcomeCrashed
}

// TestResult represents the result of executing one job
type TestResult struct {
	Test     Test          // Job that was executed
	Success  bool          // Whether the executable exited with status 0
	Output   string        // Raw combined output of the executable
	Error    error         // Error if execution failed
	Duration time.Duration // Time taken to execute
	WorkerID int           // Worker that executed the job
}

// TestCaseResult is one test case as reconstructed from console output
type TestCaseResult struct {
	Name     string
	Outcome  Outcome
	Duration time.Duration
	Output   string // Lines printed between the RUN marker and the result marker
}

// ExecutableStats summarises all jobs of one executable
type ExecutableStats struct {
	Executable string  `json:"executable"`
	Passed     int     `json:"passed"`
	Failed     int     `json:"failed"`
	Skipped    int     `json:"skipped"`
	Seconds    float64 `json:"seconds"`
}

// TestResultsMeta contains metadata about a test run
type TestResultsMeta struct {
	RunID            string            `json:"run_id"`
	TotalExecutables int               `json:"total_executables"`
	FailedJobs       int               `json:"failed_jobs"`
	PassedJobs       int               `json:"passed_jobs"`
	PassedTestCases  int               `json:"passed_test_cases"`
	FailedTestCases  int               `json:"failed_test_cases"`
	SkippedTestCases int               `json:"skipped_test_cases"`
	Duration         string            `json:"duration"`
	DurationSeconds  float64           `json:"duration_seconds"`
	Workers          int               `json:"workers"`
	Timestamp        string            `json:"timestamp"`
	Executables      []ExecutableStats `json:"executables,omitempty"`
}

// TestResultsOutput is the complete output structure for test results
type TestResultsOutput struct {
	Meta    TestResultsMeta `json:"meta"`
	Details []TestFailure   `json:"details"`
}
