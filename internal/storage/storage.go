package storage

import (
	"time"

	"gtp/internal/config"
	"gtp/internal/domain"
)

// Storage persists and loads test run results (e.g. for the faills viewer).
type Storage interface {
	Save(results []domain.TestResult, failures []domain.TestFailure, duration time.Duration, workers int) (*domain.TestResultsOutput, error)
	Load() (*domain.TestResultsOutput, error)
	// SaveOutput writes the full output (e.g. after resolving failures in the viewer).
	SaveOutput(output *domain.TestResultsOutput) error
}

// CaseParser reconstructs test cases from the console output of a job
type CaseParser interface {
	ParseTestCases(output string) []domain.TestCaseResult
}

// JSONStorage stores results in a JSON file under the configured output path.
type JSONStorage struct {
	cfg   *config.Config
	cases CaseParser
}

// NewJSONStorage returns a Storage that reads/writes the config's output JSON path.
// Without a CaseParser, test case counts fall back to one case per job.
func NewJSONStorage(cfg *config.Config, cases CaseParser) *JSONStorage {
	return &JSONStorage{cfg: cfg, cases: cases}
}
