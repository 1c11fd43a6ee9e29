package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"gtp/internal/domain"
)

// Save writes test results and failures to the configured JSON output file and
// returns what was written.
func (s *JSONStorage) Save(results []domain.TestResult, failures []domain.TestFailure, duration time.Duration, workers int) (*domain.TestResultsOutput, error) {
	output := s.Summarize(results, failures, duration, workers)
	if err := s.SaveOutput(output); err != nil {
		return nil, err
	}
	return output, nil
}

// Summarize builds the stored form of a run. Jobs of the same executable are merged
// into one ExecutableStats entry, in order of first appearance.
func (s *JSONStorage) Summarize(results []domain.TestResult, failures []domain.TestFailure, duration time.Duration, workers int) *domain.TestResultsOutput {
	meta := domain.TestResultsMeta{
		RunID:           uuid.NewString(),
		Duration:        duration.String(),
		DurationSeconds: duration.Seconds(),
		Workers:         workers,
		Timestamp:       time.Now().Format(time.RFC3339),
	}

	index := make(map[string]int)
	for _, r := range results {
		if r.Success {
			meta.PassedJobs++
		} else {
			meta.FailedJobs++
		}

		i, ok := index[r.Test.Path]
		if !ok {
			i = len(meta.Executables)
			index[r.Test.Path] = i
			meta.Executables = append(meta.Executables, domain.ExecutableStats{Executable: r.Test.Path})
		}
		stats := &meta.Executables[i]
		stats.Seconds += r.Duration.Seconds()

		passed, failed, skipped := s.countCases(r)
		stats.Passed += passed
		stats.Failed += failed
		stats.Skipped += skipped
		meta.PassedTestCases += passed
		meta.FailedTestCases += failed
		meta.SkippedTestCases += skipped
	}
	meta.TotalExecutables = len(meta.Executables)

	if failures == nil {
		failures = []domain.TestFailure{}
	}
	return &domain.TestResultsOutput{Meta: meta, Details: failures}
}

func (s *JSONStorage) countCases(r domain.TestResult) (passed, failed, skipped int) {
	if s.cases != nil {
		for _, c := range s.cases.ParseTestCases(r.Output) {
			switch {
			case c.Outcome == domain.OutcomePassed:
				passed++
			case c.Outcome == domain.OutcomeSkipped:
				skipped++
			case c.Outcome.IsFailure():
				failed++
			}
		}
		if passed+failed+skipped > 0 {
			return passed, failed, skipped
		}
	}

	// Fallback: one "test" per job
	if r.Success {
		return 1, 0, 0
	}
	return 0, 1, 0
}

// Load reads the last test results from the configured JSON output file.
func (s *JSONStorage) Load() (*domain.TestResultsOutput, error) {
	path := s.cfg.GetOutputPath()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read results file: %w", err)
	}
	var output domain.TestResultsOutput
	if err := json.Unmarshal(data, &output); err != nil {
		return nil, fmt.Errorf("parse results: %w", err)
	}
	return &output, nil
}

// SaveOutput writes the full output to the configured JSON file.
func (s *JSONStorage) SaveOutput(output *domain.TestResultsOutput) error {
	data, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}
	path := s.cfg.GetOutputPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write results: %w", err)
	}
	return nil
}
