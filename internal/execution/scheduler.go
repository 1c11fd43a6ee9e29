package execution

import (
	"path/filepath"
	"strings"

	"gtp/internal/domain"
)

// Scheduler distributes tests across workers
type Scheduler interface {
	Schedule(tests []string, workerCount int) [][]string
}

// RoundRobinScheduler distributes tests evenly across workers
type RoundRobinScheduler struct{}

// NewRoundRobinScheduler creates a new RoundRobinScheduler
func NewRoundRobinScheduler() *RoundRobinScheduler {
	return &RoundRobinScheduler{}
}

// Schedule distributes tests evenly across workers using round-robin
func (s *RoundRobinScheduler) Schedule(tests []string, workerCount int) [][]string {
	if workerCount <= 0 {
		workerCount = 1
	}

	distribution := make([][]string, workerCount)
	for i := range distribution {
		distribution[i] = make([]string, 0)
	}

	for i, test := range tests {
		workerIndex := i % workerCount
		distribution[workerIndex] = append(distribution[workerIndex], test)
	}

	return distribution
}

// SplitJobs spreads the test cases of one executable over up to workerCount jobs,
// each running its share through --gtest_filter
func SplitJobs(s Scheduler, executable string, cases []domain.TestCase, workerCount int) []domain.Test {
	names := make([]string, 0, len(cases))
	for _, c := range cases {
		names = append(names, c.FullName)
	}

	var jobs []domain.Test
	for _, bucket := range s.Schedule(names, workerCount) {
		if len(bucket) == 0 {
			continue
		}
		jobs = append(jobs, NewTest(executable, strings.Join(bucket, ":")))
	}
	return jobs
}

// NewTest creates a job for an executable
func NewTest(executable, filter string) domain.Test {
	return domain.Test{
		Path:     executable,
		FileName: filepath.Base(executable),
		Filter:   filter,
	}
}
