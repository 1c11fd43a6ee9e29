package commands

import (
	"path/filepath"
	"sort"
	"strings"

	"gtp/internal/domain"
	"gtp/internal/execution"
)

// wholeExecutableJobs creates one job per executable
func wholeExecutableJobs(executables []string) []domain.Test {
	jobs := make([]domain.Test, 0, len(executables))
	for _, exe := range executables {
		jobs = append(jobs, execution.NewTest(exe, ""))
	}
	return jobs
}

// splitJobs spreads the test cases of every executable over workerCount jobs.
// Executables listed without test cases are skipped; an executable missing from cases
// could not be listed and runs as a whole, so its failure is reported.
func splitJobs(scheduler execution.Scheduler, executables []string, cases map[string][]domain.TestCase, workerCount int) []domain.Test {
	var jobs []domain.Test
	for _, exe := range executables {
		exeCases, listed := cases[exe]
		if !listed {
			jobs = append(jobs, execution.NewTest(exe, ""))
			continue
		}
		jobs = append(jobs, execution.SplitJobs(scheduler, exe, exeCases, workerCount)...)
	}
	return jobs
}

// failedJobs creates jobs that rerun the failures of a previous run. Test cases are
// grouped per executable into a single filter; an executable that failed without
// reporting a test case is rerun completely. When executables is non-empty, only
// failures of those executables are considered.
func failedJobs(lastRun *domain.TestResultsOutput, executables []string) []domain.Test {
	allowed := make(map[string]bool, len(executables))
	for _, exe := range executables {
		allowed[exe] = true
	}

	names := make(map[string][]string)
	whole := make(map[string]bool)
	var order []string
	for _, failure := range lastRun.Details {
		exe := failure.Executable
		if exe == "" || (len(allowed) > 0 && !allowed[exe]) {
			continue
		}
		if _, seen := names[exe]; !seen && !whole[exe] {
			order = append(order, exe)
		}
		if isTestCaseName(failure.TestName, exe) {
			names[exe] = append(names[exe], failure.TestName)
		} else {
			whole[exe] = true
		}
		if names[exe] == nil {
			names[exe] = []string{}
		}
	}

	jobs := make([]domain.Test, 0, len(order))
	for _, exe := range order {
		if whole[exe] {
			jobs = append(jobs, execution.NewTest(exe, ""))
			continue
		}
		filter := dedupe(names[exe])
		jobs = append(jobs, execution.NewTest(exe, strings.Join(filter, ":")))
	}
	return jobs
}

// isTestCaseName reports whether name looks like Suite.Test rather than the label of a job
func isTestCaseName(name, executable string) bool {
	if name == "" || name == filepath.Base(executable) {
		return false
	}
	return strings.Contains(name, ".") && !strings.ContainsAny(name, " []")
}

func dedupe(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	sort.Strings(out)
	return out
}
