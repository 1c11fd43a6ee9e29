package parser

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/acarl005/stripansi"

	"gtp/internal/domain"
)

// CrashedMarker prefixes the error message of a test case that started but never finished
const CrashedMarker = "!! This test has probably CRASHED !!"

var (
	// [ RUN      ] Suite.Name
	// [  FAILED  ] Inst/Suite.Name/0, where GetParam() = 1 (0 ms)
	markerPattern   = regexp.MustCompile(`^\[\s*(RUN|OK|FAILED|SKIPPED)\s*\] ([^\s,]+)(.*)$`)
	durationPattern = regexp.MustCompile(`\((\d+) ms\)\s*$`)
)

// GoogleTestParser parses the console output of GoogleTest executables
type GoogleTestParser struct {
	messages *ErrorMessageParser
}

// NewGoogleTestParser creates a new GoogleTestParser
func NewGoogleTestParser() *GoogleTestParser {
	return &GoogleTestParser{messages: NewErrorMessageParser()}
}

// ParseTestCases reconstructs the test cases of a run from its console output.
// A test case that was started but has no result marker is reported as crashed.
func (p *GoogleTestParser) ParseTestCases(output string) []domain.TestCaseResult {
	output = strings.ReplaceAll(stripansi.Strip(output), "\r\n", "\n")
	lines := strings.Split(output, "\n")

	var cases []domain.TestCaseResult
	var current *domain.TestCaseResult
	var body []string

	finish := func(outcome domain.Outcome, duration time.Duration) {
		current.Outcome = outcome
		current.Duration = duration
		current.Output = joinTrimmed(body)
		cases = append(cases, *current)
		current = nil
		body = nil
	}

	for _, line := range lines {
		m := markerPattern.FindStringSubmatch(line)
		if m == nil {
			if current != nil {
				body = append(body, line)
			}
			continue
		}

		status, name := m[1], m[2]
		if status == "RUN" {
			if current != nil {
				finish(domain.OutcomeCrashed, 0)
			}
			current = &domain.TestCaseResult{Name: name}
			continue
		}

		// Summary lines after the last test repeat the FAILED/SKIPPED markers; only
		// a marker naming the running test ends it.
		if current == nil || current.Name != name {
			continue
		}
		finish(outcomeOf(status), parseDuration(m[3]))
	}

	if current != nil {
		finish(domain.OutcomeCrashed, 0)
	}

	return cases
}

// ParseTestCounts extracts passed and failed test case counts from the output.
// Returns (passed, failed). If no test case is found, returns (1,0) for success or (0,1) for failure.
func (p *GoogleTestParser) ParseTestCounts(result domain.TestResult) (passed, failed int) {
	for _, c := range p.ParseTestCases(result.Output) {
		switch {
		case c.Outcome == domain.OutcomePassed:
			passed++
		case c.Outcome.IsFailure():
			failed++
		}
	}
	if passed > 0 || failed > 0 {
		return passed, failed
	}

	// Fallback: one "test" per job
	if result.Success {
		return 1, 0
	}
	return 0, 1
}

// ParseFailure parses the failed test cases of a job
func (p *GoogleTestParser) ParseFailure(result domain.TestResult) []domain.TestFailure {
	var failures []domain.TestFailure
	for _, c := range p.ParseTestCases(result.Output) {
		if !c.Outcome.IsFailure() {
			continue
		}
		failures = append(failures, p.failureFor(result.Test.Path, c))
	}

	if len(failures) > 0 || result.Success {
		return failures
	}

	// The executable failed without reporting a failed test, e.g. it could not start
	// or died before the first test.
	output := strings.TrimRight(stripansi.Strip(result.Output), "\r\n")
	if output == "" && result.Error != nil {
		output = result.Error.Error()
	}
	return append(failures, p.failureFor(result.Test.Path, domain.TestCaseResult{
		Name:     result.Test.Label(),
		Outcome:  domain.OutcomeCrashed,
		Duration: result.Duration,
		Output:   output,
	}))
}

func (p *GoogleTestParser) failureFor(executable string, c domain.TestCaseResult) domain.TestFailure {
	report := p.messages.Parse(c.Output)

	message := report.ErrorMessage
	if c.Outcome == domain.OutcomeCrashed {
		message = strings.TrimSuffix(CrashedMarker+"\n"+message, "\n")
	}

	return domain.TestFailure{
		TestName:        c.Name,
		Executable:      executable,
		Outcome:         c.Outcome,
		ErrorMessage:    message,
		ErrorStackTrace: report.ErrorStackTrace,
		Locations:       report.Locations(),
		Output:          c.Output,
		DurationMs:      c.Duration.Milliseconds(),
	}
}

func outcomeOf(status string) domain.Outcome {
	switch status {
	case "OK":
		return domain.OutcomePassed
	case "SKIPPED":
		return domain.OutcomeSkipped
	default:
		return domain.OutcomeFailed
	}
}

func parseDuration(tail string) time.Duration {
	m := durationPattern.FindStringSubmatch(tail)
	if m == nil {
		return 0
	}
	ms, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0
	}
	return time.Duration(ms) * time.Millisecond
}

// joinTrimmed joins lines, dropping trailing empty lines
func joinTrimmed(lines []string) string {
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}
