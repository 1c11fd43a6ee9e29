package parser

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gtp/internal/domain"
)

const sampleOutput = `Running main() from gtest_main.cc
[==========] Running 4 tests from 2 test suites.
[----------] Global test environment set-up.
[----------] 3 tests from MathTest
[ RUN      ] MathTest.Adds
[       OK ] MathTest.Adds (0 ms)
[ RUN      ] MathTest.Divides
/home/ci/src/math_test.cc:21: Failure
Expected equality of these values:
  divide(4, 2)
    Which is: 3
  2
/home/ci/src/math_test.cc:22: Failure
Value of: ok
  Actual: false
Expected: true
[  FAILED  ] MathTest.Divides (3 ms)
[ RUN      ] MathTest.Skips
[  SKIPPED ] MathTest.Skips (0 ms)
[----------] 1 test from Inst/ParamTest
[ RUN      ] Inst/ParamTest.Works/0
/home/ci/src/param_test.cc:9: Failure
Failed
[  FAILED  ] Inst/ParamTest.Works/0, where GetParam() = 1 (1 ms)
[==========] 4 tests from 2 test suites ran. (5 ms total)
[  PASSED  ] 1 test.
[  SKIPPED ] 1 test, listed below:
[  SKIPPED ] MathTest.Skips
[  FAILED  ] 2 tests, listed below:
[  FAILED  ] MathTest.Divides
[  FAILED  ] Inst/ParamTest.Works/0, where GetParam() = 1
`

func TestGoogleTestParser_ParseTestCases(t *testing.T) {
	parser := NewGoogleTestParser()

	cases := parser.ParseTestCases(sampleOutput)

	require.Len(t, cases, 4)
	assert.Equal(t, "MathTest.Adds", cases[0].Name)
	assert.Equal(t, domain.OutcomePassed, cases[0].Outcome)

	assert.Equal(t, "MathTest.Divides", cases[1].Name)
	assert.Equal(t, domain.OutcomeFailed, cases[1].Outcome)
	assert.Equal(t, 3*time.Millisecond, cases[1].Duration)

	assert.Equal(t, domain.OutcomeSkipped, cases[2].Outcome)

	assert.Equal(t, "Inst/ParamTest.Works/0", cases[3].Name)
	assert.Equal(t, domain.OutcomeFailed, cases[3].Outcome)
	assert.Equal(t, time.Millisecond, cases[3].Duration)
	assert.Equal(t, "/home/ci/src/param_test.cc:9: Failure\nFailed", cases[3].Output)
}

func TestGoogleTestParser_ParseFailure(t *testing.T) {
	parser := NewGoogleTestParser()
	result := domain.TestResult{
		Test:   domain.Test{Path: "/build/math_tests", FileName: "math_tests"},
		Output: sampleOutput,
	}

	failures := parser.ParseFailure(result)

	require.Len(t, failures, 2)
	divides := failures[0]
	assert.Equal(t, "MathTest.Divides", divides.TestName)
	assert.Equal(t, "/build/math_tests", divides.Executable)
	assert.Equal(t,
		"#1 - Expected equality of these values:\n  divide(4, 2)\n    Which is: 3\n  2\n"+
			"#2 - Value of: ok\n  Actual: false\nExpected: true",
		divides.ErrorMessage)
	assert.Equal(t, "#1 - math_test.cc:21\n#2 - math_test.cc:22", divides.ErrorStackTrace)
	require.Len(t, divides.Locations, 2)
	assert.Equal(t, "/home/ci/src/math_test.cc", divides.Locations[0].Path)
	assert.Equal(t, int64(3), divides.DurationMs)

	param := failures[1]
	assert.Equal(t, "Failed", param.ErrorMessage)
	assert.Equal(t, "param_test.cc:9", param.ErrorStackTrace)
}

func TestGoogleTestParser_Crash(t *testing.T) {
	parser := NewGoogleTestParser()
	output := "[ RUN      ] CrashTest.Segfaults\n/src/crash_test.cc:5: Failure\nabout to crash\n"

	t.Run("unfinished test is crashed", func(t *testing.T) {
		cases := parser.ParseTestCases(output)
		require.Len(t, cases, 1)
		assert.Equal(t, domain.OutcomeCrashed, cases[0].Outcome)
	})

	t.Run("crash marker precedes the message", func(t *testing.T) {
		failures := parser.ParseFailure(domain.TestResult{Output: output})
		require.Len(t, failures, 1)
		assert.Equal(t, CrashedMarker+"\nabout to crash", failures[0].ErrorMessage)
		assert.Equal(t, "crash_test.cc:5", failures[0].ErrorStackTrace)
	})

	t.Run("next test starting ends the crashed one", func(t *testing.T) {
		cases := parser.ParseTestCases("[ RUN      ] A.B\n[ RUN      ] A.C\n[       OK ] A.C (0 ms)\n")
		require.Len(t, cases, 2)
		assert.Equal(t, domain.OutcomeCrashed, cases[0].Outcome)
		assert.Equal(t, domain.OutcomePassed, cases[1].Outcome)
	})
}

func TestGoogleTestParser_ExecutableFailedWithoutTests(t *testing.T) {
	parser := NewGoogleTestParser()

	t.Run("output becomes the message", func(t *testing.T) {
		failures := parser.ParseFailure(domain.TestResult{
			Test:   domain.Test{Path: "/build/broken_tests", FileName: "broken_tests"},
			Output: "error while loading shared libraries: libfoo.so\n",
		})
		require.Len(t, failures, 1)
		assert.Equal(t, "broken_tests", failures[0].TestName)
		assert.Equal(t, domain.OutcomeCrashed, failures[0].Outcome)
		assert.Equal(t, CrashedMarker+"\nerror while loading shared libraries: libfoo.so", failures[0].ErrorMessage)
	})

	t.Run("start error is used without output", func(t *testing.T) {
		failures := parser.ParseFailure(domain.TestResult{
			Test:  domain.Test{Path: "/build/missing", FileName: "missing"},
			Error: errors.New("exec: no such file"),
		})
		require.Len(t, failures, 1)
		assert.Contains(t, failures[0].ErrorMessage, "exec: no such file")
	})

	t.Run("successful run has no failures", func(t *testing.T) {
		assert.Empty(t, parser.ParseFailure(domain.TestResult{Success: true, Output: "nothing"}))
	})
}

func TestGoogleTestParser_ParseTestCounts(t *testing.T) {
	parser := NewGoogleTestParser()

	tests := []struct {
		name           string
		result         domain.TestResult
		passed, failed int
	}{
		{"counts cases", domain.TestResult{Output: sampleOutput}, 1, 2},
		{"fallback success", domain.TestResult{Success: true}, 1, 0},
		{"fallback failure", domain.TestResult{Success: false}, 0, 1},
		{"colored output", domain.TestResult{Output: "\x1b[0;32m[ RUN      ] \x1b[mA.B\n\x1b[0;32m[       OK ] \x1b[mA.B (0 ms)\n"}, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			passed, failed := parser.ParseTestCounts(tt.result)
			assert.Equal(t, tt.passed, passed)
			assert.Equal(t, tt.failed, failed)
		})
	}
}
