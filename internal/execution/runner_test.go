package execution

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gtp/internal/config"
)

func TestRunner_Args(t *testing.T) {
	cfg := config.New()
	runner := NewRunner(cfg, nil)

	assert.Empty(t, runner.Args(NewTest("/build/a_tests", "")))

	cfg.RunDisabledTests = true
	cfg.Repetitions = 3
	cfg.ShuffleTests = true
	cfg.AdditionalArgs = []string{"--gtest_break_on_failure=0"}

	assert.Equal(t, []string{
		"--gtest_filter=A.B:A.C",
		"--gtest_also_run_disabled_tests",
		"--gtest_repeat=3",
		"--gtest_shuffle",
		"--gtest_break_on_failure=0",
	}, runner.Args(NewTest("/build/a_tests", "A.B:A.C")))
}

func writeScript(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not executable on windows")
	}
	path := filepath.Join(t.TempDir(), "fake_tests")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0755))
	return path
}

func TestRunner_Run(t *testing.T) {
	t.Run("captures output and worker id", func(t *testing.T) {
		path := writeScript(t, "echo \"worker $GTP_WORKER_ID args $*\"\nexit 0\n")
		runner := NewRunner(config.New(), nil)

		result := runner.Run(context.Background(), NewTest(path, "A.B"), 3)

		assert.True(t, result.Success)
		assert.NoError(t, result.Error)
		assert.Equal(t, "worker 3 args --gtest_filter=A.B", strings.TrimSpace(result.Output))
		assert.Equal(t, 3, result.WorkerID)
	})

	t.Run("non-zero exit is a failure", func(t *testing.T) {
		path := writeScript(t, "echo boom >&2\nexit 1\n")
		runner := NewRunner(config.New(), nil)

		result := runner.Run(context.Background(), NewTest(path, ""), 1)

		assert.False(t, result.Success)
		assert.Error(t, result.Error)
		assert.Contains(t, result.Output, "boom")
	})

	t.Run("times out", func(t *testing.T) {
		path := writeScript(t, "exec sleep 5\n")
		cfg := config.New()
		cfg.Timeout = 50 * time.Millisecond
		runner := NewRunner(cfg, nil)

		result := runner.Run(context.Background(), NewTest(path, ""), 1)

		assert.False(t, result.Success)
		require.Error(t, result.Error)
		assert.Contains(t, result.Error.Error(), "timed out")
	})

	t.Run("missing executable", func(t *testing.T) {
		runner := NewRunner(config.New(), nil)

		result := runner.Run(context.Background(), NewTest("/non/existent/a_tests", ""), 1)

		assert.False(t, result.Success)
		assert.Error(t, result.Error)
	})
}
