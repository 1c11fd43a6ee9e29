package discovery

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"gtp/internal/config"
	"gtp/internal/domain"
)

const disabledPrefix = "DISABLED_"

var (
	// FooTest.
	// TypedTest/0.  # TypeParam = int
	suiteLinePattern = regexp.MustCompile(`^(\S+)\.(?:\s+#\s*(.*))?$`)
	// "  Bar" or "  Works/0  # GetParam() = 1"
	testLinePattern = regexp.MustCompile(`^\s+(\S+)(?:\s+#\s*(.*))?$`)
)

type traitMatcher struct {
	pattern *regexp.Regexp
	trait   domain.Trait
}

// Lister asks test executables for their test cases
type Lister struct {
	config *config.Config
	traits []traitMatcher
	logger *zap.Logger
}

// NewLister creates a new Lister
func NewLister(cfg *config.Config, logger *zap.Logger) (*Lister, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	l := &Lister{config: cfg, logger: logger}
	for _, pair := range cfg.TraitsRegexes {
		pattern, err := regexp.Compile(pair.Regex)
		if err != nil {
			return nil, fmt.Errorf("invalid trait regex '%s': %w", pair.Regex, err)
		}
		l.traits = append(l.traits, traitMatcher{
			pattern: pattern,
			trait:   domain.Trait{Name: pair.Name, Value: pair.Value},
		})
	}
	return l, nil
}

// ListTestCases runs the executable with --gtest_list_tests and parses the listing
func (l *Lister) ListTestCases(ctx context.Context, executable string) ([]domain.TestCase, error) {
	cmd := exec.CommandContext(ctx, executable, "--gtest_list_tests")
	cmd.Dir = filepath.Dir(executable)
	cmd.Env = l.config.Environ()

	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("list tests of %s: %w", executable, err)
	}

	cases := l.ParseTestList(executable, string(output))
	l.logger.Debug("Listed test cases", zap.String("executable", executable), zap.Int("count", len(cases)))
	return cases, nil
}

// ListAll lists the test cases of all executables, running up to Processors listings at once.
// The result is keyed by executable path. An executable whose listing fails is logged and
// left out of the result so the others can still be listed; only a cancelled ctx is an error.
func (l *Lister) ListAll(ctx context.Context, executables []string) (map[string][]domain.TestCase, error) {
	results := make([][]domain.TestCase, len(executables))
	listed := make([]bool, len(executables))

	var g errgroup.Group
	g.SetLimit(max(l.config.Processors, 1))
	for i, executable := range executables {
		g.Go(func() error {
			cases, err := l.ListTestCases(ctx, executable)
			if err != nil {
				l.logger.Warn("Skipping executable that could not list its tests",
					zap.String("executable", executable), zap.Error(err))
				return nil
			}
			results[i], listed[i] = cases, true
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	byExecutable := make(map[string][]domain.TestCase, len(executables))
	for i, executable := range executables {
		if listed[i] {
			byExecutable[executable] = results[i]
		}
	}
	return byExecutable, nil
}

// ParseTestList parses --gtest_list_tests output
func (l *Lister) ParseTestList(executable, output string) []domain.TestCase {
	var cases []domain.TestCase
	suite, suiteParam := "", ""

	for _, line := range strings.Split(strings.ReplaceAll(output, "\r\n", "\n"), "\n") {
		if m := suiteLinePattern.FindStringSubmatch(line); m != nil {
			suite, suiteParam = m[1], m[2]
			continue
		}

		m := testLinePattern.FindStringSubmatch(line)
		if m == nil || suite == "" {
			continue
		}

		name := m[1]
		if !l.config.RunDisabledTests && isDisabled(suite, name) {
			continue
		}

		param := m[2]
		if param == "" {
			param = suiteParam
		}
		testCase := domain.TestCase{
			Suite:      suite,
			Name:       name,
			FullName:   suite + "." + name,
			Param:      param,
			Executable: executable,
		}
		testCase.Traits = l.traitsFor(testCase.FullName)
		cases = append(cases, testCase)
	}

	return cases
}

func (l *Lister) traitsFor(fullName string) []domain.Trait {
	var traits []domain.Trait
	for _, t := range l.traits {
		if t.pattern.MatchString(fullName) {
			traits = append(traits, t.trait)
		}
	}
	return traits
}

// isDisabled reports whether GoogleTest skips the test unless asked to run disabled tests.
// A parameterized suite is disabled when any of its path elements is.
func isDisabled(suite, name string) bool {
	if strings.HasPrefix(name, disabledPrefix) {
		return true
	}
	for _, part := range strings.Split(suite, "/") {
		if strings.HasPrefix(part, disabledPrefix) {
			return true
		}
	}
	return false
}
