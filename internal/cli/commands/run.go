package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"gtp/internal/config"
	"gtp/internal/discovery"
	"gtp/internal/domain"
	"gtp/internal/execution"
	"gtp/internal/parser"
	"gtp/internal/storage"
	"gtp/internal/ui"
)

// RunCommand handles the run command
type RunCommand struct {
	config    *config.Config
	scanner   *discovery.Scanner
	lister    *discovery.Lister
	filter    *discovery.Filter
	scheduler execution.Scheduler
	executor  *execution.WorkerPool
	parser    parser.Parser
	storage   storage.Storage
	exporter  Exporter
	formatter *ui.Formatter
	viewer    ui.Viewer
	logger    *zap.Logger
}

// NewRunCommand creates a new RunCommand
func NewRunCommand(
	cfg *config.Config,
	scanner *discovery.Scanner,
	lister *discovery.Lister,
	filter *discovery.Filter,
	scheduler execution.Scheduler,
	executor *execution.WorkerPool,
	testParser parser.Parser,
	st storage.Storage,
	exporter Exporter,
	formatter *ui.Formatter,
	viewer ui.Viewer,
	logger *zap.Logger,
) *RunCommand {
	return &RunCommand{
		config:    cfg,
		scanner:   scanner,
		lister:    lister,
		filter:    filter,
		scheduler: scheduler,
		executor:  executor,
		parser:    testParser,
		storage:   st,
		exporter:  exporter,
		formatter: formatter,
		viewer:    viewer,
		logger:    logger,
	}
}

// Execute runs the command
func (rc *RunCommand) Execute(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	// Discover tests
	executables, err := rc.scanner.Scan(rc.config.GetTestPath())
	if err != nil {
		return err
	}
	executables = rc.filter.FilterByName(executables, rc.config.Flags.NameFilter)
	rc.logger.Debug("Discovered test executables", zap.Int("count", len(executables)))

	if len(executables) == 0 {
		color.Yellow("No tests to execute")
		return nil
	}

	jobs, err := rc.jobs(cmd, executables)
	if err != nil {
		return err
	}
	if len(jobs) == 0 {
		color.Yellow("No tests to execute")
		return nil
	}

	// Create and set progress bar
	progressBar := ui.NewProgressBar(len(jobs))
	rc.executor.SetProgress(progressBar)

	results, duration, err := rc.executor.ExecuteWithOptions(ctx, jobs, rc.config.Flags.FailFast)
	if err != nil {
		// Interrupted: keep what finished so faills still works
		rc.logger.Warn("Test run interrupted", zap.Error(err), zap.Int("completed", len(results)))
	}

	// Parse failures
	var failures []domain.TestFailure
	for _, result := range results {
		failures = append(failures, rc.parser.ParseFailure(result)...)
	}

	// Save results
	output, saveErr := rc.storage.Save(results, failures, duration, rc.config.Processors)
	if saveErr != nil {
		return fmt.Errorf("failed to save test results: %w", saveErr)
	}
	if err != nil {
		return err
	}

	if rc.config.PrintTestOutput {
		rc.formatter.PrintJobOutputs(results)
	}

	// Print stats
	rc.formatter.PrintMetaStats(output)

	if rc.config.Flags.ExportDB {
		if err := rc.exporter.Export(ctx, output); err != nil {
			return fmt.Errorf("failed to export test results: %w", err)
		}
	}

	if rc.config.Flags.OpenFaills && len(failures) > 0 {
		return rc.viewer.View(output)
	}
	return nil
}

// jobs builds the jobs for this run from the discovered executables
func (rc *RunCommand) jobs(cmd *cobra.Command, executables []string) ([]domain.Test, error) {
	switch {
	case rc.config.Flags.OnlyFailed:
		lastRun, err := rc.storage.Load()
		if err != nil {
			return nil, fmt.Errorf("no previous run to rerun failures from: %w", err)
		}
		return failedJobs(lastRun, executables), nil

	case rc.config.Flags.Split:
		cases, err := rc.lister.ListAll(cmd.Context(), executables)
		if err != nil {
			return nil, err
		}
		return splitJobs(rc.scheduler, executables, cases, rc.config.Processors), nil

	default:
		return wholeExecutableJobs(executables), nil
	}
}
