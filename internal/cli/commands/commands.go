package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"gtp/internal/cli"
	"gtp/internal/config"
	"gtp/internal/discovery"
	"gtp/internal/execution"
	"gtp/internal/logging"
	"gtp/internal/parser"
	"gtp/internal/storage"
	"gtp/internal/ui"
)

// Commands holds all CLI commands
type Commands struct {
	flags  *cli.Flags
	logger *zap.Logger

	Run    *RunCommand
	List   *ListCommand
	Faills *FaillsCommand
	Parse  *ParseCommand
	Export *ExportCommand
}

// NewCommands creates the command set. Dependencies are built once flags are parsed.
func NewCommands(flags *cli.Flags) *Commands {
	return &Commands{flags: flags}
}

// Init loads the configuration, builds the logger and wires all dependencies
func (c *Commands) Init() error {
	logger, err := logging.New(c.flags.Verbose, c.flags.LogFile)
	if err != nil {
		return err
	}
	c.logger = logger

	cfg, err := config.Load(c.flags.Project, c.flags.ToConfigFlags())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger.Debug("Configuration loaded",
		zap.String("project", cfg.ProjectPath),
		zap.Int("processors", cfg.Processors),
		zap.Duration("timeout", cfg.Timeout))

	scanner, err := discovery.NewScanner(cfg.PathsToIgnore, cfg.TestDiscoveryRegex, cfg.VerifyGoogleTest, logger)
	if err != nil {
		return err
	}
	lister, err := discovery.NewLister(cfg, logger)
	if err != nil {
		return err
	}
	filter := discovery.NewFilter()
	runner := execution.NewRunner(cfg, logger)
	scheduler := execution.NewRoundRobinScheduler()
	gtestParser := parser.NewGoogleTestParser()
	executor := execution.NewWorkerPool(cfg, runner, gtestParser, logger)
	jsonStorage := storage.NewJSONStorage(cfg, gtestParser)
	exporter := storage.NewMySQLExporter(cfg, logger)
	formatter := ui.NewFormatter(cfg, nil)
	errorViewer := ui.NewErrorViewer(jsonStorage, logger)

	c.Run = NewRunCommand(cfg, scanner, lister, filter, scheduler, executor, gtestParser, jsonStorage, exporter, formatter, errorViewer, logger)
	c.List = NewListCommand(cfg, scanner, lister, filter, formatter, jsonStorage)
	c.Faills = NewFaillsCommand(jsonStorage, errorViewer)
	c.Parse = NewParseCommand(cfg, parser.NewErrorMessageParser(), formatter)
	c.Export = NewExportCommand(jsonStorage, exporter)
	return nil
}

// Sync flushes the logger
func (c *Commands) Sync() {
	if c.logger != nil {
		_ = c.logger.Sync()
	}
}

// Register registers all commands with cobra
func (c *Commands) Register(rootCmd *cobra.Command) {
	flags := c.flags

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return c.Init()
	}
	rootCmd.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		c.Sync()
	}
	rootCmd.PersistentFlags().StringVar(&flags.Project, "project", "", "Project root (defaults to the current directory)")
	rootCmd.PersistentFlags().BoolVarP(&flags.Verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flags.LogFile, "log-file", "", "Also write logs as JSON to this file")

	// Run command
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run GoogleTest executables in parallel",
		Long:  "Discover and execute GoogleTest executables using parallel workers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.Run.Execute(cmd, args)
		},
	}
	runCmd.Flags().IntVarP(&flags.Processors, "processors", "p", 0, "Number of processors to use (default from config)")
	runCmd.Flags().StringVarP(&flags.TestPath, "test-path", "t", "", "Path to the folder where test detection should start")
	runCmd.Flags().StringVarP(&flags.NameFilter, "filter", "f", "", "Filter executables by name pattern (supports wildcards, e.g., '*math_tests' or '*Parser*')")
	runCmd.Flags().BoolVar(&flags.FailFast, "fail-fast", false, "Stop on first failed job")
	runCmd.Flags().BoolVar(&flags.OnlyFailed, "failed", false, "Run only test cases that failed in the last run")
	runCmd.Flags().BoolVar(&flags.Split, "split", false, "Split the test cases of each executable over all workers")
	runCmd.Flags().IntVar(&flags.Repetitions, "repeat", 0, "Repeat each test N times (-1 repeats forever)")
	runCmd.Flags().BoolVar(&flags.Shuffle, "shuffle", false, "Shuffle test order")
	runCmd.Flags().BoolVar(&flags.AlsoDisabled, "also-run-disabled", false, "Also run DISABLED_ tests")
	runCmd.Flags().DurationVar(&flags.Timeout, "timeout", 0, "Timeout per job, e.g. 90s (default from config)")
	runCmd.Flags().BoolVar(&flags.ExportDB, "export-db", false, "Export the run to MySQL when it finishes")
	runCmd.Flags().BoolVar(&flags.OpenFaills, "open-faills", false, "Open the faills viewer when the run finishes with failures")
	rootCmd.AddCommand(runCmd)

	// List command
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List discovered test executables",
		Long:  "Scan and list all GoogleTest executables without executing them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.List.Execute(cmd, args)
		},
	}
	listCmd.Flags().StringVarP(&flags.NameFilter, "filter", "f", "", "Filter executables by name pattern (supports wildcards, e.g., '*math_tests' or '*Parser*')")
	listCmd.Flags().StringVarP(&flags.TestPath, "test-path", "t", "", "Path to the folder where test detection should start")
	listCmd.Flags().BoolVarP(&flags.TestCases, "test-cases", "c", false, "List test cases and their traits")
	listCmd.Flags().BoolVar(&flags.AlsoDisabled, "also-run-disabled", false, "Include DISABLED_ tests")
	rootCmd.AddCommand(listCmd)

	// Faills command
	faillsCmd := &cobra.Command{
		Use:   "faills",
		Short: "View test failures interactively",
		Long:  "Display test failures from the last test run in an interactive viewer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.Faills.Execute(cmd, args)
		},
	}
	rootCmd.AddCommand(faillsCmd)

	// Parse command
	parseCmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Parse a GoogleTest failure output",
		Long:  "Split raw failure output (from a file or stdin) into an error message and an error stack trace",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.Parse.Execute(cmd, args)
		},
	}
	parseCmd.Flags().BoolVar(&flags.JSON, "json", false, "Print the result as JSON")
	rootCmd.AddCommand(parseCmd)

	// Export command
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export the last run to MySQL",
		Long:  "Write the last stored test run and its failures into the configured MySQL database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.Export.Execute(cmd, args)
		},
	}
	rootCmd.AddCommand(exportCmd)
}
