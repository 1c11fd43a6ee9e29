package commands

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"gtp/internal/config"
	"gtp/internal/discovery"
	"gtp/internal/domain"
	"gtp/internal/storage"
	"gtp/internal/ui"
)

// ListCommand handles the list command
type ListCommand struct {
	config    *config.Config
	scanner   *discovery.Scanner
	lister    *discovery.Lister
	filter    *discovery.Filter
	formatter *ui.Formatter
	storage   storage.Storage
}

// NewListCommand creates a new ListCommand
func NewListCommand(
	cfg *config.Config,
	scanner *discovery.Scanner,
	lister *discovery.Lister,
	filter *discovery.Filter,
	formatter *ui.Formatter,
	st storage.Storage,
) *ListCommand {
	return &ListCommand{
		config:    cfg,
		scanner:   scanner,
		lister:    lister,
		filter:    filter,
		formatter: formatter,
		storage:   st,
	}
}

// Execute runs the command
func (lc *ListCommand) Execute(cmd *cobra.Command, args []string) error {
	executables, err := lc.scanner.Scan(lc.config.GetTestPath())
	if err != nil {
		return err
	}

	// Filter tests
	executables = lc.filter.FilterByName(executables, lc.config.Flags.NameFilter)

	if len(executables) == 0 {
		color.Yellow("No tests found")
		return nil
	}

	var cases map[string][]domain.TestCase
	if lc.config.Flags.TestCases {
		cases, err = lc.lister.ListAll(cmd.Context(), executables)
		if err != nil {
			return err
		}
	}

	// Marks from the last run are optional
	lastRun, err := lc.storage.Load()
	if err != nil {
		lastRun = nil
	}

	lc.formatter.PrintTestList(executables, cases, lastRun)
	return nil
}
