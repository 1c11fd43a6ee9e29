package commands

import (
	"context"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"gtp/internal/domain"
	"gtp/internal/storage"
)

// Exporter writes a stored run somewhere outside the project
type Exporter interface {
	Export(ctx context.Context, output *domain.TestResultsOutput) error
}

// ExportCommand handles the export command
type ExportCommand struct {
	storage  storage.Storage
	exporter Exporter
}

// NewExportCommand creates a new ExportCommand
func NewExportCommand(st storage.Storage, exporter Exporter) *ExportCommand {
	return &ExportCommand{
		storage:  st,
		exporter: exporter,
	}
}

// Execute runs the command
func (ec *ExportCommand) Execute(cmd *cobra.Command, args []string) error {
	results, err := ec.storage.Load()
	if err != nil {
		return err
	}

	if err := ec.exporter.Export(cmd.Context(), results); err != nil {
		return err
	}
	color.Green("✓ Exported run %s (%d failure(s))", results.Meta.RunID, len(results.Details))
	return nil
}
