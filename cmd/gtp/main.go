package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"gtp/internal/cli"
	"gtp/internal/cli/commands"
)

var version = "dev"

func main() {
	// Create root command
	rootCmd := &cobra.Command{
		Use:           "gtp",
		Short:         "Parallel GoogleTest processor",
		Long:          `A parallel runner for GoogleTest executables. Discovers test executables, runs them on parallel workers and turns their failure output into readable error messages and source locations.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Create flags struct (will be populated by command flags)
	var flags cli.Flags

	// Register all commands
	cmds := commands.NewCommands(&flags)
	cmds.Register(rootCmd)

	// Ctrl+C cancels running jobs, results finished so far are still saved
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
