package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"gtp/internal/config"
	"gtp/internal/domain"
	"gtp/internal/parser"
	"gtp/internal/ui"
)

// ParseCommand handles the parse command
type ParseCommand struct {
	config    *config.Config
	parser    *parser.ErrorMessageParser
	formatter *ui.Formatter
}

// NewParseCommand creates a new ParseCommand
func NewParseCommand(cfg *config.Config, messageParser *parser.ErrorMessageParser, formatter *ui.Formatter) *ParseCommand {
	return &ParseCommand{
		config:    cfg,
		parser:    messageParser,
		formatter: formatter,
	}
}

type parsedReport struct {
	ErrorMessage    string                  `json:"error_message"`
	ErrorStackTrace string                  `json:"error_stack_trace"`
	Locations       []domain.SourceLocation `json:"locations"`
}

// Execute runs the command
func (pc *ParseCommand) Execute(cmd *cobra.Command, args []string) error {
	raw, err := pc.read(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}

	report := pc.parser.Parse(raw)

	if pc.config.Flags.JSON {
		locations := report.Locations()
		if locations == nil {
			locations = []domain.SourceLocation{}
		}
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(parsedReport{
			ErrorMessage:    report.ErrorMessage,
			ErrorStackTrace: report.ErrorStackTrace,
			Locations:       locations,
		})
	}

	pc.formatter.PrintReport(report)
	return nil
}

// read returns the raw failure text from the file argument, or stdin without one
func (pc *ParseCommand) read(stdin io.Reader, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return trimFinalNewline(string(data)), nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("read %s: %w", args[0], err)
	}
	return trimFinalNewline(string(data)), nil
}

// trimFinalNewline drops the line break that ends a file or piped input
func trimFinalNewline(s string) string {
	s = strings.TrimSuffix(s, "\n")
	return strings.TrimSuffix(s, "\r")
}
