package ui

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"gtp/internal/config"
	"gtp/internal/domain"
	"gtp/internal/parser"
)

// Formatter formats and displays output
type Formatter struct {
	config *config.Config
	out    io.Writer
}

// NewFormatter creates a new Formatter writing to out, or to the colored stdout when out is nil
func NewFormatter(cfg *config.Config, out io.Writer) *Formatter {
	if out == nil {
		out = color.Output
	}
	return &Formatter{
		config: cfg,
		out:    out,
	}
}

var (
	cyan   = color.New(color.FgCyan)
	green  = color.New(color.FgGreen)
	red    = color.New(color.FgRed)
	yellow = color.New(color.FgYellow)
	white  = color.New(color.FgWhite)
)

// PrintMetaStats displays the statistics of a stored run followed by its failures
func (f *Formatter) PrintMetaStats(output *domain.TestResultsOutput) {
	meta := output.Meta

	// Print header
	fmt.Fprint(f.out, "\n")
	cyan.Fprintln(f.out, "╔═══════════════════════════════════════════════════════════════╗")
	cyan.Fprintln(f.out, "║                    Test Execution Statistics                  ║")
	cyan.Fprintln(f.out, "╚═══════════════════════════════════════════════════════════════╝")
	fmt.Fprintln(f.out)

	rows := []struct {
		label string
		value string
		c     *color.Color
	}{
		{"Executables", fmt.Sprint(meta.TotalExecutables), white},
		{"Passed Jobs", fmt.Sprint(meta.PassedJobs), green},
		{"Failed Jobs", fmt.Sprint(meta.FailedJobs), red},
		{"Passed Test Cases", fmt.Sprint(meta.PassedTestCases), green},
		{"Failed Test Cases", fmt.Sprint(meta.FailedTestCases), red},
		{"Skipped Test Cases", fmt.Sprint(meta.SkippedTestCases), yellow},
		{"Duration", fmt.Sprintf("%.2fs", meta.DurationSeconds), white},
		{"Workers", fmt.Sprint(meta.Workers), white},
		{"Timestamp", meta.Timestamp, white},
		{"Run", meta.RunID, white},
	}

	const border = "─────────────────────────────────"
	const valueBorder = "──────────────────────────────────────"
	fmt.Fprintf(f.out, "┌%s┬%s┐\n", border, valueBorder)
	for i, row := range rows {
		fmt.Fprintf(f.out, "│ %-31s │ ", row.label)
		row.c.Fprintf(f.out, "%-36s", row.value)
		fmt.Fprintln(f.out, " │")
		if i < len(rows)-1 {
			fmt.Fprintf(f.out, "├%s┼%s┤\n", border, valueBorder)
		}
	}
	fmt.Fprintf(f.out, "└%s┴%s┘\n", border, valueBorder)

	if len(meta.Executables) > 0 {
		fmt.Fprintln(f.out)
		f.printExecutableTable(meta)
	}

	// Print summary line
	fmt.Fprintln(f.out)
	if meta.FailedJobs == 0 && meta.FailedTestCases == 0 {
		green.Fprintln(f.out, "✓ All tests passed!")
		return
	}
	red.Fprintf(f.out, "✗ %d job(s) failed with %d test case failure(s)\n", meta.FailedJobs, meta.FailedTestCases)
	fmt.Fprintln(f.out)
	f.printFailedTestsTree(output.Details)
}

func (f *Formatter) printExecutableTable(meta domain.TestResultsMeta) {
	t := table.NewWriter()
	t.SetOutputMirror(f.out)
	t.AppendHeader(table.Row{"Executable", "Passed", "Failed", "Skipped", "Time"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Executable", WidthMax: 60, WidthMaxEnforcer: text.WrapSoft},
		{Name: "Passed", Align: text.AlignRight},
		{Name: "Failed", Align: text.AlignRight},
		{Name: "Skipped", Align: text.AlignRight},
		{Name: "Time", Align: text.AlignRight},
	})

	for _, stats := range meta.Executables {
		t.AppendRow(table.Row{
			f.relative(stats.Executable),
			stats.Passed,
			stats.Failed,
			stats.Skipped,
			fmt.Sprintf("%.2fs", stats.Seconds),
		})
	}

	t.AppendFooter(table.Row{
		"TOTAL",
		meta.PassedTestCases,
		meta.FailedTestCases,
		meta.SkippedTestCases,
		fmt.Sprintf("%.2fs", meta.DurationSeconds),
	})
	t.SetStyle(table.StyleLight)
	t.Render()
}

// TreeNode represents a node in the executable tree structure
type TreeNode struct {
	Name     string
	Children map[string]*TreeNode
	Failures []domain.TestFailure
	IsFile   bool
}

// printFailedTestsTree prints failed test cases grouped by executable
func (f *Formatter) printFailedTestsTree(failures []domain.TestFailure) {
	if len(failures) == 0 {
		return
	}

	// Group failures by executable
	fileMap := make(map[string][]domain.TestFailure)
	for _, failure := range failures {
		key := f.relative(failure.Executable)
		fileMap[key] = append(fileMap[key], failure)
	}

	root := &TreeNode{Children: make(map[string]*TreeNode)}
	for filePath, fileFailures := range fileMap {
		parts := strings.Split(filepath.ToSlash(filePath), "/")
		current := root

		for i, part := range parts {
			if part == "" || part == "." {
				continue
			}
			if current.Children[part] == nil {
				current.Children[part] = &TreeNode{
					Name:     part,
					Children: make(map[string]*TreeNode),
					IsFile:   i == len(parts)-1,
				}
			}
			current = current.Children[part]
			if i == len(parts)-1 {
				current.Failures = fileFailures
			}
		}
	}

	f.printTreeNode(root, "")
}

func (f *Formatter) printTreeNode(node *TreeNode, prefix string) {
	// Sort children for consistent output
	keys := make([]string, 0, len(node.Children))
	for key := range node.Children {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for i, key := range keys {
		child := node.Children[key]
		connector, childPrefix := "├── ", prefix+"│   "
		if i == len(keys)-1 {
			connector, childPrefix = "└── ", prefix+"    "
		}

		if child.IsFile {
			yellow.Fprintf(f.out, "%s%s%s\n", prefix, connector, child.Name)
		} else {
			cyan.Fprintf(f.out, "%s%s%s\n", prefix, connector, child.Name)
		}

		for j, failure := range child.Failures {
			caseConnector := "├── "
			if j == len(child.Failures)-1 && len(child.Children) == 0 {
				caseConnector = "└── "
			}
			red.Fprintf(f.out, "%s%s%s", childPrefix, caseConnector, failure.TestName)
			if len(failure.Locations) > 0 {
				fmt.Fprintf(f.out, " (%s)", failure.Locations[0].String())
			}
			if failure.Outcome == domain.OutcomeCrashed {
				fmt.Fprint(f.out, " "+red.Sprint("[crashed]"))
			}
			fmt.Fprintln(f.out)
		}

		f.printTreeNode(child, childPrefix)
	}
}

// relative returns path relative to the project when it lies inside it
func (f *Formatter) relative(path string) string {
	if f.config == nil || f.config.ProjectPath == "" {
		return path
	}
	rel, err := filepath.Rel(f.config.ProjectPath, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return rel
}

// PrintTestList prints a list of test executables, with their test cases when cases is non-nil.
// Executables and test cases that failed in lastRun (if any) are marked with [F].
func (f *Formatter) PrintTestList(executables []string, cases map[string][]domain.TestCase, lastRun *domain.TestResultsOutput) {
	failedExecutables := make(map[string]struct{})
	failedCases := make(map[string]struct{})
	if lastRun != nil {
		for _, failure := range lastRun.Details {
			failedExecutables[failure.Executable] = struct{}{}
			failedCases[failure.Executable+"\x00"+failure.TestName] = struct{}{}
		}
	}
	mark := func(set map[string]struct{}, key string) string {
		if _, ok := set[key]; ok {
			return " " + red.Sprint("[F]")
		}
		return ""
	}

	if cases == nil {
		green.Fprintf(f.out, "Found %d test executable(s):\n\n", len(executables))
	} else {
		green.Fprintf(f.out, "Found %d test executable(s) with test cases:\n\n", len(executables))
	}

	for i, exe := range executables {
		isLastFile := i == len(executables)-1
		connector, childPrefix := "├── ", "│   "
		if isLastFile {
			connector, childPrefix = "└── ", "    "
		}
		cyan.Fprintf(f.out, "%s%s", connector, f.relative(exe))
		fmt.Fprintln(f.out, mark(failedExecutables, exe))

		if cases == nil {
			continue
		}

		testCases := cases[exe]
		if len(testCases) == 0 {
			fmt.Fprintf(f.out, "%s└── %s\n", childPrefix, red.Sprint("(no test cases found)"))
		}
		for j, tc := range testCases {
			caseConnector := "├── "
			if j == len(testCases)-1 {
				caseConnector = "└── "
			}
			fmt.Fprintf(f.out, "%s%s%s%s%s\n", childPrefix, caseConnector,
				yellow.Sprint(tc.FullName), formatTraits(tc.Traits), mark(failedCases, exe+"\x00"+tc.FullName))
		}

		// Add spacing between executables (except for the last one)
		if !isLastFile {
			fmt.Fprintln(f.out)
		}
	}
}

func formatTraits(traits []domain.Trait) string {
	if len(traits) == 0 {
		return ""
	}
	parts := make([]string, 0, len(traits))
	for _, t := range traits {
		parts = append(parts, t.Name+"="+t.Value)
	}
	return " " + white.Sprint("{"+strings.Join(parts, ", ")+"}")
}

// PrintJobOutputs prints the raw console output of every job
func (f *Formatter) PrintJobOutputs(results []domain.TestResult) {
	for _, r := range results {
		status := green.Sprint("passed")
		if !r.Success {
			status = red.Sprint("failed")
		}
		cyan.Fprintf(f.out, "=== %s ", r.Test.Label())
		fmt.Fprintf(f.out, "(%s, worker %d, %s)\n", status, r.WorkerID, r.Duration.Round(time.Millisecond))
		fmt.Fprint(f.out, r.Output)
		if r.Output != "" && !strings.HasSuffix(r.Output, "\n") {
			fmt.Fprintln(f.out)
		}
	}
}

// PrintReport prints the structured form of a single failure output
func (f *Formatter) PrintReport(report parser.ErrorReport) {
	cyan.Fprintln(f.out, "Error message:")
	if report.ErrorMessage == "" {
		fmt.Fprintln(f.out, "(empty)")
	} else {
		fmt.Fprintln(f.out, report.ErrorMessage)
	}

	fmt.Fprintln(f.out)
	cyan.Fprintln(f.out, "Error stack trace:")
	if report.ErrorStackTrace == "" {
		fmt.Fprintln(f.out, "(no source locations)")
		return
	}
	fmt.Fprintln(f.out, report.ErrorStackTrace)

	if locations := report.Locations(); len(locations) > 0 {
		fmt.Fprintln(f.out)
		cyan.Fprintln(f.out, "Source files:")
		for _, loc := range locations {
			fmt.Fprintf(f.out, "  %s:%s\n", loc.Path, loc.Line)
		}
	}
}
