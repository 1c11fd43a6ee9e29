package ui

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
)

// ProgressBar creates and manages progress bars
type ProgressBar struct {
	bar *progressbar.ProgressBar
}

// NewProgressBar creates a new progress bar over count jobs
func NewProgressBar(count int) *ProgressBar {
	bar := progressbar.NewOptions(count,
		progressbar.OptionSetDescription(describe(0, 0)),
		progressbar.OptionSetWidth(50),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        color.CyanString("█"),
			SaucerHead:    color.CyanString("█"),
			SaucerPadding: "░",
			BarStart:      "│",
			BarEnd:        "│",
		}),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(os.Stderr, "\n")
		}),
		progressbar.OptionSetRenderBlankState(true),
	)

	return &ProgressBar{bar: bar}
}

// Update moves the bar to the number of completed jobs and shows test case counts
func (p *ProgressBar) Update(completed, passed, failed int) {
	_ = p.bar.Set(completed)
	p.bar.Describe(describe(passed, failed))
}

// Finish completes the progress bar
func (p *ProgressBar) Finish() {
	_ = p.bar.Finish()
}

func describe(passed, failed int) string {
	return color.CyanString("Running tests: ") +
		color.GreenString("[passed: %d", passed) +
		" | " +
		color.RedString("failed: %d]", failed)
}
