package cli

import (
	"time"

	"gtp/internal/config"
)

// Flags holds command-line flags
type Flags struct {
	Project      string
	Verbose      bool
	LogFile      string
	Processors   int
	TestPath     string
	NameFilter   string
	TestCases    bool
	FailFast     bool
	OnlyFailed   bool
	Split        bool
	OpenFaills   bool
	ExportDB     bool
	Repetitions  int
	Shuffle      bool
	AlsoDisabled bool
	Timeout      time.Duration
	JSON         bool
}

// ToConfigFlags converts CLI flags to config flags
func (f *Flags) ToConfigFlags() config.Flags {
	return config.Flags{
		Processors:   f.Processors,
		TestPath:     f.TestPath,
		NameFilter:   f.NameFilter,
		TestCases:    f.TestCases,
		FailFast:     f.FailFast,
		OnlyFailed:   f.OnlyFailed,
		Split:        f.Split,
		OpenFaills:   f.OpenFaills,
		ExportDB:     f.ExportDB,
		Repetitions:  f.Repetitions,
		Shuffle:      f.Shuffle,
		AlsoDisabled: f.AlsoDisabled,
		Timeout:      f.Timeout,
		Verbose:      f.Verbose,
		LogFile:      f.LogFile,
		JSON:         f.JSON,
	}
}
