package domain

// SourceLocation is a file/line reference extracted from a failure message
type SourceLocation struct {
	Path string `json:"path"` // Path as reported by the test executable
	File string `json:"file"` // Final path element
	Line string `json:"line"` // Line indicator, verbatim
}

// TestFailure represents a failed test case
type TestFailure struct {
	TestName        string           `json:"test_name"`
	Executable      string           `json:"executable"`
	Outcome         Outcome          `json:"outcome"`
	ErrorMessage    string           `json:"error_message"`
	ErrorStackTrace string           `json:"error_stack_trace"`
	Locations       []SourceLocation `json:"locations,omitempty"`
	Output          string           `json:"output,omitempty"`
	DurationMs      int64            `json:"duration_ms"`
	Resolved        bool             `json:"resolved,omitempty"` // Track if test case is marked as resolved
}

// String formats the location as it appears in an error stack trace
func (l SourceLocation) String() string {
	return l.File + ":" + l.Line
}
