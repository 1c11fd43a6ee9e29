package domain

// Test is a unit of work for the worker pool: one GoogleTest executable,
// optionally narrowed down with a --gtest_filter expression
type Test struct {
	Path     string // Full path to the test executable
	FileName string // Just the filename
	Filter   string // Value for --gtest_filter, empty runs everything
}

// Label returns a short display name for the job
func (t Test) Label() string {
	if t.Filter == "" {
		return t.FileName
	}
	return t.FileName + " [" + t.Filter + "]"
}

// Trait is a name/value pair attached to a test case
type Trait struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// TestCase represents a single test case within a test executable
type TestCase struct {
	Suite      string  // Test suite name, e.g. "FooTest" or "Inst/ParamTest"
	Name       string  // Test name within the suite
	FullName   string  // Suite.Name, the value accepted by --gtest_filter
	Param      string  // Value-parameterized / typed test description, if any
	Executable string  // Path to the executable containing this case
	Traits     []Trait // Traits assigned from the configured trait regexes
}
