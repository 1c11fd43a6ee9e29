package config

import "time"

const (
	// DefaultProjectPath is the default project path
	DefaultProjectPath = "."
	// DefaultTestPath is the default test path
	DefaultTestPath = "."
	// DefaultOutputJSONFile is the default output JSON file name
	DefaultOutputJSONFile = "test-results.json"
	// DefaultOutputJSONDir is the default output directory
	DefaultOutputJSONDir = ".gtp"
	// DefaultProcessors is the default number of processors
	DefaultProcessors = 4
	// DefaultTestDiscoveryRegex matches executables named like foo_test, FooTests or foo_tests.exe
	DefaultTestDiscoveryRegex = `(?i)tests?(\.exe)?$`
	// DefaultRepetitions runs every test once
	DefaultRepetitions = 1
	// DefaultTimeout is the per-job timeout, zero disables it
	DefaultTimeout = 10 * time.Minute
	// DefaultConfigFile is the project config file looked up in the project path
	DefaultConfigFile = ".gtp.yaml"

	// DefaultDBHost is the default MySQL host for exports
	DefaultDBHost = "127.0.0.1"
	// DefaultDBPort is the default MySQL port for exports
	DefaultDBPort = "3306"
	// DefaultDBUser is the default MySQL user for exports
	DefaultDBUser = "root"
	// DefaultDBName is the default MySQL database for exports
	DefaultDBName = "gtp_results"
)

// DefaultPathsToIgnore are the default directories to ignore when scanning for tests
var DefaultPathsToIgnore = []string{
	"CMakeFiles",
	"_deps",
	"third_party",
	"node_modules",
	"vendor",
	".gtp",
}
