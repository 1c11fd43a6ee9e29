package config

import (
	"fmt"
	"net"
	"path/filepath"
	"time"
)

// Config holds all configuration for the application
type Config struct {
	// Project settings
	ProjectPath string
	TestPath    string

	// Output settings
	OutputJSONFile string
	OutputJSONDir  string

	// Execution settings
	Processors       int
	RunDisabledTests bool
	Repetitions      int
	ShuffleTests     bool
	PrintTestOutput  bool
	PathExtension    string
	AdditionalArgs   []string
	Timeout          time.Duration

	// Discovery settings
	TestDiscoveryRegex string
	VerifyGoogleTest   bool
	TraitsRegexes      []RegexTraitPair

	// Paths to ignore when scanning
	PathsToIgnore []string

	// Export settings
	Database Database

	// Command flags
	Flags Flags
}

// Database holds the MySQL connection settings used by the exporter
type Database struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

// Flags holds command-line flags
type Flags struct {
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
	Verbose      bool
	LogFile      string
	JSON         bool
}

// New creates a new Config with defaults
func New() *Config {
	cfg := &Config{
		ProjectPath:        DefaultProjectPath,
		TestPath:           DefaultTestPath,
		OutputJSONFile:     DefaultOutputJSONFile,
		OutputJSONDir:      DefaultOutputJSONDir,
		Processors:         DefaultProcessors,
		Repetitions:        DefaultRepetitions,
		Timeout:            DefaultTimeout,
		TestDiscoveryRegex: DefaultTestDiscoveryRegex,
		Database: Database{
			Host: DefaultDBHost,
			Port: DefaultDBPort,
			User: DefaultDBUser,
			Name: DefaultDBName,
		},
		Flags: Flags{Processors: DefaultProcessors},
	}
	// Copy default paths to ignore
	cfg.PathsToIgnore = make([]string, len(DefaultPathsToIgnore))
	copy(cfg.PathsToIgnore, DefaultPathsToIgnore)
	return cfg
}

// Load creates a config for the project, layering the project file and the
// environment over the defaults, and applies flags last
func Load(projectPath string, flags Flags) (*Config, error) {
	cfg := New()
	if projectPath != "" {
		cfg.ProjectPath = projectPath
	}

	if err := cfg.LoadFile(filepath.Join(cfg.ProjectPath, DefaultConfigFile)); err != nil {
		return nil, err
	}
	if err := cfg.LoadEnv(); err != nil {
		return nil, err
	}
	cfg.ApplyFlags(flags)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyFlags stores the flags and applies the ones overriding settings
func (c *Config) ApplyFlags(flags Flags) {
	c.Flags = flags

	if flags.Processors > 0 {
		c.Processors = flags.Processors
	}
	if flags.Repetitions != 0 {
		c.Repetitions = flags.Repetitions
	}
	if flags.Shuffle {
		c.ShuffleTests = true
	}
	if flags.AlsoDisabled {
		c.RunDisabledTests = true
	}
	if flags.Timeout > 0 {
		c.Timeout = flags.Timeout
	}
}

// Validate reports settings the run cannot work with
func (c *Config) Validate() error {
	if c.Processors < 1 {
		return fmt.Errorf("processors must be at least 1, got %d", c.Processors)
	}
	if c.Repetitions < 1 && c.Repetitions != -1 {
		return fmt.Errorf("repetitions must be at least 1 or -1 (forever), got %d", c.Repetitions)
	}
	if err := ValidateRegex(c.TestDiscoveryRegex); err != nil {
		return err
	}
	for _, pair := range c.TraitsRegexes {
		if err := ValidateRegex(pair.Regex); err != nil {
			return err
		}
	}
	return nil
}

// GetTestPath returns the test path, using flag if provided
func (c *Config) GetTestPath() string {
	if c.Flags.TestPath != "" {
		// If TestPath is provided, make it relative to ProjectPath if it's not absolute
		if filepath.IsAbs(c.Flags.TestPath) {
			return c.Flags.TestPath
		}
		return filepath.Join(c.ProjectPath, c.Flags.TestPath)
	}

	// Default: combine project path and test path
	return filepath.Join(c.ProjectPath, c.TestPath)
}

// GetOutputPath returns the full path to the output JSON file (under project so run and faills use the same file).
// Resolves to an absolute path so run and faills always read/write the same file regardless of cwd.
func (c *Config) GetOutputPath() string {
	p := filepath.Join(c.ProjectPath, c.OutputJSONDir, c.OutputJSONFile)
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

// GetServerDSN returns the MySQL DSN for the server, without selecting a database
func (c *Config) GetServerDSN() string {
	db := c.Database
	return fmt.Sprintf("%s:%s@tcp(%s)/?parseTime=true", db.User, db.Password, net.JoinHostPort(db.Host, db.Port))
}

// GetDatabaseDSN returns the MySQL DSN for the results database
func (c *Config) GetDatabaseDSN() string {
	db := c.Database
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true", db.User, db.Password, net.JoinHostPort(db.Host, db.Port), db.Name)
}
