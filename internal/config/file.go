package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// fileConfig mirrors .gtp.yaml; pointers tell unset keys from zero values
type fileConfig struct {
	TestPath           string           `yaml:"test_path"`
	OutputDir          string           `yaml:"output_dir"`
	Processors         int              `yaml:"processors"`
	TestDiscoveryRegex string           `yaml:"test_discovery_regex"`
	VerifyGoogleTest   *bool            `yaml:"verify_google_test"`
	PathsToIgnore      []string         `yaml:"paths_to_ignore"`
	RunDisabledTests   *bool            `yaml:"run_disabled_tests"`
	Repetitions        int              `yaml:"repetitions"`
	ShuffleTests       *bool            `yaml:"shuffle_tests"`
	PrintTestOutput    *bool            `yaml:"print_test_output"`
	PathExtension      string           `yaml:"path_extension"`
	AdditionalArgs     []string         `yaml:"additional_args"`
	Timeout            string           `yaml:"timeout"`
	Traits             []RegexTraitPair `yaml:"traits"`
	TraitsRegexes      string           `yaml:"traits_regexes"`
	Database           struct {
		Host     string `yaml:"host"`
		Port     string `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Name     string `yaml:"name"`
	} `yaml:"database"`
}

// LoadFile applies the settings of a project config file. A missing file is not an error.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return c.apply(fc)
}

func (c *Config) apply(fc fileConfig) error {
	setString(&c.TestPath, fc.TestPath)
	setString(&c.OutputJSONDir, fc.OutputDir)
	setString(&c.TestDiscoveryRegex, fc.TestDiscoveryRegex)
	setString(&c.PathExtension, fc.PathExtension)
	setBool(&c.VerifyGoogleTest, fc.VerifyGoogleTest)
	setBool(&c.RunDisabledTests, fc.RunDisabledTests)
	setBool(&c.ShuffleTests, fc.ShuffleTests)
	setBool(&c.PrintTestOutput, fc.PrintTestOutput)

	if fc.Processors != 0 {
		c.Processors = fc.Processors
	}
	if fc.Repetitions != 0 {
		c.Repetitions = fc.Repetitions
	}
	if len(fc.PathsToIgnore) > 0 {
		c.PathsToIgnore = fc.PathsToIgnore
	}
	if len(fc.AdditionalArgs) > 0 {
		c.AdditionalArgs = fc.AdditionalArgs
	}
	if fc.Timeout != "" {
		timeout, err := time.ParseDuration(fc.Timeout)
		if err != nil {
			return fmt.Errorf("parse timeout %q: %w", fc.Timeout, err)
		}
		c.Timeout = timeout
	}

	c.TraitsRegexes = append(c.TraitsRegexes, fc.Traits...)
	if fc.TraitsRegexes != "" {
		pairs, err := ParseTraitsRegexes(fc.TraitsRegexes, false)
		if err != nil {
			return err
		}
		c.TraitsRegexes = append(c.TraitsRegexes, pairs...)
	}

	setString(&c.Database.Host, fc.Database.Host)
	setString(&c.Database.Port, fc.Database.Port)
	setString(&c.Database.User, fc.Database.User)
	setString(&c.Database.Password, fc.Database.Password)
	setString(&c.Database.Name, fc.Database.Name)
	return nil
}

func setString(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}

func setBool(dst *bool, value *bool) {
	if value != nil {
		*dst = *value
	}
}
