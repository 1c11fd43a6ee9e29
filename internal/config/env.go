package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment variables read by LoadEnv
const (
	EnvProcessors         = "GTP_PROCESSORS"
	EnvTestDiscoveryRegex = "GTP_TEST_DISCOVERY_REGEX"
	EnvPathExtension      = "GTP_PATH_EXTENSION"
	EnvTraitsRegexes      = "GTP_TRAITS_REGEXES"
	EnvDBHost             = "GTP_DB_HOST"
	EnvDBPort             = "GTP_DB_PORT"
	EnvDBUser             = "GTP_DB_USERNAME"
	EnvDBPassword         = "GTP_DB_PASSWORD"
	EnvDBName             = "GTP_DB_DATABASE"
)

// LoadEnv loads the project's .env file, without overriding variables that are
// already set, and applies the GTP_* variables
func (c *Config) LoadEnv() error {
	envPath := filepath.Join(c.ProjectPath, ".env")
	if err := godotenv.Load(envPath); err != nil {
		// .env file might not exist, that's okay - use environment variables
		_ = err
	}

	if v := os.Getenv(EnvProcessors); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse %s: %w", EnvProcessors, err)
		}
		c.Processors = n
	}
	setString(&c.TestDiscoveryRegex, os.Getenv(EnvTestDiscoveryRegex))
	setString(&c.PathExtension, os.Getenv(EnvPathExtension))
	if v := os.Getenv(EnvTraitsRegexes); v != "" {
		pairs, err := ParseTraitsRegexes(v, false)
		if err != nil {
			return fmt.Errorf("parse %s: %w", EnvTraitsRegexes, err)
		}
		c.TraitsRegexes = append(c.TraitsRegexes, pairs...)
	}

	setString(&c.Database.Host, os.Getenv(EnvDBHost))
	setString(&c.Database.Port, os.Getenv(EnvDBPort))
	setString(&c.Database.User, os.Getenv(EnvDBUser))
	setString(&c.Database.Password, os.Getenv(EnvDBPassword))
	setString(&c.Database.Name, os.Getenv(EnvDBName))
	return nil
}

// ExtendedPath returns PATH with the configured path extension in front
func (c *Config) ExtendedPath() string {
	path := os.Getenv("PATH")
	if c.PathExtension == "" {
		return path
	}
	return c.PathExtension + string(os.PathListSeparator) + path
}

// Environ returns the environment test executables are started with
func (c *Config) Environ() []string {
	return append(os.Environ(), "PATH="+c.ExtendedPath())
}
