package discovery

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"go.uber.org/zap"
)

// GoogleTestMarker is embedded in every executable linked against GoogleTest
const GoogleTestMarker = "This program contains tests written using Google Test. You can use the"

// Scanner scans for test executables in a directory
type Scanner struct {
	skipDirs map[string]bool
	pattern  *regexp.Regexp
	verify   bool
	logger   *zap.Logger
}

// NewScanner creates a new Scanner with the given directories to skip, keeping files
// whose name matches the discovery regex
func NewScanner(skipDirs []string, discoveryRegex string, verify bool, logger *zap.Logger) (*Scanner, error) {
	pattern, err := regexp.Compile(discoveryRegex)
	if err != nil {
		return nil, fmt.Errorf("invalid test discovery regex '%s': %w", discoveryRegex, err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	skipMap := make(map[string]bool)
	for _, dir := range skipDirs {
		skipMap[dir] = true
	}
	return &Scanner{skipDirs: skipMap, pattern: pattern, verify: verify, logger: logger}, nil
}

// Scan finds all test executables in the given root directory
func (s *Scanner) Scan(root string) ([]string, error) {
	var executables []string

	// Clean and validate the root path
	root = filepath.Clean(root)
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("test path does not exist: %s", root)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("test path is not a directory: %s", root)
	}

	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			name := d.Name()
			// Skip hidden directories (starting with .)
			if strings.HasPrefix(name, ".") && name != "." && name != ".." {
				return filepath.SkipDir
			}
			if s.skipDirs[name] {
				return filepath.SkipDir
			}
			return nil
		}

		if !s.pattern.MatchString(d.Name()) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		if !isExecutable(d.Name(), info.Mode()) {
			return nil
		}

		if s.verify {
			ok, err := ContainsStrings(path, GoogleTestMarker)
			if err != nil {
				return err
			}
			if !ok {
				s.logger.Debug("Skipping executable without GoogleTest marker", zap.String("path", path))
				return nil
			}
		}

		executables = append(executables, path)
		return nil
	})

	return executables, err
}

func isExecutable(name string, mode os.FileMode) bool {
	if !mode.IsRegular() {
		return false
	}
	if runtime.GOOS == "windows" {
		return strings.EqualFold(filepath.Ext(name), ".exe")
	}
	return mode.Perm()&0111 != 0
}

// ContainsStrings reports whether the file contains every one of the given strings
func ContainsStrings(path string, values ...string) (bool, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("error reading file %s: %w", path, err)
	}
	for _, v := range values {
		if !bytes.Contains(content, []byte(v)) {
			return false, nil
		}
	}
	return true, nil
}
