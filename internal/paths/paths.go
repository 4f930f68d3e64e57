// Package paths resolves configuration directory and database file locations.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// AppName names the per-user configuration directory.
const AppName = "promptkeeper"

// CWD-relative location of the database when nothing overrides it.
const (
	DefaultDataDirName  = "data"
	DefaultDatabaseFile = "prompt-manager.sqlite"
)

// Environment variable names for location overrides. EnvDatabasePathLegacy
// is the unprefixed name older deployments set.
const (
	EnvConfigDir          = "PROMPTKEEPER_CONFIG_DIR"
	EnvDatabasePath       = "PROMPTKEEPER_DATABASE_PATH"
	EnvDatabasePathLegacy = "DATABASE_PATH"
)

// platformDir holds platform-detection functions that can be overridden in tests.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// DefaultConfigDir returns the platform-specific default configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/promptkeeper (fallback ~/.config/promptkeeper)
// macOS:   ~/Library/Application Support/promptkeeper
// Windows: %APPDATA%/promptkeeper
func DefaultConfigDir() (string, error) {
	switch runtime.GOOS {
	case "linux":
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, AppName), nil
		}
		home, err := platformDir.homeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".config", AppName), nil
	default:
		// macOS and Windows use os.UserConfigDir which returns
		// ~/Library/Application Support on macOS and %APPDATA% on Windows.
		dir, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, AppName), nil
	}
}

// DefaultDatabasePath returns $(CWD)/data/prompt-manager.sqlite.
func DefaultDatabasePath() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, DefaultDataDirName, DefaultDatabaseFile), nil
}

// ResolveConfigDir returns the configuration directory following the precedence
// chain: flag > PROMPTKEEPER_CONFIG_DIR env > DefaultConfigDir().
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultConfigDir()
}

// ResolveDatabasePath returns the database file following the precedence
// chain: flag > configYAMLValue > PROMPTKEEPER_DATABASE_PATH env >
// DATABASE_PATH env > DefaultDatabasePath(). The result is absolute.
func ResolveDatabasePath(flag, configYAMLValue string) (string, error) {
	for _, candidate := range []string{
		flag,
		configYAMLValue,
		os.Getenv(EnvDatabasePath),
		os.Getenv(EnvDatabasePathLegacy),
	} {
		if candidate != "" {
			return filepath.Abs(candidate)
		}
	}
	return DefaultDatabasePath()
}
