// Package paths resolves mlmdctl's configuration directory location.
// Implements: spec §10 "Ambient stack", adapted from the reference
// CLI's XDG-aware resolution.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

const DefaultConfigDirName = ".mlmdctl"

const EnvConfigDir = "MLMDCTL_CONFIG_DIR"

var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// DefaultConfigDir returns the platform-specific default configuration
// directory.
//
// Linux:   $XDG_CONFIG_HOME/mlmdctl (fallback ~/.config/mlmdctl)
// macOS:   ~/Library/Application Support/mlmdctl
// Windows: %APPDATA%/mlmdctl
func DefaultConfigDir() (string, error) {
	switch runtime.GOOS {
	case "linux":
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "mlmdctl"), nil
		}
		home, err := platformDir.homeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".config", "mlmdctl"), nil
	default:
		dir, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, "mlmdctl"), nil
	}
}

// ResolveConfigDir follows the precedence chain: flag > MLMDCTL_CONFIG_DIR
// env > DefaultConfigDir().
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultConfigDir()
}
