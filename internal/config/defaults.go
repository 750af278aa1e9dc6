package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Defaults holds user-configurable default values that flags override.
type Defaults struct {
	Tail       int
	Timestamps bool
	NoColor    bool
}

const defaultConfigPath = "~/.config/docklog/config.toml"

// LoadDefaults parses the docklog config file, falling back to built-in
// defaults when the file is missing.
func LoadDefaults(path string) (Defaults, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Defaults{}, err
	}

	defaults := Defaults{Tail: DefaultLimits().DefaultTail}

	data, err := os.ReadFile(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaults, nil
		}
		return Defaults{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		Tail       int  `toml:"tail"`
		Timestamps bool `toml:"timestamps"`
		NoColor    bool `toml:"no_color"`
	}
	if err := toml.Unmarshal(data, &raw); err != nil {
		return Defaults{}, fmt.Errorf("parse config: %w", err)
	}

	if raw.Tail > 0 {
		defaults.Tail = raw.Tail
	}
	defaults.Timestamps = raw.Timestamps
	defaults.NoColor = raw.NoColor
	return defaults, nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~/")), nil
}
