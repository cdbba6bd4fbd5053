package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Source names where a configuration came from.
type Source string

const (
	SourceCustom   Source = "custom"
	SourceUser     Source = "user"
	SourceLocal    Source = "local"
	SourceEmbedded Source = "embedded"
	SourceBuiltin  Source = "builtin"
)

const tetricsFile = "tetrics.yaml"

// LoadTetrics loads the game configuration.
// Search order: customPath -> ~/.tetrics/configs/tetrics.yaml -> ./configs/tetrics.yaml
// -> embedded default -> hardcoded default. Only an explicit customPath can fail;
// unreadable or malformed files elsewhere are skipped.
func LoadTetrics(customPath string) (TetricsConfig, Source, error) {
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return TetricsConfig{}, "", fmt.Errorf("config: cannot read %s: %w", customPath, err)
		}
		cfg, err := parseTetrics(data)
		if err != nil {
			return TetricsConfig{}, "", fmt.Errorf("config: cannot parse %s: %w", customPath, err)
		}
		return cfg, SourceCustom, nil
	}

	if p := userConfigPath(tetricsFile); p != "" {
		if cfg, ok := tryLoad(p); ok {
			return cfg, SourceUser, nil
		}
	}

	if cfg, ok := tryLoad(filepath.Join("configs", tetricsFile)); ok {
		return cfg, SourceLocal, nil
	}

	if cfg, err := parseTetrics(defaultTetricsYAML); err == nil {
		return cfg, SourceEmbedded, nil
	}
	return DefaultTetricsConfig(), SourceBuiltin, nil
}

func tryLoad(path string) (TetricsConfig, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return TetricsConfig{}, false
	}
	cfg, err := parseTetrics(data)
	if err != nil {
		return TetricsConfig{}, false
	}
	return cfg, true
}

// parseTetrics decodes YAML over the defaults so partial files are valid.
func parseTetrics(data []byte) (TetricsConfig, error) {
	cfg := DefaultTetricsConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return TetricsConfig{}, err
	}
	if _, err := ParsePreset(string(cfg.Difficulty.Preset)); err != nil {
		return TetricsConfig{}, err
	}
	cfg.Validate()
	return cfg, nil
}

// userConfigPath returns ~/.tetrics/configs/<filename>, or "" without a home dir.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".tetrics", "configs", filename)
}

// Marshal renders a configuration as YAML.
func Marshal(cfg TetricsConfig) ([]byte, error) {
	return yaml.Marshal(cfg)
}
