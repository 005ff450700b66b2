package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"haligen/internal/logger"
)

// AppName names the per-user application directory.
const AppName = "haligen"

// EnvHome overrides the application directory (defaults to <user config dir>/haligen).
const EnvHome = "HALIGEN_HOME"

// LoadConfig reads a YAML config file and fills unset fields with Defaults().
// When required is false a missing file is not an error and defaults are returned.
func LoadConfig(path string, required bool) (Config, error) {
	cfg := Defaults()

	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !required {
			logger.Debug("[DEBUG] No config file at %s, using defaults\n", path)
			return cfg, nil
		}
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	// Settings live under a top-level "haligen" key.
	wrapper := struct {
		Haligen Config `yaml:"haligen"`
	}{}
	if err := yaml.Unmarshal(raw, &wrapper); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config %s: %w", path, err)
	}

	if hl := wrapper.Haligen.HeaderLine; hl != nil && *hl < 0 {
		return Config{}, fmt.Errorf("invalid config %s: header_line must not be negative, got %d", path, *hl)
	}

	merge(&cfg, wrapper.Haligen)
	logger.Debug("[DEBUG] Loaded config from %s: %+v\n", path, cfg)
	return cfg, nil
}

// merge copies every non-zero field of override onto cfg.
func merge(cfg *Config, override Config) {
	if override.PackageManager != "" {
		cfg.PackageManager = override.PackageManager
	}
	if override.Generator != "" {
		cfg.Generator = override.Generator
	}
	if override.Compiler != "" {
		cfg.Compiler = override.Compiler
	}
	if override.RuntimeDependency != "" {
		cfg.RuntimeDependency = override.RuntimeDependency
	}
	if override.Target != "" {
		cfg.Target = override.Target
	}
	if override.Runtime != "" {
		cfg.Runtime = override.Runtime
	}
	if override.InstallDir != "" {
		cfg.InstallDir = override.InstallDir
	}
	if override.HeaderLine != nil {
		cfg.HeaderLine = override.HeaderLine
	}
}

// AppDir returns the per-user haligen directory.
func AppDir() (string, error) {
	if home := os.Getenv(EnvHome); home != "" {
		return home, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine user config directory: %w", err)
	}
	return filepath.Join(base, AppName), nil
}

// NewAppContext resolves directories and loads the config file.
// An empty configPath means the default <app dir>/config.yaml, which is optional.
func NewAppContext(configPath string) (*AppContext, error) {
	appDir, err := AppDir()
	if err != nil {
		return nil, err
	}
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("cannot determine working directory: %w", err)
	}

	required := configPath != ""
	if !required {
		configPath = filepath.Join(appDir, "config.yaml")
	}
	cfg, err := LoadConfig(configPath, required)
	if err != nil {
		return nil, err
	}

	installDir := cfg.InstallDir
	if installDir == "" {
		installDir = filepath.Join(appDir, "tmp")
	}

	return &AppContext{
		AppDir:     appDir,
		WorkingDir: wd,
		InstallDir: installDir,
		StatePath:  filepath.Join(appDir, "state.json"),
		Config:     cfg,
	}, nil
}
