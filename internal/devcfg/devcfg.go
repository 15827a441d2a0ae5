// Package devcfg resolves which model file the tool operates on.
//
// Precedence (highest wins): explicit --model flag, a `.devtrack.json`
// project config found by upward search from the working directory, then an
// `app-dna.json` found by the same upward search. All returned paths are
// absolute.
package devcfg

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tailscale/hujson"
)

// ConfigFileName is the project config file searched for upward from the
// working directory.
const ConfigFileName = ".devtrack.json"

// DefaultModelFileName is the model file searched for when no config names
// one.
const DefaultModelFileName = "app-dna.json"

var (
	// ErrNoModel means no model file could be resolved at all.
	ErrNoModel = errors.New("no model file found (pass --model, or add " + ConfigFileName + ")")

	// ErrConfigNotFound means an explicitly named config file is missing.
	ErrConfigNotFound = errors.New("config file not found")

	// ErrConfigInvalid means a config file exists but cannot be used.
	ErrConfigInvalid = errors.New("invalid config file")
)

// Config is the resolved tool configuration.
type Config struct {
	// ModelPath is as written in the config file, possibly relative.
	ModelPath string `json:"model_path"`

	// ModelPathAbs is the resolved absolute model file path.
	ModelPathAbs string `json:"-"`

	// ConfigFile is the config file the path came from, empty when the
	// model was named on the command line or found by search.
	ConfigFile string `json:"-"`
}

// LoadInput holds the inputs for Load.
type LoadInput struct {
	WorkDir           string // if empty, os.Getwd() is used
	ModelPathOverride string // --model flag value
	ConfigPath        string // --config flag value; must exist if set
}

// Load resolves the model path. The resolved file must exist; a dangling
// configuration is reported, not silently ignored.
func Load(input LoadInput) (Config, error) {
	workDir := input.WorkDir
	if workDir == "" {
		var err error

		workDir, err = os.Getwd()
		if err != nil {
			return Config{}, fmt.Errorf("cannot get working directory: %w", err)
		}
	}

	if input.ModelPathOverride != "" {
		abs := absJoin(workDir, input.ModelPathOverride)

		err := mustExist(abs)
		if err != nil {
			return Config{}, fmt.Errorf("%w: %s", ErrNoModel, abs)
		}

		return Config{ModelPath: input.ModelPathOverride, ModelPathAbs: abs}, nil
	}

	cfgFile, err := resolveConfigFile(workDir, input.ConfigPath)
	if err != nil {
		return Config{}, err
	}

	if cfgFile != "" {
		return loadConfigFile(cfgFile)
	}

	if modelPath, ok := searchUpward(workDir, DefaultModelFileName); ok {
		return Config{ModelPath: modelPath, ModelPathAbs: modelPath}, nil
	}

	return Config{}, ErrNoModel
}

func resolveConfigFile(workDir, explicit string) (string, error) {
	if explicit != "" {
		abs := absJoin(workDir, explicit)

		err := mustExist(abs)
		if err != nil {
			return "", fmt.Errorf("%w: %s", ErrConfigNotFound, explicit)
		}

		return abs, nil
	}

	if found, ok := searchUpward(workDir, ConfigFileName); ok {
		return found, nil
	}

	return "", nil
}

func loadConfigFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("%w %s: %w", ErrConfigInvalid, path, err)
	}

	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Config{}, fmt.Errorf("%w %s: %w", ErrConfigInvalid, path, err)
	}

	var cfg Config

	err = json.Unmarshal(standardized, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%w %s: %w", ErrConfigInvalid, path, err)
	}

	if cfg.ModelPath == "" {
		return Config{}, fmt.Errorf("%w %s: model_path is empty", ErrConfigInvalid, path)
	}

	// model_path is relative to the config file, not the working dir.
	abs := absJoin(filepath.Dir(path), cfg.ModelPath)

	err = mustExist(abs)
	if err != nil {
		return Config{}, fmt.Errorf("%w %s: model file %s does not exist", ErrConfigInvalid, path, abs)
	}

	cfg.ModelPathAbs = abs
	cfg.ConfigFile = path

	return cfg, nil
}

// searchUpward walks from dir to the filesystem root looking for name.
func searchUpward(dir, name string) (string, bool) {
	for {
		candidate := filepath.Join(dir, name)

		_, err := os.Stat(candidate)
		if err == nil {
			return candidate, true
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}

		dir = parent
	}
}

func absJoin(base, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}

	return filepath.Join(base, path)
}

func mustExist(path string) error {
	_, err := os.Stat(path)

	return err
}
