package devcfg_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appdna/devtrack/internal/devcfg"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestLoadModelOverride(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "my-model.json"), "{}")

	cfg, err := devcfg.Load(devcfg.LoadInput{
		WorkDir:           dir,
		ModelPathOverride: "my-model.json",
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "my-model.json"), cfg.ModelPathAbs)
}

func TestLoadModelOverrideMissingFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	_, err := devcfg.Load(devcfg.LoadInput{
		WorkDir:           dir,
		ModelPathOverride: "absent.json",
	})
	require.ErrorIs(t, err, devcfg.ErrNoModel)
}

func TestLoadProjectConfigUpwardSearch(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "model", "app-dna.json"), "{}")

	// Config allows comments and trailing commas; model_path resolves
	// relative to the config file's directory.
	writeFile(t, filepath.Join(dir, devcfg.ConfigFileName),
		"{\n  // project model\n  \"model_path\": \"model/app-dna.json\",\n}\n")

	nested := filepath.Join(dir, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o750))

	cfg, err := devcfg.Load(devcfg.LoadInput{WorkDir: nested})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "model", "app-dna.json"), cfg.ModelPathAbs)
	assert.Equal(t, filepath.Join(dir, devcfg.ConfigFileName), cfg.ConfigFile)
}

func TestLoadConfigEmptyModelPath(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, devcfg.ConfigFileName), `{"model_path": ""}`)

	_, err := devcfg.Load(devcfg.LoadInput{WorkDir: dir})
	require.ErrorIs(t, err, devcfg.ErrConfigInvalid)
}

func TestLoadConfigDanglingModelPath(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, devcfg.ConfigFileName), `{"model_path": "gone.json"}`)

	_, err := devcfg.Load(devcfg.LoadInput{WorkDir: dir})
	require.ErrorIs(t, err, devcfg.ErrConfigInvalid)
}

func TestLoadExplicitConfigMustExist(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	_, err := devcfg.Load(devcfg.LoadInput{WorkDir: dir, ConfigPath: "nope.json"})
	require.ErrorIs(t, err, devcfg.ErrConfigNotFound)
}

func TestLoadFallsBackToModelFileSearch(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, devcfg.DefaultModelFileName), "{}")

	nested := filepath.Join(dir, "sub")
	require.NoError(t, os.MkdirAll(nested, 0o750))

	cfg, err := devcfg.Load(devcfg.LoadInput{WorkDir: nested})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, devcfg.DefaultModelFileName), cfg.ModelPathAbs)
	assert.Empty(t, cfg.ConfigFile)
}

func TestLoadNothingResolvable(t *testing.T) {
	t.Parallel()

	// An isolated directory tree with neither config nor model.
	dir := t.TempDir()

	_, err := devcfg.Load(devcfg.LoadInput{WorkDir: dir})
	require.ErrorIs(t, err, devcfg.ErrNoModel)
}
