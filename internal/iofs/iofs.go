// Package iofs prepares the on-disk layout of CladeDB: config, cache
// and log directories, and a default config file on first run.
package iofs

import (
	"fmt"
	"os"

	"github.com/cladecanvas/cladedb/pkg/config"
	"gopkg.in/yaml.v3"
)

const configHeader = `# CladeDB configuration.
#
# Every value below can be overridden with a CLADEDB_* environment
# variable, e.g. CLADEDB_DATABASE_HOST or CLADEDB_ENRICH_BATCH_SIZE.
# CLI flags take precedence over both.

`

// EnsureDirs creates the config, cache and log directories if they
// do not exist yet.
func EnsureDirs(homeDir string) error {
	dirs := []string{
		config.ConfigDir(homeDir),
		config.CacheDir(homeDir),
		config.LogDir(homeDir),
	}
	for _, v := range dirs {
		if err := touchDir(v); err != nil {
			return err
		}
	}
	return nil
}

func touchDir(dir string) error {
	info, err := os.Stat(dir)
	if err == nil && info.IsDir() {
		return nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return CreateDirError(dir, err)
	}

	return nil
}

// EnsureConfigFile writes a default config.yaml on first run.
// An existing file is never touched.
func EnsureConfigFile(homeDir string) error {
	configPath := config.ConfigFilePath(homeDir)

	if _, err := os.Stat(configPath); err == nil {
		return nil
	}

	data, err := yaml.Marshal(config.New())
	if err != nil {
		return CopyFileError(configPath, fmt.Errorf("cannot marshal defaults: %w", err))
	}

	content := configHeader + string(data)
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		return CopyFileError(configPath, err)
	}

	return nil
}
