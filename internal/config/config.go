// Package config loads the tool's own settings (not the deployment state):
// where state lives, where artifacts are written, how to log.
package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

type Log struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

type Config struct {
	// DataDir holds the state database and the run lock.
	DataDir string `yaml:"data_dir" mapstructure:"data_dir"`

	// ArtifactDir is where the rendered files are written.
	ArtifactDir string `yaml:"artifact_dir" mapstructure:"artifact_dir"`

	Log Log `yaml:"log" mapstructure:"log"`
}

func Default() *Config {
	return &Config{
		DataDir:     defaultDataDir(),
		ArtifactDir: ".",
		Log:         Log{Level: "info", Format: "text"},
	}
}

func defaultDataDir() string {
	home, _ := os.UserHomeDir()
	if home == "" {
		return "./data"
	}
	return filepath.Join(home, ".forge")
}

// Load reads a forgefile. With an empty path it looks in the working
// directory and /etc/forge/; a missing file falls back to defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if path == "" {
		v.SetConfigName("forgefile")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")           // Local development override
		v.AddConfigPath("/etc/forge/") // System-wide production config
	}
	cfg := Default()
	if err := v.ReadInConfig(); err == nil {
		if err := v.Unmarshal(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// StatePath is the directory of the state database under DataDir.
func (c *Config) StatePath() string {
	return filepath.Join(c.DataDir, "state")
}

// LockPath is the run lock file under DataDir.
func (c *Config) LockPath() string {
	return filepath.Join(c.DataDir, "forge.lock")
}
