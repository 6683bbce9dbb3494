package config

import (
	"errors"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Load loads configuration from file, environment, and defaults. An empty
// configFile searches for assetmanifest.yaml in the working directory and
// the config directory. Uses the global viper instance to access CLI flag
// bindings.
func Load(configFile string) (*Config, error) {
	return load(viper.GetViper(), configFile)
}

// LoadWithViper loads configuration into a fresh viper instance
func LoadWithViper(configFile string) (*Config, *viper.Viper, error) {
	v := viper.New()
	cfg, err := load(v, configFile)
	if err != nil {
		return nil, nil, err
	}
	return cfg, v, nil
}

func load(v *viper.Viper, configFile string) (*Config, error) {
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("assetmanifest")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(ConfigDir())
	}

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	// Environment variables (ASSETMANIFEST_*)
	v.SetEnvPrefix("ASSETMANIFEST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// setDefaults sets default values in viper
func setDefaults(v *viper.Viper) {
	d := Default()

	// Build defaults
	v.SetDefault("build.outdir", d.Build.Outdir)
	v.SetDefault("build.entry_names", d.Build.EntryNames)
	v.SetDefault("build.chunk_names", d.Build.ChunkNames)
	v.SetDefault("build.asset_names", d.Build.AssetNames)
	v.SetDefault("build.bundle", d.Build.Bundle)
	v.SetDefault("build.format", d.Build.Format)
	v.SetDefault("build.write", d.Build.Write)
	v.SetDefault("build.public_path", "")

	// Cache defaults
	v.SetDefault("cache.enabled", d.Cache.Enabled)
	v.SetDefault("cache.directory", d.Cache.Directory)
	v.SetDefault("cache.max_history", d.Cache.MaxHistory)

	// Logging defaults
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)

	v.SetDefault("watch.enabled", false)
}

// EnsureConfigDir creates the config directory if it doesn't exist
func EnsureConfigDir() error {
	return os.MkdirAll(ConfigDir(), 0755)
}
