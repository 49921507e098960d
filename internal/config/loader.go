package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dockhand/dockhand/internal/errors"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	// GlobalConfigDir is the directory for the config file, under $HOME.
	GlobalConfigDir = ".config/dockhand"
	// GlobalConfigFile is the config file name.
	GlobalConfigFile = "config.yaml"
)

// DefaultPath returns the default config file location.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.Getenv("HOME")
	}
	return filepath.Join(home, GlobalConfigDir, GlobalConfigFile)
}

// Load reads config from the specified path. An empty path means the
// default location.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}

	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Config file not found",
				"Run 'dockhand connect <host>' to create one, or specify a path with --config")
		}
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to read config file",
			"Check the file exists and is valid YAML")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to parse config file",
			"Check the file structure matches the documented format")
	}

	if cfg.Version == 0 {
		cfg.Version = CurrentConfigVersion
	}
	if cfg.Profiles == nil {
		cfg.Profiles = make(map[string]Profile)
	}

	return &cfg, nil
}

// LoadOrDefault loads config from the given path, or returns an empty
// config when the file does not exist yet.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		if errors.IsCode(err, errors.ErrConfig) && os.IsNotExist(underlying(err)) {
			return &Config{
				Version:  CurrentConfigVersion,
				Profiles: make(map[string]Profile),
			}, nil
		}
		return nil, err
	}
	return cfg, nil
}

func underlying(err error) error {
	for {
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return err
		}
		next := u.Unwrap()
		if next == nil {
			return err
		}
		err = next
	}
}

// Save writes the config to the specified path, creating the directory
// if needed. An empty path means the default location.
func Save(cfg *Config, path string) error {
	if path == "" {
		path = DefaultPath()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to create config directory",
			"Check directory permissions for "+filepath.Dir(path))
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to serialize config", "")
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to write config file",
			"Check file permissions for "+path)
	}

	return nil
}

// Resolve returns the profile with the given name, falling back to the
// config's default profile when name is empty.
func (c *Config) Resolve(name string) (Profile, string, error) {
	if name == "" {
		name = c.Default
	}
	if name == "" {
		if len(c.Profiles) == 1 {
			for n, p := range c.Profiles {
				return p, n, nil
			}
		}
		return Profile{}, "", errors.New(errors.ErrConfig,
			"No profile specified and no default set",
			"Pass --profile <name> or set 'default' in the config file")
	}

	p, ok := c.Profiles[name]
	if !ok {
		return Profile{}, "", errors.New(errors.ErrConfig,
			fmt.Sprintf("Profile '%s' not found", name),
			"Check 'profiles' in the config file")
	}
	return p, name, nil
}

// Validate checks that a profile is well-formed enough to attempt a
// connection.
func (p Profile) Validate() error {
	if p.Host == "" {
		return errors.New(errors.ErrConfig,
			"Profile has no host", "Set 'host' to the server address")
	}
	switch p.Auth.Method {
	case AuthPassword:
		return nil
	case AuthKey:
		if p.Auth.KeyPath == "" {
			return errors.New(errors.ErrConfig,
				"Key auth selected but no key_path set",
				"Set 'auth.key_path' to a private key file")
		}
		return nil
	default:
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Unknown auth method '%s'", p.Auth.Method),
			"Use 'password' or 'key'")
	}
}
