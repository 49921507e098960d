package config

// CurrentConfigVersion is the schema version for the config file.
// Increment when making breaking changes to the config structure.
const CurrentConfigVersion = 1

// Auth method names accepted in the config file.
const (
	AuthPassword = "password"
	AuthKey      = "key"
)

// Config represents the complete dockhand configuration file.
type Config struct {
	Version  int                `yaml:"version" mapstructure:"version"`
	Default  string             `yaml:"default,omitempty" mapstructure:"default"`
	Profiles map[string]Profile `yaml:"profiles" mapstructure:"profiles"`
}

// Profile defines a remote server and its connection settings.
type Profile struct {
	// Host is the server address. Used as the identity key for the
	// discovery cache and network history.
	Host string `yaml:"host" mapstructure:"host"`

	// Port defaults to 22 when zero. When both Port and User are unset,
	// values are resolved from ~/.ssh/config before falling back.
	Port int    `yaml:"port,omitempty" mapstructure:"port"`
	User string `yaml:"user,omitempty" mapstructure:"user"`

	Auth AuthConfig `yaml:"auth" mapstructure:"auth"`

	// LastConnected is a unix-millisecond timestamp updated on each
	// successful connect.
	LastConnected int64 `yaml:"last_connected,omitempty" mapstructure:"last_connected"`
}

// AuthConfig selects exactly one authentication method.
type AuthConfig struct {
	// Method is "password" or "key".
	Method string `yaml:"method" mapstructure:"method"`

	// Password for method "password". May be empty, in which case the
	// CLI prompts interactively.
	Password string `yaml:"password,omitempty" mapstructure:"password"`

	// KeyPath and optional Passphrase for method "key".
	// KeyPath supports ~/ expansion.
	KeyPath    string `yaml:"key_path,omitempty" mapstructure:"key_path"`
	Passphrase string `yaml:"passphrase,omitempty" mapstructure:"passphrase"`
}
