package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dockhand/dockhand/internal/errors"
)

func testConfig() *Config {
	return &Config{
		Version: CurrentConfigVersion,
		Default: "home",
		Profiles: map[string]Profile{
			"home": {
				Host: "homeserver.local",
				Port: 22,
				User: "deploy",
				Auth: AuthConfig{Method: AuthPassword, Password: "hunter2"},
			},
			"prod": {
				Host: "prod.example.com",
				User: "ops",
				Auth: AuthConfig{Method: AuthKey, KeyPath: "~/.ssh/id_ed25519"},
			},
		},
	}
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	require.NoError(t, Save(testConfig(), path))

	loaded, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, CurrentConfigVersion, loaded.Version)
	assert.Equal(t, "home", loaded.Default)
	require.Len(t, loaded.Profiles, 2)
	assert.Equal(t, "homeserver.local", loaded.Profiles["home"].Host)
	assert.Equal(t, AuthKey, loaded.Profiles["prod"].Auth.Method)
	assert.Equal(t, "~/.ssh/id_ed25519", loaded.Profiles["prod"].Auth.KeyPath)
}

func TestSaveCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "config.yaml")

	require.NoError(t, Save(testConfig(), path))

	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestSaveFilePermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, Save(testConfig(), path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("profiles: [not a map"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestLoadOrDefaultMissingFile(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, CurrentConfigVersion, cfg.Version)
	assert.Empty(t, cfg.Profiles)
}

func TestResolve(t *testing.T) {
	cfg := testConfig()

	tests := []struct {
		name     string
		arg      string
		wantName string
		wantHost string
		wantErr  bool
	}{
		{"explicit profile", "prod", "prod", "prod.example.com", false},
		{"default fallback", "", "home", "homeserver.local", false},
		{"unknown profile", "staging", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, name, err := cfg.Resolve(tt.arg)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsCode(err, errors.ErrConfig))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, name)
			assert.Equal(t, tt.wantHost, p.Host)
		})
	}
}

func TestResolveSingleProfileShortcut(t *testing.T) {
	cfg := &Config{
		Profiles: map[string]Profile{
			"only": {Host: "solo.local", Auth: AuthConfig{Method: AuthPassword}},
		},
	}

	p, name, err := cfg.Resolve("")
	require.NoError(t, err)
	assert.Equal(t, "only", name)
	assert.Equal(t, "solo.local", p.Host)
}

func TestResolveNoDefaultMultipleProfiles(t *testing.T) {
	cfg := testConfig()
	cfg.Default = ""

	_, _, err := cfg.Resolve("")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestProfileValidate(t *testing.T) {
	tests := []struct {
		name    string
		profile Profile
		wantErr bool
	}{
		{
			"password auth",
			Profile{Host: "h", Auth: AuthConfig{Method: AuthPassword}},
			false,
		},
		{
			"key auth",
			Profile{Host: "h", Auth: AuthConfig{Method: AuthKey, KeyPath: "~/.ssh/id_rsa"}},
			false,
		},
		{
			"missing host",
			Profile{Auth: AuthConfig{Method: AuthPassword}},
			true,
		},
		{
			"key auth without key path",
			Profile{Host: "h", Auth: AuthConfig{Method: AuthKey}},
			true,
		},
		{
			"unknown method",
			Profile{Host: "h", Auth: AuthConfig{Method: "agent"}},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.profile.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsCode(err, errors.ErrConfig))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
