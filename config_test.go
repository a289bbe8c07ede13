package main_test

import (
	"testing"

	hatchctl "hatchctl"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noEnv(string) string { return "" }

func TestNewConfigDefaults(t *testing.T) {
	fs := afero.NewMemMapFs()

	c, err := hatchctl.NewConfig(fs, "hatchctl.toml", noEnv)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:8888", c.Addr())
	assert.Equal(t, "data", c.DataDir())
	assert.Len(t, c.Pinout(), 14)
	assert.False(t, c.Debug())
}

func TestNewConfigFromFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/etc/hatchctl.toml", []byte(`
host = "0.0.0.0"
port = "9000"
data_dir = "/var/lib/hatchctl"
debug = true
`), 0644))

	c, err := hatchctl.NewConfig(fs, "/etc/hatchctl.toml", noEnv)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9000", c.Addr())
	assert.Equal(t, "/var/lib/hatchctl", c.DataDir())
	assert.True(t, c.Debug())
}

func TestNewConfigEnvOverridesFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "hatchctl.toml", []byte(`port = "9000"`), 0644))

	env := map[string]string{"HOST": "10.0.0.5", "PORT": "1234"}
	c, err := hatchctl.NewConfig(fs, "hatchctl.toml", func(k string) string { return env[k] })
	require.NoError(t, err)

	assert.Equal(t, "10.0.0.5:1234", c.Addr())
}

func TestNewConfigRejectsShortPinout(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "hatchctl.toml", []byte(`pinout = [1, 2, 3]`), 0644))

	_, err := hatchctl.NewConfig(fs, "hatchctl.toml", noEnv)
	assert.Error(t, err)
}

func TestNewConfigRejectsBadToml(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "hatchctl.toml", []byte(`port = [`), 0644))

	_, err := hatchctl.NewConfig(fs, "hatchctl.toml", noEnv)
	assert.Error(t, err)
}
