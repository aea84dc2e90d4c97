package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glxtools/appconf/pkg/config"
)

func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()

	assert.Equal(t, "appconf.glxtools.dev/v1beta1", cfg.APIVersion)
	assert.Equal(t, "Configuration", cfg.Kind)
	require.NotNil(t, cfg.Log)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	require.NotNil(t, cfg.Save)
	require.NotNil(t, cfg.Save.Backup)
	assert.True(t, *cfg.Save.Backup)
}

func TestConfig_EnsureDefaults(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{
		APIVersion: "appconf.glxtools.dev/v1beta1",
		Kind:       "Configuration",
		Log:        &config.LogConfig{Level: "debug"},
	}

	cfg.EnsureDefaults()

	// Explicit values survive, gaps are filled.
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	require.NotNil(t, cfg.Save)
}

func TestLoader_Load(t *testing.T) {
	t.Parallel()

	data := []byte(`apiVersion: appconf.glxtools.dev/v1beta1
kind: Configuration
log:
  level: warn
save:
  backup: false
searchPath:
  - /tmp/profiles-rc
globalFile: /tmp/globals-rc
`)

	loader := config.NewLoaderFromBytes(data)
	require.NoError(t, loader.Validate())

	cfg, err := loader.Load()
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Log.Level)
	require.NotNil(t, cfg.Save.Backup)
	assert.False(t, *cfg.Save.Backup)
	assert.Equal(t, []string{"/tmp/profiles-rc"}, cfg.SearchPath)
	assert.Equal(t, "/tmp/globals-rc", cfg.GlobalFile)
}

func TestLoader_Validate(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		data    string
		wantErr bool
	}{
		"valid": {
			data: `apiVersion: appconf.glxtools.dev/v1beta1
kind: Configuration
`,
		},
		"wrong api version": {
			data: `apiVersion: nonsense/v1
kind: Configuration
`,
			wantErr: true,
		},
		"unknown field": {
			data: `apiVersion: appconf.glxtools.dev/v1beta1
kind: Configuration
bogus: true
`,
			wantErr: true,
		},
		"bad log level": {
			data: `apiVersion: appconf.glxtools.dev/v1beta1
kind: Configuration
log:
  level: loud
`,
			wantErr: true,
		},
		"not yaml": {
			data:    `{{`,
			wantErr: true,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			err := config.NewLoaderFromBytes([]byte(tc.data)).Validate()

			if tc.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestNewLoaderFromFile_Missing(t *testing.T) {
	t.Parallel()

	_, err := config.NewLoaderFromFile("/non/existent/config.yaml")

	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestWriteDefault(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "appconf", "config.yaml")

	require.NoError(t, config.WriteDefault(path))

	// The written default passes its own validation.
	loader, err := config.NewLoaderFromFile(path)
	require.NoError(t, err)
	require.NoError(t, loader.Validate())

	// A second write leaves an existing file alone.
	require.NoError(t, os.WriteFile(path, []byte("apiVersion: appconf.glxtools.dev/v1beta1\nkind: Configuration\n"), 0o600))
	require.NoError(t, config.WriteDefault(path))

	data, err := os.ReadFile(path) //nolint:gosec // Test-owned path.
	require.NoError(t, err)
	assert.NotContains(t, string(data), "log:")
}

func TestConfig_MarshalYAML(t *testing.T) {
	t.Parallel()

	out, err := config.NewConfig().MarshalYAML()

	require.NoError(t, err)
	assert.Contains(t, string(out), "apiVersion: appconf.glxtools.dev/v1beta1")
	assert.Contains(t, string(out), "level: info")
}
