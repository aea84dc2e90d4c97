// Package config implements the appconf tool configuration file: logging and
// save preferences, plus overrides for the engine's search path and global
// settings file.
package config

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/invopop/jsonschema"

	_ "embed"

	"github.com/glxtools/appconf/pkg/yaml"
)

//go:generate go run ../../internal/schemagen -o config.v1beta1.json

var (
	//go:embed config.yaml
	defaultConfigYAML []byte

	//go:embed config.v1beta1.json
	schemaJSON []byte

	ValidAPIVersions = []string{
		"appconf.glxtools.dev/v1beta1",
	}
	ValidKinds = []string{
		"Configuration",
	}

	DefaultValidator = yaml.MustNewValidator("/config.v1beta1.json", schemaJSON)
)

// LogConfig selects the log level and format.
type LogConfig struct {
	// Level is the log level.
	Level string `json:"level,omitempty" jsonschema:"title=Log Level,enum=error,enum=warn,enum=info,enum=debug"`
	// Format is the log output format.
	Format string `json:"format,omitempty" jsonschema:"title=Log Format,enum=text,enum=logfmt,enum=json"`
}

// SaveConfig controls how configuration files are written.
type SaveConfig struct {
	// Backup copies each file to its backup path before overwriting.
	Backup *bool `json:"backup,omitempty" jsonschema:"title=Backup Before Save"`
}

//nolint:recvcheck // Must satisfy the jsonschema interface.
type Config struct {
	Log  *LogConfig  `json:"log,omitempty"  jsonschema:"title=Logging"`
	Save *SaveConfig `json:"save,omitempty" jsonschema:"title=Save Behavior"`
	// GlobalFile overrides the default global settings file.
	GlobalFile string `json:"globalFile,omitempty" jsonschema:"title=Global Settings File"`
	// APIVersion specifies the API version for this configuration.
	APIVersion string `json:"apiVersion" jsonschema:"title=API Version"`
	// Kind defines the type of configuration.
	Kind string `json:"kind" jsonschema:"title=Kind"`
	// SearchPath overrides the default configuration search path.
	SearchPath []string `json:"searchPath,omitempty" jsonschema:"title=Search Path"`
}

func NewConfig() *Config {
	c := &Config{
		APIVersion: "appconf.glxtools.dev/v1beta1",
		Kind:       "Configuration",
	}
	c.EnsureDefaults()

	return c
}

func (c *Config) EnsureDefaults() {
	if c.Log == nil {
		c.Log = &LogConfig{}
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}

	if c.Save == nil {
		c.Save = &SaveConfig{}
	}
	if c.Save.Backup == nil {
		backup := true
		c.Save.Backup = &backup
	}
}

func (c Config) JSONSchemaExtend(jss *jsonschema.Schema) {
	apiVersion, ok := jss.Properties.Get("apiVersion")
	if !ok {
		panic("apiVersion property not found in schema")
	}

	for _, version := range ValidAPIVersions {
		apiVersion.OneOf = append(apiVersion.OneOf, &jsonschema.Schema{
			Type:  "string",
			Const: version,
			Title: "API Version",
		})
	}

	_, _ = jss.Properties.Set("apiVersion", apiVersion)

	kind, ok := jss.Properties.Get("kind")
	if !ok {
		panic("kind property not found in schema")
	}

	for _, kindValue := range ValidKinds {
		kind.OneOf = append(kind.OneOf, &jsonschema.Schema{
			Type:  "string",
			Const: kindValue,
			Title: "Kind",
		})
	}

	_, _ = jss.Properties.Set("kind", kind)
}

func (c *Config) MarshalYAML() ([]byte, error) {
	b := &bytes.Buffer{}

	enc := yaml.NewEncoder(b)
	err := enc.Encode(*c)
	if err != nil {
		return nil, fmt.Errorf("marshal yaml: %w", err)
	}

	return b.Bytes(), nil
}

// WriteDefault writes the embedded default configuration to path if nothing
// exists there yet.
func WriteDefault(path string) error {
	pathInfo, err := os.Stat(path)
	if pathInfo != nil {
		if err == nil && pathInfo.Mode().IsRegular() {
			return nil // Config already exists.
		}
		if pathInfo.IsDir() {
			return fmt.Errorf("%s: path is a directory", path)
		}

		return fmt.Errorf("%s: unknown file state", path)
	}

	err = os.MkdirAll(filepath.Dir(path), 0o700)
	if err != nil {
		return fmt.Errorf("create directories: %w", err)
	}

	err = os.WriteFile(path, defaultConfigYAML, 0o600)
	if err != nil {
		return fmt.Errorf("write file: %w", err)
	}

	return nil
}

// GetPath resolves the tool configuration file location: $XDG_CONFIG_HOME
// first, then ~/.config, and finally a temp directory.
func GetPath() string {
	if xdgHome, ok := os.LookupEnv("XDG_CONFIG_HOME"); ok && xdgHome != "" {
		return filepath.Join(xdgHome, "appconf", "config.yaml")
	}

	usrHome, err := os.UserHomeDir()
	if err == nil && usrHome != "" {
		return filepath.Join(usrHome, ".config", "appconf", "config.yaml")
	}

	tmpConfig := filepath.Join(os.TempDir(), "appconf", "config.yaml")

	slog.Warn("could not determine user config directory, using temp path for config",
		slog.String("path", tmpConfig),
		slog.Any("error", fmt.Errorf("$XDG_CONFIG_HOME is unset, fall back to home directory: %w", err)),
	)

	return tmpConfig
}
