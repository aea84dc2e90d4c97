package config

import (
	"bytes"
	"fmt"
	"os"

	"github.com/glxtools/appconf/pkg/yaml"
)

// Validator validates configuration data against a schema.
type Validator interface {
	Validate(data any) error
}

// Loader handles validation and YAML parsing for the tool configuration.
type Loader struct {
	validator Validator
	data      []byte
}

// NewLoaderFromBytes creates a [Loader] from byte data.
func NewLoaderFromBytes(data []byte, opts ...LoaderOpt) *Loader {
	l := &Loader{
		validator: DefaultValidator,
		data:      data,
	}
	for _, opt := range opts {
		opt(l)
	}

	return l
}

// NewLoaderFromFile creates a [Loader] from a file path.
func NewLoaderFromFile(path string, opts ...LoaderOpt) (*Loader, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: Potential file inclusion via variable.
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	return NewLoaderFromBytes(data, opts...), nil
}

// LoaderOpt configures a [Loader].
type LoaderOpt func(*Loader)

// WithValidator sets a custom validator.
func WithValidator(v Validator) LoaderOpt {
	return func(l *Loader) {
		l.validator = v
	}
}

// Validate validates the configuration data against the schema without
// loading it into a [Config].
func (l *Loader) Validate() error {
	var anyConfig any

	dec := yaml.NewDecoder(bytes.NewReader(l.data))

	err := dec.Decode(&anyConfig)
	if err != nil {
		return fmt.Errorf("decode config: %w", err)
	}

	if l.validator != nil {
		err = l.validator.Validate(anyConfig)
		if err != nil {
			return fmt.Errorf("validate config: %w", err)
		}
	}

	return nil
}

// Load parses and returns the configuration.
func (l *Loader) Load() (*Config, error) {
	c := &Config{}

	dec := yaml.NewDecoder(bytes.NewReader(l.data))

	err := dec.Decode(c)
	if err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	c.EnsureDefaults()

	return c, nil
}
