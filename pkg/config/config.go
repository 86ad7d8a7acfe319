// Package config loads the optional net2mat configuration file.
//
// The file is TOML and lives at $XDG_CONFIG_HOME/net2mat/config.toml, or
// ~/.config/net2mat/config.toml when XDG_CONFIG_HOME is unset:
//
//	[convert]
//	duplicates = "replace"          # replace | error
//	temperature_order = "encounter" # encounter | canonical
//	header = "MATLAB 5.0 MAT-file, created by net2mat"
//
//	[log]
//	level = "info"                  # debug | info | warn | error
//
// Every key is optional. Unknown keys are rejected so typos do not go
// unnoticed. Problems are reported with code [errors.ErrCodeInvalidConfig].
package config

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/net2mat/pkg/errors"
)

const (
	appName  = "net2mat"
	fileName = "config.toml"
)

var validate = validator.New()

// Config is the decoded configuration file.
type Config struct {
	Convert Convert `toml:"convert"`
	Log     Log     `toml:"log"`
}

// Convert holds defaults for the convert command.
type Convert struct {
	Duplicates       string `toml:"duplicates" validate:"omitempty,oneof=replace error"`
	TemperatureOrder string `toml:"temperature_order" validate:"omitempty,oneof=encounter canonical"`
	Header           string `toml:"header" validate:"omitempty,max=116,printascii"`
}

// Log holds logging settings.
type Log struct {
	Level string `toml:"level" validate:"omitempty,oneof=debug info warn error"`
}

// Default returns an empty configuration; every field falls back to the
// built-in default.
func Default() *Config {
	return &Config{}
}

// DefaultPath returns the configuration file location using the XDG standard.
func DefaultPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, fileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, fileName), nil
}

// Load reads the configuration at path. An empty path means DefaultPath;
// in that case a missing file yields Default. An explicitly named file must
// exist.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return Default(), nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && stderrors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes and validates configuration text.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown keys: %s", strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every field against its allowed values.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// LogLevel returns the configured level, or fallback when none is set.
func (c *Config) LogLevel(fallback log.Level) log.Level {
	if c == nil || c.Log.Level == "" {
		return fallback
	}
	level, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return fallback
	}
	return level
}

// formatValidationError converts validator errors to a more user-friendly format.
func formatValidationError(err error) error {
	var validationErrs validator.ValidationErrors
	if !stderrors.As(err, &validationErrs) || len(validationErrs) == 0 {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "validate config")
	}

	// Report the first failure only
	e := validationErrs[0]
	field := strings.ToLower(e.Namespace())
	switch e.Tag() {
	case "oneof":
		return errors.New(errors.ErrCodeInvalidConfig, "%s: %q must be one of: %s", field, e.Value(), strings.ReplaceAll(e.Param(), " ", ", "))
	case "max":
		return errors.New(errors.ErrCodeInvalidConfig, "%s: must not exceed %s characters", field, e.Param())
	case "printascii":
		return errors.New(errors.ErrCodeInvalidConfig, "%s: must be printable ASCII", field)
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "%s: validation failed (%s)", field, e.Tag())
	}
}
