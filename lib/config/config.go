// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/bureau-foundation/secretstring/lib/memcipher"
)

// CipherXTS and CipherNull are the accepted values for Config.Cipher.
const (
	// CipherXTS protects container memory with AES-XTS under an
	// ephemeral per-process key.
	CipherXTS = "xts"

	// CipherNull stores container memory as plaintext. For debugging
	// and benchmarking only.
	CipherNull = "null"
)

// Config is the configuration for the secretstring tool.
type Config struct {
	// Identity is the path to the age private key file used to open
	// envelopes. "-" reads the key from stdin. Supports ${VAR} and
	// ${VAR:-default} expansion.
	Identity string `yaml:"identity"`

	// Recipients are age public keys (age1... format) that sealed
	// envelopes are addressed to. The seal command merges these with
	// any --recipient flags.
	Recipients []string `yaml:"recipients"`

	// Cipher selects the at-rest cipher for protected strings:
	// "xts" or "null". The null value must be quoted in YAML, or it
	// parses as an absent field.
	Cipher string `yaml:"cipher"`

	// Scope selects the protection scope label mixed into cipher key
	// derivation: "same-process", "cross-process", or "same-logon".
	Scope string `yaml:"scope"`
}

// Default returns the default configuration. These defaults are the
// complete working configuration for sealing to explicit --recipient
// flags; a config file is only needed for a standing identity or
// recipient list.
func Default() *Config {
	return &Config{
		Cipher: CipherXTS,
		Scope:  memcipher.ScopeSameProcess.String(),
	}
}

// Load loads configuration from the path in the SECRETSTRING_CONFIG
// environment variable, or returns Default when it is unset. There is
// no ~/.config discovery or file search; an explicit path or nothing.
func Load() (*Config, error) {
	configPath := os.Getenv("SECRETSTRING_CONFIG")
	if configPath == "" {
		return Default(), nil
	}
	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path.
//
// The config file is the single source of truth. Environment variables
// do not override config values. The only expansion performed is
// ${VAR} and ${VAR:-default} in the identity path, for portability of
// shared config files.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	cfg.Identity = expandVars(cfg.Identity)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// varPattern matches ${VAR} and ${VAR:-default}.
var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// Validate checks the configuration for errors. All problems are
// reported, not just the first.
func (c *Config) Validate() error {
	var errs []error

	if c.Cipher != CipherXTS && c.Cipher != CipherNull {
		errs = append(errs, fmt.Errorf("cipher must be %q or %q, got %q", CipherXTS, CipherNull, c.Cipher))
	}

	if _, err := memcipher.ParseScope(c.Scope); err != nil {
		errs = append(errs, fmt.Errorf("scope: %w", err))
	}

	for index, recipient := range c.Recipients {
		if recipient == "" {
			errs = append(errs, fmt.Errorf("recipients[%d] is empty", index))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// BuildCipher constructs the configured at-rest cipher. The XTS
// cipher uses a fresh random key: the protection is per-process, so
// the key never needs to outlive it.
func (c *Config) BuildCipher() (memcipher.Cipher, memcipher.Scope, error) {
	scope, err := memcipher.ParseScope(c.Scope)
	if err != nil {
		return nil, 0, err
	}

	switch c.Cipher {
	case CipherNull:
		return memcipher.Null{}, scope, nil
	case CipherXTS:
		cipher, err := memcipher.GenerateXTS()
		if err != nil {
			return nil, 0, fmt.Errorf("generating cipher key: %w", err)
		}
		return cipher, scope, nil
	default:
		return nil, 0, fmt.Errorf("unknown cipher %q", c.Cipher)
	}
}
