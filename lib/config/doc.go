// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides YAML configuration loading for the
// secretstring tool.
//
// Configuration is loaded from a single file specified by either the
// SECRETSTRING_CONFIG environment variable (via [Load]) or a --config
// flag (via [LoadFile]). There are no fallbacks, no ~/.config
// discovery, and no automatic file search; when no path is given,
// [Default] is the configuration. This ensures deterministic,
// auditable configuration with no hidden overrides.
//
// Variable expansion is performed on the identity path after loading:
// ${VAR} and ${VAR:-default} patterns are expanded. No other
// environment variables override config values.
//
// Key exports:
//
//   - [Config] -- identity path, recipients, cipher, scope
//   - [Default] -- XTS cipher, same-process scope
//   - [Load] and [LoadFile] -- the two entry points for loading
//   - [Config.BuildCipher] -- construct the configured at-rest cipher
//
// Depends on lib/memcipher and gopkg.in/yaml.v3. Imported by
// cmd/secretstring.
package config
