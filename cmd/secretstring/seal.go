// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/bureau-foundation/secretstring/lib/sealed"
)

// runSeal reads a secret into a protected string and seals it to the
// configured recipients.
func runSeal(args []string) error {
	flags := pflag.NewFlagSet("seal", pflag.ContinueOnError)
	var (
		configPath string
		inPath     string
		outPath    string
		recipients []string
		armor      bool
		verbose    bool
	)
	flags.StringVar(&configPath, "config", "", "path to config file (default: $SECRETSTRING_CONFIG)")
	flags.StringVar(&inPath, "in", "", "read the secret from this file (\"-\" for stdin; default: prompt)")
	flags.StringVar(&outPath, "out", "", "write the envelope to this file (default: stdout)")
	flags.StringArrayVar(&recipients, "recipient", nil, "age public key to seal to (repeatable, merged with config)")
	flags.BoolVar(&armor, "armor", false, "emit the envelope as base64 text")
	flags.BoolVar(&verbose, "verbose", false, "enable debug logging")
	if err := flags.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}

	logger := newLogger(verbose)

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	recipientKeys := append(append([]string{}, cfg.Recipients...), recipients...)
	if len(recipientKeys) == 0 {
		return fmt.Errorf("at least one recipient is required (--recipient or config recipients)")
	}
	for _, key := range recipientKeys {
		if err := sealed.ParsePublicKey(key); err != nil {
			return err
		}
	}

	// Binary envelopes and terminals do not mix.
	if !armor && outPath == "" && term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("refusing to write a binary envelope to a terminal (use --armor or --out)")
	}

	cipher, scope, err := cfg.BuildCipher()
	if err != nil {
		return err
	}

	content, err := readSecretString(inPath, cipher, scope)
	if err != nil {
		return err
	}
	defer content.Close()
	logger.Debug("read secret", "bytes", content.Len(), "cipher", cfg.Cipher, "scope", scope)

	envelope, err := sealed.Seal(content, recipientKeys)
	if err != nil {
		return fmt.Errorf("sealing: %w", err)
	}
	logger.Debug("sealed envelope", "recipients", len(recipientKeys), "envelope_bytes", len(envelope))

	if armor {
		return writeOutput(outPath, []byte(sealed.EncodeString(envelope)+"\n"))
	}
	return writeOutput(outPath, envelope)
}
