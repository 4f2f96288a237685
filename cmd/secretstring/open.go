// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/secretstring/lib/sealed"
)

// runOpen decrypts a sealed envelope into a protected string and
// writes its content out.
func runOpen(args []string) error {
	flags := pflag.NewFlagSet("open", pflag.ContinueOnError)
	var (
		configPath   string
		inPath       string
		identityPath string
		outPath      string
		verbose      bool
	)
	flags.StringVar(&configPath, "config", "", "path to config file (default: $SECRETSTRING_CONFIG)")
	flags.StringVar(&inPath, "in", "", "read the envelope from this file (default: stdin)")
	flags.StringVar(&identityPath, "identity", "", "age private key file (default: config identity)")
	flags.StringVar(&outPath, "out", "", "write the secret to this file (mode 0600; default: stdout)")
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
	if identityPath == "" {
		identityPath = cfg.Identity
	}
	if identityPath == "" {
		return fmt.Errorf("an identity is required (--identity or config identity)")
	}
	if identityPath == "-" && (inPath == "" || inPath == "-") {
		return fmt.Errorf("envelope and identity cannot both come from stdin")
	}

	envelopeBytes, err := readEnvelope(inPath)
	if err != nil {
		return err
	}

	identity, err := readIdentity(identityPath)
	if err != nil {
		return err
	}
	defer identity.Close()

	cipher, scope, err := cfg.BuildCipher()
	if err != nil {
		return err
	}

	content, err := sealed.Unseal(envelopeBytes, identity, cipher, scope)
	if err != nil {
		return fmt.Errorf("opening envelope: %w", err)
	}
	defer content.Close()
	logger.Debug("opened envelope", "content_bytes", content.Len())

	// Open hands the plaintext over in a self-erasing buffer; it is
	// wiped as soon as the write completes.
	buffer, err := content.Open()
	if err != nil {
		return fmt.Errorf("extracting content: %w", err)
	}
	defer buffer.Close()

	return writeOutput(outPath, buffer.Bytes())
}
