// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/secretstring/lib/sealed"
	"github.com/bureau-foundation/secretstring/lib/secret"
)

// runKeygen generates a new age keypair. The public key goes to stdout
// (for sharing and embedding in configs). The private key goes to a
// 0600 file with --out, or to stderr for manual safekeeping.
func runKeygen(args []string) error {
	flags := pflag.NewFlagSet("keygen", pflag.ContinueOnError)
	var outPath string
	var force bool
	flags.StringVar(&outPath, "out", "", "write the private key to this file (mode 0600) instead of stderr")
	flags.BoolVar(&force, "force", false, "overwrite an existing key file")
	if err := flags.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}

	keypair, err := sealed.GenerateKeypair()
	if err != nil {
		return fmt.Errorf("generating keypair: %w", err)
	}
	defer keypair.Close()

	if outPath == "" {
		fmt.Fprintf(os.Stderr, "# Private key (keep this secret, store securely):\n")
		fmt.Fprintf(os.Stderr, "%s\n", keypair.PrivateKey.String())
		fmt.Fprintf(os.Stdout, "%s\n", keypair.PublicKey)
		return nil
	}

	if _, err := os.Stat(outPath); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", outPath)
	}

	// age-keygen file format: comment lines, then the key.
	content := fmt.Appendf(nil, "# created: %s\n# public key: %s\n",
		time.Now().Format(time.RFC3339), keypair.PublicKey)
	content = append(content, keypair.PrivateKey.Bytes()...)
	content = append(content, '\n')
	defer secret.Zero(content)

	if err := os.WriteFile(outPath, content, 0600); err != nil {
		return fmt.Errorf("writing key file: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Private key written to %s\n", outPath)
	fmt.Fprintf(os.Stdout, "%s\n", keypair.PublicKey)
	return nil
}
