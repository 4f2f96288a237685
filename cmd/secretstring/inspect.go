// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/secretstring/lib/codec"
	"github.com/bureau-foundation/secretstring/lib/sealed"
)

// runInspect shows an envelope's cleartext metadata. No key material
// is read or required.
func runInspect(args []string) error {
	flags := pflag.NewFlagSet("inspect", pflag.ContinueOnError)
	var (
		inPath   string
		asJSON   bool
		diagnose bool
	)
	flags.StringVar(&inPath, "in", "", "read the envelope from this file (default: stdin)")
	flags.BoolVar(&asJSON, "json", false, "emit metadata as JSON")
	flags.BoolVar(&diagnose, "diag", false, "also print the raw CBOR diagnostic notation")
	if err := flags.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}

	envelopeBytes, err := readEnvelope(inPath)
	if err != nil {
		return err
	}

	info, err := sealed.Inspect(envelopeBytes)
	if err != nil {
		return err
	}

	if asJSON {
		encoded, err := json.MarshalIndent(info, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding metadata: %w", err)
		}
		fmt.Printf("%s\n", encoded)
	} else {
		fmt.Printf("Version:    %d\n", info.Version)
		fmt.Printf("Created:    %s\n", info.CreatedAt.Format(time.RFC3339))
		fmt.Printf("Ciphertext: %d bytes\n", info.CiphertextSize)
	}

	if diagnose {
		notation, err := codec.Diagnose(envelopeBytes)
		if err != nil {
			return fmt.Errorf("rendering diagnostic notation: %w", err)
		}
		fmt.Printf("\n%s\n", notation)
	}
	return nil
}
