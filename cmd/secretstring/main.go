// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/awnumar/memguard"

	"github.com/bureau-foundation/secretstring/lib/version"
)

func main() {
	// Wipe key enclaves before dying on SIGINT/SIGTERM, and on every
	// exit path below.
	memguard.CatchInterrupt()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		memguard.SafeExit(1)
	}
	memguard.SafeExit(0)
}

func run() error {
	if len(os.Args) < 2 {
		printUsage()
		return fmt.Errorf("subcommand required")
	}

	subcommand := os.Args[1]
	switch subcommand {
	case "keygen":
		return runKeygen(os.Args[2:])
	case "seal":
		return runSeal(os.Args[2:])
	case "open":
		return runOpen(os.Args[2:])
	case "fingerprint":
		return runFingerprint(os.Args[2:])
	case "inspect":
		return runInspect(os.Args[2:])
	case "version", "--version":
		version.Print("secretstring")
		return nil
	case "-h", "--help", "help":
		printUsage()
		return nil
	default:
		printUsage()
		return fmt.Errorf("unknown subcommand: %q", subcommand)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `Usage: secretstring <subcommand> [flags]

Subcommands:
  keygen       Generate an age keypair for sealing
  seal         Encrypt a secret into a sealed envelope
  open         Decrypt a sealed envelope
  fingerprint  Print the keyed BLAKE3 fingerprint of a secret
  inspect      Show envelope metadata without decrypting
  version      Print version information

Run 'secretstring <subcommand> --help' for subcommand flags.
`)
}

// newLogger builds the CLI logger. Libraries in this module do not
// log; all diagnostics funnel through here to stderr.
func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
