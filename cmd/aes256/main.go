package main

import (
	"fmt"
	"os"

	"aes256-go/pkg/log"

	"github.com/urfave/cli/v2"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

func newApp() *cli.App {
	return &cli.App{
		Name:    "aes256",
		Usage:   "encrypt and decrypt text with a from-scratch AES-256-CBC engine",
		Version: fmt.Sprintf("%s (built %s)", Version, BuildTime),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to the configuration `FILE` (default: search ., /etc/aes256, ~/.aes256)",
			},
			&cli.StringFlag{
				Name:    "passphrase",
				Usage:   "Secret `PASSPHRASE` for key derivation (prompted when omitted)",
				EnvVars: []string{"AES256_PASSPHRASE"},
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Override the configured log `LEVEL`",
			},
			&cli.BoolFlag{
				Name:  "hardened",
				Usage: "Use constant-time S-box substitution",
			},
			&cli.StringFlag{
				Name:  "compress",
				Usage: "Compress plaintext before encryption with `CODEC` (none, gzip, zstd)",
			},
		},
		Before: setup,
		After: func(c *cli.Context) error {
			return log.Close()
		},
		Action: interactiveCmd,
		Commands: []*cli.Command{
			encryptCommand,
			decryptCommand,
			batchCommand,
			recordsCommand,
			serveCommand,
			selftestCommand,
			benchCommand,
			logsCommand,
			configCommand,
		},
	}
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
