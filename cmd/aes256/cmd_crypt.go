package main

import (
	"context"
	"fmt"

	"aes256-go/internal/fn"
	"aes256-go/pkg/config"
	"aes256-go/pkg/log"
	"aes256-go/pkg/store"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v2"
)

var (
	encryptCommand = &cli.Command{
		Name:      "encrypt",
		Usage:     "Encrypt text and print base64(IV||ciphertext)",
		UsageText: "aes256 encrypt [--save] [--label LABEL] [TEXT...]  (reads stdin without TEXT)",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "save", Aliases: []string{"s"}, Usage: "Append the result to the record store"},
			&cli.StringFlag{Name: "label", Aliases: []string{"l"}, Usage: "Record `LABEL` used with --save"},
		},
		Action: encryptCmd,
	}

	decryptCommand = &cli.Command{
		Name:      "decrypt",
		Usage:     "Decrypt base64(IV||ciphertext) and print the plaintext",
		UsageText: "aes256 decrypt [CIPHERTEXT]  (reads stdin without CIPHERTEXT)",
		Action:    decryptCmd,
	}
)

func encryptCmd(c *cli.Context) error {
	text, err := inputText(c)
	if err != nil {
		return err
	}
	proc, cfg, err := newPipeline(c)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	ct, err := proc.SealString(text)
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error encrypting: %v", err), 1)
	}
	fmt.Fprintln(c.App.Writer, ct)
	log.Debug().
		Str("plaintext_size", humanize.Bytes(uint64(len(text)))).
		Str("ciphertext_size", humanize.Bytes(uint64(len(ct)))).
		Msg("encrypted")

	if c.Bool("save") {
		id, err := saveRecord(c.Context, cfg, c.String("label"), text, ct)
		if err != nil {
			return cli.Exit(fmt.Sprintf("Error saving record: %v", err), 1)
		}
		log.Info().Str("id", id).Str("driver", cfg.Store.Driver).Msg("record saved")
	}
	return nil
}

func saveRecord(ctx context.Context, cfg *config.Config, label, text, ct string) (string, error) {
	s, err := openStore(cfg)
	if err != nil {
		return "", err
	}
	defer s.Close()
	rec := store.NewRecord(label, fn.T(cfg.Store.StorePlaintext, text, ""), ct)
	if err := s.Put(ctx, rec); err != nil {
		return "", err
	}
	return rec.ID, nil
}

func decryptCmd(c *cli.Context) error {
	text, err := inputText(c)
	if err != nil {
		return err
	}
	proc, _, err := newPipeline(c)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	pt, err := proc.OpenString(text)
	if err != nil {
		log.Debug().Err(err).Msg("decrypt rejected")
		return cli.Exit("Decryption failed. Check the key and the ciphertext.", 1)
	}
	fmt.Fprintln(c.App.Writer, pt)
	return nil
}
