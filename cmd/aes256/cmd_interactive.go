package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"aes256-go/pkg/transform"

	"github.com/urfave/cli/v2"
)

// interactiveCmd is the default action: secret, then a loop of
// encrypt/decrypt prompts. Encrypted results are saved to the record store.
func interactiveCmd(c *cli.Context) error {
	proc, cfg, err := newPipeline(c)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	return interactiveLoop(c, proc, func(text, ct string) (string, error) {
		return saveRecord(c.Context, cfg, "", text, ct)
	})
}

// interactiveLoop runs until quit or end of input. Input ending at any
// prompt is a quit, not an error.
func interactiveLoop(c *cli.Context, proc *transform.Processor, save func(text, ct string) (string, error)) error {
	in := bufio.NewReader(c.App.Reader)
	out := c.App.Writer
	for {
		choice, err := prompt(in, out, "Encrypt, decrypt or quit? [e/d/q]: ")
		if err != nil {
			return quitOnEOF(out, err)
		}
		switch strings.ToLower(choice) {
		case "e", "encrypt":
			text, err := prompt(in, out, "Text to encrypt: ")
			if err != nil {
				return quitOnEOF(out, err)
			}
			ct, err := proc.SealString(text)
			if err != nil {
				return cli.Exit(fmt.Sprintf("Error encrypting: %v", err), 1)
			}
			fmt.Fprintf(out, "Encrypted: %s\n", ct)
			if id, err := save(text, ct); err != nil {
				fmt.Fprintf(c.App.ErrWriter, "Could not save record: %v\n", err)
			} else {
				fmt.Fprintf(out, "Saved as %s\n", id)
			}
		case "d", "decrypt":
			text, err := prompt(in, out, "Ciphertext: ")
			if err != nil {
				return quitOnEOF(out, err)
			}
			fmt.Fprintln(out, openOrMessage(proc, text))
		case "q", "quit", "exit":
			return nil
		default:
			fmt.Fprintln(out, "Please answer e, d or q.")
		}
	}
}

func quitOnEOF(out io.Writer, err error) error {
	if errors.Is(err, io.EOF) {
		fmt.Fprintln(out)
		return nil
	}
	return err
}

func prompt(in *bufio.Reader, out io.Writer, label string) (string, error) {
	fmt.Fprint(out, label)
	line, err := in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func openOrMessage(proc *transform.Processor, text string) string {
	pt, err := proc.OpenString(text)
	if err != nil {
		return "Decryption failed. Check the key and the ciphertext."
	}
	return "Decrypted: " + pt
}
