package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"aes256-go/pkg/batch"
	"aes256-go/pkg/log"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v2"
)

var batchCommand = &cli.Command{
	Name:      "batch",
	Usage:     "Encrypt or decrypt a file line by line",
	UsageText: "aes256 batch [--decrypt] [--in FILE] [--out FILE] [--workers N]",
	Flags: []cli.Flag{
		&cli.BoolFlag{Name: "decrypt", Aliases: []string{"d"}, Usage: "Decrypt lines instead of encrypting them"},
		&cli.StringFlag{Name: "in", Aliases: []string{"i"}, Usage: "Input `FILE` (default stdin)"},
		&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "Output `FILE` (default stdout)"},
		&cli.IntFlag{Name: "workers", Aliases: []string{"w"}, Usage: "Concurrent workers (default from config)"},
	},
	Action: batchCmd,
}

func readLines(r io.Reader) ([]string, int64, error) {
	var lines []string
	var size int64
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		size += int64(len(line))
		lines = append(lines, line)
	}
	return lines, size, sc.Err()
}

func batchCmd(c *cli.Context) error {
	in := c.App.Reader
	if path := c.String("in"); path != "" {
		f, err := os.Open(path)
		if err != nil {
			return cli.Exit(err.Error(), 1)
		}
		defer f.Close()
		in = f
	}
	lines, size, err := readLines(in)
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error reading input: %v", err), 1)
	}

	proc, cfg, err := newPipeline(c)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	workers := cfg.BatchWorkers
	if c.IsSet("workers") {
		workers = c.Int("workers")
	}

	start := time.Now()
	run := batch.EncryptLines
	if c.Bool("decrypt") {
		run = batch.DecryptLines
	}
	out, err := run(c.Context, proc, lines, workers)
	if err != nil {
		if c.Bool("decrypt") {
			log.Debug().Err(err).Msg("batch decrypt rejected")
			return cli.Exit("Decryption failed for at least one line.", 1)
		}
		return cli.Exit(fmt.Sprintf("Error encrypting: %v", err), 1)
	}

	w := c.App.Writer
	if path := c.String("out"); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
		if err != nil {
			return cli.Exit(err.Error(), 1)
		}
		defer f.Close()
		w = f
	}
	bw := bufio.NewWriter(w)
	for _, line := range out {
		bw.WriteString(line)
		bw.WriteByte('\n')
	}
	if err := bw.Flush(); err != nil {
		return cli.Exit(fmt.Sprintf("Error writing output: %v", err), 1)
	}

	log.Info().
		Int("lines", len(lines)).
		Str("input", humanize.Bytes(uint64(size))).
		Int("workers", workers).
		Dur("elapsed", time.Since(start)).
		Msg("batch complete")
	return nil
}
