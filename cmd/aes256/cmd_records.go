package main

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"aes256-go/pkg/store"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v2"
)

var recordsCommand = &cli.Command{
	Name:  "records",
	Usage: "Inspect the record store",
	Subcommands: []*cli.Command{
		{
			Name:   "list",
			Usage:  "List stored records, oldest first",
			Action: recordsListCmd,
		},
		{
			Name:      "show",
			Usage:     "Print one record's ciphertext, or its plaintext with --decrypt",
			UsageText: "aes256 records show [--decrypt] ID",
			Flags: []cli.Flag{
				&cli.BoolFlag{Name: "decrypt", Aliases: []string{"d"}, Usage: "Decrypt the stored ciphertext"},
			},
			Action: recordsShowCmd,
		},
	},
}

func recordsListCmd(c *cli.Context) error {
	s, err := openStore(configFrom(c))
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	defer s.Close()

	records, err := s.List(c.Context)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	if len(records) == 0 {
		fmt.Fprintln(c.App.ErrWriter, "No records stored.")
		return nil
	}
	tw := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tLABEL\tSIZE\tCREATED")
	for _, r := range records {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.ID, r.Label, humanize.Bytes(uint64(len(r.Ciphertext))), humanize.Time(r.CreatedAt))
	}
	return tw.Flush()
}

func recordsShowCmd(c *cli.Context) error {
	id := c.Args().First()
	if id == "" {
		return cli.Exit("Error: a record ID is required.", 1)
	}
	s, err := openStore(configFrom(c))
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	defer s.Close()

	r, err := s.Get(c.Context, id)
	if errors.Is(err, store.ErrNotFound) {
		return cli.Exit(fmt.Sprintf("No record with ID %s.", id), 1)
	}
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	if !c.Bool("decrypt") {
		fmt.Fprintln(c.App.Writer, r.Ciphertext)
		return nil
	}
	proc, _, err := newPipeline(c)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	pt, err := proc.OpenString(r.Ciphertext)
	if err != nil {
		return cli.Exit("Decryption failed. Check the key and the ciphertext.", 1)
	}
	fmt.Fprintln(c.App.Writer, pt)
	return nil
}
