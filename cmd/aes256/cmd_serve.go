package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"aes256-go/pkg/api"
	"aes256-go/pkg/log"

	"github.com/urfave/cli/v2"
)

var serveCommand = &cli.Command{
	Name:  "serve",
	Usage: "Serve the encrypt/decrypt HTTP API",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "listen", Usage: "Listen `ADDRESS` (default from config)"},
		&cli.BoolFlag{Name: "no-store", Usage: "Disable the record store routes"},
	},
	Action: serveCmd,
}

func serveCmd(c *cli.Context) error {
	proc, cfg, err := newPipeline(c)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	opts := []api.Option{api.WithLogger(log.Logger())}
	if !c.Bool("no-store") {
		s, err := openStore(cfg)
		if err != nil {
			return cli.Exit(err.Error(), 1)
		}
		defer s.Close()
		opts = append(opts, api.WithStore(s, cfg.Store.StorePlaintext))
	}

	addr := cfg.APIListenAddr
	if c.IsSet("listen") {
		addr = c.String("listen")
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := api.NewServer(proc, opts...).Run(ctx, addr); err != nil {
		return cli.Exit(err.Error(), 1)
	}
	log.Printf("api server stopped")
	return nil
}
