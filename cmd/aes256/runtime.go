package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"aes256-go"
	"aes256-go/pkg/config"
	"aes256-go/pkg/keyderive"
	"aes256-go/pkg/log"
	"aes256-go/pkg/store"
	"aes256-go/pkg/transform"

	"github.com/urfave/cli/v2"
	"golang.org/x/term"
)

const cfgKey = "aes256.config"

// setup loads the configuration and routes logging before any command runs.
func setup(c *cli.Context) error {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}
	if c.IsSet("hardened") {
		cfg.Hardened = c.Bool("hardened")
	}
	if c.IsSet("compress") {
		cfg.Compression = c.String("compress")
		if err := cfg.Validate(); err != nil {
			return cli.Exit(err.Error(), 2)
		}
	}
	if lvl := c.String("log-level"); lvl != "" {
		cfg.Log.Level = lvl
	}
	if err := log.SetLevel(cfg.Log.Level); err != nil {
		return cli.Exit(err.Error(), 2)
	}
	switch cfg.Log.Sink {
	case "console":
		log.SetStd()
	case "sqlite":
		if err := log.Init(cfg.Log.DBFile); err != nil {
			return cli.Exit(fmt.Sprintf("Error initializing logger: %v", err), 2)
		}
	}
	if cfg.ConfigFile != "" {
		log.Debug().Str("file", cfg.ConfigFile).Msg("configuration loaded")
	}
	c.App.Metadata = map[string]any{cfgKey: cfg}
	return nil
}

func configFrom(c *cli.Context) *config.Config {
	if cfg, ok := c.App.Metadata[cfgKey].(*config.Config); ok {
		return cfg
	}
	return config.DefaultConfig()
}

// readPassphrase takes the flag or environment value, else prompts on the
// terminal without echo.
func readPassphrase(c *cli.Context) ([]byte, error) {
	if p := c.String("passphrase"); p != "" {
		return []byte(p), nil
	}
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return nil, errors.New("no passphrase: use --passphrase, AES256_PASSPHRASE or a terminal")
	}
	fmt.Fprint(c.App.ErrWriter, "Enter secret key: ")
	p, err := term.ReadPassword(fd)
	fmt.Fprintln(c.App.ErrWriter)
	if err != nil {
		return nil, fmt.Errorf("reading passphrase: %w", err)
	}
	return p, nil
}

func newEngine(c *cli.Context, cfg *config.Config) (*aes256.Engine, error) {
	pass, err := readPassphrase(c)
	if err != nil {
		return nil, err
	}
	deriver, err := keyderive.New(cfg.KDF.Params())
	if err != nil {
		return nil, err
	}
	key, err := deriver.DeriveKey(pass)
	if err != nil {
		return nil, err
	}
	opts := []aes256.Option{aes256.WithLogger(log.Logger())}
	if cfg.Hardened {
		opts = append(opts, aes256.WithHardening())
	}
	return aes256.NewEngine(key, opts...)
}

func newPipeline(c *cli.Context) (*transform.Processor, *config.Config, error) {
	cfg := configFrom(c)
	eng, err := newEngine(c, cfg)
	if err != nil {
		return nil, nil, err
	}
	proc, err := transform.NewTextPipeline(eng, cfg.Compression)
	if err != nil {
		return nil, nil, err
	}
	return proc, cfg, nil
}

func openStore(cfg *config.Config) (store.Store, error) {
	s, err := store.Open(cfg.Store.Driver, cfg.Store.Path)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("driver", cfg.Store.Driver).Str("path", cfg.Store.Path).Msg("record store opened")
	return s, nil
}

// inputText returns the arguments, or all of stdin when there are none.
func inputText(c *cli.Context) (string, error) {
	if c.NArg() > 0 {
		return strings.Join(c.Args().Slice(), " "), nil
	}
	b, err := io.ReadAll(bufio.NewReader(c.App.Reader))
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(b), "\r\n"), nil
}
