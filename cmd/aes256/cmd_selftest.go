package main

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"

	"aes256-go"
	"aes256-go/internal/fn"
	"aes256-go/pkg/aes"
	"aes256-go/pkg/cbc"
	"aes256-go/pkg/hexdump"

	"github.com/urfave/cli/v2"
)

var selftestCommand = &cli.Command{
	Name:  "selftest",
	Usage: "Run the built-in known-answer tests",
	Flags: []cli.Flag{
		&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "Dump the expanded round keys"},
	},
	Action: func(c *cli.Context) error {
		if err := selfTest(c.App.Writer, c.Bool("verbose")); err != nil {
			return cli.Exit(err.Error(), 1)
		}
		return nil
	},
}

type blockVector struct {
	name            string
	key, iv, pt, ct string
}

var selfTestVectors = []blockVector{
	{
		name: "FIPS-197 C.3",
		key:  "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f",
		pt:   "00112233445566778899aabbccddeeff",
		ct:   "8ea2b7ca516745bfeafc49904b496089",
	},
	{
		name: "SP 800-38A F.2.5",
		key:  "603deb1015ca71be2b73aef0857d77811f352c073b6108d72d9810a30914dff4",
		iv:   "000102030405060708090a0b0c0d0e0f",
		pt:   "6bc1bee22e409f96e93d7e117393172aae2d8a571e03ac9c9eb76fac45af8e51",
		ct:   "f58c4c04d6e5f1ba779eabfb5f7bfbd69cfc4e967edb808d679f777bc6702c7d",
	},
}

func unhex(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic(err)
	}
	return b
}

func checkVector(v blockVector, opts ...aes.Option) error {
	block, err := aes.NewCipher(unhex(v.key), opts...)
	if err != nil {
		return err
	}
	pt, want := unhex(v.pt), unhex(v.ct)
	var got []byte
	if v.iv == "" {
		got = make([]byte, aes.BlockSize)
		err = block.EncryptBlock(got, pt)
	} else {
		got, err = cbc.New(block, nil).EncryptBlocks(unhex(v.iv), pt)
	}
	if err != nil {
		return err
	}
	if !bytes.Equal(got, want) {
		return fmt.Errorf("%s: got %x, want %x", v.name, got, want)
	}
	return nil
}

// selfTest checks the block cipher, CBC chaining and a full engine round
// trip in both substitution modes, reporting one line per check.
func selfTest(w io.Writer, verbose bool) error {
	failed := 0
	report := func(name string, err error) {
		fmt.Fprintf(w, "%-32s %s\n", name, fn.T(err == nil, "ok", fmt.Sprintf("FAIL: %v", err)))
		if err != nil {
			failed++
		}
	}

	for _, v := range selfTestVectors {
		report(v.name, checkVector(v))
		report(v.name+" (hardened)", checkVector(v, aes.WithConstantTimeSubstitution()))
	}

	eng, err := aes256.NewEngine(unhex(selfTestVectors[0].key))
	if err == nil {
		var sealed, opened []byte
		msg := []byte("The quick brown fox jumps over the lazy dog")
		sealed, err = eng.Encrypt(msg)
		if err == nil {
			opened, err = eng.Decrypt(sealed)
		}
		if err == nil && !bytes.Equal(opened, msg) {
			err = fmt.Errorf("round trip returned %q", opened)
		}
	}
	report("engine round trip", err)

	if verbose {
		rk, err := aes.ExpandKey(unhex(selfTestVectors[0].key))
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "\nround keys for %s:\n", selfTestVectors[0].name)
		var all []byte
		for r := 0; r <= aes.Rounds; r++ {
			k := rk.Round(r)
			all = append(all, k[:]...)
		}
		if err := hexdump.Fprint(w, 0, all); err != nil {
			return err
		}
	}

	if failed > 0 {
		return fmt.Errorf("selftest: %d check(s) failed", failed)
	}
	return nil
}
