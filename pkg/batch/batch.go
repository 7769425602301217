// Package batch runs a text pipeline over many lines concurrently.
package batch

import (
	"context"
	"fmt"

	"aes256-go/pkg/transform"

	"golang.org/x/sync/errgroup"
)

type lineFunc func(string) (string, error)

// EncryptLines seals every line, keeping input order. workers < 1 means one.
func EncryptLines(ctx context.Context, proc *transform.Processor, lines []string, workers int) ([]string, error) {
	return run(ctx, proc.SealString, lines, workers)
}

// DecryptLines opens every line, keeping input order. The first failure
// cancels the remaining work and is returned with its line number.
func DecryptLines(ctx context.Context, proc *transform.Processor, lines []string, workers int) ([]string, error) {
	return run(ctx, proc.OpenString, lines, workers)
}

func run(ctx context.Context, fn lineFunc, lines []string, workers int) ([]string, error) {
	if workers < 1 {
		workers = 1
	}
	out := make([]string, len(lines))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, line := range lines {
		i, line := i, line
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := fn(line)
			if err != nil {
				return fmt.Errorf("line %d: %w", i+1, err)
			}
			out[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
