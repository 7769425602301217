package main

import (
	"fmt"

	"aes256-go/pkg/benchmark"
	"aes256-go/pkg/log"

	"github.com/urfave/cli/v2"
)

var benchCommand = &cli.Command{
	Name:  "bench",
	Usage: "Measure per-operation latency of the cipher layers",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "component", Value: "engine", Usage: "Layer to measure: block, hardened, engine, pipeline"},
		&cli.BoolFlag{Name: "all", Usage: "Measure every layer"},
		&cli.IntFlag{Name: "iterations", Aliases: []string{"n"}, Value: 1000, Usage: "Iterations `NUMBER`"},
		&cli.IntFlag{Name: "size", Value: 1024, Usage: "Payload size in `BYTES`"},
		&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Also save results as CSV to `FILE`"},
	},
	Action: benchCmd,
}

func benchCmd(c *cli.Context) error {
	opts := &benchmark.BenchmarkOptions{
		Iterations:  c.Int("iterations"),
		PayloadSize: c.Int("size"),
	}
	var results []*benchmark.LatencyResults
	if c.Bool("all") {
		all, err := benchmark.RunAllBenchmarks(opts)
		if err != nil {
			return cli.Exit(err.Error(), 1)
		}
		results = all
	} else {
		component, err := benchmark.ParseComponent(c.String("component"))
		if err != nil {
			return cli.Exit(err.Error(), 1)
		}
		opts.Component = component
		r, err := benchmark.BenchmarkLatency(opts)
		if err != nil {
			return cli.Exit(err.Error(), 1)
		}
		results = append(results, r)
	}
	for _, r := range results {
		benchmark.PrintResults(c.App.Writer, r)
	}
	if out := c.String("output"); out != "" {
		if err := benchmark.SaveResultsToFile(results, out); err != nil {
			return cli.Exit(fmt.Sprintf("Error saving results: %v", err), 1)
		}
		log.Info().Str("file", out).Int("results", len(results)).Msg("benchmark results saved")
	}
	return nil
}
