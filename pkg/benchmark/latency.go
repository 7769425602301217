// Package benchmark measures per-operation latency of the cipher layers.
package benchmark

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"time"

	"aes256-go"
	"aes256-go/pkg/aes"
	"aes256-go/pkg/transform"

	"github.com/dustin/go-humanize"
)

// LatencyResults holds the results of a latency benchmark
type LatencyResults struct {
	MinLatency    time.Duration
	MaxLatency    time.Duration
	AvgLatency    time.Duration
	MedianLatency time.Duration
	P95Latency    time.Duration
	P99Latency    time.Duration
	Iterations    int
	TotalTime     time.Duration
	PayloadSize   int
	Component     Component
}

// Throughput is payload bytes processed per second.
func (r *LatencyResults) Throughput() float64 {
	if r.TotalTime <= 0 {
		return 0
	}
	return float64(r.PayloadSize) * float64(r.Iterations) / r.TotalTime.Seconds()
}

// Component specifies which layer to benchmark
type Component int

const (
	ComponentBlock         Component = iota // single block encryption
	ComponentBlockHardened                  // single block, constant-time S-box
	ComponentEngine                         // Encrypt then Decrypt of a payload
	ComponentPipeline                       // zstd, cbc and base64 text pipeline round trip
)

var AllComponents = []Component{ComponentBlock, ComponentBlockHardened, ComponentEngine, ComponentPipeline}

func (c Component) String() string {
	switch c {
	case ComponentBlock:
		return "Block"
	case ComponentBlockHardened:
		return "Block (hardened)"
	case ComponentEngine:
		return "Engine round trip"
	case ComponentPipeline:
		return "Text pipeline round trip"
	default:
		return "Unknown"
	}
}

// ParseComponent maps a command-line name to a Component.
func ParseComponent(s string) (Component, error) {
	switch s {
	case "block":
		return ComponentBlock, nil
	case "hardened":
		return ComponentBlockHardened, nil
	case "engine":
		return ComponentEngine, nil
	case "pipeline":
		return ComponentPipeline, nil
	default:
		return 0, fmt.Errorf("unknown component: %s", s)
	}
}

// BenchmarkOptions provides configuration for benchmarks
type BenchmarkOptions struct {
	Component   Component
	Iterations  int
	PayloadSize int
}

func DefaultBenchmarkOptions() *BenchmarkOptions {
	return &BenchmarkOptions{
		Component:   ComponentEngine,
		Iterations:  1000,
		PayloadSize: 1024,
	}
}

var benchKey = []byte("aes256-go benchmark key 32 bytes")

// BenchmarkLatency measures latency for a specific component
func BenchmarkLatency(opts *BenchmarkOptions) (*LatencyResults, error) {
	if opts.Iterations <= 0 {
		return nil, fmt.Errorf("iterations must be positive, got %d", opts.Iterations)
	}
	payload := make([]byte, opts.PayloadSize)
	for i := range payload {
		payload[i] = byte(i % 251)
	}

	var op func() error
	size := opts.PayloadSize
	switch opts.Component {
	case ComponentBlock, ComponentBlockHardened:
		var cipherOpts []aes.Option
		if opts.Component == ComponentBlockHardened {
			cipherOpts = append(cipherOpts, aes.WithConstantTimeSubstitution())
		}
		block, err := aes.NewCipher(benchKey, cipherOpts...)
		if err != nil {
			return nil, err
		}
		var buf [aes.BlockSize]byte
		size = aes.BlockSize
		op = func() error { return block.EncryptBlock(buf[:], buf[:]) }
	case ComponentEngine:
		eng, err := aes256.NewEngine(benchKey)
		if err != nil {
			return nil, err
		}
		op = func() error {
			sealed, err := eng.Encrypt(payload)
			if err != nil {
				return err
			}
			opened, err := eng.Decrypt(sealed)
			if err != nil {
				return err
			}
			if !bytes.Equal(opened, payload) {
				return fmt.Errorf("verification failed")
			}
			return nil
		}
	case ComponentPipeline:
		eng, err := aes256.NewEngine(benchKey)
		if err != nil {
			return nil, err
		}
		proc, err := transform.NewTextPipeline(eng, transform.CodecZstd)
		if err != nil {
			return nil, err
		}
		op = func() error {
			sealed, err := proc.Seal(payload)
			if err != nil {
				return err
			}
			_, err = proc.Open(sealed)
			return err
		}
	default:
		return nil, fmt.Errorf("unknown component: %d", opts.Component)
	}

	latencies := make([]time.Duration, 0, opts.Iterations)
	start := time.Now()
	for i := 0; i < opts.Iterations; i++ {
		iterStart := time.Now()
		if err := op(); err != nil {
			return nil, fmt.Errorf("%s iteration %d: %w", opts.Component, i, err)
		}
		latencies = append(latencies, time.Since(iterStart))
	}
	results := calculateStats(latencies, time.Since(start))
	results.PayloadSize = size
	results.Component = opts.Component
	return results, nil
}

func calculateStats(latencies []time.Duration, totalTime time.Duration) *LatencyResults {
	if len(latencies) == 0 {
		return &LatencyResults{TotalTime: totalTime}
	}
	slices.Sort(latencies)

	var sum time.Duration
	for _, l := range latencies {
		sum += l
	}
	n := len(latencies)
	return &LatencyResults{
		MinLatency:    latencies[0],
		MaxLatency:    latencies[n-1],
		AvgLatency:    sum / time.Duration(n),
		MedianLatency: latencies[n/2],
		P95Latency:    latencies[n*95/100],
		P99Latency:    latencies[n*99/100],
		Iterations:    n,
		TotalTime:     totalTime,
	}
}

// RunAllBenchmarks runs every component with the given options
func RunAllBenchmarks(baseOpts *BenchmarkOptions) ([]*LatencyResults, error) {
	var results []*LatencyResults
	for _, component := range AllComponents {
		opts := *baseOpts
		opts.Component = component
		result, err := BenchmarkLatency(&opts)
		if err != nil {
			return results, err
		}
		results = append(results, result)
	}
	return results, nil
}

// PrintResults prints the results of a latency benchmark
func PrintResults(w io.Writer, r *LatencyResults) {
	fmt.Fprintf(w, "=== Latency Benchmark: %s ===\n", r.Component)
	fmt.Fprintf(w, "Payload Size: %s\n", humanize.IBytes(uint64(r.PayloadSize)))
	fmt.Fprintf(w, "Iterations: %s\n", humanize.Comma(int64(r.Iterations)))
	fmt.Fprintf(w, "Total Time: %v\n", r.TotalTime)
	fmt.Fprintf(w, "Throughput: %s/s\n", humanize.IBytes(uint64(r.Throughput())))
	fmt.Fprintf(w, "Min Latency: %v\n", r.MinLatency)
	fmt.Fprintf(w, "Avg Latency: %v\n", r.AvgLatency)
	fmt.Fprintf(w, "Median Latency: %v\n", r.MedianLatency)
	fmt.Fprintf(w, "95th Percentile: %v\n", r.P95Latency)
	fmt.Fprintf(w, "99th Percentile: %v\n", r.P99Latency)
	fmt.Fprintf(w, "Max Latency: %v\n", r.MaxLatency)
	fmt.Fprintln(w, "==========================================")
}

// SaveResultsToFile saves benchmark results to a CSV file, latencies in ns
func SaveResultsToFile(results []*LatencyResults, filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	w.Write([]string{"Component", "PayloadSize", "Iterations", "MinLatency", "AvgLatency", "MedianLatency", "P95Latency", "P99Latency", "MaxLatency", "TotalTime"})
	ns := func(d time.Duration) string { return strconv.FormatInt(d.Nanoseconds(), 10) }
	for _, r := range results {
		w.Write([]string{
			r.Component.String(),
			strconv.Itoa(r.PayloadSize),
			strconv.Itoa(r.Iterations),
			ns(r.MinLatency), ns(r.AvgLatency), ns(r.MedianLatency),
			ns(r.P95Latency), ns(r.P99Latency), ns(r.MaxLatency), ns(r.TotalTime),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}
