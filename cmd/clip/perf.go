package clip

import (
	"context"
	"encoding/csv"
	"fmt"
	"github.com/ValentinKolb/rpClip/cmd/util"
	"github.com/ValentinKolb/rpClip/rpc/client"
	"github.com/ValentinKolb/rpClip/rpc/common"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
	"testing"
	"time"
)

var (
	// PerfCmd benchmarks a running server
	PerfCmd = &cobra.Command{
		Use:   "perf",
		Short: "Performance testing tool for rpClip servers",
		Long: `Performance testing tool for rpClip servers. Every parallel worker opens its own
connection, so the benchmark also measures how the server serializes clipboard
access across sessions. The clipboard of the server is overwritten during the
run and restored afterwards.`,
		Args:    cobra.NoArgs,
		PreRunE: processPerfConfig,
		RunE:    runPerf,
	}
	perfOpts = perfOptions{}
)

// perfOptions configures one benchmark run
type perfOptions struct {
	Threads          int
	LargeValueSizeKB int
	Skip             []string
}

func init() {
	util.SetupClientFlags(PerfCmd)

	key := "skip"
	PerfCmd.Flags().String(key, "", util.WrapString("Benchmarks to skip (comma separated - e.g. set,get)"))
	key = "threads"
	PerfCmd.Flags().Int(key, 10, util.WrapString("Number of parallel connections to use for the benchmark"))
	key = "large-value-size"
	PerfCmd.Flags().Int(key, 1000, util.WrapString("How large the text for the set-large test should be (in KB)"))
	key = "csv"
	PerfCmd.Flags().String(key, "", util.WrapString("Optional path to save benchmark results as CSV"))
}

func processPerfConfig(cmd *cobra.Command, _ []string) error {
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	perfOpts.LargeValueSizeKB = viper.GetInt("large-value-size")
	perfOpts.Threads = viper.GetInt("threads")
	perfOpts.Skip = nil
	if skip := viper.GetString("skip"); skip != "" {
		perfOpts.Skip = strings.Split(skip, ",")
	}
	return nil
}

func runPerf(cmd *cobra.Command, _ []string) error {
	config, err := setup(cmd)
	if err != nil {
		return err
	}
	c, err := dialConfig(config)
	if err != nil {
		return err
	}
	defer c.Close()

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Performance testing tool for rpClip servers")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Configuration:")
	fmt.Fprintln(out, config.String())
	fmt.Fprintf(out, "Threads: %d\n\n", perfOpts.Threads)

	ctx := commandContext(cmd)

	// Keep the clipboard of the server as it was
	original, err := c.GetClip(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := c.SetClip(context.Background(), original); err != nil {
			util.Logger.Errorf("Failed to restore the clipboard: %v", err)
		}
	}()

	dial := func() (*client.RPCClipboard, error) { return dialConfig(config) }

	fmt.Fprintln(out, "starting tests...")
	results := benchmark(ctx, dial, perfOpts, out)

	if csvPath := viper.GetString("csv"); csvPath != "" {
		if err := writeResultsToCSV(csvPath, results, config, perfOpts); err != nil {
			return err
		}
		fmt.Fprintf(out, "\nResults written to %s\n", csvPath)
	}
	return nil
}

// benchmark runs all benchmarks not listed in opts.Skip. Every parallel
// worker uses its own connection created by dial.
func benchmark(ctx context.Context, dial func() (*client.RPCClipboard, error), opts perfOptions, out io.Writer) map[string]testing.BenchmarkResult {
	largeValue := strings.Repeat("x", opts.LargeValueSizeKB*1024)

	tests := []struct {
		name string
		op   func(c *client.RPCClipboard) error
	}{
		{"set", func(c *client.RPCClipboard) error { return c.SetClip(ctx, "test") }},
		{"set-large", func(c *client.RPCClipboard) error { return c.SetClip(ctx, largeValue) }},
		{"get", func(c *client.RPCClipboard) error { _, err := c.GetClip(ctx); return err }},
	}

	results := make(map[string]testing.BenchmarkResult)
	for _, tc := range tests {
		if shouldSkip(opts.Skip, tc.name) {
			results[tc.name] = testing.BenchmarkResult{}
			printResult(out, tc.name, results[tc.name])
			continue
		}

		result := testing.Benchmark(func(b *testing.B) {
			b.SetParallelism(max(opts.Threads, 1))
			b.ResetTimer()

			b.RunParallel(func(pb *testing.PB) {
				c, err := dial()
				if err != nil {
					util.Logger.Errorf("(%s) - error connecting: %v", tc.name, err)
					for pb.Next() {
					}
					return
				}
				defer c.Close()

				for pb.Next() {
					if err := tc.op(c); err != nil {
						util.Logger.Errorf("(%s) - request failed: %v", tc.name, err)
					}
				}
			})
		})

		results[tc.name] = result
		printResult(out, tc.name, result)
	}
	return results
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

func shouldSkip(skip []string, test string) bool {
	for _, s := range skip {
		if strings.TrimSpace(s) == test {
			return true
		}
	}
	return false
}

// opsPerSec converts a benchmark result to operations per second, 0 if skipped
func opsPerSec(result testing.BenchmarkResult) (nsPerOp, perSec float64) {
	if result.N == 0 {
		return 0, 0
	}
	nsPerOp = math.Max(float64(result.NsPerOp()), 1) // prevent division by zero
	return nsPerOp, 1.0 / (nsPerOp / 1e9)
}

// printResult prints the result of a benchmark test in a formatted way
func printResult(out io.Writer, test string, result testing.BenchmarkResult) {
	if result.N == 0 {
		fmt.Fprintf(out, "%-20sskipped\n", test)
		return
	}
	nsPerOp, perSec := opsPerSec(result)
	fmt.Fprintf(out, "%-20s%.0fns/op (%s/op)\t%.0f ops/sec\n", test, nsPerOp, time.Duration(nsPerOp), perSec)
}

// writeResultsToCSV writes benchmark results to a CSV file
func writeResultsToCSV(csvPath string, results map[string]testing.BenchmarkResult, config common.ClientConfig, opts perfOptions) error {
	file, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	header := []string{
		"Test", "NsPerOp", "DurationPerOp", "OpsPerSec", "Skipped",
		"Server", "TimeoutSec", "Serializer", "Threads", "LargeValueSizeKB",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	tests := make([]string, 0, len(results))
	for test := range results {
		tests = append(tests, test)
	}
	sort.Strings(tests)

	for _, test := range tests {
		result := results[test]
		nsPerOp, perSec := opsPerSec(result)

		row := []string{
			test,
			fmt.Sprintf("%.0f", nsPerOp),
			time.Duration(nsPerOp).String(),
			fmt.Sprintf("%.0f", perSec),
			strconv.FormatBool(result.N == 0),
			config.Address.String(),
			strconv.Itoa(config.TimeoutSecond),
			viper.GetString("serializer"),
			strconv.Itoa(opts.Threads),
			strconv.Itoa(opts.LargeValueSizeKB),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row for test %s: %w", test, err)
		}
	}

	writer.Flush()
	return writer.Error()
}
