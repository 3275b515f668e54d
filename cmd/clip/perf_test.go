package clip

import (
	"bytes"
	"context"
	"encoding/csv"
	"github.com/ValentinKolb/rpClip/lib/clipboard"
	"github.com/ValentinKolb/rpClip/rpc/client"
	"github.com/ValentinKolb/rpClip/rpc/common"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestBenchmarkSkipsAndRuns(t *testing.T) {
	if testing.Short() {
		t.Skip("benchmark run takes about a second")
	}

	addr := startServer(t, clipboard.NewMemoryClipboard())
	config := common.ClientConfig{Address: common.MustParseAddress(addr), TimeoutSecond: 10}
	dial := func() (*client.RPCClipboard, error) { return dialConfig(config) }

	var out bytes.Buffer
	results := benchmark(context.Background(), dial, perfOptions{
		Threads:          2,
		LargeValueSizeKB: 1,
		Skip:             []string{"set", "set-large"},
	}, &out)

	if len(results) != 3 {
		t.Fatalf("Expected 3 results, got %d", len(results))
	}
	if results["set"].N != 0 || results["set-large"].N != 0 {
		t.Errorf("Skipped benchmarks were run")
	}
	if results["get"].N == 0 {
		t.Errorf("get benchmark did not run")
	}
	if !strings.Contains(out.String(), "skipped") || !strings.Contains(out.String(), "ops/sec") {
		t.Errorf("Unexpected output:\n%s", out.String())
	}
}

func TestWriteResultsToCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.csv")
	results := map[string]testing.BenchmarkResult{
		"set": {},
		"get": {N: 1000, T: 1000000},
	}
	config := common.ClientConfig{Address: common.MustParseAddress("localhost:6667"), TimeoutSecond: 5}

	if err := writeResultsToCSV(path, results, config, perfOptions{Threads: 4, LargeValueSizeKB: 10}); err != nil {
		t.Fatalf("writeResultsToCSV failed: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}

	if len(rows) != 3 {
		t.Fatalf("Expected header and 2 rows, got %d rows", len(rows))
	}
	// rows are sorted by test name
	if rows[1][0] != "get" || rows[1][1] != "1000" || rows[1][4] != "false" {
		t.Errorf("Unexpected get row %v", rows[1])
	}
	if rows[2][0] != "set" || rows[2][4] != "true" {
		t.Errorf("Unexpected set row %v", rows[2])
	}
}
