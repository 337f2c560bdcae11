package pipeline

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/grinscan/grinscan/internal/grinlog"
	"github.com/grinscan/grinscan/internal/model"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// commitment returns a 66-character commitment made of the repeated seed.
func commitment(seed byte) model.Commitment {
	return model.Commitment("09" + strings.Repeat(string(seed), model.CommitmentHexLen-2))
}

func commitments(seeds string) []model.Commitment {
	out := make([]model.Commitment, len(seeds))
	for i := range len(seeds) {
		out[i] = commitment(seeds[i])
	}
	return out
}

// txLine renders a received-tx log line for the given seeds.
func txLine(inputs, outputs, kernels string) string {
	section := func(seeds string) string {
		items := make([]string, 0, len(seeds))
		for _, c := range commitments(seeds) {
			items = append(items, grinlog.CommitmentPrefix+string(c)+grinlog.CommitmentSuffix)
		}
		return strings.Join(items, grinlog.ItemSeparator)
	}
	return fmt.Sprintf("20190912 14:03:27.481 %s 5d2b9e01, %d/%d/%d in/out/kern, Inputs: [%s], Outputs: [%s], Kernels: [%s]",
		grinlog.Marker, len(inputs), len(outputs), len(kernels),
		section(inputs), section(outputs), section(kernels))
}

func writeLog(t *testing.T, dir, name string, lines ...string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

// Transactions shared by the tests. Kernels are 1-4.
var (
	txA = txLine("a", "b", "1")
	txB = txLine("c", "d", "12")
	txC = txLine("e", "f", "34")
)

const noise = "20190912 14:03:27.100 INFO grin_servers::common::adapters - Received block"
