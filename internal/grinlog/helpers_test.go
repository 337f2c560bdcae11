package grinlog

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"github.com/grinscan/grinscan/internal/model"
)

// hexCommitment returns a 66-character commitment made of the repeated seed.
func hexCommitment(seed byte) model.Commitment {
	return model.Commitment("08" + strings.Repeat(string(seed), model.CommitmentHexLen-2))
}

func wrap(c model.Commitment) string {
	return CommitmentPrefix + string(c) + CommitmentSuffix
}

func wrapAll(cs []model.Commitment) string {
	items := make([]string, len(cs))
	for i, c := range cs {
		items[i] = wrap(c)
	}
	return strings.Join(items, ItemSeparator)
}

// receivedTxLine renders a received-tx line the way a node logs it.
func receivedTxLine(inputs, outputs, kernels []model.Commitment) string {
	return fmt.Sprintf(
		"20190912 14:03:27.481 %s 5d2b9e01, %d/%d/%d in/out/kern, Inputs: [%s], Outputs: [%s], Kernels: [%s]",
		Marker, len(inputs), len(outputs), len(kernels),
		wrapAll(inputs), wrapAll(outputs), wrapAll(kernels),
	)
}

func gzipBytes(t *testing.T, text string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	if _, err := w.Write([]byte(text)); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func zstdBytes(t *testing.T, text string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w, err := zstd.NewWriter(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write([]byte(text)); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}
