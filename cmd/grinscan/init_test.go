package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/grinscan/grinscan/internal/config"
)

func TestNewInitCmd(t *testing.T) {
	t.Parallel()

	cmd := NewInitCmd()

	t.Run("has output flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("output")
		if flag == nil {
			t.Fatal("expected output flag")
		}
		if flag.Shorthand != "o" {
			t.Errorf("expected shorthand 'o', got %q", flag.Shorthand)
		}
		if flag.DefValue != ".grinscan" {
			t.Errorf("expected default %q, got %q", ".grinscan", flag.DefValue)
		}
	})

	t.Run("has force flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("force")
		if flag == nil {
			t.Fatal("expected force flag")
		}
		if flag.Shorthand != "f" {
			t.Errorf("expected shorthand 'f', got %q", flag.Shorthand)
		}
	})
}

func runInit(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewInitCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRunInitCmd(t *testing.T) {
	t.Parallel()

	t.Run("creates a valid config file", func(t *testing.T) {
		t.Parallel()

		outputPath := filepath.Join(t.TempDir(), "nested", ".grinscan")
		out, err := runInit(t, "-o", outputPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, "Created configuration file") {
			t.Errorf("unexpected output: %q", out)
		}

		file, err := config.LoadConfigFile(outputPath)
		if err != nil {
			t.Fatalf("template does not load: %v", err)
		}

		cfg := config.NewConfig()
		file.Apply(cfg)
		if err := cfg.Validate(); err != nil {
			t.Errorf("template does not validate: %v", err)
		}
		if len(cfg.Sources) != 3 {
			t.Errorf("expected 3 sources, got %d", len(cfg.Sources))
		}

		want := []string{
			"aws_eu [aws_eu] intersection(aws_eu)",
			"aws_us [aws_us] intersection(aws_us)",
			"htz_eu_vs_aws [htz_eu] union(aws_eu, aws_us)",
			"htz_eu [htz_eu] intersection(htz_eu)",
			"combined [aws_eu aws_us htz_eu] intersection(aws_eu, aws_us, htz_eu)",
		}
		got := make([]string, len(cfg.Analyses))
		for i, a := range cfg.Analyses {
			got[i] = fmt.Sprintf("%s %v %s", a.Name, a.Transactions, a.Targets)
		}
		if !slices.Equal(got, want) {
			t.Errorf("unexpected template analyses:\n got %q\nwant %q", got, want)
		}
	})

	t.Run("refuses to overwrite", func(t *testing.T) {
		t.Parallel()

		outputPath := filepath.Join(t.TempDir(), ".grinscan")
		if err := os.WriteFile(outputPath, []byte("sources: []\n"), 0600); err != nil {
			t.Fatal(err)
		}

		if _, err := runInit(t, "-o", outputPath); err == nil {
			t.Error("expected error for existing file")
		}
		content, err := os.ReadFile(outputPath)
		if err != nil {
			t.Fatal(err)
		}
		if string(content) != "sources: []\n" {
			t.Error("existing file was modified")
		}
	})

	t.Run("force overwrites", func(t *testing.T) {
		t.Parallel()

		outputPath := filepath.Join(t.TempDir(), ".grinscan")
		if err := os.WriteFile(outputPath, []byte("old"), 0600); err != nil {
			t.Fatal(err)
		}

		if _, err := runInit(t, "-o", outputPath, "-f"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		content, err := os.ReadFile(outputPath)
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(string(content), "analyses:") {
			t.Error("expected template contents")
		}
	})
}
