package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestPrettyLabel(t *testing.T) {
	cases := map[string]string{
		"running":     "Running",
		"video_codec": "Video Codec",
		"  failed  ":  "Failed",
		"":            "",
	}
	for in, want := range cases {
		if got := prettyLabel(in); got != want {
			t.Fatalf("prettyLabel(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatMiB(t *testing.T) {
	if got := formatMiB(0); got != "-" {
		t.Fatalf("formatMiB(0) = %q", got)
	}
	if got := formatMiB(10 * 1024 * 1024); got != "10.0 MiB" {
		t.Fatalf("formatMiB = %q", got)
	}
}

func TestRenderTablePadsShortRows(t *testing.T) {
	out := renderTable(
		[]string{"A", "B"},
		[][]string{{"only-a"}},
		[]columnAlignment{alignLeft, alignRight},
	)
	if !strings.Contains(out, "only-a") {
		t.Fatalf("table output missing cell:\n%s", out)
	}
}

func TestIsInteractiveRedirectedWriter(t *testing.T) {
	// A command writing to anything but a terminal file must fall back to
	// line-by-line progress, never in-place rewriting.
	var buf bytes.Buffer
	if isInteractive(&buf) {
		t.Fatal("buffer-backed writer reported as interactive")
	}
}

func TestRootCommandWiring(t *testing.T) {
	root := newRootCommand()
	for _, name := range []string{"probe", "capabilities", "estimate", "convert", "history", "status", "config"} {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd == root {
			t.Fatalf("command %q not registered: %v", name, err)
		}
	}

	show, _, err := root.Find([]string{"history", "show"})
	if err != nil || show.Name() != "show" {
		t.Fatalf("history show not registered: %v", err)
	}
	probe, _, err := root.Find([]string{"probe"})
	if err != nil {
		t.Fatalf("probe not registered: %v", err)
	}
	if probe.Flags().Lookup("json") == nil {
		t.Fatal("probe is missing the json flag")
	}
}
