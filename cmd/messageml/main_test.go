package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func testGlobals() (*Globals, *bytes.Buffer) {
	var out bytes.Buffer
	return &Globals{LogProvider: "console", Seed: "cli", stdout: &out, stderr: &bytes.Buffer{}}, &out
}

func TestRenderFileToStdout(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "hello.mml", "<messageML>Hi <hash tag=\"go\"/></messageML>")

	g, out := testGlobals()
	cmd := &RenderCmd{Paths: []string{path}, Output: "markdown", Pattern: "*.mml"}
	if err := cmd.Run(g); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.String() != "Hi #go\n" {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestRenderDirectoryToOutDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "in/First Message.mml", "---\nversion: \"2.0\"\n---\n<messageML><b>one</b></messageML>")
	writeFile(t, dir, "in/second.mml", "<messageML>two</messageML>")
	outDir := filepath.Join(dir, "out")

	g, _ := testGlobals()
	cmd := &RenderCmd{Paths: []string{filepath.Join(dir, "in")}, Output: "presentation", OutDir: outDir, Pattern: "*.mml"}
	if err := cmd.Run(g); err != nil {
		t.Fatalf("Run: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(outDir, "first-message.html"))
	if err != nil {
		t.Fatalf("expected slugged output file: %v", err)
	}
	if !strings.Contains(string(data), "<b>one</b>") {
		t.Fatalf("unexpected presentation %s", data)
	}
	if _, err := os.Stat(filepath.Join(outDir, "second.html")); err != nil {
		t.Fatalf("expected second output: %v", err)
	}
}

func TestRenderReportsFaults(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bad.mml", "<messageML><blink/></messageML>")

	g, _ := testGlobals()
	err := (&RenderCmd{Paths: []string{path}, Output: "markdown"}).Run(g)
	if err == nil || !strings.Contains(err.Error(), "blink") {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestLegacyCommand(t *testing.T) {
	dir := t.TempDir()
	annotations := writeFile(t, dir, "ann.json", `[{"kind":"hashtag","indexStart":4,"indexEnd":7,"value":"go"}]`)

	g, out := testGlobals()
	cmd := &LegacyCmd{Text: "use #go", Annotations: annotations, Output: "index"}
	if err := cmd.Run(g); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(out.String(), `"indexStart": 4`) {
		t.Fatalf("unexpected index output %s", out.String())
	}
}

func TestPreviewCommand(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "p.mml", "<messageML><b>x</b></messageML>")

	g, out := testGlobals()
	if err := (&PreviewCmd{Path: path}).Run(g); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(out.String(), "<strong>x</strong>") {
		t.Fatalf("unexpected html %s", out.String())
	}
}

func TestOutputName(t *testing.T) {
	name, err := outputName("dir/Weekly Update.mml")
	if err != nil {
		t.Fatalf("outputName: %v", err)
	}
	if name != "weekly-update" {
		t.Fatalf("unexpected name %q", name)
	}
}

func TestVersionCommand(t *testing.T) {
	g, out := testGlobals()
	if err := (VersionCmd{}).Run(g); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.String() != "messageml dev\n" {
		t.Fatalf("unexpected output %q", out.String())
	}
}
