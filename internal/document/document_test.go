package document

import (
	"strings"
	"testing"
)

func TestLoadFileReadsFrontMatter(t *testing.T) {
	doc, err := LoadFile("testdata/welcome.mml")
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	if doc.Path != "testdata/welcome.mml" {
		t.Fatalf("expected path to be recorded, got %q", doc.Path)
	}
	if doc.FrontMatter.Version != "2.0" || doc.FrontMatter.Format != "messageml" {
		t.Fatalf("unexpected front matter: %+v", doc.FrontMatter)
	}
	entry, ok := doc.FrontMatter.Data["obj1"].(map[string]any)
	if !ok || entry["type"] != "org.symphonyoss.taxonomy" {
		t.Fatalf("expected envelope entry obj1, got %#v", doc.FrontMatter.Data)
	}
	if doc.FrontMatter.Custom["channel"] != "announcements" {
		t.Fatalf("expected custom keys inline, got %#v", doc.FrontMatter.Custom)
	}
	if !strings.HasPrefix(doc.Markup, "<messageML>") {
		t.Fatalf("expected markup body, got %q", doc.Markup)
	}
}

func TestParseWithoutFrontMatter(t *testing.T) {
	doc, err := Parse([]byte("<messageML>Hello!</messageML>\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if doc.Markup != "<messageML>Hello!</messageML>" {
		t.Fatalf("unexpected markup %q", doc.Markup)
	}
	if doc.FrontMatter.Data != nil {
		t.Fatalf("expected no envelope, got %#v", doc.FrontMatter.Data)
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile("testdata/missing.mml"); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}
