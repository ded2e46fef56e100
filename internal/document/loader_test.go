package document

import (
	"context"
	"testing"
	"testing/fstest"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"messages/b.mml":        {Data: []byte("<messageML>b</messageML>")},
		"messages/a.mml":        {Data: []byte("---\nversion: \"2.0\"\n---\n<messageML>a</messageML>")},
		"messages/notes.txt":    {Data: []byte("ignored")},
		"messages/nested/c.mml": {Data: []byte("<messageML>c</messageML>")},
	}
}

func TestLoaderLoadDirFlat(t *testing.T) {
	loaded, err := NewLoader(testFS(), LoaderConfig{}).LoadDir(context.Background(), "messages")
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("expected two documents, got %d", len(loaded))
	}
	if loaded[0].Document.Path != "messages/a.mml" || loaded[0].Document.FrontMatter.Version != "2.0" {
		t.Fatalf("unexpected first document %+v", loaded[0].Document)
	}
	if loaded[1].Document.Markup != "<messageML>b</messageML>" {
		t.Fatalf("unexpected second document %+v", loaded[1].Document)
	}
	if loaded[0].Checksum == loaded[1].Checksum {
		t.Fatal("expected distinct checksums")
	}
}

func TestLoaderLoadDirRecursive(t *testing.T) {
	loaded, err := NewLoader(testFS(), LoaderConfig{Recursive: true}).LoadDir(context.Background(), "messages")
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	if len(loaded) != 3 || loaded[2].Document.Path != "messages/nested/c.mml" {
		t.Fatalf("expected nested document last, got %d documents", len(loaded))
	}
}

func TestLoaderPattern(t *testing.T) {
	loaded, err := NewLoader(testFS(), LoaderConfig{Pattern: "*.txt"}).LoadDir(context.Background(), "messages")
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	if len(loaded) != 1 || loaded[0].Document.Markup != "ignored" {
		t.Fatalf("expected the text file only, got %d documents", len(loaded))
	}
}

func TestLoaderLoadMissing(t *testing.T) {
	if _, err := NewLoader(testFS(), LoaderConfig{}).Load(context.Background(), "missing.mml"); err == nil {
		t.Fatal("expected error for a missing file")
	}
}
