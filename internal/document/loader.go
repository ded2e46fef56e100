package document

import (
	"bytes"
	"context"
	"crypto/sha256"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
)

// DefaultPattern matches authoring documents.
const DefaultPattern = "*.mml"

type LoaderConfig struct {
	// Pattern is a glob matched against the file name, or against the whole
	// slash separated path when it contains a separator.
	Pattern   string
	Recursive bool
}

// Loader discovers and parses documents inside a filesystem.
type Loader struct {
	fs        fs.FS
	pattern   string
	recursive bool
}

func NewLoader(filesystem fs.FS, cfg LoaderConfig) *Loader {
	pattern := strings.TrimSpace(cfg.Pattern)
	if pattern == "" {
		pattern = DefaultPattern
	}
	return &Loader{fs: filesystem, pattern: pattern, recursive: cfg.Recursive}
}

// Loaded pairs a parsed document with its source checksum.
type Loaded struct {
	Document *Document
	Checksum [sha256.Size]byte
}

// Load reads a single document.
func (l *Loader) Load(ctx context.Context, name string) (*Loaded, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	name = path.Clean(strings.TrimPrefix(name, "./"))
	data, err := fs.ReadFile(l.fs, name)
	if err != nil {
		return nil, fmt.Errorf("document loader read %s: %w", name, err)
	}
	doc, err := Read(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	doc.Path = name
	return &Loaded{Document: doc, Checksum: sha256.Sum256(data)}, nil
}

// LoadDir loads every matching document under dir, sorted by path.
func (l *Loader) LoadDir(ctx context.Context, dir string) ([]*Loaded, error) {
	root := path.Clean(dir)
	var out []*Loaded

	err := fs.WalkDir(l.fs, root, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			if p != root && !l.recursive {
				return fs.SkipDir
			}
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if !l.matches(p) {
			return nil
		}
		loaded, err := l.Load(ctx, p)
		if err != nil {
			return err
		}
		out = append(out, loaded)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Document.Path < out[j].Document.Path })
	return out, nil
}

func (l *Loader) matches(p string) bool {
	pattern := strings.ReplaceAll(l.pattern, "**/", "")
	target := path.Base(p)
	if strings.Contains(pattern, "/") {
		target = p
	}
	ok, err := path.Match(pattern, target)
	return err == nil && ok
}
