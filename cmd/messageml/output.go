package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/goccy/go-json"
	"github.com/goliatone/go-slug"

	messageml "github.com/goliatone/go-messageml"
)

// emitter writes compiled messages to stdout or, with dir set, to one file
// per message named after the slug of its source.
type emitter struct {
	out    io.Writer
	dir    string
	output string

	mu sync.Mutex
}

type jsonResult struct {
	Source       string             `json:"source"`
	Format       string             `json:"format"`
	Version      string             `json:"version"`
	Presentation string             `json:"presentation"`
	Markdown     string             `json:"markdown"`
	Entities     messageml.Envelope `json:"entities"`
	Index        messageml.Index    `json:"index"`
}

func (e *emitter) sink(_ context.Context, source string, result *messageml.Result) error {
	body, ext, err := e.encode(source, result)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.dir == "" {
		if _, err := e.out.Write(body); err != nil {
			return err
		}
		if !strings.HasSuffix(string(body), "\n") {
			_, err = io.WriteString(e.out, "\n")
		}
		return err
	}

	name, err := outputName(source)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(e.dir, name+ext), body, 0o644)
}

func (e *emitter) encode(source string, result *messageml.Result) ([]byte, string, error) {
	switch e.output {
	case "markdown":
		return []byte(result.Markdown), ".md", nil
	case "entities":
		data, err := json.MarshalIndent(result.Envelope, "", "  ")
		return data, ".entities.json", err
	case "index":
		data, err := json.MarshalIndent(result.Index, "", "  ")
		return data, ".index.json", err
	case "json":
		data, err := json.MarshalIndent(jsonResult{
			Source:       source,
			Format:       result.Format.String(),
			Version:      result.Version,
			Presentation: result.Presentation,
			Markdown:     result.Markdown,
			Entities:     result.Envelope,
			Index:        result.Index,
		}, "", "  ")
		return data, ".json", err
	default:
		return []byte(result.Presentation), ".html", nil
	}
}

func outputName(source string) (string, error) {
	base := filepath.Base(source)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	name, err := slug.Normalize(base)
	if err != nil {
		return "", fmt.Errorf("output name for %s: %w", source, err)
	}
	if name == "" {
		name = "message"
	}
	return name, nil
}
