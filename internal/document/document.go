// Package document loads authoring files: YAML front matter followed by the
// markup body.
package document

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/adrg/frontmatter"
	"gopkg.in/yaml.v3"
)

// yamlFormat decodes front matter with yaml.v3 so nested envelope entries
// come back as map[string]any.
var yamlFormat = frontmatter.NewFormat("---", "---", yaml.Unmarshal)

// FrontMatter carries the per-document settings. Data is the caller entity
// envelope and doubles as the template context.
type FrontMatter struct {
	Version string         `yaml:"version"`
	Format  string         `yaml:"format"`
	Data    map[string]any `yaml:"data"`
	Custom  map[string]any `yaml:",inline"`
}

type Document struct {
	Path        string
	FrontMatter FrontMatter
	Markup      string
}

// Read parses a document from r. Input without front matter is returned as
// bare markup.
func Read(r io.Reader) (*Document, error) {
	var meta FrontMatter
	body, err := frontmatter.Parse(r, &meta, yamlFormat)
	if err != nil {
		return nil, fmt.Errorf("parse frontmatter: %w", err)
	}
	if meta.Custom == nil {
		meta.Custom = map[string]any{}
	}
	return &Document{
		FrontMatter: meta,
		Markup:      strings.TrimSpace(string(body)),
	}, nil
}

// Parse is Read over an in-memory source.
func Parse(source []byte) (*Document, error) {
	return Read(bytes.NewReader(source))
}

// LoadFile reads and parses the document stored at path.
func LoadFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open document %s: %w", path, err)
	}
	defer f.Close()

	doc, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	doc.Path = path
	return doc, nil
}
