package main

import (
	"context"

	messageml "github.com/goliatone/go-messageml"
	"github.com/goliatone/go-messageml/internal/document"
)

type PreviewCmd struct {
	Path string `arg:"" help:"Message file." type:"existingfile"`
}

func (p *PreviewCmd) Run(g *Globals) error {
	module, err := g.module()
	if err != nil {
		return err
	}
	doc, err := document.LoadFile(p.Path)
	if err != nil {
		return err
	}
	result, err := module.Parse(context.Background(), messageml.Request{
		Markup:   doc.Markup,
		Data:     doc.FrontMatter.Data,
		Version:  doc.FrontMatter.Version,
		Format:   doc.FrontMatter.Format,
		Document: p.Path,
	})
	if err != nil {
		return err
	}
	html, err := module.Preview(result.Markdown)
	if err != nil {
		return err
	}
	_, err = g.out().Write(html)
	return err
}
