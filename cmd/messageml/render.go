package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goliatone/go-command/dispatcher"

	messageml "github.com/goliatone/go-messageml"
	"github.com/goliatone/go-messageml/internal/document"
	"github.com/goliatone/go-messageml/internal/util"
)

type RenderCmd struct {
	Paths           []string `arg:"" help:"Message files or directories." type:"path"`
	Output          string   `short:"o" help:"What to print." enum:"presentation,markdown,entities,index,json" default:"presentation"`
	OutDir          string   `name:"out-dir" help:"Write one file per message into this directory." type:"path"`
	Entities        string   `help:"Entity JSON applied to single files without front matter data." type:"existingfile"`
	Version         string   `help:"Presentation version to write."`
	Pattern         string   `help:"File pattern used for directories." default:"*.mml"`
	Recursive       bool     `help:"Descend into subdirectories."`
	ContinueOnError bool     `name:"continue-on-error" help:"Keep rendering after a failed document."`
}

func (r *RenderCmd) Run(g *Globals) error {
	em := &emitter{out: g.out(), dir: r.OutDir, output: r.Output}
	module, err := g.module(messageml.WithResultSink(em.sink))
	if err != nil {
		return err
	}
	unsubscribe := module.Commands().Subscribe()
	defer unsubscribe()

	var entityJSON []byte
	if r.Entities != "" {
		if entityJSON, err = os.ReadFile(r.Entities); err != nil {
			return err
		}
	}

	ctx := context.Background()
	var first error
	for _, path := range r.Paths {
		err := r.renderPath(ctx, path, entityJSON)
		if err == nil {
			continue
		}
		if !r.ContinueOnError {
			return fmt.Errorf("%s: %s", path, messageml.ErrorMessage(err))
		}
		fmt.Fprintf(g.errOut(), "%s: %s\n", path, messageml.ErrorMessage(err))
		if first == nil {
			first = err
		}
	}
	return first
}

func (r *RenderCmd) renderPath(ctx context.Context, path string, entityJSON []byte) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return dispatcher.Dispatch(ctx, messageml.RenderDirectoryCommand{
			Directory:       path,
			Pattern:         r.Pattern,
			Recursive:       r.Recursive,
			ContinueOnError: r.ContinueOnError,
		})
	}

	doc, err := document.LoadFile(path)
	if err != nil {
		return err
	}
	cmd := messageml.RenderMessageCommand{
		Markup:   doc.Markup,
		Data:     doc.FrontMatter.Data,
		Version:  util.FirstNonEmpty(r.Version, doc.FrontMatter.Version),
		Format:   doc.FrontMatter.Format,
		Document: filepath.Base(path),
	}
	if cmd.Data == nil {
		cmd.EntityJSON = entityJSON
	}
	return dispatcher.Dispatch(ctx, cmd)
}
