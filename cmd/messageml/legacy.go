package main

import (
	"context"
	"os"

	"github.com/goccy/go-json"
	"github.com/goliatone/go-command/dispatcher"

	messageml "github.com/goliatone/go-messageml"
)

type LegacyCmd struct {
	Text        string `help:"Plain message text." xor:"source"`
	TextFile    string `name:"text-file" help:"Read the plain text from a file." type:"existingfile" xor:"source"`
	Annotations string `help:"JSON array of annotations." type:"existingfile"`
	Entities    string `help:"Entity JSON used to enrich annotations." type:"existingfile"`
	Output      string `short:"o" help:"What to print." enum:"presentation,markdown,entities,index,json" default:"presentation"`
	Version     string `help:"Presentation version to write."`
}

func (l *LegacyCmd) Run(g *Globals) error {
	em := &emitter{out: g.out(), output: l.Output}
	module, err := g.module(messageml.WithResultSink(em.sink))
	if err != nil {
		return err
	}
	unsubscribe := module.Commands().Subscribe()
	defer unsubscribe()

	cmd, err := l.command()
	if err != nil {
		return err
	}
	return dispatcher.Dispatch(context.Background(), cmd)
}

func (l *LegacyCmd) command() (messageml.RenderLegacyCommand, error) {
	cmd := messageml.RenderLegacyCommand{Text: l.Text, Version: l.Version, Document: "legacy"}
	if l.TextFile != "" {
		data, err := os.ReadFile(l.TextFile)
		if err != nil {
			return cmd, err
		}
		cmd.Text = string(data)
	}
	if l.Annotations != "" {
		data, err := os.ReadFile(l.Annotations)
		if err != nil {
			return cmd, err
		}
		if err := json.Unmarshal(data, &cmd.Annotations); err != nil {
			return cmd, err
		}
	}
	if l.Entities != "" {
		data, err := os.ReadFile(l.Entities)
		if err != nil {
			return cmd, err
		}
		cmd.EntityJSON = data
	}
	return cmd, nil
}
