// Command messageml compiles message files from the command line.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	messageml "github.com/goliatone/go-messageml"
)

var version = "dev"

// Globals are shared by every subcommand.
type Globals struct {
	Config      string `help:"YAML configuration file." type:"existingfile"`
	LogLevel    string `name:"log-level" help:"Enable logging at this level (trace, debug, info, warn, error)."`
	LogProvider string `name:"log-provider" help:"Logging backend." enum:"console,gologger" default:"console"`
	LogFormat   string `name:"log-format" help:"go-logger output format (json, console, pretty)."`
	Seed        string `help:"Use deterministic identifier tokens derived from this seed."`

	stdout io.Writer
	stderr io.Writer
}

// CLI is the command tree.
type CLI struct {
	Globals

	Render  RenderCmd  `cmd:"" help:"Compile message files or directories of them."`
	Legacy  LegacyCmd  `cmd:"" help:"Compile plain text with an annotations file."`
	Preview PreviewCmd `cmd:"" help:"Render a message to HTML through its markdown projection."`
	Version VersionCmd `cmd:"" help:"Print version information."`
}

func main() {
	cli := CLI{Globals: Globals{stdout: os.Stdout, stderr: os.Stderr}}
	ctx := kong.Parse(&cli,
		kong.Name("messageml"),
		kong.Description("Compile chat message markup into presentation markup, markdown and entity data"),
		kong.UsageOnError(),
	)
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}

// module builds a compiler from the configuration file and flag overrides.
func (g *Globals) module(opts ...messageml.Option) (*messageml.Module, error) {
	cfg := messageml.DefaultConfig()
	if g.Config != "" {
		loaded, err := messageml.LoadConfig(g.Config)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if level := strings.TrimSpace(g.LogLevel); level != "" {
		cfg.Features.Logger = true
		cfg.Logging.Level = level
		cfg.Logging.Provider = g.LogProvider
		if g.LogFormat != "" {
			cfg.Logging.Format = g.LogFormat
		}
	}
	if seed := strings.TrimSpace(g.Seed); seed != "" {
		cfg.Tokens = messageml.TokensConfig{Strategy: messageml.TokensDeterministic, Seed: seed}
	}
	if g.stderr != nil {
		opts = append([]messageml.Option{messageml.WithLogWriter(g.stderr)}, opts...)
	}
	return messageml.New(cfg, opts...)
}

func (g *Globals) out() io.Writer {
	if g.stdout == nil {
		return os.Stdout
	}
	return g.stdout
}

func (g *Globals) errOut() io.Writer {
	if g.stderr == nil {
		return os.Stderr
	}
	return g.stderr
}

type VersionCmd struct{}

func (VersionCmd) Run(g *Globals) error {
	_, err := fmt.Fprintf(g.out(), "messageml %s\n", version)
	return err
}
