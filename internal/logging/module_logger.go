package logging

import (
	"context"
	"strings"

	"github.com/goliatone/go-messageml/pkg/interfaces"
)

const (
	rootModule     = "messageml"
	pipelineModule = "messageml.pipeline"
	commandsModule = "messageml.commands"
)

const (
	fieldFormat   = "format"
	fieldVersion  = "version"
	fieldDocument = "document"
)

// ModuleLogger returns a logger scoped to module, tagged with a "module"
// field. Without a provider the no-op logger is returned.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}
	return WithFields(logger, map[string]any{"module": module})
}

func PipelineLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, pipelineModule)
}

// CommandLogger scopes a logger to one command handler, e.g.
// "messageml.commands.render".
func CommandLogger(provider interfaces.LoggerProvider, command string) interfaces.Logger {
	command = strings.TrimSpace(command)
	if command == "" {
		return ModuleLogger(provider, commandsModule)
	}
	return ModuleLogger(provider, commandsModule+"."+command)
}

// WithMessageContext adds the format, version and source document of a parse
// call. Empty values are skipped.
func WithMessageContext(logger interfaces.Logger, format, version, document string) interfaces.Logger {
	fields := map[string]any{}
	if v := strings.TrimSpace(format); v != "" {
		fields[fieldFormat] = v
	}
	if v := strings.TrimSpace(version); v != "" {
		fields[fieldVersion] = v
	}
	if v := strings.TrimSpace(document); v != "" {
		fields[fieldDocument] = v
	}
	return WithFields(logger, fields)
}

// NoOp returns a logger that drops every entry.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
