package rendercmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-messageml/internal/entities"
	"github.com/goliatone/go-messageml/internal/pipeline"
)

const (
	renderMessageType   = "messageml.render.message"
	renderLegacyType    = "messageml.render.legacy"
	renderDirectoryType = "messageml.render.directory"
)

// RenderMessageCommand compiles one authoring or presentation message.
type RenderMessageCommand struct {
	Markup     string         `json:"markup"`
	EntityJSON []byte         `json:"entity_json,omitempty"`
	Data       map[string]any `json:"data,omitempty"`
	Version    string         `json:"version,omitempty"`
	Format     string         `json:"format,omitempty"`
	// Document names the source, e.g. a file path, in logs and results.
	Document string `json:"document,omitempty"`
}

func (RenderMessageCommand) Type() string { return renderMessageType }

func (cmd RenderMessageCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Markup, validation.By(required("messageml.render.message.markup_required", "markup is required"))),
	)
}

func (cmd RenderMessageCommand) request() pipeline.Request {
	return pipeline.Request{
		Markup:     cmd.Markup,
		EntityJSON: cmd.EntityJSON,
		Data:       cmd.Data,
		Version:    cmd.Version,
		Format:     cmd.Format,
		Document:   cmd.Document,
	}
}

// RenderLegacyCommand compiles plain text plus annotations.
type RenderLegacyCommand struct {
	Text        string                `json:"text"`
	Annotations []entities.Annotation `json:"annotations,omitempty"`
	EntityJSON  []byte                `json:"entity_json,omitempty"`
	Data        map[string]any        `json:"data,omitempty"`
	Version     string                `json:"version,omitempty"`
	Document    string                `json:"document,omitempty"`
}

func (RenderLegacyCommand) Type() string { return renderLegacyType }

func (cmd RenderLegacyCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Annotations, validation.By(func(value any) error {
			for _, a := range value.([]entities.Annotation) {
				if a.IndexStart < 0 || a.IndexEnd <= a.IndexStart {
					return validation.NewError("messageml.render.legacy.annotation_range", "annotation ranges must be non empty and start at zero or later")
				}
			}
			return nil
		})),
	)
}

func (cmd RenderLegacyCommand) request() pipeline.LegacyRequest {
	return pipeline.LegacyRequest{
		Text:        cmd.Text,
		Annotations: cmd.Annotations,
		EntityJSON:  cmd.EntityJSON,
		Data:        cmd.Data,
		Version:     cmd.Version,
		Document:    cmd.Document,
	}
}

// RenderDirectoryCommand compiles every matching document below Directory.
// Front matter supplies the per-document version, format and envelope.
type RenderDirectoryCommand struct {
	Directory string `json:"directory"`
	Pattern   string `json:"pattern,omitempty"`
	Recursive bool   `json:"recursive,omitempty"`
	// ContinueOnError keeps going after a document fails; the first error is
	// still returned.
	ContinueOnError bool `json:"continue_on_error,omitempty"`
}

func (RenderDirectoryCommand) Type() string { return renderDirectoryType }

func (cmd RenderDirectoryCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Directory, validation.By(required("messageml.render.directory.directory_required", "directory is required"))),
	)
}

func required(code, message string) validation.RuleFunc {
	return func(value any) error {
		if strings.TrimSpace(value.(string)) == "" {
			return validation.NewError(code, message)
		}
		return nil
	}
}
