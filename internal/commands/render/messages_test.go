package rendercmd

import "testing"

func TestMessageTypes(t *testing.T) {
	if (RenderMessageCommand{}).Type() != "messageml.render.message" {
		t.Fatal("unexpected message type")
	}
	if (RenderLegacyCommand{}).Type() != "messageml.render.legacy" {
		t.Fatal("unexpected legacy type")
	}
	if (RenderDirectoryCommand{}).Type() != "messageml.render.directory" {
		t.Fatal("unexpected directory type")
	}
}

func TestDirectoryCommandRequiresDirectory(t *testing.T) {
	if err := (RenderDirectoryCommand{Directory: " "}).Validate(); err == nil {
		t.Fatal("expected error")
	}
	if err := (RenderDirectoryCommand{Directory: "docs"}).Validate(); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestLegacyCommandAllowsNoAnnotations(t *testing.T) {
	if err := (RenderLegacyCommand{Text: "plain"}).Validate(); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
}
