package taxonomy

import (
	"testing"

	"github.com/goliatone/go-messageml/internal/node"
)

func TestDescriptorRoundTrip(t *testing.T) {
	for _, kind := range []node.Kind{node.KindMention, node.KindHashtag, node.KindCashtag, node.KindEmoji, node.KindLink} {
		d, ok := ForKind(kind)
		if !ok {
			t.Fatalf("missing descriptor for %s", kind)
		}
		got, ok := KindForType(d.Type, d.IDType)
		if !ok || got != kind {
			t.Fatalf("expected %s back from %s/%s, got %s", kind, d.Type, d.IDType, got)
		}
	}
}

func TestUnknownTaxonomyIsRejected(t *testing.T) {
	if _, ok := KindForType(HashtagType, "org.symphonyoss.taxonomy.other"); ok {
		t.Fatal("expected unknown taxonomy id type to be rejected")
	}
	if _, ok := ForKind(node.KindDiv); ok {
		t.Fatal("div carries no entity descriptor")
	}
}

func TestKeysUseElementOrdinals(t *testing.T) {
	tree := node.NewTree(node.MessageML)
	root, _ := tree.Add(node.NoID, node.Node{Kind: node.KindRoot})
	p, _ := tree.Add(root, node.Node{Kind: node.KindParagraph})
	if _, err := tree.AddText(p, "hi "); err != nil {
		t.Fatalf("add text: %v", err)
	}
	hash, _ := tree.Add(p, node.Node{Kind: node.KindHashtag})
	emoji, _ := tree.Add(p, node.Node{Kind: node.KindEmoji, EntityID: "caller-key"})
	link, _ := tree.Add(root, node.Node{Kind: node.KindLink})

	keys := Keys(tree)
	if keys[hash] != "keyword2" {
		t.Fatalf("expected keyword2, got %q", keys[hash])
	}
	if keys[emoji] != "caller-key" {
		t.Fatalf("expected the carried key, got %q", keys[emoji])
	}
	if keys[link] != "url4" {
		t.Fatalf("expected url4, got %q", keys[link])
	}
	if _, ok := keys[p]; ok {
		t.Fatal("paragraphs carry no key")
	}
}
