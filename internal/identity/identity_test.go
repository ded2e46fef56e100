package identity

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-messageml/pkg/interfaces"
)

func TestDeterministicTokensRepeatPerSeed(t *testing.T) {
	a := NewDeterministicTokens("seed")
	b := NewDeterministicTokens("seed")

	first, second := a.Next(), a.Next()
	if first == second {
		t.Fatalf("expected distinct tokens, got %q twice", first)
	}
	if got := b.Next(); got != first {
		t.Fatalf("expected %q from the same seed, got %q", first, got)
	}
	if len(first) != tokenLength {
		t.Fatalf("expected %d characters, got %q", tokenLength, first)
	}
	if other := NewDeterministicTokens("other").Next(); other == first {
		t.Fatal("expected different seeds to diverge")
	}
}

func TestRandomTokens(t *testing.T) {
	tokens := NewRandomTokens()
	if tokens.Next() == tokens.Next() {
		t.Fatal("expected random tokens to differ")
	}
}

func TestDirectoryLookup(t *testing.T) {
	dir := NewDirectory(interfaces.User{ID: 123, ScreenName: "bot", DisplayName: "Bot User", Email: "Bot@example.com"})

	for _, key := range []string{"123", "bot@example.com", " BOT "} {
		user, err := dir.Lookup(context.Background(), key)
		if err != nil {
			t.Fatalf("lookup %q: %v", key, err)
		}
		if user.DisplayName != "Bot User" {
			t.Fatalf("unexpected user for %q: %+v", key, user)
		}
	}

	if _, err := dir.Lookup(context.Background(), "456"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
