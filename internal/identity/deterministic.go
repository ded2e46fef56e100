package identity

import (
	"strconv"
	"strings"
	"sync"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

const tokenLength = 12

// UUID derives a deterministic UUID from a stable key using go-hashid.
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

// DeterministicTokens yields the same token sequence for the same seed. It is
// meant for tests and reproducible output.
type DeterministicTokens struct {
	mu   sync.Mutex
	seed string
	next int
}

func NewDeterministicTokens(seed string) *DeterministicTokens {
	if strings.TrimSpace(seed) == "" {
		seed = "messageml"
	}
	return &DeterministicTokens{seed: seed}
}

func (d *DeterministicTokens) Next() string {
	d.mu.Lock()
	n := d.next
	d.next++
	d.mu.Unlock()
	return shortToken(UUID("messageml:token:" + d.seed + ":" + strconv.Itoa(n)))
}

// RandomTokens draws a fresh random token per call.
type RandomTokens struct{}

func NewRandomTokens() RandomTokens { return RandomTokens{} }

func (RandomTokens) Next() string { return shortToken(uuid.New()) }

func shortToken(id uuid.UUID) string {
	return strings.ReplaceAll(id.String(), "-", "")[:tokenLength]
}
