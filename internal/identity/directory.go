package identity

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"

	"github.com/goliatone/go-messageml/pkg/interfaces"
)

// ErrUserNotFound signals an identity lookup miss.
var ErrUserNotFound = errors.New("identity: user not found")

// Directory is an in-memory identity provider. Users are addressable by
// numeric id, email and screen name. It is safe for concurrent use.
type Directory struct {
	mu    sync.RWMutex
	users map[string]interfaces.User
}

func NewDirectory(users ...interfaces.User) *Directory {
	d := &Directory{users: map[string]interfaces.User{}}
	d.Add(users...)
	return d
}

// Add registers users, replacing any entry sharing one of their keys.
func (d *Directory) Add(users ...interfaces.User) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, user := range users {
		for _, key := range userKeys(user) {
			d.users[key] = user
		}
	}
}

func (d *Directory) Lookup(ctx context.Context, key string) (*interfaces.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d.mu.RLock()
	user, ok := d.users[normalizeKey(key)]
	d.mu.RUnlock()
	if !ok {
		return nil, ErrUserNotFound
	}
	return &user, nil
}

func userKeys(user interfaces.User) []string {
	keys := []string{}
	if user.ID != 0 {
		keys = append(keys, strconv.FormatInt(user.ID, 10))
	}
	if user.Email != "" {
		keys = append(keys, normalizeKey(user.Email))
	}
	if user.ScreenName != "" {
		keys = append(keys, normalizeKey(user.ScreenName))
	}
	return keys
}

func normalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}
