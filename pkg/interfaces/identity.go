package interfaces

import "context"

// User is the directory record attached to a resolved mention.
type User struct {
	ID          int64  `json:"id"`
	ScreenName  string `json:"screenName"`
	DisplayName string `json:"prettyName"`
	Email       string `json:"email,omitempty"`
}

// IdentityProvider resolves a mention key (user id or email) into a User.
// Implementations must be safe for concurrent use. A miss should be reported
// with an error; callers treat every lookup error as a non-fatal miss.
type IdentityProvider interface {
	Lookup(ctx context.Context, key string) (*User, error)
}
