package session

import (
	"context"
	"strings"
)

// Identity reports the signed-in user.
type Identity interface {
	CurrentUserID() (string, bool)
}

// AssetStore stores a rasterized annotation and returns a public URL for it.
type AssetStore interface {
	Upload(ctx context.Context, data []byte, name string) (string, error)
}

// RecordStore persists a classification and returns its id.
type RecordStore interface {
	InsertClassification(ctx context.Context, c Classification) (int64, error)
}

// Navigator moves the user to another location once a submission completes.
type Navigator interface {
	GoTo(path string)
}

// StaticIdentity is an Identity for a fixed user id. The empty string means
// nobody is signed in.
type StaticIdentity string

func (s StaticIdentity) CurrentUserID() (string, bool) {
	id := strings.TrimSpace(string(s))
	return id, id != ""
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(path string)

func (f NavigatorFunc) GoTo(path string) { f(path) }
