package wiki

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrPageNotFound is the not-found signal every backend must return for a missing page.
	ErrPageNotFound = errors.New("wiki page not found")
	// ErrPageExists is returned by CreatePage when another writer created the page first.
	ErrPageExists = errors.New("wiki page already exists")
)

// Permission is the edit/view level of a wiki page.
type Permission string

const (
	PermissionDefault  Permission = "default"
	PermissionModsOnly Permission = "mods_only"
)

// Page is one wiki-style text document owned by a community.
type Page struct {
	Community  string     `json:"community" bson:"community"`
	Name       string     `json:"name" bson:"name"`
	Content    string     `json:"content" bson:"content"`
	Listed     bool       `json:"listed" bson:"listed"`
	Permission Permission `json:"permission" bson:"permission"`
	Reason     string     `json:"reason,omitempty" bson:"reason,omitempty"`
	CreatedAt  time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt" bson:"updatedAt"`
}

// Backend is the remote page store. Implementations only move whole pages;
// there is no partial update and no concurrency token.
type Backend interface {
	GetPage(ctx context.Context, community, name string) (*Page, error)
	CreatePage(ctx context.Context, community, name, content, reason string) error
	UpdatePageSettings(ctx context.Context, community, name string, listed bool, perm Permission) error
	UpdatePage(ctx context.Context, community, name, content, reason string) error
}

// IsNotFound reports whether err carries the backend not-found signal.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrPageNotFound)
}
