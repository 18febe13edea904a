package blacklist

import (
	"context"
	"fmt"

	"github.com/gogotex/pingbot/internal/groups"
	"github.com/gogotex/pingbot/internal/wiki"
)

// Blacklist is the moderator-maintained list of users barred from the bot,
// stored under the reserved blacklist key of the community document.
type Blacklist struct {
	docs *wiki.Adapter
}

func New(docs *wiki.Adapter) *Blacklist {
	return &Blacklist{docs: docs}
}

// IsBlacklisted reports whether user is on the community blacklist. A missing
// page or corrupt content reads as an empty blacklist; store errors are returned.
func (b *Blacklist) IsBlacklisted(ctx context.Context, community, user string) (bool, error) {
	doc, err := b.docs.Read(ctx, community)
	if err != nil {
		return false, err
	}
	list, _ := doc.StringList(wiki.BlacklistKey)
	u := groups.NormalizeUser(user)
	for _, entry := range list {
		if groups.NormalizeUser(entry) == u {
			return true, nil
		}
	}
	return false, nil
}

// Members returns the normalized blacklist, empty on error.
func (b *Blacklist) Members(ctx context.Context, community string) (map[string]struct{}, error) {
	doc, err := b.docs.Read(ctx, community)
	if err != nil {
		return map[string]struct{}{}, err
	}
	return In(doc), nil
}

// In returns the normalized blacklist held by doc.
func In(doc wiki.Document) map[string]struct{} {
	list, _ := doc.StringList(wiki.BlacklistKey)
	out := make(map[string]struct{}, len(list))
	for _, entry := range list {
		out[groups.NormalizeUser(entry)] = struct{}{}
	}
	return out
}

// Add appends user to the blacklist. added is false when the user was already listed.
func (b *Blacklist) Add(ctx context.Context, community, user string) (added bool, err error) {
	u := groups.NormalizeUser(user)
	if u == "" {
		return false, fmt.Errorf("%w: empty", groups.ErrInvalidUser)
	}
	doc, err := b.docs.Load(ctx, community)
	if err != nil {
		return false, fmt.Errorf("load document: %w", err)
	}
	list, _ := doc.StringList(wiki.BlacklistKey)
	for _, entry := range list {
		if groups.NormalizeUser(entry) == u {
			return false, nil
		}
	}
	doc.SetStringList(wiki.BlacklistKey, append(list, u))
	if err := b.docs.WriteWhole(ctx, community, doc, fmt.Sprintf("Blacklist u/%s", u)); err != nil {
		return false, err
	}
	return true, nil
}
