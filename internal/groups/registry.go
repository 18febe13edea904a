package groups

import (
	"context"
	"fmt"

	"github.com/gogotex/pingbot/internal/wiki"
	"github.com/gogotex/pingbot/pkg/logger"
)

// Registry manages group membership inside the community document.
// Reads fail open (empty results); writes return their error to the caller.
type Registry struct {
	docs *wiki.Adapter
}

func NewRegistry(docs *wiki.Adapter) *Registry {
	return &Registry{docs: docs}
}

// AddMember appends user to group. Adding an existing member is a no-op.
func (r *Registry) AddMember(ctx context.Context, community, group, user string) error {
	if err := ValidateGroupName(group); err != nil {
		return err
	}
	group = NormalizeGroup(group)
	u := NormalizeUser(user)
	if u == "" {
		return fmt.Errorf("%w: empty", ErrInvalidUser)
	}

	doc, err := r.docs.Load(ctx, community)
	if err != nil {
		return fmt.Errorf("load document: %w", err)
	}
	members, _ := doc.StringList(group)
	if indexOfUser(members, u) >= 0 {
		logger.Debugf("[groups] '%s' already subscribed to '%s' in %s", u, group, community)
		return nil
	}
	doc.SetStringList(group, append(members, u))
	return r.docs.WriteWhole(ctx, community, doc, fmt.Sprintf("Add %s to %s", u, group))
}

// RemoveMember drops the first occurrence of user from group. A missing group
// or a non-member is a no-op.
func (r *Registry) RemoveMember(ctx context.Context, community, group, user string) error {
	if err := ValidateGroupName(group); err != nil {
		return err
	}
	group = NormalizeGroup(group)
	u := NormalizeUser(user)

	doc, err := r.docs.Read(ctx, community)
	if err != nil {
		return fmt.Errorf("read document: %w", err)
	}
	members, ok := doc.StringList(group)
	if !ok {
		logger.Warnf("[groups] group '%s' does not exist in %s", group, community)
		return nil
	}
	idx := indexOfUser(members, u)
	if idx < 0 {
		logger.Debugf("[groups] '%s' not subscribed to '%s' in %s", u, group, community)
		return nil
	}
	members = append(members[:idx], members[idx+1:]...)
	doc.SetStringList(group, members)
	return r.docs.WriteWhole(ctx, community, doc, fmt.Sprintf("Remove %s from %s", u, group))
}

// ListMembers returns the members of group, or an empty list on any error.
func (r *Registry) ListMembers(ctx context.Context, community, group string) []string {
	if err := ValidateGroupName(group); err != nil {
		logger.Errorf("[groups] list members: %v", err)
		return []string{}
	}
	doc, err := r.docs.Read(ctx, community)
	if err != nil {
		logger.Errorf("[groups] failed to fetch members of '%s' in %s: %v", group, community, err)
		return []string{}
	}
	return MembersOf(doc, group)
}

// MembersOf returns the members of group held by doc, empty when the group is
// absent or not a list.
func MembersOf(doc wiki.Document, group string) []string {
	members, ok := doc.StringList(NormalizeGroup(group))
	if !ok {
		return []string{}
	}
	return members
}

// ListMembersForGroups reads the document once and returns members per group.
// Absent or malformed groups map to an empty list.
func (r *Registry) ListMembersForGroups(ctx context.Context, community string, groups []string) map[string][]string {
	out := make(map[string][]string, len(groups))
	if len(groups) == 0 {
		return out
	}
	doc, err := r.docs.Read(ctx, community)
	if err != nil {
		logger.Errorf("[groups] failed to fetch members for groups in %s: %v", community, err)
		doc = wiki.Document{}
	}
	for _, g := range groups {
		out[g] = MembersOf(doc, g)
	}
	return out
}

// UserGroups returns the subsequence of groups that user belongs to.
func (r *Registry) UserGroups(ctx context.Context, community, user string, groups []string) []string {
	u := NormalizeUser(user)
	byGroup := r.ListMembersForGroups(ctx, community, groups)
	out := []string{}
	for _, g := range groups {
		if indexOfUser(byGroup[g], u) >= 0 {
			out = append(out, g)
		}
	}
	return out
}
