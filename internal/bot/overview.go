package bot

import (
	"context"
	"strings"

	"github.com/gogotex/pingbot/internal/groups"
	"github.com/gogotex/pingbot/internal/settings"
	"github.com/gogotex/pingbot/pkg/logger"
)

// GroupOverview is one row of the subscription post.
type GroupOverview struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	Subscribers int    `json:"subscribers"`
	Pings       int    `json:"pings"`
	Member      bool   `json:"member"`
}

// Overview is what the subscription post shows to one user.
type Overview struct {
	Community     string          `json:"community"`
	User          string          `json:"user"`
	Enabled       bool            `json:"enabled"`
	Groups        []GroupOverview `json:"groups"`
	UserGroups    []string        `json:"userGroups"`
	Subscriptions int             `json:"subscriptions"`
}

// Overview collects the configured groups with their subscriber and ping
// counts, and which of them user belongs to. Store reads fail open.
func (d *Dispatcher) Overview(ctx context.Context, community, user string) (*Overview, error) {
	s, err := settings.LoadValidated(ctx, d.settings, community)
	if err != nil {
		return nil, err
	}
	names := s.ConfiguredGroups()
	out := &Overview{
		Community:  community,
		User:       user,
		Enabled:    s.EnablePingBot,
		Groups:     make([]GroupOverview, 0, len(names)),
		UserGroups: []string{},
	}
	if len(names) == 0 {
		return out, nil
	}

	members := d.registry.ListMembersForGroups(ctx, community, names)
	stats := d.counter.Stats(ctx, community, names)
	u := groups.NormalizeUser(user)
	for _, g := range names {
		row := GroupOverview{
			Name:        g,
			DisplayName: strings.ToUpper(g),
			Subscribers: len(members[g]),
			Pings:       stats[g],
		}
		for _, m := range members[g] {
			if u != "" && groups.NormalizeUser(m) == u {
				row.Member = true
				out.UserGroups = append(out.UserGroups, g)
				break
			}
		}
		out.Groups = append(out.Groups, row)
	}
	out.Subscriptions = len(out.UserGroups)
	return out, nil
}

// Join subscribes user to group from the subscription post and returns the toast.
func (d *Dispatcher) Join(ctx context.Context, community, group, user string) string {
	g, toast, ok := d.postGroup(ctx, community, group, user)
	if !ok {
		return toast
	}
	banned, err := d.blacklist.IsBlacklisted(ctx, community, user)
	if err != nil {
		logger.Errorf("[bot] blacklist lookup failed in %s: %v", community, err)
		return toastFailed
	}
	if banned {
		return barredToast(community)
	}
	if err := d.registry.AddMember(ctx, community, g, user); err != nil {
		logger.Errorf("[bot] join '%s' by '%s' in %s failed: %v", g, user, community, err)
		return toastFailed
	}
	observe(CommandSubscribe, "joined")
	return joinedToast(g)
}

// Leave unsubscribes user from group from the subscription post and returns the toast.
func (d *Dispatcher) Leave(ctx context.Context, community, group, user string) string {
	g, toast, ok := d.postGroup(ctx, community, group, user)
	if !ok {
		return toast
	}
	if err := d.registry.RemoveMember(ctx, community, g, user); err != nil {
		logger.Errorf("[bot] leave '%s' by '%s' in %s failed: %v", g, user, community, err)
		return toastFailed
	}
	observe(CommandUnsubscribe, "left")
	return leftToast(g)
}

// postGroup resolves group against the current settings.
func (d *Dispatcher) postGroup(ctx context.Context, community, group, user string) (string, string, bool) {
	if community == "" || groups.NormalizeUser(user) == "" {
		return "", toastFailed, false
	}
	s, err := settings.LoadValidated(ctx, d.settings, community)
	if err != nil {
		logger.Errorf("[bot] failed to load settings for %s: %v", community, err)
		return "", toastFailed, false
	}
	g := groups.NormalizeGroup(group)
	if !s.EnablePingBot || !s.HasGroup(g) {
		return "", unknownGroupToast(g), false
	}
	return g, "", true
}
