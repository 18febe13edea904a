package bot

import (
	"context"
	"strings"

	"github.com/gogotex/pingbot/internal/blacklist"
	"github.com/gogotex/pingbot/internal/groups"
	"github.com/gogotex/pingbot/internal/notify"
	"github.com/gogotex/pingbot/internal/settings"
	"github.com/gogotex/pingbot/internal/wiki"
	"github.com/gogotex/pingbot/pkg/logger"
	"github.com/gogotex/pingbot/pkg/metrics"
)

const (
	DefaultMentionPrefix = "u/"
	DefaultBaseURL       = "https://www.reddit.com"
)

// Options tune the text the bot produces.
type Options struct {
	// MentionPrefix is put in front of every user name in a ping.
	MentionPrefix string
	// BaseURL is joined with a post permalink to build the post link.
	BaseURL string
}

// Dispatcher turns platform events into store mutations and outbound messages.
// It never returns errors for comment events: failures are logged and the
// event is dropped.
type Dispatcher struct {
	settings  settings.Source
	docs      *wiki.Adapter
	registry  *groups.Registry
	counter   *groups.Counter
	blacklist *blacklist.Blacklist
	messenger notify.Messenger

	mentionPrefix string
	baseURL       string
}

func New(src settings.Source, docs *wiki.Adapter, m notify.Messenger, opts Options) *Dispatcher {
	if opts.MentionPrefix == "" {
		opts.MentionPrefix = DefaultMentionPrefix
	}
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	return &Dispatcher{
		settings:      src,
		docs:          docs,
		registry:      groups.NewRegistry(docs),
		counter:       groups.NewCounter(docs),
		blacklist:     blacklist.New(docs),
		messenger:     m,
		mentionPrefix: opts.MentionPrefix,
		baseURL:       strings.TrimRight(opts.BaseURL, "/"),
	}
}

// Settings returns the source the dispatcher reads settings from.
func (d *Dispatcher) Settings() settings.Source { return d.settings }

// HandleComment runs at most one command per comment.
func (d *Dispatcher) HandleComment(ctx context.Context, ev CommentEvent) {
	if ev.Community == "" || ev.Author.Name == "" || ev.Comment.ID == "" || ev.Comment.Body == "" || ev.Post.Permalink == "" {
		logger.Errorf("[bot] missing required event data (community=%q author=%q comment=%q)", ev.Community, ev.Author.Name, ev.Comment.ID)
		return
	}

	s, err := settings.LoadValidated(ctx, d.settings, ev.Community)
	if err != nil {
		logger.Errorf("[bot] failed to load settings for %s: %v", ev.Community, err)
		return
	}
	if !s.EnablePingBot {
		logger.Debugf("[bot] ping bot disabled in %s, skipping comment %s", ev.Community, ev.Comment.ID)
		return
	}

	cmd, ok := ParseCommand(ev.Comment.Body, s.EnabledGroups())
	if !ok {
		return
	}

	switch cmd.Kind {
	case CommandPing:
		d.ping(ctx, ev, cmd.Group)
	case CommandSubscribe:
		d.subscribe(ctx, ev, cmd.Group)
	case CommandUnsubscribe:
		d.unsubscribe(ctx, ev, cmd.Group)
	}
}

func observe(kind CommandKind, outcome string) {
	metrics.CommandsHandled.WithLabelValues(string(kind), outcome).Inc()
}

func (d *Dispatcher) ping(ctx context.Context, ev CommentEvent, group string) {
	author := groups.NormalizeUser(ev.Author.Name)

	// blacklist and members come from the same read
	doc, err := d.docs.Read(ctx, ev.Community)
	if err != nil {
		logger.Errorf("[bot] failed to read document for ping in %s: %v", ev.Community, err)
		observe(CommandPing, "error")
		return
	}
	banned := blacklist.In(doc)
	if _, ok := banned[author]; ok {
		logger.Infof("[bot] blacklisted user '%s' tried to ping '%s' in %s", author, group, ev.Community)
		observe(CommandPing, "blacklisted")
		return
	}

	members := groups.MembersOf(doc, group)
	if len(members) == 0 {
		d.reply(ctx, ev.Comment.ID, noSubscribersText(group))
		observe(CommandPing, "no_subscribers")
		return
	}

	isMember := false
	mentions := make([]string, 0, len(members))
	for _, m := range members {
		u := groups.NormalizeUser(m)
		if u == author {
			isMember = true
			continue
		}
		if _, ok := banned[u]; ok {
			continue
		}
		mentions = append(mentions, m)
	}
	if !isMember {
		d.reply(ctx, ev.Comment.ID, notSubscribedText(group))
		observe(CommandPing, "not_subscribed")
		return
	}

	postLink := d.baseURL + ev.Post.Permalink
	if err := d.messenger.Reply(ctx, ev.Comment.ID, d.pingText(group, ev.Author.Name, ev.Community, postLink, mentions)); err != nil {
		logger.Errorf("[bot] failed to send ping for '%s' in %s: %v", group, ev.Community, err)
		observe(CommandPing, "error")
		return
	}
	metrics.PingMentions.Observe(float64(len(mentions)))

	if err := d.counter.IncrementPing(ctx, ev.Community, group); err != nil {
		logger.Errorf("[bot] failed to record ping for '%s' in %s: %v", group, ev.Community, err)
	}
	logger.Infof("[bot] ping sent by '%s' to '%s' in %s (%d users)", ev.Author.Name, group, ev.Community, len(mentions))
	observe(CommandPing, "pinged")
}

func (d *Dispatcher) subscribe(ctx context.Context, ev CommentEvent, group string) {
	banned, err := d.blacklist.IsBlacklisted(ctx, ev.Community, ev.Author.Name)
	if err != nil {
		logger.Errorf("[bot] blacklist lookup failed in %s: %v", ev.Community, err)
		observe(CommandSubscribe, "error")
		return
	}
	if banned {
		logger.Infof("[bot] blacklisted user '%s' tried to subscribe to '%s' in %s", ev.Author.Name, group, ev.Community)
		observe(CommandSubscribe, "blacklisted")
		return
	}

	if err := d.registry.AddMember(ctx, ev.Community, group, ev.Author.Name); err != nil {
		logger.Errorf("[bot] failed to subscribe '%s' to '%s' in %s: %v", ev.Author.Name, group, ev.Community, err)
		observe(CommandSubscribe, "error")
		return
	}
	d.reply(ctx, ev.Comment.ID, subscribedReply(group))
	d.privateMessage(ctx, ev.Author.Name, subscribeSubject, subscribedMessage(ev.Author.Name, group, ev.Community))
	logger.Infof("[bot] '%s' subscribed to '%s' in %s", ev.Author.Name, group, ev.Community)
	observe(CommandSubscribe, "subscribed")
}

func (d *Dispatcher) unsubscribe(ctx context.Context, ev CommentEvent, group string) {
	if err := d.registry.RemoveMember(ctx, ev.Community, group, ev.Author.Name); err != nil {
		logger.Errorf("[bot] failed to unsubscribe '%s' from '%s' in %s: %v", ev.Author.Name, group, ev.Community, err)
		observe(CommandUnsubscribe, "error")
		return
	}
	d.reply(ctx, ev.Comment.ID, unsubscribedReply(group))
	d.privateMessage(ctx, ev.Author.Name, unsubscribeSubject, unsubscribedMessage(group, ev.Community))
	logger.Infof("[bot] '%s' unsubscribed from '%s' in %s", ev.Author.Name, group, ev.Community)
	observe(CommandUnsubscribe, "unsubscribed")
}

func (d *Dispatcher) reply(ctx context.Context, commentID, text string) {
	if err := d.messenger.Reply(ctx, commentID, text); err != nil {
		logger.Errorf("[bot] reply to %s failed: %v", commentID, err)
	}
}

func (d *Dispatcher) privateMessage(ctx context.Context, to, subject, text string) {
	if err := d.messenger.SendPrivateMessage(ctx, to, subject, text); err != nil {
		logger.Errorf("[bot] private message to %s failed: %v", to, err)
	}
}
