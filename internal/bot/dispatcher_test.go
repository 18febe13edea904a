package bot

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gogotex/pingbot/internal/notify"
	"github.com/gogotex/pingbot/internal/settings"
	"github.com/gogotex/pingbot/internal/wiki"
)

const community = "golang"

type testBackend struct {
	*wiki.MemoryBackend
	reads   int
	writes  int
	failGet error
	failPut error
}

func (b *testBackend) GetPage(ctx context.Context, comm, name string) (*wiki.Page, error) {
	b.reads++
	if b.failGet != nil {
		return nil, b.failGet
	}
	return b.MemoryBackend.GetPage(ctx, comm, name)
}

func (b *testBackend) UpdatePage(ctx context.Context, comm, name, content, reason string) error {
	if b.failPut != nil {
		return b.failPut
	}
	b.writes++
	return b.MemoryBackend.UpdatePage(ctx, comm, name, content, reason)
}

type fixture struct {
	backend  *testBackend
	settings *settings.MemorySource
	out      *notify.Recorder
	bot      *Dispatcher
}

func newFixture(t *testing.T, seed string, groupNames ...string) *fixture {
	t.Helper()
	f := &fixture{
		backend:  &testBackend{MemoryBackend: wiki.NewMemoryBackend()},
		settings: settings.NewMemorySource(),
		out:      &notify.Recorder{},
	}
	if seed != "" {
		f.backend.Put(community, wiki.DefaultPageName, seed)
	}
	s := settings.PingSettings{EnablePingBot: true}
	for _, g := range groupNames {
		s.Groups = append(s.Groups, settings.Slot{Enabled: true, Name: g})
	}
	f.settings.Set(community, s)
	f.bot = New(f.settings, wiki.NewAdapter(f.backend, ""), f.out, Options{MentionPrefix: "@"})
	return f
}

func (f *fixture) content(t *testing.T) string {
	t.Helper()
	p, err := f.backend.MemoryBackend.GetPage(context.Background(), community, wiki.DefaultPageName)
	require.NoError(t, err)
	return p.Content
}

func (f *fixture) members(t *testing.T, group string) []string {
	t.Helper()
	list, _ := wiki.Parse(f.content(t)).StringList(group)
	return list
}

func comment(author, body string) CommentEvent {
	return CommentEvent{
		Community: community,
		Author:    Author{ID: "t2_" + author, Name: author},
		Comment:   Comment{ID: "t1_c", Body: body},
		Post:      Post{Permalink: "/r/golang/comments/abc/release/"},
	}
}

func TestPing_AuthorNotSubscribed(t *testing.T) {
	f := newFixture(t, `{"news":["alice"]}`, "news")
	before := f.content(t)

	f.bot.HandleComment(context.Background(), comment("bob", "!ping news"))

	replies := f.out.Replies()
	require.Len(t, replies, 1)
	require.Equal(t, "You are not subscribed to **news**.\n\nSubscribe using `!subscribe news` first.", replies[0].Text)
	require.Equal(t, before, f.content(t))
	require.Zero(t, f.backend.writes)
}

func TestPing_MentionsOtherMembersAndCounts(t *testing.T) {
	f := newFixture(t, `{"news":["alice","bob"],"__pingStats":{}}`, "news")

	f.bot.HandleComment(context.Background(), comment("alice", "!ping news"))

	replies := f.out.Replies()
	require.Len(t, replies, 1)
	text := replies[0].Text
	require.True(t, strings.HasPrefix(text, "**Ping Alert – news**\n\nPing sent by @alice in r/golang\n\n"))
	require.Contains(t, text, "https://www.reddit.com/r/golang/comments/abc/release/")
	require.True(t, strings.HasSuffix(text, "\n\n@bob"), text)
	require.NotContains(t, text, "@alice\n")

	counts, _ := wiki.Parse(f.content(t)).Counters(wiki.StatsKey)
	require.Equal(t, map[string]int{"news": 1}, counts)
}

func TestPing_NoSubscribers(t *testing.T) {
	f := newFixture(t, `{"news":[]}`, "news")
	f.bot.HandleComment(context.Background(), comment("alice", "!ping news"))

	require.Equal(t, "No subscribers found in the **news** group.", f.out.Replies()[0].Text)
	require.Zero(t, f.backend.writes)
}

func TestPing_BlacklistedAuthorIsIgnored(t *testing.T) {
	seed := `{"anygroup":["mallory","bob"],"__blacklist":["mallory"]}`
	f := newFixture(t, seed, "anygroup")

	f.bot.HandleComment(context.Background(), comment("Mallory", "!ping anygroup"))

	require.Empty(t, f.out.Messages())
	require.Equal(t, seed, f.content(t))
	require.Zero(t, f.backend.writes)
}

func TestPing_BlacklistedMembersAreNotMentioned(t *testing.T) {
	f := newFixture(t, `{"news":["alice","bob","eve"],"__blacklist":["eve"]}`, "news")
	f.bot.HandleComment(context.Background(), comment("alice", "!ping news"))

	text := f.out.Replies()[0].Text
	require.True(t, strings.HasSuffix(text, "\n\n@bob"), text)
	require.NotContains(t, text, "@eve")
}

func TestPing_ReadsDocumentOnce(t *testing.T) {
	f := newFixture(t, `{"news":["alice"],"__blacklist":["eve"]}`, "news")
	f.bot.HandleComment(context.Background(), comment("bob", "!ping news"))

	require.Len(t, f.out.Replies(), 1)
	require.Equal(t, 1, f.backend.reads)
}

func TestPing_ReadFailureSendsNothing(t *testing.T) {
	f := newFixture(t, `{"news":["alice","bob"]}`, "news")
	f.backend.failGet = errors.New("wiki unavailable")

	f.bot.HandleComment(context.Background(), comment("alice", "!ping news"))

	require.Empty(t, f.out.Messages())
	require.Zero(t, f.backend.writes)
}

func TestPing_ReplyFailureSkipsStats(t *testing.T) {
	f := newFixture(t, `{"news":["alice","bob"]}`, "news")
	f.out.Err = errors.New("platform down")

	f.bot.HandleComment(context.Background(), comment("alice", "!ping news"))

	require.Zero(t, f.backend.writes)
}

func TestSubscribe_TwiceKeepsSingleEntry(t *testing.T) {
	f := newFixture(t, "", "team")
	ctx := context.Background()

	f.bot.HandleComment(ctx, comment("Carol", "!subscribe team"))
	f.bot.HandleComment(ctx, comment("Carol", "  !SUBSCRIBE Team "))

	require.Equal(t, []string{"carol"}, f.members(t, "team"))
	require.Len(t, f.out.Replies(), 2)
	pms := f.out.PrivateMessages()
	require.Len(t, pms, 2)
	require.Equal(t, "Carol", pms[0].To)
	require.Equal(t, "Subscription Confirmation", pms[0].Subject)
	require.Contains(t, pms[0].Text, "r/golang")
}

func TestSubscribe_CreatesMissingPageModsOnly(t *testing.T) {
	f := newFixture(t, "", "team")
	f.bot.HandleComment(context.Background(), comment("carol", "!subscribe team"))

	p, err := f.backend.MemoryBackend.GetPage(context.Background(), community, wiki.DefaultPageName)
	require.NoError(t, err)
	require.False(t, p.Listed)
	require.Equal(t, wiki.PermissionModsOnly, p.Permission)
}

func TestSubscribe_WriteFailureSendsNothing(t *testing.T) {
	f := newFixture(t, `{"team":[]}`, "team")
	f.backend.failPut = errors.New("write refused")

	f.bot.HandleComment(context.Background(), comment("carol", "!subscribe team"))

	require.Empty(t, f.out.Messages())
}

func TestSubscribe_BlacklistedUserIsIgnored(t *testing.T) {
	f := newFixture(t, `{"team":[],"__blacklist":["carol"]}`, "team")
	f.bot.HandleComment(context.Background(), comment("carol", "!subscribe team"))

	require.Empty(t, f.out.Messages())
	require.Empty(t, f.members(t, "team"))
}

func TestUnsubscribe(t *testing.T) {
	f := newFixture(t, `{"team":["carol","dave"]}`, "team")
	f.bot.HandleComment(context.Background(), comment("Carol", "!unsubscribe team"))

	require.Equal(t, []string{"dave"}, f.members(t, "team"))
	require.Len(t, f.out.Replies(), 1)
	pms := f.out.PrivateMessages()
	require.Len(t, pms, 1)
	require.Equal(t, "Unsubscription Confirmation", pms[0].Subject)
}

func TestHandleComment_Ignored(t *testing.T) {
	cases := []struct {
		name string
		ev   CommentEvent
	}{
		{"not a command", comment("alice", "great release")},
		{"extra words", comment("alice", "!ping news please")},
		{"unknown group", comment("alice", "!ping sports")},
		{"missing permalink", func() CommentEvent { ev := comment("alice", "!ping news"); ev.Post.Permalink = ""; return ev }()},
		{"missing author", func() CommentEvent { ev := comment("", "!ping news"); return ev }()},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t, `{"news":["alice","bob"]}`, "news")
			f.bot.HandleComment(context.Background(), tc.ev)
			require.Empty(t, f.out.Messages())
			require.Zero(t, f.backend.writes)
		})
	}
}

func TestHandleComment_DisabledSlotDoesNotMatch(t *testing.T) {
	f := newFixture(t, `{"news":["alice","bob"]}`)
	f.settings.Set(community, settings.PingSettings{EnablePingBot: true, Groups: []settings.Slot{{Enabled: false, Name: "news"}}})

	f.bot.HandleComment(context.Background(), comment("alice", "!ping news"))
	require.Empty(t, f.out.Messages())
}

func TestHandleComment_MasterSwitchOff(t *testing.T) {
	f := newFixture(t, `{"news":["alice","bob"]}`)
	f.settings.Set(community, settings.PingSettings{EnablePingBot: false})

	f.bot.HandleComment(context.Background(), comment("alice", "!ping news"))
	require.Empty(t, f.out.Messages())
}

func TestHandleComment_InvalidSettingsAbort(t *testing.T) {
	f := newFixture(t, `{"news":["alice","bob"]}`)
	f.settings.Set(community, settings.PingSettings{EnablePingBot: true, Groups: []settings.Slot{
		{Enabled: true, Name: "news"},
		{Enabled: true, Name: ""},
	}})

	f.bot.HandleComment(context.Background(), comment("alice", "!ping news"))
	require.Empty(t, f.out.Messages())
}

func TestParseCommand_FirstEnabledMatchWins(t *testing.T) {
	cmd, ok := ParseCommand("!Subscribe News", []string{"alerts", "news", "news"})
	require.True(t, ok)
	require.Equal(t, Command{Kind: CommandSubscribe, Group: "news"}, cmd)

	_, ok = ParseCommand("ping news", []string{"news"})
	require.False(t, ok)
	_, ok = ParseCommand("!ping  news", []string{"news"})
	require.False(t, ok)
}
