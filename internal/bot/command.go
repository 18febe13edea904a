package bot

import "strings"

type CommandKind string

const (
	CommandPing        CommandKind = "ping"
	CommandSubscribe   CommandKind = "subscribe"
	CommandUnsubscribe CommandKind = "unsubscribe"
)

var commandKinds = []CommandKind{CommandPing, CommandSubscribe, CommandUnsubscribe}

// Command is a recognised "!<kind> <group>" comment.
type Command struct {
	Kind  CommandKind
	Group string
}

// ParseCommand matches the whole comment body, lower-cased and trimmed,
// against "!<kind> <group>" for every enabled group in slot order. The first
// match wins. Anything else, including extra words, is not a command.
func ParseCommand(body string, enabledGroups []string) (Command, bool) {
	text := strings.ToLower(strings.TrimSpace(body))
	if !strings.HasPrefix(text, "!") {
		return Command{}, false
	}
	for _, group := range enabledGroups {
		for _, kind := range commandKinds {
			if text == "!"+string(kind)+" "+group {
				return Command{Kind: kind, Group: group}, true
			}
		}
	}
	return Command{}, false
}
