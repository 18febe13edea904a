package bot

import (
	"fmt"
	"strings"
)

const (
	subscribeSubject   = "Subscription Confirmation"
	unsubscribeSubject = "Unsubscription Confirmation"

	toastFailed = "Something went wrong. Please try again."
)

func noSubscribersText(group string) string {
	return fmt.Sprintf("No subscribers found in the **%s** group.", group)
}

func notSubscribedText(group string) string {
	return fmt.Sprintf("You are not subscribed to **%s**.\n\nSubscribe using `!subscribe %s` first.", group, group)
}

func (d *Dispatcher) pingText(group, author, community, postLink string, mentions []string) string {
	tokens := make([]string, 0, len(mentions))
	for _, m := range mentions {
		tokens = append(tokens, d.mentionPrefix+m)
	}
	return fmt.Sprintf("**Ping Alert – %s**\n\nPing sent by %s%s in r/%s\n\n%s\n\n%s",
		group, d.mentionPrefix, author, community, postLink, strings.Join(tokens, " "))
}

func subscribedReply(group string) string {
	return fmt.Sprintf("You have been successfully subscribed to the **%s** group! 🎉\n\nTo unsubscribe, comment `!unsubscribe %s` or check the Ping Bot Post.", group, group)
}

func subscribedMessage(author, group, community string) string {
	return fmt.Sprintf("Hi u/%s,\nYou have been successfully subscribed to the **%s** group in r/%s.\n\nTo leave, simply comment `!unsubscribe %s` or check the Ping Bot Post.", author, group, community, group)
}

func unsubscribedReply(group string) string {
	return fmt.Sprintf("You have been unsubscribed from the %s group.\n\nTo rejoin, comment `!subscribe %s` or check the Ping Bot Post.", group, group)
}

func unsubscribedMessage(group, community string) string {
	return fmt.Sprintf("You have been successfully unsubscribed from the '%s' group in r/%s. If you wish to rejoin, please comment '!subscribe %s' or check the Ping Bot Post.", group, community, group)
}

func blacklistedToast(user string) string { return fmt.Sprintf("u/%s blacklisted.", user) }

func alreadyBlacklistedToast(user string) string {
	return fmt.Sprintf("u/%s is already blacklisted.", user)
}

func joinedToast(group string) string {
	return fmt.Sprintf("You joined the %s ping group. Refresh to see updated counts.", strings.ToUpper(group))
}

func leftToast(group string) string {
	return fmt.Sprintf("You left the %s ping group. Refresh to see updated counts.", strings.ToUpper(group))
}

func unknownGroupToast(group string) string {
	return fmt.Sprintf("The %s ping group is not configured.", strings.ToUpper(group))
}

func barredToast(community string) string {
	return fmt.Sprintf("You cannot join ping groups in r/%s.", community)
}
