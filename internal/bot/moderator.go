package bot

import (
	"context"
	"strings"

	"github.com/gogotex/pingbot/pkg/logger"
)

// BlacklistUser adds the target of a moderator menu action to the blacklist
// and returns the toast shown to the moderator.
func (d *Dispatcher) BlacklistUser(ctx context.Context, action MenuAction) string {
	target := strings.TrimSpace(action.TargetUser)
	if action.Community == "" || target == "" {
		logger.Errorf("[bot] blacklist action without community or target (community=%q)", action.Community)
		return toastFailed
	}
	added, err := d.blacklist.Add(ctx, action.Community, target)
	if err != nil {
		logger.Errorf("[bot] failed to blacklist '%s' in %s: %v", target, action.Community, err)
		return toastFailed
	}
	if !added {
		return alreadyBlacklistedToast(target)
	}
	logger.Infof("[bot] '%s' blacklisted in %s by '%s'", target, action.Community, action.Moderator)
	return blacklistedToast(target)
}
