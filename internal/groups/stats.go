package groups

import (
	"context"
	"fmt"

	"github.com/gogotex/pingbot/internal/wiki"
	"github.com/gogotex/pingbot/pkg/logger"
)

// Counter keeps per-group ping counts under the reserved stats key.
type Counter struct {
	docs *wiki.Adapter
}

func NewCounter(docs *wiki.Adapter) *Counter {
	return &Counter{docs: docs}
}

// IncrementPing adds one to the ping count of group. Not atomic across callers.
func (c *Counter) IncrementPing(ctx context.Context, community, group string) error {
	if err := ValidateGroupName(group); err != nil {
		return err
	}
	group = NormalizeGroup(group)
	doc, err := c.docs.Load(ctx, community)
	if err != nil {
		return fmt.Errorf("load document: %w", err)
	}
	counts, _ := doc.Counters(wiki.StatsKey)
	doc.SetCounter(wiki.StatsKey, group, counts[group]+1)
	return c.docs.WriteWhole(ctx, community, doc, fmt.Sprintf("Increment ping count for '%s'", group))
}

// Stats returns the ping count per group, 0 for unknown groups or on error.
func (c *Counter) Stats(ctx context.Context, community string, groups []string) map[string]int {
	out := make(map[string]int, len(groups))
	if len(groups) == 0 {
		return out
	}
	doc, err := c.docs.Read(ctx, community)
	if err != nil {
		logger.Errorf("[groups] failed to fetch ping stats in %s: %v", community, err)
		doc = wiki.Document{}
	}
	counts, _ := doc.Counters(wiki.StatsKey)
	for _, g := range groups {
		out[g] = counts[NormalizeGroup(g)]
	}
	return out
}
