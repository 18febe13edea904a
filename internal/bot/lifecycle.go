package bot

import (
	"context"
	"errors"
	"fmt"

	"github.com/gogotex/pingbot/internal/settings"
	"github.com/gogotex/pingbot/internal/wiki"
	"github.com/gogotex/pingbot/pkg/logger"
)

var ErrMissingCommunity = errors.New("missing community name")

// HandleInstall creates the community document with an empty list for every
// configured group and an empty blacklist. An existing document only gains
// the missing keys.
func (d *Dispatcher) HandleInstall(ctx context.Context, ev InstallEvent) error {
	if ev.Community == "" {
		return ErrMissingCommunity
	}
	s, err := settings.LoadValidated(ctx, d.settings, ev.Community)
	if err != nil {
		return err
	}

	initial := wiki.Document{}
	for _, g := range s.ConfiguredGroups() {
		initial.SetStringList(g, nil)
	}
	initial.SetStringList(wiki.BlacklistKey, nil)
	content, err := initial.Encode()
	if err != nil {
		return err
	}

	changed, err := d.seed(ctx, ev.Community, content, s.ConfiguredGroups(), "Initialize ping bot data structure")
	if err != nil {
		return fmt.Errorf("install %s: %w", ev.Community, err)
	}
	if changed {
		logger.Infof("[bot] document initialized in %s", ev.Community)
	} else {
		logger.Infof("[bot] document already initialized in %s", ev.Community)
	}
	return nil
}

// HandleUpgrade adds lists for newly configured groups and the blacklist if
// they are missing. Nothing is written when the document is up to date.
func (d *Dispatcher) HandleUpgrade(ctx context.Context, ev UpgradeEvent) error {
	if ev.Community == "" {
		return ErrMissingCommunity
	}
	s, err := settings.LoadValidated(ctx, d.settings, ev.Community)
	if err != nil {
		return err
	}
	changed, err := d.seed(ctx, ev.Community, "{}", s.ConfiguredGroups(), "Upgrade ping bot data structure")
	if err != nil {
		return fmt.Errorf("upgrade %s: %w", ev.Community, err)
	}
	if changed {
		logger.Infof("[bot] document upgraded in %s", ev.Community)
	} else {
		logger.Debugf("[bot] document already up to date in %s", ev.Community)
	}
	return nil
}

func (d *Dispatcher) seed(ctx context.Context, community, defaultContent string, groupNames []string, reason string) (bool, error) {
	page, err := d.docs.FetchOrCreate(ctx, community, defaultContent)
	if err != nil {
		return false, err
	}
	doc := wiki.Parse(page.Content)

	keys := make([]string, 0, len(groupNames)+1)
	keys = append(keys, groupNames...)
	keys = append(keys, wiki.BlacklistKey)

	mutated := false
	for _, key := range keys {
		if _, ok := doc.StringList(key); ok {
			continue
		}
		doc.SetStringList(key, nil)
		mutated = true
		logger.Debugf("[bot] added missing key '%s' in %s", key, community)
	}
	if !mutated {
		return false, nil
	}
	return true, d.docs.WriteWhole(ctx, community, doc, reason)
}
