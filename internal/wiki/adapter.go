package wiki

import (
	"context"
	"errors"
	"fmt"

	"github.com/gogotex/pingbot/pkg/logger"
	"github.com/gogotex/pingbot/pkg/metrics"
)

// DefaultPageName is the page that holds the bot document in every community.
const DefaultPageName = "ping-bot"

// Adapter is the only way the bot touches its document. Every write replaces the
// whole page with what the caller last read; concurrent writers can lose updates.
type Adapter struct {
	backend Backend
	page    string
}

func NewAdapter(b Backend, pageName string) *Adapter {
	if pageName == "" {
		pageName = DefaultPageName
	}
	return &Adapter{backend: b, page: pageName}
}

// PageName returns the page the adapter reads and writes.
func (a *Adapter) PageName() string { return a.page }

// FetchOrCreate returns the community page, creating it with defaultContent
// (unlisted, moderators only) when the backend reports it missing. Any other
// fetch error is returned unchanged.
func (a *Adapter) FetchOrCreate(ctx context.Context, community, defaultContent string) (*Page, error) {
	p, err := a.backend.GetPage(ctx, community, a.page)
	if err == nil {
		return p, nil
	}
	if !IsNotFound(err) {
		return nil, err
	}

	logger.Infof("[wiki] creating page %q for %s", a.page, community)
	if err := a.backend.CreatePage(ctx, community, a.page, defaultContent, "Initialize ping bot storage"); err != nil {
		if !errors.Is(err, ErrPageExists) {
			return nil, fmt.Errorf("create page: %w", err)
		}
		logger.Debugf("[wiki] page %q for %s created concurrently", a.page, community)
	}
	if err := a.backend.UpdatePageSettings(ctx, community, a.page, false, PermissionModsOnly); err != nil {
		return nil, fmt.Errorf("update page settings: %w", err)
	}
	return a.backend.GetPage(ctx, community, a.page)
}

// Load fetches (creating if missing) and parses the document. Used on mutation paths.
func (a *Adapter) Load(ctx context.Context, community string) (Document, error) {
	p, err := a.FetchOrCreate(ctx, community, "{}")
	if err != nil {
		return nil, err
	}
	return Parse(p.Content), nil
}

// Read parses the document without creating the page; a missing page reads as empty.
func (a *Adapter) Read(ctx context.Context, community string) (Document, error) {
	p, err := a.backend.GetPage(ctx, community, a.page)
	if err != nil {
		if IsNotFound(err) {
			return Document{}, nil
		}
		return nil, err
	}
	return Parse(p.Content), nil
}

// WriteWhole overwrites the page with doc.
func (a *Adapter) WriteWhole(ctx context.Context, community string, doc Document, reason string) error {
	content, err := doc.Encode()
	if err != nil {
		metrics.DocumentWrites.WithLabelValues("encode_error").Inc()
		return fmt.Errorf("encode document: %w", err)
	}
	if err := a.backend.UpdatePage(ctx, community, a.page, content, reason); err != nil {
		metrics.DocumentWrites.WithLabelValues("error").Inc()
		return fmt.Errorf("update page: %w", err)
	}
	metrics.DocumentWrites.WithLabelValues("ok").Inc()
	return nil
}
