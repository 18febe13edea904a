package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gogotex/pingbot/internal/bot"
	"github.com/gogotex/pingbot/internal/deliveries"
	"github.com/gogotex/pingbot/internal/settings"
	"github.com/gogotex/pingbot/internal/tokens"
	"github.com/gogotex/pingbot/pkg/logger"
	"github.com/gogotex/pingbot/pkg/middleware"
)

// BotHandler exposes platform events, moderator actions and the subscription
// post API over HTTP.
type BotHandler struct {
	bot        *bot.Dispatcher
	saver      settings.Saver
	deliveries *deliveries.Tracker
}

// NewBotHandler wires d. saver may be nil when settings are read-only (file
// source); a nil tracker processes redelivered events again.
func NewBotHandler(d *bot.Dispatcher, saver settings.Saver, tracker *deliveries.Tracker) *BotHandler {
	return &BotHandler{bot: d, saver: saver, deliveries: tracker}
}

// Register routes under rg
func (h *BotHandler) Register(rg *gin.RouterGroup) {
	ev := rg.Group("/events")
	ev.POST("/comment", h.Comment)
	ev.POST("/install", h.Install)
	ev.POST("/upgrade", h.Upgrade)

	rg.POST("/menu/blacklist", h.Blacklist)

	api := rg.Group("/api/communities/:community")
	api.GET("/overview", h.Overview)
	api.POST("/groups/:group/join", h.Join)
	api.POST("/groups/:group/leave", h.Leave)
	api.GET("/settings", h.GetSettings)
	api.PUT("/settings", h.PutSettings)
}

// allowed checks the community against the verified token subject. Requests
// that went through no auth middleware are allowed.
func allowed(c *gin.Context, community string) bool {
	if _, ok := c.Get("claims"); !ok {
		return true
	}
	if tokens.Allows(middleware.Subject(c), community) {
		return true
	}
	c.JSON(http.StatusForbidden, gin.H{"error": "token not valid for community"})
	return false
}

// Comment handles a new comment. The response is 202 whatever the bot did.
func (h *BotHandler) Comment(c *gin.Context) {
	var ev bot.CommentEvent
	if err := c.ShouldBindJSON(&ev); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !allowed(c, ev.Community) {
		return
	}
	first, err := h.deliveries.FirstDelivery(c.Request.Context(), "comment", ev.Comment.ID)
	if err != nil {
		logger.Warnf("[http] delivery check for %s failed, processing anyway: %v", ev.Comment.ID, err)
	} else if !first {
		logger.Debugf("[http] comment %s already processed", ev.Comment.ID)
		c.JSON(http.StatusAccepted, gin.H{"status": "duplicate"})
		return
	}
	h.bot.HandleComment(c.Request.Context(), ev)
	c.JSON(http.StatusAccepted, gin.H{"status": "accepted"})
}

func (h *BotHandler) Install(c *gin.Context) {
	var ev bot.InstallEvent
	if err := c.ShouldBindJSON(&ev); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !allowed(c, ev.Community) {
		return
	}
	if err := h.bot.HandleInstall(c.Request.Context(), ev); err != nil {
		logger.Errorf("[http] install %s failed: %v", ev.Community, err)
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "accepted"})
}

func (h *BotHandler) Upgrade(c *gin.Context) {
	var ev bot.UpgradeEvent
	if err := c.ShouldBindJSON(&ev); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !allowed(c, ev.Community) {
		return
	}
	if err := h.bot.HandleUpgrade(c.Request.Context(), ev); err != nil {
		logger.Errorf("[http] upgrade %s failed: %v", ev.Community, err)
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "accepted"})
}

// Blacklist handles the moderator menu action and returns the toast to show.
func (h *BotHandler) Blacklist(c *gin.Context) {
	var action bot.MenuAction
	if err := c.ShouldBindJSON(&action); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !allowed(c, action.Community) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"toast": h.bot.BlacklistUser(c.Request.Context(), action)})
}

func (h *BotHandler) Overview(c *gin.Context) {
	community := c.Param("community")
	if !allowed(c, community) {
		return
	}
	o, err := h.bot.Overview(c.Request.Context(), community, c.Query("user"))
	if err != nil {
		writeSettingsError(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

type memberRequest struct {
	User string `json:"user" binding:"required"`
}

func (h *BotHandler) Join(c *gin.Context) {
	h.membership(c, h.bot.Join)
}

func (h *BotHandler) Leave(c *gin.Context) {
	h.membership(c, h.bot.Leave)
}

func (h *BotHandler) membership(c *gin.Context, action func(ctx context.Context, community, group, user string) string) {
	community := c.Param("community")
	var req memberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !allowed(c, community) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"toast": action(c.Request.Context(), community, c.Param("group"), req.User)})
}

func (h *BotHandler) GetSettings(c *gin.Context) {
	community := c.Param("community")
	if !allowed(c, community) {
		return
	}
	s, err := h.bot.Settings().Get(c.Request.Context(), community)
	if err != nil {
		logger.Errorf("[http] load settings for %s: %v", community, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load settings"})
		return
	}
	c.JSON(http.StatusOK, s)
}

func (h *BotHandler) PutSettings(c *gin.Context) {
	community := c.Param("community")
	if h.saver == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "settings are read-only"})
		return
	}
	var s settings.PingSettings
	if err := c.ShouldBindJSON(&s); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !allowed(c, community) {
		return
	}
	if err := h.saver.Save(c.Request.Context(), community, s); err != nil {
		writeSettingsError(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

func writeSettingsError(c *gin.Context, err error) {
	var se *settings.SettingsError
	if errors.As(err, &se) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": se.Error(), "slot": se.Slot})
		return
	}
	logger.Errorf("[http] %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}
