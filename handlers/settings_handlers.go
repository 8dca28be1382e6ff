package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"schoolrecords-server-go/config"
	"schoolrecords-server-go/db"
)

// settingsPayload is the WebDAV connection as the settings page edits it.
// An empty token keeps the stored one unless ClearToken is set or the URL or
// user changed.
type settingsPayload struct {
	URL        string `json:"url" validate:"omitempty,url"`
	User       string `json:"user"`
	Token      string `json:"token,omitempty"`
	Path       string `json:"path"`
	ClearToken bool   `json:"clearToken,omitempty"`
}

func payloadFrom(w config.WebDAVConfig) settingsPayload {
	return settingsPayload{URL: w.URL, User: w.User, Token: w.Token, Path: w.Path}
}

func (p settingsPayload) apply(cur config.WebDAVConfig) config.WebDAVConfig {
	w := cur
	w.URL = strings.TrimSpace(p.URL)
	w.User = strings.TrimSpace(p.User)
	w.Token = p.Token
	w.Path = strings.TrimSpace(p.Path)
	sameAccount := w.URL == cur.URL && w.User == cur.User
	if w.Token == "" && sameAccount && !p.ClearToken {
		w.Token = cur.Token
	}
	return w
}

func (h *APIHandler) currentWebDAV() config.WebDAVConfig {
	if h.Settings != nil {
		return h.Settings.Settings()
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.Config != nil {
		return h.Config.WebDAV
	}
	return config.WebDAVConfig{}
}

// GetSettings handles GET /api/settings. The token is never sent back.
func (h *APIHandler) GetSettings(c *gin.Context) {
	cur := h.currentWebDAV()
	p := payloadFrom(cur)
	p.Token = ""
	c.JSON(http.StatusOK, gin.H{
		"webdav":     p,
		"hasToken":   cur.Token != "",
		"configured": cur.IsConfigured(),
	})
}

// SaveSettings handles PUT /api/settings: validates the connection, applies
// it to the running store and writes it to the config file.
func (h *APIHandler) SaveSettings(c *gin.Context) {
	var p settingsPayload
	if !h.bindJSON(c, &p) {
		return
	}
	next := p.apply(h.currentWebDAV())

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.Config != nil {
		updated := *h.Config
		updated.WebDAV = next
		if err := updated.Validate(); err != nil {
			h.respondError(c, err)
			return
		}
		if h.ConfigPath != "" {
			if err := updated.Save(h.ConfigPath); err != nil {
				h.respondError(c, err)
				return
			}
		}
		*h.Config = updated
	}
	if h.Settings != nil {
		h.Settings.Configure(next)
	}
	h.log.Info("settings saved", "url", next.URL, "path", next.Path, "persisted", h.ConfigPath != "")
	c.JSON(http.StatusOK, gin.H{"configured": next.IsConfigured()})
}

// ParseShareLink handles POST /api/settings/share-link
func (h *APIHandler) ParseShareLink(c *gin.Context) {
	var req struct {
		Link string `json:"link" validate:"required"`
	}
	if !h.bindJSON(c, &req) {
		return
	}
	w, err := config.ParseShareLink(strings.TrimSpace(req.Link))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, payloadFrom(w))
}

// TestConnection handles POST /api/settings/test. It reads the years
// document with the submitted settings, or the active ones when the body is
// empty, without changing anything.
func (h *APIHandler) TestConnection(c *gin.Context) {
	cfg := h.currentWebDAV()
	var p settingsPayload
	switch err := c.ShouldBindJSON(&p); {
	case errors.Is(err, io.EOF):
	case err != nil:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	default:
		if err := h.validate.Struct(p); err != nil {
			h.respondError(c, err)
			return
		}
		cfg = p.apply(cfg)
	}

	store := db.NewWebDAVStore(cfg, nil, h.log)
	years, err := db.NewRepository(store, h.log).Years.FetchAll(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "years": len(years), "url": store.DocumentURL(db.YearsFile)})
}

// Seed handles POST /api/seed
func (h *APIHandler) Seed(c *gin.Context) {
	res, err := h.Seeder.Run(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
