package handlers

import (
	"encoding/json"

	"github.com/gin-gonic/gin"

	"ambar/internal/core/apperror"
	"ambar/internal/infrastructure/http/v1/dto"
	"ambar/internal/infrastructure/remote/gist"
	"ambar/internal/store"
)

// SyncHandler handles remote backup push and pull.
type SyncHandler struct {
	*BaseHandler
	store  *store.Store
	client *gist.Client
	token  string
}

// NewSyncHandler creates a new sync handler. The token is the bearer
// credential for push; pull of public documents needs none.
func NewSyncHandler(base *BaseHandler, st *store.Store, client *gist.Client, token string) *SyncHandler {
	return &SyncHandler{BaseHandler: base, store: st, client: client, token: token}
}

// Push uploads the current collections to the remote document. First push
// creates the document and records its coordinates; later pushes update it
// in place.
// POST /api/v1/sync/push
func (h *SyncHandler) Push(c *gin.Context) {
	ctx := c.Request.Context()

	backup := h.store.Backup()
	content, err := json.MarshalIndent(backup, "", "  ")
	if err != nil {
		h.Error(c, apperror.NewInternal(err))
		return
	}

	settings := h.store.Settings()
	filename := settings.GistFilename
	if filename == "" {
		filename = store.DefaultFilename
	}

	if settings.GistID != "" {
		if err := h.client.Update(ctx, h.token, settings.GistID, filename, content); err != nil {
			h.Error(c, err)
			return
		}
		h.OK(c, dto.SyncPushResponse{GistID: settings.GistID, GistURL: settings.GistURL})
		return
	}

	created, err := h.client.Create(ctx, h.token, filename, content)
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := h.store.UpdateRemoteSettings(ctx, created.ID, created.URL); err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, dto.SyncPushResponse{GistID: created.ID, GistURL: created.URL, Created: true})
}

// Pull downloads the remote document and merges it into the local state.
// Settings always stay local; only the record collections travel.
// POST /api/v1/sync/pull
func (h *SyncHandler) Pull(c *gin.Context) {
	ctx := c.Request.Context()

	settings := h.store.Settings()
	filename := settings.GistFilename
	if filename == "" {
		filename = store.DefaultFilename
	}

	content, err := h.client.Fetch(ctx, settings.GistID, filename)
	if err != nil {
		h.Error(c, err)
		return
	}

	var backup store.Backup
	if err := json.Unmarshal(content, &backup); err != nil {
		h.Error(c, apperror.NewRemoteSync("remote document is not a valid backup").
			WithDetail("error", err.Error()))
		return
	}

	if err := h.store.RestoreBackup(ctx, backup); err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.SyncPullResponse{
		Products:      len(backup.Products),
		InputInvoices: len(backup.InputInvoices),
		Sales151:      len(backup.Sales151),
		Sales168:      len(backup.Sales168),
	})
}

// GetSettings returns the current remote coordinates.
// GET /api/v1/settings/remote
func (h *SyncHandler) GetSettings(c *gin.Context) {
	settings := h.store.Settings()
	h.OK(c, dto.RemoteSettingsResponse{
		GistFilename: settings.GistFilename,
		GistID:       settings.GistID,
		GistURL:      settings.GistURL,
	})
}

// UpdateSettings records remote coordinates by hand, e.g. to pull a backup
// pushed from another machine.
// PUT /api/v1/settings/remote
func (h *SyncHandler) UpdateSettings(c *gin.Context) {
	var req dto.RemoteSettingsRequest
	if !h.BindJSON(c, &req) {
		return
	}

	if err := h.store.UpdateRemoteSettings(c.Request.Context(), req.GistID, req.GistURL); err != nil {
		h.Error(c, err)
		return
	}

	settings := h.store.Settings()
	h.OK(c, dto.RemoteSettingsResponse{
		GistFilename: settings.GistFilename,
		GistID:       settings.GistID,
		GistURL:      settings.GistURL,
	})
}

// RegisterRoutes registers sync and remote settings routes.
func (h *SyncHandler) RegisterRoutes(sync, settings *gin.RouterGroup) {
	sync.POST("/push", h.Push)
	sync.POST("/pull", h.Pull)
	settings.GET("/remote", h.GetSettings)
	settings.PUT("/remote", h.UpdateSettings)
}
