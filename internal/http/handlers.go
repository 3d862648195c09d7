package http

import (
	"errors"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/kiefferbp/arbitrum-token-bridge/internal/balances"
	"github.com/kiefferbp/arbitrum-token-bridge/internal/bridge"
	"github.com/kiefferbp/arbitrum-token-bridge/internal/selection"
	"github.com/kiefferbp/arbitrum-token-bridge/internal/tokenlists"
	"github.com/kiefferbp/arbitrum-token-bridge/internal/tokens"
)

// Handler backs the local API the browser UI talks to. It owns the
// session-scoped pieces: the current selection, pending import address,
// undelivered notices, and the panel toggle.
type Handler struct {
	userTokens *tokens.Manager
	catalogue  *tokenlists.Catalogue
	bridgeSvc  *bridge.Service
	provider   *balances.Provider
	panel      *selection.PanelState
	dispatcher *selection.Dispatcher

	mu            sync.Mutex
	selected      *tokens.Record
	pendingImport string
	notices       []string
}

func NewHandler(userTokens *tokens.Manager, catalogue *tokenlists.Catalogue,
	bridgeSvc *bridge.Service, provider *balances.Provider) *Handler {

	h := &Handler{
		userTokens: userTokens,
		catalogue:  catalogue,
		bridgeSvc:  bridgeSvc,
		provider:   provider,
		panel:      selection.NewPanelState(),
	}

	h.dispatcher = selection.NewDispatcher(bridgeSvc, bridgeSvc, selection.Callbacks{
		OnSelect: func(rec *tokens.Record) {
			h.mu.Lock()
			defer h.mu.Unlock()
			h.selected = rec
			h.pendingImport = ""
		},
		OnImportNeeded: func(address string) {
			h.mu.Lock()
			defer h.mu.Unlock()
			h.pendingImport = address
		},
		OnNotice: func(msg string) {
			h.mu.Lock()
			defer h.mu.Unlock()
			h.notices = append(h.notices, msg)
		},
	})

	return h
}

// -------- DTOs for the local bridge API --------

type displayEntry struct {
	Native  bool           `json:"native,omitempty"`
	Token   *tokens.Record `json:"token,omitempty"`
	Balance string         `json:"balance,omitempty"`
}

type selectReq struct {
	Native  bool   `json:"native"`
	Address string `json:"address"`
}

type importReq struct {
	Address string `json:"address" binding:"required"`
}

type listEnabledReq struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

type selectionRes struct {
	Selected      *tokens.Record `json:"selected"`
	PendingImport string         `json:"pendingImport,omitempty"`
	Notices       []string       `json:"notices,omitempty"`
}

func (h *Handler) Health(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

// GET /api/tokens?query=&mode=
func (h *Handler) DisplayList(c *gin.Context) {
	mode := selection.ParseMode(c.Query("mode"))
	in := selection.Inputs{
		UserTokens: h.userTokens.Map(),
		ListTokens: h.catalogue.Map(),
		Mode:       mode,
		Query:      c.Query("query"),
	}
	in.Balances = h.provider.Snapshot(c.Request.Context(), merged(in.UserTokens, in.ListTokens))

	entries := selection.DisplayList(in)

	out := make([]displayEntry, 0, len(entries))
	for _, e := range entries {
		de := displayEntry{Native: e.IsNative(), Token: e.Token}
		if bal := in.Balances.Lookup(e.Address(), mode); bal != nil {
			de.Balance = bal.String()
		}
		out = append(out, de)
	}
	c.JSON(http.StatusOK, out)
}

// POST /api/tokens/select
func (h *Handler) Select(c *gin.Context) {
	var req selectReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var entry selection.Entry
	switch {
	case req.Native:
		entry = selection.Native()
	default:
		addr, err := tokens.NormalizeAddress(req.Address)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		rec, ok := h.userTokens.Get(addr)
		if !ok {
			rec, ok = h.catalogue.Map()[addr]
		}
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "token not in the current candidate set"})
			return
		}
		entry = selection.ForToken(rec)
	}

	h.dispatcher.Select(c.Request.Context(), entry)
	c.JSON(http.StatusOK, h.selectionSnapshot(false))
}

// GET /api/selection
func (h *Handler) Selection(c *gin.Context) {
	c.JSON(http.StatusOK, h.selectionSnapshot(true))
}

// POST /api/tokens/import
func (h *Handler) Import(c *gin.Context) {
	var req importReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// reject malformed input before any on-chain work
	addr, err := tokens.NormalizeAddress(req.Address)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rec, err := h.bridgeSvc.AddToken(c.Request.Context(), addr)
	if err != nil {
		switch {
		case errors.Is(err, bridge.ErrTokenDisabled):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, bridge.ErrTokenNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		}
		return
	}

	stored, err := h.userTokens.Add(rec)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.mu.Lock()
	if h.pendingImport == stored.Address {
		h.pendingImport = ""
	}
	h.mu.Unlock()

	c.JSON(http.StatusCreated, stored)
}

// GET /api/tokens/user
func (h *Handler) UserTokens(c *gin.Context) {
	c.JSON(http.StatusOK, h.userTokens.List())
}

// DELETE /api/tokens/user/:address
func (h *Handler) RemoveUserToken(c *gin.Context) {
	if err := h.userTokens.Remove(c.Param("address")); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// GET /api/lists
func (h *Handler) Lists(c *gin.Context) {
	c.JSON(http.StatusOK, h.catalogue.Lists())
}

// PUT /api/lists/:id/enabled
func (h *Handler) SetListEnabled(c *gin.Context) {
	var req listEnabledReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.catalogue.SetEnabled(c.Param("id"), *req.Enabled); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// POST /api/lists/refresh
func (h *Handler) RefreshLists(c *gin.Context) {
	if err := h.catalogue.Refresh(c.Request.Context()); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	// List tokens stay outside the working set until imported.
	c.JSON(http.StatusOK, h.catalogue.Lists())
}

// GET /api/panel
func (h *Handler) Panel(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"panel": h.panel.Current()})
}

// POST /api/panel/toggle
func (h *Handler) TogglePanel(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"panel": h.panel.Toggle()})
}

// selectionSnapshot copies the session outcome state; drain empties the
// notice queue so each notice is shown once.
func (h *Handler) selectionSnapshot(drain bool) selectionRes {
	h.mu.Lock()
	defer h.mu.Unlock()

	res := selectionRes{
		Selected:      h.selected,
		PendingImport: h.pendingImport,
		Notices:       append([]string(nil), h.notices...),
	}
	if drain {
		h.notices = nil
	}
	return res
}

func merged(user, list map[string]tokens.Record) map[string]tokens.Record {
	out := make(map[string]tokens.Record, len(user)+len(list))
	for k, v := range list {
		out[k] = v
	}
	for k, v := range user {
		out[k] = v
	}
	return out
}
