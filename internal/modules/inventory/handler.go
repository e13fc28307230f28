package inventory

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/georgemunganga/printa-backoffice/internal/modules/shop"
	"github.com/georgemunganga/printa-backoffice/internal/platform/httpx"
)

// Handler exposes stock levels for the active shop.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/inventory", func(r chi.Router) {
		r.Get("/", h.listStock)                        // GET /api/v1/inventory
		r.Get("/{item_id}", h.getStock)                // GET /api/v1/inventory/{item_id}
		r.Put("/{item_id}", h.setStock)                // PUT /api/v1/inventory/{item_id}
		r.Get("/{item_id}/movements", h.listMovements) // GET /api/v1/inventory/{item_id}/movements
	})
}

func (h *Handler) listStock(w http.ResponseWriter, r *http.Request) {
	scope, err := shop.ScopeFromContext(r.Context())
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	levels, err := h.service.ListStock(r.Context(), scope)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	if levels == nil {
		levels = []*StockLevel{}
	}
	httpx.Respond(w, http.StatusOK, levels)
}

func (h *Handler) getStock(w http.ResponseWriter, r *http.Request) {
	scope, err := shop.ScopeFromContext(r.Context())
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	itemID, err := httpx.UUIDParam(r, "item_id")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	level, err := h.service.GetStock(r.Context(), scope, itemID)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, level)
}

func (h *Handler) setStock(w http.ResponseWriter, r *http.Request) {
	scope, err := shop.ScopeFromContext(r.Context())
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	itemID, err := httpx.UUIDParam(r, "item_id")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	var req SetStockRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, r, err)
		return
	}
	level, err := h.service.SetStock(r.Context(), scope, itemID, req)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, level)
}

func (h *Handler) listMovements(w http.ResponseWriter, r *http.Request) {
	scope, err := shop.ScopeFromContext(r.Context())
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	itemID, err := httpx.UUIDParam(r, "item_id")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	moves, err := h.service.ListMovements(r.Context(), scope, itemID)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, moves)
}
