package catalog

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/georgemunganga/printa-backoffice/internal/modules/shop"
	"github.com/georgemunganga/printa-backoffice/internal/platform/httpx"
)

// Handler exposes the active shop's catalog.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/catalog", func(r chi.Router) {
		r.Get("/categories", h.listCategories)  // GET  /api/v1/catalog/categories
		r.Post("/categories", h.createCategory) // POST /api/v1/catalog/categories
		r.Get("/items", h.listItems)            // GET  /api/v1/catalog/items?category_id=&active=false
		r.Post("/items", h.createItem)          // POST /api/v1/catalog/items
		r.Get("/items/{id}", h.getItem)         // GET  /api/v1/catalog/items/{id}
		r.Put("/items/{id}", h.updateItem)      // PUT  /api/v1/catalog/items/{id}
	})
}

func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	scope, err := shop.ScopeFromContext(r.Context())
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	categories, err := h.service.ListCategories(r.Context(), scope)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	if categories == nil {
		categories = []*Category{}
	}
	httpx.Respond(w, http.StatusOK, categories)
}

func (h *Handler) createCategory(w http.ResponseWriter, r *http.Request) {
	scope, err := shop.ScopeFromContext(r.Context())
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	var req CreateCategoryRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, r, err)
		return
	}
	c, err := h.service.CreateCategory(r.Context(), scope, req)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusCreated, c)
}

func (h *Handler) listItems(w http.ResponseWriter, r *http.Request) {
	scope, err := shop.ScopeFromContext(r.Context())
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	filter := ItemFilter{ActiveOnly: r.URL.Query().Get("active") != "false"}
	if raw := r.URL.Query().Get("category_id"); raw != "" {
		if filter.CategoryID, err = httpx.ParseUUID("category_id", raw); err != nil {
			httpx.Error(w, r, err)
			return
		}
	}
	items, err := h.service.ListItems(r.Context(), scope, filter)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	if items == nil {
		items = []*Item{}
	}
	httpx.Respond(w, http.StatusOK, items)
}

func (h *Handler) createItem(w http.ResponseWriter, r *http.Request) {
	scope, err := shop.ScopeFromContext(r.Context())
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	var req ItemRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, r, err)
		return
	}
	it, err := h.service.CreateItem(r.Context(), scope, req)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusCreated, it)
}

func (h *Handler) getItem(w http.ResponseWriter, r *http.Request) {
	scope, id, err := scopedID(r)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	it, err := h.service.GetItem(r.Context(), scope, id)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, it)
}

func (h *Handler) updateItem(w http.ResponseWriter, r *http.Request) {
	scope, id, err := scopedID(r)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	var req ItemRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, r, err)
		return
	}
	it, err := h.service.UpdateItem(r.Context(), scope, id, req)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, it)
}

func scopedID(r *http.Request) (shop.Scope, uuid.UUID, error) {
	scope, err := shop.ScopeFromContext(r.Context())
	if err != nil {
		return shop.Scope{}, uuid.Nil, err
	}
	id, err := httpx.UUIDParam(r, "id")
	return scope, id, err
}
