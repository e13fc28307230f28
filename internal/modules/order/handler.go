package order

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/georgemunganga/printa-backoffice/internal/modules/auth"
	"github.com/georgemunganga/printa-backoffice/internal/modules/shop"
	"github.com/georgemunganga/printa-backoffice/internal/platform/apperr"
	"github.com/georgemunganga/printa-backoffice/internal/platform/httpx"
)

// Handler exposes order HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/orders", h.createOrder)                     // POST /api/v1/orders
	r.Get("/orders", h.listOrders)                       // GET  /api/v1/orders?status=PAID
	r.Get("/orders/number/{number}", h.getOrderByNumber) // GET  /api/v1/orders/number/{number}
	r.Get("/orders/{id}", h.getOrder)                    // GET  /api/v1/orders/{id}
	r.Post("/orders/{id}/status", h.transitionStatus)    // POST /api/v1/orders/{id}/status
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, r, err)
		return
	}
	scope, err := shop.ScopeFromContext(r.Context())
	if errors.Is(err, apperr.ErrNoShopSelected) && req.ShopID != "" {
		// An explicit shop_id stands in for the session; the service validates it.
		var id *auth.Identity
		if id, err = auth.MustIdentity(r); err == nil {
			scope = shop.Scope{UserID: id.UserID}
		}
	}
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	o, err := h.service.CreateOrder(r.Context(), scope, req)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusCreated, o)
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	scope, err := shop.ScopeFromContext(r.Context())
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	var status Status
	if raw := r.URL.Query().Get("status"); raw != "" {
		if status, err = ParseStatus(raw); err != nil {
			httpx.Error(w, r, err)
			return
		}
	}
	orders, err := h.service.ListOrders(r.Context(), scope, status)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	if orders == nil {
		orders = []*Order{}
	}
	httpx.Respond(w, http.StatusOK, orders)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	scope, err := shop.ScopeFromContext(r.Context())
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	id, err := httpx.UUIDParam(r, "id")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	o, err := h.service.GetOrder(r.Context(), scope, id)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, o)
}

func (h *Handler) getOrderByNumber(w http.ResponseWriter, r *http.Request) {
	scope, err := shop.ScopeFromContext(r.Context())
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	o, err := h.service.GetOrderByNumber(r.Context(), scope, chi.URLParam(r, "number"))
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, o)
}

func (h *Handler) transitionStatus(w http.ResponseWriter, r *http.Request) {
	scope, err := shop.ScopeFromContext(r.Context())
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	id, err := httpx.UUIDParam(r, "id")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	var req TransitionRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, r, err)
		return
	}
	target, err := ParseStatus(req.Status)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	o, err := h.service.TransitionStatus(r.Context(), scope, id, target)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, o)
}
