package pos

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/georgemunganga/printa-backoffice/internal/modules/shop"
	"github.com/georgemunganga/printa-backoffice/internal/platform/httpx"
)

// Handler exposes counter checkout endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/pos", func(r chi.Router) {
		r.Post("/orders/{order_id}/checkout", h.checkout)     // POST /api/v1/pos/orders/{order_id}/checkout
		r.Post("/orders/{order_id}/refund", h.refund)         // POST /api/v1/pos/orders/{order_id}/refund
		r.Get("/orders/{order_id}/transaction", h.getByOrder) // GET  /api/v1/pos/orders/{order_id}/transaction
		r.Get("/transactions", h.listTransactions)            // GET  /api/v1/pos/transactions
	})
}

func (h *Handler) checkout(w http.ResponseWriter, r *http.Request) {
	scope, err := shop.ScopeFromContext(r.Context())
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	orderID, err := httpx.UUIDParam(r, "order_id")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	var req CheckoutRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, r, err)
		return
	}
	receipt, err := h.service.Checkout(r.Context(), scope, orderID, req)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusCreated, receipt)
}

func (h *Handler) refund(w http.ResponseWriter, r *http.Request) {
	scope, err := shop.ScopeFromContext(r.Context())
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	orderID, err := httpx.UUIDParam(r, "order_id")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	receipt, err := h.service.Refund(r.Context(), scope, orderID)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, receipt)
}

func (h *Handler) getByOrder(w http.ResponseWriter, r *http.Request) {
	scope, err := shop.ScopeFromContext(r.Context())
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	orderID, err := httpx.UUIDParam(r, "order_id")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	tx, err := h.service.GetTransaction(r.Context(), scope, orderID)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, tx)
}

func (h *Handler) listTransactions(w http.ResponseWriter, r *http.Request) {
	scope, err := shop.ScopeFromContext(r.Context())
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	txs, err := h.service.ListTransactions(r.Context(), scope)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	if txs == nil {
		txs = []*Transaction{}
	}
	httpx.Respond(w, http.StatusOK, txs)
}
