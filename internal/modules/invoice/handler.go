package invoice

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/georgemunganga/printa-backoffice/internal/modules/shop"
	"github.com/georgemunganga/printa-backoffice/internal/platform/httpx"
)

type Handler struct{ workflow Workflow }

func NewHandler(workflow Workflow) *Handler { return &Handler{workflow: workflow} }

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/orders/{id}/invoice", h.print)            // GET  /api/v1/orders/{id}/invoice
	r.Post("/orders/{id}/invoice/reprint", h.reprint) // POST /api/v1/orders/{id}/invoice/reprint
}

func (h *Handler) print(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, h.workflow.Print)
}

func (h *Handler) reprint(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, h.workflow.Reprint)
}

func (h *Handler) serve(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, scope shop.Scope, orderID uuid.UUID) (*View, error)) {
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
	v, err := fn(r.Context(), scope, id)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, v)
}
