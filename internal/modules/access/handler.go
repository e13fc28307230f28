package access

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/georgemunganga/printa-backoffice/internal/modules/auth"
	"github.com/georgemunganga/printa-backoffice/internal/platform/httpx"
)

// Handler exposes role administration endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/permissions", h.listPermissions) // GET    /api/v1/permissions
	r.Route("/roles", func(r chi.Router) {
		r.Get("/", h.listRoles)                      // GET    /api/v1/roles
		r.Post("/", h.createRole)                    // POST   /api/v1/roles
		r.Put("/{id}/permissions", h.setPermissions) // PUT    /api/v1/roles/{id}/permissions
	})
	r.Post("/users/{id}/roles", h.assignRole)             // POST   /api/v1/users/{id}/roles
	r.Delete("/users/{id}/roles/{role_id}", h.revokeRole) // DELETE /api/v1/users/{id}/roles/{role_id}
}

func (h *Handler) listPermissions(w http.ResponseWriter, r *http.Request) {
	id, err := auth.MustIdentity(r)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	defs, err := h.service.ListPermissions(r.Context(), id.UserID)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, defs)
}

func (h *Handler) listRoles(w http.ResponseWriter, r *http.Request) {
	id, err := auth.MustIdentity(r)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	roles, err := h.service.ListRoles(r.Context(), id.UserID)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, roles)
}

func (h *Handler) createRole(w http.ResponseWriter, r *http.Request) {
	id, err := auth.MustIdentity(r)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	var req CreateRoleRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, r, err)
		return
	}
	role, err := h.service.CreateRole(r.Context(), id.UserID, req)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusCreated, role)
}

func (h *Handler) setPermissions(w http.ResponseWriter, r *http.Request) {
	id, err := auth.MustIdentity(r)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	roleID, err := httpx.UUIDParam(r, "id")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	var req SetPermissionsRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, r, err)
		return
	}
	role, err := h.service.SetRolePermissions(r.Context(), id.UserID, roleID, req)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, role)
}

func (h *Handler) assignRole(w http.ResponseWriter, r *http.Request) {
	id, err := auth.MustIdentity(r)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	userID, err := httpx.UUIDParam(r, "id")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	var req AssignRoleRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, r, err)
		return
	}
	roleID, err := httpx.ParseUUID("role_id", req.RoleID)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	if err := h.service.AssignRole(r.Context(), id.UserID, userID, roleID); err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, map[string]string{"status": "role assigned"})
}

func (h *Handler) revokeRole(w http.ResponseWriter, r *http.Request) {
	id, err := auth.MustIdentity(r)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	userID, err := httpx.UUIDParam(r, "id")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	roleID, err := httpx.UUIDParam(r, "role_id")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	if err := h.service.RevokeRole(r.Context(), id.UserID, userID, roleID); err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, map[string]string{"status": "role revoked"})
}
