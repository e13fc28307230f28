package shop

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/georgemunganga/printa-backoffice/internal/modules/auth"
	"github.com/georgemunganga/printa-backoffice/internal/platform/httpx"
)

type Handler struct {
	service Service
	cookies *CookieStore
}

func NewHandler(service Service, cookies *CookieStore) *Handler {
	return &Handler{service: service, cookies: cookies}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/session/shop", func(r chi.Router) {
		r.Post("/", h.selectShop)  // POST   /api/v1/session/shop
		r.Get("/", h.activeShop)   // GET    /api/v1/session/shop
		r.Delete("/", h.clearShop) // DELETE /api/v1/session/shop
	})
	r.Route("/shops", func(r chi.Router) {
		r.Post("/", h.createShop)                           // POST   /api/v1/shops
		r.Get("/", h.listShops)                             // GET    /api/v1/shops
		r.Get("/{id}/members", h.listMembers)               // GET    /api/v1/shops/{id}/members
		r.Post("/{id}/members", h.addMember)                // POST   /api/v1/shops/{id}/members
		r.Delete("/{id}/members/{user_id}", h.removeMember) // DELETE /api/v1/shops/{id}/members/{user_id}
	})
}

type activeShopResponse struct {
	ShopID   string `json:"shop_id"`
	ShopName string `json:"shop_name"`
}

func (h *Handler) selectShop(w http.ResponseWriter, r *http.Request) {
	id, err := auth.MustIdentity(r)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	var req SelectShopRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, r, err)
		return
	}
	shopID, err := httpx.ParseUUID("shop_id", req.ShopID)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	sel, shop, err := h.service.Select(r.Context(), id.UserID, shopID)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	if err := h.cookies.Save(w, sel); err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, activeShopResponse{ShopID: shop.ID.String(), ShopName: shop.Name})
}

func (h *Handler) activeShop(w http.ResponseWriter, r *http.Request) {
	scope, err := ScopeFromContext(r.Context())
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	shop, err := h.service.GetShop(r.Context(), scope)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, activeShopResponse{ShopID: shop.ID.String(), ShopName: shop.Name})
}

func (h *Handler) clearShop(w http.ResponseWriter, r *http.Request) {
	h.cookies.Clear(w)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) createShop(w http.ResponseWriter, r *http.Request) {
	id, err := auth.MustIdentity(r)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	var req CreateShopRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, r, err)
		return
	}
	shop, err := h.service.CreateShop(r.Context(), id.UserID, req)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusCreated, shop)
}

func (h *Handler) listShops(w http.ResponseWriter, r *http.Request) {
	id, err := auth.MustIdentity(r)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	shops, err := h.service.ListShops(r.Context(), id.UserID)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	if shops == nil {
		shops = []*Shop{}
	}
	httpx.Respond(w, http.StatusOK, shops)
}

// pathScope builds the scope for /shops/{id} routes, which name the shop explicitly.
func pathScope(r *http.Request) (Scope, error) {
	id, err := auth.MustIdentity(r)
	if err != nil {
		return Scope{}, err
	}
	shopID, err := httpx.UUIDParam(r, "id")
	if err != nil {
		return Scope{}, err
	}
	return Scope{UserID: id.UserID, ShopID: shopID}, nil
}

func (h *Handler) listMembers(w http.ResponseWriter, r *http.Request) {
	scope, err := pathScope(r)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	members, err := h.service.ListMembers(r.Context(), scope)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, members)
}

func (h *Handler) addMember(w http.ResponseWriter, r *http.Request) {
	scope, err := pathScope(r)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	var req AddMemberRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, r, err)
		return
	}
	member, err := h.service.AddMember(r.Context(), scope, req)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusCreated, member)
}

func (h *Handler) removeMember(w http.ResponseWriter, r *http.Request) {
	scope, err := pathScope(r)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	userID, err := httpx.UUIDParam(r, "user_id")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	if err := h.service.RemoveMember(r.Context(), scope, userID); err != nil {
		httpx.Error(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
