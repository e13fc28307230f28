package shop

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/georgemunganga/printa-backoffice/internal/modules/auth"
)

var testHashKey = []byte("0123456789abcdef0123456789abcdef")

func newTestCookies(t *testing.T, now func() time.Time) *CookieStore {
	t.Helper()
	store, err := NewCookieStore(CookieConfig{HashKey: testHashKey, Secure: true, Now: now})
	require.NoError(t, err)
	return store
}

func TestNewCookieStoreRequiresHashKey(t *testing.T) {
	t.Parallel()
	_, err := NewCookieStore(CookieConfig{})
	require.ErrorIs(t, err, ErrInvalidCookieConfig)
}

func TestCookieRoundTrip(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	store := newTestCookies(t, func() time.Time { return now })
	sel := &Selection{UserID: uuid.New(), ShopID: uuid.New(), SelectedAt: now}

	rec := httptest.NewRecorder()
	require.NoError(t, store.Save(rec, sel))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]
	require.Equal(t, defaultCookieName, c.Name)
	require.True(t, c.HttpOnly)
	require.True(t, c.Secure)
	require.Equal(t, http.SameSiteLaxMode, c.SameSite)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(c)
	got := store.Load(req)
	require.NotNil(t, got)
	require.Equal(t, sel.UserID, got.UserID)
	require.Equal(t, sel.ShopID, got.ShopID)
}

func TestCookieRejectsTamperingAndExpiry(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	clock := now
	store := newTestCookies(t, func() time.Time { return clock })

	rec := httptest.NewRecorder()
	require.NoError(t, store.Save(rec, &Selection{UserID: uuid.New(), ShopID: uuid.New(), SelectedAt: now}))
	c := rec.Result().Cookies()[0]

	forged := httptest.NewRequest(http.MethodGet, "/", nil)
	forged.AddCookie(&http.Cookie{Name: c.Name, Value: c.Value + "x"})
	require.Nil(t, store.Load(forged))

	clock = now.Add(13 * time.Hour)
	stale := httptest.NewRequest(http.MethodGet, "/", nil)
	stale.AddCookie(c)
	require.Nil(t, store.Load(stale))

	require.Nil(t, store.Load(httptest.NewRequest(http.MethodGet, "/", nil)))
}

func TestSelectShopEndpointBindsSession(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _ := newTestService(t)
	store := newTestCookies(t, nil)
	owner := uuid.New()
	shop, err := svc.CreateShop(ctx, owner, CreateShopRequest{Name: "Print Hub", Type: "PRINT"})
	require.NoError(t, err)

	router := chi.NewRouter()
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := auth.WithIdentity(r.Context(), &auth.Identity{UserID: owner})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	})
	router.Use(Middleware(store, svc))
	NewHandler(svc, store).RegisterRoutes(router)

	// No selection yet.
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/session/shop", nil))
	require.Equal(t, http.StatusConflict, rec.Code)

	// Unknown shop.
	body, _ := json.Marshal(SelectShopRequest{ShopID: uuid.NewString()})
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/session/shop", bytes.NewReader(body)))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Empty(t, rec.Result().Cookies())

	body, _ = json.Marshal(SelectShopRequest{ShopID: shop.ID.String()})
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/session/shop", bytes.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)

	req := httptest.NewRequest(http.MethodGet, "/session/shop", nil)
	req.AddCookie(cookies[0])
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var active activeShopResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&active))
	require.Equal(t, shop.ID.String(), active.ShopID)
	require.Equal(t, "Print Hub", active.ShopName)
}
