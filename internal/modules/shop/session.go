package shop

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/securecookie"
)

const (
	defaultCookieName = "active_shop"
	defaultCookiePath = "/"
	defaultLifetime   = 12 * time.Hour
)

// ErrInvalidCookieConfig indicates the cookie store was built without usable keys.
var ErrInvalidCookieConfig = errors.New("shop: invalid cookie config")

// CookieConfig controls how the active-shop selection is signed and scoped.
type CookieConfig struct {
	Name     string
	HashKey  []byte
	BlockKey []byte
	Secure   bool
	Lifetime time.Duration
	Now      func() time.Time
}

// CookieStore persists the active-shop Selection in a signed (optionally encrypted) cookie.
type CookieStore struct {
	cfg   CookieConfig
	codec *securecookie.SecureCookie
	now   func() time.Time
}

// NewCookieStore validates cfg and returns a store.
func NewCookieStore(cfg CookieConfig) (*CookieStore, error) {
	if len(cfg.HashKey) == 0 {
		return nil, fmt.Errorf("%w: hash key is required", ErrInvalidCookieConfig)
	}
	if cfg.Name == "" {
		cfg.Name = defaultCookieName
	}
	if cfg.Lifetime <= 0 {
		cfg.Lifetime = defaultLifetime
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	codec := securecookie.New(cfg.HashKey, cfg.BlockKey)
	codec.SetSerializer(securecookie.JSONEncoder{})
	codec.MaxAge(int(cfg.Lifetime / time.Second))

	return &CookieStore{cfg: cfg, codec: codec, now: now}, nil
}

// Load returns the selection carried by r, or nil when there is none or it fails verification.
func (s *CookieStore) Load(r *http.Request) *Selection {
	cookie, err := r.Cookie(s.cfg.Name)
	if err != nil {
		return nil
	}
	var sel Selection
	if err := s.codec.Decode(s.cfg.Name, cookie.Value, &sel); err != nil {
		return nil
	}
	if s.now().Sub(sel.SelectedAt) > s.cfg.Lifetime {
		return nil
	}
	return &sel
}

// Save issues a fresh cookie for sel.
func (s *CookieStore) Save(w http.ResponseWriter, sel *Selection) error {
	encoded, err := s.codec.Encode(s.cfg.Name, sel)
	if err != nil {
		return fmt.Errorf("encode selection: %w", err)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     s.cfg.Name,
		Value:    encoded,
		Path:     defaultCookiePath,
		Expires:  sel.SelectedAt.Add(s.cfg.Lifetime),
		MaxAge:   int(s.cfg.Lifetime / time.Second),
		Secure:   s.cfg.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Clear expires the cookie on the client.
func (s *CookieStore) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cfg.Name,
		Value:    "",
		Path:     defaultCookiePath,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		Secure:   s.cfg.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
