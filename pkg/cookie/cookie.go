// Package cookie centralizes cookie attributes so every token cookie is
// written with the same HttpOnly/Secure/SameSite policy. Values are JWTs
// that carry their own signatures, so no additional cookie signing is
// applied here.
package cookie

import (
	"errors"
	"net/http"
	"time"
)

var ErrCookieNotFound = errors.New("cookie: not found")

type Config struct {
	Path     string `env:"COOKIE_PATH" envDefault:"/"`
	Domain   string `env:"COOKIE_DOMAIN" envDefault:""`
	Secure   bool   `env:"COOKIE_SECURE" envDefault:"true"`
	HTTPOnly bool   `env:"COOKIE_HTTP_ONLY" envDefault:"true"`
}

// Manager writes and clears cookies with the configured defaults.
type Manager struct {
	cfg Config
}

func New(cfg Config) *Manager {
	if cfg.Path == "" {
		cfg.Path = "/"
	}
	return &Manager{cfg: cfg}
}

// Set writes a cookie whose lifetime matches maxAge. A zero maxAge
// produces a session cookie.
func (m *Manager) Set(w http.ResponseWriter, name, value string, maxAge time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     m.cfg.Path,
		Domain:   m.cfg.Domain,
		MaxAge:   int(maxAge.Seconds()),
		Secure:   m.cfg.Secure,
		HttpOnly: m.cfg.HTTPOnly,
		SameSite: http.SameSiteLaxMode,
	})
}

// Get returns the named cookie's value.
func (m *Manager) Get(r *http.Request, name string) (string, error) {
	c, err := r.Cookie(name)
	if err != nil {
		if errors.Is(err, http.ErrNoCookie) {
			return "", ErrCookieNotFound
		}
		return "", err
	}
	return c.Value, nil
}

// Delete expires the named cookie. Attributes must match the ones used
// by Set or browsers keep the original cookie alive.
func (m *Manager) Delete(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     m.cfg.Path,
		Domain:   m.cfg.Domain,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		Secure:   m.cfg.Secure,
		HttpOnly: m.cfg.HTTPOnly,
		SameSite: http.SameSiteLaxMode,
	})
}
