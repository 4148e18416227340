package web

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"time"

	"golang.org/x/crypto/hkdf"

	"watchlist/internal/adapters/http/middleware"
	"watchlist/internal/adapters/http/perf"
	accountStore "watchlist/internal/adapters/storage/account"
	movieStore "watchlist/internal/adapters/storage/movie"
)

// Stores holds all storage dependencies.
type Stores struct {
	AccountStore accountStore.Store
	MovieStore   movieStore.Store
}

// Options configures an App.
type Options struct {
	// SecretKey signs CSRF tokens and flash cookies. Must be 32 bytes.
	SecretKey     []byte
	SecureCookies bool
	SessionTTL    time.Duration
	SlowRequestMs int
	// Collector receives request timings; a fresh one is created when nil.
	Collector *perf.Collector
}

// App is the HTTP application context. It owns the session store, the flash
// codec and the parsed templates; nothing is kept in package globals.
type App struct {
	stores    *Stores
	sessions  *middleware.SessionStore
	flasher   *middleware.Flasher
	collector *perf.Collector
	pages     map[string]*template.Template
	aboutHTML template.HTML
	opts      Options
}

// NewApp wires the application context.
// PRE: s has both stores set; opts.SecretKey is 32 bytes
// POST: Returns an App ready to serve, or an error if templates fail to parse
func NewApp(s *Stores, opts Options) (*App, error) {
	if s == nil || s.AccountStore == nil || s.MovieStore == nil {
		return nil, errors.New("web: stores are required")
	}
	if len(opts.SecretKey) != 32 {
		return nil, fmt.Errorf("web: secret key must be 32 bytes, got %d", len(opts.SecretKey))
	}
	if opts.Collector == nil {
		opts.Collector = perf.NewCollector()
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = middleware.DefaultSessionTTL
	}

	pages, err := parsePages()
	if err != nil {
		return nil, err
	}
	about, err := renderAbout()
	if err != nil {
		return nil, err
	}
	flashKey, err := deriveKey(opts.SecretKey, "watchlist flash")
	if err != nil {
		return nil, err
	}

	return &App{
		stores:    s,
		sessions:  middleware.NewSessionStore(opts.SessionTTL, opts.SecureCookies),
		flasher:   middleware.NewFlasher(flashKey, opts.SecureCookies),
		collector: opts.Collector,
		pages:     pages,
		aboutHTML: about,
		opts:      opts,
	}, nil
}

// Handler returns the route table wrapped in the middleware chain.
func (a *App) Handler() http.Handler {
	// Timing -> Auth -> CSRF -> SecurityHeaders -> Mux
	return middleware.Chain(middleware.CaptureRoute(a.routes()),
		middleware.SecurityHeaders,
		middleware.CSRF(a.opts.SecretKey, a.opts.SecureCookies, a.opts.SessionTTL, a.flasher),
		middleware.Auth(a.sessions),
		middleware.Timing(a.collector, a.opts.SlowRequestMs),
	)
}

// deriveKey expands the app secret into a 32-byte key bound to purpose.
func deriveKey(secret []byte, purpose string) ([]byte, error) {
	key := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, secret, nil, []byte(purpose)), key); err != nil {
		return nil, fmt.Errorf("derive %s key: %w", purpose, err)
	}
	return key, nil
}
