package web

import (
	"io/fs"
	"net/http"

	"watchlist/internal/adapters/http/middleware"
)

// routes is the explicit route table.
func (a *App) routes() *http.ServeMux {
	guard := middleware.RequireAuth(a.flasher)
	mux := http.NewServeMux()

	// movies
	mux.HandleFunc("GET /{$}", a.handleIndex)
	mux.HandleFunc("POST /{$}", a.handleCreateMovie)
	mux.Handle("GET /movie/edit/{id}", guard(http.HandlerFunc(a.handleEditMovieForm)))
	mux.Handle("POST /movie/edit/{id}", guard(http.HandlerFunc(a.handleEditMovie)))
	mux.Handle("POST /movie/delete/{id}", guard(http.HandlerFunc(a.handleDeleteMovie)))

	// auth and settings
	mux.HandleFunc("GET /login", a.handleLoginForm)
	mux.HandleFunc("POST /login", a.handleLogin)
	mux.Handle("GET /logout", guard(http.HandlerFunc(a.handleLogout)))
	mux.Handle("GET /settings", guard(http.HandlerFunc(a.handleSettingsForm)))
	mux.Handle("POST /settings", guard(http.HandlerFunc(a.handleSettings)))

	// demo pages
	mux.HandleFunc("GET /cailuo", a.handleCailuo)
	mux.HandleFunc("GET /base", a.handleBase)
	mux.HandleFunc("GET /form", a.handleFormDemo)
	mux.HandleFunc("POST /form", a.handleFormDemo)

	static, _ := fs.Sub(assets, "static")
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(static)))
	mux.Handle("GET /metrics", a.collector.Handler())

	mux.HandleFunc("/", a.notFound)
	return mux
}
