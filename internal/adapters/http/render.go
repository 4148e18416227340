package web

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/gorilla/csrf"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"watchlist/internal/adapters/http/middleware"
	"watchlist/internal/application/projections"
)

//go:embed templates/*.html static content/*.md
var assets embed.FS

// pageNames lists every page template; each is parsed together with layout.html.
var pageNames = []string{"index", "edit", "login", "settings", "cailuo", "base", "form", "404"}

// mdRenderer is a goldmark instance configured for safe HTML output.
// Raw HTML in markdown input is escaped (WithUnsafe is NOT set).
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

func parsePages() (map[string]*template.Template, error) {
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		tpl, err := template.New("layout.html").ParseFS(assets, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		pages[name] = tpl
	}
	return pages, nil
}

func renderAbout() (template.HTML, error) {
	src, err := assets.ReadFile("content/about.md")
	if err != nil {
		return "", fmt.Errorf("read about page: %w", err)
	}
	var buf bytes.Buffer
	if err := mdRenderer.Convert(src, &buf); err != nil {
		return "", fmt.Errorf("render about page: %w", err)
	}
	return template.HTML(buf.String()), nil
}

// layoutData carries the fields every page's layout needs.
type layoutData struct {
	Title     string
	AdminName string
	LoggedIn  bool
	Flashes   []string
	CSRFField template.HTML
}

// SiteTitle is the header text: "<name>'s Watchlist", or "Watchlist" before
// an account exists.
func (l layoutData) SiteTitle() string {
	if l.AdminName == "" {
		return "Watchlist"
	}
	return l.AdminName + "'s Watchlist"
}

// layout builds the shared view-model fields and consumes pending flashes.
func (a *App) layout(w http.ResponseWriter, r *http.Request, title string) (layoutData, error) {
	name, err := a.adminName(r.Context())
	if err != nil {
		return layoutData{}, err
	}
	return layoutData{
		Title:     title,
		AdminName: name,
		LoggedIn:  middleware.IsLoggedIn(r.Context()),
		Flashes:   a.flasher.Pop(w, r),
		CSRFField: csrf.TemplateField(r),
	}, nil
}

func (a *App) adminName(ctx context.Context) (string, error) {
	return projections.QueryGetAdminName(ctx, projections.GetAdminNameDeps{AccountStore: a.stores.AccountStore})
}

// render executes a page into a buffer first so template errors become a clean 500.
func (a *App) render(w http.ResponseWriter, status int, page string, data any) {
	tpl, ok := a.pages[page]
	if !ok {
		internalError(w, fmt.Errorf("unknown page %q", page))
		return
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		internalError(w, fmt.Errorf("render %s: %w", page, err))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// internalError logs the real error and returns a generic message to the client.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// notFound renders the custom 404 page.
func (a *App) notFound(w http.ResponseWriter, r *http.Request) {
	l, err := a.layout(w, r, "404 Not Found")
	if err != nil {
		internalError(w, err)
		return
	}
	a.render(w, http.StatusNotFound, "404", l)
}
