package web

import (
	"html/template"
	"net/http"
	"strings"
)

type markdownPage struct {
	layoutData
	Body template.HTML
}

type formPage struct {
	layoutData
	Submitted bool
	Name      string
}

// handleCailuo renders the greeting page.
func (a *App) handleCailuo(w http.ResponseWriter, r *http.Request) {
	l, err := a.layout(w, r, "Hello")
	if err != nil {
		internalError(w, err)
		return
	}
	a.render(w, http.StatusOK, "cailuo", l)
}

// handleBase renders the about page from embedded Markdown.
func (a *App) handleBase(w http.ResponseWriter, r *http.Request) {
	l, err := a.layout(w, r, "About")
	if err != nil {
		internalError(w, err)
		return
	}
	a.render(w, http.StatusOK, "base", markdownPage{layoutData: l, Body: a.aboutHTML})
}

// handleFormDemo shows a form and echoes the submitted name back. It never
// touches the store.
func (a *App) handleFormDemo(w http.ResponseWriter, r *http.Request) {
	page := formPage{}
	if r.Method == http.MethodPost {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		page.Submitted = true
		page.Name = strings.TrimSpace(r.PostFormValue("name"))
	}
	l, err := a.layout(w, r, "Form")
	if err != nil {
		internalError(w, err)
		return
	}
	page.layoutData = l
	a.render(w, http.StatusOK, "form", page)
}
