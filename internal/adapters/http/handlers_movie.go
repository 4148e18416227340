package web

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"watchlist/internal/adapters/http/middleware"
	"watchlist/internal/application/orchestrators"
	"watchlist/internal/application/projections"
)

// Flash texts shown after movie actions.
const (
	flashInvalidInput = "Invalid input."
	flashItemCreated  = "Item created."
	flashItemUpdated  = "Item updated."
	flashItemDeleted  = "Item deleted."
)

type indexPage struct {
	layoutData
	Movies []projections.MovieRow
	Count  int
}

type editPage struct {
	layoutData
	Movie projections.MovieRow
}

// handleIndex renders GET / with every movie.
func (a *App) handleIndex(w http.ResponseWriter, r *http.Request) {
	l, err := a.layout(w, r, "Home")
	if err != nil {
		internalError(w, err)
		return
	}
	list, err := projections.QueryGetMovieList(r.Context(), projections.GetMovieListDeps{MovieStore: a.stores.MovieStore})
	if err != nil {
		internalError(w, err)
		return
	}
	a.render(w, http.StatusOK, "index", indexPage{layoutData: l, Movies: list.Movies, Count: list.Count})
}

// handleCreateMovie handles POST /. Anonymous submissions are silently sent home.
func (a *App) handleCreateMovie(w http.ResponseWriter, r *http.Request) {
	if !middleware.IsLoggedIn(r.Context()) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}

	input := orchestrators.CreateMovieInput{
		Title: r.PostFormValue("title"),
		Year:  r.PostFormValue("year"),
	}
	_, err := orchestrators.ExecuteCreateMovie(r.Context(), input, a.movieDeps())
	switch {
	case errors.Is(err, orchestrators.ErrInvalidInput):
		a.flasher.Add(w, r, flashInvalidInput)
	case err != nil:
		internalError(w, err)
		return
	default:
		a.flasher.Add(w, r, flashItemCreated)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleEditMovieForm renders GET /movie/edit/{id}.
func (a *App) handleEditMovieForm(w http.ResponseWriter, r *http.Request) {
	id, ok := movieID(r)
	if !ok {
		a.notFound(w, r)
		return
	}
	movie, err := projections.QueryGetMovie(r.Context(), id, projections.GetMovieDeps{MovieStore: a.stores.MovieStore})
	if errors.Is(err, projections.ErrNotFound) {
		a.notFound(w, r)
		return
	}
	if err != nil {
		internalError(w, err)
		return
	}
	l, err := a.layout(w, r, "Edit item")
	if err != nil {
		internalError(w, err)
		return
	}
	a.render(w, http.StatusOK, "edit", editPage{layoutData: l, Movie: movie})
}

// handleEditMovie handles POST /movie/edit/{id}.
func (a *App) handleEditMovie(w http.ResponseWriter, r *http.Request) {
	id, ok := movieID(r)
	if !ok {
		a.notFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}

	input := orchestrators.EditMovieInput{
		ID:    id,
		Title: r.PostFormValue("title"),
		Year:  r.PostFormValue("year"),
	}
	err := orchestrators.ExecuteEditMovie(r.Context(), input, a.movieDeps())
	switch {
	case errors.Is(err, orchestrators.ErrNotFound):
		a.notFound(w, r)
	case errors.Is(err, orchestrators.ErrInvalidInput):
		a.flasher.Add(w, r, flashInvalidInput)
		http.Redirect(w, r, fmt.Sprintf("/movie/edit/%d", id), http.StatusSeeOther)
	case err != nil:
		internalError(w, err)
	default:
		a.flasher.Add(w, r, flashItemUpdated)
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

// handleDeleteMovie handles POST /movie/delete/{id}.
func (a *App) handleDeleteMovie(w http.ResponseWriter, r *http.Request) {
	id, ok := movieID(r)
	if !ok {
		a.notFound(w, r)
		return
	}
	err := orchestrators.ExecuteDeleteMovie(r.Context(), id, a.movieDeps())
	switch {
	case errors.Is(err, orchestrators.ErrNotFound):
		a.notFound(w, r)
	case err != nil:
		internalError(w, err)
	default:
		a.flasher.Add(w, r, flashItemDeleted)
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

func (a *App) movieDeps() orchestrators.MovieDeps {
	return orchestrators.MovieDeps{MovieStore: a.stores.MovieStore}
}

// movieID parses the {id} path segment; anything but a positive integer is a miss.
func movieID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
