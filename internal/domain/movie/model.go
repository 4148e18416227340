package movie

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/go-playground/validator/v10"
)

// Max length constants for user-editable fields.
const (
	MaxTitleLength = 60
	MaxYearLength  = 4
)

// Domain errors
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("movie not found")
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Movie holds state for a watchlist entry.
// Year is kept as text: "199X" is an accepted value.
type Movie struct {
	ID    int64
	Title string `validate:"required,max=60"`
	Year  string `validate:"required,max=4"`
}

// Validate checks the title and year lengths.
// PRE: Movie struct is populated
// POST: Returns nil if valid, an error wrapping ErrInvalidInput otherwise
func (m *Movie) Validate() error {
	if err := validate.Struct(m); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("%w: %s failed %s", ErrInvalidInput, verrs[0].Field(), verrs[0].Tag())
		}
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}

// IMDbSearchURL returns the IMDb title search link shown next to each entry.
func (m Movie) IMDbSearchURL() string {
	return "https://www.imdb.com/find?q=" + url.QueryEscape(m.Title)
}
