package domain

import "strings"

// UntitledName is shown for movies without a display name.
const UntitledName = "Untitled"

// Movie is a catalog item as returned by the remote catalog.
//
// Movies are immutable once fetched. A movie held by the bookmark list is an
// independent copy (see Clone), so later changes to a catalog copy never leak
// into a bookmark.
type Movie struct {
	// ─────────────────────────────
	// Identity (immutable)
	// ─────────────────────────────

	// ID is the stable catalog identifier and the unique key everywhere.
	ID int64 `json:"id"`

	// ─────────────────────────────
	// Display
	// ─────────────────────────────

	// Name is the display title. May be empty upstream.
	Name string `json:"name,omitempty"`

	// AlternativeName is the original-language title, when known.
	AlternativeName string `json:"alternativeName,omitempty"`

	// Year is the release year (display only).
	Year int `json:"year,omitempty"`

	// Rating holds the named sub-scores. Read through DisplayRating.
	Rating Rating `json:"rating"`

	// Poster references the poster image. Nil when the catalog has none.
	Poster *Poster `json:"poster,omitempty"`

	// Description and ShortDescription: first non-empty wins.
	Description      string `json:"description,omitempty"`
	ShortDescription string `json:"shortDescription,omitempty"`

	// Genres keeps upstream order.
	Genres []Genre `json:"genres,omitempty"`

	// AgeRating is the recommended minimum age, when known.
	AgeRating *float64 `json:"ageRating,omitempty"`
}

// Rating is the set of named scores the catalog reports for a movie.
type Rating struct {
	KP                 float64 `json:"kp"`
	IMDB               float64 `json:"imdb"`
	FilmCritics        float64 `json:"filmCritics"`
	RussianFilmCritics float64 `json:"russianFilmCritics"`
	Await              float64 `json:"await"`
}

// Poster is a reference to a poster image.
type Poster struct {
	URL        string `json:"url,omitempty"`
	PreviewURL string `json:"previewUrl,omitempty"`
}

// Genre is a named genre attached to a movie.
type Genre struct {
	Name string `json:"name"`
}

// DisplayName returns the trimmed name, or UntitledName.
func (m Movie) DisplayName() string {
	if name := strings.TrimSpace(m.Name); name != "" {
		return name
	}
	return UntitledName
}

// DisplayRating returns the primary score, falling back to IMDb, then zero.
func (m Movie) DisplayRating() float64 {
	if m.Rating.KP != 0 {
		return m.Rating.KP
	}
	if m.Rating.IMDB != 0 {
		return m.Rating.IMDB
	}
	return 0
}

// DisplayDescription returns the first non-empty description.
func (m Movie) DisplayDescription() string {
	if d := strings.TrimSpace(m.Description); d != "" {
		return d
	}
	return strings.TrimSpace(m.ShortDescription)
}

// PosterURL returns the poster URL or "".
func (m Movie) PosterURL() string {
	if m.Poster == nil {
		return ""
	}
	return strings.TrimSpace(m.Poster.URL)
}

// Displayable reports whether the movie passes the display-quality gate:
// a non-blank name and a poster URL.
func (m Movie) Displayable() bool {
	return strings.TrimSpace(m.Name) != "" && m.PosterURL() != ""
}

// GenreNames returns the non-empty genre names in upstream order.
func (m Movie) GenreNames() []string {
	names := make([]string, 0, len(m.Genres))
	for _, g := range m.Genres {
		if g.Name != "" {
			names = append(names, g.Name)
		}
	}
	return names
}

// Clone returns a deep copy.
func (m Movie) Clone() Movie {
	c := m
	if m.Poster != nil {
		p := *m.Poster
		c.Poster = &p
	}
	if m.Genres != nil {
		c.Genres = append([]Genre(nil), m.Genres...)
	}
	if m.AgeRating != nil {
		a := *m.AgeRating
		c.AgeRating = &a
	}
	return c
}

// CloneMovies deep-copies a slice of movies. Nil stays nil.
func CloneMovies(movies []Movie) []Movie {
	if movies == nil {
		return nil
	}
	out := make([]Movie, len(movies))
	for i, m := range movies {
		out[i] = m.Clone()
	}
	return out
}

// Page is one bounded batch of movies returned by the catalog for a cursor.
type Page struct {
	Docs  []Movie `json:"docs"`
	Page  int     `json:"page"`
	Limit int     `json:"limit"`
	Total int     `json:"total"`
	Pages int     `json:"pages"`
}
