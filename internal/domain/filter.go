package domain

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

const (
	// RatingMin and RatingMax bound the rating axis. [0,10] is unconstrained.
	RatingMin = 0.0
	RatingMax = 10.0

	// DefaultYearFloor is the earliest supported release year.
	DefaultYearFloor = 1900
)

// ErrInvalidRange is wrapped by every ValidationError.
var ErrInvalidRange = errors.New("invalid range")

// ValidationError describes a rejected filter mutation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidRange }

// RatingRange is an inclusive rating interval.
type RatingRange struct {
	From float64 `json:"from"`
	To   float64 `json:"to"`
}

// YearRange is an inclusive release-year interval.
type YearRange struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// Bounds are the limits of each filter axis. Their full extent is the
// "unconstrained" default and is never sent upstream as a constraint.
type Bounds struct {
	YearFloor   int
	YearCeiling int
}

// NewBounds builds bounds from a year floor and the current time.
// A non-positive floor falls back to DefaultYearFloor.
func NewBounds(yearFloor int, now time.Time) Bounds {
	if yearFloor <= 0 {
		yearFloor = DefaultYearFloor
	}
	ceiling := now.Year()
	if ceiling < yearFloor {
		ceiling = yearFloor
	}
	return Bounds{YearFloor: yearFloor, YearCeiling: ceiling}
}

// DefaultRating is the unconstrained rating range.
func (b Bounds) DefaultRating() RatingRange {
	return RatingRange{From: RatingMin, To: RatingMax}
}

// DefaultYear is the unconstrained year range.
func (b Bounds) DefaultYear() YearRange {
	return YearRange{From: b.YearFloor, To: b.YearCeiling}
}

// DefaultFilter is the filter with no constraint on any axis.
func (b Bounds) DefaultFilter() Filter {
	return Filter{Rating: b.DefaultRating(), Year: b.DefaultYear()}
}

// IsDefaultRating reports whether r imposes no rating constraint.
func (b Bounds) IsDefaultRating(r RatingRange) bool {
	return r == b.DefaultRating()
}

// IsDefaultYear reports whether r imposes no year constraint.
func (b Bounds) IsDefaultYear(r YearRange) bool {
	return r == b.DefaultYear()
}

// IsDefault reports whether f equals the default filter.
func (b Bounds) IsDefault(f Filter) bool {
	return b.IsDefaultRating(f.Rating) && b.IsDefaultYear(f.Year) && len(f.Genres) == 0
}

// ValidateRating rejects out-of-order or out-of-bounds rating ranges.
func (b Bounds) ValidateRating(r RatingRange) error {
	if !isFinite(r.From) || !isFinite(r.To) {
		return &ValidationError{Field: "rating", Reason: fmt.Sprintf("range %g-%g is not a number range", r.From, r.To)}
	}
	if r.From > r.To {
		return &ValidationError{Field: "rating", Reason: fmt.Sprintf("from %g is greater than to %g", r.From, r.To)}
	}
	if r.From < RatingMin || r.To > RatingMax {
		return &ValidationError{Field: "rating", Reason: fmt.Sprintf("range %g-%g is outside %g-%g", r.From, r.To, RatingMin, RatingMax)}
	}
	return nil
}

// ValidateYear rejects out-of-order or out-of-bounds year ranges.
func (b Bounds) ValidateYear(r YearRange) error {
	if r.From > r.To {
		return &ValidationError{Field: "year", Reason: fmt.Sprintf("from %d is greater than to %d", r.From, r.To)}
	}
	if r.From < b.YearFloor || r.To > b.YearCeiling {
		return &ValidationError{Field: "year", Reason: fmt.Sprintf("range %d-%d is outside %d-%d", r.From, r.To, b.YearFloor, b.YearCeiling)}
	}
	return nil
}

// Validate checks every axis of f.
func (b Bounds) Validate(f Filter) error {
	if err := b.ValidateRating(f.Rating); err != nil {
		return err
	}
	if err := b.ValidateYear(f.Year); err != nil {
		return err
	}
	for _, g := range f.Genres {
		if err := ValidateGenre(g); err != nil {
			return err
		}
	}
	return nil
}

// GenreSeparator joins genres in the shareable query and upstream, so it
// cannot appear inside a name.
const GenreSeparator = ","

// ValidateGenre rejects blank names and names containing GenreSeparator.
func ValidateGenre(name string) error {
	name = NormalizeGenre(name)
	if name == "" {
		return &ValidationError{Field: "genres", Reason: "empty genre name"}
	}
	if strings.Contains(name, GenreSeparator) {
		return &ValidationError{Field: "genres", Reason: fmt.Sprintf("genre %q contains %q", name, GenreSeparator)}
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Filter is the active narrowing of the result set.
// An empty Genres set means "no genre restriction".
type Filter struct {
	Rating RatingRange `json:"rating"`
	Year   YearRange   `json:"year"`
	Genres []string    `json:"genres"`
}

// NormalizeGenre trims surrounding whitespace from a genre name.
func NormalizeGenre(name string) string {
	return strings.TrimSpace(name)
}

// Clone returns a copy that shares no memory with f.
func (f Filter) Clone() Filter {
	c := f
	if f.Genres != nil {
		c.Genres = append([]string(nil), f.Genres...)
	}
	return c
}

// HasGenre reports whether name is selected.
func (f Filter) HasGenre(name string) bool {
	name = NormalizeGenre(name)
	for _, g := range f.Genres {
		if g == name {
			return true
		}
	}
	return false
}

// WithGenreToggled returns a copy of f with name added if absent, removed if
// present.
func (f Filter) WithGenreToggled(name string) Filter {
	name = NormalizeGenre(name)
	c := f.Clone()
	if !f.HasGenre(name) {
		c.Genres = append(c.Genres, name)
		return c
	}
	kept := make([]string, 0, len(c.Genres))
	for _, g := range c.Genres {
		if g != name {
			kept = append(kept, g)
		}
	}
	c.Genres = kept
	return c
}

// Equal compares two filters; genres compare as sets.
func (f Filter) Equal(o Filter) bool {
	if f.Rating != o.Rating || f.Year != o.Year {
		return false
	}
	if len(f.Genres) != len(o.Genres) {
		return false
	}
	seen := make(map[string]struct{}, len(f.Genres))
	for _, g := range f.Genres {
		seen[g] = struct{}{}
	}
	for _, g := range o.Genres {
		if _, ok := seen[g]; !ok {
			return false
		}
	}
	return true
}
