package domain

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestNewBounds(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		floor    int
		expected Bounds
	}{
		{name: "explicit floor", floor: 1990, expected: Bounds{YearFloor: 1990, YearCeiling: 2026}},
		{name: "zero floor uses default", floor: 0, expected: Bounds{YearFloor: DefaultYearFloor, YearCeiling: 2026}},
		{name: "floor in the future clamps ceiling", floor: 2030, expected: Bounds{YearFloor: 2030, YearCeiling: 2030}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewBounds(tt.floor, now); got != tt.expected {
				t.Errorf("NewBounds() = %+v, want %+v", got, tt.expected)
			}
		})
	}
}

func TestValidateRating(t *testing.T) {
	b := testBounds()

	tests := []struct {
		name    string
		r       RatingRange
		wantErr bool
	}{
		{name: "full range", r: RatingRange{From: 0, To: 10}},
		{name: "single point", r: RatingRange{From: 7, To: 7}},
		{name: "inverted", r: RatingRange{From: 8, To: 3}, wantErr: true},
		{name: "below minimum", r: RatingRange{From: -1, To: 3}, wantErr: true},
		{name: "above maximum", r: RatingRange{From: 1, To: 11}, wantErr: true},
		{name: "NaN from", r: RatingRange{From: math.NaN(), To: 10}, wantErr: true},
		{name: "NaN to", r: RatingRange{From: 0, To: math.NaN()}, wantErr: true},
		{name: "infinite to", r: RatingRange{From: 0, To: math.Inf(1)}, wantErr: true},
		{name: "negative infinite from", r: RatingRange{From: math.Inf(-1), To: 5}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := b.ValidateRating(tt.r)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidRange) {
					t.Errorf("ValidateRating() error = %v, want ErrInvalidRange", err)
				}
				return
			}
			if err != nil {
				t.Errorf("ValidateRating() unexpected error = %v", err)
			}
		})
	}
}

func TestValidateYear(t *testing.T) {
	b := testBounds()

	tests := []struct {
		name    string
		r       YearRange
		wantErr bool
	}{
		{name: "default", r: b.DefaultYear()},
		{name: "decade", r: YearRange{From: 2010, To: 2020}},
		{name: "inverted", r: YearRange{From: 2020, To: 2010}, wantErr: true},
		{name: "before floor", r: YearRange{From: 1850, To: 1950}, wantErr: true},
		{name: "after ceiling", r: YearRange{From: 2000, To: 2100}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := b.ValidateYear(tt.r)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateYear() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateGenre(t *testing.T) {
	tests := []struct {
		name    string
		genre   string
		wantErr bool
	}{
		{name: "plain", genre: "drama"},
		{name: "cyrillic with spaces", genre: " фильм-нуар "},
		{name: "blank", genre: "   ", wantErr: true},
		{name: "separator", genre: "drama,comedy", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateGenre(tt.genre)
			if tt.wantErr != errors.Is(err, ErrInvalidRange) {
				t.Errorf("ValidateGenre(%q) = %v, wantErr %v", tt.genre, err, tt.wantErr)
			}
		})
	}

	f := testBounds().DefaultFilter()
	f.Genres = []string{"drama", "a,b"}
	if err := testBounds().Validate(f); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("Validate() = %v, want ErrInvalidRange", err)
	}
}

func TestToggleGenreTwiceRestoresSet(t *testing.T) {
	b := testBounds()
	start := b.DefaultFilter()
	start.Genres = []string{"drama", "comedy"}

	for _, genre := range []string{"drama", "horror", " comedy "} {
		once := start.WithGenreToggled(genre)
		if once.Equal(start) {
			t.Errorf("toggle %q once should change the filter", genre)
		}
		twice := once.WithGenreToggled(genre)
		if !twice.Equal(start) {
			t.Errorf("toggle %q twice = %v, want %v", genre, twice.Genres, start.Genres)
		}
	}
}

func TestWithGenreToggledDoesNotAliasInput(t *testing.T) {
	f := Filter{Genres: make([]string, 1, 4)}
	f.Genres[0] = "drama"

	g := f.WithGenreToggled("comedy")
	g.Genres[0] = "changed"

	if f.Genres[0] != "drama" {
		t.Errorf("original filter mutated: %v", f.Genres)
	}
}

func TestIsDefault(t *testing.T) {
	b := testBounds()

	if !b.IsDefault(b.DefaultFilter()) {
		t.Error("IsDefault(DefaultFilter()) = false")
	}

	f := b.DefaultFilter()
	f.Genres = []string{"anime"}
	if b.IsDefault(f) {
		t.Error("IsDefault() with genre = true")
	}

	f = b.DefaultFilter()
	f.Year.To--
	if b.IsDefault(f) {
		t.Error("IsDefault() with narrowed year = true")
	}
}
