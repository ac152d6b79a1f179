package domain

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Shareable query parameter names.
const (
	QueryGenres     = "genres"
	QueryRatingFrom = "ratingFrom"
	QueryRatingTo   = "ratingTo"
	QueryYearFrom   = "yearFrom"
	QueryYearTo     = "yearTo"
)

// EncodeQuery serializes f into its shareable query representation.
// Axes equal to their default are omitted, so the default filter encodes to
// an empty set of parameters.
func EncodeQuery(f Filter, b Bounds) url.Values {
	v := url.Values{}
	if len(f.Genres) > 0 {
		v.Set(QueryGenres, strings.Join(f.Genres, GenreSeparator))
	}
	if !b.IsDefaultRating(f.Rating) {
		v.Set(QueryRatingFrom, formatRating(f.Rating.From))
		v.Set(QueryRatingTo, formatRating(f.Rating.To))
	}
	if !b.IsDefaultYear(f.Year) {
		v.Set(QueryYearFrom, strconv.Itoa(f.Year.From))
		v.Set(QueryYearTo, strconv.Itoa(f.Year.To))
	}
	return v
}

// DecodeQuery parses a shareable query representation into a filter.
//
// Missing parameters take the default of their axis. An axis whose values
// cannot be parsed or do not form a valid range falls back to its default;
// every such problem is reported in the returned error, but the filter is
// always usable.
func DecodeQuery(v url.Values, b Bounds) (Filter, error) {
	f := b.DefaultFilter()
	var errs []error

	f.Genres = splitGenres(v.Get(QueryGenres))

	rating := b.DefaultRating()
	ratingOK := true
	if s := v.Get(QueryRatingFrom); s != "" {
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s=%q: %w", QueryRatingFrom, s, err))
			ratingOK = false
		}
		rating.From = n
	}
	if s := v.Get(QueryRatingTo); s != "" {
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s=%q: %w", QueryRatingTo, s, err))
			ratingOK = false
		}
		rating.To = n
	}
	if ratingOK {
		if err := b.ValidateRating(rating); err != nil {
			errs = append(errs, err)
		} else {
			f.Rating = rating
		}
	}

	year := b.DefaultYear()
	yearOK := true
	if s := v.Get(QueryYearFrom); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s=%q: %w", QueryYearFrom, s, err))
			yearOK = false
		}
		year.From = n
	}
	if s := v.Get(QueryYearTo); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s=%q: %w", QueryYearTo, s, err))
			yearOK = false
		}
		year.To = n
	}
	if yearOK {
		if err := b.ValidateYear(year); err != nil {
			errs = append(errs, err)
		} else {
			f.Year = year
		}
	}

	return f, errors.Join(errs...)
}

// splitGenres splits a comma-joined genre list, dropping blanks and repeats.
func splitGenres(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, GenreSeparator)
	genres := make([]string, 0, len(raw))
	seen := make(map[string]bool, len(raw))
	for _, part := range raw {
		g := NormalizeGenre(part)
		if g == "" || seen[g] {
			continue
		}
		seen[g] = true
		genres = append(genres, g)
	}
	if len(genres) == 0 {
		return nil
	}
	return genres
}

func formatRating(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
