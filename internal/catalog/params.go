package catalog

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/MrSnakeDoc/marquee/internal/domain"
)

// Upstream query parameter names.
const (
	paramPage         = "page"
	paramLimit        = "limit"
	paramSelectFields = "selectFields"
	paramRating       = "rating.kp"
	paramYear         = "year"
	paramGenres       = "genres.name"
)

// selectFields trims upstream documents to what the engine renders.
var selectFields = []string{
	"id",
	"name",
	"alternativeName",
	"year",
	"rating",
	"poster",
	"genres",
	"description",
	"shortDescription",
	"ageRating",
}

// pageParams translates a filter into upstream query parameters.
// An axis equal to its unconstrained default is left out entirely.
func pageParams(f domain.Filter, b domain.Bounds, page, limit int) url.Values {
	v := url.Values{}
	v.Set(paramPage, strconv.Itoa(page))
	v.Set(paramLimit, strconv.Itoa(limit))
	for _, field := range selectFields {
		v.Add(paramSelectFields, field)
	}

	if !b.IsDefaultRating(f.Rating) {
		v.Set(paramRating, fmt.Sprintf("%s-%s", formatFloat(f.Rating.From), formatFloat(f.Rating.To)))
	}
	if !b.IsDefaultYear(f.Year) {
		v.Set(paramYear, fmt.Sprintf("%d-%d", f.Year.From, f.Year.To))
	}
	if len(f.Genres) > 0 {
		v.Set(paramGenres, strings.Join(f.Genres, domain.GenreSeparator))
	}
	return v
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
