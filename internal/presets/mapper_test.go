package presets

import (
	"errors"
	"testing"
	"time"

	"github.com/MrSnakeDoc/marquee/internal/domain"
)

func testBounds() domain.Bounds {
	return domain.NewBounds(1900, time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC))
}

func TestMap(t *testing.T) {
	config := Config{
		{Name: "top", Description: " Top rated ", Query: "?ratingTo=10&ratingFrom=8"},
		{Name: "", Query: "genres=drama"},
		{Name: "top", Query: "genres=comedy"},
		{Name: "broken", Query: "yearFrom=2020&yearTo=2010"},
		{Name: "everything", Query: ""},
		{Name: "crime", Query: "genres=crime,drama"},
	}

	got, err := Map(config, testBounds())
	if err == nil {
		t.Error("Map() should report the skipped entries")
	}
	if len(got) != 3 {
		t.Fatalf("Map() returned %d presets, want 3: %+v", len(got), got)
	}

	tests := []struct {
		name  string
		index int
		query string
	}{
		{name: "top", index: 0, query: "ratingFrom=8&ratingTo=10"},
		{name: "everything", index: 1, query: ""},
		{name: "crime", index: 2, query: "genres=crime%2Cdrama"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := got[tt.index]
			if p.Name != tt.name {
				t.Errorf("Name = %q, want %q", p.Name, tt.name)
			}
			if p.Query != tt.query {
				t.Errorf("Query = %q, want %q", p.Query, tt.query)
			}
		})
	}

	if got[0].Description != "Top rated" {
		t.Errorf("Description = %q, want trimmed", got[0].Description)
	}
	if got[0].Filter.Rating != (domain.RatingRange{From: 8, To: 10}) {
		t.Errorf("Filter.Rating = %+v", got[0].Filter.Rating)
	}
	if !testBounds().IsDefault(got[1].Filter) {
		t.Errorf("empty query should map to the default filter, got %+v", got[1].Filter)
	}
}

func TestMapNoValidPresets(t *testing.T) {
	_, err := Map(Config{{Name: "bad", Query: "ratingFrom=x"}}, testBounds())
	if !errors.Is(err, ErrNoPresets) {
		t.Errorf("Map() error = %v, want ErrNoPresets", err)
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	if r.Count() != 0 || !r.LastReload().IsZero() {
		t.Fatal("new registry should be empty")
	}

	r.Replace([]Preset{
		{Name: "b", Filter: domain.Filter{Genres: []string{"drama"}}},
		{Name: "a"},
	})

	list := r.List()
	if len(list) != 2 || list[0].Name != "b" || list[1].Name != "a" {
		t.Errorf("List() = %+v, want file order", list)
	}
	list[0].Filter.Genres[0] = "changed"

	p, ok := r.Get("b")
	if !ok || p.Filter.Genres[0] != "drama" {
		t.Errorf("Get() = (%+v, %v), registry shares memory with callers", p, ok)
	}
	if _, ok := r.Get("missing"); ok {
		t.Error("Get(missing) should report false")
	}

	r.Replace(nil)
	if r.Count() != 0 || r.LastReload().IsZero() {
		t.Error("Replace(nil) should empty the registry and record the reload")
	}
}
