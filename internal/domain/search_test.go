package domain

import "testing"

func TestParseTitleQuery(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{input: "", want: nil},
		{input: "  The Matrix  ", want: []string{"the", "matrix"}},
		{input: "Brat-2", want: []string{"brat", "2"}},
		{input: "Брат 2", want: []string{"брат", "2"}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			q := ParseTitleQuery(tt.input)
			if len(q.Fragments) != len(tt.want) {
				t.Fatalf("Fragments = %v, want %v", q.Fragments, tt.want)
			}
			for i := range tt.want {
				if q.Fragments[i] != tt.want[i] {
					t.Errorf("Fragments[%d] = %q, want %q", i, q.Fragments[i], tt.want[i])
				}
			}
		})
	}
}

func TestScoreTitle(t *testing.T) {
	matrix := Movie{ID: 1, Name: "The Matrix", AlternativeName: "Матрица"}

	tests := []struct {
		name     string
		query    string
		positive bool
	}{
		{name: "exact", query: "the matrix", positive: true},
		{name: "prefix", query: "matr", positive: true},
		{name: "substring", query: "atri", positive: true},
		{name: "alternative title", query: "матрица", positive: true},
		{name: "one word misses", query: "matrix reloaded", positive: false},
		{name: "no match", query: "zzz", positive: false},
		{name: "empty", query: "", positive: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScoreTitle(ParseTitleQuery(tt.query), matrix)
			if (got > 0) != tt.positive {
				t.Errorf("ScoreTitle(%q) = %v, want positive=%v", tt.query, got, tt.positive)
			}
		})
	}
}

func TestScoreTitleOrdering(t *testing.T) {
	q := ParseTitleQuery("brat")
	exact := ScoreTitle(q, Movie{Name: "Brat"})
	prefix := ScoreTitle(q, Movie{Name: "Bratya"})
	substring := ScoreTitle(q, Movie{Name: "Abrats"})
	alt := ScoreTitle(q, Movie{Name: "Брат", AlternativeName: "Brat"})

	if !(exact > prefix && prefix > substring) {
		t.Errorf("exact=%v prefix=%v substring=%v, want descending", exact, prefix, substring)
	}
	if alt >= exact {
		t.Errorf("alternative title scored %v, want less than %v", alt, exact)
	}
}

func TestRankTitles(t *testing.T) {
	movies := []Movie{
		{ID: 1, Name: "Solaris"},
		{ID: 2, Name: "Brat 2"},
		{ID: 3, Name: "Brat"},
		{ID: 4, Name: "Mirror"},
		{ID: 5, Name: "Brat 2"},
	}

	got := RankTitles(ParseTitleQuery("brat"), movies)
	if len(got) != 3 {
		t.Fatalf("RankTitles() returned %d matches, want 3: %+v", len(got), got)
	}
	if got[0].Movie.ID != 3 {
		t.Errorf("best match = %d, want 3", got[0].Movie.ID)
	}
	if got[1].Movie.ID != 2 || got[2].Movie.ID != 5 {
		t.Errorf("ties reordered: %d, %d", got[1].Movie.ID, got[2].Movie.ID)
	}
}
