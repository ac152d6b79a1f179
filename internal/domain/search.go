package domain

import (
	"math"
	"sort"
	"strings"
	"unicode"
)

const (
	// Scoring weights
	ScoreExactMatch     = 100.0
	ScorePrefixMatch    = 75.0
	ScoreSubstringMatch = 50.0
	ScoreFuzzyMatch     = 25.0

	// Position bonus (earlier words are better)
	ScorePositionBonus = 10.0

	// Whole-title match bonus
	ScoreExactTitleBonus = 200.0

	// Matches on the alternative title count for less
	AlternativeTitleWeight = 0.8
)

// TitleQuery is a parsed title search.
type TitleQuery struct {
	Raw       string
	Fragments []string
}

// ParseTitleQuery lowercases the input and splits it into words.
func ParseTitleQuery(input string) TitleQuery {
	raw := strings.ToLower(strings.TrimSpace(input))
	return TitleQuery{Raw: raw, Fragments: titleWords(raw)}
}

// Empty reports whether the query has nothing to match.
func (q TitleQuery) Empty() bool { return len(q.Fragments) == 0 }

// Match is a movie with its title score.
type Match struct {
	Movie Movie
	Score float64
}

// ScoreTitle scores a movie against q. Every query word must match some
// title word, otherwise the score is zero. The better of the two titles wins.
func ScoreTitle(q TitleQuery, m Movie) float64 {
	if q.Empty() {
		return 0
	}
	main := scoreTitle(q, m.Name)
	alt := scoreTitle(q, m.AlternativeName) * AlternativeTitleWeight
	return math.Max(main, alt)
}

func scoreTitle(q TitleQuery, title string) float64 {
	title = strings.ToLower(strings.TrimSpace(title))
	words := titleWords(title)
	if len(words) == 0 {
		return 0
	}

	if strings.Join(q.Fragments, " ") == strings.Join(words, " ") {
		return ScoreExactMatch + ScoreExactTitleBonus
	}

	var total float64
	for _, frag := range q.Fragments {
		best := 0.0
		for i, w := range words {
			if s := scoreFragment(frag, w, i); s > best {
				best = s
			}
		}
		if best == 0 {
			return 0
		}
		total += best
	}
	return total
}

// scoreFragment scores one query word against one title word.
func scoreFragment(frag, word string, position int) float64 {
	if frag == "" || word == "" {
		return 0
	}

	if frag == word {
		return ScoreExactMatch + positionBonus(position)
	}
	if strings.HasPrefix(word, frag) {
		return ScorePrefixMatch + positionBonus(position)
	}
	if i := strings.Index(word, frag); i >= 0 {
		return ScoreSubstringMatch + ScorePositionBonus*(1.0-float64(i)/float64(len(word)))
	}

	if sim := similarity(frag, word); sim > 0.5 {
		return ScoreFuzzyMatch * sim
	}
	return 0
}

func positionBonus(position int) float64 {
	return ScorePositionBonus * math.Exp(-float64(position)*0.3)
}

// similarity is the share of runes of a that also occur in b.
func similarity(a, b string) float64 {
	runes := []rune(a)
	if len(runes) == 0 || b == "" {
		return 0
	}
	matches := 0
	for _, c := range runes {
		if strings.ContainsRune(b, c) {
			matches++
		}
	}
	return float64(matches) / float64(len(runes))
}

// titleWords splits on anything that is not a letter or a digit.
func titleWords(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// RankTitles returns the movies matching q, best first. Ties keep the
// input order.
func RankTitles(q TitleQuery, movies []Movie) []Match {
	out := make([]Match, 0, len(movies))
	for _, m := range movies {
		if s := ScoreTitle(q, m); s > 0 {
			out = append(out, Match{Movie: m, Score: s})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}
