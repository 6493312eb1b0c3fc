// package genres assigns genres to artist nodes of a [models.Graph].
//
// Assignment runs in three stages: a lookup against a built-in artist table and name patterns,
// inference from the genres of linked artists, and an Electronic fallback for artists linked to EDM acts.
package genres

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/desertthunder/ytmap/internal/models"
	"github.com/desertthunder/ytmap/internal/shared"
)

const (
	Electronic = "Electronic"
	KPop       = "K-Pop"

	// InferencePasses is how many times [Infer] runs so inferred genres can propagate.
	InferencePasses = 3
	minInferVotes   = 3
	minInferShare   = 0.6
)

type genrePattern struct {
	re    *regexp.Regexp
	genre string
}

var patterns = []genrePattern{
	{regexp.MustCompile(`\b(dubstep|bass music|brostep)\b`), "Dubstep/Bass"},
	{regexp.MustCompile(`\b(melodic dubstep|melodic bass)\b`), "Melodic Bass"},
	{regexp.MustCompile(`\b(future bass)\b`), "Future Bass"},
	{regexp.MustCompile(`\b(drum and bass|dnb|d&b|drum & bass)\b`), "Drum & Bass"},
	{regexp.MustCompile(`\b(progressive house|prog house)\b`), "Progressive House"},
	{regexp.MustCompile(`\b(tech house)\b`), "Tech House"},
	{regexp.MustCompile(`\b(deep house)\b`), "UK House"},
	{regexp.MustCompile(`\b(trance|psytrance)\b`), "Trance"},
	{regexp.MustCompile(`\b(trap)\b`), "Trap/Bass"},
	{regexp.MustCompile(`\b(k-?pop|korean pop)\b`), KPop},
	{regexp.MustCompile(`\b(hip-?hop|rap)\b`), "Hip-Hop"},
}

// edmGenres are the genres whose neighbours receive the [Electronic] fallback.
var edmGenres = map[string]bool{
	"Melodic Bass": true, "Dubstep/Bass": true, "Future Bass": true, "Progressive House": true,
	"Trance": true, "Tech House": true, "UK House": true, "Bass House": true, "Electro House": true,
	"Trap/Bass": true, "Drum & Bass": true, "Pop/EDM": true, "Electronic/Indie": true,
	"Midtempo Bass": true, "Tropical House": true, "House": true,
}

// Summary reports the outcome of a classification stage.
type Summary struct {
	Changed    int
	StillOther int
}

// GenreCount is a genre and the number of nodes carrying it.
type GenreCount struct {
	Genre string
	Count int
}

// genreOf treats a missing genre as [models.GenreOther].
func genreOf(n *models.Node) string {
	if n.Genre == "" {
		return models.GenreOther
	}
	return n.Genre
}

// Classifier looks up artist genres in the built-in table.
type Classifier struct {
	artists []artistGenre
	exact   map[string]string
}

// NewClassifier creates a [Classifier] over the built-in artist table.
func NewClassifier() *Classifier {
	exact := make(map[string]string, len(knownArtists))
	for _, a := range knownArtists {
		exact[a.Artist] = a.Genre
	}
	return &Classifier{artists: knownArtists, exact: exact}
}

// Lookup returns the genre for name by exact, case-insensitive, partial, then pattern match.
func (c *Classifier) Lookup(name string) (string, bool) {
	if genre, ok := c.exact[name]; ok {
		return genre, true
	}

	lower := strings.ToLower(name)
	if lower == "" {
		return "", false
	}
	for _, a := range c.artists {
		if strings.ToLower(a.Artist) == lower {
			return a.Genre, true
		}
	}
	for _, a := range c.artists {
		artist := strings.ToLower(a.Artist)
		if strings.Contains(lower, artist) || strings.Contains(artist, lower) {
			return a.Genre, true
		}
	}
	for _, p := range patterns {
		if p.re.MatchString(lower) {
			return p.genre, true
		}
	}
	return "", false
}

// Assign sets the genre of every node the classifier recognizes.
func (c *Classifier) Assign(g *models.Graph) Summary {
	var s Summary
	for _, n := range g.Nodes {
		genre, ok := c.Lookup(n.Name)
		if !ok {
			if genreOf(n) == models.GenreOther {
				s.StillOther++
			}
			continue
		}
		if genre != n.Genre {
			n.Genre = genre
			s.Changed++
		}
	}
	return s
}

// Infer gives Other nodes the genre shared by a strong majority of their neighbours.
//
// A genre is adopted when at least three neighbours carry it and they make up more than 60% of the
// neighbours with a known genre. K-Pop is never inferred. Nodes update in place, so later nodes in
// the same pass see earlier results.
func Infer(g *models.Graph) Summary {
	index := g.NodeIndex()
	adj := g.Neighbors()

	var s Summary
	for _, n := range g.Nodes {
		if genreOf(n) != models.GenreOther {
			continue
		}

		counts := make(map[string]int)
		var order []string
		total := 0
		for _, id := range adj[n.ID] {
			neighbour, ok := index[id]
			if !ok {
				continue
			}
			genre := genreOf(neighbour)
			if genre == models.GenreOther {
				continue
			}
			if counts[genre] == 0 {
				order = append(order, genre)
			}
			counts[genre]++
			total++
		}
		if total == 0 {
			continue
		}

		top := order[0]
		for _, genre := range order[1:] {
			if counts[genre] > counts[top] {
				top = genre
			}
		}
		if top == KPop {
			continue
		}
		if counts[top] >= minInferVotes && float64(counts[top])/float64(total) > minInferShare {
			n.Genre = top
			s.Changed++
		}
	}

	s.StillOther = countGenre(g, models.GenreOther)
	return s
}

// Fallback marks Other nodes linked to any EDM artist as [Electronic].
func Fallback(g *models.Graph) Summary {
	index := g.NodeIndex()
	adj := g.Neighbors()

	var s Summary
	for _, n := range g.Nodes {
		if genreOf(n) != models.GenreOther {
			continue
		}
		for _, id := range adj[n.ID] {
			if neighbour, ok := index[id]; ok && edmGenres[genreOf(neighbour)] {
				n.Genre = Electronic
				s.Changed++
				break
			}
		}
	}

	s.StillOther = countGenre(g, models.GenreOther)
	return s
}

// Result collects the summaries of a full [Classifier.Run].
type Result struct {
	Assigned     Summary
	Inferred     []Summary
	Fallback     Summary
	Distribution []GenreCount
}

// Run assigns genres, infers over [InferencePasses] passes, then applies the fallback.
func (c *Classifier) Run(g *models.Graph) Result {
	r := Result{Assigned: c.Assign(g)}
	for range InferencePasses {
		r.Inferred = append(r.Inferred, Infer(g))
	}
	r.Fallback = Fallback(g)
	r.Distribution = Distribution(g)
	return r
}

func countGenre(g *models.Graph, genre string) int {
	count := 0
	for _, n := range g.Nodes {
		if genreOf(n) == genre {
			count++
		}
	}
	return count
}

// Distribution counts nodes per genre, most common first and ties by name.
func Distribution(g *models.Graph) []GenreCount {
	counts := make(map[string]int)
	for _, n := range g.Nodes {
		counts[genreOf(n)]++
	}

	dist := make([]GenreCount, 0, len(counts))
	for genre, count := range counts {
		dist = append(dist, GenreCount{Genre: genre, Count: count})
	}
	sort.Slice(dist, func(i, j int) bool {
		if dist[i].Count != dist[j].Count {
			return dist[i].Count > dist[j].Count
		}
		return dist[i].Genre < dist[j].Genre
	})
	return dist
}

// GenreMap is the genre_map.json document: artist name to genre.
type GenreMap map[string]string

// LoadGenreMap reads genre_map.json. A missing file yields an empty map.
func LoadGenreMap(path string) (GenreMap, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return GenreMap{}, nil
	}

	m := GenreMap{}
	if err := shared.ReadJSONFile(path, &m); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}
	return m, nil
}

// Lookup finds name exactly, case-insensitively, then without a leading "The ".
func (m GenreMap) Lookup(name string) (string, bool) {
	if genre, ok := m[name]; ok {
		return genre, true
	}

	lower := strings.ToLower(name)
	for artist, genre := range m {
		if strings.ToLower(artist) == lower {
			return genre, true
		}
	}

	if strings.HasPrefix(lower, "the ") {
		trimmed := lower[4:]
		for artist, genre := range m {
			if strings.ToLower(artist) == trimmed {
				return genre, true
			}
		}
	}
	return "", false
}

// FromGraph builds a map from the genres already assigned in g, skipping Other.
func FromGraph(g *models.Graph) GenreMap {
	m := GenreMap{}
	for _, n := range g.Nodes {
		if genre := genreOf(n); genre != models.GenreOther {
			m[n.Name] = genre
		}
	}
	return m
}

var tagGenres = map[string]string{
	"electronic":        Electronic,
	"edm":               Electronic,
	"dubstep":           "Dubstep/Bass",
	"bass":              "Dubstep/Bass",
	"house":             "House",
	"deep house":        "House",
	"tech house":        "Tech House",
	"progressive house": "Progressive House",
	"trance":            "Trance",
	"future bass":       "Future Bass",
	"trap":              "Trap/Bass",
	"hip-hop":           "Hip-Hop",
	"hip hop":           "Hip-Hop",
	"rap":               "Hip-Hop",
	"pop":               "Pop",
	"rock":              "Rock",
	"indie":             "Electronic/Indie",
	"k-pop":             KPop,
	"kpop":              KPop,
	"drum and bass":     "Drum & Bass",
	"dnb":               "Drum & Bass",
	"jazz":              "Jazz",
	"funk":              "Funk/Electronic",
	"r&b":               "Pop",
	"rnb":               "Pop",
}

// TagGenre maps Last.fm tags to a genre: the first mapped tag wins, else the first tag title-cased.
func TagGenre(tags []string) (string, bool) {
	if len(tags) == 0 {
		return "", false
	}
	for _, tag := range tags {
		if genre, ok := tagGenres[strings.ToLower(strings.TrimSpace(tag))]; ok {
			return genre, true
		}
	}
	if title := cases.Title(language.Und).String(strings.TrimSpace(tags[0])); title != "" {
		return title, true
	}
	return models.GenreOther, true
}
