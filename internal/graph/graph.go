// package graph builds the artist graph rendered by the frontend.
//
// Nodes are artists sized by how many of the user's songs they appear on. Links join artists that
// collaborate on a song or whose names appear in each other's song titles.
package graph

import (
	"context"
	"sort"
	"strings"

	"github.com/desertthunder/ytmap/internal/genres"
	"github.com/desertthunder/ytmap/internal/models"
)

// MaxSongsPerNode caps the song list attached to each node when building from uploads.
const MaxSongsPerNode = 20

// GenreResolver finds the genre of an artist.
type GenreResolver interface {
	ResolveGenre(ctx context.Context, artist string) (string, bool)
}

// ResolverFunc adapts a function to [GenreResolver].
type ResolverFunc func(ctx context.Context, artist string) (string, bool)

func (f ResolverFunc) ResolveGenre(ctx context.Context, artist string) (string, bool) {
	return f(ctx, artist)
}

// MapResolver resolves genres from a genre_map.json document.
func MapResolver(m genres.GenreMap) GenreResolver {
	return ResolverFunc(func(_ context.Context, artist string) (string, bool) {
		return m.Lookup(artist)
	})
}

// Chain tries each resolver in order. Nil resolvers are skipped.
func Chain(resolvers ...GenreResolver) GenreResolver {
	return ResolverFunc(func(ctx context.Context, artist string) (string, bool) {
		for _, r := range resolvers {
			if r == nil {
				continue
			}
			if genre, ok := r.ResolveGenre(ctx, artist); ok && genre != "" {
				return genre, true
			}
		}
		return "", false
	})
}

type pair struct{ a, b string }

func sortedPair(x, y string) pair {
	if y < x {
		x, y = y, x
	}
	return pair{x, y}
}

// pairCounter counts pairs, remembering the order in which they were first seen.
type pairCounter struct {
	counts map[pair]int
	order  []pair
}

func newPairCounter() *pairCounter {
	return &pairCounter{counts: make(map[pair]int)}
}

func (c *pairCounter) add(p pair) {
	if _, ok := c.counts[p]; !ok {
		c.order = append(c.order, p)
	}
	c.counts[p]++
}

// groupByArtist groups songs by primary artist, returning artist names in first-seen order.
func groupByArtist(songs []models.Song) ([]string, map[string][]models.Song) {
	var order []string
	groups := make(map[string][]models.Song)
	for _, s := range songs {
		if _, ok := groups[s.Artist]; !ok {
			order = append(order, s.Artist)
		}
		groups[s.Artist] = append(groups[s.Artist], s)
	}
	return order, groups
}

func maxGroup(groups map[string][]models.Song) int {
	most := 1
	for _, g := range groups {
		most = max(most, len(g))
	}
	return most
}

// BuildFromSongs builds a graph from uploaded songs.
//
// Artists without a resolved genre get [models.GenreOther]. Collaboration weights sum the songs listing
// both artists and the titles of one artist's songs that mention the other.
func BuildFromSongs(ctx context.Context, songs []models.Song, resolver GenreResolver) *models.Graph {
	artists, groups := groupByArtist(songs)
	most := maxGroup(groups)

	g := &models.Graph{Nodes: make([]*models.Node, 0, len(artists)), Links: []models.Link{}}
	for _, artist := range artists {
		list := groups[artist]
		genre := models.GenreOther
		if resolver != nil {
			if resolved, ok := resolver.ResolveGenre(ctx, artist); ok && resolved != "" {
				genre = resolved
			}
		}

		refs := make([]models.SongRef, 0, min(len(list), MaxSongsPerNode))
		for _, s := range list[:min(len(list), MaxSongsPerNode)] {
			refs = append(refs, models.SongRef{Title: s.Title})
		}

		g.Nodes = append(g.Nodes, &models.Node{
			ID:         artist,
			Name:       artist,
			SongCount:  len(list),
			Importance: float64(len(list)) / float64(most),
			InLibrary:  true,
			Genre:      genre,
			Songs:      refs,
		})
	}

	collabs := newPairCounter()
	for _, artist := range artists {
		for _, s := range groups[artist] {
			if len(s.AllArtists) < 2 {
				continue
			}
			for _, other := range s.AllArtists[1:] {
				if _, ok := groups[other]; ok && other != artist {
					collabs.add(sortedPair(artist, other))
				}
			}
		}
	}

	lowered := make(map[string]string, len(artists))
	for _, a := range artists {
		lowered[a] = strings.ToLower(a)
	}
	for i, a1 := range artists {
		for _, a2 := range artists[i+1:] {
			p := sortedPair(a1, a2)
			for _, s := range groups[a1] {
				if strings.Contains(strings.ToLower(s.Title), lowered[a2]) {
					collabs.add(p)
				}
			}
			for _, s := range groups[a2] {
				if strings.Contains(strings.ToLower(s.Title), lowered[a1]) {
					collabs.add(p)
				}
			}
		}
	}

	for _, p := range collabs.order {
		g.Links = append(g.Links, models.Link{Source: p.a, Target: p.b, Weight: collabs.counts[p], Type: models.LinkCollaboration})
	}

	g.ComputeStats()
	return g
}

// BuildFromSpotify builds a graph from saved Spotify tracks converted to songs.
//
// Nodes carry the average track popularity. Each collaborator pair is linked once, from the artist
// seen first, weighted by that artist's songs featuring the collaborator.
func BuildFromSpotify(songs []models.Song) *models.Graph {
	artists, groups := groupByArtist(songs)
	most := maxGroup(groups)

	g := &models.Graph{Nodes: make([]*models.Node, 0, len(artists)), Links: []models.Link{}}
	collaborators := make(map[string][]string, len(artists))
	for _, artist := range artists {
		list := groups[artist]

		popularity := 0
		seen := make(map[string]bool)
		for _, s := range list {
			popularity += s.Popularity
			if len(s.AllArtists) < 2 {
				continue
			}
			for _, c := range s.AllArtists[1:] {
				if !seen[c] {
					seen[c] = true
					collaborators[artist] = append(collaborators[artist], c)
				}
			}
		}

		refs := make([]models.SongRef, 0, min(len(list), MaxSongsPerNode))
		for _, s := range list[:min(len(list), MaxSongsPerNode)] {
			refs = append(refs, models.SongRef{Title: s.Title, Album: s.Album})
		}

		g.Nodes = append(g.Nodes, &models.Node{
			ID:         artist,
			Name:       artist,
			SongCount:  len(list),
			Importance: float64(len(list)) / float64(most),
			InLibrary:  true,
			Popularity: float64(popularity) / float64(len(list)),
			Songs:      refs,
		})
	}

	linked := make(map[pair]bool)
	for _, artist := range artists {
		for _, c := range collaborators[artist] {
			if _, ok := groups[c]; !ok {
				continue
			}
			p := sortedPair(artist, c)
			if linked[p] {
				continue
			}
			linked[p] = true

			weight := 0
			for _, s := range groups[artist] {
				for _, name := range s.AllArtists {
					if name == c {
						weight++
						break
					}
				}
			}
			g.Links = append(g.Links, models.Link{Source: artist, Target: c, Weight: weight, Type: models.LinkCollaboration})
		}
	}

	g.Stats.TotalSongs = len(songs)
	g.ComputeStats()
	return g
}

// Mismatch is a node whose song count differs from the length of its song list.
type Mismatch struct {
	Name   string
	Count  int
	Actual int
}

// RebuildResult reports the outcome of [Rebuild].
type RebuildResult struct {
	Updated    int
	Mismatches []Mismatch
}

// MaxMismatches is how many mismatches [Rebuild] reports.
const MaxMismatches = 5

// Rebuild refills node song lists from the liked songs in music, matching nodes by artist id
// and falling back to the artist name for nodes built from names.
//
// Songs are deduplicated by title and a list only replaces a shorter one.
func Rebuild(g *models.Graph, music *models.MusicData) RebuildResult {
	byID := make(map[string][]models.SongRef)
	byName := make(map[string][]models.SongRef)
	for _, s := range music.LikedSongs {
		ref := models.SongRef{Title: s.Title, Album: s.Album, Duration: s.Duration}
		for _, a := range s.Artists {
			if a.ID != "" {
				byID[a.ID] = append(byID[a.ID], ref)
			}
			if a.Name != "" {
				byName[a.Name] = append(byName[a.Name], ref)
			}
		}
	}

	var result RebuildResult
	for _, n := range g.Nodes {
		seen := make(map[string]bool)
		var unique []models.SongRef
		songs, ok := byID[n.ID]
		if !ok {
			songs = byName[n.Name]
		}
		for _, s := range songs {
			if !seen[s.Title] {
				seen[s.Title] = true
				unique = append(unique, s)
			}
		}
		if len(unique) > len(n.Songs) {
			n.Songs = unique
			result.Updated++
		}
	}

	for _, n := range g.Nodes {
		if n.SongCount > 0 && n.SongCount != len(n.Songs) {
			result.Mismatches = append(result.Mismatches, Mismatch{Name: n.Name, Count: n.SongCount, Actual: len(n.Songs)})
		}
	}
	sort.SliceStable(result.Mismatches, func(i, j int) bool {
		mi, mj := result.Mismatches[i], result.Mismatches[j]
		return mi.Count-mi.Actual > mj.Count-mj.Actual
	})
	if len(result.Mismatches) > MaxMismatches {
		result.Mismatches = result.Mismatches[:MaxMismatches]
	}
	return result
}
