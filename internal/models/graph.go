package models

import (
	"fmt"
	"os"

	"github.com/desertthunder/ytmap/internal/shared"
)

const (
	LinkCollaboration = "collaboration"
	LinkSimilar       = "similar"

	GenreOther = "Other"
)

// SongRef is a song listed under an artist node.
type SongRef struct {
	Title    string `json:"title"`
	Album    string `json:"album,omitempty"`
	Duration string `json:"duration,omitempty"`
}

// Node is an artist in the graph.
type Node struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	SongCount  int       `json:"song_count"`
	Importance float64   `json:"importance"`
	InLibrary  bool      `json:"in_library"`
	IsRelated  bool      `json:"is_related,omitempty"`
	Genre      string    `json:"genre,omitempty"`
	Popularity float64   `json:"popularity,omitempty"`
	Songs      []SongRef `json:"songs,omitempty"`
}

// Link connects two artist nodes by id.
type Link struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Weight int    `json:"weight"`
	Type   string `json:"type"`
}

// GraphStats summarizes a [Graph].
type GraphStats struct {
	TotalArtists     int `json:"total_artists"`
	TotalConnections int `json:"total_connections"`
	LibraryArtists   int `json:"library_artists"`
	RelatedArtists   int `json:"related_artists"`
	TotalSongs       int `json:"total_songs,omitempty"`
}

// Graph is the graph_data.json document consumed by the frontend.
type Graph struct {
	Nodes []*Node    `json:"nodes"`
	Links []Link     `json:"links"`
	Stats GraphStats `json:"stats"`
}

// ComputeStats recounts the graph's stats from its nodes and links, keeping TotalSongs.
func (g *Graph) ComputeStats() {
	stats := GraphStats{TotalArtists: len(g.Nodes), TotalConnections: len(g.Links), TotalSongs: g.Stats.TotalSongs}
	for _, n := range g.Nodes {
		if n.IsRelated {
			stats.RelatedArtists++
		} else {
			stats.LibraryArtists++
		}
	}
	g.Stats = stats
}

// NodeIndex maps node ids to nodes.
func (g *Graph) NodeIndex() map[string]*Node {
	index := make(map[string]*Node, len(g.Nodes))
	for _, n := range g.Nodes {
		index[n.ID] = n
	}
	return index
}

// Neighbors maps each node id to the ids it is linked with, in both directions.
func (g *Graph) Neighbors() map[string][]string {
	adj := make(map[string][]string, len(g.Nodes))
	for _, l := range g.Links {
		adj[l.Source] = append(adj[l.Source], l.Target)
		adj[l.Target] = append(adj[l.Target], l.Source)
	}
	return adj
}

// LoadGraph reads graph_data.json from path.
func LoadGraph(path string) (*Graph, error) {
	if !shared.FileExists(path) {
		return nil, fmt.Errorf("%w: no graph at %s", shared.ErrNoMusicData, path)
	}

	var g Graph
	if err := shared.ReadJSONFile(path, &g); err != nil {
		return nil, err
	}
	if g.Links == nil {
		g.Links = []Link{}
	}
	return &g, nil
}

// Save writes the graph as indented JSON.
func (g *Graph) Save(path string) error {
	return shared.WriteJSONFile(path, g, os.FileMode(0644))
}
