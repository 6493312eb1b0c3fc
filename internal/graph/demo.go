package graph

import "github.com/desertthunder/ytmap/internal/models"

// Demo returns a small sample graph for trying the frontend without any data.
func Demo() *models.Graph {
	library := func(id, name string, songs int, importance float64) *models.Node {
		return &models.Node{ID: id, Name: name, SongCount: songs, Importance: importance, InLibrary: true}
	}
	related := func(id, name string, songs int, importance float64) *models.Node {
		return &models.Node{ID: id, Name: name, SongCount: songs, Importance: importance, IsRelated: true}
	}
	collab := func(s, t string, w int) models.Link {
		return models.Link{Source: s, Target: t, Weight: w, Type: models.LinkCollaboration}
	}
	similar := func(s, t string, w int) models.Link {
		return models.Link{Source: s, Target: t, Weight: w, Type: models.LinkSimilar}
	}

	g := &models.Graph{
		Nodes: []*models.Node{
			library("1", "Taylor Swift", 45, 0.15),
			library("2", "Ed Sheeran", 32, 0.12),
			library("3", "The Weeknd", 28, 0.11),
			library("4", "Dua Lipa", 22, 0.09),
			library("5", "Post Malone", 18, 0.08),
			library("6", "Ariana Grande", 15, 0.07),
			library("7", "Drake", 25, 0.10),
			library("8", "Billie Eilish", 20, 0.08),
			related("9", "Justin Bieber", 12, 0.06),
			related("10", "Shawn Mendes", 8, 0.05),
			library("11", "Khalid", 10, 0.05),
			library("12", "SZA", 14, 0.06),
			library("13", "Doja Cat", 16, 0.07),
			library("14", "Bad Bunny", 11, 0.05),
			library("15", "Olivia Rodrigo", 9, 0.04),
		},
		Links: []models.Link{
			collab("1", "2", 3),
			similar("1", "6", 1),
			collab("2", "9", 2),
			similar("2", "10", 1),
			collab("3", "6", 2),
			collab("3", "7", 3),
			collab("4", "13", 2),
			similar("4", "3", 1),
			similar("5", "7", 2),
			similar("5", "3", 1),
			collab("6", "3", 2),
			similar("6", "13", 1),
			collab("7", "5", 2),
			collab("7", "14", 1),
			collab("8", "11", 2),
			similar("8", "15", 1),
			similar("9", "10", 2),
			similar("11", "12", 1),
			collab("12", "13", 2),
			collab("12", "7", 1),
			similar("13", "14", 1),
			similar("15", "1", 1),
		},
	}
	g.ComputeStats()
	return g
}
