// package formatter provides functions to export artist graphs to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/desertthunder/ytmap/internal/genres"
	"github.com/desertthunder/ytmap/internal/models"
	"github.com/desertthunder/ytmap/internal/shared"
)

// Format is an export format.
type Format string

const (
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatText     Format = "txt"
	FormatJSON     Format = "json"
)

// ParseFormat accepts a format name or a common alias.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return FormatCSV, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "txt", "text":
		return FormatText, nil
	case "json", "":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, s)
	}
}

// Extension returns the file extension for f.
func (f Format) Extension() string {
	if f == FormatMarkdown {
		return ".md"
	}
	return "." + string(f)
}

// sortedNodes orders nodes by song count descending, then name.
func sortedNodes(g *models.Graph) []*models.Node {
	nodes := append([]*models.Node(nil), g.Nodes...)
	sort.SliceStable(nodes, func(i, j int) bool {
		if nodes[i].SongCount != nodes[j].SongCount {
			return nodes[i].SongCount > nodes[j].SongCount
		}
		return nodes[i].Name < nodes[j].Name
	})
	return nodes
}

func displayGenre(n *models.Node) string {
	if n.Genre == "" {
		return models.GenreOther
	}
	return n.Genre
}

// ExportToCSV converts a graph to CSV with columns: Artist, Genre, Songs, Importance, In Library, Connections
func ExportToCSV(g *models.Graph) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Artist", "Genre", "Songs", "Importance", "In Library", "Connections"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	adj := g.Neighbors()
	for _, n := range sortedNodes(g) {
		record := []string{
			n.Name,
			displayGenre(n),
			strconv.Itoa(n.SongCount),
			strconv.FormatFloat(n.Importance, 'f', 3, 64),
			strconv.FormatBool(n.InLibrary),
			strconv.Itoa(len(adj[n.ID])),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a graph to a Markdown report: stats, genre distribution, and artists
func ExportToMarkdown(g *models.Graph) ([]byte, error) {
	var buf bytes.Buffer
	stats := g.Stats

	buf.WriteString("# Artist Graph\n\n")
	buf.WriteString(fmt.Sprintf("**Artists**: %d\n", stats.TotalArtists))
	buf.WriteString(fmt.Sprintf("**Connections**: %d\n", stats.TotalConnections))
	if stats.TotalSongs > 0 {
		buf.WriteString(fmt.Sprintf("**Songs**: %d\n", stats.TotalSongs))
	}
	buf.WriteString("\n## Genres\n\n")
	buf.WriteString("| Genre | Artists |\n|---|---:|\n")
	for _, gc := range genres.Distribution(g) {
		buf.WriteString(fmt.Sprintf("| %s | %d |\n", escapeCell(gc.Genre), gc.Count))
	}

	buf.WriteString("\n## Artists\n\n")
	for i, n := range sortedNodes(g) {
		buf.WriteString(fmt.Sprintf("%d. %s (%s) [%d songs]\n", i+1, n.Name, displayGenre(n), n.SongCount))
	}

	return buf.Bytes(), nil
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// ExportToText converts a graph to plain text
func ExportToText(g *models.Graph) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Artists: %d\n", len(g.Nodes)))
	buf.WriteString(fmt.Sprintf("Connections: %d\n\n", len(g.Links)))

	for i, n := range sortedNodes(g) {
		buf.WriteString(fmt.Sprintf("%d. %s - %s (%d)\n", i+1, n.Name, displayGenre(n), n.SongCount))
	}

	return buf.Bytes(), nil
}

// Export renders g in format f.
func Export(g *models.Graph, f Format) ([]byte, error) {
	switch f {
	case FormatCSV:
		return ExportToCSV(g)
	case FormatMarkdown:
		return ExportToMarkdown(g)
	case FormatText:
		return ExportToText(g)
	case FormatJSON:
		return shared.MarshalJSON(g, true)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, f)
	}
}

// WriteExport writes g to path in format f.
//
// Defaults to graph{ext} in the working directory. Parent directories are created.
func WriteExport(g *models.Graph, f Format, path string) (string, error) {
	if path == "" {
		path = "graph" + f.Extension()
	}

	data, err := Export(g, f)
	if err != nil {
		return "", fmt.Errorf("failed to generate %s: %w", f, err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}

	return path, nil
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

// GenreTable renders a genre distribution as a terminal table with share percentages.
func GenreTable(dist []genres.GenreCount) string {
	total := 0
	for _, gc := range dist {
		total += gc.Count
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Genre", "Artists", "Share").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	for _, gc := range dist {
		share := 0.0
		if total > 0 {
			share = float64(gc.Count) / float64(total) * 100
		}
		t.Row(gc.Genre, strconv.Itoa(gc.Count), fmt.Sprintf("%.1f%%", share))
	}

	return t.String()
}
