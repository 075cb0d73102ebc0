package archive

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/vytor/tfmsync/internal/models"
)

const (
	FilePrefix  = "terraforming_mars_legacy_"
	Version     = "1.0"
	Description = "Terraforming Mars legacy data"
)

// DateRange is the first and last game date after lexicographic sorting.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Document is the archived form of a snapshot.
type Document struct {
	Players     []models.Player `json:"players"`
	Games       []models.Game   `json:"games"`
	ExportDate  string          `json:"exportDate"`
	Version     string          `json:"version"`
	Description string          `json:"description"`
	GameCount   int             `json:"gameCount"`
	DateRange   DateRange       `json:"dateRange"`
}

var digitsRe = regexp.MustCompile(`\d+`)

// Dates returns every game's display date sorted lexicographically. The
// "YYYY. MM. DD." format is fixed-width, so this is also chronological.
func Dates(games []models.Game) []string {
	dates := make([]string, 0, len(games))
	for _, g := range games {
		dates = append(dates, g.Date)
	}
	sort.Strings(dates)
	return dates
}

// FilenameDate turns "2019. 02. 22." into "20190222", or "unknown" when
// fewer than three digit runs are present.
func FilenameDate(display string) string {
	parts := digitsRe.FindAllString(display, -1)
	if len(parts) < 3 {
		return "unknown"
	}
	return zfill(parts[0], 4) + zfill(parts[1], 2) + zfill(parts[2], 2)
}

func zfill(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat("0", width-len(s)) + s
}

// RangeLabel names the span covered by games: "<first>-<last>", or "<first>"
// alone for a single game. games must not be empty.
func RangeLabel(games []models.Game) (string, DateRange) {
	dates := Dates(games)
	dr := DateRange{Start: dates[0], End: dates[len(dates)-1]}
	first := FilenameDate(dr.Start)
	if len(games) == 1 {
		return first, dr
	}
	return first + "-" + FilenameDate(dr.End), dr
}

// Filename returns the archive file name for a range label.
func Filename(label string) string {
	return fmt.Sprintf("%s%s.json", FilePrefix, label)
}

// Build assembles the archive document for snap. exportDate is stamped verbatim.
func Build(snap *models.Snapshot, exportDate string) (Document, string, error) {
	if len(snap.Games) == 0 {
		return Document{}, "", fmt.Errorf("no games to export")
	}
	label, dr := RangeLabel(snap.Games)
	return Document{
		Players:     snap.Players,
		Games:       snap.Games,
		ExportDate:  exportDate,
		Version:     Version,
		Description: Description,
		GameCount:   len(snap.Games),
		DateRange:   dr,
	}, label, nil
}
