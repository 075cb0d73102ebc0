package stats

import (
	"math"

	"github.com/vytor/tfmsync/internal/models"
)

// Unmatched identifies a result that could not be folded into any player.
type Unmatched struct {
	GameID     int64  `json:"gameId"`
	PlayerID   int64  `json:"playerId"`
	PlayerName string `json:"playerName"`
}

// Report summarizes a recomputation pass.
type Report struct {
	Folded int `json:"folded"`
	// IDMismatches lists folded results whose playerId belongs to a
	// different player than their playerName. Reordering players renumbers
	// ids without touching stored results, so this is informational.
	IDMismatches []Unmatched `json:"idMismatches"`
	Unmatched    []Unmatched `json:"unmatched"`
}

// Recompute rebuilds every player's games and stats from snap.Games.
// Results are joined to the first player whose name equals playerName.
// Results matching no player are reported in Report.Unmatched instead of
// being folded.
func Recompute(snap *models.Snapshot) Report {
	report := Report{IDMismatches: []Unmatched{}, Unmatched: []Unmatched{}}

	byID := make(map[int64]int, len(snap.Players))
	byName := make(map[string]int, len(snap.Players))
	for i := range snap.Players {
		p := &snap.Players[i]
		p.Games = []models.Result{}
		p.Stats = models.Stats{}
		if _, seen := byID[p.ID]; !seen && p.ID != 0 {
			byID[p.ID] = i
		}
		if _, seen := byName[p.Name]; !seen {
			byName[p.Name] = i
		}
	}

	for _, game := range snap.Games {
		for _, result := range game.Results {
			ref := Unmatched{GameID: game.ID, PlayerID: result.PlayerID, PlayerName: result.PlayerName}

			idx, ok := byName[result.PlayerName]
			if !ok {
				report.Unmatched = append(report.Unmatched, ref)
				continue
			}
			if byIDx, found := byID[result.PlayerID]; found && byIDx != idx {
				report.IDMismatches = append(report.IDMismatches, ref)
			}
			fold(&snap.Players[idx], result)
			report.Folded++
		}
	}

	for i := range snap.Players {
		s := &snap.Players[i].Stats
		if s.TotalGames > 0 {
			s.AverageScore = roundTo(float64(s.TotalScore)/float64(s.TotalGames), 1)
		}
	}
	return report
}

func fold(p *models.Player, r models.Result) {
	p.Games = append(p.Games, r)
	p.Stats.TotalGames++
	p.Stats.TotalScore += r.Score
	switch r.Rank {
	case 1:
		p.Stats.Wins++
	case 2:
		p.Stats.Seconds++
	case 3:
		p.Stats.Thirds++
	case 4:
		p.Stats.Fourths++
	}
}

// roundTo rounds half to even at the given number of decimal places.
func roundTo(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.RoundToEven(v*scale) / scale
}
