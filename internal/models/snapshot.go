package models

import (
	"encoding/json"
	"time"
)

type Snapshot struct {
	Players          []Player        `json:"players"`
	Games            []Game          `json:"games"`
	LastUpdated      string          `json:"lastUpdated"`
	SelectedMap      string          `json:"selectedMap,omitempty"`
	SelectedColonies json.RawMessage `json:"selectedColonies,omitempty"`
	Extra            Extra           `json:"-"`
}

type Player struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Games        []Result  `json:"games"`
	Stats        Stats     `json:"stats"`
	SelectedCube CubeColor `json:"selectedCube,omitempty"`
	Extra        Extra     `json:"-"`
}

// Stats is derived from the player's folded results and never edited directly.
type Stats struct {
	TotalGames   int     `json:"totalGames"`
	TotalScore   int     `json:"totalScore"`
	AverageScore float64 `json:"averageScore"`
	Wins         int     `json:"wins"`
	Seconds      int     `json:"seconds"`
	Thirds       int     `json:"thirds"`
	Fourths      int     `json:"fourths"`
}

type Game struct {
	ID      int64    `json:"id"`
	Date    string   `json:"date"`
	Map     MapName  `json:"map"`
	Results []Result `json:"results"`
	Year    int      `json:"year,omitempty"`
	Extra   Extra    `json:"-"`
}

type Result struct {
	PlayerID       int64           `json:"playerId"`
	PlayerName     string          `json:"playerName"`
	CubeColor      CubeColor       `json:"cubeColor"`
	Corporation    string          `json:"corporation"`
	Score          int             `json:"score"`
	Megacredits    int             `json:"megacredits"`
	Rank           int             `json:"rank"`
	ScoreBreakdown *ScoreBreakdown `json:"scoreBreakdown,omitempty"`
	Extra          Extra           `json:"-"`
}

type ScoreBreakdown struct {
	TR         int   `json:"tr"`
	Awards     int   `json:"awards"`
	Milestones int   `json:"milestones"`
	Druid      int   `json:"druid"`
	Forest     int   `json:"forest"`
	City       int   `json:"city"`
	Congress   int   `json:"congress"`
	Cards      int   `json:"cards"`
	Extra      Extra `json:"-"`
}

// EmptySnapshot returns the state served before anything has been pushed.
func EmptySnapshot(lastUpdated string) *Snapshot {
	return &Snapshot{
		Players:     []Player{},
		Games:       []Game{},
		LastUpdated: lastUpdated,
	}
}

// Normalize replaces nil slices with empty ones so they encode as [] rather than null.
func (s *Snapshot) Normalize() {
	if s.Players == nil {
		s.Players = []Player{}
	}
	if s.Games == nil {
		s.Games = []Game{}
	}
	for i := range s.Players {
		if s.Players[i].Games == nil {
			s.Players[i].Games = []Result{}
		}
	}
	for i := range s.Games {
		if s.Games[i].Results == nil {
			s.Games[i].Results = []Result{}
		}
	}
}

// Timestamp formats t the way lastUpdated and exportDate are stored.
func Timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
