package models_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/tfmsync/internal/models"
)

const clientSnapshot = `{
  "players": [{
    "id": 1, "name": "Kiho", "games": [], "stats": {"totalGames": 0, "totalScore": 0, "averageScore": 0, "wins": 0, "seconds": 0, "thirds": 0, "fourths": 0},
    "selectedCube": "red", "playOrder": 2, "selectedCorporation": "THARSIS REPUBLIC"
  }],
  "games": [{
    "id": 7, "date": "2024. 05. 01.", "map": "HELLAS", "expansion": "prelude",
    "results": [{
      "playerId": 1, "playerName": "Kiho", "cubeColor": "red", "corporation": "ECOLINE",
      "score": 98, "megacredits": 21, "rank": 1,
      "scoreBreakdown": {"tr": 52, "awards": 15, "milestones": 10, "druid": 0, "forest": 8, "city": 6, "congress": 0, "cards": 7, "colonies": 3},
      "badges": [{"name": "Terraformer", "icon": "🌍", "color": "#4299e1"}]
    }]
  }],
  "lastUpdated": "2024-05-01T10:00:00Z",
  "selectedMap": "HELLAS",
  "selectedColonies": ["Luna"],
  "theme": "dark"
}`

func TestSnapshot_KeepsClientFields(t *testing.T) {
	var snap models.Snapshot
	require.NoError(t, json.Unmarshal([]byte(clientSnapshot), &snap))

	assert.JSONEq(t, `2`, string(snap.Players[0].Extra["playOrder"]))
	assert.JSONEq(t, `"dark"`, string(snap.Extra["theme"]))
	assert.Equal(t, 98, snap.Games[0].Results[0].Score)
	assert.Equal(t, 52, snap.Games[0].Results[0].ScoreBreakdown.TR)

	out, err := json.Marshal(snap)
	require.NoError(t, err)
	assert.JSONEq(t, clientSnapshot, string(out))
}

func TestSnapshot_NoExtraMembers(t *testing.T) {
	in := models.Player{ID: 3, Name: "Ara", Games: []models.Result{}}

	out, err := json.Marshal(in)
	require.NoError(t, err)

	var back models.Player
	require.NoError(t, json.Unmarshal(out, &back))
	assert.Nil(t, back.Extra)
	assert.Equal(t, in, back)
}

func TestSnapshot_ModelledFieldsWinOverExtra(t *testing.T) {
	p := models.Player{ID: 3, Name: "Ara", Extra: models.Extra{"name": json.RawMessage(`"stale"`), "playOrder": json.RawMessage(`1`)}}

	out, err := json.Marshal(p)
	require.NoError(t, err)

	assert.JSONEq(t, `{"id":3,"name":"Ara","games":null,"stats":{"totalGames":0,"totalScore":0,"averageScore":0,"wins":0,"seconds":0,"thirds":0,"fourths":0},"playOrder":1}`, string(out))
}
