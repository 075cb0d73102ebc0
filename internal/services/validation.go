package services

import (
	"fmt"

	"github.com/vytor/tfmsync/internal/errors"
	"github.com/vytor/tfmsync/internal/logger"
	"github.com/vytor/tfmsync/internal/models"
)

// validateSnapshot checks the shape of a pushed snapshot. Field values are
// not range-checked.
func validateSnapshot(snap *models.Snapshot) error {
	if snap == nil {
		return errors.NewBadRequestError("request body is empty")
	}
	if snap.Players == nil {
		return errors.NewValidationError("players", "must be an array")
	}
	if snap.Games == nil {
		return errors.NewValidationError("games", "must be an array")
	}
	for i, p := range snap.Players {
		if p.Name == "" {
			return errors.NewValidationError(fmt.Sprintf("players[%d].name", i), "cannot be empty")
		}
	}
	for i, g := range snap.Games {
		if g.Results == nil {
			return errors.NewValidationError(fmt.Sprintf("games[%d].results", i), "must be an array")
		}
	}
	return nil
}

// warnUnknownValues logs enum values the web client does not know about.
func warnUnknownValues(log *logger.Logger, snap *models.Snapshot) {
	for _, p := range snap.Players {
		if p.SelectedCube != "" && !p.SelectedCube.Valid() {
			log.Warn("player %q has unknown cube color %q", p.Name, p.SelectedCube)
		}
	}
	for _, g := range snap.Games {
		if g.Map != "" && !g.Map.Valid() {
			log.Warn("game %d has unknown map %q", g.ID, g.Map)
		}
		for _, res := range g.Results {
			if res.CubeColor != "" && !res.CubeColor.Valid() {
				log.Warn("game %d result for %q has unknown cube color %q", g.ID, res.PlayerName, res.CubeColor)
			}
		}
	}
}
