package store

// scorecards.go is the persistence side of the scorecard edit view. Every query filters
// on created_by, so a card is only ever visible to the user who started it. Writes that
// touch more than one table run inside db.Transaction: GORM commits when the callback
// returns nil and rolls everything back when it returns an error.

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/trentd187/golf-scorecards/internal/models"
)

// preloadCard loads players in card order and each player's scores in hole order.
func preloadCard(db *gorm.DB) *gorm.DB {
	return db.Preload("Players", byPosition).Preload("Players.Scores", byHoleNumber)
}

// ListScorecards returns the owner's scorecards, most recent round first.
func (s *GormStore) ListScorecards(ctx context.Context, owner uuid.UUID) ([]models.Scorecard, error) {
	// Preload issues one extra query per association (players, then scores) for the
	// whole result set, rather than one per card.
	var cards []models.Scorecard
	err := preloadCard(s.db.WithContext(ctx)).
		Where("created_by = ?", owner).
		Order("date DESC").
		Find(&cards).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list scorecards: %w", err)
	}
	return cards, nil
}

// GetScorecard returns one of the owner's scorecards.
func (s *GormStore) GetScorecard(ctx context.Context, owner, id uuid.UUID) (*models.Scorecard, error) {
	var sc models.Scorecard
	err := preloadCard(s.db.WithContext(ctx)).
		Where("id = ? AND created_by = ?", id, owner).
		First(&sc).Error
	if err != nil {
		// notFound maps gorm.ErrRecordNotFound to ErrNotFound and wraps anything else.
		return nil, notFound(err)
	}
	return &sc, nil
}

// CreateScorecard inserts a scorecard together with its players and their scores.
func (s *GormStore) CreateScorecard(ctx context.Context, sc *models.Scorecard) error {
	// Position keeps the card's column order stable across reads.
	for i := range sc.Players {
		sc.Players[i].Position = i
	}
	// Create walks the associations, so players and scores are inserted with the card.
	if err := s.db.WithContext(ctx).Create(sc).Error; err != nil {
		return fmt.Errorf("failed to create scorecard: %w", err)
	}
	return nil
}

// ReplacePlayers overwrites the scorecard's players wholesale: existing players and
// scores are deleted and the given list is inserted in its place, in one transaction.
// A player whose Name is empty keeps the name stored for the same reference.
func (s *GormStore) ReplacePlayers(ctx context.Context, owner, id uuid.UUID, players []models.Player) (*models.Scorecard, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var sc models.Scorecard
		if err := tx.Where("id = ? AND created_by = ?", id, owner).First(&sc).Error; err != nil {
			return notFound(err)
		}

		// Remember the stored names first. The edit view only sends references and
		// scores, and the names must survive the delete below.
		var existing []models.Player
		if err := tx.Where("scorecard_id = ?", sc.ID).Find(&existing).Error; err != nil {
			return fmt.Errorf("failed to load players: %w", err)
		}
		names := make(map[uuid.UUID]string, len(existing))
		for _, p := range existing {
			names[p.Reference] = p.Name
		}

		if err := deletePlayers(tx, sc.ID); err != nil {
			return err
		}

		// Zero the ids so GORM inserts fresh rows instead of trying to update the ones
		// that were just deleted. BeforeCreate assigns new UUIDs.
		for i := range players {
			players[i].ID = uuid.Nil
			players[i].ScorecardID = sc.ID
			players[i].Position = i
			if players[i].Name == "" {
				players[i].Name = names[players[i].Reference]
			}
			for j := range players[i].Scores {
				players[i].Scores[j].ID = uuid.Nil
			}
		}
		if len(players) > 0 {
			if err := tx.Create(&players).Error; err != nil {
				return fmt.Errorf("failed to insert players: %w", err)
			}
		}

		// Last writer wins; bump updated_at so clients can see the card changed.
		return tx.Model(&sc).Update("updated_at", gorm.Expr("CURRENT_TIMESTAMP")).Error
	})
	if err != nil {
		return nil, err
	}
	// Read the card back after the commit so the caller gets exactly what is stored.
	return s.GetScorecard(ctx, owner, id)
}

// DeleteScorecard removes a scorecard, its players and scores, and every summary of it in
// the owner's friends' lists, all in one transaction. It returns how many friends had a
// summary removed.
func (s *GormStore) DeleteScorecard(ctx context.Context, owner, id uuid.UUID) (int, error) {
	var friendsUpdated int
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var sc models.Scorecard
		if err := tx.Where("id = ? AND created_by = ?", id, owner).First(&sc).Error; err != nil {
			return notFound(err)
		}

		// Player references double as friend ids. Pluck collects the one column into
		// a slice without loading whole rows.
		var refs []uuid.UUID
		if err := tx.Model(&models.Player{}).Where("scorecard_id = ?", sc.ID).Pluck("reference", &refs).Error; err != nil {
			return fmt.Errorf("failed to load player references: %w", err)
		}

		n, err := removeFriendSummaries(tx, owner, sc.ID, refs)
		if err != nil {
			return err
		}
		friendsUpdated = n

		// Children before the parent, so the foreign keys hold at every step.
		if err := deletePlayers(tx, sc.ID); err != nil {
			return err
		}
		if err := tx.Delete(&models.Scorecard{}, "id = ?", sc.ID).Error; err != nil {
			return fmt.Errorf("failed to delete scorecard: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return friendsUpdated, nil
}

// deletePlayers removes every player of a scorecard and their scores.
func deletePlayers(tx *gorm.DB, scorecardID uuid.UUID) error {
	var ids []uuid.UUID
	if err := tx.Model(&models.Player{}).Where("scorecard_id = ?", scorecardID).Pluck("id", &ids).Error; err != nil {
		return fmt.Errorf("failed to load players: %w", err)
	}
	if len(ids) == 0 {
		return nil
	}
	if err := tx.Where("player_id IN ?", ids).Delete(&models.Score{}).Error; err != nil {
		return fmt.Errorf("failed to delete scores: %w", err)
	}
	if err := tx.Where("id IN ?", ids).Delete(&models.Player{}).Error; err != nil {
		return fmt.Errorf("failed to delete players: %w", err)
	}
	return nil
}

// removeFriendSummaries deletes the scorecard's summary from each of the owner's friends
// that played in it, and reports how many friends were touched.
func removeFriendSummaries(tx *gorm.DB, owner, scorecardID uuid.UUID, refs []uuid.UUID) (int, error) {
	if len(refs) == 0 {
		return 0, nil
	}

	// Only the owner's own friends are touched; the subquery keeps a reference that
	// happens to match another user's friend out of the delete.
	var friendIDs []uuid.UUID
	err := tx.Model(&models.FriendScorecard{}).
		Distinct("friend_id").
		Where("scorecard_id = ? AND friend_id IN ?", scorecardID, refs).
		Where("friend_id IN (?)", tx.Model(&models.Friend{}).Select("id").Where("created_by = ?", owner)).
		Pluck("friend_id", &friendIDs).Error
	if err != nil {
		return 0, fmt.Errorf("failed to find friend summaries: %w", err)
	}
	if len(friendIDs) == 0 {
		return 0, nil
	}

	err = tx.Where("scorecard_id = ? AND friend_id IN ?", scorecardID, friendIDs).
		Delete(&models.FriendScorecard{}).Error
	if err != nil {
		return 0, fmt.Errorf("failed to remove friend summaries: %w", err)
	}
	return len(friendIDs), nil
}
