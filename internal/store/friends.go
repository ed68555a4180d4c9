package store

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/trentd187/golf-scorecards/internal/models"
)

func scorecardsByDate(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }

// ListFriends returns the owner's friends, the ones with the most rounds first.
func (s *GormStore) ListFriends(ctx context.Context, owner uuid.UUID) ([]models.Friend, error) {
	var friends []models.Friend
	err := s.db.WithContext(ctx).
		Preload("Scorecards", scorecardsByDate).
		Where("created_by = ?", owner).
		Order("name ASC").
		Find(&friends).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list friends: %w", err)
	}

	sort.SliceStable(friends, func(i, j int) bool {
		return len(friends[i].Scorecards) > len(friends[j].Scorecards)
	})
	return friends, nil
}

// GetFriend returns one of the owner's friends with its scorecard summaries.
func (s *GormStore) GetFriend(ctx context.Context, owner, id uuid.UUID) (*models.Friend, error) {
	var friend models.Friend
	err := s.db.WithContext(ctx).
		Preload("Scorecards", scorecardsByDate).
		Where("id = ? AND created_by = ?", id, owner).
		First(&friend).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &friend, nil
}

// CreateFriend inserts a friend.
func (s *GormStore) CreateFriend(ctx context.Context, friend *models.Friend) error {
	if err := s.db.WithContext(ctx).Create(friend).Error; err != nil {
		return fmt.Errorf("failed to create friend: %w", err)
	}
	return nil
}

// AppendScorecards adds summaries to the end of a friend's list. Existing entries are
// kept, and the scorecard ids are not looked up in the scorecards table.
func (s *GormStore) AppendScorecards(ctx context.Context, owner, id uuid.UUID, summaries []models.FriendScorecard) (*models.Friend, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var friend models.Friend
		if err := tx.Where("id = ? AND created_by = ?", id, owner).First(&friend).Error; err != nil {
			return notFound(err)
		}
		for i := range summaries {
			summaries[i].ID = uuid.Nil
			summaries[i].FriendID = friend.ID
		}
		if len(summaries) == 0 {
			return nil
		}
		if err := tx.Create(&summaries).Error; err != nil {
			return fmt.Errorf("failed to append friend scorecards: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetFriend(ctx, owner, id)
}
