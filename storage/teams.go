// storage/teams.go
package storage

import (
	"context"

	"padel-club-api/models"

	"gorm.io/gorm"
)

func (s *Store) GetTeam(ctx context.Context, id uint) (*models.Team, error) {
	return first[models.Team](ctx, s.db, id, "Members")
}

func (s *Store) ListTeams(ctx context.Context) ([]models.Team, error) {
	var teams []models.Team
	err := s.db.WithContext(ctx).Preload("Members").Order("id").Find(&teams).Error
	return teams, translate(err)
}

func (s *Store) CreateTeam(ctx context.Context, t *models.Team) error {
	return translate(s.db.WithContext(ctx).Omit("Members", "Matches").Create(t).Error)
}

// DeleteTeam removes the team and its member links. Its matches are kept
// with a nil team reference.
func (s *Store) DeleteTeam(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var t models.Team
		if err := tx.First(&t, id).Error; err != nil {
			return translate(err)
		}
		if err := tx.Model(&models.Match{}).Where("team_id = ?", id).Update("team_id", nil).Error; err != nil {
			return translate(err)
		}
		return translate(tx.Select("Members").Delete(&t).Error)
	})
}

func (s *Store) AddMember(ctx context.Context, teamID, userID uint) error {
	link := models.UserTeamLink{UserID: userID, TeamID: teamID}
	return translate(s.db.WithContext(ctx).Create(&link).Error)
}

func (s *Store) RemoveMember(ctx context.Context, teamID, userID uint) error {
	res := s.db.WithContext(ctx).
		Where("user_id = ? AND team_id = ?", userID, teamID).
		Delete(&models.UserTeamLink{})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) CreateMatch(ctx context.Context, m *models.Match) error {
	return translate(s.db.WithContext(ctx).Create(m).Error)
}

func (s *Store) RecentMatches(ctx context.Context, teamIDs []uint, limit int) ([]models.Match, error) {
	if len(teamIDs) == 0 {
		return nil, nil
	}
	var matches []models.Match
	err := s.db.WithContext(ctx).
		Where("team_id IN ?", teamIDs).
		Order("date DESC").
		Limit(limit).
		Find(&matches).Error
	return matches, translate(err)
}
