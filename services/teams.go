// services/teams.go
package services

import (
	"context"
	"errors"
	"time"

	"padel-club-api/models"
	"padel-club-api/storage"

	"go.uber.org/zap"
)

type NewTeam struct {
	Name            string `json:"name" validate:"required"`
	CompetitionName string `json:"competition_name"`
}

type NewMatch struct {
	Date         time.Time `json:"date" validate:"required"`
	OpponentName *string   `json:"opponent_name"`
	Score        *string   `json:"score" validate:"omitempty,max=32"`
}

type TeamService struct {
	store TeamStore
	users UserStore
	log   *zap.SugaredLogger
}

func NewTeamService(store TeamStore, users UserStore, log *zap.SugaredLogger) *TeamService {
	return &TeamService{store: store, users: users, log: log}
}

func (s *TeamService) List(ctx context.Context) ([]models.Team, error) {
	teams, err := s.store.ListTeams(ctx)
	if err != nil {
		return nil, err
	}
	if teams == nil {
		teams = []models.Team{}
	}
	return teams, nil
}

func (s *TeamService) Create(ctx context.Context, in NewTeam) (*models.Team, error) {
	if err := check(in); err != nil {
		return nil, err
	}
	t := &models.Team{Name: in.Name, CompetitionName: in.CompetitionName}
	if err := s.store.CreateTeam(ctx, t); err != nil {
		return nil, err
	}
	s.log.Infow("team created", "team_id", t.ID)
	return t, nil
}

func (s *TeamService) Delete(ctx context.Context, id uint) error {
	if err := s.store.DeleteTeam(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return notFound("Team not found")
		}
		return err
	}
	s.log.Infow("team deleted", "team_id", id)
	return nil
}

func (s *TeamService) AddMember(ctx context.Context, teamID, userID uint) (*models.Team, error) {
	if _, err := s.getTeam(ctx, teamID); err != nil {
		return nil, err
	}
	if _, err := s.users.GetUser(ctx, userID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, notFound("User not found")
		}
		return nil, err
	}
	if err := s.store.AddMember(ctx, teamID, userID); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return nil, rejected("User is already a member of this team")
		}
		return nil, err
	}
	s.log.Infow("team member added", "team_id", teamID, "user_id", userID)
	return s.getTeam(ctx, teamID)
}

func (s *TeamService) RemoveMember(ctx context.Context, teamID, userID uint) (*models.Team, error) {
	if _, err := s.getTeam(ctx, teamID); err != nil {
		return nil, err
	}
	if err := s.store.RemoveMember(ctx, teamID, userID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, notFound("User is not a member of this team")
		}
		return nil, err
	}
	s.log.Infow("team member removed", "team_id", teamID, "user_id", userID)
	return s.getTeam(ctx, teamID)
}

func (s *TeamService) RecordMatch(ctx context.Context, teamID uint, in NewMatch) (*models.Match, error) {
	if err := check(in); err != nil {
		return nil, err
	}
	if _, err := s.getTeam(ctx, teamID); err != nil {
		return nil, err
	}
	m := &models.Match{
		TeamID:       &teamID,
		Date:         in.Date,
		OpponentName: in.OpponentName,
		Score:        in.Score,
	}
	if err := s.store.CreateMatch(ctx, m); err != nil {
		return nil, err
	}
	s.log.Infow("match recorded", "team_id", teamID, "match_id", m.ID)
	return m, nil
}

func (s *TeamService) getTeam(ctx context.Context, id uint) (*models.Team, error) {
	t, err := s.store.GetTeam(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, notFound("Team not found")
	}
	return t, err
}
