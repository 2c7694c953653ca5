// services/classes.go
package services

import (
	"context"
	"errors"
	"time"

	"padel-club-api/models"
	"padel-club-api/storage"

	"go.uber.org/zap"
)

type NewClass struct {
	CoachID       uint      `json:"coach_id" validate:"required"`
	Schedule      time.Time `json:"schedule" validate:"required"`
	LevelRequired float64   `json:"level_required" validate:"gte=0"`
	MaxStudents   int       `json:"max_students" validate:"gte=0"`
}

type ClassPatch struct {
	CoachID       *uint      `json:"coach_id" validate:"omitempty,gt=0"`
	Schedule      *time.Time `json:"schedule"`
	LevelRequired *float64   `json:"level_required" validate:"omitempty,gte=0"`
	MaxStudents   *int       `json:"max_students" validate:"omitempty,gte=0"`
}

type ClassService struct {
	classes ClassStore
	log     *zap.SugaredLogger
}

func NewClassService(classes ClassStore, log *zap.SugaredLogger) *ClassService {
	return &ClassService{classes: classes, log: log}
}

func (s *ClassService) Create(ctx context.Context, in NewClass) (*models.Class, error) {
	if err := check(in); err != nil {
		return nil, err
	}
	c := &models.Class{
		CoachID:       in.CoachID,
		Schedule:      in.Schedule,
		LevelRequired: in.LevelRequired,
		MaxStudents:   in.MaxStudents,
	}
	if err := s.classes.CreateClass(ctx, c); err != nil {
		return nil, err
	}
	s.log.Infow("class created", "class_id", c.ID)
	return c, nil
}

func (s *ClassService) Patch(ctx context.Context, id uint, p ClassPatch) (*models.Class, error) {
	if err := check(p); err != nil {
		return nil, err
	}
	c, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	if p.CoachID != nil {
		c.CoachID = *p.CoachID
	}
	if p.Schedule != nil {
		c.Schedule = *p.Schedule
	}
	if p.LevelRequired != nil {
		c.LevelRequired = *p.LevelRequired
	}
	if p.MaxStudents != nil {
		c.MaxStudents = *p.MaxStudents
	}

	if err := s.classes.SaveClass(ctx, c); err != nil {
		return nil, err
	}
	s.log.Infow("class updated", "class_id", id)
	return c, nil
}

func (s *ClassService) Delete(ctx context.Context, id uint) error {
	s.log.Infow("deleting class", "class_id", id)
	if err := s.classes.DeleteClass(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.log.Warnw("class not found for deletion", "class_id", id)
			return notFound("Class not found")
		}
		return err
	}
	return nil
}

func (s *ClassService) Students(ctx context.Context, id uint) ([]models.User, error) {
	c, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.Students == nil {
		return []models.User{}, nil
	}
	return c.Students, nil
}

func (s *ClassService) get(ctx context.Context, id uint) (*models.Class, error) {
	c, err := s.classes.GetClass(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		s.log.Warnw("class not found", "class_id", id)
		return nil, notFound("Class not found")
	}
	return c, err
}
