// services/events.go
package services

import (
	"context"
	"errors"
	"time"

	"padel-club-api/models"
	"padel-club-api/storage"

	"go.uber.org/zap"
)

type NewEvent struct {
	Name     string    `json:"name" validate:"required"`
	Type     string    `json:"type" validate:"required"`
	Date     time.Time `json:"date" validate:"required"`
	MinLevel float64   `json:"min_level" validate:"gte=0"`
	MaxSlots int       `json:"max_slots" validate:"gte=0"`
	Price    float64   `json:"price" validate:"gte=0"`
}

type EventPatch struct {
	Name     *string    `json:"name" validate:"omitempty,min=1"`
	Type     *string    `json:"type" validate:"omitempty,min=1"`
	Date     *time.Time `json:"date"`
	MinLevel *float64   `json:"min_level" validate:"omitempty,gte=0"`
	MaxSlots *int       `json:"max_slots" validate:"omitempty,gte=0"`
	Price    *float64   `json:"price" validate:"omitempty,gte=0"`
}

type EventService struct {
	events EventStore
	log    *zap.SugaredLogger
}

func NewEventService(events EventStore, log *zap.SugaredLogger) *EventService {
	return &EventService{events: events, log: log}
}

func (s *EventService) Create(ctx context.Context, in NewEvent) (*models.Event, error) {
	if err := check(in); err != nil {
		return nil, err
	}
	s.log.Infow("creating event", "name", in.Name)
	e := &models.Event{
		Name:     in.Name,
		Type:     in.Type,
		Date:     in.Date,
		MinLevel: in.MinLevel,
		MaxSlots: in.MaxSlots,
		Price:    in.Price,
	}
	if err := s.events.CreateEvent(ctx, e); err != nil {
		return nil, err
	}
	s.log.Infow("event created", "event_id", e.ID)
	return e, nil
}

// Patch validates the whole patch, including the capacity guard, before
// touching the record. A rejected patch changes nothing.
func (s *EventService) Patch(ctx context.Context, id uint, p EventPatch) (*models.Event, error) {
	if err := check(p); err != nil {
		return nil, err
	}
	e, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	if p.MaxSlots != nil && len(e.Participants) > *p.MaxSlots {
		s.log.Warnw("event update failed: too many participants",
			"event_id", id, "participants", len(e.Participants), "max_slots", *p.MaxSlots)
		return nil, rejected("Event has too many participants")
	}

	if p.Name != nil {
		e.Name = *p.Name
	}
	if p.Type != nil {
		e.Type = *p.Type
	}
	if p.Date != nil {
		e.Date = *p.Date
	}
	if p.MinLevel != nil {
		e.MinLevel = *p.MinLevel
	}
	if p.MaxSlots != nil {
		e.MaxSlots = *p.MaxSlots
	}
	if p.Price != nil {
		e.Price = *p.Price
	}

	if err := s.events.SaveEvent(ctx, e); err != nil {
		return nil, err
	}
	s.log.Infow("event updated", "event_id", id)
	return e, nil
}

func (s *EventService) Delete(ctx context.Context, id uint) error {
	s.log.Infow("deleting event", "event_id", id)
	if err := s.events.DeleteEvent(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.log.Warnw("event not found for deletion", "event_id", id)
			return notFound("Event not found")
		}
		return err
	}
	return nil
}

func (s *EventService) Participants(ctx context.Context, id uint) ([]models.User, error) {
	e, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if e.Participants == nil {
		return []models.User{}, nil
	}
	return e.Participants, nil
}

func (s *EventService) get(ctx context.Context, id uint) (*models.Event, error) {
	e, err := s.events.GetEvent(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		s.log.Warnw("event not found", "event_id", id)
		return nil, notFound("Event not found")
	}
	return e, err
}
