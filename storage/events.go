// storage/events.go
package storage

import (
	"context"

	"padel-club-api/models"

	"gorm.io/gorm"
)

func (s *Store) GetEvent(ctx context.Context, id uint) (*models.Event, error) {
	return first[models.Event](ctx, s.db, id, "Participants")
}

// ListEvents returns events whose minimum level does not exceed maxLevel.
func (s *Store) ListEvents(ctx context.Context, maxLevel float64, limit int) ([]models.Event, error) {
	var events []models.Event
	err := s.db.WithContext(ctx).
		Where("min_level <= ?", maxLevel).
		Order("date").
		Limit(limit).
		Find(&events).Error
	return events, translate(err)
}

func (s *Store) CreateEvent(ctx context.Context, e *models.Event) error {
	return translate(s.db.WithContext(ctx).Omit("Participants").Create(e).Error)
}

func (s *Store) SaveEvent(ctx context.Context, e *models.Event) error {
	return translate(s.db.WithContext(ctx).Omit("Participants").Save(e).Error)
}

func (s *Store) DeleteEvent(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var e models.Event
		if err := tx.First(&e, id).Error; err != nil {
			return translate(err)
		}
		return translate(tx.Select("Participants").Delete(&e).Error)
	})
}

func (s *Store) AddParticipant(ctx context.Context, eventID, userID uint) error {
	link := models.UserEventLink{UserID: userID, EventID: eventID}
	return translate(s.db.WithContext(ctx).Create(&link).Error)
}

// RemoveParticipant returns ErrNotFound when there was no link.
func (s *Store) RemoveParticipant(ctx context.Context, eventID, userID uint) error {
	res := s.db.WithContext(ctx).
		Where("user_id = ? AND event_id = ?", userID, eventID).
		Delete(&models.UserEventLink{})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
