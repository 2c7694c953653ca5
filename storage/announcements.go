// storage/announcements.go
package storage

import (
	"context"
	"time"

	"padel-club-api/models"
)

func (s *Store) GetAnnouncement(ctx context.Context, id uint) (*models.Announcement, error) {
	return first[models.Announcement](ctx, s.db, id)
}

func (s *Store) ListAnnouncements(ctx context.Context, limit int) ([]models.Announcement, error) {
	var out []models.Announcement
	q := s.db.WithContext(ctx).
		Where("status = ?", models.AnnouncementPublished).
		Order("created_at DESC").
		Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&out).Error
	return out, translate(err)
}

func (s *Store) CreateAnnouncement(ctx context.Context, a *models.Announcement) error {
	return translate(s.db.WithContext(ctx).Create(a).Error)
}

func (s *Store) DeleteAnnouncement(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Announcement{}, id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// PublishDueAnnouncements flips every scheduled announcement whose publish
// time has passed. CreatedAt is moved to the publish time so the feed
// ordering reflects when members first saw it.
func (s *Store) PublishDueAnnouncements(ctx context.Context, now time.Time) (int64, error) {
	res := s.db.WithContext(ctx).
		Model(&models.Announcement{}).
		Where("status = ? AND publish_at <= ?", models.AnnouncementScheduled, now).
		Updates(map[string]any{
			"status":     models.AnnouncementPublished,
			"created_at": now,
		})
	return res.RowsAffected, translate(res.Error)
}
