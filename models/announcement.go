// models/announcement.go
package models

import "time"

const (
	AnnouncementPublished = "published"
	AnnouncementScheduled = "scheduled"
)

type Announcement struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Title     string    `json:"title" gorm:"not null"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"index;autoCreateTime"`
	// Images is the object storage prefix holding every image of the announcement.
	Images   string `json:"images"`
	AuthorID uint   `json:"author_id" gorm:"index;not null"`

	Status    string     `json:"status" gorm:"type:varchar(16);default:'published';index"`
	PublishAt *time.Time `json:"publish_at,omitempty"`
}

// IsDue reports whether a scheduled announcement should go live at now.
func (a *Announcement) IsDue(now time.Time) bool {
	return a.Status == AnnouncementScheduled && a.PublishAt != nil && !a.PublishAt.After(now)
}
