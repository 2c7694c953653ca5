// models/event.go
package models

import "time"

type Event struct {
	ID       uint      `json:"id" gorm:"primaryKey"`
	Name     string    `json:"name" gorm:"not null"`
	Type     string    `json:"type"`
	Date     time.Time `json:"date" gorm:"index;not null"`
	MinLevel float64   `json:"min_level"`
	MaxSlots int       `json:"max_slots" gorm:"not null"`
	Price    float64   `json:"price"`

	Participants []User `json:"-" gorm:"many2many:user_event_links"`
}

func (e *Event) HasParticipant(userID uint) bool {
	for _, p := range e.Participants {
		if p.ID == userID {
			return true
		}
	}
	return false
}

func (e *Event) IsFull() bool {
	return len(e.Participants) >= e.MaxSlots
}
