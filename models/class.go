// models/class.go
package models

import "time"

type Class struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	CoachID       uint      `json:"coach_id" gorm:"index;not null"`
	Schedule      time.Time `json:"schedule" gorm:"not null"`
	LevelRequired float64   `json:"level_required"`
	MaxStudents   int       `json:"max_students" gorm:"not null"`

	Students []User `json:"-" gorm:"many2many:user_class_links"`
}

// HasStudent reports whether userID is already enrolled.
func (c *Class) HasStudent(userID uint) bool {
	for _, s := range c.Students {
		if s.ID == userID {
			return true
		}
	}
	return false
}

func (c *Class) IsFull() bool {
	return len(c.Students) >= c.MaxStudents
}
