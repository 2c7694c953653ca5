// models/user.go
package models

// User is a club member. Admins are regular users with IsAdmin set.
type User struct {
	ID               uint    `json:"id" gorm:"primaryKey"`
	Name             string  `json:"name" gorm:"not null"`
	Email            string  `json:"email" gorm:"uniqueIndex;not null"`
	HashedPassword   string  `json:"-" gorm:"not null"`
	Level            float64 `json:"level"`
	IsAdmin          bool    `json:"is_admin" gorm:"default:false"`
	ClassesToRecover int     `json:"classes_to_recover" gorm:"default:0"` // recovery credits

	Classes []Class `json:"-" gorm:"many2many:user_class_links"`
	Events  []Event `json:"-" gorm:"many2many:user_event_links"`
	Teams   []Team  `json:"-" gorm:"many2many:user_team_links"`
}

