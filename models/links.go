// models/links.go
package models

// Pure join rows. They are only written as a side effect of registration
// and team membership changes.

type UserClassLink struct {
	UserID  uint `gorm:"primaryKey"`
	ClassID uint `gorm:"primaryKey"`
}

type UserEventLink struct {
	UserID  uint `gorm:"primaryKey"`
	EventID uint `gorm:"primaryKey"`
}

type UserTeamLink struct {
	UserID uint `gorm:"primaryKey"`
	TeamID uint `gorm:"primaryKey"`
}
