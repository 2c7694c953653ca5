// models/match.go
package models

import "time"

// Match is a result recorded for a team. TeamID is nil for matches whose
// team was removed.
type Match struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	TeamID       *uint     `json:"team_id" gorm:"index"`
	Date         time.Time `json:"date" gorm:"index;not null"`
	OpponentName *string   `json:"opponent_name"`
	Score        *string   `json:"score"`
}
