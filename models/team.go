// models/team.go
package models

type Team struct {
	ID              uint   `json:"id" gorm:"primaryKey"`
	Name            string `json:"name" gorm:"not null"`
	CompetitionName string `json:"competition_name"`

	Members []User  `json:"members,omitempty" gorm:"many2many:user_team_links"`
	Matches []Match `json:"matches,omitempty" gorm:"foreignKey:TeamID"`
}
