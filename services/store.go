// services/store.go
package services

import (
	"context"
	"time"

	"padel-club-api/models"
)

// The store contracts below are implemented by storage.Store (postgres) and
// storetest.Store (in memory). Missing records surface as storage.ErrNotFound.

type UserStore interface {
	GetUser(ctx context.Context, id uint) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	// GetUserWithRelations loads the user with classes, events and teams.
	GetUserWithRelations(ctx context.Context, id uint) (*models.User, error)
	ListUsers(ctx context.Context, limit int) ([]models.User, error)
	CreateUser(ctx context.Context, u *models.User) error
	SaveUser(ctx context.Context, u *models.User) error
	DeleteUser(ctx context.Context, id uint) error
	// AddCredits adds amount to the recovery balance and returns the new value.
	AddCredits(ctx context.Context, userID uint, amount int) (int, error)
}

type ClassStore interface {
	// GetClass loads the class with its students.
	GetClass(ctx context.Context, id uint) (*models.Class, error)
	ListClasses(ctx context.Context, maxLevel float64, limit int) ([]models.Class, error)
	CreateClass(ctx context.Context, c *models.Class) error
	SaveClass(ctx context.Context, c *models.Class) error
	DeleteClass(ctx context.Context, id uint) error
	// EnrollStudent links the user and applies creditDelta in one transaction,
	// returning the new balance.
	EnrollStudent(ctx context.Context, classID, userID uint, creditDelta int) (int, error)
	DropStudent(ctx context.Context, classID, userID uint, creditDelta int) (int, error)
}

type EventStore interface {
	// GetEvent loads the event with its participants.
	GetEvent(ctx context.Context, id uint) (*models.Event, error)
	ListEvents(ctx context.Context, maxLevel float64, limit int) ([]models.Event, error)
	CreateEvent(ctx context.Context, e *models.Event) error
	SaveEvent(ctx context.Context, e *models.Event) error
	DeleteEvent(ctx context.Context, id uint) error
	AddParticipant(ctx context.Context, eventID, userID uint) error
	RemoveParticipant(ctx context.Context, eventID, userID uint) error
}

type AnnouncementStore interface {
	GetAnnouncement(ctx context.Context, id uint) (*models.Announcement, error)
	// ListAnnouncements returns published announcements newest first.
	// A limit <= 0 returns all of them.
	ListAnnouncements(ctx context.Context, limit int) ([]models.Announcement, error)
	CreateAnnouncement(ctx context.Context, a *models.Announcement) error
	DeleteAnnouncement(ctx context.Context, id uint) error
	PublishDueAnnouncements(ctx context.Context, now time.Time) (int64, error)
}

type TeamStore interface {
	// GetTeam loads the team with its members.
	GetTeam(ctx context.Context, id uint) (*models.Team, error)
	ListTeams(ctx context.Context) ([]models.Team, error)
	CreateTeam(ctx context.Context, t *models.Team) error
	DeleteTeam(ctx context.Context, id uint) error
	AddMember(ctx context.Context, teamID, userID uint) error
	RemoveMember(ctx context.Context, teamID, userID uint) error
	CreateMatch(ctx context.Context, m *models.Match) error
	// RecentMatches returns matches of the given teams, most recent first.
	RecentMatches(ctx context.Context, teamIDs []uint, limit int) ([]models.Match, error)
}

// Store is the full persistence surface.
type Store interface {
	UserStore
	ClassStore
	EventStore
	AnnouncementStore
	TeamStore
}

// RegistrationStore is what the registration engine needs.
type RegistrationStore interface {
	UserStore
	ClassStore
	EventStore
}
