// services/home.go
package services

import (
	"context"
	"errors"
	"sort"
	"time"

	"padel-club-api/models"
	"padel-club-api/storage"

	"go.uber.org/zap"
)

const (
	summaryAnnouncements = 5
	summaryUpcoming      = 5
	summaryResults       = 3
)

// HomeSummary is the landing page payload for a member.
type HomeSummary struct {
	Announcements   []models.Announcement `json:"announcements"`
	UpcomingEvents  []models.Event        `json:"upcoming_events"`
	UpcomingClasses []models.Class        `json:"upcoming_classes"`
	RecentResults   []models.Match        `json:"recent_results"`
}

type HomeService struct {
	users         UserStore
	announcements AnnouncementStore
	teams         TeamStore
	now           func() time.Time
	log           *zap.SugaredLogger
}

func NewHomeService(users UserStore, announcements AnnouncementStore, teams TeamStore, log *zap.SugaredLogger) *HomeService {
	return &HomeService{users: users, announcements: announcements, teams: teams, now: time.Now, log: log}
}

func (s *HomeService) Summary(ctx context.Context, user *models.User) (*HomeSummary, error) {
	s.log.Infow("generating home summary", "user_id", user.ID)

	full, err := s.users.GetUserWithRelations(ctx, user.ID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, notFound("User not found")
	}
	if err != nil {
		return nil, err
	}

	announcements, err := s.announcements.ListAnnouncements(ctx, summaryAnnouncements)
	if err != nil {
		return nil, err
	}

	teamIDs := make([]uint, 0, len(full.Teams))
	for _, t := range full.Teams {
		teamIDs = append(teamIDs, t.ID)
	}
	results, err := s.teams.RecentMatches(ctx, teamIDs, summaryResults)
	if err != nil {
		return nil, err
	}

	now := s.now()
	summary := &HomeSummary{
		Announcements:   nonNil(announcements),
		UpcomingEvents:  upcoming(full.Events, now, func(e models.Event) time.Time { return e.Date }),
		UpcomingClasses: upcoming(full.Classes, now, func(c models.Class) time.Time { return c.Schedule }),
		RecentResults:   nonNil(results),
	}
	s.log.Infow("home summary generated", "user_id", user.ID)
	return summary, nil
}

// upcoming keeps items not yet in the past, soonest first, capped at
// summaryUpcoming.
func upcoming[T any](items []T, now time.Time, when func(T) time.Time) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if !when(it).Before(now) {
			out = append(out, it)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return when(out[i]).Before(when(out[j])) })
	if len(out) > summaryUpcoming {
		out = out[:summaryUpcoming]
	}
	return out
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
