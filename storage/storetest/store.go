// Package storetest provides an in-memory implementation of the store
// contracts for tests.
package storetest

import (
	"context"
	"sort"
	"sync"
	"time"

	"padel-club-api/models"
	"padel-club-api/storage"
)

type link struct{ left, user uint }

// Store keeps records in maps guarded by a single mutex. Returned records
// are copies; mutate them and call the Save methods to persist.
type Store struct {
	mu sync.Mutex

	nextID uint

	users         map[uint]models.User
	classes       map[uint]models.Class
	events        map[uint]models.Event
	teams         map[uint]models.Team
	matches       map[uint]models.Match
	announcements map[uint]models.Announcement

	classLinks map[link]bool
	eventLinks map[link]bool
	teamLinks  map[link]bool

	// Now stamps CreatedAt on new announcements.
	Now func() time.Time
}

func New() *Store {
	return &Store{
		users:         map[uint]models.User{},
		classes:       map[uint]models.Class{},
		events:        map[uint]models.Event{},
		teams:         map[uint]models.Team{},
		matches:       map[uint]models.Match{},
		announcements: map[uint]models.Announcement{},
		classLinks:    map[link]bool{},
		eventLinks:    map[link]bool{},
		teamLinks:     map[link]bool{},
		Now:           time.Now,
	}
}

func (s *Store) id() uint {
	s.nextID++
	return s.nextID
}

// linked returns the users linked to left in links, ordered by id.
func (s *Store) linked(links map[link]bool, left uint) []models.User {
	var out []models.User
	for l := range links {
		if l.left == left {
			if u, ok := s.users[l.user]; ok {
				out = append(out, u)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func dropLinks(links map[link]bool, match func(link) bool) {
	for l := range links {
		if match(l) {
			delete(links, l)
		}
	}
}

// ---- users ----

func (s *Store) GetUser(_ context.Context, id uint) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &u, nil
}

func (s *Store) GetUserWithRelations(_ context.Context, id uint) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	u.Classes, u.Events, u.Teams = nil, nil, nil
	for l := range s.classLinks {
		if l.user == id {
			u.Classes = append(u.Classes, s.classes[l.left])
		}
	}
	for l := range s.eventLinks {
		if l.user == id {
			u.Events = append(u.Events, s.events[l.left])
		}
	}
	for l := range s.teamLinks {
		if l.user == id {
			u.Teams = append(u.Teams, s.teams[l.left])
		}
	}
	sort.Slice(u.Classes, func(i, j int) bool { return u.Classes[i].ID < u.Classes[j].ID })
	sort.Slice(u.Events, func(i, j int) bool { return u.Events[i].ID < u.Events[j].ID })
	sort.Slice(u.Teams, func(i, j int) bool { return u.Teams[i].ID < u.Teams[j].ID })
	return &u, nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (s *Store) ListUsers(_ context.Context, limit int) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) CreateUser(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, other := range s.users {
		if other.Email == u.Email {
			return storage.ErrDuplicate
		}
	}
	u.ID = s.id()
	s.users[u.ID] = *u
	return nil
}

func (s *Store) SaveUser(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[u.ID]; !ok {
		return storage.ErrNotFound
	}
	for _, other := range s.users {
		if other.ID != u.ID && other.Email == u.Email {
			return storage.ErrDuplicate
		}
	}
	s.users[u.ID] = *u
	return nil
}

func (s *Store) DeleteUser(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.users, id)
	byUser := func(l link) bool { return l.user == id }
	dropLinks(s.classLinks, byUser)
	dropLinks(s.eventLinks, byUser)
	dropLinks(s.teamLinks, byUser)
	return nil
}

func (s *Store) AddCredits(_ context.Context, userID uint, amount int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addCredits(userID, amount)
}

func (s *Store) addCredits(userID uint, amount int) (int, error) {
	u, ok := s.users[userID]
	if !ok {
		return 0, storage.ErrNotFound
	}
	u.ClassesToRecover += amount
	s.users[userID] = u
	return u.ClassesToRecover, nil
}

// ---- classes ----

func (s *Store) GetClass(_ context.Context, id uint) (*models.Class, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.classes[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	c.Students = s.linked(s.classLinks, id)
	return &c, nil
}

func (s *Store) ListClasses(_ context.Context, maxLevel float64, limit int) ([]models.Class, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Class
	for _, c := range s.classes {
		if c.LevelRequired <= maxLevel {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) CreateClass(_ context.Context, c *models.Class) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ID = s.id()
	stored := *c
	stored.Students = nil
	s.classes[c.ID] = stored
	return nil
}

func (s *Store) SaveClass(_ context.Context, c *models.Class) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.classes[c.ID]; !ok {
		return storage.ErrNotFound
	}
	stored := *c
	stored.Students = nil
	s.classes[c.ID] = stored
	return nil
}

func (s *Store) DeleteClass(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.classes[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.classes, id)
	dropLinks(s.classLinks, func(l link) bool { return l.left == id })
	return nil
}

func (s *Store) EnrollStudent(_ context.Context, classID, userID uint, creditDelta int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.classes[classID]; !ok {
		return 0, storage.ErrNotFound
	}
	if _, ok := s.users[userID]; !ok {
		return 0, storage.ErrNotFound
	}
	l := link{left: classID, user: userID}
	if s.classLinks[l] {
		return 0, storage.ErrDuplicate
	}
	s.classLinks[l] = true
	return s.addCredits(userID, creditDelta)
}

func (s *Store) DropStudent(_ context.Context, classID, userID uint, creditDelta int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l := link{left: classID, user: userID}
	if !s.classLinks[l] {
		return 0, storage.ErrNotFound
	}
	delete(s.classLinks, l)
	return s.addCredits(userID, creditDelta)
}

// ---- events ----

func (s *Store) GetEvent(_ context.Context, id uint) (*models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.events[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	e.Participants = s.linked(s.eventLinks, id)
	return &e, nil
}

func (s *Store) ListEvents(_ context.Context, maxLevel float64, limit int) ([]models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Event
	for _, e := range s.events {
		if e.MinLevel <= maxLevel {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) CreateEvent(_ context.Context, e *models.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e.ID = s.id()
	stored := *e
	stored.Participants = nil
	s.events[e.ID] = stored
	return nil
}

func (s *Store) SaveEvent(_ context.Context, e *models.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[e.ID]; !ok {
		return storage.ErrNotFound
	}
	stored := *e
	stored.Participants = nil
	s.events[e.ID] = stored
	return nil
}

func (s *Store) DeleteEvent(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.events, id)
	dropLinks(s.eventLinks, func(l link) bool { return l.left == id })
	return nil
}

func (s *Store) AddParticipant(_ context.Context, eventID, userID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[eventID]; !ok {
		return storage.ErrNotFound
	}
	l := link{left: eventID, user: userID}
	if s.eventLinks[l] {
		return storage.ErrDuplicate
	}
	s.eventLinks[l] = true
	return nil
}

func (s *Store) RemoveParticipant(_ context.Context, eventID, userID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	l := link{left: eventID, user: userID}
	if !s.eventLinks[l] {
		return storage.ErrNotFound
	}
	delete(s.eventLinks, l)
	return nil
}

// ---- announcements ----

func (s *Store) GetAnnouncement(_ context.Context, id uint) (*models.Announcement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.announcements[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &a, nil
}

func (s *Store) ListAnnouncements(_ context.Context, limit int) ([]models.Announcement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Announcement
	for _, a := range s.announcements {
		if a.Status == models.AnnouncementPublished {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) CreateAnnouncement(_ context.Context, a *models.Announcement) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a.ID = s.id()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = s.Now()
	}
	if a.Status == "" {
		a.Status = models.AnnouncementPublished
	}
	s.announcements[a.ID] = *a
	return nil
}

func (s *Store) DeleteAnnouncement(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.announcements[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.announcements, id)
	return nil
}

func (s *Store) PublishDueAnnouncements(_ context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for id, a := range s.announcements {
		if a.IsDue(now) {
			a.Status = models.AnnouncementPublished
			a.CreatedAt = now
			s.announcements[id] = a
			n++
		}
	}
	return n, nil
}

// ---- teams ----

func (s *Store) GetTeam(_ context.Context, id uint) (*models.Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.teams[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	t.Members = s.linked(s.teamLinks, id)
	return &t, nil
}

func (s *Store) ListTeams(_ context.Context) ([]models.Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Team, 0, len(s.teams))
	for id, t := range s.teams {
		t.Members = s.linked(s.teamLinks, id)
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) CreateTeam(_ context.Context, t *models.Team) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t.ID = s.id()
	stored := *t
	stored.Members, stored.Matches = nil, nil
	s.teams[t.ID] = stored
	return nil
}

func (s *Store) DeleteTeam(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.teams[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.teams, id)
	dropLinks(s.teamLinks, func(l link) bool { return l.left == id })
	for mid, m := range s.matches {
		if m.TeamID != nil && *m.TeamID == id {
			m.TeamID = nil
			s.matches[mid] = m
		}
	}
	return nil
}

func (s *Store) AddMember(_ context.Context, teamID, userID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.teams[teamID]; !ok {
		return storage.ErrNotFound
	}
	if _, ok := s.users[userID]; !ok {
		return storage.ErrNotFound
	}
	l := link{left: teamID, user: userID}
	if s.teamLinks[l] {
		return storage.ErrDuplicate
	}
	s.teamLinks[l] = true
	return nil
}

func (s *Store) RemoveMember(_ context.Context, teamID, userID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	l := link{left: teamID, user: userID}
	if !s.teamLinks[l] {
		return storage.ErrNotFound
	}
	delete(s.teamLinks, l)
	return nil
}

func (s *Store) CreateMatch(_ context.Context, m *models.Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m.ID = s.id()
	s.matches[m.ID] = *m
	return nil
}

func (s *Store) RecentMatches(_ context.Context, teamIDs []uint, limit int) ([]models.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	want := map[uint]bool{}
	for _, id := range teamIDs {
		want[id] = true
	}
	var out []models.Match
	for _, m := range s.matches {
		if m.TeamID != nil && want[*m.TeamID] {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
