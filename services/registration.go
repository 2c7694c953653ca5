// services/registration.go
package services

import (
	"context"
	"errors"

	"padel-club-api/models"
	"padel-club-api/storage"

	"go.uber.org/zap"
)

const defaultListLimit = 100

// ClassRegistration is returned after a successful class registration.
type ClassRegistration struct {
	Status           string `json:"status"`
	Class            uint   `json:"class"`
	RemainingCredits int    `json:"remaining_credits"`
}

// ClassUnregistration reports the outcome of leaving a class. NewCredits is
// nil when the user was not registered in the first place.
type ClassUnregistration struct {
	Message    string `json:"message"`
	NewCredits *int   `json:"new_credits,omitempty"`
}

type EventRegistration struct {
	Status string `json:"status"`
	Event  string `json:"event"`
}

type EventUnregistration struct {
	Message string `json:"message"`
}

type CreditGrant struct {
	Status     string `json:"status"`
	NewBalance int    `json:"new_balance"`
}

// RegistrationService enforces capacity, eligibility and duplicate rules on
// the user/class and user/event links and keeps the recovery credit balance.
//
// Checks read the current state and then write; concurrent registrations
// for the same class or event are not serialized.
type RegistrationService struct {
	store RegistrationStore
	log   *zap.SugaredLogger
}

func NewRegistrationService(store RegistrationStore, log *zap.SugaredLogger) *RegistrationService {
	return &RegistrationService{store: store, log: log}
}

// ListClasses returns the classes user may join. Users without recovery
// credits see nothing at all.
func (s *RegistrationService) ListClasses(ctx context.Context, user *models.User, limit int) ([]models.Class, error) {
	s.log.Infow("listing classes", "user_id", user.ID)
	if user.ClassesToRecover <= 0 {
		s.log.Infow("no recovery classes available", "user_id", user.ID)
		return []models.Class{}, nil
	}
	if limit <= 0 {
		limit = defaultListLimit
	}
	classes, err := s.store.ListClasses(ctx, user.Level, limit)
	if err != nil {
		return nil, err
	}
	if classes == nil {
		classes = []models.Class{}
	}
	return classes, nil
}

// ListEvents returns events whose minimum level user satisfies.
func (s *RegistrationService) ListEvents(ctx context.Context, user *models.User, limit int) ([]models.Event, error) {
	s.log.Infow("listing events", "user_id", user.ID)
	if limit <= 0 {
		limit = defaultListLimit
	}
	events, err := s.store.ListEvents(ctx, user.Level, limit)
	if err != nil {
		return nil, err
	}
	if events == nil {
		events = []models.Event{}
	}
	return events, nil
}

func (s *RegistrationService) RegisterForClass(ctx context.Context, user *models.User, classID uint) (*ClassRegistration, error) {
	log := s.log.With("user_id", user.ID, "class_id", classID)
	log.Infow("class registration attempt")

	class, err := s.store.GetClass(ctx, classID)
	if errors.Is(err, storage.ErrNotFound) {
		log.Warnw("registration failed: class not found")
		return nil, notFound("Class not found")
	}
	if err != nil {
		return nil, err
	}

	if user.ClassesToRecover <= 0 {
		log.Warnw("registration failed: no classes to recover")
		return nil, rejected("User has no classes to recover")
	}
	if class.IsFull() {
		log.Warnw("registration failed: class is full", "max_students", class.MaxStudents)
		return nil, rejected("Class is full")
	}
	if class.HasStudent(user.ID) {
		log.Warnw("registration failed: already registered")
		return nil, rejected("User is already registered for this class")
	}

	balance, err := s.store.EnrollStudent(ctx, classID, user.ID, -1)
	if errors.Is(err, storage.ErrDuplicate) {
		return nil, rejected("User is already registered for this class")
	}
	if err != nil {
		return nil, err
	}
	user.ClassesToRecover = balance

	log.Infow("registered for class", "remaining_credits", balance)
	return &ClassRegistration{Status: "success", Class: classID, RemainingCredits: balance}, nil
}

func (s *RegistrationService) UnregisterFromClass(ctx context.Context, user *models.User, classID uint) (*ClassUnregistration, error) {
	log := s.log.With("user_id", user.ID, "class_id", classID)
	log.Infow("class unregistration attempt")

	class, err := s.store.GetClass(ctx, classID)
	if errors.Is(err, storage.ErrNotFound) {
		log.Warnw("unregistration failed: class not found")
		return nil, notFound("Class not found")
	}
	if err != nil {
		return nil, err
	}

	notRegistered := &ClassUnregistration{Message: "User was not registered for this class"}
	if !class.HasStudent(user.ID) {
		log.Infow("user was not registered for class")
		return notRegistered, nil
	}

	balance, err := s.store.DropStudent(ctx, classID, user.ID, 1)
	if errors.Is(err, storage.ErrNotFound) {
		// the link vanished between the read and the delete
		return notRegistered, nil
	}
	if err != nil {
		return nil, err
	}
	user.ClassesToRecover = balance

	log.Infow("unregistered from class", "new_credits", balance)
	return &ClassUnregistration{Message: "Unregistered from class", NewCredits: &balance}, nil
}

func (s *RegistrationService) RegisterForEvent(ctx context.Context, user *models.User, eventID uint) (*EventRegistration, error) {
	log := s.log.With("user_id", user.ID, "event_id", eventID)
	log.Infow("event registration attempt")

	event, err := s.store.GetEvent(ctx, eventID)
	if errors.Is(err, storage.ErrNotFound) {
		log.Warnw("registration failed: event not found")
		return nil, notFound("Event not found")
	}
	if err != nil {
		return nil, err
	}

	if event.IsFull() {
		log.Warnw("registration failed: event is full", "max_slots", event.MaxSlots)
		return nil, rejected("Event is full")
	}
	if event.HasParticipant(user.ID) {
		log.Infow("registration failed: already registered")
		return nil, rejected("User is already registered for this event")
	}

	err = s.store.AddParticipant(ctx, eventID, user.ID)
	if errors.Is(err, storage.ErrDuplicate) {
		return nil, rejected("User is already registered for this event")
	}
	if err != nil {
		return nil, err
	}

	log.Infow("registered for event", "event", event.Name)
	return &EventRegistration{Status: "success", Event: event.Name}, nil
}

// UnregisterFromEvent removes targetUserID from the event. Members may only
// target themselves; admins may target anyone.
func (s *RegistrationService) UnregisterFromEvent(ctx context.Context, caller *models.User, targetUserID, eventID uint) (*EventUnregistration, error) {
	log := s.log.With("user_id", caller.ID, "target_user_id", targetUserID, "event_id", eventID)
	log.Infow("event unregistration attempt")

	if targetUserID != caller.ID {
		if err := RequireAdmin(caller); err != nil {
			log.Warnw("unregistration refused: target is another user")
			return nil, forbidden("Only admins may unregister other users")
		}
		if _, err := s.store.GetUser(ctx, targetUserID); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return nil, notFound("User not found")
			}
			return nil, err
		}
	}

	event, err := s.store.GetEvent(ctx, eventID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, notFound("Event not found")
	}
	if err != nil {
		return nil, err
	}

	notRegistered := &EventUnregistration{Message: "User was not registered for this event"}
	if !event.HasParticipant(targetUserID) {
		log.Infow("user was not registered for event")
		return notRegistered, nil
	}

	err = s.store.RemoveParticipant(ctx, eventID, targetUserID)
	if errors.Is(err, storage.ErrNotFound) {
		return notRegistered, nil
	}
	if err != nil {
		return nil, err
	}

	log.Infow("unregistered from event")
	return &EventUnregistration{Message: "Unregistered from event"}, nil
}

// AdjustCredits adds amount to the user's recovery balance. The result is
// not clamped.
func (s *RegistrationService) AdjustCredits(ctx context.Context, userID uint, amount int) (*CreditGrant, error) {
	s.log.Infow("adjusting recovery classes", "user_id", userID, "amount", amount)

	balance, err := s.store.AddCredits(ctx, userID, amount)
	if errors.Is(err, storage.ErrNotFound) {
		s.log.Warnw("user not found for adding recovery classes", "user_id", userID)
		return nil, notFound("User not found")
	}
	if err != nil {
		return nil, err
	}

	s.log.Infow("recovery classes adjusted", "user_id", userID, "new_balance", balance)
	return &CreditGrant{Status: "success", NewBalance: balance}, nil
}
