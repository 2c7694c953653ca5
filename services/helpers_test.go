package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"padel-club-api/models"
	"padel-club-api/storage/storetest"

	"go.uber.org/zap"
)

var nopLog = zap.NewNop().Sugar()

func seedUser(t *testing.T, st *storetest.Store, email string, level float64, credits int) *models.User {
	t.Helper()
	u := &models.User{Name: email, Email: email, Level: level, ClassesToRecover: credits}
	if err := st.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("seed user %s: %v", email, err)
	}
	return u
}

func seedAdmin(t *testing.T, st *storetest.Store, email string) *models.User {
	t.Helper()
	u := &models.User{Name: "admin", Email: email, Level: 7, IsAdmin: true}
	if err := st.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("seed admin: %v", err)
	}
	return u
}

func seedClass(t *testing.T, st *storetest.Store, maxStudents int, level float64, schedule time.Time) *models.Class {
	t.Helper()
	c := &models.Class{CoachID: 1, Schedule: schedule, LevelRequired: level, MaxStudents: maxStudents}
	if err := st.CreateClass(context.Background(), c); err != nil {
		t.Fatalf("seed class: %v", err)
	}
	return c
}

func seedEvent(t *testing.T, st *storetest.Store, name string, maxSlots int, minLevel float64, date time.Time) *models.Event {
	t.Helper()
	e := &models.Event{Name: name, Type: "tournament", Date: date, MinLevel: minLevel, MaxSlots: maxSlots, Price: 10}
	if err := st.CreateEvent(context.Background(), e); err != nil {
		t.Fatalf("seed event: %v", err)
	}
	return e
}

func requireKind(t *testing.T, err error, kind Kind, msg string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error %q, got nil", kind, msg)
	}
	var svcErr *Error
	if !errors.As(err, &svcErr) {
		t.Fatalf("expected *Error, got %T: %v", err, err)
	}
	if svcErr.Kind != kind {
		t.Fatalf("kind = %s, want %s (%v)", svcErr.Kind, kind, err)
	}
	if msg != "" && svcErr.Message != msg {
		t.Fatalf("message = %q, want %q", svcErr.Message, msg)
	}
}

func credits(t *testing.T, st *storetest.Store, userID uint) int {
	t.Helper()
	u, err := st.GetUser(context.Background(), userID)
	if err != nil {
		t.Fatalf("get user %d: %v", userID, err)
	}
	return u.ClassesToRecover
}
