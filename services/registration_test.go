package services

import (
	"context"
	"testing"
	"time"

	"padel-club-api/storage/storetest"
)

var tomorrow = time.Now().Add(24 * time.Hour)

func newRegistration(t *testing.T) (*RegistrationService, *storetest.Store) {
	t.Helper()
	st := storetest.New()
	return NewRegistrationService(st, nopLog), st
}

func TestRegisterForClassConsumesCredit(t *testing.T) {
	svc, st := newRegistration(t)
	ctx := context.Background()
	user := seedUser(t, st, "ana@club.test", 3, 2)
	class := seedClass(t, st, 4, 2, tomorrow)

	res, err := svc.RegisterForClass(ctx, user, class.ID)
	if err != nil {
		t.Fatalf("RegisterForClass: %v", err)
	}
	if res.Status != "success" || res.Class != class.ID || res.RemainingCredits != 1 {
		t.Fatalf("unexpected result %+v", res)
	}
	if got := credits(t, st, user.ID); got != 1 {
		t.Fatalf("stored credits = %d, want 1", got)
	}
	if user.ClassesToRecover != 1 {
		t.Fatalf("caller credits = %d, want 1", user.ClassesToRecover)
	}
	c, _ := st.GetClass(ctx, class.ID)
	if !c.HasStudent(user.ID) {
		t.Fatal("user is not a student after registration")
	}
}

func TestRegisterForClassRejections(t *testing.T) {
	ctx := context.Background()

	t.Run("missing class", func(t *testing.T) {
		svc, st := newRegistration(t)
		user := seedUser(t, st, "a@club.test", 3, 0)
		_, err := svc.RegisterForClass(ctx, user, 999)
		requireKind(t, err, KindNotFound, "Class not found")
	})

	t.Run("no credits", func(t *testing.T) {
		svc, st := newRegistration(t)
		user := seedUser(t, st, "a@club.test", 3, 0)
		class := seedClass(t, st, 4, 1, tomorrow)
		_, err := svc.RegisterForClass(ctx, user, class.ID)
		requireKind(t, err, KindRejected, "User has no classes to recover")
	})

	t.Run("credits checked before capacity", func(t *testing.T) {
		svc, st := newRegistration(t)
		user := seedUser(t, st, "a@club.test", 3, 0)
		class := seedClass(t, st, 0, 1, tomorrow)
		_, err := svc.RegisterForClass(ctx, user, class.ID)
		requireKind(t, err, KindRejected, "User has no classes to recover")
	})

	t.Run("full", func(t *testing.T) {
		svc, st := newRegistration(t)
		first := seedUser(t, st, "first@club.test", 3, 1)
		second := seedUser(t, st, "second@club.test", 3, 1)
		class := seedClass(t, st, 1, 1, tomorrow)
		if _, err := svc.RegisterForClass(ctx, first, class.ID); err != nil {
			t.Fatalf("first registration: %v", err)
		}
		_, err := svc.RegisterForClass(ctx, second, class.ID)
		requireKind(t, err, KindRejected, "Class is full")
		if got := credits(t, st, second.ID); got != 1 {
			t.Fatalf("credits changed on rejection: %d", got)
		}
	})

	t.Run("zero capacity is always full", func(t *testing.T) {
		svc, st := newRegistration(t)
		user := seedUser(t, st, "a@club.test", 3, 1)
		class := seedClass(t, st, 0, 1, tomorrow)
		_, err := svc.RegisterForClass(ctx, user, class.ID)
		requireKind(t, err, KindRejected, "Class is full")
	})

	t.Run("duplicate", func(t *testing.T) {
		svc, st := newRegistration(t)
		user := seedUser(t, st, "a@club.test", 3, 2)
		class := seedClass(t, st, 4, 1, tomorrow)
		if _, err := svc.RegisterForClass(ctx, user, class.ID); err != nil {
			t.Fatalf("first registration: %v", err)
		}
		_, err := svc.RegisterForClass(ctx, user, class.ID)
		requireKind(t, err, KindRejected, "User is already registered for this class")
		if got := credits(t, st, user.ID); got != 1 {
			t.Fatalf("credits = %d, want 1 after rejected duplicate", got)
		}
	})
}

func TestUnregisterFromClassRestoresCredit(t *testing.T) {
	svc, st := newRegistration(t)
	ctx := context.Background()
	user := seedUser(t, st, "a@club.test", 3, 1)
	class := seedClass(t, st, 4, 1, tomorrow)

	if _, err := svc.RegisterForClass(ctx, user, class.ID); err != nil {
		t.Fatalf("register: %v", err)
	}
	res, err := svc.UnregisterFromClass(ctx, user, class.ID)
	if err != nil {
		t.Fatalf("unregister: %v", err)
	}
	if res.Message != "Unregistered from class" || res.NewCredits == nil || *res.NewCredits != 1 {
		t.Fatalf("unexpected result %+v", res)
	}
	if got := credits(t, st, user.ID); got != 1 {
		t.Fatalf("credits = %d, want 1", got)
	}
	c, _ := st.GetClass(ctx, class.ID)
	if c.HasStudent(user.ID) {
		t.Fatal("user still enrolled")
	}
}

func TestUnregisterFromClassWhenNotRegistered(t *testing.T) {
	svc, st := newRegistration(t)
	ctx := context.Background()
	user := seedUser(t, st, "a@club.test", 3, 2)
	class := seedClass(t, st, 4, 1, tomorrow)

	res, err := svc.UnregisterFromClass(ctx, user, class.ID)
	if err != nil {
		t.Fatalf("unregister: %v", err)
	}
	if res.Message != "User was not registered for this class" || res.NewCredits != nil {
		t.Fatalf("unexpected result %+v", res)
	}
	if got := credits(t, st, user.ID); got != 2 {
		t.Fatalf("credits = %d, want 2", got)
	}

	_, err = svc.UnregisterFromClass(ctx, user, 999)
	requireKind(t, err, KindNotFound, "Class not found")
}

func TestListClassesRequiresCredits(t *testing.T) {
	svc, st := newRegistration(t)
	ctx := context.Background()
	seedClass(t, st, 4, 1, tomorrow)
	seedClass(t, st, 4, 5, tomorrow)

	broke := seedUser(t, st, "broke@club.test", 6, 0)
	out, err := svc.ListClasses(ctx, broke, 0)
	if err != nil {
		t.Fatalf("ListClasses: %v", err)
	}
	if out == nil || len(out) != 0 {
		t.Fatalf("expected empty non-nil list, got %v", out)
	}

	user := seedUser(t, st, "a@club.test", 3, 1)
	out, err = svc.ListClasses(ctx, user, 0)
	if err != nil {
		t.Fatalf("ListClasses: %v", err)
	}
	if len(out) != 1 || out[0].LevelRequired != 1 {
		t.Fatalf("expected only the level 1 class, got %+v", out)
	}
}

func TestListEventsFiltersByLevel(t *testing.T) {
	svc, st := newRegistration(t)
	seedEvent(t, st, "open", 8, 0, tomorrow)
	seedEvent(t, st, "pro", 8, 6, tomorrow)
	user := seedUser(t, st, "a@club.test", 3, 0)

	out, err := svc.ListEvents(context.Background(), user, 10)
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}
	if len(out) != 1 || out[0].Name != "open" {
		t.Fatalf("unexpected events %+v", out)
	}
}

func TestRegisterForEvent(t *testing.T) {
	svc, st := newRegistration(t)
	ctx := context.Background()
	user := seedUser(t, st, "a@club.test", 3, 0)
	other := seedUser(t, st, "b@club.test", 3, 0)
	event := seedEvent(t, st, "Spring Open", 1, 0, tomorrow)

	res, err := svc.RegisterForEvent(ctx, user, event.ID)
	if err != nil {
		t.Fatalf("RegisterForEvent: %v", err)
	}
	if res.Status != "success" || res.Event != "Spring Open" {
		t.Fatalf("unexpected result %+v", res)
	}

	_, err = svc.RegisterForEvent(ctx, user, event.ID)
	// full is checked before duplicate
	requireKind(t, err, KindRejected, "Event is full")

	_, err = svc.RegisterForEvent(ctx, other, event.ID)
	requireKind(t, err, KindRejected, "Event is full")

	_, err = svc.RegisterForEvent(ctx, user, 999)
	requireKind(t, err, KindNotFound, "Event not found")
}

func TestRegisterForEventDuplicate(t *testing.T) {
	svc, st := newRegistration(t)
	ctx := context.Background()
	user := seedUser(t, st, "a@club.test", 3, 0)
	event := seedEvent(t, st, "Ladder", 4, 0, tomorrow)

	if _, err := svc.RegisterForEvent(ctx, user, event.ID); err != nil {
		t.Fatalf("first registration: %v", err)
	}
	_, err := svc.RegisterForEvent(ctx, user, event.ID)
	requireKind(t, err, KindRejected, "User is already registered for this event")

	e, _ := st.GetEvent(ctx, event.ID)
	if len(e.Participants) != 1 {
		t.Fatalf("participants = %d, want 1", len(e.Participants))
	}
}

func TestUnregisterFromEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("self", func(t *testing.T) {
		svc, st := newRegistration(t)
		user := seedUser(t, st, "a@club.test", 3, 0)
		event := seedEvent(t, st, "Ladder", 4, 0, tomorrow)
		if _, err := svc.RegisterForEvent(ctx, user, event.ID); err != nil {
			t.Fatalf("register: %v", err)
		}
		res, err := svc.UnregisterFromEvent(ctx, user, user.ID, event.ID)
		if err != nil {
			t.Fatalf("unregister: %v", err)
		}
		if res.Message != "Unregistered from event" {
			t.Fatalf("message = %q", res.Message)
		}
		res, err = svc.UnregisterFromEvent(ctx, user, user.ID, event.ID)
		if err != nil {
			t.Fatalf("second unregister: %v", err)
		}
		if res.Message != "User was not registered for this event" {
			t.Fatalf("message = %q", res.Message)
		}
	})

	t.Run("member cannot target others", func(t *testing.T) {
		svc, st := newRegistration(t)
		user := seedUser(t, st, "a@club.test", 3, 0)
		other := seedUser(t, st, "b@club.test", 3, 0)
		event := seedEvent(t, st, "Ladder", 4, 0, tomorrow)
		if _, err := svc.RegisterForEvent(ctx, other, event.ID); err != nil {
			t.Fatalf("register: %v", err)
		}
		_, err := svc.UnregisterFromEvent(ctx, user, other.ID, event.ID)
		requireKind(t, err, KindForbidden, "Only admins may unregister other users")
		e, _ := st.GetEvent(ctx, event.ID)
		if !e.HasParticipant(other.ID) {
			t.Fatal("participant removed by a non-admin")
		}
	})

	t.Run("admin removes someone else", func(t *testing.T) {
		svc, st := newRegistration(t)
		admin := seedAdmin(t, st, "admin@club.test")
		other := seedUser(t, st, "b@club.test", 3, 0)
		event := seedEvent(t, st, "Ladder", 4, 0, tomorrow)
		if _, err := svc.RegisterForEvent(ctx, other, event.ID); err != nil {
			t.Fatalf("register: %v", err)
		}
		if _, err := svc.UnregisterFromEvent(ctx, admin, other.ID, event.ID); err != nil {
			t.Fatalf("admin unregister: %v", err)
		}
		e, _ := st.GetEvent(ctx, event.ID)
		if e.HasParticipant(other.ID) {
			t.Fatal("participant still registered")
		}
		_, err := svc.UnregisterFromEvent(ctx, admin, 999, event.ID)
		requireKind(t, err, KindNotFound, "User not found")
	})

	t.Run("missing event", func(t *testing.T) {
		svc, st := newRegistration(t)
		user := seedUser(t, st, "a@club.test", 3, 0)
		_, err := svc.UnregisterFromEvent(ctx, user, user.ID, 999)
		requireKind(t, err, KindNotFound, "Event not found")
	})
}

func TestAdjustCredits(t *testing.T) {
	svc, st := newRegistration(t)
	ctx := context.Background()
	user := seedUser(t, st, "a@club.test", 3, 1)

	res, err := svc.AdjustCredits(ctx, user.ID, 3)
	if err != nil {
		t.Fatalf("AdjustCredits: %v", err)
	}
	if res.Status != "success" || res.NewBalance != 4 {
		t.Fatalf("unexpected result %+v", res)
	}

	// negative adjustments are not clamped
	res, err = svc.AdjustCredits(ctx, user.ID, -6)
	if err != nil {
		t.Fatalf("AdjustCredits: %v", err)
	}
	if res.NewBalance != -2 {
		t.Fatalf("balance = %d, want -2", res.NewBalance)
	}

	_, err = svc.AdjustCredits(ctx, 999, 1)
	requireKind(t, err, KindNotFound, "User not found")
}

func TestCreditConservation(t *testing.T) {
	svc, st := newRegistration(t)
	ctx := context.Background()
	user := seedUser(t, st, "a@club.test", 3, 3)
	classes := []uint{
		seedClass(t, st, 4, 1, tomorrow).ID,
		seedClass(t, st, 4, 1, tomorrow).ID,
		seedClass(t, st, 4, 1, tomorrow).ID,
	}

	for _, id := range classes {
		if _, err := svc.RegisterForClass(ctx, user, id); err != nil {
			t.Fatalf("register %d: %v", id, err)
		}
	}
	if got := credits(t, st, user.ID); got != 0 {
		t.Fatalf("credits = %d after three registrations", got)
	}
	_, err := svc.RegisterForClass(ctx, user, seedClass(t, st, 4, 1, tomorrow).ID)
	requireKind(t, err, KindRejected, "User has no classes to recover")

	for _, id := range classes {
		if _, err := svc.UnregisterFromClass(ctx, user, id); err != nil {
			t.Fatalf("unregister %d: %v", id, err)
		}
	}
	if got := credits(t, st, user.ID); got != 3 {
		t.Fatalf("credits = %d, want 3 after leaving every class", got)
	}
}
