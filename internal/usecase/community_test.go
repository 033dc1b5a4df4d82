package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/abhishek070702/Safe-Heaven/internal/core/domain"
)

func newCommunityFixture() (*CommunityService, *mockEventRepository, *mockOperatorRepository, *mockPatientRepository) {
	events := newMockEventRepository()
	operators := newMockOperatorRepository()
	patients := &mockPatientRepository{}
	svc := NewCommunityService(events, &mockFeedbackRepository{}, patients, operators, newMockVolunteerRepository())
	return svc, events, operators, patients
}

func seedEvent(events *mockEventRepository, id, operatorID string) domain.Event {
	event := domain.Event{
		ID:         id,
		OperatorID: operatorID,
		Name:       "Garden Day",
		StartTime:  time.Now().UTC().Add(24 * time.Hour),
		EndTime:    time.Now().UTC().Add(26 * time.Hour),
		CreatedAt:  time.Now().UTC(),
	}
	events.events[event.ID] = &event
	return event
}

func TestCreateEventRejectsInvertedTimes(t *testing.T) {
	svc, events, _, _ := newCommunityFixture()

	start := time.Now().UTC().Add(2 * time.Hour)
	_, err := svc.CreateEvent(context.Background(), EventInput{
		OperatorID: "op-1",
		Name:       "Garden Day",
		StartTime:  start,
		EndTime:    start.Add(-time.Hour),
	})
	vErr := asValidation(t, err)
	if vErr.Message != "Event end time must be after the start time" {
		t.Fatalf("unexpected message: %q", vErr.Message)
	}
	if len(events.events) != 0 {
		t.Fatal("event stored despite invalid times")
	}
}

func TestDeleteEventByOwner(t *testing.T) {
	svc, events, _, _ := newCommunityFixture()
	seedEvent(events, "ev-1", "op-1")

	if err := svc.DeleteEvent(context.Background(), "ev-1", "op-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok := events.events["ev-1"]; ok {
		t.Fatal("expected event to be removed")
	}
}

func TestDeleteEventRequiresOwnership(t *testing.T) {
	svc, events, _, _ := newCommunityFixture()
	seedEvent(events, "ev-1", "op-1")

	err := svc.DeleteEvent(context.Background(), "ev-1", "op-2")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for another home's event, got %v", err)
	}
	if _, ok := events.events["ev-1"]; !ok {
		t.Fatal("event belonging to another home was deleted")
	}
	if events.deleteCalls != 0 {
		t.Fatalf("expected no delete call, got %d", events.deleteCalls)
	}
}

func TestDeleteEventMissing(t *testing.T) {
	svc, _, _, _ := newCommunityFixture()

	if err := svc.DeleteEvent(context.Background(), "ev-9", "op-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestJoinAndLeaveEvent(t *testing.T) {
	svc, events, _, _ := newCommunityFixture()
	seedEvent(events, "ev-1", "op-1")

	if err := svc.JoinEvent(context.Background(), "ev-1", "vol-1"); err != nil {
		t.Fatalf("join: %v", err)
	}
	if got := events.events["ev-1"].VolunteerIDs; len(got) != 1 || got[0] != "vol-1" {
		t.Fatalf("unexpected participants: %v", got)
	}

	if err := svc.LeaveEvent(context.Background(), "ev-1", "vol-1"); err != nil {
		t.Fatalf("leave: %v", err)
	}
	if got := events.events["ev-1"].VolunteerIDs; len(got) != 0 {
		t.Fatalf("expected no participants, got %v", got)
	}
}

func TestAddHomeFeedbackRequiresApprovedOperator(t *testing.T) {
	svc, _, operators, _ := newCommunityFixture()
	seedOperator(t, operators, domain.ApprovalPending, false)

	_, err := svc.AddHomeFeedback(context.Background(), "op-1", "kamala", 4, "lovely place")
	if !errors.Is(err, ErrOperatorNotApproved) {
		t.Fatalf("expected ErrOperatorNotApproved, got %v", err)
	}
}

func TestAddHomeFeedbackRatingBounds(t *testing.T) {
	svc, _, operators, _ := newCommunityFixture()
	seedOperator(t, operators, domain.ApprovalApproved, false)

	for _, rating := range []int{0, 6} {
		_, err := svc.AddHomeFeedback(context.Background(), "op-1", "kamala", rating, "")
		vErr := asValidation(t, err)
		if vErr.Message != "Rating must be between 1 and 5" {
			t.Fatalf("unexpected message for rating %d: %q", rating, vErr.Message)
		}
	}
}

func TestAdmitPatientHonorsCapacity(t *testing.T) {
	svc, _, operators, patients := newCommunityFixture()
	operator := seedOperator(t, operators, domain.ApprovalApproved, false)
	operator.Capacity = 1
	operators.operators[operator.ID] = &operator

	admit := func() error {
		_, err := svc.AdmitPatient(context.Background(), PatientInput{
			OperatorID: operator.ID,
			Name:       "Somapala",
			Age:        78,
		})
		return err
	}

	if err := admit(); err != nil {
		t.Fatalf("first admission: %v", err)
	}
	err := admit()
	vErr := asValidation(t, err)
	if vErr.Message != "Elder home is at full capacity" {
		t.Fatalf("unexpected message: %q", vErr.Message)
	}
	if len(patients.patients) != 1 {
		t.Fatalf("expected 1 admitted patient, got %d", len(patients.patients))
	}
}
