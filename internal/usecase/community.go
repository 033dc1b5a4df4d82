package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	uuid "github.com/google/uuid"

	"github.com/abhishek070702/Safe-Heaven/internal/core/domain"
	"github.com/abhishek070702/Safe-Heaven/internal/core/port"
	"github.com/abhishek070702/Safe-Heaven/internal/repository"
)

// EventInput carries a new volunteer event submission.
type EventInput struct {
	OperatorID  string
	Name        string
	Description string
	Location    string
	StartTime   time.Time
	EndTime     time.Time
}

// PatientInput carries a new admission record submission.
type PatientInput struct {
	OperatorID       string
	DonorID          string
	Name             string
	Age              int
	NationalID       string
	Gender           string
	PhoneNumber      string
	DateOfBirth      time.Time
	MedicalCondition string
	Allergies        string
	SpecialCare      string
}

// CommunityService handles volunteer events, elder-home feedback, and
// admission records.
type CommunityService struct {
	events     port.EventRepository
	feedback   port.FeedbackRepository
	patients   port.PatientRepository
	operators  port.OperatorRepository
	volunteers port.VolunteerRepository
}

// NewCommunityService constructs a CommunityService instance.
func NewCommunityService(
	events port.EventRepository,
	feedback port.FeedbackRepository,
	patients port.PatientRepository,
	operators port.OperatorRepository,
	volunteers port.VolunteerRepository,
) *CommunityService {
	return &CommunityService{
		events:     events,
		feedback:   feedback,
		patients:   patients,
		operators:  operators,
		volunteers: volunteers,
	}
}

// CreateEvent records a volunteer event hosted by an approved elder home.
func (s *CommunityService) CreateEvent(ctx context.Context, input EventInput) (*domain.Event, error) {
	if input.Name == "" {
		return nil, validationErr("Event name is required")
	}
	if input.StartTime.IsZero() || input.EndTime.IsZero() {
		return nil, validationErr("Event start and end times are required")
	}
	if !input.EndTime.After(input.StartTime) {
		return nil, validationErr("Event end time must be after the start time")
	}

	event := domain.Event{
		ID:          uuid.NewString(),
		OperatorID:  input.OperatorID,
		Name:        input.Name,
		Description: input.Description,
		Location:    input.Location,
		StartTime:   input.StartTime,
		EndTime:     input.EndTime,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.events.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}

	return &event, nil
}

// ListEvents returns every upcoming and past event.
func (s *CommunityService) ListEvents(ctx context.Context) ([]domain.Event, error) {
	events, err := s.events.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

// ListEventsByOperator returns one elder home's events.
func (s *CommunityService) ListEventsByOperator(ctx context.Context, operatorID string) ([]domain.Event, error) {
	events, err := s.events.ListByOperator(ctx, operatorID)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

// JoinEvent signs a volunteer up for an event.
func (s *CommunityService) JoinEvent(ctx context.Context, eventID, volunteerID string) error {
	if _, err := s.events.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("load event: %w", err)
	}

	if err := s.events.AddVolunteer(ctx, eventID, volunteerID); err != nil {
		return fmt.Errorf("join event: %w", err)
	}

	return nil
}

// LeaveEvent withdraws a volunteer from an event.
func (s *CommunityService) LeaveEvent(ctx context.Context, eventID, volunteerID string) error {
	if err := s.events.RemoveVolunteer(ctx, eventID, volunteerID); err != nil {
		return fmt.Errorf("leave event: %w", err)
	}
	return nil
}

// DeleteEvent removes an event belonging to the calling operator.
// Events owned by another home are reported as missing rather than
// forbidden, so the route does not confirm their existence.
func (s *CommunityService) DeleteEvent(ctx context.Context, eventID, operatorID string) error {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("load event: %w", err)
	}

	if event.OperatorID != operatorID {
		return ErrNotFound
	}

	if err := s.events.Delete(ctx, eventID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}

// AddHomeFeedback records a rating for an approved elder home.
func (s *CommunityService) AddHomeFeedback(ctx context.Context, operatorID, username string, rating int, comment string) (*domain.Feedback, error) {
	if rating < 1 || rating > 5 {
		return nil, validationErr("Rating must be between 1 and 5")
	}

	operator, err := s.operators.GetByID(ctx, operatorID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load operator: %w", err)
	}
	if !operator.Approved() {
		return nil, ErrOperatorNotApproved
	}

	feedback := domain.Feedback{
		ID:         uuid.NewString(),
		OperatorID: operatorID,
		Username:   username,
		Rating:     rating,
		Comment:    comment,
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.feedback.Create(ctx, feedback); err != nil {
		return nil, fmt.Errorf("create feedback: %w", err)
	}

	return &feedback, nil
}

// ListHomeFeedback returns the feedback left for one elder home.
func (s *CommunityService) ListHomeFeedback(ctx context.Context, operatorID string) ([]domain.Feedback, error) {
	entries, err := s.feedback.ListByOperator(ctx, operatorID)
	if err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}
	return entries, nil
}

// AdmitPatient records an admission into an elder home, refusing once
// the home's declared capacity is reached.
func (s *CommunityService) AdmitPatient(ctx context.Context, input PatientInput) (*domain.Patient, error) {
	if input.Name == "" {
		return nil, validationErr("Patient name is required")
	}
	if input.Age <= 0 {
		return nil, validationErr("Patient age is required")
	}

	operator, err := s.operators.GetByID(ctx, input.OperatorID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load operator: %w", err)
	}
	if !operator.Approved() {
		return nil, ErrOperatorNotApproved
	}

	if operator.Capacity > 0 {
		admitted, err := s.patients.CountByOperator(ctx, input.OperatorID)
		if err != nil {
			return nil, fmt.Errorf("count patients: %w", err)
		}
		if admitted >= operator.Capacity {
			return nil, validationErr("Elder home is at full capacity")
		}
	}

	patient := domain.Patient{
		ID:               uuid.NewString(),
		OperatorID:       input.OperatorID,
		DonorID:          input.DonorID,
		Name:             input.Name,
		Age:              input.Age,
		NationalID:       input.NationalID,
		Gender:           input.Gender,
		PhoneNumber:      input.PhoneNumber,
		DateOfBirth:      input.DateOfBirth,
		MedicalCondition: input.MedicalCondition,
		Allergies:        input.Allergies,
		SpecialCare:      input.SpecialCare,
		CreatedAt:        time.Now().UTC(),
	}

	if err := s.patients.Create(ctx, patient); err != nil {
		return nil, fmt.Errorf("create patient: %w", err)
	}

	return &patient, nil
}

// ListPatients returns one elder home's admission records.
func (s *CommunityService) ListPatients(ctx context.Context, operatorID string) ([]domain.Patient, error) {
	patients, err := s.patients.ListByOperator(ctx, operatorID)
	if err != nil {
		return nil, fmt.Errorf("list patients: %w", err)
	}
	return patients, nil
}
