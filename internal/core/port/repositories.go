package port

import (
	"context"

	"github.com/abhishek070702/Safe-Heaven/internal/core/domain"
)

// DonorRepository persists donor accounts.
//
// GetByID excludes the password hash from the loaded projection; only
// GetByUsername, which backs credential verification, includes it.
type DonorRepository interface {
	Create(ctx context.Context, donor domain.Donor) error
	GetByID(ctx context.Context, id string) (*domain.Donor, error)
	GetByUsername(ctx context.Context, username string) (*domain.Donor, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Update(ctx context.Context, donor domain.Donor) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]domain.Donor, error)
	Count(ctx context.Context) (int, error)
}

// VolunteerRepository persists volunteer accounts.
type VolunteerRepository interface {
	Create(ctx context.Context, volunteer domain.Volunteer) error
	GetByID(ctx context.Context, id string) (*domain.Volunteer, error)
	GetByUsername(ctx context.Context, username string) (*domain.Volunteer, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Update(ctx context.Context, volunteer domain.Volunteer) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]domain.Volunteer, error)
	Count(ctx context.Context) (int, error)
}

// OperatorRepository persists elder-home operator accounts.
type OperatorRepository interface {
	Create(ctx context.Context, operator domain.Operator) error
	GetByID(ctx context.Context, id string) (*domain.Operator, error)
	GetByUsername(ctx context.Context, username string) (*domain.Operator, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByHomeName(ctx context.Context, homeName string) (bool, error)
	Update(ctx context.Context, operator domain.Operator) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]domain.Operator, error)
	ListByApprovalStatus(ctx context.Context, status domain.ApprovalStatus) ([]domain.Operator, error)
	CountByApprovalStatus(ctx context.Context, status domain.ApprovalStatus) (int, error)
}

// AdminRepository persists administrator accounts.
type AdminRepository interface {
	Create(ctx context.Context, admin domain.Admin) error
	GetByUsername(ctx context.Context, username string) (*domain.Admin, error)
	GetByID(ctx context.Context, id string) (*domain.Admin, error)
	Count(ctx context.Context) (int, error)
}

// DonationRepository persists donation records.
type DonationRepository interface {
	Create(ctx context.Context, donation domain.Donation) error
	GetByID(ctx context.Context, id string) (*domain.Donation, error)
	ListByDonor(ctx context.Context, donorID string, donorType domain.DonorType) ([]domain.Donation, error)
	ListByOperator(ctx context.Context, operatorID string) ([]domain.Donation, error)
	List(ctx context.Context) ([]domain.Donation, error)
	UpdateDescription(ctx context.Context, id, description string) error
	TotalAmountLKR(ctx context.Context) (float64, error)
	TotalAmountLKRByOperator(ctx context.Context, operatorID string) (float64, error)
}

// EventRepository persists volunteer events. Listing only; no state machine.
type EventRepository interface {
	Create(ctx context.Context, event domain.Event) error
	GetByID(ctx context.Context, id string) (*domain.Event, error)
	List(ctx context.Context) ([]domain.Event, error)
	ListByOperator(ctx context.Context, operatorID string) ([]domain.Event, error)
	AddVolunteer(ctx context.Context, eventID, volunteerID string) error
	RemoveVolunteer(ctx context.Context, eventID, volunteerID string) error
	Delete(ctx context.Context, id string) error
}

// FeedbackRepository persists elder-home feedback entries.
type FeedbackRepository interface {
	Create(ctx context.Context, feedback domain.Feedback) error
	ListByOperator(ctx context.Context, operatorID string) ([]domain.Feedback, error)
}

// PatientRepository persists elder-home admission records.
type PatientRepository interface {
	Create(ctx context.Context, patient domain.Patient) error
	GetByID(ctx context.Context, id string) (*domain.Patient, error)
	ListByOperator(ctx context.Context, operatorID string) ([]domain.Patient, error)
	CountByOperator(ctx context.Context, operatorID string) (int, error)
}
