package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	uuid "github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhishek070702/Safe-Heaven/internal/core/domain"
	"github.com/abhishek070702/Safe-Heaven/internal/core/port"
	"github.com/abhishek070702/Safe-Heaven/internal/infra/logger"
	"github.com/abhishek070702/Safe-Heaven/internal/infra/security"
	"github.com/abhishek070702/Safe-Heaven/internal/repository"
)

// Default administrator credentials seeded on first login when no admin
// account exists yet. Intended for initial setup only.
const (
	defaultAdminUsername = "admin"
	defaultAdminPassword = "admin123"
)

// msgBlockNotApproved guards the operator block toggle.
const msgBlockNotApproved = "Only approved elder homes can be blocked or unblocked"

// DashboardStats aggregates platform counts for the admin dashboard.
type DashboardStats struct {
	Donors            int
	Volunteers        int
	OperatorsPending  int
	OperatorsApproved int
	OperatorsRejected int
	TotalDonationsLKR float64
}

// AdminService coordinates administrator login and lifecycle moderation.
type AdminService struct {
	admins     port.AdminRepository
	donors     port.DonorRepository
	volunteers port.VolunteerRepository
	operators  port.OperatorRepository
	donations  port.DonationRepository
	tokens     *security.TokenService
	publisher  port.EventPublisher
}

// NewAdminService constructs an AdminService instance.
func NewAdminService(
	admins port.AdminRepository,
	donors port.DonorRepository,
	volunteers port.VolunteerRepository,
	operators port.OperatorRepository,
	donations port.DonationRepository,
	tokens *security.TokenService,
	publisher port.EventPublisher,
) *AdminService {
	return &AdminService{
		admins:     admins,
		donors:     donors,
		volunteers: volunteers,
		operators:  operators,
		donations:  donations,
		tokens:     tokens,
		publisher:  publisher,
	}
}

// Login verifies administrator credentials. When no administrator
// account exists yet, the default one is seeded first so a fresh
// deployment is reachable.
func (s *AdminService) Login(ctx context.Context, username, password string) (*domain.Admin, string, error) {
	if err := s.seedDefaultAdmin(ctx); err != nil {
		return nil, "", err
	}

	admin, err := s.admins.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("lookup admin: %w", err)
	}

	if !security.VerifyPassword(password, admin.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(admin.ID)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}

	admin.PasswordHash = ""
	return admin, token, nil
}

func (s *AdminService) seedDefaultAdmin(ctx context.Context) error {
	count, err := s.admins.Count(ctx)
	if err != nil {
		return fmt.Errorf("count admins: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := security.HashPassword(defaultAdminPassword)
	if err != nil {
		return fmt.Errorf("hash default admin password: %w", err)
	}

	now := time.Now().UTC()
	admin := domain.Admin{
		ID:           uuid.NewString(),
		Username:     defaultAdminUsername,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.admins.Create(ctx, admin); err != nil {
		// A concurrent first login may have seeded it already.
		if errors.Is(err, repository.ErrDuplicate) {
			return nil
		}
		return fmt.Errorf("seed default admin: %w", err)
	}

	logger.WithContext(ctx).Info("default administrator account created",
		zap.String("username", defaultAdminUsername))

	return nil
}

// Get loads an administrator by identifier.
func (s *AdminService) Get(ctx context.Context, id string) (*domain.Admin, error) {
	admin, err := s.admins.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load admin: %w", err)
	}
	admin.PasswordHash = ""
	return admin, nil
}

// Dashboard aggregates account counts and the donation sum.
func (s *AdminService) Dashboard(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{}

	var err error
	if stats.Donors, err = s.donors.Count(ctx); err != nil {
		return nil, fmt.Errorf("count donors: %w", err)
	}
	if stats.Volunteers, err = s.volunteers.Count(ctx); err != nil {
		return nil, fmt.Errorf("count volunteers: %w", err)
	}
	if stats.OperatorsPending, err = s.operators.CountByApprovalStatus(ctx, domain.ApprovalPending); err != nil {
		return nil, fmt.Errorf("count pending operators: %w", err)
	}
	if stats.OperatorsApproved, err = s.operators.CountByApprovalStatus(ctx, domain.ApprovalApproved); err != nil {
		return nil, fmt.Errorf("count approved operators: %w", err)
	}
	if stats.OperatorsRejected, err = s.operators.CountByApprovalStatus(ctx, domain.ApprovalRejected); err != nil {
		return nil, fmt.Errorf("count rejected operators: %w", err)
	}
	if stats.TotalDonationsLKR, err = s.donations.TotalAmountLKR(ctx); err != nil {
		return nil, fmt.Errorf("sum donations: %w", err)
	}

	return stats, nil
}

// ApproveOperator transitions an operator to approved and clears any
// rejection reason. Re-approval from rejected is allowed.
func (s *AdminService) ApproveOperator(ctx context.Context, operatorID string) (*domain.Operator, error) {
	operator, err := s.operators.GetByID(ctx, operatorID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load operator: %w", err)
	}

	operator.ApprovalStatus = domain.ApprovalApproved
	operator.RejectionReason = ""
	operator.UpdatedAt = time.Now().UTC()

	if err := s.operators.Update(ctx, *operator); err != nil {
		return nil, fmt.Errorf("update operator: %w", err)
	}

	s.publishModerated(ctx, operator)
	return operator, nil
}

// RejectOperator transitions an operator to rejected, storing the given
// reason or the default one when omitted.
func (s *AdminService) RejectOperator(ctx context.Context, operatorID, reason string) (*domain.Operator, error) {
	operator, err := s.operators.GetByID(ctx, operatorID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load operator: %w", err)
	}

	if reason == "" {
		reason = domain.DefaultRejectionReason
	}

	operator.ApprovalStatus = domain.ApprovalRejected
	operator.RejectionReason = reason
	operator.UpdatedAt = time.Now().UTC()

	if err := s.operators.Update(ctx, *operator); err != nil {
		return nil, fmt.Errorf("update operator: %w", err)
	}

	s.publishModerated(ctx, operator)
	return operator, nil
}

func (s *AdminService) publishModerated(ctx context.Context, operator *domain.Operator) {
	event := domain.OperatorModeratedEvent{
		OperatorID:      operator.ID,
		HomeName:        operator.HomeName,
		ApprovalStatus:  operator.ApprovalStatus,
		RejectionReason: operator.RejectionReason,
		DecidedAt:       operator.UpdatedAt,
	}
	if err := s.publisher.PublishOperatorModerated(ctx, event); err != nil {
		logger.WithContext(ctx).Warn("failed to publish moderation event",
			zap.String("operator_id", operator.ID), zap.Error(err))
	}
}

// SetOperatorBlocked toggles the block flag on an approved operator.
// Pending and rejected operators cannot be blocked or unblocked.
func (s *AdminService) SetOperatorBlocked(ctx context.Context, operatorID string, blocked bool) (*domain.Operator, error) {
	operator, err := s.operators.GetByID(ctx, operatorID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load operator: %w", err)
	}

	if !operator.Approved() {
		return nil, validationErr(msgBlockNotApproved)
	}

	operator.IsBlocked = blocked
	operator.UpdatedAt = time.Now().UTC()

	if err := s.operators.Update(ctx, *operator); err != nil {
		return nil, fmt.Errorf("update operator: %w", err)
	}

	s.publishBlocked(ctx, operator.ID, "operator", blocked, operator.UpdatedAt)
	return operator, nil
}

// SetDonorBlocked toggles the block flag on a donor.
func (s *AdminService) SetDonorBlocked(ctx context.Context, donorID string, blocked bool) (*domain.Donor, error) {
	donor, err := s.donors.GetByID(ctx, donorID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load donor: %w", err)
	}

	donor.IsBlocked = blocked
	donor.UpdatedAt = time.Now().UTC()

	if err := s.donors.Update(ctx, *donor); err != nil {
		return nil, fmt.Errorf("update donor: %w", err)
	}

	s.publishBlocked(ctx, donor.ID, "donor", blocked, donor.UpdatedAt)
	return donor, nil
}

// SetVolunteerBlocked toggles the block flag on a volunteer.
func (s *AdminService) SetVolunteerBlocked(ctx context.Context, volunteerID string, blocked bool) (*domain.Volunteer, error) {
	volunteer, err := s.volunteers.GetByID(ctx, volunteerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load volunteer: %w", err)
	}

	volunteer.IsBlocked = blocked
	volunteer.UpdatedAt = time.Now().UTC()

	if err := s.volunteers.Update(ctx, *volunteer); err != nil {
		return nil, fmt.Errorf("update volunteer: %w", err)
	}

	s.publishBlocked(ctx, volunteer.ID, "volunteer", blocked, volunteer.UpdatedAt)
	return volunteer, nil
}

func (s *AdminService) publishBlocked(ctx context.Context, accountID, kind string, blocked bool, at time.Time) {
	event := domain.AccountBlockedEvent{
		AccountID:   accountID,
		AccountKind: kind,
		Blocked:     blocked,
		ChangedAt:   at,
	}
	if err := s.publisher.PublishAccountBlocked(ctx, event); err != nil {
		logger.WithContext(ctx).Warn("failed to publish block event",
			zap.String("account_id", accountID), zap.Error(err))
	}
}

// ListOperatorsByStatus returns operators in the given moderation state.
func (s *AdminService) ListOperatorsByStatus(ctx context.Context, status domain.ApprovalStatus) ([]domain.Operator, error) {
	operators, err := s.operators.ListByApprovalStatus(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("list operators: %w", err)
	}
	return operators, nil
}
