package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	uuid "github.com/google/uuid"

	"github.com/abhishek070702/Safe-Heaven/internal/core/domain"
	"github.com/abhishek070702/Safe-Heaven/internal/core/port"
	"github.com/abhishek070702/Safe-Heaven/internal/repository"
)

// currencyRatesLKR converts supported currencies to Sri Lankan rupees.
var currencyRatesLKR = map[string]float64{
	"USD": 300,
	"INR": 4,
	"LKR": 1,
}

// ConvertToLKR converts an amount in the given currency to rupees.
// Unsupported currencies are rejected.
func ConvertToLKR(amount float64, currency string) (float64, error) {
	rate, ok := currencyRatesLKR[strings.ToUpper(currency)]
	if !ok {
		return 0, validationErr(fmt.Sprintf("Unsupported currency: %s", currency))
	}
	return amount * rate, nil
}

// DonationInput carries a new donation submission.
type DonationInput struct {
	DonorID     string
	DonorType   domain.DonorType
	OperatorID  string
	Amount      float64
	Currency    string
	Description string
}

// DonationService records donations against approved elder homes.
type DonationService struct {
	donations port.DonationRepository
	operators port.OperatorRepository
}

// NewDonationService constructs a DonationService instance.
func NewDonationService(donations port.DonationRepository, operators port.OperatorRepository) *DonationService {
	return &DonationService{donations: donations, operators: operators}
}

// Create validates and records a donation. The target elder home must
// exist and be approved.
func (s *DonationService) Create(ctx context.Context, input DonationInput) (*domain.Donation, error) {
	if input.Amount <= 0 {
		return nil, validationErr("Donation amount must be greater than zero")
	}

	amountLKR, err := ConvertToLKR(input.Amount, input.Currency)
	if err != nil {
		return nil, err
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

	now := time.Now().UTC()
	donation := domain.Donation{
		ID:          uuid.NewString(),
		DonorID:     input.DonorID,
		DonorType:   input.DonorType,
		OperatorID:  input.OperatorID,
		Amount:      input.Amount,
		AmountLKR:   amountLKR,
		Currency:    strings.ToUpper(input.Currency),
		Description: input.Description,
		Status:      domain.DonationCompleted,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.donations.Create(ctx, donation); err != nil {
		return nil, fmt.Errorf("create donation: %w", err)
	}

	return &donation, nil
}

// Get loads a donation by identifier.
func (s *DonationService) Get(ctx context.Context, id string) (*domain.Donation, error) {
	donation, err := s.donations.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load donation: %w", err)
	}
	return donation, nil
}

// ListByDonor returns one account's donation history.
func (s *DonationService) ListByDonor(ctx context.Context, donorID string, donorType domain.DonorType) ([]domain.Donation, error) {
	donations, err := s.donations.ListByDonor(ctx, donorID, donorType)
	if err != nil {
		return nil, fmt.Errorf("list donations: %w", err)
	}
	return donations, nil
}

// ListByOperator returns the donations received by one elder home.
func (s *DonationService) ListByOperator(ctx context.Context, operatorID string) ([]domain.Donation, error) {
	donations, err := s.donations.ListByOperator(ctx, operatorID)
	if err != nil {
		return nil, fmt.Errorf("list donations: %w", err)
	}
	return donations, nil
}

// List returns every donation.
func (s *DonationService) List(ctx context.Context) ([]domain.Donation, error) {
	donations, err := s.donations.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list donations: %w", err)
	}
	return donations, nil
}

// TotalByOperator sums the rupee value of one elder home's donations.
func (s *DonationService) TotalByOperator(ctx context.Context, operatorID string) (float64, error) {
	total, err := s.donations.TotalAmountLKRByOperator(ctx, operatorID)
	if err != nil {
		return 0, fmt.Errorf("sum donations: %w", err)
	}
	return total, nil
}
