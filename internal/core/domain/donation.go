package domain

import "time"

// DonorType identifies which account kind made a donation.
type DonorType string

const (
	DonorTypeDonor     DonorType = "donor"
	DonorTypeVolunteer DonorType = "volunteer"
	DonorTypeOperator  DonorType = "operator"
)

// DonationStatus enumerates donation settlement states.
type DonationStatus string

const (
	DonationPending   DonationStatus = "pending"
	DonationCompleted DonationStatus = "completed"
	DonationFailed    DonationStatus = "failed"
)

// Donation records a monetary contribution towards an elder home.
// Amount is in the submitted currency; AmountLKR is the converted value.
type Donation struct {
	ID          string
	DonorID     string
	DonorType   DonorType
	OperatorID  string
	Amount      float64
	AmountLKR   float64
	Currency    string
	Description string
	Status      DonationStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
