package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/abhishek070702/Safe-Heaven/internal/core/domain"
)

// Context keys under which the auth middleware stores the loaded
// principal for each account kind.
const (
	DonorContextKey     = "donor"
	VolunteerContextKey = "volunteer"
	OperatorContextKey  = "operator"
	AdminContextKey     = "admin"
)

// ErrorResponse carries the explanatory message for a failed request,
// plus the trace ID for debugging.
type ErrorResponse struct {
	Message string `json:"message"`
	TraceID string `json:"trace_id,omitempty"`
}

// NewErrorResponse creates an error response with trace ID from context
func NewErrorResponse(c *gin.Context, message string) ErrorResponse {
	traceID, _ := c.Get("trace_id")
	traceIDStr, _ := traceID.(string)

	return ErrorResponse{
		Message: message,
		TraceID: traceIDStr,
	}
}

// MessageResponse represents a simple message payload.
type MessageResponse struct {
	Message string `json:"message"`
}

// LoginRequest is the shared credential payload for every account kind.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// DonorSummary is the public projection of a donor account.
type DonorSummary struct {
	ID            string    `json:"id"`
	FullName      string    `json:"fullName"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	Address       string    `json:"address,omitempty"`
	ContactNumber string    `json:"contactNumber,omitempty"`
	Description   string    `json:"description,omitempty"`
	ProfilePhoto  string    `json:"profilePhoto"`
	IsBlocked     bool      `json:"isBlocked"`
	CreatedAt     time.Time `json:"createdAt"`
}

func donorSummary(d *domain.Donor) DonorSummary {
	return DonorSummary{
		ID:            d.ID,
		FullName:      d.FullName,
		Username:      d.Username,
		Email:         d.Email,
		Address:       d.Address,
		ContactNumber: d.ContactNumber,
		Description:   d.Description,
		ProfilePhoto:  d.ProfilePhoto,
		IsBlocked:     d.IsBlocked,
		CreatedAt:     d.CreatedAt,
	}
}

func donorSummaries(donors []domain.Donor) []DonorSummary {
	out := make([]DonorSummary, 0, len(donors))
	for i := range donors {
		out = append(out, donorSummary(&donors[i]))
	}
	return out
}

// VolunteerSummary is the public projection of a volunteer account.
type VolunteerSummary struct {
	ID            string               `json:"id"`
	Name          string               `json:"name"`
	Username      string               `json:"username"`
	Email         string               `json:"email"`
	Phone         string               `json:"phone,omitempty"`
	Age           int                  `json:"age,omitempty"`
	Address       string               `json:"address,omitempty"`
	Role          string               `json:"role,omitempty"`
	Description   string               `json:"description,omitempty"`
	Skills        []string             `json:"skills,omitempty"`
	Availability  domain.Availability  `json:"availability"`
	ProfilePhoto  string               `json:"profilePhoto"`
	AverageRating float64              `json:"averageRating"`
	Ratings       []int                `json:"ratings,omitempty"`
	Feedback      []string             `json:"feedback,omitempty"`
	IsBlocked     bool                 `json:"isBlocked"`
	CreatedAt     time.Time            `json:"createdAt"`
}

func volunteerSummary(v *domain.Volunteer) VolunteerSummary {
	return VolunteerSummary{
		ID:            v.ID,
		Name:          v.Name,
		Username:      v.Username,
		Email:         v.Email,
		Phone:         v.Phone,
		Age:           v.Age,
		Address:       v.Address,
		Role:          v.Role,
		Description:   v.Description,
		Skills:        v.Skills,
		Availability:  v.Availability,
		ProfilePhoto:  v.ProfilePhoto,
		AverageRating: v.AverageRating,
		Ratings:       v.Ratings,
		Feedback:      v.Feedback,
		IsBlocked:     v.IsBlocked,
		CreatedAt:     v.CreatedAt,
	}
}

func volunteerSummaries(volunteers []domain.Volunteer) []VolunteerSummary {
	out := make([]VolunteerSummary, 0, len(volunteers))
	for i := range volunteers {
		out = append(out, volunteerSummary(&volunteers[i]))
	}
	return out
}

// OperatorSummary is the public projection of an elder-home operator.
type OperatorSummary struct {
	ID              string                `json:"id"`
	FullName        string                `json:"fullName"`
	Username        string                `json:"username"`
	Email           string                `json:"email"`
	Address         string                `json:"address,omitempty"`
	ContactNumber   string                `json:"contactNumber,omitempty"`
	HomeName        string                `json:"homeName"`
	HomeAddress     string                `json:"homeAddress,omitempty"`
	Capacity        int                   `json:"capacity"`
	Description     string                `json:"description,omitempty"`
	LicensePath     string                `json:"licensePath,omitempty"`
	HomePhotoPaths  []string              `json:"homePhotoPaths,omitempty"`
	ApprovalStatus  domain.ApprovalStatus `json:"approvalStatus"`
	RejectionReason string                `json:"rejectionReason,omitempty"`
	IsBlocked       bool                  `json:"isBlocked"`
	CreatedAt       time.Time             `json:"createdAt"`
}

func operatorSummary(o *domain.Operator) OperatorSummary {
	return OperatorSummary{
		ID:              o.ID,
		FullName:        o.FullName,
		Username:        o.Username,
		Email:           o.Email,
		Address:         o.Address,
		ContactNumber:   o.ContactNumber,
		HomeName:        o.HomeName,
		HomeAddress:     o.HomeAddress,
		Capacity:        o.Capacity,
		Description:     o.Description,
		LicensePath:     o.LicensePath,
		HomePhotoPaths:  o.HomePhotoPaths,
		ApprovalStatus:  o.ApprovalStatus,
		RejectionReason: o.RejectionReason,
		IsBlocked:       o.IsBlocked,
		CreatedAt:       o.CreatedAt,
	}
}

func operatorSummaries(operators []domain.Operator) []OperatorSummary {
	out := make([]OperatorSummary, 0, len(operators))
	for i := range operators {
		out = append(out, operatorSummary(&operators[i]))
	}
	return out
}

// AuthResponse pairs an account projection with a session token.
type AuthResponse struct {
	Token string `json:"token"`
	User  any    `json:"user"`
}

// PendingApprovalResponse is returned when an operator logs in before
// an administrator has decided on the application.
type PendingApprovalResponse struct {
	Message        string                `json:"message"`
	ApprovalStatus domain.ApprovalStatus `json:"approvalStatus"`
}

// RejectedResponse is returned when a rejected operator logs in.
type RejectedResponse struct {
	Message         string                `json:"message"`
	ApprovalStatus  domain.ApprovalStatus `json:"approvalStatus"`
	RejectionReason string                `json:"rejectionReason"`
}

// DonationRequest records a new donation against an elder home.
type DonationRequest struct {
	OperatorID  string  `json:"operatorId" binding:"required"`
	Amount      float64 `json:"amount" binding:"required"`
	Currency    string  `json:"currency" binding:"required"`
	Description string  `json:"description"`
}

// DonationSummary is the API projection of a donation record.
type DonationSummary struct {
	ID          string    `json:"id"`
	DonorID     string    `json:"donorId"`
	DonorType   string    `json:"donorType"`
	OperatorID  string    `json:"operatorId"`
	Amount      float64   `json:"amount"`
	AmountLKR   float64   `json:"amountLKR"`
	Currency    string    `json:"currency"`
	Description string    `json:"description,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}

func donationSummary(d *domain.Donation) DonationSummary {
	return DonationSummary{
		ID:          d.ID,
		DonorID:     d.DonorID,
		DonorType:   string(d.DonorType),
		OperatorID:  d.OperatorID,
		Amount:      d.Amount,
		AmountLKR:   d.AmountLKR,
		Currency:    d.Currency,
		Description: d.Description,
		Status:      string(d.Status),
		CreatedAt:   d.CreatedAt,
	}
}

func donationSummaries(donations []domain.Donation) []DonationSummary {
	out := make([]DonationSummary, 0, len(donations))
	for i := range donations {
		out = append(out, donationSummary(&donations[i]))
	}
	return out
}

// EventRequest creates a volunteer event for an elder home.
type EventRequest struct {
	Name        string    `json:"name" binding:"required"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	StartTime   time.Time `json:"startTime" binding:"required"`
	EndTime     time.Time `json:"endTime" binding:"required"`
}

// FeedbackRequest records feedback about an elder home.
type FeedbackRequest struct {
	Rating  int    `json:"rating" binding:"required"`
	Comment string `json:"comment"`
}

// VolunteerFeedbackRequest records a rating for a volunteer.
type VolunteerFeedbackRequest struct {
	Rating  int    `json:"rating" binding:"required"`
	Comment string `json:"comment"`
}

// PatientRequest admits an elder into a home.
type PatientRequest struct {
	DonorID          string    `json:"donorId"`
	Name             string    `json:"name" binding:"required"`
	Age              int       `json:"age" binding:"required"`
	NationalID       string    `json:"nationalId"`
	Gender           string    `json:"gender"`
	PhoneNumber      string    `json:"phoneNumber"`
	DateOfBirth      time.Time `json:"dateOfBirth"`
	MedicalCondition string    `json:"medicalCondition"`
	Allergies        string    `json:"allergies"`
	SpecialCare      string    `json:"specialCare"`
}

// HealthResponse describes the service health payload.
type HealthResponse struct {
	Status    string    `json:"status"`
	StartedAt time.Time `json:"started_at"`
}

// ReadinessResponse reports per-dependency readiness checks.
type ReadinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// maxMultipartMemory bounds the in-memory portion of parsed uploads.
const maxMultipartMemory = 32 << 20
