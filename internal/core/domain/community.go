package domain

import "time"

// Event is a volunteer event hosted by an elder home.
type Event struct {
	ID           string
	OperatorID   string
	Name         string
	Description  string
	Location     string
	StartTime    time.Time
	EndTime      time.Time
	VolunteerIDs []string
	CreatedAt    time.Time
}

// Feedback is a rating left for an elder home.
type Feedback struct {
	ID         string
	OperatorID string
	Username   string
	Rating     int
	Comment    string
	CreatedAt  time.Time
}

// Patient is an admission record for an elder home resident.
type Patient struct {
	ID               string
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
	CreatedAt        time.Time
}
