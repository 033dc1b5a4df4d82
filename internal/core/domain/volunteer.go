package domain

import "time"

// Availability captures a volunteer's weekly availability pattern.
type Availability struct {
	Monday         bool   `json:"monday"`
	Tuesday        bool   `json:"tuesday"`
	Wednesday      bool   `json:"wednesday"`
	Thursday       bool   `json:"thursday"`
	Friday         bool   `json:"friday"`
	Saturday       bool   `json:"saturday"`
	Sunday         bool   `json:"sunday"`
	TimePreference string `json:"timePreference"`
}

// Volunteer is a registered volunteer account. Username is stored lower-cased.
type Volunteer struct {
	ID            string
	Name          string
	Username      string
	Email         string
	PasswordHash  string
	Phone         string
	Age           int
	DateOfBirth   time.Time
	Address       string
	Role          string
	Description   string
	Skills        []string
	Availability  Availability
	ProfilePhoto  string
	IsBlocked     bool
	Ratings       []int
	Feedback      []string
	AverageRating float64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// PrincipalID implements the authentication guard contract.
func (v *Volunteer) PrincipalID() string { return v.ID }

// Blocked implements the authentication guard contract.
func (v *Volunteer) Blocked() bool { return v.IsBlocked }
