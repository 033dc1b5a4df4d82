package postgres

import "github.com/jackc/pgx/v5/pgxpool"

// Repositories groups concrete PostgreSQL repository implementations.
type Repositories struct {
	Donors     *DonorRepository
	Volunteers *VolunteerRepository
	Operators  *OperatorRepository
	Admins     *AdminRepository
	Donations  *DonationRepository
	Events     *EventRepository
	Feedback   *FeedbackRepository
	Patients   *PatientRepository
}

// NewRepositories wires all repositories backed by the provided pool.
func NewRepositories(pool *pgxpool.Pool) *Repositories {
	return &Repositories{
		Donors:     NewDonorRepository(pool),
		Volunteers: NewVolunteerRepository(pool),
		Operators:  NewOperatorRepository(pool),
		Admins:     NewAdminRepository(pool),
		Donations:  NewDonationRepository(pool),
		Events:     NewEventRepository(pool),
		Feedback:   NewFeedbackRepository(pool),
		Patients:   NewPatientRepository(pool),
	}
}
