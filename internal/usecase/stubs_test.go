package usecase

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"testing"
	"time"

	"github.com/abhishek070702/Safe-Heaven/internal/core/domain"
	"github.com/abhishek070702/Safe-Heaven/internal/infra/security"
	"github.com/abhishek070702/Safe-Heaven/internal/repository"
)

func newTestTokens(t *testing.T) *security.TokenService {
	t.Helper()

	tokens, err := security.NewTokenService("unit-test-secret", time.Hour)
	if err != nil {
		t.Fatalf("new token service: %v", err)
	}
	return tokens
}

func fileHeader(name string, size int64) *multipart.FileHeader {
	return &multipart.FileHeader{Filename: name, Size: size}
}

// stubFileStore records saves and removals without touching disk.
type stubFileStore struct {
	saveErr   error
	saveCalls int
	saved     []string
	removed   []string
}

func (s *stubFileStore) Save(_ context.Context, field string, file *multipart.FileHeader) (string, error) {
	s.saveCalls++
	if s.saveErr != nil {
		return "", s.saveErr
	}
	path := fmt.Sprintf("%s/%s-%d", field, file.Filename, s.saveCalls)
	s.saved = append(s.saved, path)
	return path, nil
}

func (s *stubFileStore) Remove(_ context.Context, relPath string) error {
	s.removed = append(s.removed, relPath)
	return nil
}

// stubPublisher counts published lifecycle events.
type stubPublisher struct {
	registered []domain.AccountRegisteredEvent
	moderated  []domain.OperatorModeratedEvent
	blocked    []domain.AccountBlockedEvent
	deleted    []domain.AccountDeletedEvent
}

func (p *stubPublisher) PublishAccountRegistered(_ context.Context, event domain.AccountRegisteredEvent) error {
	p.registered = append(p.registered, event)
	return nil
}

func (p *stubPublisher) PublishOperatorModerated(_ context.Context, event domain.OperatorModeratedEvent) error {
	p.moderated = append(p.moderated, event)
	return nil
}

func (p *stubPublisher) PublishAccountBlocked(_ context.Context, event domain.AccountBlockedEvent) error {
	p.blocked = append(p.blocked, event)
	return nil
}

func (p *stubPublisher) PublishAccountDeleted(_ context.Context, event domain.AccountDeletedEvent) error {
	p.deleted = append(p.deleted, event)
	return nil
}

// mockDonorRepository is a hand-rolled stub for port.DonorRepository.
type mockDonorRepository struct {
	donors      map[string]*domain.Donor
	createErr   error
	createCalls int
	created     domain.Donor
	updated     *domain.Donor
}

func newMockDonorRepository() *mockDonorRepository {
	return &mockDonorRepository{donors: make(map[string]*domain.Donor)}
}

func (m *mockDonorRepository) Create(_ context.Context, donor domain.Donor) error {
	m.createCalls++
	if m.createErr != nil {
		return m.createErr
	}
	m.created = donor
	copied := donor
	m.donors[donor.ID] = &copied
	return nil
}

func (m *mockDonorRepository) GetByID(_ context.Context, id string) (*domain.Donor, error) {
	if donor, ok := m.donors[id]; ok {
		copied := *donor
		copied.PasswordHash = ""
		return &copied, nil
	}
	return nil, repository.ErrNotFound
}

func (m *mockDonorRepository) GetByUsername(_ context.Context, username string) (*domain.Donor, error) {
	for _, donor := range m.donors {
		if donor.Username == username {
			copied := *donor
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockDonorRepository) ExistsByUsername(_ context.Context, username string) (bool, error) {
	for _, donor := range m.donors {
		if donor.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockDonorRepository) ExistsByEmail(_ context.Context, email string) (bool, error) {
	for _, donor := range m.donors {
		if donor.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockDonorRepository) Update(_ context.Context, donor domain.Donor) error {
	copied := donor
	m.updated = &copied
	m.donors[donor.ID] = &copied
	return nil
}

func (m *mockDonorRepository) Delete(_ context.Context, id string) error {
	if _, ok := m.donors[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.donors, id)
	return nil
}

func (m *mockDonorRepository) List(_ context.Context) ([]domain.Donor, error) {
	out := make([]domain.Donor, 0, len(m.donors))
	for _, donor := range m.donors {
		out = append(out, *donor)
	}
	return out, nil
}

func (m *mockDonorRepository) Count(_ context.Context) (int, error) {
	return len(m.donors), nil
}

// mockVolunteerRepository is a hand-rolled stub for port.VolunteerRepository.
type mockVolunteerRepository struct {
	volunteers  map[string]*domain.Volunteer
	createCalls int
	created     domain.Volunteer
	updated     *domain.Volunteer
}

func newMockVolunteerRepository() *mockVolunteerRepository {
	return &mockVolunteerRepository{volunteers: make(map[string]*domain.Volunteer)}
}

func (m *mockVolunteerRepository) Create(_ context.Context, volunteer domain.Volunteer) error {
	m.createCalls++
	m.created = volunteer
	copied := volunteer
	m.volunteers[volunteer.ID] = &copied
	return nil
}

func (m *mockVolunteerRepository) GetByID(_ context.Context, id string) (*domain.Volunteer, error) {
	if volunteer, ok := m.volunteers[id]; ok {
		copied := *volunteer
		copied.PasswordHash = ""
		return &copied, nil
	}
	return nil, repository.ErrNotFound
}

func (m *mockVolunteerRepository) GetByUsername(_ context.Context, username string) (*domain.Volunteer, error) {
	for _, volunteer := range m.volunteers {
		if volunteer.Username == username {
			copied := *volunteer
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockVolunteerRepository) ExistsByUsername(_ context.Context, username string) (bool, error) {
	for _, volunteer := range m.volunteers {
		if volunteer.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockVolunteerRepository) ExistsByEmail(_ context.Context, email string) (bool, error) {
	for _, volunteer := range m.volunteers {
		if volunteer.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockVolunteerRepository) Update(_ context.Context, volunteer domain.Volunteer) error {
	copied := volunteer
	m.updated = &copied
	m.volunteers[volunteer.ID] = &copied
	return nil
}

func (m *mockVolunteerRepository) Delete(_ context.Context, id string) error {
	if _, ok := m.volunteers[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.volunteers, id)
	return nil
}

func (m *mockVolunteerRepository) List(_ context.Context) ([]domain.Volunteer, error) {
	out := make([]domain.Volunteer, 0, len(m.volunteers))
	for _, volunteer := range m.volunteers {
		out = append(out, *volunteer)
	}
	return out, nil
}

func (m *mockVolunteerRepository) Count(_ context.Context) (int, error) {
	return len(m.volunteers), nil
}

// mockOperatorRepository is a hand-rolled stub for port.OperatorRepository.
type mockOperatorRepository struct {
	operators   map[string]*domain.Operator
	createErr   error
	createCalls int
	created     domain.Operator
	updated     *domain.Operator
}

func newMockOperatorRepository() *mockOperatorRepository {
	return &mockOperatorRepository{operators: make(map[string]*domain.Operator)}
}

func (m *mockOperatorRepository) Create(_ context.Context, operator domain.Operator) error {
	m.createCalls++
	if m.createErr != nil {
		return m.createErr
	}
	m.created = operator
	copied := operator
	m.operators[operator.ID] = &copied
	return nil
}

func (m *mockOperatorRepository) GetByID(_ context.Context, id string) (*domain.Operator, error) {
	if operator, ok := m.operators[id]; ok {
		copied := *operator
		copied.PasswordHash = ""
		return &copied, nil
	}
	return nil, repository.ErrNotFound
}

func (m *mockOperatorRepository) GetByUsername(_ context.Context, username string) (*domain.Operator, error) {
	for _, operator := range m.operators {
		if operator.Username == username {
			copied := *operator
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockOperatorRepository) ExistsByUsername(_ context.Context, username string) (bool, error) {
	for _, operator := range m.operators {
		if operator.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockOperatorRepository) ExistsByEmail(_ context.Context, email string) (bool, error) {
	for _, operator := range m.operators {
		if operator.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockOperatorRepository) ExistsByHomeName(_ context.Context, homeName string) (bool, error) {
	for _, operator := range m.operators {
		if operator.HomeName == homeName {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockOperatorRepository) Update(_ context.Context, operator domain.Operator) error {
	copied := operator
	m.updated = &copied
	m.operators[operator.ID] = &copied
	return nil
}

func (m *mockOperatorRepository) Delete(_ context.Context, id string) error {
	if _, ok := m.operators[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.operators, id)
	return nil
}

func (m *mockOperatorRepository) List(_ context.Context) ([]domain.Operator, error) {
	out := make([]domain.Operator, 0, len(m.operators))
	for _, operator := range m.operators {
		out = append(out, *operator)
	}
	return out, nil
}

func (m *mockOperatorRepository) ListByApprovalStatus(_ context.Context, status domain.ApprovalStatus) ([]domain.Operator, error) {
	out := make([]domain.Operator, 0)
	for _, operator := range m.operators {
		if operator.ApprovalStatus == status {
			out = append(out, *operator)
		}
	}
	return out, nil
}

func (m *mockOperatorRepository) CountByApprovalStatus(_ context.Context, status domain.ApprovalStatus) (int, error) {
	count := 0
	for _, operator := range m.operators {
		if operator.ApprovalStatus == status {
			count++
		}
	}
	return count, nil
}

// mockAdminRepository is a hand-rolled stub for port.AdminRepository.
type mockAdminRepository struct {
	admins      map[string]*domain.Admin
	createCalls int
}

func newMockAdminRepository() *mockAdminRepository {
	return &mockAdminRepository{admins: make(map[string]*domain.Admin)}
}

func (m *mockAdminRepository) Create(_ context.Context, admin domain.Admin) error {
	m.createCalls++
	copied := admin
	m.admins[admin.ID] = &copied
	return nil
}

func (m *mockAdminRepository) GetByUsername(_ context.Context, username string) (*domain.Admin, error) {
	for _, admin := range m.admins {
		if admin.Username == username {
			copied := *admin
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockAdminRepository) GetByID(_ context.Context, id string) (*domain.Admin, error) {
	if admin, ok := m.admins[id]; ok {
		copied := *admin
		return &copied, nil
	}
	return nil, repository.ErrNotFound
}

func (m *mockAdminRepository) Count(_ context.Context) (int, error) {
	return len(m.admins), nil
}

// mockDonationRepository is a hand-rolled stub for port.DonationRepository.
type mockDonationRepository struct {
	donations   []domain.Donation
	createCalls int
	totalLKR    float64
}

func (m *mockDonationRepository) Create(_ context.Context, donation domain.Donation) error {
	m.createCalls++
	m.donations = append(m.donations, donation)
	return nil
}

func (m *mockDonationRepository) GetByID(_ context.Context, id string) (*domain.Donation, error) {
	for i := range m.donations {
		if m.donations[i].ID == id {
			copied := m.donations[i]
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockDonationRepository) ListByDonor(_ context.Context, donorID string, donorType domain.DonorType) ([]domain.Donation, error) {
	out := make([]domain.Donation, 0)
	for _, donation := range m.donations {
		if donation.DonorID == donorID && donation.DonorType == donorType {
			out = append(out, donation)
		}
	}
	return out, nil
}

func (m *mockDonationRepository) ListByOperator(_ context.Context, operatorID string) ([]domain.Donation, error) {
	out := make([]domain.Donation, 0)
	for _, donation := range m.donations {
		if donation.OperatorID == operatorID {
			out = append(out, donation)
		}
	}
	return out, nil
}

func (m *mockDonationRepository) List(_ context.Context) ([]domain.Donation, error) {
	return append([]domain.Donation(nil), m.donations...), nil
}

func (m *mockDonationRepository) UpdateDescription(_ context.Context, id, description string) error {
	for i := range m.donations {
		if m.donations[i].ID == id {
			m.donations[i].Description = description
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *mockDonationRepository) TotalAmountLKR(_ context.Context) (float64, error) {
	return m.totalLKR, nil
}

func (m *mockDonationRepository) TotalAmountLKRByOperator(_ context.Context, operatorID string) (float64, error) {
	var total float64
	for _, donation := range m.donations {
		if donation.OperatorID == operatorID {
			total += donation.AmountLKR
		}
	}
	return total, nil
}

// mockEventRepository is a hand-rolled stub for port.EventRepository.
type mockEventRepository struct {
	events      map[string]*domain.Event
	deleteCalls int
}

func newMockEventRepository() *mockEventRepository {
	return &mockEventRepository{events: make(map[string]*domain.Event)}
}

func (m *mockEventRepository) Create(_ context.Context, event domain.Event) error {
	copied := event
	m.events[event.ID] = &copied
	return nil
}

func (m *mockEventRepository) GetByID(_ context.Context, id string) (*domain.Event, error) {
	if event, ok := m.events[id]; ok {
		copied := *event
		return &copied, nil
	}
	return nil, repository.ErrNotFound
}

func (m *mockEventRepository) List(_ context.Context) ([]domain.Event, error) {
	out := make([]domain.Event, 0, len(m.events))
	for _, event := range m.events {
		out = append(out, *event)
	}
	return out, nil
}

func (m *mockEventRepository) ListByOperator(_ context.Context, operatorID string) ([]domain.Event, error) {
	out := make([]domain.Event, 0)
	for _, event := range m.events {
		if event.OperatorID == operatorID {
			out = append(out, *event)
		}
	}
	return out, nil
}

func (m *mockEventRepository) AddVolunteer(_ context.Context, eventID, volunteerID string) error {
	event, ok := m.events[eventID]
	if !ok {
		return repository.ErrNotFound
	}
	event.VolunteerIDs = append(event.VolunteerIDs, volunteerID)
	return nil
}

func (m *mockEventRepository) RemoveVolunteer(_ context.Context, eventID, volunteerID string) error {
	event, ok := m.events[eventID]
	if !ok {
		return repository.ErrNotFound
	}
	kept := event.VolunteerIDs[:0]
	for _, id := range event.VolunteerIDs {
		if id != volunteerID {
			kept = append(kept, id)
		}
	}
	event.VolunteerIDs = kept
	return nil
}

func (m *mockEventRepository) Delete(_ context.Context, id string) error {
	m.deleteCalls++
	if _, ok := m.events[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.events, id)
	return nil
}

// mockFeedbackRepository is a hand-rolled stub for port.FeedbackRepository.
type mockFeedbackRepository struct {
	entries []domain.Feedback
}

func (m *mockFeedbackRepository) Create(_ context.Context, feedback domain.Feedback) error {
	m.entries = append(m.entries, feedback)
	return nil
}

func (m *mockFeedbackRepository) ListByOperator(_ context.Context, operatorID string) ([]domain.Feedback, error) {
	out := make([]domain.Feedback, 0)
	for _, entry := range m.entries {
		if entry.OperatorID == operatorID {
			out = append(out, entry)
		}
	}
	return out, nil
}

// mockPatientRepository is a hand-rolled stub for port.PatientRepository.
type mockPatientRepository struct {
	patients []domain.Patient
}

func (m *mockPatientRepository) Create(_ context.Context, patient domain.Patient) error {
	m.patients = append(m.patients, patient)
	return nil
}

func (m *mockPatientRepository) GetByID(_ context.Context, id string) (*domain.Patient, error) {
	for i := range m.patients {
		if m.patients[i].ID == id {
			copied := m.patients[i]
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockPatientRepository) ListByOperator(_ context.Context, operatorID string) ([]domain.Patient, error) {
	out := make([]domain.Patient, 0)
	for _, patient := range m.patients {
		if patient.OperatorID == operatorID {
			out = append(out, patient)
		}
	}
	return out, nil
}

func (m *mockPatientRepository) CountByOperator(_ context.Context, operatorID string) (int, error) {
	count := 0
	for _, patient := range m.patients {
		if patient.OperatorID == operatorID {
			count++
		}
	}
	return count, nil
}

func mustHash(t *testing.T, password string) string {
	t.Helper()

	hash, err := security.HashPassword(password)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return hash
}

func asValidation(t *testing.T, err error) *ValidationError {
	t.Helper()

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	return vErr
}

func asConflict(t *testing.T, err error) *ConflictError {
	t.Helper()

	var cErr *ConflictError
	if !errors.As(err, &cErr) {
		t.Fatalf("expected conflict error, got %v", err)
	}
	return cErr
}
