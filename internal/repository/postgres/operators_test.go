package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v2"

	"github.com/abhishek070702/Safe-Heaven/internal/core/domain"
	"github.com/abhishek070702/Safe-Heaven/internal/repository"
)

func TestOperatorRepository_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewOperatorRepository(mock)

	createdAt := time.Now().UTC()
	operator := domain.Operator{
		ID:             "operator-1",
		FullName:       "Nimal Perera",
		Username:       "sunrise_home",
		Email:          "ops@sunrise.example",
		Address:        "12 Lake Road",
		ContactNumber:  "0771234567",
		PasswordHash:   "hash",
		HomeName:       "Sunrise",
		HomeAddress:    "12 Lake Road",
		AccountNumber:  "1234567890123456",
		Capacity:       40,
		Description:    "Care home by the lake",
		LicensePath:    "licenses/licenseDocument-abc.pdf",
		HomePhotoPaths: []string{"homes/homePhotos-1.jpg"},
		ApprovalStatus: domain.ApprovalPending,
		CreatedAt:      createdAt,
		UpdatedAt:      createdAt,
	}

	mock.ExpectExec(`INSERT INTO safeheaven\.operators`).
		WithArgs(
			operator.ID,
			operator.FullName,
			operator.Username,
			operator.Email,
			operator.Address,
			operator.ContactNumber,
			operator.PasswordHash,
			operator.HomeName,
			operator.HomeAddress,
			operator.AccountNumber,
			operator.Capacity,
			operator.Description,
			operator.LicensePath,
			operator.HomePhotoPaths,
			operator.IsBlocked,
			operator.ApprovalStatus,
			nil,
			operator.CreatedAt,
			operator.UpdatedAt,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	if err := repo.Create(context.Background(), operator); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestOperatorRepository_CreateDuplicate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewOperatorRepository(mock)

	mock.ExpectExec(`INSERT INTO safeheaven\.operators`).
		WithArgs(
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
		).
		WillReturnError(&pgconn.PgError{Code: uniqueViolation, ConstraintName: "operators_home_name_key"})

	err = repo.Create(context.Background(), domain.Operator{ID: "operator-1"})
	if !errors.Is(err, repository.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestOperatorRepository_GetByUsername(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewOperatorRepository(mock)

	createdAt := time.Now().UTC()
	rows := pgxmock.NewRows([]string{
		"id", "full_name", "username", "email", "address", "contact_number", "password_hash",
		"home_name", "home_address", "account_number", "capacity", "description",
		"license_path", "home_photo_paths", "is_blocked", "approval_status", "rejection_reason",
		"created_at", "updated_at",
	}).AddRow(
		"operator-1", "Nimal Perera", "sunrise_home", "ops@sunrise.example", "12 Lake Road", "0771234567", "hash",
		"Sunrise", "12 Lake Road", "1234567890123456", 40, "Care home by the lake",
		"licenses/licenseDocument-abc.pdf", []string{"homes/homePhotos-1.jpg"}, false, domain.ApprovalRejected, "Application rejected by admin",
		createdAt, createdAt,
	)

	mock.ExpectQuery(`SELECT .+ FROM safeheaven\.operators WHERE username = \$1`).
		WithArgs("sunrise_home").
		WillReturnRows(rows)

	operator, err := repo.GetByUsername(context.Background(), "sunrise_home")
	if err != nil {
		t.Fatalf("GetByUsername returned error: %v", err)
	}

	if operator.PasswordHash != "hash" {
		t.Fatalf("expected password hash to load, got %q", operator.PasswordHash)
	}
	if operator.ApprovalStatus != domain.ApprovalRejected {
		t.Fatalf("unexpected approval status %q", operator.ApprovalStatus)
	}
	if operator.RejectionReason != "Application rejected by admin" {
		t.Fatalf("unexpected rejection reason %q", operator.RejectionReason)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestOperatorRepository_GetByIDNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewOperatorRepository(mock)

	mock.ExpectQuery(`SELECT .+ FROM safeheaven\.operators WHERE id = \$1`).
		WithArgs("missing").
		WillReturnRows(pgxmock.NewRows(operatorColumns(false)))

	_, err = repo.GetByID(context.Background(), "missing")
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestOperatorRepository_CountByApprovalStatus(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewOperatorRepository(mock)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM safeheaven\.operators WHERE approval_status = \$1`).
		WithArgs(domain.ApprovalPending).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(3)))

	count, err := repo.CountByApprovalStatus(context.Background(), domain.ApprovalPending)
	if err != nil {
		t.Fatalf("CountByApprovalStatus returned error: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3, got %d", count)
	}
}
