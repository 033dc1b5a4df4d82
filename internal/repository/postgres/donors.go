package postgres

import (
	"context"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/abhishek070702/Safe-Heaven/internal/core/domain"
	"github.com/abhishek070702/Safe-Heaven/internal/core/port"
	"github.com/abhishek070702/Safe-Heaven/internal/repository"
)

// DonorRepository implements port.DonorRepository using PostgreSQL.
type DonorRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewDonorRepository wires a PostgreSQL-backed donor repository.
func NewDonorRepository(exec pgExecutor) *DonorRepository {
	return &DonorRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new donor row.
func (r *DonorRepository) Create(ctx context.Context, donor domain.Donor) error {
	query := r.builder.Insert("safeheaven.donors").
		Columns(
			"id",
			"full_name",
			"username",
			"email",
			"address",
			"contact_number",
			"description",
			"password_hash",
			"profile_photo",
			"is_blocked",
			"created_at",
			"updated_at",
		).
		Values(
			donor.ID,
			donor.FullName,
			donor.Username,
			donor.Email,
			donor.Address,
			donor.ContactNumber,
			donor.Description,
			donor.PasswordHash,
			donor.ProfilePhoto,
			donor.IsBlocked,
			donor.CreatedAt,
			donor.UpdatedAt,
		)

	stmt, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("build insert donor sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert donor: %w", mapWriteError(err))
	}

	return nil
}

func donorColumns(withPassword bool) []string {
	cols := []string{
		"id",
		"full_name",
		"username",
		"email",
		"address",
		"contact_number",
		"description",
	}
	if withPassword {
		cols = append(cols, "password_hash")
	}
	return append(cols,
		"profile_photo",
		"is_blocked",
		"created_at",
		"updated_at",
	)
}

func scanDonor(row pgx.Row, withPassword bool) (*domain.Donor, error) {
	var donor domain.Donor

	dest := []any{
		&donor.ID,
		&donor.FullName,
		&donor.Username,
		&donor.Email,
		&donor.Address,
		&donor.ContactNumber,
		&donor.Description,
	}
	if withPassword {
		dest = append(dest, &donor.PasswordHash)
	}
	dest = append(dest,
		&donor.ProfilePhoto,
		&donor.IsBlocked,
		&donor.CreatedAt,
		&donor.UpdatedAt,
	)

	if err := row.Scan(dest...); err != nil {
		if err == pgx.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan donor: %w", err)
	}

	return &donor, nil
}

// GetByID retrieves a donor by identifier. The password hash is not loaded.
func (r *DonorRepository) GetByID(ctx context.Context, id string) (*domain.Donor, error) {
	stmt, args, err := r.builder.
		Select(donorColumns(false)...).
		From("safeheaven.donors").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select donor sql: %w", err)
	}

	return scanDonor(r.exec.QueryRow(ctx, stmt, args...), false)
}

// GetByUsername retrieves a donor including the password hash for credential checks.
func (r *DonorRepository) GetByUsername(ctx context.Context, username string) (*domain.Donor, error) {
	stmt, args, err := r.builder.
		Select(donorColumns(true)...).
		From("safeheaven.donors").
		Where(squirrel.Eq{"username": username}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select donor by username sql: %w", err)
	}

	return scanDonor(r.exec.QueryRow(ctx, stmt, args...), true)
}

// ExistsByUsername reports whether a donor with the username exists.
func (r *DonorRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, squirrel.Eq{"username": username})
}

// ExistsByEmail reports whether a donor with the email exists.
func (r *DonorRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, squirrel.Eq{"email": email})
}

func (r *DonorRepository) exists(ctx context.Context, pred squirrel.Eq) (bool, error) {
	stmt, args, err := r.builder.
		Select("1").
		From("safeheaven.donors").
		Where(pred).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build donor exists sql: %w", err)
	}

	var one int
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&one); err != nil {
		if err == pgx.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("scan donor exists: %w", err)
	}

	return true, nil
}

// Update modifies an existing donor's profile fields and block flag.
func (r *DonorRepository) Update(ctx context.Context, donor domain.Donor) error {
	stmt, args, err := r.builder.Update("safeheaven.donors").
		Set("full_name", donor.FullName).
		Set("username", donor.Username).
		Set("email", donor.Email).
		Set("address", donor.Address).
		Set("contact_number", donor.ContactNumber).
		Set("description", donor.Description).
		Set("profile_photo", donor.ProfilePhoto).
		Set("is_blocked", donor.IsBlocked).
		Set("updated_at", donor.UpdatedAt).
		Where(squirrel.Eq{"id": donor.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update donor sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update donor: %w", mapWriteError(err))
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// Delete removes a donor row.
func (r *DonorRepository) Delete(ctx context.Context, id string) error {
	stmt, args, err := r.builder.Delete("safeheaven.donors").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete donor sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("delete donor: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// List returns all donors ordered by registration time.
func (r *DonorRepository) List(ctx context.Context) ([]domain.Donor, error) {
	stmt, args, err := r.builder.
		Select(donorColumns(false)...).
		From("safeheaven.donors").
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list donors sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query donors: %w", err)
	}
	defer rows.Close()

	donors := make([]domain.Donor, 0)
	for rows.Next() {
		donor, err := scanDonor(rows, false)
		if err != nil {
			return nil, err
		}
		donors = append(donors, *donor)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate donors: %w", err)
	}

	return donors, nil
}

// Count returns the number of donor accounts.
func (r *DonorRepository) Count(ctx context.Context) (int, error) {
	stmt, args, err := r.builder.Select("COUNT(*)").
		From("safeheaven.donors").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count donors sql: %w", err)
	}

	var count int64
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("scan donors count: %w", err)
	}

	return int(count), nil
}

var _ port.DonorRepository = (*DonorRepository)(nil)
