package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/abhishek070702/Safe-Heaven/internal/core/domain"
	"github.com/abhishek070702/Safe-Heaven/internal/core/port"
	"github.com/abhishek070702/Safe-Heaven/internal/repository"
)

// VolunteerRepository implements port.VolunteerRepository using PostgreSQL.
// Skills, ratings, and feedback live in array columns; the weekly
// availability pattern is stored as jsonb.
type VolunteerRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewVolunteerRepository wires a PostgreSQL-backed volunteer repository.
func NewVolunteerRepository(exec pgExecutor) *VolunteerRepository {
	return &VolunteerRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new volunteer row.
func (r *VolunteerRepository) Create(ctx context.Context, volunteer domain.Volunteer) error {
	availability, err := json.Marshal(volunteer.Availability)
	if err != nil {
		return fmt.Errorf("marshal availability: %w", err)
	}

	query := r.builder.Insert("safeheaven.volunteers").
		Columns(
			"id",
			"name",
			"username",
			"email",
			"password_hash",
			"phone",
			"age",
			"date_of_birth",
			"address",
			"role",
			"description",
			"skills",
			"availability",
			"profile_photo",
			"is_blocked",
			"ratings",
			"feedback",
			"average_rating",
			"created_at",
			"updated_at",
		).
		Values(
			volunteer.ID,
			volunteer.Name,
			volunteer.Username,
			volunteer.Email,
			volunteer.PasswordHash,
			volunteer.Phone,
			volunteer.Age,
			volunteer.DateOfBirth,
			volunteer.Address,
			volunteer.Role,
			volunteer.Description,
			volunteer.Skills,
			availability,
			volunteer.ProfilePhoto,
			volunteer.IsBlocked,
			volunteer.Ratings,
			volunteer.Feedback,
			volunteer.AverageRating,
			volunteer.CreatedAt,
			volunteer.UpdatedAt,
		)

	stmt, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("build insert volunteer sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert volunteer: %w", mapWriteError(err))
	}

	return nil
}

func volunteerColumns(withPassword bool) []string {
	cols := []string{
		"id",
		"name",
		"username",
		"email",
	}
	if withPassword {
		cols = append(cols, "password_hash")
	}
	return append(cols,
		"phone",
		"age",
		"date_of_birth",
		"address",
		"role",
		"description",
		"skills",
		"availability",
		"profile_photo",
		"is_blocked",
		"ratings",
		"feedback",
		"average_rating",
		"created_at",
		"updated_at",
	)
}

func scanVolunteer(row pgx.Row, withPassword bool) (*domain.Volunteer, error) {
	var (
		volunteer    domain.Volunteer
		availability []byte
	)

	dest := []any{
		&volunteer.ID,
		&volunteer.Name,
		&volunteer.Username,
		&volunteer.Email,
	}
	if withPassword {
		dest = append(dest, &volunteer.PasswordHash)
	}
	dest = append(dest,
		&volunteer.Phone,
		&volunteer.Age,
		&volunteer.DateOfBirth,
		&volunteer.Address,
		&volunteer.Role,
		&volunteer.Description,
		&volunteer.Skills,
		&availability,
		&volunteer.ProfilePhoto,
		&volunteer.IsBlocked,
		&volunteer.Ratings,
		&volunteer.Feedback,
		&volunteer.AverageRating,
		&volunteer.CreatedAt,
		&volunteer.UpdatedAt,
	)

	if err := row.Scan(dest...); err != nil {
		if err == pgx.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan volunteer: %w", err)
	}

	if len(availability) > 0 {
		if err := json.Unmarshal(availability, &volunteer.Availability); err != nil {
			return nil, fmt.Errorf("unmarshal availability: %w", err)
		}
	}

	return &volunteer, nil
}

// GetByID retrieves a volunteer by identifier. The password hash is not loaded.
func (r *VolunteerRepository) GetByID(ctx context.Context, id string) (*domain.Volunteer, error) {
	stmt, args, err := r.builder.
		Select(volunteerColumns(false)...).
		From("safeheaven.volunteers").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select volunteer sql: %w", err)
	}

	return scanVolunteer(r.exec.QueryRow(ctx, stmt, args...), false)
}

// GetByUsername retrieves a volunteer including the password hash for credential checks.
func (r *VolunteerRepository) GetByUsername(ctx context.Context, username string) (*domain.Volunteer, error) {
	stmt, args, err := r.builder.
		Select(volunteerColumns(true)...).
		From("safeheaven.volunteers").
		Where(squirrel.Eq{"username": username}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select volunteer by username sql: %w", err)
	}

	return scanVolunteer(r.exec.QueryRow(ctx, stmt, args...), true)
}

// ExistsByUsername reports whether a volunteer with the username exists.
func (r *VolunteerRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, squirrel.Eq{"username": username})
}

// ExistsByEmail reports whether a volunteer with the email exists.
func (r *VolunteerRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, squirrel.Eq{"email": email})
}

func (r *VolunteerRepository) exists(ctx context.Context, pred squirrel.Eq) (bool, error) {
	stmt, args, err := r.builder.
		Select("1").
		From("safeheaven.volunteers").
		Where(pred).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build volunteer exists sql: %w", err)
	}

	var one int
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&one); err != nil {
		if err == pgx.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("scan volunteer exists: %w", err)
	}

	return true, nil
}

// Update modifies an existing volunteer row. Ratings and feedback are
// written as whole arrays; callers append before calling Update.
func (r *VolunteerRepository) Update(ctx context.Context, volunteer domain.Volunteer) error {
	availability, err := json.Marshal(volunteer.Availability)
	if err != nil {
		return fmt.Errorf("marshal availability: %w", err)
	}

	stmt, args, err := r.builder.Update("safeheaven.volunteers").
		Set("name", volunteer.Name).
		Set("username", volunteer.Username).
		Set("email", volunteer.Email).
		Set("phone", volunteer.Phone).
		Set("age", volunteer.Age).
		Set("date_of_birth", volunteer.DateOfBirth).
		Set("address", volunteer.Address).
		Set("role", volunteer.Role).
		Set("description", volunteer.Description).
		Set("skills", volunteer.Skills).
		Set("availability", availability).
		Set("profile_photo", volunteer.ProfilePhoto).
		Set("is_blocked", volunteer.IsBlocked).
		Set("ratings", volunteer.Ratings).
		Set("feedback", volunteer.Feedback).
		Set("average_rating", volunteer.AverageRating).
		Set("updated_at", volunteer.UpdatedAt).
		Where(squirrel.Eq{"id": volunteer.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update volunteer sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update volunteer: %w", mapWriteError(err))
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// Delete removes a volunteer row.
func (r *VolunteerRepository) Delete(ctx context.Context, id string) error {
	stmt, args, err := r.builder.Delete("safeheaven.volunteers").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete volunteer sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("delete volunteer: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// List returns all volunteers ordered by registration time.
func (r *VolunteerRepository) List(ctx context.Context) ([]domain.Volunteer, error) {
	stmt, args, err := r.builder.
		Select(volunteerColumns(false)...).
		From("safeheaven.volunteers").
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list volunteers sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query volunteers: %w", err)
	}
	defer rows.Close()

	volunteers := make([]domain.Volunteer, 0)
	for rows.Next() {
		volunteer, err := scanVolunteer(rows, false)
		if err != nil {
			return nil, err
		}
		volunteers = append(volunteers, *volunteer)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate volunteers: %w", err)
	}

	return volunteers, nil
}

// Count returns the number of volunteer accounts.
func (r *VolunteerRepository) Count(ctx context.Context) (int, error) {
	stmt, args, err := r.builder.Select("COUNT(*)").
		From("safeheaven.volunteers").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count volunteers sql: %w", err)
	}

	var count int64
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("scan volunteers count: %w", err)
	}

	return int(count), nil
}

var _ port.VolunteerRepository = (*VolunteerRepository)(nil)
