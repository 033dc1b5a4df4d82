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

// AdminRepository implements port.AdminRepository using PostgreSQL.
type AdminRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewAdminRepository wires a PostgreSQL-backed admin repository.
func NewAdminRepository(exec pgExecutor) *AdminRepository {
	return &AdminRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new administrator row.
func (r *AdminRepository) Create(ctx context.Context, admin domain.Admin) error {
	stmt, args, err := r.builder.Insert("safeheaven.admins").
		Columns("id", "username", "password_hash", "created_at", "updated_at").
		Values(admin.ID, admin.Username, admin.PasswordHash, admin.CreatedAt, admin.UpdatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert admin sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert admin: %w", mapWriteError(err))
	}

	return nil
}

// GetByUsername retrieves an administrator including the password hash.
func (r *AdminRepository) GetByUsername(ctx context.Context, username string) (*domain.Admin, error) {
	return r.get(ctx, squirrel.Eq{"username": username})
}

// GetByID retrieves an administrator by identifier.
func (r *AdminRepository) GetByID(ctx context.Context, id string) (*domain.Admin, error) {
	return r.get(ctx, squirrel.Eq{"id": id})
}

func (r *AdminRepository) get(ctx context.Context, pred squirrel.Eq) (*domain.Admin, error) {
	stmt, args, err := r.builder.
		Select("id", "username", "password_hash", "created_at", "updated_at").
		From("safeheaven.admins").
		Where(pred).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select admin sql: %w", err)
	}

	var admin domain.Admin
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(
		&admin.ID,
		&admin.Username,
		&admin.PasswordHash,
		&admin.CreatedAt,
		&admin.UpdatedAt,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan admin: %w", err)
	}

	return &admin, nil
}

// Count returns the number of administrator accounts.
func (r *AdminRepository) Count(ctx context.Context) (int, error) {
	stmt, args, err := r.builder.Select("COUNT(*)").
		From("safeheaven.admins").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count admins sql: %w", err)
	}

	var count int64
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("scan admins count: %w", err)
	}

	return int(count), nil
}

var _ port.AdminRepository = (*AdminRepository)(nil)
