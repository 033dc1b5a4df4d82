package postgres

import (
	"context"
	"database/sql"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/abhishek070702/Safe-Heaven/internal/core/domain"
	"github.com/abhishek070702/Safe-Heaven/internal/core/port"
	"github.com/abhishek070702/Safe-Heaven/internal/repository"
)

// OperatorRepository implements port.OperatorRepository using PostgreSQL.
type OperatorRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewOperatorRepository wires a PostgreSQL-backed operator repository.
func NewOperatorRepository(exec pgExecutor) *OperatorRepository {
	return &OperatorRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new operator row in its initial approval state.
func (r *OperatorRepository) Create(ctx context.Context, operator domain.Operator) error {
	var rejectionReason any
	if operator.RejectionReason != "" {
		rejectionReason = operator.RejectionReason
	}

	query := r.builder.Insert("safeheaven.operators").
		Columns(
			"id",
			"full_name",
			"username",
			"email",
			"address",
			"contact_number",
			"password_hash",
			"home_name",
			"home_address",
			"account_number",
			"capacity",
			"description",
			"license_path",
			"home_photo_paths",
			"is_blocked",
			"approval_status",
			"rejection_reason",
			"created_at",
			"updated_at",
		).
		Values(
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
			rejectionReason,
			operator.CreatedAt,
			operator.UpdatedAt,
		)

	stmt, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("build insert operator sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert operator: %w", mapWriteError(err))
	}

	return nil
}

func operatorColumns(withPassword bool) []string {
	cols := []string{
		"id",
		"full_name",
		"username",
		"email",
		"address",
		"contact_number",
	}
	if withPassword {
		cols = append(cols, "password_hash")
	}
	return append(cols,
		"home_name",
		"home_address",
		"account_number",
		"capacity",
		"description",
		"license_path",
		"home_photo_paths",
		"is_blocked",
		"approval_status",
		"rejection_reason",
		"created_at",
		"updated_at",
	)
}

func scanOperator(row pgx.Row, withPassword bool) (*domain.Operator, error) {
	var (
		operator        domain.Operator
		rejectionReason sql.NullString
	)

	dest := []any{
		&operator.ID,
		&operator.FullName,
		&operator.Username,
		&operator.Email,
		&operator.Address,
		&operator.ContactNumber,
	}
	if withPassword {
		dest = append(dest, &operator.PasswordHash)
	}
	dest = append(dest,
		&operator.HomeName,
		&operator.HomeAddress,
		&operator.AccountNumber,
		&operator.Capacity,
		&operator.Description,
		&operator.LicensePath,
		&operator.HomePhotoPaths,
		&operator.IsBlocked,
		&operator.ApprovalStatus,
		&rejectionReason,
		&operator.CreatedAt,
		&operator.UpdatedAt,
	)

	if err := row.Scan(dest...); err != nil {
		if err == pgx.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan operator: %w", err)
	}

	if rejectionReason.Valid {
		operator.RejectionReason = rejectionReason.String
	}

	return &operator, nil
}

// GetByID retrieves an operator by identifier. The password hash is not loaded.
func (r *OperatorRepository) GetByID(ctx context.Context, id string) (*domain.Operator, error) {
	stmt, args, err := r.builder.
		Select(operatorColumns(false)...).
		From("safeheaven.operators").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select operator sql: %w", err)
	}

	return scanOperator(r.exec.QueryRow(ctx, stmt, args...), false)
}

// GetByUsername retrieves an operator including the password hash for credential checks.
func (r *OperatorRepository) GetByUsername(ctx context.Context, username string) (*domain.Operator, error) {
	stmt, args, err := r.builder.
		Select(operatorColumns(true)...).
		From("safeheaven.operators").
		Where(squirrel.Eq{"username": username}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select operator by username sql: %w", err)
	}

	return scanOperator(r.exec.QueryRow(ctx, stmt, args...), true)
}

// ExistsByUsername reports whether an operator with the username exists.
func (r *OperatorRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, squirrel.Eq{"username": username})
}

// ExistsByEmail reports whether an operator with the email exists.
func (r *OperatorRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, squirrel.Eq{"email": email})
}

// ExistsByHomeName reports whether an elder home with the name exists.
func (r *OperatorRepository) ExistsByHomeName(ctx context.Context, homeName string) (bool, error) {
	return r.exists(ctx, squirrel.Eq{"home_name": homeName})
}

func (r *OperatorRepository) exists(ctx context.Context, pred squirrel.Eq) (bool, error) {
	stmt, args, err := r.builder.
		Select("1").
		From("safeheaven.operators").
		Where(pred).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build operator exists sql: %w", err)
	}

	var one int
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&one); err != nil {
		if err == pgx.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("scan operator exists: %w", err)
	}

	return true, nil
}

// Update writes an operator's mutable fields, including approval state.
// A blank rejection reason is stored as NULL so approval clears any
// earlier rejection.
func (r *OperatorRepository) Update(ctx context.Context, operator domain.Operator) error {
	var rejectionReason any
	if operator.RejectionReason != "" {
		rejectionReason = operator.RejectionReason
	}

	stmt, args, err := r.builder.Update("safeheaven.operators").
		Set("full_name", operator.FullName).
		Set("username", operator.Username).
		Set("email", operator.Email).
		Set("address", operator.Address).
		Set("contact_number", operator.ContactNumber).
		Set("home_name", operator.HomeName).
		Set("home_address", operator.HomeAddress).
		Set("account_number", operator.AccountNumber).
		Set("capacity", operator.Capacity).
		Set("description", operator.Description).
		Set("license_path", operator.LicensePath).
		Set("home_photo_paths", operator.HomePhotoPaths).
		Set("is_blocked", operator.IsBlocked).
		Set("approval_status", operator.ApprovalStatus).
		Set("rejection_reason", rejectionReason).
		Set("updated_at", operator.UpdatedAt).
		Where(squirrel.Eq{"id": operator.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update operator sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update operator: %w", mapWriteError(err))
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// Delete removes an operator row.
func (r *OperatorRepository) Delete(ctx context.Context, id string) error {
	stmt, args, err := r.builder.Delete("safeheaven.operators").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete operator sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("delete operator: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// List returns all operators ordered by registration time.
func (r *OperatorRepository) List(ctx context.Context) ([]domain.Operator, error) {
	return r.list(ctx, nil)
}

// ListByApprovalStatus returns operators in the given moderation state.
func (r *OperatorRepository) ListByApprovalStatus(ctx context.Context, status domain.ApprovalStatus) ([]domain.Operator, error) {
	return r.list(ctx, squirrel.Eq{"approval_status": status})
}

func (r *OperatorRepository) list(ctx context.Context, pred squirrel.Eq) ([]domain.Operator, error) {
	query := r.builder.
		Select(operatorColumns(false)...).
		From("safeheaven.operators").
		OrderBy("created_at DESC")

	if pred != nil {
		query = query.Where(pred)
	}

	stmt, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list operators sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query operators: %w", err)
	}
	defer rows.Close()

	operators := make([]domain.Operator, 0)
	for rows.Next() {
		operator, err := scanOperator(rows, false)
		if err != nil {
			return nil, err
		}
		operators = append(operators, *operator)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate operators: %w", err)
	}

	return operators, nil
}

// CountByApprovalStatus returns the number of operators in the given state.
func (r *OperatorRepository) CountByApprovalStatus(ctx context.Context, status domain.ApprovalStatus) (int, error) {
	stmt, args, err := r.builder.Select("COUNT(*)").
		From("safeheaven.operators").
		Where(squirrel.Eq{"approval_status": status}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count operators sql: %w", err)
	}

	var count int64
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("scan operators count: %w", err)
	}

	return int(count), nil
}

var _ port.OperatorRepository = (*OperatorRepository)(nil)
