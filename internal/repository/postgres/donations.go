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

// DonationRepository implements port.DonationRepository using PostgreSQL.
type DonationRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewDonationRepository wires a PostgreSQL-backed donation repository.
func NewDonationRepository(exec pgExecutor) *DonationRepository {
	return &DonationRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new donation row.
func (r *DonationRepository) Create(ctx context.Context, donation domain.Donation) error {
	stmt, args, err := r.builder.Insert("safeheaven.donations").
		Columns(
			"id",
			"donor_id",
			"donor_type",
			"operator_id",
			"amount",
			"amount_lkr",
			"currency",
			"description",
			"status",
			"created_at",
			"updated_at",
		).
		Values(
			donation.ID,
			donation.DonorID,
			donation.DonorType,
			donation.OperatorID,
			donation.Amount,
			donation.AmountLKR,
			donation.Currency,
			donation.Description,
			donation.Status,
			donation.CreatedAt,
			donation.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert donation sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert donation: %w", mapWriteError(err))
	}

	return nil
}

var donationColumns = []string{
	"id",
	"donor_id",
	"donor_type",
	"operator_id",
	"amount",
	"amount_lkr",
	"currency",
	"description",
	"status",
	"created_at",
	"updated_at",
}

func scanDonation(row pgx.Row) (*domain.Donation, error) {
	var donation domain.Donation

	if err := row.Scan(
		&donation.ID,
		&donation.DonorID,
		&donation.DonorType,
		&donation.OperatorID,
		&donation.Amount,
		&donation.AmountLKR,
		&donation.Currency,
		&donation.Description,
		&donation.Status,
		&donation.CreatedAt,
		&donation.UpdatedAt,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan donation: %w", err)
	}

	return &donation, nil
}

// GetByID retrieves a donation by identifier.
func (r *DonationRepository) GetByID(ctx context.Context, id string) (*domain.Donation, error) {
	stmt, args, err := r.builder.
		Select(donationColumns...).
		From("safeheaven.donations").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select donation sql: %w", err)
	}

	return scanDonation(r.exec.QueryRow(ctx, stmt, args...))
}

// ListByDonor returns donations made by one account, newest first.
func (r *DonationRepository) ListByDonor(ctx context.Context, donorID string, donorType domain.DonorType) ([]domain.Donation, error) {
	return r.list(ctx, squirrel.Eq{"donor_id": donorID, "donor_type": donorType})
}

// ListByOperator returns donations received by one elder home, newest first.
func (r *DonationRepository) ListByOperator(ctx context.Context, operatorID string) ([]domain.Donation, error) {
	return r.list(ctx, squirrel.Eq{"operator_id": operatorID})
}

// List returns all donations, newest first.
func (r *DonationRepository) List(ctx context.Context) ([]domain.Donation, error) {
	return r.list(ctx, nil)
}

func (r *DonationRepository) list(ctx context.Context, pred squirrel.Eq) ([]domain.Donation, error) {
	query := r.builder.
		Select(donationColumns...).
		From("safeheaven.donations").
		OrderBy("created_at DESC")

	if pred != nil {
		query = query.Where(pred)
	}

	stmt, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list donations sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query donations: %w", err)
	}
	defer rows.Close()

	donations := make([]domain.Donation, 0)
	for rows.Next() {
		donation, err := scanDonation(rows)
		if err != nil {
			return nil, err
		}
		donations = append(donations, *donation)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate donations: %w", err)
	}

	return donations, nil
}

// UpdateDescription changes the free-text note on a donation.
func (r *DonationRepository) UpdateDescription(ctx context.Context, id, description string) error {
	stmt, args, err := r.builder.Update("safeheaven.donations").
		Set("description", description).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update donation sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update donation: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// TotalAmountLKR sums all donations in the platform currency.
func (r *DonationRepository) TotalAmountLKR(ctx context.Context) (float64, error) {
	return r.total(ctx, nil)
}

// TotalAmountLKRByOperator sums the donations received by one elder home.
func (r *DonationRepository) TotalAmountLKRByOperator(ctx context.Context, operatorID string) (float64, error) {
	return r.total(ctx, squirrel.Eq{"operator_id": operatorID})
}

func (r *DonationRepository) total(ctx context.Context, pred squirrel.Eq) (float64, error) {
	query := r.builder.Select("SUM(amount_lkr)").
		From("safeheaven.donations")

	if pred != nil {
		query = query.Where(pred)
	}

	stmt, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build total donations sql: %w", err)
	}

	var total sql.NullFloat64
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("scan donations total: %w", err)
	}

	return total.Float64, nil
}

var _ port.DonationRepository = (*DonationRepository)(nil)
