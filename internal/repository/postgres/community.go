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

// EventRepository implements port.EventRepository using PostgreSQL.
// Volunteer sign-ups live in a join table keyed by (event_id, volunteer_id).
type EventRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewEventRepository wires a PostgreSQL-backed event repository.
func NewEventRepository(exec pgExecutor) *EventRepository {
	return &EventRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new event row.
func (r *EventRepository) Create(ctx context.Context, event domain.Event) error {
	stmt, args, err := r.builder.Insert("safeheaven.events").
		Columns("id", "operator_id", "name", "description", "location", "start_time", "end_time", "created_at").
		Values(event.ID, event.OperatorID, event.Name, event.Description, event.Location, event.StartTime, event.EndTime, event.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert event sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert event: %w", mapWriteError(err))
	}

	return nil
}

// GetByID retrieves an event and its volunteer sign-ups.
func (r *EventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	stmt, args, err := r.builder.
		Select("id", "operator_id", "name", "description", "location", "start_time", "end_time", "created_at").
		From("safeheaven.events").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select event sql: %w", err)
	}

	var event domain.Event
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(
		&event.ID,
		&event.OperatorID,
		&event.Name,
		&event.Description,
		&event.Location,
		&event.StartTime,
		&event.EndTime,
		&event.CreatedAt,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan event: %w", err)
	}

	volunteerIDs, err := r.volunteerIDs(ctx, event.ID)
	if err != nil {
		return nil, err
	}
	event.VolunteerIDs = volunteerIDs

	return &event, nil
}

// List returns all events ordered by start time.
func (r *EventRepository) List(ctx context.Context) ([]domain.Event, error) {
	return r.list(ctx, nil)
}

// ListByOperator returns events hosted by one elder home.
func (r *EventRepository) ListByOperator(ctx context.Context, operatorID string) ([]domain.Event, error) {
	return r.list(ctx, squirrel.Eq{"operator_id": operatorID})
}

func (r *EventRepository) list(ctx context.Context, pred squirrel.Eq) ([]domain.Event, error) {
	query := r.builder.
		Select("id", "operator_id", "name", "description", "location", "start_time", "end_time", "created_at").
		From("safeheaven.events").
		OrderBy("start_time ASC")

	if pred != nil {
		query = query.Where(pred)
	}

	stmt, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list events sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	events := make([]domain.Event, 0)
	for rows.Next() {
		var event domain.Event
		if err := rows.Scan(
			&event.ID,
			&event.OperatorID,
			&event.Name,
			&event.Description,
			&event.Location,
			&event.StartTime,
			&event.EndTime,
			&event.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}

	for i := range events {
		volunteerIDs, err := r.volunteerIDs(ctx, events[i].ID)
		if err != nil {
			return nil, err
		}
		events[i].VolunteerIDs = volunteerIDs
	}

	return events, nil
}

func (r *EventRepository) volunteerIDs(ctx context.Context, eventID string) ([]string, error) {
	stmt, args, err := r.builder.
		Select("volunteer_id").
		From("safeheaven.event_volunteers").
		Where(squirrel.Eq{"event_id": eventID}).
		OrderBy("signed_up_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select event volunteers sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query event volunteers: %w", err)
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan event volunteer: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate event volunteers: %w", err)
	}

	return ids, nil
}

// AddVolunteer records a volunteer sign-up. Re-joining is a no-op.
func (r *EventRepository) AddVolunteer(ctx context.Context, eventID, volunteerID string) error {
	stmt, args, err := r.builder.Insert("safeheaven.event_volunteers").
		Columns("event_id", "volunteer_id", "signed_up_at").
		Values(eventID, volunteerID, squirrel.Expr("NOW()")).
		Suffix("ON CONFLICT DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("build add event volunteer sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("add event volunteer: %w", err)
	}

	return nil
}

// RemoveVolunteer withdraws a volunteer from an event.
func (r *EventRepository) RemoveVolunteer(ctx context.Context, eventID, volunteerID string) error {
	stmt, args, err := r.builder.Delete("safeheaven.event_volunteers").
		Where(squirrel.Eq{"event_id": eventID, "volunteer_id": volunteerID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build remove event volunteer sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("remove event volunteer: %w", err)
	}

	return nil
}

// Delete removes an event and its sign-ups.
func (r *EventRepository) Delete(ctx context.Context, id string) error {
	stmt, args, err := r.builder.Delete("safeheaven.events").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete event sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

var _ port.EventRepository = (*EventRepository)(nil)

// FeedbackRepository implements port.FeedbackRepository using PostgreSQL.
type FeedbackRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewFeedbackRepository wires a PostgreSQL-backed feedback repository.
func NewFeedbackRepository(exec pgExecutor) *FeedbackRepository {
	return &FeedbackRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a feedback entry for an elder home.
func (r *FeedbackRepository) Create(ctx context.Context, feedback domain.Feedback) error {
	stmt, args, err := r.builder.Insert("safeheaven.feedback").
		Columns("id", "operator_id", "username", "rating", "comment", "created_at").
		Values(feedback.ID, feedback.OperatorID, feedback.Username, feedback.Rating, feedback.Comment, feedback.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert feedback sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert feedback: %w", err)
	}

	return nil
}

// ListByOperator returns the feedback left for one elder home, newest first.
func (r *FeedbackRepository) ListByOperator(ctx context.Context, operatorID string) ([]domain.Feedback, error) {
	stmt, args, err := r.builder.
		Select("id", "operator_id", "username", "rating", "comment", "created_at").
		From("safeheaven.feedback").
		Where(squirrel.Eq{"operator_id": operatorID}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list feedback sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query feedback: %w", err)
	}
	defer rows.Close()

	entries := make([]domain.Feedback, 0)
	for rows.Next() {
		var entry domain.Feedback
		if err := rows.Scan(
			&entry.ID,
			&entry.OperatorID,
			&entry.Username,
			&entry.Rating,
			&entry.Comment,
			&entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan feedback: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate feedback: %w", err)
	}

	return entries, nil
}

var _ port.FeedbackRepository = (*FeedbackRepository)(nil)

// PatientRepository implements port.PatientRepository using PostgreSQL.
type PatientRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewPatientRepository wires a PostgreSQL-backed patient repository.
func NewPatientRepository(exec pgExecutor) *PatientRepository {
	return &PatientRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var patientColumns = []string{
	"id",
	"operator_id",
	"donor_id",
	"name",
	"age",
	"national_id",
	"gender",
	"phone_number",
	"date_of_birth",
	"medical_condition",
	"allergies",
	"special_care",
	"created_at",
}

// Create inserts an admission record.
func (r *PatientRepository) Create(ctx context.Context, patient domain.Patient) error {
	stmt, args, err := r.builder.Insert("safeheaven.patients").
		Columns(patientColumns...).
		Values(
			patient.ID,
			patient.OperatorID,
			patient.DonorID,
			patient.Name,
			patient.Age,
			patient.NationalID,
			patient.Gender,
			patient.PhoneNumber,
			patient.DateOfBirth,
			patient.MedicalCondition,
			patient.Allergies,
			patient.SpecialCare,
			patient.CreatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert patient sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert patient: %w", mapWriteError(err))
	}

	return nil
}

func scanPatient(row pgx.Row) (*domain.Patient, error) {
	var patient domain.Patient

	if err := row.Scan(
		&patient.ID,
		&patient.OperatorID,
		&patient.DonorID,
		&patient.Name,
		&patient.Age,
		&patient.NationalID,
		&patient.Gender,
		&patient.PhoneNumber,
		&patient.DateOfBirth,
		&patient.MedicalCondition,
		&patient.Allergies,
		&patient.SpecialCare,
		&patient.CreatedAt,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan patient: %w", err)
	}

	return &patient, nil
}

// GetByID retrieves an admission record by identifier.
func (r *PatientRepository) GetByID(ctx context.Context, id string) (*domain.Patient, error) {
	stmt, args, err := r.builder.
		Select(patientColumns...).
		From("safeheaven.patients").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select patient sql: %w", err)
	}

	return scanPatient(r.exec.QueryRow(ctx, stmt, args...))
}

// ListByOperator returns the admission records held by one elder home.
func (r *PatientRepository) ListByOperator(ctx context.Context, operatorID string) ([]domain.Patient, error) {
	stmt, args, err := r.builder.
		Select(patientColumns...).
		From("safeheaven.patients").
		Where(squirrel.Eq{"operator_id": operatorID}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list patients sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query patients: %w", err)
	}
	defer rows.Close()

	patients := make([]domain.Patient, 0)
	for rows.Next() {
		patient, err := scanPatient(rows)
		if err != nil {
			return nil, err
		}
		patients = append(patients, *patient)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate patients: %w", err)
	}

	return patients, nil
}

// CountByOperator returns the number of residents in one elder home.
func (r *PatientRepository) CountByOperator(ctx context.Context, operatorID string) (int, error) {
	stmt, args, err := r.builder.Select("COUNT(*)").
		From("safeheaven.patients").
		Where(squirrel.Eq{"operator_id": operatorID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count patients sql: %w", err)
	}

	var count int64
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("scan patients count: %w", err)
	}

	return int(count), nil
}

var _ port.PatientRepository = (*PatientRepository)(nil)
