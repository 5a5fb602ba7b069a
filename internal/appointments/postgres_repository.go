package appointments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const foreignKeyViolation = "23503"

type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository stores appointments in the relational database.
type PostgresRepository struct {
	db querier
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("appointments: pgx pool required")
	}
	return &PostgresRepository{db: pool}
}

func newPostgresRepositoryWithQuerier(db querier) *PostgresRepository {
	if db == nil {
		panic("appointments: querier required")
	}
	return &PostgresRepository{db: db}
}

// Create inserts a new scheduled appointment.
func (r *PostgresRepository) Create(ctx context.Context, req *CreateAppointmentRequest) (*Appointment, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	id := uuid.New()
	query := `
		INSERT INTO appointments (id, client_id, type, status, start_time, duration_minutes, treatment_notes)
		VALUES ($1, $2, $3, 'scheduled', $4, $5, $6)
		RETURNING updated_at
	`
	var updatedAt time.Time
	if err := r.db.QueryRow(ctx, query,
		id,
		req.ClientID,
		string(req.Type),
		req.StartTime.UTC(),
		req.DurationMinutes,
		req.TreatmentNotes,
	).Scan(&updatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
			return nil, ErrUnknownClient
		}
		return nil, fmt.Errorf("appointments: insert failed: %w", err)
	}

	return &Appointment{
		ID:              id.String(),
		ClientID:        req.ClientID,
		Type:            req.Type,
		Status:          StatusScheduled,
		StartTime:       req.StartTime.UTC(),
		DurationMinutes: req.DurationMinutes,
		TreatmentNotes:  req.TreatmentNotes,
		UpdatedAt:       updatedAt,
	}, nil
}

// GetByID fetches a single appointment with its client name.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Appointment, error) {
	query := `
		SELECT a.id, a.client_id, c.name, a.type, a.status, a.start_time,
		       a.duration_minutes, COALESCE(a.treatment_notes, ''),
		       COALESCE(a.calendar_event_id, ''), a.updated_at
		FROM appointments a
		JOIN clients c ON c.id = a.client_id
		WHERE a.id = $1
	`
	appt, err := scanAppointment(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAppointmentNotFound
		}
		return nil, fmt.Errorf("appointments: select failed: %w", err)
	}
	return appt, nil
}

// ListRange returns the agenda for [from, to], ascending by start time.
func (r *PostgresRepository) ListRange(ctx context.Context, from, to time.Time) ([]*Appointment, error) {
	query := `
		SELECT a.id, a.client_id, c.name, a.type, a.status, a.start_time,
		       a.duration_minutes, COALESCE(a.treatment_notes, ''),
		       COALESCE(a.calendar_event_id, ''), a.updated_at
		FROM appointments a
		JOIN clients c ON c.id = a.client_id
		WHERE a.start_time >= $1 AND a.start_time <= $2
		ORDER BY a.start_time ASC
	`
	rows, err := r.db.Query(ctx, query, from.UTC(), to.UTC())
	if err != nil {
		return nil, fmt.Errorf("appointments: list failed: %w", err)
	}
	defer rows.Close()

	var list []*Appointment
	for rows.Next() {
		appt, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("appointments: scan failed: %w", err)
		}
		list = append(list, appt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("appointments: list rows: %w", err)
	}
	return list, nil
}

// UpdateStatus moves a scheduled appointment to a terminal status. The WHERE
// clause enforces the one-directional status machine; a zero-row update is
// disambiguated into not-found vs. invalid-transition.
func (r *PostgresRepository) UpdateStatus(ctx context.Context, id string, next Status) (*Appointment, error) {
	if !StatusScheduled.CanTransitionTo(next) {
		return nil, ErrInvalidTransition
	}

	query := `
		UPDATE appointments a
		SET status = $2, updated_at = now()
		FROM clients c
		WHERE a.id = $1 AND a.status = 'scheduled' AND c.id = a.client_id
		RETURNING a.id, a.client_id, c.name, a.type, a.status, a.start_time,
		          a.duration_minutes, COALESCE(a.treatment_notes, ''),
		          COALESCE(a.calendar_event_id, ''), a.updated_at
	`
	appt, err := scanAppointment(r.db.QueryRow(ctx, query, id, string(next)))
	if err == nil {
		return appt, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("appointments: update status: %w", err)
	}

	var current string
	if err := r.db.QueryRow(ctx, `SELECT status FROM appointments WHERE id = $1`, id).Scan(&current); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAppointmentNotFound
		}
		return nil, fmt.Errorf("appointments: check status: %w", err)
	}
	return nil, ErrInvalidTransition
}

// SetCalendarEventID updates the external calendar linkage.
func (r *PostgresRepository) SetCalendarEventID(ctx context.Context, id, eventID string) error {
	query := `
		UPDATE appointments
		SET calendar_event_id = NULLIF($2, ''), updated_at = now()
		WHERE id = $1
	`
	ct, err := r.db.Exec(ctx, query, id, eventID)
	if err != nil {
		return fmt.Errorf("appointments: set calendar event: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrAppointmentNotFound
	}
	return nil
}

// HasConflict checks the candidate interval against scheduled and done
// appointments using the strict-overlap condition.
func (r *PostgresRepository) HasConflict(ctx context.Context, start time.Time, durationMinutes int) (bool, error) {
	end := start.Add(time.Duration(durationMinutes) * time.Minute)
	query := `
		SELECT 1 FROM appointments
		WHERE status IN ('scheduled', 'done')
		AND start_time < $2
		AND start_time + make_interval(mins => duration_minutes) > $1
		LIMIT 1
	`
	var exists int
	if err := r.db.QueryRow(ctx, query, start.UTC(), end.UTC()).Scan(&exists); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("appointments: conflict check: %w", err)
	}
	return true, nil
}

// CountCompleted counts done appointments in the treatment family.
func (r *PostgresRepository) CountCompleted(ctx context.Context, family Type) (int, error) {
	query := `
		SELECT COUNT(*) FROM appointments
		WHERE status = 'done' AND type IN ($1, 'both')
	`
	var count int
	if err := r.db.QueryRow(ctx, query, string(family)).Scan(&count); err != nil {
		return 0, fmt.Errorf("appointments: count completed: %w", err)
	}
	return count, nil
}

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var appt Appointment
	var typ, status string
	if err := row.Scan(
		&appt.ID,
		&appt.ClientID,
		&appt.ClientName,
		&typ,
		&status,
		&appt.StartTime,
		&appt.DurationMinutes,
		&appt.TreatmentNotes,
		&appt.CalendarEventID,
		&appt.UpdatedAt,
	); err != nil {
		return nil, err
	}
	appt.Type = Type(typ)
	appt.Status = Status(status)
	return &appt, nil
}
