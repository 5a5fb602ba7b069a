package clients

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository stores clients in the relational database.
type PostgresRepository struct {
	db querier
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("clients: pgx pool required")
	}
	return &PostgresRepository{db: pool}
}

func newPostgresRepositoryWithQuerier(db querier) *PostgresRepository {
	if db == nil {
		panic("clients: querier required")
	}
	return &PostgresRepository{db: db}
}

// Create inserts a new row.
func (r *PostgresRepository) Create(ctx context.Context, req *CreateClientRequest) (*Client, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	id := uuid.New()
	name := strings.TrimSpace(req.Name)
	phone := strings.TrimSpace(req.Phone)
	query := `
		INSERT INTO clients (id, name, phone, permanent_notes)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`
	var createdAt time.Time
	if err := r.db.QueryRow(ctx, query,
		id,
		name,
		phone,
		req.PermanentNotes,
	).Scan(&createdAt); err != nil {
		return nil, fmt.Errorf("clients: insert failed: %w", err)
	}

	return &Client{
		ID:             id.String(),
		Name:           name,
		Phone:          phone,
		PermanentNotes: req.PermanentNotes,
		CreatedAt:      createdAt,
	}, nil
}

// GetByID fetches a single client.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Client, error) {
	query := `
		SELECT id, name, COALESCE(phone, ''), COALESCE(permanent_notes, ''), created_at
		FROM clients
		WHERE id = $1
	`
	row := r.db.QueryRow(ctx, query, id)
	var client Client
	if err := row.Scan(
		&client.ID,
		&client.Name,
		&client.Phone,
		&client.PermanentNotes,
		&client.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("clients: select failed: %w", err)
	}
	return &client, nil
}

// Search matches name or phone by substring, ordered by name.
func (r *PostgresRepository) Search(ctx context.Context, term string) ([]*Client, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, nil
	}

	query := `
		SELECT id, name, COALESCE(phone, ''), COALESCE(permanent_notes, ''), created_at
		FROM clients
		WHERE name ILIKE $1 OR phone LIKE $1
		ORDER BY name
		LIMIT $2
	`
	rows, err := r.db.Query(ctx, query, "%"+term+"%", searchLimit)
	if err != nil {
		return nil, fmt.Errorf("clients: search failed: %w", err)
	}
	defer rows.Close()

	var matches []*Client
	for rows.Next() {
		var client Client
		if err := rows.Scan(
			&client.ID,
			&client.Name,
			&client.Phone,
			&client.PermanentNotes,
			&client.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("clients: scan failed: %w", err)
		}
		matches = append(matches, &client)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("clients: search rows: %w", err)
	}
	return matches, nil
}
