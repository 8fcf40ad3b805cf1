package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"tatami/internal/participant/models"
	id "tatami/pkg/domain"
	"tatami/pkg/platform/sentinel"
)

// Postgres persists participants in PostgreSQL. Emails are stored normalized
// and guarded by a unique index; birth dates are DATE columns compared on
// their date-only text form.
type Postgres struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed participant store.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// Schema is the participants table DDL. Applied by deploy tooling and by the
// integration test harness.
const Schema = `
CREATE TABLE IF NOT EXISTS participants (
	id         UUID PRIMARY KEY,
	first_name TEXT NOT NULL,
	last_name  TEXT NOT NULL,
	birth_date DATE NOT NULL,
	email      TEXT NOT NULL,
	club       TEXT NOT NULL DEFAULT '',
	weight     DOUBLE PRECISION NOT NULL DEFAULT 0,
	grade      TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE UNIQUE INDEX IF NOT EXISTS participants_email_key ON participants (email);
CREATE INDEX IF NOT EXISTS participants_birth_date_idx ON participants (birth_date);
`

const participantColumns = `id, first_name, last_name, birth_date::text, email, club, weight, grade, created_at`

func (s *Postgres) Create(ctx context.Context, p *models.Participant) error {
	query := `
		INSERT INTO participants (id, first_name, last_name, birth_date, email, club, weight, grade, created_at)
		VALUES ($1, $2, $3, $4::date, $5, $6, $7, $8, $9)
	`
	_, err := s.db.ExecContext(ctx, query,
		uuid.UUID(p.ID), p.FirstName, p.LastName, p.BirthDate, p.Email, p.Club, p.Weight, p.Grade, p.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("create participant: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, pid id.ParticipantID) (*models.Participant, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+participantColumns+` FROM participants WHERE id = $1`,
		uuid.UUID(pid),
	)
	p, err := scanParticipant(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find participant by id: %w", err)
	}
	return p, nil
}

func (s *Postgres) FindByEmail(ctx context.Context, normalizedEmail string) (*models.Participant, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+participantColumns+` FROM participants WHERE email = $1`,
		normalizedEmail,
	)
	p, err := scanParticipant(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find participant by email: %w", err)
	}
	return p, nil
}

func (s *Postgres) ListByBirthDate(ctx context.Context, birthDate string) ([]*models.Participant, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+participantColumns+` FROM participants WHERE birth_date = $1::date`,
		birthDate,
	)
	if err != nil {
		return nil, fmt.Errorf("list participants by birth date: %w", err)
	}
	defer rows.Close()
	return collectParticipants(rows)
}

func (s *Postgres) CountByEmail(ctx context.Context, normalizedEmail string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM participants WHERE email = $1`,
		normalizedEmail,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count participants by email: %w", err)
	}
	return count, nil
}

func (s *Postgres) List(ctx context.Context) ([]*models.Participant, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+participantColumns+` FROM participants ORDER BY last_name, first_name`,
	)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	defer rows.Close()
	return collectParticipants(rows)
}

func (s *Postgres) Delete(ctx context.Context, pid id.ParticipantID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM participants WHERE id = $1`, uuid.UUID(pid))
	if err != nil {
		return fmt.Errorf("delete participant: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete participant: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanParticipant(row rowScanner) (*models.Participant, error) {
	var p models.Participant
	var pid uuid.UUID
	if err := row.Scan(&pid, &p.FirstName, &p.LastName, &p.BirthDate, &p.Email, &p.Club, &p.Weight, &p.Grade, &p.CreatedAt); err != nil {
		return nil, err
	}
	p.ID = id.ParticipantID(pid)
	return &p, nil
}

func collectParticipants(rows *sql.Rows) ([]*models.Participant, error) {
	var out []*models.Participant
	for rows.Next() {
		p, err := scanParticipant(rows)
		if err != nil {
			return nil, fmt.Errorf("scan participant: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate participants: %w", err)
	}
	return out, nil
}
