package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vedantpareek96/il-management/internal/domain/session"
)

// ══════════════════════════════════════════════════════════════════════════════
// SESSION REPOSITORY
// ══════════════════════════════════════════════════════════════════════════════

// SessionRepository is the PostgreSQL implementation of session.Repository.
type SessionRepository struct {
	conn *Connection
}

// NewSessionRepository creates a new session repository.
func NewSessionRepository(conn *Connection) *SessionRepository {
	return &SessionRepository{conn: conn}
}

var _ session.Repository = (*SessionRepository)(nil)

// ListParticipationsWithMetrics loads participation rows joined with their
// session and metrics. Sessions without submitted metrics are excluded.
// Rows come back ordered by session date descending.
func (r *SessionRepository) ListParticipationsWithMetrics(ctx context.Context, f session.ParticipationFilter) ([]session.ParticipationWithMetrics, error) {
	var sb strings.Builder
	sb.WriteString(`
		SELECT pt.person_id, s.id, s.session_date, s.location, p.region, m.guests, m.registrations
		FROM participations pt
		JOIN sessions s ON s.id = pt.session_id
		JOIN session_metrics m ON m.session_id = s.id
		JOIN people p ON p.id = pt.person_id
		WHERE 1 = 1
	`)

	var args []interface{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.PersonID != nil {
		sb.WriteString(" AND pt.person_id = " + arg(*f.PersonID))
	}
	if f.Region != "" {
		sb.WriteString(" AND p.region = " + arg(f.Region))
	}
	if f.Role != "" {
		sb.WriteString(" AND pt.role = " + arg(f.Role.String()))
	}
	if f.Window.From != nil {
		sb.WriteString(" AND s.session_date >= " + arg(*f.Window.From))
	}
	if f.Window.To != nil {
		sb.WriteString(" AND s.session_date <= " + arg(*f.Window.To))
	}

	sb.WriteString(" ORDER BY s.session_date DESC, s.id")

	rows, err := r.conn.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: list participations: %w", err)
	}
	defer rows.Close()

	var result []session.ParticipationWithMetrics
	for rows.Next() {
		var row session.ParticipationWithMetrics
		if err := rows.Scan(
			&row.PersonID, &row.SessionID, &row.Date, &row.Location,
			&row.Region, &row.Guests, &row.Registrations,
		); err != nil {
			return nil, fmt.Errorf("postgres: scan participation: %w", err)
		}
		row.Date = row.Date.UTC()
		result = append(result, row)
	}

	return result, rows.Err()
}

// LastSessionDate returns the date of the person's most recent session in
// the given participation role, or nil if they never took part in one.
func (r *SessionRepository) LastSessionDate(ctx context.Context, personID uuid.UUID, role session.ParticipationRole) (*time.Time, error) {
	const query = `
		SELECT MAX(s.session_date)
		FROM participations pt
		JOIN sessions s ON s.id = pt.session_id
		WHERE pt.person_id = $1 AND pt.role = $2
	`

	var last *time.Time
	err := r.conn.QueryRow(ctx, query, personID, role.String()).Scan(&last)
	if err != nil {
		return nil, fmt.Errorf("postgres: last session date: %w", err)
	}
	if last == nil {
		return nil, nil
	}

	utc := last.UTC()
	return &utc, nil
}
