package eventrepo

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/alumni-network/alumni-api/internal/adapters/postgres"
	"github.com/alumni-network/alumni-api/internal/domain"
	"github.com/alumni-network/alumni-api/internal/ports/out/eventrepo"
)

// Repo is a Postgres implementation of eventrepo.Repository.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

func (r *Repo) Create(ctx context.Context, e domain.Event) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO events (id, title, description, event_date, location, organizer, attendees, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`,
		string(e.ID),
		e.Title,
		e.Description,
		e.Date.UTC(),
		e.Location,
		string(e.Organizer),
		userIDsToStrings(e.Attendees),
		e.CreatedAt.UTC(),
	)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return eventrepo.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.EventID) (domain.Event, error) {
	if r.pool == nil {
		return domain.Event{}, errors.New("nil postgres pool")
	}
	return scanEvent(r.pool.QueryRow(ctx, `
		SELECT id, title, description, event_date, location, organizer, attendees, created_at
		FROM events
		WHERE id = $1
	`, string(id)))
}

func (r *Repo) List(ctx context.Context) ([]domain.Event, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, title, description, event_date, location, organizer, attendees, created_at
		FROM events
		ORDER BY event_date ASC, id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// AddAttendee prepends in a single conditional UPDATE so concurrent RSVPs by the same
// user cannot both succeed.
func (r *Repo) AddAttendee(ctx context.Context, id domain.EventID, user domain.UserID) ([]domain.UserID, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	var attendees []string
	err := r.pool.QueryRow(ctx, `
		UPDATE events
		SET attendees = array_prepend($2::text, attendees)
		WHERE id = $1 AND NOT ($2::text = ANY(attendees))
		RETURNING attendees
	`, string(id), string(user)).Scan(&attendees)
	if err == nil {
		return stringsToUserIDs(attendees), nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM events WHERE id = $1)`, string(id)).Scan(&exists); err != nil {
		return nil, err
	}
	if !exists {
		return nil, eventrepo.ErrNotFound
	}
	return nil, eventrepo.ErrAlreadyAttending
}

func scanEvent(row pgx.Row) (domain.Event, error) {
	var (
		id, organizer   string
		e               domain.Event
		attendees       []string
		date, createdAt time.Time
	)
	if err := row.Scan(&id, &e.Title, &e.Description, &date, &e.Location, &organizer, &attendees, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Event{}, eventrepo.ErrNotFound
		}
		return domain.Event{}, err
	}
	e.ID = domain.EventID(id)
	e.Organizer = domain.UserID(organizer)
	e.Attendees = stringsToUserIDs(attendees)
	e.Date = date.UTC()
	e.CreatedAt = createdAt.UTC()
	return e, nil
}

func userIDsToStrings(ids []domain.UserID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, string(id))
	}
	return out
}

func stringsToUserIDs(ss []string) []domain.UserID {
	out := make([]domain.UserID, 0, len(ss))
	for _, s := range ss {
		out = append(out, domain.UserID(s))
	}
	return out
}
