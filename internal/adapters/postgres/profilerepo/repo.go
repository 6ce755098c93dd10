package profilerepo

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alumni-network/alumni-api/internal/domain"
	"github.com/alumni-network/alumni-api/internal/ports/out/profilerepo"
)

// Repo is a Postgres implementation of profilerepo.Repository.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const profileColumns = `
	id, user_ref, name, email, bio, major, graduation_year, company, job_title, location,
	skills, profile_picture, linkedin, twitter, website, created_at, updated_at
`

func (r *Repo) GetByUser(ctx context.Context, user domain.UserID) (domain.Profile, error) {
	if r.pool == nil {
		return domain.Profile{}, errors.New("nil postgres pool")
	}
	return scanProfile(r.pool.QueryRow(ctx, `SELECT `+profileColumns+` FROM profiles WHERE user_ref = $1`, string(user)))
}

func (r *Repo) GetByID(ctx context.Context, id domain.ProfileID) (domain.Profile, error) {
	if r.pool == nil {
		return domain.Profile{}, errors.New("nil postgres pool")
	}
	return scanProfile(r.pool.QueryRow(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = $1`, string(id)))
}

// Upsert relies on the unique user_ref constraint: the conflicting row keeps its id and
// created_at, every other column is replaced.
func (r *Repo) Upsert(ctx context.Context, p domain.Profile) (domain.Profile, error) {
	if r.pool == nil {
		return domain.Profile{}, errors.New("nil postgres pool")
	}
	skills := p.Skills
	if skills == nil {
		skills = []string{}
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO profiles (
			id, user_ref, name, email, bio, major, graduation_year, company, job_title, location,
			skills, profile_picture, linkedin, twitter, website, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		ON CONFLICT ON CONSTRAINT profiles_user_unique DO UPDATE SET
			name = EXCLUDED.name,
			email = EXCLUDED.email,
			bio = EXCLUDED.bio,
			major = EXCLUDED.major,
			graduation_year = EXCLUDED.graduation_year,
			company = EXCLUDED.company,
			job_title = EXCLUDED.job_title,
			location = EXCLUDED.location,
			skills = EXCLUDED.skills,
			profile_picture = EXCLUDED.profile_picture,
			linkedin = EXCLUDED.linkedin,
			twitter = EXCLUDED.twitter,
			website = EXCLUDED.website,
			updated_at = EXCLUDED.updated_at
		RETURNING `+profileColumns,
		string(p.ID),
		string(p.User),
		p.Name,
		p.Email,
		p.Bio,
		p.Major,
		p.GraduationYear,
		p.Company,
		p.JobTitle,
		p.Location,
		skills,
		p.ProfilePicture,
		p.Social.LinkedIn,
		p.Social.Twitter,
		p.Social.Website,
		p.CreatedAt.UTC(),
		p.UpdatedAt.UTC(),
	)
	return scanProfile(row)
}

func (r *Repo) List(ctx context.Context) ([]domain.Profile, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	rows, err := r.pool.Query(ctx, `SELECT `+profileColumns+` FROM profiles ORDER BY id COLLATE "C" ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Profile, 0)
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanProfile(row pgx.Row) (domain.Profile, error) {
	var (
		id, user             string
		p                    domain.Profile
		createdAt, updatedAt time.Time
	)
	if err := row.Scan(
		&id,
		&user,
		&p.Name,
		&p.Email,
		&p.Bio,
		&p.Major,
		&p.GraduationYear,
		&p.Company,
		&p.JobTitle,
		&p.Location,
		&p.Skills,
		&p.ProfilePicture,
		&p.Social.LinkedIn,
		&p.Social.Twitter,
		&p.Social.Website,
		&createdAt,
		&updatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Profile{}, profilerepo.ErrNotFound
		}
		return domain.Profile{}, err
	}
	p.ID = domain.ProfileID(id)
	p.User = domain.UserID(user)
	p.CreatedAt = createdAt.UTC()
	p.UpdatedAt = updatedAt.UTC()
	return p, nil
}
