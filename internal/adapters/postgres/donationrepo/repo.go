package donationrepo

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/alumni-network/alumni-api/internal/adapters/postgres"
	"github.com/alumni-network/alumni-api/internal/domain"
	"github.com/alumni-network/alumni-api/internal/ports/out/donationrepo"
)

// Repo is a Postgres implementation of donationrepo.Repository.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

func (r *Repo) Create(ctx context.Context, d domain.Donation) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO donations (id, donor, amount, campaign, donated_at)
		VALUES ($1, $2, $3, $4, $5)
	`, string(d.ID), string(d.Donor), d.Amount, d.Campaign, d.Date.UTC())
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return donationrepo.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *Repo) List(ctx context.Context) ([]domain.Donation, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, donor, amount, campaign, donated_at
		FROM donations
		ORDER BY donated_at DESC, id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Donation, 0)
	for rows.Next() {
		var (
			id, donor string
			d         domain.Donation
			date      time.Time
		)
		if err := rows.Scan(&id, &donor, &d.Amount, &d.Campaign, &date); err != nil {
			return nil, err
		}
		d.ID = domain.DonationID(id)
		d.Donor = domain.UserID(donor)
		d.Date = date.UTC()
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
