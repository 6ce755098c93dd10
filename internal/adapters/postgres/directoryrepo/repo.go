package directoryrepo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/alumni-network/alumni-api/internal/adapters/postgres"
	"github.com/alumni-network/alumni-api/internal/domain"
	"github.com/alumni-network/alumni-api/internal/domain/directory"
)

// Repo is the Postgres directory read model: profiles LEFT JOIN users, projected so absent
// values are empty strings (or NULL for the year) before any predicate is applied.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const recordSelect = `
	SELECT
		p.id,
		COALESCE(NULLIF(u.name, ''), p.name, '') AS name,
		COALESCE(NULLIF(u.email, ''), p.email, '') AS email,
		p.graduation_year,
		COALESCE(p.major, '') AS department,
		COALESCE(p.job_title, '') AS job_title,
		COALESCE(p.company, '') AS company,
		COALESCE(p.location, '') AS location,
		COALESCE(p.bio, '') AS bio,
		COALESCE(p.linkedin, '') AS linkedin,
		p.skills,
		COALESCE(p.profile_picture, '') AS profile_picture
	FROM profiles p
	LEFT JOIN users u ON u.id = p.user_ref
`

// whereBuilder accumulates AND-ed clauses with positional arguments.
type whereBuilder struct {
	clauses []string
	args    []any
}

func (b *whereBuilder) arg(v any) string {
	b.args = append(b.args, v)
	return fmt.Sprintf("$%d", len(b.args))
}

func (b *whereBuilder) add(clause string) {
	b.clauses = append(b.clauses, clause)
}

func (b *whereBuilder) sql() string {
	if len(b.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(b.clauses, " AND ")
}

// buildFind translates q into SQL over the projected record columns.
func buildFind(q directory.Query) (string, []any) {
	var b whereBuilder
	if q.GraduationYear != nil {
		b.add("d.graduation_year = " + b.arg(*q.GraduationYear))
	}
	if q.Department != "" {
		b.add("d.department = " + b.arg(q.Department))
	}
	if q.Location != "" {
		b.add(`d.location ILIKE ` + b.arg(postgres.ContainsPattern(q.Location)) + ` ESCAPE '\'`)
	}
	if q.Company != "" {
		b.add(`d.company ILIKE ` + b.arg(postgres.ContainsPattern(q.Company)) + ` ESCAPE '\'`)
	}
	if q.CompanyType != "" {
		if kws, ok := directory.Keywords(q.CompanyType); ok {
			ors := make([]string, 0, len(kws))
			for _, kw := range kws {
				ors = append(ors, `d.company ILIKE `+b.arg(postgres.ContainsPattern(kw))+` ESCAPE '\'`)
			}
			b.add("(" + strings.Join(ors, " OR ") + ")")
		}
	}
	if q.Text != "" {
		pat := b.arg(postgres.ContainsPattern(q.Text))
		ors := make([]string, 0, 7)
		for _, col := range []string{"name", "company", "location", "job_title", "department", "bio"} {
			ors = append(ors, "d."+col+" ILIKE "+pat+` ESCAPE '\'`)
		}
		ors = append(ors, b.arg(q.Text)+" = ANY(d.skills)")
		b.add("(" + strings.Join(ors, " OR ") + ")")
	}
	return "SELECT * FROM (" + recordSelect + ") d" + b.sql(), b.args
}

func (r *Repo) Find(ctx context.Context, q directory.Query) ([]directory.Record, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	sql, args := buildFind(q)
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("directory find: %w", err)
	}
	defer rows.Close()

	out := make([]directory.Record, 0)
	for rows.Next() {
		var (
			id  string
			rec directory.Record
		)
		if err := rows.Scan(
			&id,
			&rec.Name,
			&rec.Email,
			&rec.GraduationYear,
			&rec.Department,
			&rec.JobTitle,
			&rec.Company,
			&rec.Location,
			&rec.Bio,
			&rec.LinkedIn,
			&rec.Skills,
			&rec.ProfilePicture,
		); err != nil {
			return nil, err
		}
		rec.ID = domain.ProfileID(id)
		if rec.Skills == nil {
			rec.Skills = []string{}
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) Stats(ctx context.Context) (directory.Stats, error) {
	if r.pool == nil {
		return directory.Stats{}, errors.New("nil postgres pool")
	}
	var s directory.Stats
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM profiles`).Scan(&s.Total); err != nil {
		return directory.Stats{}, fmt.Errorf("directory stats total: %w", err)
	}

	rows, err := r.pool.Query(ctx, `SELECT graduation_year, count(*) FROM profiles GROUP BY graduation_year`)
	if err != nil {
		return directory.Stats{}, fmt.Errorf("directory stats years: %w", err)
	}
	years, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (directory.YearCount, error) {
		var yc directory.YearCount
		err := row.Scan(&yc.Year, &yc.Count)
		return yc, err
	})
	if err != nil {
		return directory.Stats{}, fmt.Errorf("directory stats years: %w", err)
	}
	s.ByGraduationYear = directory.OrderYearCounts(years)

	if s.ByMajor, err = r.valueCounts(ctx, "major", 0); err != nil {
		return directory.Stats{}, err
	}
	if s.TopLocations, err = r.valueCounts(ctx, "location", directory.TopN); err != nil {
		return directory.Stats{}, err
	}
	if s.TopCompanies, err = r.valueCounts(ctx, "company", directory.TopN); err != nil {
		return directory.Stats{}, err
	}
	return s, nil
}

// valueCounts groups profiles by column. column is always one of a fixed set of names.
func (r *Repo) valueCounts(ctx context.Context, column string, limit int) ([]directory.ValueCount, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+column+`, count(*) FROM profiles GROUP BY `+column)
	if err != nil {
		return nil, fmt.Errorf("directory stats %s: %w", column, err)
	}
	vcs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (directory.ValueCount, error) {
		var vc directory.ValueCount
		err := row.Scan(&vc.Value, &vc.Count)
		return vc, err
	})
	if err != nil {
		return nil, fmt.Errorf("directory stats %s: %w", column, err)
	}
	return directory.OrderValueCounts(vcs, limit), nil
}
