// Package profiles manages the caller's own alumni profile.
package profiles

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/alumni-network/alumni-api/internal/app/apperr"
	"github.com/alumni-network/alumni-api/internal/domain"
	clockport "github.com/alumni-network/alumni-api/internal/ports/out/clock"
	"github.com/alumni-network/alumni-api/internal/ports/out/profilerepo"
	"github.com/alumni-network/alumni-api/internal/ports/out/userrepo"
)

const (
	MaxBioLength      = 500
	MinGraduationYear = 1900
	// MaxYearsAhead bounds graduationYear relative to the current year.
	MaxYearsAhead = 10
)

type Service struct {
	profiles profilerepo.Repository
	users    userrepo.Repository
	clk      clockport.Clock

	newProfileID func() domain.ProfileID
}

func NewService(profiles profilerepo.Repository, users userrepo.Repository, clk clockport.Clock) *Service {
	return &Service{
		profiles: profiles,
		users:    users,
		clk:      clk,
		newProfileID: func() domain.ProfileID {
			return domain.ProfileID(uuid.NewString())
		},
	}
}

func (s *Service) GetMine(ctx context.Context, subject domain.SubjectID) (Mine, error) {
	p, err := s.profiles.GetByUser(ctx, domain.UserIDFromSubject(subject))
	if err != nil {
		if errors.Is(err, profilerepo.ErrNotFound) {
			return Mine{}, apperr.NotFound("There is no profile for this user")
		}
		return Mine{}, err
	}
	return s.resolve(ctx, p)
}

// Upsert creates the caller's profile or applies patch to the existing one.
func (s *Service) Upsert(ctx context.Context, subject domain.SubjectID, patch Patch) (Mine, error) {
	user := domain.UserIDFromSubject(subject)
	now := s.clk.Now()

	p, err := s.profiles.GetByUser(ctx, user)
	switch {
	case err == nil:
	case errors.Is(err, profilerepo.ErrNotFound):
		p = domain.Profile{
			ID:        s.newProfileID(),
			User:      user,
			Skills:    []string{},
			CreatedAt: now,
		}
	default:
		return Mine{}, err
	}

	if err := s.apply(&p, patch); err != nil {
		return Mine{}, err
	}
	p.UpdatedAt = now

	stored, err := s.profiles.Upsert(ctx, p)
	if err != nil {
		return Mine{}, fmt.Errorf("upsert profile: %w", err)
	}
	return s.resolve(ctx, stored)
}

func (s *Service) apply(p *domain.Profile, patch Patch) error {
	setString(&p.Name, patch.Name, domain.NormalizeHumanName)
	setString(&p.Email, patch.Email, domain.NormalizeEmail)
	setString(&p.Major, patch.Major, strings.TrimSpace)
	setString(&p.Company, patch.Company, strings.TrimSpace)
	setString(&p.JobTitle, patch.JobTitle, strings.TrimSpace)
	setString(&p.Location, patch.Location, strings.TrimSpace)
	setString(&p.ProfilePicture, patch.ProfilePicture, strings.TrimSpace)
	setString(&p.Social.LinkedIn, patch.LinkedIn, strings.TrimSpace)
	setString(&p.Social.Twitter, patch.Twitter, strings.TrimSpace)
	setString(&p.Social.Website, patch.Website, strings.TrimSpace)

	if patch.Bio.IsSpecified() && !patch.Bio.IsNull() {
		if n := utf8.RuneCountInString(strings.TrimSpace(patch.Bio.Value())); n > MaxBioLength {
			return apperr.Validation("invalid bio", map[string]any{"bio": fmt.Sprintf("must be at most %d characters", MaxBioLength)})
		}
	}
	setString(&p.Bio, patch.Bio, strings.TrimSpace)

	if patch.GraduationYear.IsSpecified() {
		if patch.GraduationYear.IsNull() {
			p.GraduationYear = nil
		} else {
			y := patch.GraduationYear.Value()
			maxYear := s.clk.Now().Year() + MaxYearsAhead
			if y < MinGraduationYear || y > maxYear {
				return apperr.Validation("invalid graduationYear", map[string]any{
					"graduationYear": fmt.Sprintf("must be between %d and %d", MinGraduationYear, maxYear),
				})
			}
			p.GraduationYear = &y
		}
	}

	if patch.Skills.IsSpecified() {
		p.Skills = cleanSkills(patch.Skills.Value())
	}
	return nil
}

func (s *Service) resolve(ctx context.Context, p domain.Profile) (Mine, error) {
	out := Mine{Profile: p}
	if p.Name != nil {
		out.Name = *p.Name
	}
	if p.Email != nil {
		out.Email = *p.Email
	}
	u, err := s.users.GetByID(ctx, p.User)
	switch {
	case err == nil:
		if u.Name != "" {
			out.Name = u.Name
		}
		if u.Email != "" {
			out.Email = u.Email
		}
	case errors.Is(err, userrepo.ErrNotFound):
	default:
		return Mine{}, err
	}
	return out, nil
}

func setString(dst **string, o Optional[string], normalize func(string) string) {
	if !o.IsSpecified() {
		return
	}
	if o.IsNull() {
		*dst = nil
		return
	}
	v := normalize(o.Value())
	if v == "" {
		*dst = nil
		return
	}
	*dst = &v
}

func cleanSkills(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
