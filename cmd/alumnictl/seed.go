package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/alumni-network/alumni-api/internal/app/events"
	"github.com/alumni-network/alumni-api/internal/app/identity"
	"github.com/alumni-network/alumni-api/internal/app/profiles"
	"github.com/alumni-network/alumni-api/internal/domain"
	platformclock "github.com/alumni-network/alumni-api/internal/platform/clock"
	"github.com/alumni-network/alumni-api/internal/platform/storage"
	clockport "github.com/alumni-network/alumni-api/internal/ports/out/clock"
	"github.com/alumni-network/alumni-api/internal/ports/out/userrepo"
)

type seedFile struct {
	Users  []seedUser  `yaml:"users"`
	Events []seedEvent `yaml:"events"`
}

type seedUser struct {
	Name     string       `yaml:"name"`
	Email    string       `yaml:"email"`
	Password string       `yaml:"password"`
	Profile  *seedProfile `yaml:"profile"`
}

type seedProfile struct {
	Major          string   `yaml:"major"`
	GraduationYear int      `yaml:"graduationYear"`
	Company        string   `yaml:"company"`
	JobTitle       string   `yaml:"jobTitle"`
	Location       string   `yaml:"location"`
	Bio            string   `yaml:"bio"`
	Skills         []string `yaml:"skills"`
	LinkedIn       string   `yaml:"linkedin"`
	Twitter        string   `yaml:"twitter"`
	Website        string   `yaml:"website"`
}

type seedEvent struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	// Date is RFC 3339 or YYYY-MM-DD.
	Date     string `yaml:"date"`
	Location string `yaml:"location"`
	// Organizer is the email of a seeded or existing user.
	Organizer string `yaml:"organizer"`
}

func readSeedFile(path string) (seedFile, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return seedFile{}, fmt.Errorf("read seed file: %w", err)
	}
	return parseSeed(b)
}

func parseSeed(b []byte) (seedFile, error) {
	var doc seedFile
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return seedFile{}, fmt.Errorf("parse seed file: %w", err)
	}
	return doc, nil
}

type seedResult struct {
	UsersCreated  int
	UsersExisting int
	Profiles      int
	Events        int
}

type seeder struct {
	users    userrepo.Repository
	identity *identity.Service
	profiles *profiles.Service
	events   *events.Service
}

// noTokens satisfies identity.TokenIssuer; seeding never hands out tokens.
type noTokens struct{}

func (noTokens) Issue(domain.UserID) (string, time.Time, error) { return "", time.Time{}, nil }

func newSeeder(s *storage.Stores) *seeder {
	return newSeederWithClock(s, platformclock.NewSystemClock())
}

func newSeederWithClock(s *storage.Stores, clk clockport.Clock) *seeder {
	return &seeder{
		users:    s.Users,
		identity: identity.NewService(s.Users, noTokens{}, clk),
		profiles: profiles.NewService(s.Profiles, s.Users, clk),
		events:   events.NewService(s.Events, clk),
	}
}

func (sd *seeder) Seed(ctx context.Context, doc seedFile) (seedResult, error) {
	var res seedResult
	byEmail := map[string]domain.UserID{}

	for i, u := range doc.Users {
		id, created, err := sd.ensureUser(ctx, u)
		if err != nil {
			return res, fmt.Errorf("users[%d] %s: %w", i, u.Email, err)
		}
		if created {
			res.UsersCreated++
		} else {
			res.UsersExisting++
		}
		byEmail[domain.NormalizeEmail(u.Email)] = id

		if u.Profile == nil {
			continue
		}
		if _, err := sd.profiles.Upsert(ctx, domain.SubjectID(id), u.Profile.patch()); err != nil {
			return res, fmt.Errorf("users[%d] %s profile: %w", i, u.Email, err)
		}
		res.Profiles++
	}

	for i, e := range doc.Events {
		organizer, ok := byEmail[domain.NormalizeEmail(e.Organizer)]
		if !ok {
			u, err := sd.users.GetByEmail(ctx, domain.NormalizeEmail(e.Organizer))
			if err != nil {
				return res, fmt.Errorf("events[%d] organizer %q: %w", i, e.Organizer, err)
			}
			organizer = u.ID
		}
		date, err := parseDate(e.Date)
		if err != nil {
			return res, fmt.Errorf("events[%d] date: %w", i, err)
		}
		if _, err := sd.events.Create(ctx, domain.SubjectID(organizer), events.CreateInput{
			Title:       e.Title,
			Description: optional(e.Description),
			Date:        date,
			Location:    optional(e.Location),
		}); err != nil {
			return res, fmt.Errorf("events[%d]: %w", i, err)
		}
		res.Events++
	}
	return res, nil
}

func (sd *seeder) ensureUser(ctx context.Context, u seedUser) (domain.UserID, bool, error) {
	existing, err := sd.users.GetByEmail(ctx, domain.NormalizeEmail(u.Email))
	switch {
	case err == nil:
		return existing.ID, false, nil
	case errors.Is(err, userrepo.ErrNotFound):
	default:
		return "", false, err
	}
	sess, err := sd.identity.Register(ctx, u.Name, u.Email, u.Password)
	if err != nil {
		return "", false, err
	}
	return sess.User.ID, true, nil
}

func (p seedProfile) patch() profiles.Patch {
	str := func(s string) profiles.Optional[string] {
		if s == "" {
			return profiles.Unspecified[string]()
		}
		return profiles.Some(s)
	}
	patch := profiles.Patch{
		Major:    str(p.Major),
		Company:  str(p.Company),
		JobTitle: str(p.JobTitle),
		Location: str(p.Location),
		Bio:      str(p.Bio),
		LinkedIn: str(p.LinkedIn),
		Twitter:  str(p.Twitter),
		Website:  str(p.Website),
	}
	if p.GraduationYear != 0 {
		patch.GraduationYear = profiles.Some(p.GraduationYear)
	}
	if p.Skills != nil {
		patch.Skills = profiles.Some(p.Skills)
	}
	return patch
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse(time.DateOnly, raw)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
