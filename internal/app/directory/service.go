// Package directory serves the alumni directory: listing, search, filtering and statistics
// over the profile read model.
package directory

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/alumni-network/alumni-api/internal/app/apperr"
	"github.com/alumni-network/alumni-api/internal/domain"
	"github.com/alumni-network/alumni-api/internal/domain/directory"
	"github.com/alumni-network/alumni-api/internal/ports/out/directoryrepo"
)

type Service struct {
	repo directoryrepo.Repository
	log  *zap.Logger
}

func NewService(repo directoryrepo.Repository, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{repo: repo, log: log}
}

// FilterInput is the raw filter selection as received from the caller. Empty fields add no
// constraint.
type FilterInput struct {
	GraduationYear string
	Department     string
	Location       string
	Company        string
	CompanyType    string
}

// All returns the full directory sorted by graduation year (newest first) then name.
func (s *Service) All(ctx context.Context) ([]directory.Record, error) {
	return s.find(ctx, directory.Query{}, directory.SortByYearThenName)
}

// Search matches q against name, company, location, job title, major and bio, or exactly
// against a skill.
func (s *Service) Search(ctx context.Context, q string) ([]directory.Record, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, apperr.Validation("search query is required", map[string]any{"q": "must be non-empty"})
	}
	return s.find(ctx, directory.Query{Text: q}, directory.SortByYearThenName)
}

func (s *Service) Filter(ctx context.Context, in FilterInput) ([]directory.Record, error) {
	year, err := parseYear("graduationYear", in.GraduationYear, false)
	if err != nil {
		return nil, err
	}
	q := directory.Query{
		GraduationYear: year,
		Department:     strings.TrimSpace(in.Department),
		Location:       strings.TrimSpace(in.Location),
		Company:        strings.TrimSpace(in.Company),
		CompanyType:    strings.TrimSpace(in.CompanyType),
	}
	return s.find(ctx, q, directory.SortByYearThenName)
}

func (s *Service) ByDepartment(ctx context.Context, department string) ([]directory.Record, error) {
	department = strings.TrimSpace(department)
	if department == "" {
		return nil, apperr.Validation("department is required", map[string]any{"department": "must be non-empty"})
	}
	return s.find(ctx, directory.Query{Department: department}, directory.SortByYearThenName)
}

// ByYear returns one graduating class sorted by name.
func (s *Service) ByYear(ctx context.Context, year string) ([]directory.Record, error) {
	y, err := parseYear("year", year, true)
	if err != nil {
		return nil, err
	}
	return s.find(ctx, directory.Query{GraduationYear: y}, directory.SortByName)
}

func (s *Service) Stats(ctx context.Context) (directory.Stats, error) {
	st, err := s.repo.Stats(ctx)
	if err != nil {
		return directory.Stats{}, fmt.Errorf("directory stats: %w", err)
	}
	return st, nil
}

// Contact records an attempt to reach the owner of a directory entry. Nothing is persisted
// or delivered.
func (s *Service) Contact(ctx context.Context, from domain.SubjectID, to domain.ProfileID, message string) error {
	_ = ctx
	s.log.Info("contact requested",
		zap.String("from", string(from)),
		zap.String("profile_id", string(to)),
		zap.Int("message_len", len(message)),
	)
	return nil
}

func (s *Service) find(ctx context.Context, q directory.Query, sortFn func([]directory.Record)) ([]directory.Record, error) {
	rs, err := s.repo.Find(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("find directory records: %w", err)
	}
	if rs == nil {
		rs = []directory.Record{}
	}
	sortFn(rs)
	return rs, nil
}

func parseYear(field, raw string, required bool) (*int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		if required {
			return nil, apperr.Validation("invalid "+field, map[string]any{field: "is required"})
		}
		return nil, nil
	}
	n, err := strconv.ParseInt(raw, 10, 32)
	if errors.Is(err, strconv.ErrRange) {
		return nil, apperr.Validation("invalid "+field, map[string]any{field: "out of range"})
	}
	if err != nil {
		return nil, apperr.Validation("invalid "+field, map[string]any{field: "must be an integer"})
	}
	y := int(n)
	return &y, nil
}
