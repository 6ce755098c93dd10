// Package donations records gifts and lists the donation ledger.
package donations

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/alumni-network/alumni-api/internal/app/apperr"
	"github.com/alumni-network/alumni-api/internal/domain"
	clockport "github.com/alumni-network/alumni-api/internal/ports/out/clock"
	"github.com/alumni-network/alumni-api/internal/ports/out/donationrepo"
	"github.com/alumni-network/alumni-api/internal/ports/out/userrepo"
)

type Service struct {
	repo  donationrepo.Repository
	users userrepo.Repository
	clk   clockport.Clock

	newDonationID func() domain.DonationID
}

func NewService(repo donationrepo.Repository, users userrepo.Repository, clk clockport.Clock) *Service {
	return &Service{
		repo:  repo,
		users: users,
		clk:   clk,
		newDonationID: func() domain.DonationID {
			return domain.DonationID(uuid.NewString())
		},
	}
}

// Make records a donation by subject. amount must be a finite positive number.
func (s *Service) Make(ctx context.Context, subject domain.SubjectID, amount float64, campaign *string) (domain.Donation, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return domain.Donation{}, apperr.Validation("Please provide a valid amount", map[string]any{"amount": "must be greater than 0"})
	}

	d := domain.Donation{
		ID:     s.newDonationID(),
		Donor:  domain.UserIDFromSubject(subject),
		Amount: amount,
		Date:   s.clk.Now(),
	}
	if campaign != nil {
		if c := strings.TrimSpace(*campaign); c != "" {
			d.Campaign = &c
		}
	}
	if err := s.repo.Create(ctx, d); err != nil {
		return domain.Donation{}, fmt.Errorf("create donation: %w", err)
	}
	return d, nil
}

// List returns the ledger newest first with donor identity attached where one exists.
func (s *Service) List(ctx context.Context) ([]domain.DonationWithDonor, error) {
	ds, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list donations: %w", err)
	}

	donors := map[domain.UserID]*domain.DonorSummary{}
	out := make([]domain.DonationWithDonor, 0, len(ds))
	for _, d := range ds {
		info, seen := donors[d.Donor]
		if !seen {
			u, err := s.users.GetByID(ctx, d.Donor)
			switch {
			case err == nil:
				info = &domain.DonorSummary{ID: u.ID, Name: u.Name, Email: u.Email}
			case errors.Is(err, userrepo.ErrNotFound):
			default:
				return nil, fmt.Errorf("load donor %s: %w", d.Donor, err)
			}
			donors[d.Donor] = info
		}
		out = append(out, domain.DonationWithDonor{Donation: d, DonorInfo: info})
	}
	return out, nil
}
