// Package identity registers users and exchanges credentials for bearer tokens.
package identity

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/alumni-network/alumni-api/internal/app/apperr"
	"github.com/alumni-network/alumni-api/internal/domain"
	clockport "github.com/alumni-network/alumni-api/internal/ports/out/clock"
	"github.com/alumni-network/alumni-api/internal/ports/out/userrepo"
)

const (
	MinPasswordLength = 6
	// bcrypt ignores input past 72 bytes.
	MaxPasswordBytes = 72
)

// TokenIssuer signs a bearer token for a user.
type TokenIssuer interface {
	Issue(user domain.UserID) (token string, expiresAt time.Time, err error)
}

// Session is the result of a successful register or login.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      domain.User
}

type Service struct {
	users  userrepo.Repository
	tokens TokenIssuer
	clk    clockport.Clock

	// BcryptCost is the hashing cost for new passwords.
	BcryptCost int

	newUserID func() domain.UserID
}

func NewService(users userrepo.Repository, tokens TokenIssuer, clk clockport.Clock) *Service {
	return &Service{
		users:      users,
		tokens:     tokens,
		clk:        clk,
		BcryptCost: bcrypt.DefaultCost,
		newUserID: func() domain.UserID {
			return domain.UserID(uuid.NewString())
		},
	}
}

func (s *Service) Register(ctx context.Context, name, email, password string) (Session, error) {
	details := map[string]any{}
	name = domain.NormalizeHumanName(name)
	if name == "" {
		details["name"] = "must be non-empty"
	}
	email = domain.NormalizeEmail(email)
	if err := validateEmail(email); err != nil {
		details["email"] = err.Error()
	}
	switch {
	case len(password) < MinPasswordLength:
		details["password"] = fmt.Sprintf("must be at least %d characters", MinPasswordLength)
	case len(password) > MaxPasswordBytes:
		details["password"] = fmt.Sprintf("must be at most %d bytes", MaxPasswordBytes)
	}
	if len(details) > 0 {
		return Session{}, apperr.Validation("invalid registration", details)
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return Session{}, apperr.Validation("User already exists", nil)
	} else if !errors.Is(err, userrepo.ErrNotFound) {
		return Session{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.BcryptCost)
	if err != nil {
		return Session{}, fmt.Errorf("hash password: %w", err)
	}
	u := domain.User{
		ID:           s.newUserID(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    s.clk.Now(),
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, userrepo.ErrAlreadyExists) {
			return Session{}, apperr.Validation("User already exists", nil)
		}
		return Session{}, err
	}
	return s.session(u)
}

// Login never reveals whether the email or the password was wrong.
func (s *Service) Login(ctx context.Context, email, password string) (Session, error) {
	u, err := s.users.GetByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, userrepo.ErrNotFound) {
			return Session{}, apperr.Validation("Invalid credentials", nil)
		}
		return Session{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return Session{}, apperr.Validation("Invalid credentials", nil)
	}
	return s.session(u)
}

func (s *Service) session(u domain.User) (Session, error) {
	tok, exp, err := s.tokens.Issue(u.ID)
	if err != nil {
		return Session{}, fmt.Errorf("issue token: %w", err)
	}
	u.PasswordHash = ""
	return Session{Token: tok, ExpiresAt: exp, User: u}, nil
}

func validateEmail(email string) error {
	if email == "" {
		return errors.New("must be non-empty")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return errors.New("must be a valid email address")
	}
	// Reject "Name <email@x>".
	if addr.Address != email {
		return errors.New("must be a bare email address")
	}
	return nil
}
