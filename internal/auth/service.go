package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/odyssey-erp/odyssey-tasks/internal/shared"
	"github.com/odyssey-erp/odyssey-tasks/internal/users"
)

// TokenSigner issues access tokens for an authenticated user.
type TokenSigner interface {
	Issue(userID, email string) (string, error)
}

// Service wraps signup and login business rules.
type Service struct {
	repo   users.Repository
	hasher Hasher
	tokens TokenSigner

	// dummyHash is compared against when the email is unknown so that
	// unknown-email and wrong-password logins cost the same.
	dummyHash string
}

// fallbackDummyHash is a cost-10 bcrypt hash used when the configured hasher
// cannot produce a dummy hash of its own.
const fallbackDummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// NewService constructs a new Service.
func NewService(repo users.Repository, hasher Hasher, tokens TokenSigner) *Service {
	dummy, err := hasher.Hash("odyssey-timing-equalizer")
	if err != nil || dummy == "" {
		dummy = fallbackDummyHash
	}
	return &Service{repo: repo, hasher: hasher, tokens: tokens, dummyHash: dummy}
}

// Signup registers a new account. It returns shared.ErrEmailTaken when the
// email is already on file.
func (s *Service) Signup(ctx context.Context, name, email, password string) (*users.User, error) {
	_, err := s.repo.FindByEmail(ctx, email)
	if err == nil {
		return nil, shared.ErrEmailTaken
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, fmt.Errorf("auth: lookup email: %w", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.Create(ctx, users.User{Name: name, Email: email, PasswordHash: hash})
	if err != nil {
		if errors.Is(err, shared.ErrEmailTaken) {
			return nil, err
		}
		return nil, fmt.Errorf("auth: create user: %w", err)
	}
	return user, nil
}

// Login validates email/password credentials and returns a signed token.
// Unknown email and wrong password both yield shared.ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.hasher.Verify(password, s.dummyHash)
			return "", shared.ErrInvalidCredentials
		}
		return "", fmt.Errorf("auth: lookup email: %w", err)
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		return "", shared.ErrInvalidCredentials
	}
	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return "", fmt.Errorf("auth: issue token: %w", err)
	}
	return token, nil
}
