package auth

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/odyssey-erp/odyssey-tasks/internal/shared"
	"github.com/odyssey-erp/odyssey-tasks/internal/users"
)

type memoryUsers struct {
	mu        sync.Mutex
	byEmail   map[string]users.User
	findErr   error
	createErr error
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{byEmail: make(map[string]users.User)}
}

func (m *memoryUsers) Create(ctx context.Context, user users.User) (*users.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return nil, m.createErr
	}
	if _, ok := m.byEmail[user.Email]; ok {
		return nil, shared.ErrEmailTaken
	}
	user.ID = uuid.NewString()
	user.CreatedAt = time.Now()
	m.byEmail[user.Email] = user
	return &user, nil
}

func (m *memoryUsers) FindByEmail(ctx context.Context, email string) (*users.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findErr != nil {
		return nil, m.findErr
	}
	user, ok := m.byEmail[email]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &user, nil
}

type failingSigner struct{}

func (failingSigner) Issue(string, string) (string, error) { return "", errors.New("signer down") }

func newTestService(repo users.Repository) (*Service, *TokenIssuer) {
	issuer := NewTokenIssuer("test-secret", time.Hour)
	return NewService(repo, NewBcryptHasher(bcrypt.MinCost), issuer), issuer
}

func TestSignupThenLoginYieldsVerifiableToken(t *testing.T) {
	repo := newMemoryUsers()
	svc, issuer := newTestService(repo)
	ctx := context.Background()

	user, err := svc.Signup(ctx, "Alice", "alice@x.com", "pw1")
	require.NoError(t, err)
	assert.NotEqual(t, "pw1", repo.byEmail["alice@x.com"].PasswordHash)

	token, err := svc.Login(ctx, "alice@x.com", "pw1")
	require.NoError(t, err)

	claims, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "alice@x.com", claims.Email)
}

func TestSignupDuplicateEmailAlwaysConflicts(t *testing.T) {
	svc, _ := newTestService(newMemoryUsers())
	ctx := context.Background()

	_, err := svc.Signup(ctx, "Alice", "alice@x.com", "pw1")
	require.NoError(t, err)

	for _, attempt := range []struct{ name, password string }{
		{"Alice", "pw1"},
		{"Someone Else", "different"},
		{"", "x"},
	} {
		_, err := svc.Signup(ctx, attempt.name, "alice@x.com", attempt.password)
		require.ErrorIs(t, err, shared.ErrEmailTaken)
	}
}

func TestSignupRaceLosesToStoreConstraint(t *testing.T) {
	repo := newMemoryUsers()
	repo.createErr = shared.ErrEmailTaken
	svc, _ := newTestService(repo)

	_, err := svc.Signup(context.Background(), "Alice", "alice@x.com", "pw1")
	require.ErrorIs(t, err, shared.ErrEmailTaken)
}

func TestSignupStoreFailureIsInternal(t *testing.T) {
	repo := newMemoryUsers()
	repo.findErr = errors.New("connection reset")
	svc, _ := newTestService(repo)

	_, err := svc.Signup(context.Background(), "Alice", "alice@x.com", "pw1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, shared.ErrEmailTaken)
	assert.NotErrorIs(t, err, shared.ErrValidation)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _ := newTestService(newMemoryUsers())
	ctx := context.Background()
	_, err := svc.Signup(ctx, "Alice", "alice@x.com", "pw1")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "alice@x.com", "wrong")
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody@x.com", "pw1")
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)
}

func TestLoginStoreAndSignerFailuresAreInternal(t *testing.T) {
	repo := newMemoryUsers()
	svc, _ := newTestService(repo)
	ctx := context.Background()
	_, err := svc.Signup(ctx, "Alice", "alice@x.com", "pw1")
	require.NoError(t, err)

	broken := NewService(repo, NewBcryptHasher(bcrypt.MinCost), failingSigner{})
	_, err = broken.Login(ctx, "alice@x.com", "pw1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, shared.ErrInvalidCredentials)

	repo.findErr = errors.New("timeout")
	_, err = svc.Login(ctx, "alice@x.com", "pw1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, shared.ErrInvalidCredentials)
}

type brokenHasher struct {
	verified []string
}

func (h *brokenHasher) Hash(string) (string, error) { return "", errors.New("entropy exhausted") }

func (h *brokenHasher) Verify(_, hash string) bool {
	h.verified = append(h.verified, hash)
	return false
}

func TestLoginUnknownEmailStillComparesWhenHasherFails(t *testing.T) {
	hasher := &brokenHasher{}
	svc := NewService(newMemoryUsers(), hasher, NewTokenIssuer("test-secret", time.Hour))

	_, err := svc.Login(context.Background(), "ghost@x.com", "pw1")
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)

	require.Equal(t, []string{fallbackDummyHash}, hasher.verified)
	cost, err := bcrypt.Cost([]byte(fallbackDummyHash))
	require.NoError(t, err)
	assert.Equal(t, DefaultBcryptCost, cost)
}
