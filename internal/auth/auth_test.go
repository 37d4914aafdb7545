package auth

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/balanceapi/internal/models"
	"github.com/mmynk/balanceapi/internal/storage"
)

// memUsers is an in-memory UserStorage.
type memUsers struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func newMemUsers() *memUsers {
	return &memUsers{users: make(map[string]*models.User)}
}

func (m *memUsers) CreateUser(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.Email] = user
	return nil
}

func (m *memUsers) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[email]; ok {
		return u, nil
	}
	return nil, fmt.Errorf("user %w: %s", storage.ErrNotFound, email)
}

func (m *memUsers) GetUserByID(_ context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, fmt.Errorf("user %w: %s", storage.ErrNotFound, id)
}

func TestPasswordAuthenticator(t *testing.T) {
	ctx := context.Background()
	a := NewPasswordAuthenticator(newMemUsers()).WithCost(bcrypt.MinCost)

	user, err := a.Register(ctx, " Alice@Example.com ", "Alice", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.NotEqual(t, "correct horse", user.PasswordHash)

	_, err = a.Register(ctx, "alice@example.com", "Alice again", "another password")
	require.ErrorIs(t, err, ErrEmailExists)

	_, err = a.Register(ctx, "bob@example.com", "Bob", "short")
	require.ErrorIs(t, err, ErrWeakPassword)

	got, err := a.Authenticate(ctx, "ALICE@example.com", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = a.Authenticate(ctx, "alice@example.com", "wrong password")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = a.Authenticate(ctx, "nobody@example.com", "correct horse")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestJWTManager(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)
	user := models.NewUser("alice@example.com", "Alice", "hash")

	token, err := m.Generate(user)
	require.NoError(t, err)

	claims, err := m.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID())
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, TokenIssuer, claims.Issuer)

	t.Run("wrong secret", func(t *testing.T) {
		_, err := NewJWTManager("other-secret", time.Hour).Validate(token)
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		later := NewJWTManager("test-secret", time.Hour)
		later.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		_, err := later.Validate(token)
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := m.Validate("not-a-token")
		require.ErrorIs(t, err, ErrInvalidToken)
	})
}
