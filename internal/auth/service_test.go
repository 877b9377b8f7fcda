package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/placementprep/portal/internal/auth/jwt"
	"github.com/placementprep/portal/internal/db/repository"
)

type stubUserStore struct {
	byEmail map[string]repository.User
	byID    map[uuid.UUID]repository.User
	created []repository.User
}

func newStubUserStore() *stubUserStore {
	return &stubUserStore{
		byEmail: map[string]repository.User{},
		byID:    map[uuid.UUID]repository.User{},
	}
}

func (s *stubUserStore) add(u repository.User) {
	s.byEmail[u.Email] = u
	s.byID[u.ID] = u
}

func (s *stubUserStore) Create(_ context.Context, u repository.User) (repository.User, error) {
	if _, exists := s.byEmail[u.Email]; exists {
		return repository.User{}, repository.ErrConflict
	}
	u.IsActive = true
	s.add(u)
	s.created = append(s.created, u)
	return u, nil
}

func (s *stubUserStore) GetByEmail(_ context.Context, email string) (repository.User, error) {
	u, ok := s.byEmail[email]
	if !ok {
		return repository.User{}, repository.ErrNotFound
	}
	return u, nil
}

func (s *stubUserStore) GetByID(_ context.Context, id uuid.UUID) (repository.User, error) {
	u, ok := s.byID[id]
	if !ok {
		return repository.User{}, repository.ErrNotFound
	}
	return u, nil
}

type stubActivityStore struct {
	entries []repository.Activity
}

func (s *stubActivityStore) Append(_ context.Context, act repository.Activity) error {
	s.entries = append(s.entries, act)
	return nil
}

func newTestAuthService() (*Service, *stubUserStore, *stubActivityStore) {
	users := newStubUserStore()
	activities := &stubActivityStore{}
	svc := NewService(users, activities, ServiceOptions{
		TokenConfig: jwt.TokenConfig{
			AccessSecret:  []byte("test-access-secret"),
			RefreshSecret: []byte("test-refresh-secret"),
			Issuer:        "test",
		},
	}, zerolog.Nop())
	return svc, users, activities
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("testpassword123")
	assert.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.True(t, len(hash) > 20) // bcrypt hashes are long
}

func TestVerifyPassword(t *testing.T) {
	hash, _ := HashPassword("testpassword123")

	err := VerifyPassword(hash, "testpassword123")
	assert.NoError(t, err)

	err = VerifyPassword(hash, "wrongpassword")
	assert.Error(t, err)
}

func TestPasswordTooShort(t *testing.T) {
	_, err := HashPassword("short")
	assert.Error(t, err)
	assert.Equal(t, ErrPasswordTooShort, err)
}

func TestService_Register(t *testing.T) {
	svc, users, activities := newTestAuthService()

	user, err := svc.Register(context.Background(), RegisterRequest{
		Name:     "Test Student",
		Email:    "Student@College.EDU",
		Password: "testpassword123",
		College:  "Test College",
	})
	require.NoError(t, err)
	assert.Equal(t, "Test Student", user.Name)
	assert.Equal(t, "student@college.edu", user.Email)
	assert.Equal(t, repository.RoleStudent, user.Role)

	require.Len(t, users.created, 1)
	assert.NotEqual(t, "testpassword123", users.created[0].PasswordHash)

	require.Len(t, activities.entries, 1)
	assert.Equal(t, repository.ActivityRegister, activities.entries[0].ActivityType)
}

func TestService_RegisterDuplicateEmail(t *testing.T) {
	svc, _, _ := newTestAuthService()

	req := RegisterRequest{
		Name:     "Test Student",
		Email:    "student@college.edu",
		Password: "testpassword123",
	}
	_, err := svc.Register(context.Background(), req)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), req)
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestService_Login(t *testing.T) {
	svc, _, activities := newTestAuthService()

	_, err := svc.Register(context.Background(), RegisterRequest{
		Name:     "Test Student",
		Email:    "student@college.edu",
		Password: "testpassword123",
	})
	require.NoError(t, err)

	user, tokens, err := svc.Login(context.Background(), LoginRequest{
		Email:    "student@college.edu",
		Password: "testpassword123",
	})
	require.NoError(t, err)
	assert.Equal(t, "student@college.edu", user.Email)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)

	// register + login
	require.Len(t, activities.entries, 2)
	assert.Equal(t, repository.ActivityLogin, activities.entries[1].ActivityType)
}

func TestService_LoginExpiresInFollowsAccessTTL(t *testing.T) {
	users := newStubUserStore()
	svc := NewService(users, &stubActivityStore{}, ServiceOptions{
		TokenConfig: jwt.TokenConfig{
			AccessSecret:  []byte("test-access-secret"),
			RefreshSecret: []byte("test-refresh-secret"),
			AccessTTL:     30 * time.Minute,
			Issuer:        "test",
		},
	}, zerolog.Nop())

	_, err := svc.Register(context.Background(), RegisterRequest{
		Name:     "Test Student",
		Email:    "student@college.edu",
		Password: "testpassword123",
	})
	require.NoError(t, err)

	_, tokens, err := svc.Login(context.Background(), LoginRequest{
		Email:    "student@college.edu",
		Password: "testpassword123",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1800), tokens.ExpiresIn)
}

func TestService_LoginInvalidCredentials(t *testing.T) {
	svc, _, _ := newTestAuthService()

	_, err := svc.Register(context.Background(), RegisterRequest{
		Name:     "Test Student",
		Email:    "student@college.edu",
		Password: "testpassword123",
	})
	require.NoError(t, err)

	// Wrong password and unknown email both come back as the same error.
	_, _, err = svc.Login(context.Background(), LoginRequest{
		Email:    "student@college.edu",
		Password: "wrongpassword",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(context.Background(), LoginRequest{
		Email:    "nobody@college.edu",
		Password: "testpassword123",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestService_LoginDisabledAccount(t *testing.T) {
	svc, users, _ := newTestAuthService()

	hash, err := HashPassword("testpassword123")
	require.NoError(t, err)
	users.add(repository.User{
		ID:           uuid.New(),
		Name:         "Disabled",
		Email:        "disabled@college.edu",
		PasswordHash: hash,
		Role:         repository.RoleStudent,
		IsActive:     false,
	})

	_, _, err = svc.Login(context.Background(), LoginRequest{
		Email:    "disabled@college.edu",
		Password: "testpassword123",
	})
	assert.ErrorIs(t, err, ErrAccountDisabled)
}

func TestService_ValidateToken(t *testing.T) {
	svc, _, _ := newTestAuthService()

	user, err := svc.Register(context.Background(), RegisterRequest{
		Name:     "Test Student",
		Email:    "student@college.edu",
		Password: "testpassword123",
	})
	require.NoError(t, err)

	_, tokens, err := svc.Login(context.Background(), LoginRequest{
		Email:    "student@college.edu",
		Password: "testpassword123",
	})
	require.NoError(t, err)

	claims, err := svc.ValidateToken(tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, repository.RoleStudent, claims.Role)

	_, err = svc.ValidateToken("not-a-token")
	assert.Error(t, err)
}

func TestService_RefreshToken(t *testing.T) {
	svc, _, _ := newTestAuthService()

	_, err := svc.Register(context.Background(), RegisterRequest{
		Name:     "Test Student",
		Email:    "student@college.edu",
		Password: "testpassword123",
	})
	require.NoError(t, err)

	_, tokens, err := svc.Login(context.Background(), LoginRequest{
		Email:    "student@college.edu",
		Password: "testpassword123",
	})
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(context.Background(), tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)

	// An access token is not a refresh token.
	_, err = svc.RefreshToken(context.Background(), tokens.AccessToken)
	assert.Error(t, err)
}
