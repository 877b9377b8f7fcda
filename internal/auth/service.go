package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/placementprep/portal/internal/auth/jwt"
	"github.com/placementprep/portal/internal/db/repository"
)

type userStore interface {
	Create(ctx context.Context, u repository.User) (repository.User, error)
	GetByEmail(ctx context.Context, email string) (repository.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (repository.User, error)
}

type activityStore interface {
	Append(ctx context.Context, act repository.Activity) error
}

// Service handles authentication and account lifecycle.
type Service struct {
	users      userStore
	activities activityStore
	tokenMgr   *jwt.Manager
	logger     zerolog.Logger
}

// ServiceOptions configures the auth service.
type ServiceOptions struct {
	TokenConfig jwt.TokenConfig
}

// NewService creates an authentication service.
func NewService(users userStore, activities activityStore, opts ServiceOptions, logger zerolog.Logger) *Service {
	return &Service{
		users:      users,
		activities: activities,
		tokenMgr:   jwt.NewManager(opts.TokenConfig),
		logger:     logger,
	}
}

// Register creates a new student account. It does not log the user in.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" {
		return nil, fmt.Errorf("email required")
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("name required")
	}

	passwordHash, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	created, err := s.users.Create(ctx, repository.User{
		ID:           uuid.New(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: passwordHash,
		Role:         repository.RoleStudent,
		College:      req.College,
	})
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	// Best effort; registration stands even if the log write fails.
	if err := s.activities.Append(ctx, repository.Activity{
		ID:           uuid.New(),
		UserID:       created.ID,
		ActivityType: repository.ActivityRegister,
		Description:  "Registered on the portal",
	}); err != nil {
		s.logger.Warn().Err(err).Msg("register activity write failed")
	}

	s.logger.Info().Str("user_id", created.ID.String()).Str("email", created.Email).Msg("user registered")
	return toUser(created), nil
}

// Login authenticates a user with email/password and issues tokens.
// Missing accounts and wrong passwords are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*User, *TokenPair, error) {
	email := strings.TrimSpace(strings.ToLower(req.Email))

	dbUser, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("lookup user: %w", err)
	}

	if err := VerifyPassword(dbUser.PasswordHash, req.Password); err != nil {
		return nil, nil, ErrInvalidCredentials
	}
	if !dbUser.IsActive {
		return nil, nil, ErrAccountDisabled
	}

	tokens, err := s.generateTokenPair(dbUser)
	if err != nil {
		return nil, nil, fmt.Errorf("generate tokens: %w", err)
	}

	if err := s.activities.Append(ctx, repository.Activity{
		ID:           uuid.New(),
		UserID:       dbUser.ID,
		ActivityType: repository.ActivityLogin,
		Description:  "Logged in",
	}); err != nil {
		s.logger.Warn().Err(err).Msg("login activity write failed")
	}

	s.logger.Info().Str("user_id", dbUser.ID.String()).Msg("user logged in")
	return toUser(dbUser), tokens, nil
}

// RefreshToken generates a new token pair from a refresh token.
func (s *Service) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.tokenMgr.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token: %w", err)
	}

	// Re-read the user so a role change or deletion takes effect immediately.
	dbUser, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("user not found")
	}
	if !dbUser.IsActive {
		return nil, ErrAccountDisabled
	}

	return s.generateTokenPair(dbUser)
}

// GetUser fetches the account behind a set of claims.
func (s *Service) GetUser(ctx context.Context, userID uuid.UUID) (*User, error) {
	dbUser, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toUser(dbUser), nil
}

// ValidateToken validates an access token and returns user claims.
func (s *Service) ValidateToken(tokenString string) (*jwt.Claims, error) {
	return s.tokenMgr.ValidateAccessToken(tokenString)
}

func (s *Service) generateTokenPair(u repository.User) (*TokenPair, error) {
	jwtUser := jwt.User{
		ID:    u.ID,
		Email: u.Email,
		Name:  u.Name,
		Role:  u.Role,
	}

	accessToken, err := s.tokenMgr.GenerateAccessToken(jwtUser)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.tokenMgr.GenerateRefreshToken(jwtUser)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.tokenMgr.AccessTTL().Seconds()),
	}, nil
}

func toUser(u repository.User) *User {
	return &User{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		College:   u.College,
		CreatedAt: u.CreatedAt,
	}
}
