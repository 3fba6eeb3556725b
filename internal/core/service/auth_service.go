package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/pixelcore/pixelcore-api/internal/core/domain"
	"github.com/pixelcore/pixelcore-api/internal/core/ports"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"

	defaultAccessTTL  = 5 * time.Minute
	defaultRefreshTTL = 24 * time.Hour
)

// AuthConfig holds the token settings for AuthService.
type AuthConfig struct {
	JWTSecret  string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// tokenClaims is the JWT payload for both access and refresh tokens.
// Subject carries the user id and ID a unique token id.
type tokenClaims struct {
	TokenType string `json:"token_type"`
	Email     string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// AuthService implements registration, token issuance and account lookups.
type AuthService struct {
	users      ports.UserRepository
	ratings    ports.RatingRepository
	denylist   ports.TokenDenylist
	jwtSecret  []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
	logger     zerolog.Logger
}

func NewAuthService(
	users ports.UserRepository,
	ratings ports.RatingRepository,
	denylist ports.TokenDenylist,
	cfg AuthConfig,
	logger zerolog.Logger,
) *AuthService {
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = defaultAccessTTL
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = defaultRefreshTTL
	}
	return &AuthService{
		users:      users,
		ratings:    ratings,
		denylist:   denylist,
		jwtSecret:  []byte(cfg.JWTSecret),
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
		now:        time.Now,
		logger:     logger,
	}
}

// Register creates a new account. Field problems, including a taken email or
// username, come back as *domain.ValidationError.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	email := strings.TrimSpace(in.Email)

	ve := &domain.ValidationError{}
	if email == "" {
		ve.Add("email", "This field is required.")
	}
	if in.Password == "" {
		ve.Add("password", "This field is required.")
	}
	if in.Password2 == "" {
		ve.Add("password2", "This field is required.")
	}
	if in.Password != "" && in.Password2 != "" && in.Password != in.Password2 {
		ve.Add("password", "Password fields didn't match.")
	}
	if !ve.Empty() {
		return nil, ve
	}

	var username *string
	if in.Username != nil {
		if u := strings.TrimSpace(*in.Username); u != "" {
			username = &u
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("register: hash password: %w", err)
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    s.now().UTC().Truncate(time.Millisecond),
	}

	created, err := s.users.Create(ctx, user)
	switch {
	case domain.IsConstraint(err, ports.ConstraintUserEmail):
		return nil, domain.NewValidationError("email", "user with this email already exists.")
	case domain.IsConstraint(err, ports.ConstraintUserUsername):
		return nil, domain.NewValidationError("username", "user with this username already exists.")
	case err != nil:
		return nil, fmt.Errorf("register: %w", err)
	}

	s.logger.Info().Str("user_id", created.ID).Msg("user registered")
	return created, nil
}

// Login verifies the credentials and issues an access/refresh pair.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.TokenPair, error) {
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	access, err := s.signToken(user.ID, user.Email, tokenTypeAccess, s.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := s.signToken(user.ID, user.Email, tokenTypeRefresh, s.refreshTTL)
	if err != nil {
		return nil, err
	}

	if err := s.users.TouchLastLogin(ctx, user.ID, s.now().UTC()); err != nil {
		s.logger.Warn().Err(err).Str("user_id", user.ID).Msg("failed to record last login")
	}

	return &ports.TokenPair{Access: access, Refresh: refresh}, nil
}

// Refresh exchanges a valid, non-revoked refresh token for a new access token.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.parseToken(refreshToken, tokenTypeRefresh)
	if err != nil {
		return "", err
	}

	revoked, err := s.denylist.IsRevoked(ctx, claims.ID)
	if err != nil {
		return "", fmt.Errorf("refresh: denylist lookup: %w", err)
	}
	if revoked {
		return "", domain.ErrInvalidToken
	}

	return s.signToken(claims.Subject, claims.Email, tokenTypeAccess, s.accessTTL)
}

// Logout revokes a refresh token until it would have expired anyway.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.parseToken(refreshToken, tokenTypeRefresh)
	if err != nil {
		return err
	}

	ttl := claims.ExpiresAt.Time.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	if err := s.denylist.Revoke(ctx, claims.ID, ttl); err != nil {
		return fmt.Errorf("logout: %w", err)
	}

	s.logger.Info().Str("user_id", claims.Subject).Msg("refresh token revoked")
	return nil
}

// Authenticate resolves an access token to the caller. The account must still exist.
func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (*ports.Identity, error) {
	claims, err := s.parseToken(accessToken, tokenTypeAccess)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidToken
		}
		return nil, fmt.Errorf("authenticate: %w", err)
	}

	return &ports.Identity{UserID: user.ID, Email: user.Email}, nil
}

// Profile returns the user with RatingCount derived from the ratings store.
func (s *AuthService) Profile(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	count, err := s.ratings.CountByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("profile: count ratings: %w", err)
	}
	user.RatingCount = count
	return user, nil
}

// DeleteAccount removes the user together with all of their ratings.
func (s *AuthService) DeleteAccount(ctx context.Context, userID string) error {
	if err := s.users.Delete(ctx, userID); err != nil {
		return err
	}
	s.logger.Info().Str("user_id", userID).Msg("account deleted")
	return nil
}

func (s *AuthService) signToken(userID, email, tokenType string, ttl time.Duration) (string, error) {
	now := s.now()
	claims := tokenClaims{
		TokenType: tokenType,
		Email:     email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", tokenType, err)
	}
	return signed, nil
}

func (s *AuthService) parseToken(raw, wantType string) (*tokenClaims, error) {
	if raw == "" {
		return nil, domain.ErrInvalidToken
	}

	claims := &tokenClaims{}
	tkn, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !tkn.Valid {
		return nil, domain.ErrInvalidToken
	}
	if claims.TokenType != wantType || claims.Subject == "" || claims.ID == "" {
		return nil, domain.ErrInvalidToken
	}
	return claims, nil
}
