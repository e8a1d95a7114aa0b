package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"vinyl-crate/internal/config"
	"vinyl-crate/internal/model"
	"vinyl-crate/internal/repository"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

const verificationCodeLength = 6

// tokenClaims are the JWT claims carried by an access token.
type tokenClaims struct {
	jwt.RegisteredClaims
	Email string   `json:"email"`
	Roles []string `json:"roles"`
}

// authService implements AuthService with bcrypt password hashing and
// HS256-signed JWTs.
type authService struct {
	userRepo repository.UserRepository
	secret   []byte
	tokenTTL time.Duration
	logger   zerolog.Logger
}

// NewAuthService creates a new auth service.
func NewAuthService(userRepo repository.UserRepository, cfg config.AuthConfig, logger zerolog.Logger) AuthService {
	return &authService{
		userRepo: userRepo,
		secret:   []byte(cfg.JWTSecret),
		tokenTTL: time.Duration(cfg.TokenTTL) * time.Second,
		logger:   logger.With().Str("service", "auth").Logger(),
	}
}

// Register creates a new account and returns it with a verification code pending.
func (s *authService) Register(ctx context.Context, email, password string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("a valid email is required")
	}
	if len(password) < 8 {
		return nil, fmt.Errorf("password must be at least 8 characters")
	}

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		s.logger.Error().Err(err).Str("email", email).Msg("failed to check existing user")
		return nil, fmt.Errorf("failed to register user: %w", err)
	}
	if existing != nil {
		return nil, model.ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to hash password")
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	code, err := newVerificationCode()
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to generate verification code")
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	now := time.Now()
	user := &model.User{
		ID:               uuid.New(),
		Email:            email,
		PasswordHash:     string(hash),
		Roles:            []string{model.RoleCustomer},
		Verified:         false,
		VerificationCode: code,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		s.logger.Error().Err(err).Str("email", email).Msg("failed to create user")
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	s.logger.Info().Str("user_id", user.ID.String()).Msg("user registered")

	return user, nil
}

// Login verifies credentials and returns a signed token with the user.
// Unknown email and wrong password produce the same error so the response
// does not leak which accounts exist.
func (s *authService) Login(ctx context.Context, email, password string) (*model.LoginResponse, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		s.logger.Error().Err(err).Str("email", email).Msg("failed to look up user")
		return nil, fmt.Errorf("failed to log in: %w", err)
	}
	if user == nil {
		return nil, model.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.Warn().Str("user_id", user.ID.String()).Msg("invalid password attempt")
		return nil, model.ErrInvalidCredentials
	}

	token, err := s.signToken(user)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", user.ID.String()).Msg("failed to sign token")
		return nil, fmt.Errorf("failed to log in: %w", err)
	}

	s.logger.Info().Str("user_id", user.ID.String()).Msg("user logged in")

	return &model.LoginResponse{Token: token, User: user}, nil
}

// VerifyEmail confirms the account's email with the emailed code.
func (s *authService) VerifyEmail(ctx context.Context, email, code string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		s.logger.Error().Err(err).Str("email", email).Msg("failed to look up user")
		return fmt.Errorf("failed to verify email: %w", err)
	}
	if user == nil {
		return model.ErrUserNotFound
	}

	if user.Verified {
		return nil
	}

	if code == "" || user.VerificationCode != code {
		s.logger.Warn().Str("user_id", user.ID.String()).Msg("invalid verification code")
		return model.ErrInvalidVerifyCode
	}

	if err := s.userRepo.SetVerified(ctx, user.ID); err != nil {
		s.logger.Error().Err(err).Str("user_id", user.ID.String()).Msg("failed to mark user verified")
		return fmt.Errorf("failed to verify email: %w", err)
	}

	s.logger.Info().Str("user_id", user.ID.String()).Msg("email verified")

	return nil
}

// ChangePassword replaces the user's password after checking the current one.
func (s *authService) ChangePassword(ctx context.Context, userID uuid.UUID, current, next string) error {
	if len(next) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to look up user")
		return fmt.Errorf("failed to change password: %w", err)
	}
	if user == nil {
		return model.ErrUserNotFound
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)); err != nil {
		s.logger.Warn().Str("user_id", userID.String()).Msg("current password mismatch")
		return model.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to hash password")
		return fmt.Errorf("failed to change password: %w", err)
	}

	if err := s.userRepo.UpdatePassword(ctx, userID, string(hash)); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to update password")
		return fmt.Errorf("failed to change password: %w", err)
	}

	s.logger.Info().Str("user_id", userID.String()).Msg("password changed")

	return nil
}

// ParseToken validates a signed token and returns the user it identifies.
func (s *authService) ParseToken(ctx context.Context, tokenString string) (*model.User, error) {
	claims := &tokenClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, model.ErrInvalidCredentials
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, model.ErrInvalidCredentials
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to look up token user")
		return nil, fmt.Errorf("failed to resolve token: %w", err)
	}
	if user == nil {
		return nil, model.ErrInvalidCredentials
	}

	return user, nil
}

func (s *authService) signToken(user *model.User) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
		Email: user.Email,
		Roles: user.Roles,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// newVerificationCode generates a numeric code for email verification.
func newVerificationCode() (string, error) {
	var sb strings.Builder
	for i := 0; i < verificationCodeLength; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		sb.WriteString(n.String())
	}
	return sb.String(), nil
}
