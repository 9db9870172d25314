package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/app/models"
	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/app/models/dto"
	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/app/repositories"
	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/pkg/apperrors"
	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/pkg/auth"
	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/pkg/email"
	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/pkg/helpers"
	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/pkg/metrics"
	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/pkg/validation"
)

// TokenIssuer signs access tokens
type TokenIssuer interface {
	GenerateToken(user *models.User) (string, int64, error)
}

// AuthService handles registration, login and the current user
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
	Me(ctx context.Context, userID int64) (*dto.MeResponse, error)
}

type authServiceImpl struct {
	userRepo     repositories.IUserRepository
	profileRepo  repositories.IProfileRepository
	hasher       auth.PasswordHasher
	tokens       TokenIssuer
	emailService email.EmailService
	rewards      *RewardRecorder
	logger       zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo repositories.IUserRepository,
	profileRepo repositories.IProfileRepository,
	hasher auth.PasswordHasher,
	tokens TokenIssuer,
	emailService email.EmailService,
	rewards *RewardRecorder,
	logger zerolog.Logger,
) AuthService {
	return &authServiceImpl{
		userRepo:     userRepo,
		profileRepo:  profileRepo,
		hasher:       hasher,
		tokens:       tokens,
		emailService: emailService,
		rewards:      rewards,
		logger:       logger.With().Str("service", "auth").Logger(),
	}
}

// Register creates a user with an empty profile and signs them in
func (s *authServiceImpl) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	fullName := strings.TrimSpace(req.FullName)
	emailAddr := helpers.NormalizeEmail(req.Email)

	if err := validation.ValidateFullName(fullName); err != nil {
		return nil, err
	}
	if err := validation.ValidateEmail(emailAddr); err != nil {
		return nil, err
	}
	if err := validation.ValidatePassword(req.Password); err != nil {
		return nil, err
	}
	if !req.Role.IsValid() {
		return nil, apperrors.NewValidationError("role", "role must be one of: student, industry_expert")
	}

	exists, err := s.userRepo.EmailExists(ctx, emailAddr)
	if err != nil {
		return nil, fmt.Errorf("error checking email: %w", err)
	}
	if exists {
		return nil, apperrors.ErrEmailAlreadyExists
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		FullName: fullName,
		Email:    emailAddr,
		Password: hash,
		RoleType: req.Role,
		IsActive: true,
	}
	profile := &models.Profile{
		Points:          0,
		Level:           1,
		Skills:          []string{},
		CareerInterests: []string{},
	}

	// The unique constraint still guards concurrent registrations
	if err := s.userRepo.CreateWithProfile(ctx, user, profile); err != nil {
		if errors.Is(err, apperrors.ErrEmailAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	s.logger.Info().Int64("userID", user.ID).Str("role", string(user.RoleType)).Msg("User registered")
	metrics.Registrations.WithLabelValues(string(user.RoleType)).Inc()
	s.rewards.logActivity(ctx, user.ID, models.ActivityRegistered, bson.M{"role": user.RoleType})

	if err := s.emailService.SendWelcomeEmail(user.Email, user.FullName); err != nil {
		s.logger.Warn().Err(err).Int64("userID", user.ID).Msg("Failed to send welcome email")
	}

	return s.authResponse(user, profile)
}

// Login verifies credentials and issues a token
func (s *authServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, helpers.NormalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error finding user: %w", err)
	}

	if !s.hasher.Compare(user.Password, req.Password) {
		s.logger.Debug().Int64("userID", user.ID).Msg("Password mismatch")
		return nil, apperrors.ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, apperrors.ErrAccountDisabled
	}

	if err := s.userRepo.UpdateLastLogin(ctx, user.ID); err != nil {
		s.logger.Warn().Err(err).Int64("userID", user.ID).Msg("Failed to update last login")
	}

	profile, err := s.profileRepo.GetByUserID(ctx, user.ID)
	if err != nil && !errors.Is(err, apperrors.ErrProfileNotFound) {
		return nil, fmt.Errorf("error loading profile: %w", err)
	}

	s.logger.Info().Int64("userID", user.ID).Msg("User logged in")
	return s.authResponse(user, profile)
}

// Me returns the current user with their profile
func (s *authServiceImpl) Me(ctx context.Context, userID int64) (*dto.MeResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil && !errors.Is(err, apperrors.ErrProfileNotFound) {
		return nil, fmt.Errorf("error loading profile: %w", err)
	}

	resp := &dto.MeResponse{User: dto.FromUser(user)}
	if profile != nil {
		p := dto.FromProfile(user, profile)
		resp.Profile = &p
	}
	return resp, nil
}

func (s *authServiceImpl) authResponse(user *models.User, profile *models.Profile) (*dto.AuthResponse, error) {
	token, expiresIn, err := s.tokens.GenerateToken(user)
	if err != nil {
		return nil, fmt.Errorf("error generating token: %w", err)
	}

	resp := &dto.AuthResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: expiresIn,
		User:      dto.FromUser(user),
	}
	if profile != nil {
		p := dto.FromProfile(user, profile)
		resp.Profile = &p
	}
	return resp, nil
}
