package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"movie-store/internal/domain"
	"movie-store/internal/store"
	"movie-store/pkg/auth"

	"github.com/google/uuid"
)

// UserService handles accounts, sessions and profiles.
type UserService struct {
	users   store.UserStore
	tokens  auth.TokenManager
	revoker auth.Revoker
	logger  *slog.Logger
}

func NewUserService(stores *store.Stores, tokens auth.TokenManager, revoker auth.Revoker, logger *slog.Logger) *UserService {
	return &UserService{users: stores.Users, tokens: tokens, revoker: revoker, logger: logger}
}

// Register creates the user together with its profile and empty cart.
func (s *UserService) Register(ctx context.Context, req domain.RegisterRequest) (*domain.User, error) {
	return s.registerWithRole(ctx, req, domain.RoleUser)
}

// RegisterAdmin creates a catalog administrator. It is only reachable from the
// seed command, never over HTTP.
func (s *UserService) RegisterAdmin(ctx context.Context, req domain.RegisterRequest) (*domain.User, error) {
	return s.registerWithRole(ctx, req, domain.RoleAdmin)
}

func (s *UserService) registerWithRole(ctx context.Context, req domain.RegisterRequest, role string) (*domain.User, error) {
	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to hash password", slog.String("error", err.Error()))
		return nil, err
	}
	now := time.Now().UTC()
	user := &domain.User{
		ID:           uuid.NewString(),
		Username:     req.Username,
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: hashedPassword,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.register(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) register(ctx context.Context, user *domain.User) error {
	profile := domain.NewUserProfile(user)
	cart := domain.NewCart(uuid.NewString(), user)
	if err := s.users.Register(ctx, user, profile, cart); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "User registered", slog.String("userID", user.ID), slog.String("username", user.Username))
	return nil
}

// Login checks credentials and issues an access token.
func (s *UserService) Login(ctx context.Context, req domain.LoginRequest) (*domain.LoginResponse, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		s.logger.WarnContext(ctx, "Login failed: password mismatch", slog.String("userID", user.ID))
		return nil, ErrInvalidCredentials
	}
	token, err := s.tokens.Generate(user.ID, user.Role)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to generate token", slog.String("userID", user.ID), slog.String("error", err.Error()))
		return nil, err
	}
	s.logger.InfoContext(ctx, "User logged in", slog.String("userID", user.ID))
	return &domain.LoginResponse{User: user, Token: token}, nil
}

// Logout revokes the token described by claims until it expires.
func (s *UserService) Logout(ctx context.Context, claims *auth.Claims) error {
	if claims == nil || claims.ID == "" {
		return nil
	}
	expiresAt := time.Now()
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	if err := s.revoker.Revoke(ctx, claims.ID, expiresAt); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "User logged out", slog.String("userID", claims.UserID))
	return nil
}

// Authenticate validates a bearer token and rejects revoked ones.
func (s *UserService) Authenticate(ctx context.Context, token string) (*auth.Claims, error) {
	claims, err := s.tokens.Validate(token)
	if err != nil {
		return nil, err
	}
	revoked, err := s.revoker.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, auth.ErrInvalidToken
	}
	return claims, nil
}

// GetAccount returns the user with their profile.
func (s *UserService) GetAccount(ctx context.Context, userID string) (*domain.Account, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	profile, err := s.users.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &domain.Account{User: user, Profile: profile}, nil
}

// UpdateProfile edits bio, picture and preferred region. An empty region
// clears the preference.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, req domain.UpdateProfileRequest) (*domain.Account, error) {
	profile, err := s.users.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if req.Region != nil {
		if strings.TrimSpace(*req.Region) == "" {
			profile.Region = ""
		} else {
			region, err := domain.ParseRegion(*req.Region)
			if err != nil {
				return nil, err
			}
			profile.Region = region
		}
	}
	if req.Bio != nil {
		profile.Bio = *req.Bio
	}
	if req.Picture != nil {
		profile.Picture = *req.Picture
	}
	if err := s.users.UpdateProfile(ctx, profile); err != nil {
		return nil, err
	}
	return s.GetAccount(ctx, userID)
}
