package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/xinv4sionx/marketplace/server/internal/apperr"
	"github.com/xinv4sionx/marketplace/server/internal/auth"
	"github.com/xinv4sionx/marketplace/server/internal/logger"
	"github.com/xinv4sionx/marketplace/server/internal/models"
	"github.com/xinv4sionx/marketplace/server/internal/repository"
)

// ---- Repository contract ---------------------------------------------------

// UserRepository looks up and registers marketplace users.
type UserRepository interface {
	FindUserByID(ctx context.Context, id string) (models.User, error)
	FindUserByPhone(ctx context.Context, phone string) (models.User, error)
	InsertUser(ctx context.Context, u models.User) error
}

// TokenIssuer signs and verifies session tokens.
type TokenIssuer interface {
	Issue(userID string, role models.Role) (string, error)
	Parse(token string) (*auth.Claims, error)
}

// ---- Service interface + implementation ------------------------------------

// Session is an authenticated caller.
type Session struct {
	User      models.User
	TokenID   string
	ExpiresAt time.Time
}

// AuthService registers users and manages their session tokens.
type AuthService interface {
	Signup(ctx context.Context, req models.SignupRequest) (models.SessionResponse, error)
	Login(ctx context.Context, req models.LoginRequest) (models.SessionResponse, error)
	// Authenticate resolves a bearer token to its user.
	Authenticate(ctx context.Context, token string) (Session, error)
	// Logout revokes the session's token until it expires.
	Logout(ctx context.Context, s Session) error
}

const (
	defaultTown      = "Nairobi"
	defaultStoreName = "My Store"
)

type authService struct {
	users   UserRepository
	tokens  TokenIssuer
	revoker auth.Revoker
	log     logger.Logger
	now     func() time.Time
}

// NewAuthService wires dependencies.
func NewAuthService(users UserRepository, tokens TokenIssuer, revoker auth.Revoker, log logger.Logger) AuthService {
	return &authService{
		users:   users,
		tokens:  tokens,
		revoker: revoker,
		log:     log,
		now:     time.Now,
	}
}

func (s *authService) Signup(ctx context.Context, req models.SignupRequest) (models.SessionResponse, error) {
	if req.Phone == "" || req.Password == "" || req.Name == "" || req.Role == "" {
		return models.SessionResponse{}, apperr.Validation("Missing required fields")
	}
	role, ok := models.ParseRole(req.Role)
	if !ok {
		return models.SessionResponse{}, apperr.Validation("Role must be buyer or seller")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return models.SessionResponse{}, apperr.Wrap(apperr.CodeValidation, "Password cannot be used", err)
	}

	u := models.User{
		ID:           uuid.NewString(),
		Phone:        strings.TrimSpace(req.Phone),
		PasswordHash: hash,
		Name:         req.Name,
		Role:         role,
		Town:         req.Town,
		CreatedAt:    s.now().UTC(),
	}
	if u.Town == "" {
		u.Town = defaultTown
	}
	if role == models.RoleSeller {
		store := req.StoreName
		if store == "" {
			store = defaultStoreName
		}
		u.StoreName = &store
		u.Availability = &models.Availability{Status: models.StatusOnline}
	}

	if err := s.users.InsertUser(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicatePhone) {
			return models.SessionResponse{}, apperr.New(apperr.CodeDuplicatePhone, "Phone already registered")
		}
		return models.SessionResponse{}, apperr.Storage(err)
	}

	s.log.Info("user signed up", map[string]interface{}{"userId": u.ID, "role": u.Role})
	return s.issue(u)
}

func (s *authService) Login(ctx context.Context, req models.LoginRequest) (models.SessionResponse, error) {
	u, err := s.users.FindUserByPhone(ctx, strings.TrimSpace(req.Phone))
	if errors.Is(err, repository.ErrNotFound) {
		return models.SessionResponse{}, apperr.Unauthorized("Invalid credentials")
	}
	if err != nil {
		return models.SessionResponse{}, apperr.Storage(err)
	}
	if !auth.CheckPassword(u.PasswordHash, req.Password) {
		s.log.Warn("login rejected", map[string]interface{}{"userId": u.ID})
		return models.SessionResponse{}, apperr.Unauthorized("Invalid credentials")
	}
	return s.issue(u)
}

func (s *authService) Authenticate(ctx context.Context, token string) (Session, error) {
	if token == "" {
		return Session{}, apperr.Unauthorized("Missing token")
	}
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return Session{}, apperr.Unauthorized("Invalid token")
	}
	revoked, err := s.revoker.IsRevoked(ctx, claims.ID)
	if err != nil {
		return Session{}, apperr.Storage(err)
	}
	if revoked {
		return Session{}, apperr.Unauthorized("Invalid token")
	}

	u, err := s.users.FindUserByID(ctx, claims.Subject)
	if errors.Is(err, repository.ErrNotFound) {
		return Session{}, apperr.Unauthorized("Invalid user")
	}
	if err != nil {
		return Session{}, apperr.Storage(err)
	}
	return Session{User: u, TokenID: claims.ID, ExpiresAt: claims.ExpiresAt.Time}, nil
}

func (s *authService) Logout(ctx context.Context, sess Session) error {
	if err := s.revoker.Revoke(ctx, sess.TokenID, sess.ExpiresAt); err != nil {
		return apperr.Storage(err)
	}
	s.log.Info("user logged out", map[string]interface{}{"userId": sess.User.ID})
	return nil
}

func (s *authService) issue(u models.User) (models.SessionResponse, error) {
	token, err := s.tokens.Issue(u.ID, u.Role)
	if err != nil {
		return models.SessionResponse{}, apperr.Wrap(apperr.CodeInternal, "Could not create session", err)
	}
	return models.SessionResponse{
		Token:     token,
		Role:      u.Role,
		Name:      u.Name,
		StoreName: u.StoreName,
	}, nil
}
