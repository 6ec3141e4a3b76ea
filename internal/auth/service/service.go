// Package service implements authentication: credential checks and
// access token issuance.
package service

import (
	"context"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"dealerhub_backend/internal/auth/password"
	"dealerhub_backend/internal/auth/repository"
	"dealerhub_backend/internal/auth/roles"
	"dealerhub_backend/internal/auth/transport"
	"dealerhub_backend/platform/apperr"
	"dealerhub_backend/platform/config"
	"dealerhub_backend/platform/logger"
)

const accessTokenType = "access"

// Service provides authentication business logic.
type Service struct {
	repo *repository.Repository
	cfg  config.AuthServiceConfig
	log  *logger.Logger
}

// New creates a new auth service.
func New(repo *repository.Repository, cfg config.AuthServiceConfig, log *logger.Logger) *Service {
	return &Service{repo: repo, cfg: cfg, log: log}
}

// Login checks credentials and issues a signed access token carrying
// the user's role and home dealer id.
func (s *Service) Login(ctx context.Context, req transport.LoginRequest) (transport.LoginResponse, error) {
	const op = "auth.Login"

	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		s.log.AuthEvent("login", email, false, "unknown user")
		return transport.LoginResponse{}, apperr.Unauthorized("invalid credentials").WithOp(op)
	}

	if err := password.Compare(user.PasswordHash, req.Password); err != nil {
		s.log.AuthEvent("login", email, false, "invalid password")
		return transport.LoginResponse{}, apperr.Unauthorized("invalid credentials").WithOp(op)
	}

	if !user.Active {
		s.log.AuthEvent("login", email, false, "account deactivated")
		return transport.LoginResponse{}, apperr.Unauthorized("account is deactivated").WithOp(op)
	}

	ttl := s.cfg.GetAccessTokenTTL()
	token, err := s.signAccessToken(user, ttl)
	if err != nil {
		return transport.LoginResponse{}, apperr.Wrap(apperr.KindInternal, "sign access token", err).WithOp(op)
	}

	s.log.AuthEvent("login", user.Email, true, "")

	return transport.LoginResponse{
		AccessToken: token,
		ExpiresIn:   int64(ttl.Seconds()),
		User:        mapUserResponse(user),
	}, nil
}

// Me returns the profile of the authenticated user.
func (s *Service) Me(ctx context.Context, userID uuid.UUID) (transport.UserResponse, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return transport.UserResponse{}, err
	}
	return mapUserResponse(user), nil
}

// CreateUser provisions a new account. Dealer-side roles must carry a
// home dealer; the platform admin role must not.
func (s *Service) CreateUser(ctx context.Context, req transport.CreateUserRequest) (transport.UserResponse, error) {
	const op = "auth.CreateUser"

	if !roles.Valid(req.Role) {
		return transport.UserResponse{}, apperr.Validation("unknown role: " + req.Role).WithOp(op)
	}
	if roles.DealerSide(req.Role) && req.DealerID == nil {
		return transport.UserResponse{}, apperr.Validation("dealer-side roles require a dealerId").WithOp(op)
	}
	if req.Role == roles.Admin && req.DealerID != nil {
		return transport.UserResponse{}, apperr.Validation("administrators cannot belong to a dealer").WithOp(op)
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return transport.UserResponse{}, apperr.Wrap(apperr.KindInternal, "hash password", err).WithOp(op)
	}

	user, err := s.repo.Create(ctx, repository.User{
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hash,
		Name:         strings.TrimSpace(req.Name),
		Role:         req.Role,
		DealerID:     req.DealerID,
	})
	if err != nil {
		return transport.UserResponse{}, err
	}

	s.log.AuthEvent("user_created", user.Email, true, "")

	return mapUserResponse(user), nil
}

func (s *Service) signAccessToken(user repository.User, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  user.ID.String(),
		"type": accessTokenType,
		"role": user.Role,
		"exp":  now.Add(ttl).Unix(),
		"iat":  now.Unix(),
	}
	if user.DealerID != nil {
		claims["dealer_id"] = user.DealerID.String()
	}

	tokenObj := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tokenObj.SignedString([]byte(s.cfg.GetJWTAccessSecret()))
}

func mapUserResponse(user repository.User) transport.UserResponse {
	return transport.UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Role:      user.Role,
		DealerID:  user.DealerID,
		Active:    user.Active,
		CreatedAt: user.CreatedAt,
	}
}
