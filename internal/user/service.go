package user

import (
	"context"
	"errors"

	"github.com/abakymuk/DriverOS/internal/apperror"
	"github.com/abakymuk/DriverOS/internal/auth"
)

var (
	ErrEmailExists        = apperror.Conflict("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*LoginResponse, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	GetByID(ctx context.Context, id string) (*User, error)
	Refresh(ctx context.Context, refreshToken string) (*LoginResponse, error)
}

type service struct {
	repo   Repository
	tokens *auth.Issuer
}

func NewService(repo Repository, tokens *auth.Issuer) Service {
	return &service{repo: repo, tokens: tokens}
}

// Register creates a dispatcher account. Admins are provisioned by seeding.
func (s *service) Register(ctx context.Context, req RegisterRequest) (*LoginResponse, error) {
	exists, err := s.repo.EmailExists(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailExists
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	u, err := s.repo.Create(ctx, req.Name, req.Email, hash, auth.RoleDispatcher)
	if err != nil {
		return nil, err
	}

	return s.issue(u)
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	u, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !auth.CheckPassword(u.PasswordHash, req.Password) {
		return nil, ErrInvalidCredentials
	}

	return s.issue(u)
}

func (s *service) GetByID(ctx context.Context, id string) (*User, error) {
	return s.repo.FindByID(ctx, id)
}

// Refresh issues a new access token for the account behind refreshToken.
// Email and role come from the stored account, so a role change applies
// on the next refresh and a removed account cannot refresh at all.
func (s *service) Refresh(ctx context.Context, refreshToken string) (*LoginResponse, error) {
	claims, err := s.tokens.Parse(refreshToken, auth.KindRefresh)
	if err != nil {
		return nil, err
	}

	u, err := s.repo.FindByID(ctx, claims.Subject)
	if err != nil {
		return nil, err
	}

	access, err := s.tokens.Access(u.Operator())
	if err != nil {
		return nil, err
	}
	return &LoginResponse{AccessToken: access, User: *u}, nil
}

func (s *service) issue(u *User) (*LoginResponse, error) {
	pair, err := s.tokens.Pair(u.Operator())
	if err != nil {
		return nil, err
	}
	return &LoginResponse{AccessToken: pair.Access, RefreshToken: pair.Refresh, User: *u}, nil
}
