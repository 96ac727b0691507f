package auth

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/iliyamo/school-help-desk/internal/model"
	"github.com/iliyamo/school-help-desk/internal/repository"
	"github.com/iliyamo/school-help-desk/internal/utils"
)

// UserStore is the slice of the user repository the service needs.
type UserStore interface {
	Create(ctx context.Context, email, passwordHash string, role model.Role) (uint64, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByID(ctx context.Context, id uint64) (model.User, error)
	Update(ctx context.Context, u model.User) error
	Delete(ctx context.Context, id uint64) error
}

// TokenStore persists refresh token hashes. Rotate must be atomic: either
// the old token is revoked and the new one stored, or neither happens.
type TokenStore interface {
	Store(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error
	Rotate(ctx context.Context, oldHash, newHash string, newExp time.Time) (uint64, error)
	Revoke(ctx context.Context, tokenHash string) error
	RevokeAllForUser(ctx context.Context, userID uint64) error
}

// Service orchestrates login, refresh, logout and user administration. It
// owns the signing secret and token lifetimes; handlers stay thin.
type Service struct {
	users          UserStore
	tokens         TokenStore
	jwtSecret      string
	accessTTLMin   int
	refreshTTLDays int
	bcryptCost     int
}

func NewService(users UserStore, tokens TokenStore, jwtSecret string, accessTTLMin, refreshTTLDays, bcryptCost int) *Service {
	return &Service{
		users:          users,
		tokens:         tokens,
		jwtSecret:      jwtSecret,
		accessTTLMin:   accessTTLMin,
		refreshTTLDays: refreshTTLDays,
		bcryptCost:     bcryptCost,
	}
}

// TokenPair is what a successful login or refresh hands back to the client.
type TokenPair struct {
	User    model.User
	Access  utils.AccessToken
	Refresh utils.RefreshToken
}

// Register creates a user with a hashed password. No tokens are issued;
// the client logs in separately.
func (s *Service) Register(ctx context.Context, email, password string, role model.Role) (model.User, error) {
	const op = "auth.register"

	email = strings.TrimSpace(email)
	hash, err := utils.HashPassword(password, s.bcryptCost)
	if err != nil {
		return model.User{}, fmt.Errorf("%s: %w", op, err)
	}
	id, err := s.users.Create(ctx, email, hash, role)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return model.User{}, ErrEmailExists
		}
		return model.User{}, storeErr(op, err)
	}
	return model.User{ID: id, Email: email, Role: role}, nil
}

// Login verifies credentials and issues a fresh access/refresh pair. An
// unknown email and a wrong password both fail with ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, email, password string) (TokenPair, error) {
	const op = "auth.login"

	u, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return TokenPair{}, ErrInvalidCredentials
		}
		return TokenPair{}, storeErr(op, err)
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		return TokenPair{}, ErrInvalidCredentials
	}

	access, err := utils.NewAccessToken(s.jwtSecret, u.ID, u.Role, s.accessTTLMin)
	if err != nil {
		return TokenPair{}, fmt.Errorf("%s: %w", op, err)
	}
	refresh, err := utils.NewRefreshToken(s.refreshTTLDays)
	if err != nil {
		return TokenPair{}, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.tokens.Store(ctx, u.ID, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
		return TokenPair{}, storeErr(op, err)
	}
	return TokenPair{User: u, Access: access, Refresh: refresh}, nil
}

// Refresh rotates a refresh token: the presented token is revoked and a
// successor stored in the same transaction, then a new access token is
// minted. Unknown, expired and already-rotated tokens all fail with
// ErrInvalidToken; a replayed (rotated) token only fails its own attempt.
func (s *Service) Refresh(ctx context.Context, presented string) (TokenPair, error) {
	const op = "auth.refresh"

	raw := strings.TrimSpace(presented)
	if raw == "" {
		return TokenPair{}, ErrInvalidToken
	}

	next, err := utils.NewRefreshToken(s.refreshTTLDays)
	if err != nil {
		return TokenPair{}, fmt.Errorf("%s: %w", op, err)
	}
	userID, err := s.tokens.Rotate(ctx, utils.HashRefreshRaw(raw), utils.HashRefreshRaw(next.Raw), next.Exp)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return TokenPair{}, ErrInvalidToken
		}
		return TokenPair{}, storeErr(op, err)
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return TokenPair{}, ErrInvalidToken
		}
		return TokenPair{}, storeErr(op, err)
	}
	access, err := utils.NewAccessToken(s.jwtSecret, u.ID, u.Role, s.accessTTLMin)
	if err != nil {
		return TokenPair{}, fmt.Errorf("%s: %w", op, err)
	}
	return TokenPair{User: u, Access: access, Refresh: next}, nil
}

// Logout revokes the presented refresh token. Unknown or already-revoked
// tokens still report success, so the endpoint leaks nothing about token
// validity.
func (s *Service) Logout(ctx context.Context, presented string) error {
	const op = "auth.logout"

	raw := strings.TrimSpace(presented)
	if raw == "" {
		return nil
	}
	if err := s.tokens.Revoke(ctx, utils.HashRefreshRaw(raw)); err != nil {
		return storeErr(op, err)
	}
	return nil
}

// UpdateUserParams carries the optional fields of an admin user update.
// Empty strings mean "leave unchanged".
type UpdateUserParams struct {
	Email    string
	Password string
	Role     string
}

// AdminUpdateUser changes a user's email, password and/or role. A new
// password is re-hashed before storage.
func (s *Service) AdminUpdateUser(ctx context.Context, id uint64, p UpdateUserParams) (model.User, error) {
	const op = "auth.admin_update_user"

	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.User{}, ErrUserNotFound
		}
		return model.User{}, storeErr(op, err)
	}
	if e := strings.TrimSpace(p.Email); e != "" {
		u.Email = e
	}
	if p.Password != "" {
		hash, err := utils.HashPassword(p.Password, s.bcryptCost)
		if err != nil {
			return model.User{}, fmt.Errorf("%s: %w", op, err)
		}
		u.PasswordHash = hash
	}
	if p.Role != "" {
		u.Role = model.ParseRole(p.Role)
	}
	if err := s.users.Update(ctx, u); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return model.User{}, ErrEmailExists
		}
		return model.User{}, storeErr(op, err)
	}
	return u, nil
}

// AdminDeleteUser removes a user. Refresh tokens, tickets and comments go
// with the row via FK cascade, so any outstanding refresh token of the
// deleted user stops working immediately.
func (s *Service) AdminDeleteUser(ctx context.Context, id uint64) error {
	const op = "auth.admin_delete_user"

	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return storeErr(op, err)
	}
	return nil
}

// storeErr wraps persistence failures, tagging the transient ones as
// ErrStoreUnavailable so the handler layer can answer 503 instead of 500.
func storeErr(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, driver.ErrBadConn) {
		return fmt.Errorf("%s: %w", op, ErrStoreUnavailable)
	}
	return fmt.Errorf("%s: %w", op, err)
}
