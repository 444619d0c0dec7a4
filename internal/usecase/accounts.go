package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/legolas182/NatureGlow/internal/entity"
	"github.com/legolas182/NatureGlow/internal/logging"
	"github.com/legolas182/NatureGlow/internal/security"
)

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

type UserInput struct {
	Name     string
	Email    string
	Password string
	Role     entity.Role
	Active   *bool
}

type Accounts struct {
	users  UserRepo
	tokens *security.TokenIssuer
}

func NewAccounts(users UserRepo, tokens *security.TokenIssuer) *Accounts {
	return &Accounts{users: users, tokens: tokens}
}

func (s *Accounts) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	if _, err := s.users.GetByEmail(ctx, in.Email); err == nil {
		return nil, entity.ErrEmailTaken
	} else if !errors.Is(err, entity.ErrUserNotFound) {
		return nil, err
	}
	hash, err := security.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	u := &entity.User{
		ID:           uuid.NewString(),
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         entity.RoleCustomer,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Login never says which of email/password was wrong, and treats a
// deactivated account the same as a bad credential.
func (s *Accounts) Login(ctx context.Context, email, password string) (string, *entity.User, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, entity.ErrUserNotFound) {
			return "", nil, entity.ErrInvalidCredentials
		}
		return "", nil, err
	}
	if !u.Active || !security.CheckPassword(u.PasswordHash, password) {
		return "", nil, entity.ErrInvalidCredentials
	}
	token, err := s.tokens.Issue(u)
	if err != nil {
		return "", nil, err
	}
	return token, u, nil
}

func (s *Accounts) Profile(ctx context.Context, caller entity.Caller) (*entity.User, error) {
	return s.users.GetByID(ctx, caller.ID)
}

func (s *Accounts) UpdateProfile(ctx context.Context, caller entity.Caller, name, password string) (*entity.User, error) {
	u, err := s.users.GetByID(ctx, caller.ID)
	if err != nil {
		return nil, err
	}
	if name != "" {
		u.Name = name
	}
	if password != "" {
		hash, err := security.HashPassword(password)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = hash
	}
	u.UpdatedAt = time.Now()
	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Accounts) ListUsers(ctx context.Context, caller entity.Caller) ([]*entity.User, error) {
	if !caller.IsAdmin() {
		return nil, entity.ErrNotAuthorized
	}
	return s.users.ListAll(ctx)
}

func (s *Accounts) GetUser(ctx context.Context, caller entity.Caller, id string) (*entity.User, error) {
	if !caller.IsAdmin() {
		return nil, entity.ErrNotAuthorized
	}
	return s.users.GetByID(ctx, id)
}

func (s *Accounts) CreateUser(ctx context.Context, caller entity.Caller, in UserInput) (*entity.User, error) {
	if !caller.IsAdmin() {
		return nil, entity.ErrNotAuthorized
	}
	if _, err := s.users.GetByEmail(ctx, in.Email); err == nil {
		return nil, entity.ErrEmailTaken
	} else if !errors.Is(err, entity.ErrUserNotFound) {
		return nil, err
	}
	hash, err := security.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	role := in.Role
	if role == "" {
		role = entity.RoleCustomer
	}
	now := time.Now()
	u := &entity.User{
		ID:           uuid.NewString(),
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         role,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Accounts) UpdateUser(ctx context.Context, caller entity.Caller, id string, in UserInput) (*entity.User, error) {
	if !caller.IsAdmin() {
		return nil, entity.ErrNotAuthorized
	}
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != "" {
		u.Name = in.Name
	}
	if in.Email != "" {
		u.Email = in.Email
	}
	if in.Password != "" {
		hash, err := security.HashPassword(in.Password)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = hash
	}
	if in.Role != "" {
		u.Role = in.Role
	}
	if in.Active != nil {
		u.Active = *in.Active
	}
	u.UpdatedAt = time.Now()
	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// DeleteUser deactivates rather than removes, so the user's orders keep
// a valid owner.
func (s *Accounts) DeleteUser(ctx context.Context, caller entity.Caller, id string) error {
	if !caller.IsAdmin() {
		return entity.ErrNotAuthorized
	}
	return s.users.SetActive(ctx, id, false)
}

// EnsureAdmin seeds the default administrator on startup if the account
// is missing.
func (s *Accounts) EnsureAdmin(ctx context.Context, name, email, password string) error {
	if email == "" || password == "" {
		return nil
	}
	_, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, entity.ErrUserNotFound) {
		return err
	}
	hash, err := security.HashPassword(password)
	if err != nil {
		return err
	}
	now := time.Now()
	u := &entity.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         entity.RoleAdmin,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return err
	}
	logging.FromCtx(ctx).Info("default admin created", "email", email)
	return nil
}
