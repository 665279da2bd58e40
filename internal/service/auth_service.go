package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/iliyamo/account-service/internal/model"
	"github.com/iliyamo/account-service/internal/repository"
	"github.com/iliyamo/account-service/internal/utils"
)

// PasswordHasher hashes and checks plaintext passwords.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, digest string) bool
}

// TokenIssuer signs access tokens for a user id.
type TokenIssuer interface {
	Issue(userID int64) (utils.AccessToken, error)
}

// SignupInput is the data accepted from an anonymous caller. There is no
// role field: new accounts are always plain users.
type SignupInput struct {
	Username string
	Email    string
	Password string
}

// LoginResult is returned on a successful login.
type LoginResult struct {
	AccessToken string     `json:"access_token"`
	TokenType   string     `json:"token_type"`
	Role        model.Role `json:"role"`
}

// AuthService orchestrates signup, login and profile management on top of
// the user store, the password hasher and the token issuer.
type AuthService struct {
	users  repository.UserStore
	hasher PasswordHasher
	tokens TokenIssuer
	// dummyDigest is checked when the email is unknown so both login
	// failure paths cost one bcrypt comparison.
	dummyDigest string
}

func NewAuthService(users repository.UserStore, hasher PasswordHasher, tokens TokenIssuer) (*AuthService, error) {
	dummy, err := hasher.Hash("account-service-dummy-password")
	if err != nil {
		return nil, fmt.Errorf("prepare dummy digest: %w", err)
	}
	return &AuthService{users: users, hasher: hasher, tokens: tokens, dummyDigest: dummy}, nil
}

// Signup creates a user with role user and returns the stored record.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*model.User, error) {
	email := normalizeEmail(in.Email)
	if email == "" {
		return nil, ErrEmptyEmail
	}
	username := strings.TrimSpace(in.Username)
	if username == "" {
		return nil, ErrEmptyUsername
	}
	// Best-effort pre-check; the unique index is the final arbiter.
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, ErrDuplicateEmail
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("signup: %w", err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("signup: hash password: %w", err)
	}
	u := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         model.RoleUser,
		IsActive:     true,
		PhoneNumber:  model.DefaultPhoneNumber,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("signup: %w", err)
	}
	return u, nil
}

// Login checks the credentials and issues an access token. Unknown email
// and wrong password produce the same error.
func (s *AuthService) Login(ctx context.Context, email, password string) (LoginResult, error) {
	u, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.hasher.Verify(password, s.dummyDigest)
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, fmt.Errorf("login: %w", err)
	}
	if !s.hasher.Verify(password, u.PasswordHash) {
		return LoginResult{}, ErrInvalidCredentials
	}

	tok, err := s.tokens.Issue(u.ID)
	if err != nil {
		return LoginResult{}, fmt.Errorf("login: issue token: %w", err)
	}
	return LoginResult{AccessToken: tok.Token, TokenType: "bearer", Role: u.Role}, nil
}

// GetSelf returns the identity resolved by the access guard.
func (s *AuthService) GetSelf(u *model.User) *model.User {
	return u
}

// UpdateSelf applies patch to the caller's own record. The target is always
// the guard-resolved user, never an id from the request body. Only the sent
// profile columns are written, so role, active status and any field the
// caller did not send keep whatever the store holds now. An empty patch
// changes nothing and does not touch the store.
func (s *AuthService) UpdateSelf(ctx context.Context, current *model.User, patch model.SelfPatch) (*model.User, error) {
	updated := *current
	if patch.Empty() {
		return &updated, nil
	}
	if err := s.applyPatch(ctx, &updated, current.Email, patch); err != nil {
		return nil, err
	}

	var ch repository.ProfileChanges
	if patch.Username != nil {
		ch.Username = &updated.Username
	}
	if patch.Email != nil {
		ch.Email = &updated.Email
	}
	if patch.PhoneNumber != nil {
		ch.PhoneNumber = &updated.PhoneNumber
	}
	if patch.Password != nil {
		ch.PasswordHash = &updated.PasswordHash
	}
	if err := s.users.UpdateProfile(ctx, current.ID, ch); err != nil {
		return nil, mapWriteErr(err, current.ID)
	}
	return s.GetByID(ctx, current.ID)
}

// ListAll returns every user in store order.
func (s *AuthService) ListAll(ctx context.Context) ([]model.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// GetByID returns a single user.
func (s *AuthService) GetByID(ctx context.Context, id int64) (*model.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}
	return u, nil
}

// AdminUpdate applies patch to the user named by patch.ID. Besides the
// self-service fields it may change role and active status.
func (s *AuthService) AdminUpdate(ctx context.Context, patch model.AdminPatch) (*model.User, error) {
	if patch.Role != nil && !patch.Role.Valid() {
		return nil, ErrInvalidRole
	}
	target, err := s.GetByID(ctx, patch.ID)
	if err != nil {
		return nil, err
	}
	if patch.Empty() {
		return target, nil
	}

	if err := s.applyPatch(ctx, target, target.Email, patch.SelfPatch); err != nil {
		return nil, err
	}
	if patch.Role != nil {
		target.Role = *patch.Role
	}
	if patch.IsActive != nil {
		target.IsActive = *patch.IsActive
	}
	if err := s.save(ctx, target); err != nil {
		return nil, err
	}
	return target, nil
}

// DeleteSelf permanently removes the caller's account. A record that is
// already gone yields ErrNotFound.
func (s *AuthService) DeleteSelf(ctx context.Context, current *model.User) error {
	if err := s.users.Delete(ctx, current.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete user %d: %w", current.ID, err)
	}
	return nil
}

// BootstrapAdmin creates an admin account when the store has none. It
// reports whether an account was created.
func (s *AuthService) BootstrapAdmin(ctx context.Context, email, password string) (bool, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return false, nil
	}
	n, err := s.users.CountByRole(ctx, model.RoleAdmin)
	if err != nil {
		return false, fmt.Errorf("bootstrap admin: %w", err)
	}
	if n > 0 {
		return false, nil
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return false, fmt.Errorf("bootstrap admin: hash password: %w", err)
	}
	existing, err := s.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		// promote the account that already owns the address
		existing.Role = model.RoleAdmin
		existing.PasswordHash = hash
		existing.IsActive = true
		return true, s.save(ctx, existing)
	case !errors.Is(err, repository.ErrNotFound):
		return false, fmt.Errorf("bootstrap admin: %w", err)
	}

	admin := &model.User{
		Username:     "admin",
		Email:        email,
		PasswordHash: hash,
		Role:         model.RoleAdmin,
		IsActive:     true,
		PhoneNumber:  model.DefaultPhoneNumber,
	}
	if err := s.users.Create(ctx, admin); err != nil {
		return false, fmt.Errorf("bootstrap admin: %w", err)
	}
	return true, nil
}

// applyPatch copies the sent fields of p onto u. A changed email is checked
// against other accounts and a new password is hashed before it is stored.
func (s *AuthService) applyPatch(ctx context.Context, u *model.User, currentEmail string, p model.SelfPatch) error {
	if p.Username != nil {
		name := strings.TrimSpace(*p.Username)
		if name == "" {
			return ErrEmptyUsername
		}
		u.Username = name
	}
	if p.Email != nil {
		email := normalizeEmail(*p.Email)
		if email == "" {
			return ErrEmptyEmail
		}
		if email != currentEmail {
			other, err := s.users.GetByEmail(ctx, email)
			switch {
			case err == nil && other.ID != u.ID:
				return ErrDuplicateEmail
			case err != nil && !errors.Is(err, repository.ErrNotFound):
				return fmt.Errorf("check email: %w", err)
			}
		}
		u.Email = email
	}
	if p.PhoneNumber != nil {
		u.PhoneNumber = strings.TrimSpace(*p.PhoneNumber)
	}
	if p.Password != nil {
		if *p.Password == "" {
			return ErrEmptyPassword
		}
		hash, err := s.hasher.Hash(*p.Password)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		u.PasswordHash = hash
	}
	return nil
}

func (s *AuthService) save(ctx context.Context, u *model.User) error {
	if err := s.users.Update(ctx, u); err != nil {
		return mapWriteErr(err, u.ID)
	}
	return nil
}

func mapWriteErr(err error, id int64) error {
	switch {
	case errors.Is(err, repository.ErrEmailExists):
		return ErrDuplicateEmail
	case errors.Is(err, repository.ErrNotFound):
		return ErrNotFound
	}
	return fmt.Errorf("update user %d: %w", id, err)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
