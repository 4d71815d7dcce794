package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/avelez/photodeck-be/internal/apperrors"
	"github.com/avelez/photodeck-be/internal/auth"
	"github.com/avelez/photodeck-be/internal/models"
	"github.com/avelez/photodeck-be/internal/userstore"
)

const (
	minUsernameLen = 3
	maxUsernameLen = 50
	minPasswordLen = 6
)

// LoginResult is what a successful login returns to the caller.
type LoginResult struct {
	Token     string      `json:"token"`
	TokenType string      `json:"tokenType"`
	User      models.User `json:"user"`
}

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	Register(ctx context.Context, username, password string) (models.User, error)
	GetByID(ctx context.Context, id string) (models.User, error)
	GetByUsername(ctx context.Context, username string) (models.User, error)
	List(ctx context.Context, skip, limit int, search string) (models.UserList, error)
	Update(ctx context.Context, id, username, password string) (models.User, error)
	Delete(ctx context.Context, id string) error
	Authenticate(ctx context.Context, username, password string) (models.User, error)
	Login(ctx context.Context, username, password string) (LoginResult, error)
}

// UserService provides business logic for user management and
// authentication over an injected store backend.
type UserService struct {
	store  userstore.Store
	tokens *auth.TokenManager
}

// NewUserService creates a new UserService.
func NewUserService(store userstore.Store, tokens *auth.TokenManager) *UserService {
	return &UserService{store: store, tokens: tokens}
}

// Register creates a new user, hashing their password.
func (s *UserService) Register(ctx context.Context, username, password string) (models.User, error) {
	if len(username) < minUsernameLen || len(username) > maxUsernameLen {
		return models.User{}, apperrors.Newf(apperrors.KindValidation,
			"username must be between %d and %d characters", minUsernameLen, maxUsernameLen)
	}
	if len(password) < minPasswordLen {
		return models.User{}, apperrors.Newf(apperrors.KindValidation,
			"password must be at least %d characters", minPasswordLen)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return models.User{}, err
	}

	user := models.User{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: hash,
	}
	return s.store.Create(ctx, user)
}

// GetByID retrieves a single user by their ID.
func (s *UserService) GetByID(ctx context.Context, id string) (models.User, error) {
	return s.store.GetByID(ctx, id)
}

// GetByUsername retrieves a single user by their username.
func (s *UserService) GetByUsername(ctx context.Context, username string) (models.User, error) {
	return s.store.GetByUsername(ctx, username)
}

// List returns a page of users, filtered by an optional search term.
func (s *UserService) List(ctx context.Context, skip, limit int, search string) (models.UserList, error) {
	var users []models.User
	var err error
	if search != "" {
		users, err = s.store.Search(ctx, search, skip, limit)
	} else {
		users, err = s.store.List(ctx, skip, limit)
	}
	if err != nil {
		return models.UserList{}, err
	}

	total, err := s.store.Count(ctx)
	if err != nil {
		return models.UserList{}, err
	}

	return models.UserList{Users: users, Total: total, Skip: skip, Limit: limit}, nil
}

// Update changes a user's username and/or password. Empty fields are left
// unchanged.
func (s *UserService) Update(ctx context.Context, id, username, password string) (models.User, error) {
	user, err := s.store.GetByID(ctx, id)
	if err != nil {
		return models.User{}, err
	}

	if username != "" {
		if len(username) < minUsernameLen || len(username) > maxUsernameLen {
			return models.User{}, apperrors.Newf(apperrors.KindValidation,
				"username must be between %d and %d characters", minUsernameLen, maxUsernameLen)
		}
		user.Username = username
	}
	if password != "" {
		if len(password) < minPasswordLen {
			return models.User{}, apperrors.Newf(apperrors.KindValidation,
				"password must be at least %d characters", minPasswordLen)
		}
		hash, err := auth.HashPassword(password)
		if err != nil {
			return models.User{}, err
		}
		user.PasswordHash = hash
	}

	return s.store.Update(ctx, user)
}

// Delete removes a user account.
func (s *UserService) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

// Authenticate verifies a user's credentials. An unknown username and a wrong
// password both yield the same unauthorized error so callers cannot
// distinguish them.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (models.User, error) {
	user, err := s.store.GetByUsername(ctx, username)
	if err != nil {
		if apperrors.IsKind(err, apperrors.KindNotFound) {
			return models.User{}, apperrors.New(apperrors.KindUnauthorized, "invalid credentials")
		}
		return models.User{}, err
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		return models.User{}, apperrors.New(apperrors.KindUnauthorized, "invalid credentials")
	}
	return user, nil
}

// Login authenticates and mints a bearer token. Every failure mode collapses
// into a single unauthorized result, except store errors which stay fatal.
func (s *UserService) Login(ctx context.Context, username, password string) (LoginResult, error) {
	user, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return LoginResult{}, err
	}

	token, err := s.tokens.Generate(user.Username)
	if err != nil {
		return LoginResult{}, err
	}

	return LoginResult{Token: token, TokenType: "bearer", User: user}, nil
}
