package blog

import (
	"context"
	"errors"
	"net/mail"
	"regexp"
	"strings"
	"sync"

	"blog-serwer/internal/auth"
	"blog-serwer/internal/database"
	"blog-serwer/internal/models"
)

const (
	maxUsernameLength = 40
	maxEmailLength    = 120
	minPasswordLength = 6
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

var checkPassword = auth.CheckPasswordHash

// dummyPasswordHash is compared against when the login matches no user, so
// unknown and known logins cost the same bcrypt work.
var dummyPasswordHash = sync.OnceValue(func() string {
	hash, err := auth.HashPassword("no-such-user-placeholder")
	if err != nil {
		panic(err)
	}
	return hash
})

func validateRegistration(username, email, password string) error {
	switch {
	case username == "":
		return invalid("username", "is required")
	case len(username) > maxUsernameLength:
		return invalid("username", "is too long")
	case username == "." || username == ".." || !usernamePattern.MatchString(username):
		return invalid("username", "may only contain letters, digits, '_', '.' and '-'")
	}

	if email == "" {
		return invalid("email", "is required")
	}
	if len(email) > maxEmailLength {
		return invalid("email", "is too long")
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return invalid("email", "is not a valid address")
	}

	if len(password) < minPasswordLength {
		return invalid("password", "must be at least 6 characters")
	}
	return nil
}

// Register creates a user. The password is only ever stored as a bcrypt hash.
func (s *Service) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))

	if err := validateRegistration(username, email, password); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	ctx, cancel := s.metadataCtx(ctx)
	defer cancel()

	user, err := s.store.InsertUser(ctx, database.InsertUserParams{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, database.ErrUsernameTaken) || errors.Is(err, database.ErrEmailTaken) {
			return nil, err
		}
		return nil, metadataError("insert user", err)
	}

	logger.Infof("user %q registered", user.Username)
	s.journalEvent(ctx, user.ID, database.EventUserRegistered, map[string]interface{}{
		"username": user.Username,
	})

	return user, nil
}

// Authenticate checks a password against the user found by email or username.
func (s *Service) Authenticate(ctx context.Context, login, password string) (*models.User, error) {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	ctx, cancel := s.metadataCtx(ctx)
	defer cancel()

	user, err := s.store.FindUser(ctx, login)
	if err != nil {
		return nil, metadataError("find user", err)
	}
	if user == nil {
		checkPassword(password, dummyPasswordHash())
		logger.Debugf("failed login for unknown %q", login)
		return nil, ErrInvalidCredentials
	}
	if !checkPassword(password, user.PasswordHash) {
		logger.Debugf("failed login for %q", login)
		return nil, ErrInvalidCredentials
	}
	return user, nil
}
