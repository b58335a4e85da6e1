package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"movie-explorer/internal/models"
	"movie-explorer/internal/timeutil"
)

const (
	authSessionKey   = "auth_session"
	userDirectoryKey = "user_directory"

	minPasswordLength = 6
)

var (
	// ErrValidation marks signup or login form-level failures. Callers
	// surface these inline rather than treating them as faults.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidCredentials is returned for any login mismatch. It is
	// deliberately the same for an unknown username and a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUsernameTaken is returned when signup hits an existing username.
	ErrUsernameTaken = errors.New("username already taken")
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// AuthService tracks the logged-in user and the persisted user
// directory. Credentials are stored as bcrypt hashes; the login and
// signup contract is otherwise the plain username/password one.
type AuthService struct {
	mu      sync.Mutex
	store   KV
	current *models.User
}

// NewAuthService creates an AuthService, restoring a persisted session
// record when one exists.
func NewAuthService(store KV) *AuthService {
	s := &AuthService{store: store}

	raw, ok, err := store.Get(authSessionKey)
	if err != nil {
		log.Warn().Err(err).Msg("failed to load auth session")
		return s
	}
	if !ok {
		return s
	}

	var user models.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		log.Warn().Err(err).Msg("failed to decode stored auth session")
		return s
	}
	s.current = &user
	return s
}

// Signup validates the profile, appends it to the user directory and
// immediately establishes a session for the new user. Usernames are
// compared case-sensitively.
func (s *AuthService) Signup(username, password, email string) (*models.User, error) {
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", ErrValidation)
	}
	if len(password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", ErrValidation, minPasswordLength)
	}
	if !emailPattern.MatchString(email) {
		return nil, fmt.Errorf("%w: email is malformed", ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	directory := s.loadDirectoryLocked()
	for _, u := range directory {
		if u.Username == username {
			return nil, ErrUsernameTaken
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	stored := models.StoredUser{
		ID:           timeutil.Now().UnixMilli(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
	}
	directory = append(directory, stored)
	s.persistDirectoryLocked(directory)

	user := models.User{ID: stored.ID, Username: stored.Username, Email: stored.Email}
	s.establishSessionLocked(user)
	return &user, nil
}

// Login checks the username and password against the user directory and
// establishes a session on a match. Any mismatch returns
// ErrInvalidCredentials with no state change.
func (s *AuthService) Login(username, password string) (*models.User, error) {
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.loadDirectoryLocked() {
		if u.Username != username {
			continue
		}
		if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
			return nil, ErrInvalidCredentials
		}
		user := models.User{ID: u.ID, Username: u.Username, Email: u.Email}
		s.establishSessionLocked(user)
		return &user, nil
	}
	return nil, ErrInvalidCredentials
}

// Logout clears the session. The user directory and favorites survive.
func (s *AuthService) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = nil
	if err := s.store.Remove(authSessionKey); err != nil {
		log.Warn().Err(err).Msg("failed to remove persisted auth session")
	}
}

// IsAuthenticated reports whether a user is logged in.
func (s *AuthService) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current != nil
}

// CurrentUser returns the logged-in user, or nil.
func (s *AuthService) CurrentUser() *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return nil
	}
	user := *s.current
	return &user
}

// establishSessionLocked sets and persists the session record. Callers
// must hold s.mu.
func (s *AuthService) establishSessionLocked(user models.User) {
	s.current = &user

	raw, err := json.Marshal(user)
	if err != nil {
		log.Warn().Err(err).Msg("failed to encode auth session")
		return
	}
	if err := s.store.Set(authSessionKey, string(raw)); err != nil {
		log.Warn().Err(err).Msg("failed to persist auth session")
	}
}

// loadDirectoryLocked reads the persisted user directory. Callers must
// hold s.mu.
func (s *AuthService) loadDirectoryLocked() []models.StoredUser {
	raw, ok, err := s.store.Get(userDirectoryKey)
	if err != nil {
		log.Warn().Err(err).Msg("failed to load user directory")
		return nil
	}
	if !ok {
		return nil
	}

	var directory []models.StoredUser
	if err := json.Unmarshal([]byte(raw), &directory); err != nil {
		log.Warn().Err(err).Msg("failed to decode user directory")
		return nil
	}
	return directory
}

// persistDirectoryLocked writes the whole directory. Callers must hold s.mu.
func (s *AuthService) persistDirectoryLocked(directory []models.StoredUser) {
	raw, err := json.Marshal(directory)
	if err != nil {
		log.Warn().Err(err).Msg("failed to encode user directory")
		return
	}
	if err := s.store.Set(userDirectoryKey, string(raw)); err != nil {
		log.Warn().Err(err).Msg("failed to persist user directory")
	}
}
