package app

import (
	"context"
	"errors"
	"log"
	"regexp"
	"strings"
	"time"

	"userhub/internal/model"
	"userhub/internal/pkg/jwtutil"
	"userhub/internal/pkg/passhash"
	"userhub/internal/repository"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrUsernameExists     = errors.New("username already exists")
	ErrEmailExists        = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserGone           = errors.New("user no longer exists")
)

// emailPattern matches the basic local@domain.tld shape; nothing stricter.
var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// timingPad is compared against on the unknown-username login path so that a
// miss costs the same as a wrong password.
var timingPad, _ = passhash.Hash("userhub.login.timing.pad")

// UserStore is the credential store as the services consume it. The Mongo
// implementation lives in internal/repository; tests substitute a fake.
type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
	UpdateProfile(ctx context.Context, id string, changes repository.ProfileChanges) error
}

type SignupPublisher interface {
	PublishSignup(ctx context.Context, event model.SignupEvent) error
}

type AuthService struct {
	store     UserStore
	publisher SignupPublisher
	jwtSecret string
	jwtTTL    time.Duration
}

type RegisterInput struct {
	Username string
	Password string
	Email    string
}

type LoginInput struct {
	Username string
	Password string
}

type AuthResult struct {
	Token string
	User  *model.User
}

// NewAuthService wires the service. publisher may be nil when the signup
// event pipeline is disabled.
func NewAuthService(store UserStore, publisher SignupPublisher, jwtSecret string, jwtTTL time.Duration) *AuthService {
	return &AuthService{
		store:     store,
		publisher: publisher,
		jwtSecret: jwtSecret,
		jwtTTL:    jwtTTL,
	}
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	password := input.Password

	if username == "" || len(password) < 8 || !emailPattern.MatchString(email) {
		return nil, ErrInvalidInput
	}

	hash, err := passhash.Hash(password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	}
	// Uniqueness is enforced by the store's indexes at insert; no pre-check,
	// so concurrent duplicate registrations resolve there.
	if err := s.store.Create(ctx, user); err != nil {
		switch {
		case errors.Is(err, repository.ErrUsernameTaken):
			return nil, ErrUsernameExists
		case errors.Is(err, repository.ErrEmailTaken):
			return nil, ErrEmailExists
		default:
			return nil, err
		}
	}

	token, err := jwtutil.GenerateToken(s.jwtSecret, s.jwtTTL, user.ID.Hex())
	if err != nil {
		return nil, err
	}

	s.publishSignup(ctx, user)

	return &AuthResult{Token: token, User: user}, nil
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" || input.Password == "" {
		return nil, ErrInvalidInput
	}

	user, err := s.store.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		// Burn a hash comparison anyway; unknown usernames must not be
		// distinguishable from wrong passwords, by timing or by message.
		passhash.Verify(input.Password, timingPad)
		return nil, ErrInvalidCredentials
	}

	if !passhash.Verify(input.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	token, err := jwtutil.GenerateToken(s.jwtSecret, s.jwtTTL, user.ID.Hex())
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: user}, nil
}

func (s *AuthService) publishSignup(ctx context.Context, user *model.User) {
	if s.publisher == nil {
		return
	}
	event := model.SignupEvent{
		UserID:     user.ID.Hex(),
		Username:   user.Username,
		Email:      user.Email,
		OccurredAt: time.Now().UTC(),
	}
	if err := s.publisher.PublishSignup(ctx, event); err != nil {
		// Registration already succeeded; the audit trail is best-effort.
		log.Printf("publish signup event failed: %v", err)
	}
}
