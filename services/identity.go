package services

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rpupo63/portfolio-backend/config"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

// UserStore is the persistence the identity service needs.
type UserStore interface {
	Add(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
}

// Claims is what a verified token says about its bearer.
type Claims struct {
	Subject   uint
	ExpiresAt time.Time
}

type IdentityService struct {
	users  UserStore
	secret []byte
	ttl    time.Duration
	now    func() time.Time
	logger zerolog.Logger
}

type IdentityOption func(*IdentityService)

// WithClock replaces time.Now for issuing and verifying tokens.
func WithClock(now func() time.Time) IdentityOption {
	return func(s *IdentityService) {
		s.now = now
	}
}

func NewIdentityService(users UserStore, cfg config.AuthConfig, opts ...IdentityOption) (*IdentityService, error) {
	if cfg.JWTSecret == "" {
		return nil, errors.New("identity service requires a JWT secret")
	}
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = config.DefaultTokenTTL
	}

	s := &IdentityService{
		users:  users,
		secret: []byte(cfg.JWTSecret),
		ttl:    ttl,
		now:    time.Now,
		logger: log.With().Str("serviceName", "identityService").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// dummyHash is compared against when no user matches a login email.
var dummyHash = sync.OnceValue(func() []byte {
	hash, err := bcrypt.GenerateFromPassword([]byte("no-such-user-password"), bcrypt.DefaultCost)
	if err != nil {
		panic(err)
	}
	return hash
})

// NormalizeEmail is applied to every email before it is stored or looked up.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register stores a new user with a bcrypt hash of password.
func (s *IdentityService) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	email = NormalizeEmail(email)

	switch {
	case username == "":
		return nil, errs.NewMissingRequiredFieldError("username")
	case email == "":
		return nil, errs.NewMissingRequiredFieldError("email")
	case password == "":
		return nil, errs.NewMissingRequiredFieldError("password")
	}

	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "user", err)
	}
	if existing != nil {
		return nil, errs.NewAlreadyExists("user with this email")
	}
	existing, err = s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "user", err)
	}
	if existing != nil {
		return nil, errs.NewAlreadyExists("user with this username")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, errs.NewInvalidFieldError("password", "must be at most 72 bytes")
	}
	if err != nil {
		return nil, errs.NewInternalError("failed to hash password")
	}

	user := &models.User{Username: username, Email: email, PasswordHash: string(hash)}
	if err := s.users.Add(ctx, user); err != nil {
		return nil, errs.NewDatabaseError("create", "user", err)
	}

	s.logger.Info().Uint("userID", user.ID).Msg("User registered")
	return user, nil
}

// Login returns a signed token for the user with the given email and password.
// Unknown emails and wrong passwords fail with the same error after one hash comparison.
func (s *IdentityService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return "", errs.NewDatabaseError("find", "user", err)
	}

	if user == nil {
		_ = bcrypt.CompareHashAndPassword(dummyHash(), []byte(password))
		return "", errs.NewInvalidCredentialsError()
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", errs.NewInvalidCredentialsError()
	}

	token, _, err := s.IssueToken(user.ID)
	return token, err
}

// IssueToken signs an HS256 token for userID that expires after the configured TTL.
func (s *IdentityService) IssueToken(userID uint) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.ttl)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(uint64(userID), 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to sign token")
		return "", time.Time{}, errs.NewInternalError("failed to sign token")
	}
	return signed, expiresAt, nil
}

// VerifyToken checks the signature and expiry of tokenString and returns its claims.
func (s *IdentityService) VerifyToken(tokenString string) (Claims, error) {
	if tokenString == "" {
		return Claims{}, errs.NewMissingTokenError()
	}

	var registered jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(tokenString, &registered,
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if errors.Is(err, jwt.ErrTokenExpired) {
		return Claims{}, errs.NewExpiredTokenError()
	}
	if err != nil {
		return Claims{}, errs.NewInvalidTokenError(err.Error())
	}

	if registered.Subject == "" {
		return Claims{}, errs.NewInvalidTokenError("token has no subject")
	}
	id, err := strconv.ParseUint(registered.Subject, 10, 0)
	if err != nil || id == 0 {
		return Claims{}, errs.NewInvalidTokenError("token subject is not a user id")
	}

	return Claims{Subject: uint(id), ExpiresAt: registered.ExpiresAt.Time}, nil
}
