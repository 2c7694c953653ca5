// services/auth.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"padel-club-api/config"
	"padel-club-api/models"
	"padel-club-api/storage"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/unicode/norm"
)

const TokenTypeBearer = "bearer"

// Token is the login response body.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// AuthService verifies credentials and issues/validates bearer tokens.
type AuthService struct {
	users  UserStore
	secret []byte
	ttl    time.Duration
	now    func() time.Time
	log    *zap.SugaredLogger
}

func NewAuthService(users UserStore, cfg config.AuthConfig, log *zap.SugaredLogger) *AuthService {
	return &AuthService{
		users:  users,
		secret: []byte(cfg.SecretKey),
		ttl:    cfg.AccessTokenTTL,
		now:    time.Now,
		log:    log,
	}
}

// Authenticate checks email and password and returns a signed token.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*Token, error) {
	email = NormalizeEmail(email)
	s.log.Infow("login attempt", "email", email)

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}
	if user == nil {
		// spend the same bcrypt work as a wrong password would
		CheckPassword(dummyPasswordHash(), password)
		s.log.Warnw("invalid login credentials", "email", email)
		return nil, unauthorized("Incorrect email or password")
	}
	if !CheckPassword(user.HashedPassword, password) {
		s.log.Warnw("invalid login credentials", "email", email)
		return nil, unauthorized("Incorrect email or password")
	}

	signed, err := s.IssueToken(user.Email, 0)
	if err != nil {
		return nil, err
	}
	s.log.Infow("successful login", "user_id", user.ID)
	return &Token{AccessToken: signed, TokenType: TokenTypeBearer}, nil
}

// IssueToken signs a token for subject. A ttl <= 0 uses the configured
// lifetime.
func (s *AuthService) IssueToken(subject string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = s.ttl
	}
	now := s.now()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	})
	signed, err := tok.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ResolveCurrentUser validates token and loads the user it names.
func (s *AuthService) ResolveCurrentUser(ctx context.Context, token string) (*models.User, error) {
	credErr := unauthorized("Could not validate credentials")

	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		s.log.Debugw("token rejected", "error", err)
		return nil, credErr
	}
	if claims.Subject == "" {
		return nil, credErr
	}

	user, err := s.users.GetUserByEmail(ctx, claims.Subject)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, credErr
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// RequireAdmin fails with Forbidden unless user is an admin.
func RequireAdmin(user *models.User) error {
	if user == nil || !user.IsAdmin {
		return forbidden("The user does not have enough privileges")
	}
	return nil
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

var dummyPasswordHash = sync.OnceValue(func() string {
	hash, err := bcrypt.GenerateFromPassword([]byte("padel-club-unknown-user"), bcrypt.DefaultCost)
	if err != nil {
		panic(err)
	}
	return string(hash)
})

func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// NormalizeEmail trims, folds to NFKC and lower-cases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(norm.NFKC.String(strings.TrimSpace(email)))
}
