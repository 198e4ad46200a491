package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"orderdesk/internal/domain"
	"orderdesk/internal/domain/models"
	"orderdesk/internal/repositories"
	"orderdesk/internal/utils"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const defaultTokenTTL = 24 * time.Hour

// Claims carried by access tokens.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// AuthService checks credentials and issues HS256 bearer tokens.
type AuthService struct {
	Users     repositories.UserRepository
	Secret    []byte
	TTL       time.Duration
	Now       func() time.Time
	RequestID string
}

func (s AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s AuthService) ttl() time.Duration {
	if s.TTL > 0 {
		return s.TTL
	}
	return defaultTokenTTL
}

// Login verifies email/password and returns a signed token for the account.
// Unknown emails, wrong passwords and inactive accounts all yield ErrUnauthorized.
func (s AuthService) Login(ctx context.Context, email, password string) (string, models.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return "", models.User{}, domain.ErrUnauthorized
	}

	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		if domain.IsNotFound(err) {
			utils.LogEvent(s.RequestID, "auth", "login_rejected", "unknown account")
			return "", models.User{}, domain.ErrUnauthorized
		}
		return "", models.User{}, err
	}
	if !u.Active {
		utils.LogEvent(s.RequestID, "auth", "login_rejected", "inactive account id="+u.ID)
		return "", models.User{}, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		utils.LogEvent(s.RequestID, "auth", "login_rejected", "bad password id="+u.ID)
		return "", models.User{}, domain.ErrUnauthorized
	}

	token, err := s.Issue(u)
	if err != nil {
		return "", models.User{}, domain.InternalError{Msg: "failed to sign token", Err: err}
	}
	utils.LogEvent(s.RequestID, "auth", "login", "id="+u.ID)
	return token, u, nil
}

// Issue signs a token for u.
func (s AuthService) Issue(u models.User) (string, error) {
	if len(s.Secret) == 0 {
		return "", errors.New("jwt secret not configured")
	}
	now := s.now()
	claims := Claims{
		Email: u.Email,
		Role:  u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl())),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Secret)
}

// Parse validates a token and returns its claims. Any failure is ErrUnauthorized.
func (s AuthService) Parse(token string) (*Claims, error) {
	if len(s.Secret) == 0 || token == "" {
		return nil, domain.ErrUnauthorized
	}
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return s.Secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	if claims.Subject == "" {
		return nil, domain.ErrUnauthorized
	}
	return claims, nil
}

// HashPassword returns the bcrypt hash stored for new accounts.
func HashPassword(password string) (string, error) {
	if len(password) < 8 {
		return "", domain.ValidationError{Field: "password", Msg: "must be at least 8 characters"}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Roles known to the authorization policy, weakest first.
var Roles = []string{"viewer", "staff", "manager", "admin"}

// Register creates an active account with a hashed password.
func (s AuthService) Register(ctx context.Context, name, email, password, role string) (models.User, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return models.User{}, err
	}
	if strings.TrimSpace(email) == "" {
		return models.User{}, domain.ValidationError{Field: "email", Msg: "is required"}
	}
	if role == "" {
		role = "staff"
	}
	if !slices.Contains(Roles, role) {
		return models.User{}, domain.ValidationError{Field: "role", Msg: "must be one of " + strings.Join(Roles, ", ")}
	}
	u, err := s.Users.Create(ctx, models.User{Name: name, Email: email, PasswordHash: hash, Role: role, Active: true})
	if err != nil {
		return models.User{}, err
	}
	utils.LogEvent(s.RequestID, "auth", "register", "id="+u.ID+" role="+role)
	return u, nil
}
