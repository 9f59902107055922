package service

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/servicedesk/backoffice/internal/core/domain"
	"github.com/servicedesk/backoffice/internal/core/ports"
)

const tokenIssuer = "backoffice"

// AuthService registers back-office users and issues session tokens.
type AuthService struct {
	repo      ports.UserRepository
	jwtSecret []byte
	tokenTTL  time.Duration
	now       func() time.Time
}

func NewAuthService(repo ports.UserRepository, jwtSecret string, tokenTTL time.Duration) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{
		repo:      repo,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// tokenClaims is the session carried by the bearer token. The auth
// middleware reads the same JSON names back into a domain.Session.
type tokenClaims struct {
	Email      string `json:"email"`
	Role       string `json:"role"`
	SuperAdmin bool   `json:"super_admin"`
	TenantID   string `json:"tenant_id"`
	ClientID   string `json:"client_id,omitempty"`
	jwt.RegisteredClaims
}

// Register validates and stores a new account. Every malformed input maps to
// ErrInvalidCredentials; a taken e-mail surfaces the repository's ErrUserExists.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	email, role, err := normaliseRegistration(in)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := s.now()
	return s.repo.Create(ctx, &domain.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		SuperAdmin:   in.SuperAdmin,
		TenantID:     in.TenantID,
		ClientID:     in.ClientID,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
}

func normaliseRegistration(in ports.RegisterInput) (string, domain.Role, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" || in.TenantID == "" {
		return "", "", domain.ErrInvalidCredentials
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "", "", domain.ErrInvalidCredentials
	}
	role, err := domain.ParseRole(in.Role)
	if err != nil {
		return "", "", domain.ErrInvalidCredentials
	}
	// CLIENT accounts are useless without the client they belong to.
	if role == domain.RoleClient && in.ClientID == "" {
		return "", "", domain.ErrInvalidCredentials
	}
	return email, role, nil
}

// Login checks the password and returns a signed token for the user.
// An unknown e-mail is reported as domain.ErrUserNotFound.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return "", nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.sign(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *AuthService) sign(user *domain.User) (string, error) {
	now := s.now()
	claims := tokenClaims{
		Email:      user.Email,
		Role:       string(user.Role),
		SuperAdmin: user.SuperAdmin,
		TenantID:   user.TenantID,
		ClientID:   user.ClientID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
}
