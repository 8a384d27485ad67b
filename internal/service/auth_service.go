package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/ecotrace/ecotrace-backend/internal/config"
	"github.com/ecotrace/ecotrace-backend/internal/domain"
	"github.com/ecotrace/ecotrace-backend/internal/repository"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailExists        = errors.New("email already registered")
	ErrWeakPassword       = errors.New("password must be at least 6 characters")
	ErrInvalidToken       = errors.New("invalid token")
)

const minPasswordLength = 6

const (
	tokenTypeAnonymous     = "anonymous"
	tokenTypeAuthenticated = "authenticated"
)

type AuthService struct {
	userRepo  repository.UserRepository
	tokenRepo repository.TokenRepository
	cfg       *config.Config
}

func NewAuthService(userRepo repository.UserRepository, tokenRepo repository.TokenRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		cfg:       cfg,
	}
}

type RegisterInput struct {
	Email    string
	Password string
	Name     string
}

type LoginInput struct {
	Email    string
	Password string
}

type AuthResult struct {
	User  *domain.User
	Token string
}

// IssueAnonymous creates a fresh anonymous user and a token for it. The
// client is responsible for retaining the token; there is no other way
// to reach the user's data again.
func (s *AuthService) IssueAnonymous(ctx context.Context) (*AuthResult, error) {
	now := time.Now()
	user := &domain.User{
		ID:          uuid.New(),
		IsAnonymous: true,
		CreatedAt:   now,
		LastActive:  now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.issueToken(ctx, user)
	if err != nil {
		return nil, err
	}

	return &AuthResult{User: user, Token: token}, nil
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	if len(input.Password) < minPasswordLength {
		return nil, ErrWeakPassword
	}

	// Check if email is already taken
	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, ErrEmailExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	passwordHash := string(hashedPassword)
	user := &domain.User{
		ID:           uuid.New(),
		IsAnonymous:  false,
		Email:        &email,
		PasswordHash: &passwordHash,
		CreatedAt:    now,
		LastActive:   now,
	}
	if input.Name != "" {
		name := input.Name
		user.Name = &name
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.issueToken(ctx, user)
	if err != nil {
		return nil, err
	}

	return &AuthResult{User: user, Token: token}, nil
}

// Login verifies credentials and issues a new token. Previously issued
// tokens for the user stay valid. Unknown email and wrong password are
// deliberately indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if user.IsAnonymous || user.PasswordHash == nil {
		return nil, ErrInvalidCredentials
	}

	// bcrypt compare is constant-time
	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := s.userRepo.TouchLastActive(ctx, user.ID); err != nil {
		return nil, err
	}

	token, err := s.issueToken(ctx, user)
	if err != nil {
		return nil, err
	}

	return &AuthResult{User: user, Token: token}, nil
}

// Validate resolves a raw token to its user. The signature is checked
// first, so a forged token is rejected before the store is consulted;
// the caller cannot tell a forged token from an unknown one.
func (s *AuthService) Validate(ctx context.Context, rawToken string) (*domain.User, error) {
	if err := s.verifySignature(rawToken); err != nil {
		return nil, ErrInvalidToken
	}

	record, err := s.tokenRepo.GetByHash(ctx, hashToken(rawToken))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, record.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	// Best-effort activity tracking; a failed touch never fails auth.
	_ = s.userRepo.TouchLastActive(ctx, user.ID)

	return user, nil
}

// issueToken mints an HMAC-SHA256 signed token and persists only its
// hash. Tokens carry no expiry claim: a lost token grants access until
// the client discards it.
func (s *AuthService) issueToken(ctx context.Context, user *domain.User) (string, error) {
	nonce := make([]byte, 16)
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}

	tokenType := tokenTypeAnonymous
	if !user.IsAnonymous {
		tokenType = tokenTypeAuthenticated
	}

	claims := jwt.MapClaims{
		"typ": tokenType,
		"rnd": hex.EncodeToString(nonce),
		"iat": time.Now().Unix(),
	}
	if !user.IsAnonymous {
		claims["sub"] = user.ID.String()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	rawToken, err := token.SignedString([]byte(s.cfg.TokenSecret))
	if err != nil {
		return "", err
	}

	record := &domain.TokenRecord{
		TokenHash: hashToken(rawToken),
		UserID:    user.ID,
		IssuedAt:  time.Now(),
	}
	if err := s.tokenRepo.Create(ctx, record); err != nil {
		return "", err
	}

	return rawToken, nil
}

func (s *AuthService) verifySignature(rawToken string) error {
	token, err := jwt.Parse(rawToken, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.cfg.TokenSecret), nil
	})
	if err != nil {
		return err
	}
	if !token.Valid {
		return errors.New("invalid token")
	}
	return nil
}

// hashToken is the one-way storage form of a token: the store can
// verify a presented token but never recover a raw one.
func hashToken(rawToken string) string {
	sum := sha256.Sum256([]byte(rawToken))
	return hex.EncodeToString(sum[:])
}
