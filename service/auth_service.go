package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"legaldocs-backend/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials is returned on a failed login
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrEmailTaken is returned when registering an existing email
	ErrEmailTaken = errors.New("email is already registered")
	// ErrInvalidToken is returned for malformed, expired, or mistyped tokens
	ErrInvalidToken = errors.New("invalid or expired token")
	// ErrInactiveUser is returned when a deactivated account authenticates
	ErrInactiveUser = errors.New("account is deactivated")
	// ErrUserNotFound is returned when a user does not exist
	ErrUserNotFound = errors.New("user not found")
)

const (
	accessTokenTTL  = 60 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour

	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// TokenClaims are the JWT claims carried by both token types
type TokenClaims struct {
	Role      string `json:"role"`
	TokenType string `json:"type"`
	jwt.RegisteredClaims
}

// TokenPair bundles the tokens issued on login and refresh
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
}

// AuthService handles registration, login, and token issuance
type AuthService struct {
	users  UserStore
	secret []byte
	logger *zap.Logger
}

// AuthServiceOption is a functional option for AuthService
type AuthServiceOption func(*AuthService)

// WithUserStore sets the user store
func WithUserStore(s UserStore) AuthServiceOption {
	return func(a *AuthService) { a.users = s }
}

// WithJWTSecret sets the token signing secret
func WithJWTSecret(secret string) AuthServiceOption {
	return func(a *AuthService) { a.secret = []byte(secret) }
}

// WithAuthLogger sets the logger
func WithAuthLogger(l *zap.Logger) AuthServiceOption {
	return func(a *AuthService) { a.logger = l }
}

// NewAuthService creates a new auth service
func NewAuthService(opts ...AuthServiceOption) *AuthService {
	a := &AuthService{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// RegisterRequest represents a registration for any account role
type RegisterRequest struct {
	Email    string
	Password string
	Role     models.UserRole
	FullName *string
	Phone    *string

	// Role-specific profiles, required for lawyer and firm registrations
	LawyerProfile *models.LawyerProfile
	FirmProfile   *models.FirmProfile
}

// RegisterResult represents the result of a registration
type RegisterResult struct {
	User *models.User
}

// Register creates a new account with a bcrypt password hash and the
// profile record its role calls for.
func (a *AuthService) Register(ctx context.Context, req RegisterRequest) (*RegisterResult, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return nil, errors.New("email and password are required")
	}
	if !models.ValidRole(req.Role) {
		return nil, fmt.Errorf("unknown role %q", req.Role)
	}

	if _, err := a.users.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &models.User{
		Email:        email,
		PasswordHash: string(hash),
		Role:         req.Role,
		FullName:     req.FullName,
		Phone:        req.Phone,
		IsActive:     true,
	}
	if err := a.users.Create(ctx, user); err != nil {
		return nil, err
	}

	switch req.Role {
	case models.RoleLawyer:
		if req.LawyerProfile != nil {
			req.LawyerProfile.UserID = user.ID
			if err := a.users.CreateLawyerProfile(ctx, req.LawyerProfile); err != nil {
				return nil, err
			}
			user.LawyerProfile = req.LawyerProfile
		}
	case models.RoleFirm:
		if req.FirmProfile != nil {
			req.FirmProfile.UserID = user.ID
			if err := a.users.CreateFirmProfile(ctx, req.FirmProfile); err != nil {
				return nil, err
			}
			user.FirmProfile = req.FirmProfile
		}
	}

	a.logger.Info("user registered",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)))

	return &RegisterResult{User: user}, nil
}

// Login verifies credentials and issues a token pair
func (a *AuthService) Login(ctx context.Context, email, password string) (*models.User, *TokenPair, error) {
	user, err := a.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, nil, ErrInactiveUser
	}

	pair, err := a.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now().UTC()
	if err := a.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		a.logger.Warn("updating last login", zap.Error(err))
	}
	user.LastLogin = &now

	return user, pair, nil
}

// Refresh exchanges a valid refresh token for a fresh pair
func (a *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := a.parse(refreshToken)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != tokenTypeRefresh {
		return nil, ErrInvalidToken
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, ErrInvalidToken
	}
	user, err := a.users.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	if !user.IsActive {
		return nil, ErrInactiveUser
	}

	return a.issueTokens(user)
}

// VerifyAccessToken validates an access token and returns the caller's
// identity and role. Refresh tokens are not accepted here.
func (a *AuthService) VerifyAccessToken(tokenStr string) (uuid.UUID, models.UserRole, error) {
	claims, err := a.parse(tokenStr)
	if err != nil {
		return uuid.Nil, "", err
	}
	if claims.TokenType != tokenTypeAccess {
		return uuid.Nil, "", ErrInvalidToken
	}
	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, "", ErrInvalidToken
	}
	return id, models.UserRole(claims.Role), nil
}

// GetUser retrieves a user by ID
func (a *AuthService) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := a.users.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	return user, nil
}

func (a *AuthService) issueTokens(user *models.User) (*TokenPair, error) {
	access, err := a.sign(user, tokenTypeAccess, accessTokenTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := a.sign(user, tokenTypeRefresh, refreshTokenTTL)
	if err != nil {
		return nil, err
	}
	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
		ExpiresIn:    int(accessTokenTTL.Seconds()),
	}, nil
}

func (a *AuthService) sign(user *models.User, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := TokenClaims{
		Role:      string(user.Role),
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

func (a *AuthService) parse(tokenStr string) (*TokenClaims, error) {
	claims := &TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
