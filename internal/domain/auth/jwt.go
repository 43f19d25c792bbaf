package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	appctx "psi/internal/core/context"
	"psi/internal/core/id"
)

// JWTConfig configures token signing. Tokens are HS256 with Secret.
type JWTConfig struct {
	Secret         string
	Issuer         string
	AccessTokenTTL time.Duration
}

// DefaultJWTConfig issues 8-hour tokens as "psi".
func DefaultJWTConfig(secret string) JWTConfig {
	return JWTConfig{
		Secret:         secret,
		Issuer:         "psi",
		AccessTokenTTL: 8 * time.Hour,
	}
}

// Claims is the token payload: the user, their organization and roles.
type Claims struct {
	jwt.RegisteredClaims
	UserID         string   `json:"uid"`
	Login          string   `json:"login"`
	OrganizationID string   `json:"org"`
	Roles          []string `json:"roles"`
	IsAdmin        bool     `json:"adm,omitempty"`
}

// JWTService issues and validates access tokens.
type JWTService struct {
	config JWTConfig
}

func NewJWTService(config JWTConfig) *JWTService {
	return &JWTService{config: config}
}

// GenerateAccessToken signs an HS256 token for user.
func (s *JWTService) GenerateAccessToken(user *User) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(s.config.AccessTokenTTL)

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.config.Issuer,
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		UserID:         user.ID.String(),
		Login:          user.Login,
		OrganizationID: user.OrganizationID.String(),
		Roles:          user.Roles,
		IsAdmin:        user.IsAdmin,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.config.Secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// ValidateToken checks signature, issuer and expiry and returns the user
// the token was issued to.
func (s *JWTService) ValidateToken(tokenString string) (*appctx.UserContext, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(tokenString, &claims,
		func(*jwt.Token) (any, error) { return []byte(s.config.Secret), nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.config.Issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	return claims.userContext()
}

func (c *Claims) userContext() (*appctx.UserContext, error) {
	orgID, err := id.Parse(c.OrganizationID)
	if err != nil {
		return nil, fmt.Errorf("invalid organization claim: %w", err)
	}
	return &appctx.UserContext{
		UserID:         c.UserID,
		Login:          c.Login,
		OrganizationID: orgID,
		Roles:          c.Roles,
		IsAdmin:        c.IsAdmin,
	}, nil
}
