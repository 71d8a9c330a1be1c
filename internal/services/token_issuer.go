package services

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/trainsapp/trains-backend/internal/config"
	"github.com/trainsapp/trains-backend/internal/models"
)

var ErrTokenInvalid = errors.New("invalid token")

// AccessClaims is the decoded payload of an access token.
type AccessClaims struct {
	UserID uuid.UUID
	Role   string
}

// RefreshClaims is the decoded payload of a refresh token.
type RefreshClaims struct {
	UserID uuid.UUID
	JTI    uuid.UUID
}

// TokenIssuer signs and verifies the two token kinds. Access tokens are
// short-lived and carry the role; refresh tokens are long-lived, carry a jti
// and are signed with a separate secret.
type TokenIssuer struct {
	cfg *config.Config
}

func NewTokenIssuer(cfg *config.Config) *TokenIssuer {
	return &TokenIssuer{cfg: cfg}
}

func (i *TokenIssuer) SignAccessToken(user *models.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  user.ID.String(),
		"role": user.Role,
		"iss":  i.cfg.JWTIssuer,
		"aud":  i.cfg.JWTAudience,
		"iat":  now.Unix(),
		"exp":  now.Add(i.cfg.JWTAccessExpiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(i.cfg.JWTAccessSecret))
}

func (i *TokenIssuer) SignRefreshToken(userID, jti uuid.UUID) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": userID.String(),
		"jti": jti.String(),
		"iss": i.cfg.JWTIssuer,
		"aud": i.cfg.JWTAudience,
		"iat": now.Unix(),
		"exp": now.Add(i.cfg.JWTRefreshExpiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(i.cfg.JWTRefreshSecret))
}

func (i *TokenIssuer) ParseAccessToken(raw string) (*AccessClaims, error) {
	claims, err := i.parse(raw, i.cfg.JWTAccessSecret)
	if err != nil {
		return nil, err
	}

	sub, _ := claims["sub"].(string)
	userID, err := uuid.Parse(sub)
	if err != nil {
		return nil, ErrTokenInvalid
	}
	role, _ := claims["role"].(string)
	if role == "" {
		return nil, ErrTokenInvalid
	}

	return &AccessClaims{UserID: userID, Role: role}, nil
}

func (i *TokenIssuer) ParseRefreshToken(raw string) (*RefreshClaims, error) {
	claims, err := i.parse(raw, i.cfg.JWTRefreshSecret)
	if err != nil {
		return nil, err
	}

	sub, _ := claims["sub"].(string)
	userID, err := uuid.Parse(sub)
	if err != nil {
		return nil, ErrTokenInvalid
	}
	jtiStr, _ := claims["jti"].(string)
	jti, err := uuid.Parse(jtiStr)
	if err != nil {
		return nil, ErrTokenInvalid
	}

	return &RefreshClaims{UserID: userID, JTI: jti}, nil
}

func (i *TokenIssuer) parse(raw, secret string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	},
		jwt.WithIssuer(i.cfg.JWTIssuer),
		jwt.WithAudience(i.cfg.JWTAudience),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// HashToken returns the hex sha256 of a signed token. Only this hash is
// persisted, so a leaked database row is not a usable credential.
func HashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return fmt.Sprintf("%x", h)
}
