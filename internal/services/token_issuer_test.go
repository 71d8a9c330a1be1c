package services

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/trainsapp/trains-backend/internal/models"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer(testConfig())
	user := &models.User{ID: uuid.New(), Email: "admin@example.com", Role: models.RoleAdmin}

	raw, err := issuer.SignAccessToken(user)
	if err != nil {
		t.Fatalf("sign access token: %v", err)
	}

	claims, err := issuer.ParseAccessToken(raw)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.UserID != user.ID {
		t.Fatalf("subject mismatch: want %s, got %s", user.ID, claims.UserID)
	}
	if claims.Role != models.RoleAdmin {
		t.Fatalf("role mismatch: want %s, got %s", models.RoleAdmin, claims.Role)
	}
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer(testConfig())
	userID, jti := uuid.New(), uuid.New()

	raw, err := issuer.SignRefreshToken(userID, jti)
	if err != nil {
		t.Fatalf("sign refresh token: %v", err)
	}

	claims, err := issuer.ParseRefreshToken(raw)
	if err != nil {
		t.Fatalf("parse refresh token: %v", err)
	}
	if claims.UserID != userID || claims.JTI != jti {
		t.Fatalf("claims mismatch: got %+v", claims)
	}
}

func TestSecretSeparation(t *testing.T) {
	// an access token must not verify as a refresh token and vice versa
	issuer := NewTokenIssuer(testConfig())
	user := &models.User{ID: uuid.New(), Role: models.RoleUser}

	access, err := issuer.SignAccessToken(user)
	if err != nil {
		t.Fatalf("sign access token: %v", err)
	}
	refresh, err := issuer.SignRefreshToken(user.ID, uuid.New())
	if err != nil {
		t.Fatalf("sign refresh token: %v", err)
	}

	if _, err := issuer.ParseRefreshToken(access); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("access token accepted by refresh parser: %v", err)
	}
	if _, err := issuer.ParseAccessToken(refresh); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("refresh token accepted by access parser: %v", err)
	}
}

func TestIssuerAndAudienceValidated(t *testing.T) {
	issuer := NewTokenIssuer(testConfig())
	user := &models.User{ID: uuid.New(), Role: models.RoleUser}

	tests := []struct {
		name     string
		issuerID string
		audience string
	}{
		{"wrong issuer", "someone-else", "trains-mobile"},
		{"wrong audience", "trains-api", "other-app"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			foreign := testConfig()
			foreign.JWTIssuer = tt.issuerID
			foreign.JWTAudience = tt.audience

			raw, err := NewTokenIssuer(foreign).SignAccessToken(user)
			if err != nil {
				t.Fatalf("sign: %v", err)
			}
			if _, err := issuer.ParseAccessToken(raw); !errors.Is(err, ErrTokenInvalid) {
				t.Fatalf("want ErrTokenInvalid, got %v", err)
			}
		})
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	cfg := testConfig()
	cfg.JWTAccessExpiry = -time.Minute
	issuer := NewTokenIssuer(cfg)

	raw, err := issuer.SignAccessToken(&models.User{ID: uuid.New(), Role: models.RoleUser})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := issuer.ParseAccessToken(raw); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("want ErrTokenInvalid for expired token, got %v", err)
	}
}

func TestTamperedTokenRejected(t *testing.T) {
	issuer := NewTokenIssuer(testConfig())

	raw, err := issuer.SignRefreshToken(uuid.New(), uuid.New())
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	tampered := raw[:len(raw)-2] + "xx"
	if _, err := issuer.ParseRefreshToken(tampered); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("want ErrTokenInvalid for tampered signature, got %v", err)
	}
}

func TestHashTokenStable(t *testing.T) {
	a := HashToken("some-token")
	b := HashToken("some-token")
	c := HashToken("other-token")
	if a != b {
		t.Fatal("hash must be deterministic")
	}
	if a == c {
		t.Fatal("distinct tokens must not collide trivially")
	}
	if len(a) != 64 {
		t.Fatalf("want hex sha256 of length 64, got %d", len(a))
	}
}
