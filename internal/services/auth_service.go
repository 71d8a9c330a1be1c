package services

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/trainsapp/trains-backend/internal/config"
	"github.com/trainsapp/trains-backend/internal/dto"
	"github.com/trainsapp/trains-backend/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired refresh token")
	ErrUserNotFound       = errors.New("user not found")
)

// AuthService issues, verifies, rotates and revokes credential pairs. Refresh
// tokens are single-use: exchanging one marks its record revoked in the same
// operation that issues the replacement, so a captured token can never be
// replayed. All verification failures collapse to ErrInvalidToken for the
// caller; the internal distinction is logged only. Store failures are kept
// separate and surface as wrapped errors, not as 401s.
type AuthService struct {
	db     *gorm.DB
	cfg    *config.Config
	issuer *TokenIssuer
}

func NewAuthService(db *gorm.DB, cfg *config.Config) *AuthService {
	return &AuthService{db: db, cfg: cfg, issuer: NewTokenIssuer(cfg)}
}

func (s *AuthService) Register(req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	if len(req.Email) == 0 || len(req.Password) < 8 {
		return nil, errors.New("email required and password must be at least 8 characters")
	}

	var existing models.User
	if err := s.db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:       uuid.New(),
		Email:    req.Email,
		Password: string(hash),
		Role:     models.RoleUser,
	}

	if err := s.db.Create(&user).Error; err != nil {
		// the pre-check races with concurrent registrations; the unique
		// index on email is the real barrier
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.issueTokenPair(&user)
}

func (s *AuthService) Login(req *dto.LoginRequest) (*dto.AuthResponse, error) {
	var user models.User
	if err := s.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		// burn a bcrypt comparison so unknown emails take as long as
		// wrong passwords
		_ = bcrypt.CompareHashAndPassword([]byte("$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"), []byte(req.Password))
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issueTokenPair(&user)
}

// Refresh exchanges a valid refresh token for a brand-new pair, revoking the
// presented token. The conditional update on the jti record is the only
// barrier against concurrent rotations of the same token: whichever call
// flips revoked first wins, every other caller observes an already-revoked
// record and fails.
func (s *AuthService) Refresh(req *dto.RefreshRequest) (*dto.AuthResponse, error) {
	record, err := s.verifyRefreshToken(req.RefreshToken)
	if err != nil {
		return nil, err
	}

	revoked, err := s.revokeIfCurrent(record.JTI)
	if err != nil {
		return nil, err
	}
	if !revoked {
		slog.Info("refresh lost rotation race", "jti", record.JTI)
		return nil, ErrInvalidToken
	}

	var user models.User
	if err := s.db.First(&user, "id = ?", record.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	return s.issueTokenPair(&user)
}

// Logout follows the same verification path as Refresh but is terminal: the
// record is revoked and no replacement is issued. A second logout with the
// same token fails, since revocation is one-directional.
func (s *AuthService) Logout(req *dto.LogoutRequest) error {
	record, err := s.verifyRefreshToken(req.RefreshToken)
	if err != nil {
		return err
	}

	revoked, err := s.revokeIfCurrent(record.JTI)
	if err != nil {
		return err
	}
	if !revoked {
		return ErrInvalidToken
	}
	return nil
}

// verifyRefreshToken checks signature, issuer, audience and expiry against
// the refresh secret, then requires a matching non-revoked record whose owner
// and stored hash agree with the presented token. Every failure mode maps to
// ErrInvalidToken so the caller cannot tell which check tripped.
func (s *AuthService) verifyRefreshToken(raw string) (*models.RefreshToken, error) {
	claims, err := s.issuer.ParseRefreshToken(raw)
	if err != nil {
		slog.Debug("refresh token rejected", "reason", "verification failed")
		return nil, ErrInvalidToken
	}

	var record models.RefreshToken
	if err := s.db.First(&record, "jti = ?", claims.JTI).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			slog.Debug("refresh token rejected", "reason", "unknown jti", "jti", claims.JTI)
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to load refresh token record: %w", err)
	}

	if record.Revoked {
		slog.Debug("refresh token rejected", "reason", "revoked", "jti", claims.JTI)
		return nil, ErrInvalidToken
	}
	if record.UserID != claims.UserID {
		slog.Debug("refresh token rejected", "reason", "subject mismatch", "jti", claims.JTI)
		return nil, ErrInvalidToken
	}
	if time.Now().After(record.ExpiresAt) {
		slog.Debug("refresh token rejected", "reason", "record expired", "jti", claims.JTI)
		return nil, ErrInvalidToken
	}
	if subtle.ConstantTimeCompare([]byte(HashToken(raw)), []byte(record.TokenHash)) != 1 {
		slog.Debug("refresh token rejected", "reason", "hash mismatch", "jti", claims.JTI)
		return nil, ErrInvalidToken
	}

	return &record, nil
}

// revokeIfCurrent atomically flips revoked on a still-live record. Returns
// false when another call got there first.
func (s *AuthService) revokeIfCurrent(jti uuid.UUID) (bool, error) {
	result := s.db.Model(&models.RefreshToken{}).
		Where("jti = ? AND revoked = ?", jti, false).
		Update("revoked", true)
	if result.Error != nil {
		return false, fmt.Errorf("failed to revoke refresh token: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (s *AuthService) issueTokenPair(user *models.User) (*dto.AuthResponse, error) {
	accessToken, err := s.issuer.SignAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	jti := uuid.New()
	refreshToken, err := s.issuer.SignRefreshToken(user.ID, jti)
	if err != nil {
		return nil, fmt.Errorf("failed to sign refresh token: %w", err)
	}

	record := models.RefreshToken{
		JTI:       jti,
		UserID:    user.ID,
		TokenHash: HashToken(refreshToken),
		ExpiresAt: time.Now().Add(s.cfg.JWTRefreshExpiry),
	}
	if err := s.db.Create(&record).Error; err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &dto.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User: dto.UserResponse{
			ID:    user.ID,
			Email: user.Email,
			Role:  user.Role,
		},
	}, nil
}
