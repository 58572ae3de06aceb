package services

import (
	"testing"
	"time"

	"boutique/internal/models"
	"boutique/pkg/jwt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestTokenService(db *gorm.DB) *TokenService {
	manager := jwt.NewJWTManager("secret-de-test", 15*time.Minute)
	return NewTokenService(db, manager, 7*24*time.Hour)
}

func TestGeneratePair(t *testing.T) {
	db := setupTestDB(t)
	seedDefaults(t, db)
	s := newTestTokenService(db)

	user := createTestUser(t, db, "paire@test.fr", models.RoleNameUser)

	pair, err := s.GeneratePair(user)
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	// 64字节hex编码
	assert.Len(t, pair.RefreshToken, 128)

	// Access Token可验证且带用户身份
	manager := jwt.NewJWTManager("secret-de-test", 15*time.Minute)
	claims, err := manager.VerifyAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, user.Email, claims.Email)

	// Refresh Token落库
	var record models.RefreshToken
	require.NoError(t, db.Where("token = ?", pair.RefreshToken).First(&record).Error)
	assert.Equal(t, user.ID, record.UserID)
	assert.False(t, record.IsRevoked)
}

func TestRefreshRotation(t *testing.T) {
	db := setupTestDB(t)
	seedDefaults(t, db)
	s := newTestTokenService(db)

	user := createTestUser(t, db, "rotation@test.fr", models.RoleNameUser)
	pair, err := s.GeneratePair(user)
	require.NoError(t, err)

	newPair, err := s.Refresh(pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, pair.RefreshToken, newPair.RefreshToken)

	// 旧令牌已作废
	var old models.RefreshToken
	require.NoError(t, db.Where("token = ?", pair.RefreshToken).First(&old).Error)
	assert.True(t, old.IsRevoked)

	// 单次使用：重放旧令牌被拒
	_, err = s.Refresh(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrRefreshTokenRevoked)

	// 新令牌可以继续用
	_, err = s.Refresh(newPair.RefreshToken)
	require.NoError(t, err)
}

func TestRefreshUnknownToken(t *testing.T) {
	db := setupTestDB(t)
	seedDefaults(t, db)
	s := newTestTokenService(db)

	_, err := s.Refresh("inconnu")
	assert.ErrorIs(t, err, ErrRefreshTokenNotFound)
}

func TestRefreshExpiredToken(t *testing.T) {
	db := setupTestDB(t)
	seedDefaults(t, db)
	s := newTestTokenService(db)

	user := createTestUser(t, db, "expire@test.fr", models.RoleNameUser)
	require.NoError(t, db.Create(&models.RefreshToken{
		Token:     "jeton-expire",
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(-time.Hour),
	}).Error)

	_, err := s.Refresh("jeton-expire")
	assert.ErrorIs(t, err, ErrRefreshTokenExpired)
}

func TestRefreshInactiveUser(t *testing.T) {
	db := setupTestDB(t)
	seedDefaults(t, db)
	s := newTestTokenService(db)

	user := createTestUser(t, db, "inactif@test.fr", models.RoleNameUser)
	pair, err := s.GeneratePair(user)
	require.NoError(t, err)

	require.NoError(t, db.Model(user).Update("is_active", false).Error)

	_, err = s.Refresh(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrUserInactive)
}

func TestRevokeAllForUser(t *testing.T) {
	db := setupTestDB(t)
	seedDefaults(t, db)
	s := newTestTokenService(db)

	user := createTestUser(t, db, "multi@test.fr", models.RoleNameUser)
	first, err := s.GeneratePair(user)
	require.NoError(t, err)
	second, err := s.GeneratePair(user)
	require.NoError(t, err)

	require.NoError(t, s.RevokeAllForUser(user.ID))

	_, err = s.Refresh(first.RefreshToken)
	assert.ErrorIs(t, err, ErrRefreshTokenRevoked)
	_, err = s.Refresh(second.RefreshToken)
	assert.ErrorIs(t, err, ErrRefreshTokenRevoked)
}

func TestSweepExpired(t *testing.T) {
	db := setupTestDB(t)
	seedDefaults(t, db)
	s := newTestTokenService(db)

	user := createTestUser(t, db, "balai@test.fr", models.RoleNameUser)

	// 一个有效、一个过期、一个已作废
	valid, err := s.GeneratePair(user)
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.RefreshToken{
		Token:     "perime",
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(-time.Minute),
	}).Error)
	require.NoError(t, db.Create(&models.RefreshToken{
		Token:     "revoque",
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(time.Hour),
		IsRevoked: true,
	}).Error)

	deleted, err := s.SweepExpired()
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	// 有效令牌不受影响
	var count int64
	db.Model(&models.RefreshToken{}).Where("token = ?", valid.RefreshToken).Count(&count)
	assert.Equal(t, int64(1), count)
}
