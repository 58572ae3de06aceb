package services

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"boutique/internal/models"
	"boutique/pkg/jwt"
	"boutique/pkg/logger"

	"gorm.io/gorm"
)

// refreshTokenBytes Refresh Token的随机字节数（512位熵）
const refreshTokenBytes = 64

// TokenPair 一对令牌：无状态的Access Token和落库的Refresh Token
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// TokenService 令牌服务
//
// Access Token由JWT管理器签发验证，不落库；
// Refresh Token是不透明随机串，落库、单次使用、轮换。
type TokenService struct {
	db         *gorm.DB
	jwtManager *jwt.JWTManager
	refreshTTL time.Duration
}

func NewTokenService(db *gorm.DB, jwtManager *jwt.JWTManager, refreshTTL time.Duration) *TokenService {
	return &TokenService{
		db:         db,
		jwtManager: jwtManager,
		refreshTTL: refreshTTL,
	}
}

// generateRefreshToken 生成不透明Refresh Token（hex编码的随机串）
func generateRefreshToken() (string, error) {
	buf := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// GeneratePair 为用户签发一对令牌，Refresh Token落库
func (s *TokenService) GeneratePair(user *models.User) (*TokenPair, error) {
	accessToken, err := s.jwtManager.GenerateAccessToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, err
	}

	refreshToken, err := generateRefreshToken()
	if err != nil {
		return nil, err
	}

	record := models.RefreshToken{
		Token:     refreshToken,
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(s.refreshTTL),
	}
	if err := s.db.Create(&record).Error; err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// Refresh 用Refresh Token换取新的一对令牌（轮换）
//
// 旧令牌通过条件UPDATE原子作废：WHERE token AND is_revoked=false，
// RowsAffected=0 说明并发请求已经用掉了这个令牌，按已撤销处理。
// 四种失败返回可区分的错误，HTTP层统一折叠为401。
func (s *TokenService) Refresh(refreshToken string) (*TokenPair, error) {
	var pair *TokenPair

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var record models.RefreshToken
		err := tx.Where("token = ?", refreshToken).First(&record).Error
		if err == gorm.ErrRecordNotFound {
			return ErrRefreshTokenNotFound
		}
		if err != nil {
			return err
		}

		if record.IsRevoked {
			return ErrRefreshTokenRevoked
		}
		if time.Now().After(record.ExpiresAt) {
			return ErrRefreshTokenExpired
		}

		var user models.User
		if err := tx.First(&user, record.UserID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrRefreshTokenNotFound
			}
			return err
		}
		if !user.IsActive {
			return ErrUserInactive
		}

		result := tx.Model(&models.RefreshToken{}).
			Where("token = ? AND is_revoked = ?", refreshToken, false).
			Update("is_revoked", true)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrRefreshTokenRevoked
		}

		accessToken, err := s.jwtManager.GenerateAccessToken(user.ID, user.Email, user.Role)
		if err != nil {
			return err
		}

		newRefreshToken, err := generateRefreshToken()
		if err != nil {
			return err
		}

		newRecord := models.RefreshToken{
			Token:     newRefreshToken,
			UserID:    user.ID,
			ExpiresAt: time.Now().Add(s.refreshTTL),
		}
		if err := tx.Create(&newRecord).Error; err != nil {
			return err
		}

		pair = &TokenPair{
			AccessToken:  accessToken,
			RefreshToken: newRefreshToken,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return pair, nil
}

// Revoke 作废单个Refresh Token（登出；令牌不存在时静默成功）
func (s *TokenService) Revoke(refreshToken string) error {
	return s.db.Model(&models.RefreshToken{}).
		Where("token = ?", refreshToken).
		Update("is_revoked", true).Error
}

// RevokeAllForUser 作废用户的全部Refresh Token（全端登出）
func (s *TokenService) RevokeAllForUser(userID uint) error {
	return s.db.Model(&models.RefreshToken{}).
		Where("user_id = ? AND is_revoked = ?", userID, false).
		Update("is_revoked", true).Error
}

// SweepExpired 清理已过期或已作废的Refresh Token，返回删除条数
func (s *TokenService) SweepExpired() (int64, error) {
	result := s.db.Where("expires_at < ? OR is_revoked = ?", time.Now(), true).
		Delete(&models.RefreshToken{})
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected > 0 {
		logger.GetLogger().Infof("Nettoyage des refresh tokens: %d supprimés", result.RowsAffected)
	}
	return result.RowsAffected, nil
}
