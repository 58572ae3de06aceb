package models

import "time"

// RefreshToken 刷新令牌（有状态，可吊销）
//
// 生命周期：Active → Revoked（登出/轮换），过期或已吊销的行由定时清理任务物理删除。
type RefreshToken struct {
	BaseModel
	Token     string    `gorm:"uniqueIndex;size:255;not null" json:"token"`
	UserID    uint      `gorm:"not null;index" json:"userId"`
	ExpiresAt time.Time `gorm:"not null;index" json:"expiresAt"`
	IsRevoked bool      `gorm:"default:false" json:"isRevoked"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

// TableName 表名
func (t *RefreshToken) TableName() string {
	return "refresh_tokens"
}
