package models

import (
	"golang.org/x/crypto/bcrypt"
)

// User 用户模型
//
// Role 是旧版字符串角色，RoleID 指向角色表（权威层级关系）。
// 存量数据可能只有其中之一，权限解析两条路径都要看。
type User struct {
	BaseModel
	Email        string `json:"email" gorm:"unique;not null;size:100;index"`
	PasswordHash string `json:"-" gorm:"column:password;not null;size:255"`
	Nom          string `json:"nom" gorm:"not null;size:100"`
	Role         string `json:"role" gorm:"not null;default:'user';size:50"`
	RoleID       *uint  `json:"roleId" gorm:"index"`
	IsActive     bool   `json:"isActive" gorm:"default:true"`

	RoleData    *Role            `gorm:"foreignKey:RoleID" json:"roleData,omitempty"`
	Permissions []UserPermission `gorm:"foreignKey:UserID" json:"permissions,omitempty"`
}

// TableName 表名
func (u *User) TableName() string {
	return "users"
}

// 旧版角色名常量
const (
	RoleNameAdmin   = "admin"
	RoleNameManager = "manager"
	RoleNameCashier = "cashier"
	RoleNameUser    = "user"
)

// SetPassword 设置密码
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

// CheckPassword 验证密码
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}

// UserPermission 用户直接授权关联表（绕过角色的例外授权）
type UserPermission struct {
	ID           uint `gorm:"primaryKey" json:"id"`
	UserID       uint `gorm:"not null;index;uniqueIndex:idx_user_permission" json:"userId"`
	PermissionID uint `gorm:"not null;index;uniqueIndex:idx_user_permission" json:"permissionId"`
	GrantedBy    uint `json:"grantedBy"` // 谁授予的权限

	Permission Permission `gorm:"foreignKey:PermissionID" json:"permission,omitempty"`
}
