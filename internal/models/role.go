package models

// Role 角色模型
//
// 角色通过 ParentRoleID 构成一棵树，权限沿父链向上继承合并。
// 不变量：子角色的 Level 必须严格小于父角色的 Level。
type Role struct {
	BaseModel
	Name         string `gorm:"uniqueIndex;size:50;not null" json:"name"`        // 角色代码，如 "manager"
	DisplayName  string `gorm:"size:100;not null" json:"displayName"`            // 展示名称
	Description  string `gorm:"size:255" json:"description"`                     // 角色描述
	Level        int    `gorm:"not null;index" json:"level"`                     // 层级（越大权限越高）
	ParentRoleID *uint  `gorm:"index" json:"parentRoleId"`                       // 父角色（可空）
	IsSystem     bool   `gorm:"default:false" json:"isSystem"`                   // 系统角色（不可删除）
	IsActive     bool   `gorm:"default:true" json:"isActive"`                    // 是否启用

	ParentRole  *Role            `gorm:"foreignKey:ParentRoleID" json:"parentRole,omitempty"`
	ChildRoles  []Role           `gorm:"foreignKey:ParentRoleID" json:"childRoles,omitempty"`
	Permissions []RolePermission `gorm:"foreignKey:RoleID" json:"permissions,omitempty"`
}

// 系统角色层级常量
const (
	RoleLevelAdmin   = 100
	RoleLevelManager = 75
	RoleLevelCashier = 50
	RoleLevelUser    = 25
)

// RolePermission 角色权限关联表
type RolePermission struct {
	ID           uint  `gorm:"primaryKey" json:"id"`
	RoleID       uint  `gorm:"not null;index;uniqueIndex:idx_role_permission" json:"roleId"`
	PermissionID uint  `gorm:"not null;index;uniqueIndex:idx_role_permission" json:"permissionId"`
	GrantedBy    *uint `json:"grantedBy"` // 谁分配的权限（种子数据为空）

	Permission Permission `gorm:"foreignKey:PermissionID" json:"permission,omitempty"`
}
