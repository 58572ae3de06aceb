package models

import "strings"

// Permission 权限模型
type Permission struct {
	BaseModel
	Name        string `gorm:"uniqueIndex;size:100;not null" json:"name"` // 权限代码，如 "products:create"
	Category    string `gorm:"size:50;not null;index" json:"category"`    // 所属分类（冒号前缀）
	Description string `gorm:"size:255" json:"description"`               // 权限描述
}

// 权限代码常量（与前端及存量数据保持一致）
const (
	// 产品
	PermProductsRead    = "products:read"
	PermProductsCreate  = "products:create"
	PermProductsUpdate  = "products:update"
	PermProductsDelete  = "products:delete"
	PermProductsRestock = "products:restock"

	// 销售
	PermSalesRead   = "sales:read"
	PermSalesCreate = "sales:create"
	PermSalesDelete = "sales:delete"

	// 客户
	PermClientsRead   = "clients:read"
	PermClientsCreate = "clients:create"
	PermClientsUpdate = "clients:update"
	PermClientsDelete = "clients:delete"

	// 赊账
	PermCreditsRead = "credits:read"
	PermCreditsPay  = "credits:pay"

	// 支出
	PermExpensesRead   = "expenses:read"
	PermExpensesCreate = "expenses:create"
	PermExpensesDelete = "expenses:delete"

	// 统计
	PermStatsRead = "stats:read"

	// 用户
	PermUsersRead              = "users:read"
	PermUsersCreate            = "users:create"
	PermUsersUpdate            = "users:update"
	PermUsersDelete            = "users:delete"
	PermUsersManagePermissions = "users:manage_permissions"
)

// AllPermissions 全部权限代码
func AllPermissions() []string {
	return []string{
		PermProductsRead, PermProductsCreate, PermProductsUpdate, PermProductsDelete, PermProductsRestock,
		PermSalesRead, PermSalesCreate, PermSalesDelete,
		PermClientsRead, PermClientsCreate, PermClientsUpdate, PermClientsDelete,
		PermCreditsRead, PermCreditsPay,
		PermExpensesRead, PermExpensesCreate, PermExpensesDelete,
		PermStatsRead,
		PermUsersRead, PermUsersCreate, PermUsersUpdate, PermUsersDelete, PermUsersManagePermissions,
	}
}

// PermissionCategory 从权限代码提取分类（冒号前缀）
func PermissionCategory(name string) string {
	if idx := strings.Index(name, ":"); idx > 0 {
		return name[:idx]
	}
	return name
}
