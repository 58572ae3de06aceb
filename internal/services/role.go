package services

import (
	"boutique/internal/models"
	"boutique/pkg/logger"

	"gorm.io/gorm"
)

// maxRoleDepth 父链遍历上限，防止脏数据成环导致死循环
const maxRoleDepth = 32

type RoleService struct {
	db *gorm.DB
}

func NewRoleService(db *gorm.DB) *RoleService {
	return &RoleService{db: db}
}

// RoleDefinition 角色种子定义
type RoleDefinition struct {
	Name        string
	DisplayName string
	Description string
	Level       int
	ParentRole  string
	Permissions []string
	IsSystem    bool
}

// DefaultRoles 四个系统角色（层级严格递减，父链向上）
func DefaultRoles() []RoleDefinition {
	return []RoleDefinition{
		{
			Name:        models.RoleNameAdmin,
			DisplayName: "Administrateur",
			Description: "Accès complet à toutes les fonctionnalités",
			Level:       models.RoleLevelAdmin,
			Permissions: models.AllPermissions(),
			IsSystem:    true,
		},
		{
			Name:        models.RoleNameManager,
			DisplayName: "Gestionnaire",
			Description: "Gestion complète des opérations commerciales",
			Level:       models.RoleLevelManager,
			ParentRole:  models.RoleNameAdmin,
			Permissions: []string{
				models.PermProductsRead, models.PermProductsCreate, models.PermProductsUpdate, models.PermProductsRestock,
				models.PermSalesRead, models.PermSalesCreate,
				models.PermClientsRead, models.PermClientsCreate, models.PermClientsUpdate,
				models.PermCreditsRead, models.PermCreditsPay,
				models.PermExpensesRead, models.PermExpensesCreate,
				models.PermStatsRead,
			},
			IsSystem: true,
		},
		{
			Name:        models.RoleNameCashier,
			DisplayName: "Caissier",
			Description: "Gestion des ventes et clients",
			Level:       models.RoleLevelCashier,
			ParentRole:  models.RoleNameManager,
			Permissions: []string{
				models.PermProductsRead,
				models.PermSalesRead, models.PermSalesCreate,
				models.PermClientsRead, models.PermClientsCreate,
			},
			IsSystem: true,
		},
		{
			Name:        models.RoleNameUser,
			DisplayName: "Utilisateur",
			Description: "Accès en lecture seule",
			Level:       models.RoleLevelUser,
			ParentRole:  models.RoleNameCashier,
			Permissions: []string{
				models.PermProductsRead,
				models.PermSalesRead,
				models.PermClientsRead,
				models.PermStatsRead,
			},
			IsSystem: true,
		},
	}
}

// LegacyRolePermissions 旧版字符串角色的静态权限表（迁移兼容路径）
func LegacyRolePermissions(roleName string) []string {
	for _, def := range DefaultRoles() {
		if def.Name == roleName {
			return def.Permissions
		}
	}
	return nil
}

// ========== 初始化 ==========

// InitializeDefaults 初始化默认角色及其权限集
//
// 按层级从高到低创建，保证子角色引用父角色时父角色已存在。
// 可重复执行：角色按名称upsert，权限链接只增不删。
func (s *RoleService) InitializeDefaults() error {
	appLogger := logger.GetLogger()
	appLogger.Info("Initialisation des rôles par défaut...")

	permissionService := NewPermissionService(s.db)

	for _, def := range DefaultRoles() {
		var parentRoleID *uint
		if def.ParentRole != "" {
			var parent models.Role
			if err := s.db.Where("name = ?", def.ParentRole).First(&parent).Error; err == nil {
				parentRoleID = &parent.ID
			}
		}

		var role models.Role
		err := s.db.Where("name = ?", def.Name).First(&role).Error
		if err == gorm.ErrRecordNotFound {
			role = models.Role{
				Name:         def.Name,
				DisplayName:  def.DisplayName,
				Description:  def.Description,
				Level:        def.Level,
				ParentRoleID: parentRoleID,
				IsSystem:     def.IsSystem,
				IsActive:     true,
			}
			if err := s.db.Create(&role).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		} else {
			role.DisplayName = def.DisplayName
			role.Description = def.Description
			role.Level = def.Level
			role.ParentRoleID = parentRoleID
			role.IsSystem = def.IsSystem
			if err := s.db.Save(&role).Error; err != nil {
				return err
			}
		}

		// 链接权限集，缺失的权限行按需创建
		for _, permName := range def.Permissions {
			permission, err := permissionService.FindOrCreate(s.db, permName)
			if err != nil {
				return err
			}

			var count int64
			s.db.Model(&models.RolePermission{}).
				Where("role_id = ? AND permission_id = ?", role.ID, permission.ID).
				Count(&count)
			if count == 0 {
				link := models.RolePermission{RoleID: role.ID, PermissionID: permission.ID}
				if err := s.db.Create(&link).Error; err != nil {
					return err
				}
			}
		}
	}

	appLogger.Info("Rôles par défaut initialisés")
	return nil
}

// ========== 查询方法 ==========

// GetAll 获取所有启用的角色（层级降序，含直接权限和父角色）
func (s *RoleService) GetAll() ([]*models.Role, error) {
	var roles []*models.Role
	err := s.db.Where("is_active = ?", true).
		Preload("Permissions.Permission").
		Preload("ParentRole").
		Order("level DESC").
		Find(&roles).Error
	return roles, err
}

// GetByID 根据ID获取角色（含权限、父角色和子角色）
func (s *RoleService) GetByID(id uint) (*models.Role, error) {
	var role models.Role
	err := s.db.Preload("Permissions.Permission").
		Preload("ParentRole").
		Preload("ChildRoles").
		First(&role, id).Error
	if err != nil {
		return nil, err
	}
	return &role, nil
}

// GetByName 根据名称获取角色
func (s *RoleService) GetByName(name string) (*models.Role, error) {
	var role models.Role
	err := s.db.Where("name = ?", name).First(&role).Error
	if err != nil {
		return nil, err
	}
	return &role, nil
}

// UserCounts 各角色的用户数
func (s *RoleService) UserCounts() (map[uint]int64, error) {
	type row struct {
		RoleID uint
		Count  int64
	}
	var rows []row
	err := s.db.Model(&models.User{}).
		Select("role_id, COUNT(*) as count").
		Where("role_id IS NOT NULL").
		Group("role_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[uint]int64, len(rows))
	for _, r := range rows {
		counts[r.RoleID] = r.Count
	}
	return counts, nil
}

// GetEffectivePermissions 获取角色的有效权限集（含沿父链继承的，去重）
//
// 显式循环遍历祖先链而非无界递归，深度上限 maxRoleDepth。
// 未知角色返回空集，不报错。
func (s *RoleService) GetEffectivePermissions(roleID uint) ([]string, error) {
	seen := make(map[string]bool)
	var result []string

	currentID := &roleID
	for depth := 0; currentID != nil; depth++ {
		if depth >= maxRoleDepth {
			logger.GetLogger().Warnf("Role %d: chaîne de rôles parents trop profonde, cycle probable", roleID)
			break
		}

		var role models.Role
		err := s.db.Preload("Permissions.Permission").First(&role, *currentID).Error
		if err == gorm.ErrRecordNotFound {
			break
		}
		if err != nil {
			return nil, err
		}

		for _, rp := range role.Permissions {
			if !seen[rp.Permission.Name] {
				seen[rp.Permission.Name] = true
				result = append(result, rp.Permission.Name)
			}
		}

		currentID = role.ParentRoleID
	}

	return result, nil
}

// GetEffectivePermissionsByName 按角色名称获取有效权限集
func (s *RoleService) GetEffectivePermissionsByName(roleName string) ([]string, error) {
	var role models.Role
	err := s.db.Where("name = ?", roleName).First(&role).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return s.GetEffectivePermissions(role.ID)
}

// CanManage 层级管理判断：严格大于才能管理，同级和自身均不可
//
// 任一角色不存在返回false，不报错。
func (s *RoleService) CanManage(actingRoleID, targetRoleID uint) (bool, error) {
	var acting, target models.Role

	if err := s.db.First(&acting, actingRoleID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return false, nil
		}
		return false, err
	}
	if err := s.db.First(&target, targetRoleID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return false, nil
		}
		return false, err
	}

	return acting.Level > target.Level, nil
}

// GetManageableRoles 获取可管理的角色列表（层级严格低于操作者的启用角色）
func (s *RoleService) GetManageableRoles(actingRoleID uint) ([]*models.Role, error) {
	var acting models.Role
	err := s.db.First(&acting, actingRoleID).Error
	if err == gorm.ErrRecordNotFound {
		return []*models.Role{}, nil
	}
	if err != nil {
		return nil, err
	}

	var roles []*models.Role
	err = s.db.Where("level < ? AND is_active = ?", acting.Level, true).
		Order("level DESC").
		Find(&roles).Error
	return roles, err
}

// wouldCreateCycle 判断把 roleID 挂到 parentID 之下是否会成环
//
// 沿新父角色的祖先链向上走，撞到 roleID 自己就是环。
// 深度上限与读路径一致，防止脏数据让校验本身死循环。
func (s *RoleService) wouldCreateCycle(roleID uint, parentID *uint) (bool, error) {
	current := parentID
	for depth := 0; current != nil && depth < maxRoleDepth; depth++ {
		if *current == roleID {
			return true, nil
		}

		var ancestor models.Role
		err := s.db.First(&ancestor, *current).Error
		if err == gorm.ErrRecordNotFound {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		current = ancestor.ParentRoleID
	}
	return false, nil
}

// ========== 变更方法 ==========

// CreateRoleParams 创建角色参数
type CreateRoleParams struct {
	Name         string
	DisplayName  string
	Description  string
	Level        int
	ParentRoleID *uint
	Permissions  []string
}

// Create 创建角色
//
// 操作者必须能管理父角色；新角色层级必须严格低于父角色。
func (s *RoleService) Create(actingRoleID uint, params CreateRoleParams, grantedBy uint) (*models.Role, error) {
	var count int64
	s.db.Model(&models.Role{}).Where("name = ?", params.Name).Count(&count)
	if count > 0 {
		return nil, ErrRoleNameTaken
	}

	if params.ParentRoleID != nil {
		canManage, err := s.CanManage(actingRoleID, *params.ParentRoleID)
		if err != nil {
			return nil, err
		}
		if !canManage {
			return nil, ErrCannotManageRole
		}

		var parent models.Role
		if err := s.db.First(&parent, *params.ParentRoleID).Error; err != nil {
			return nil, err
		}
		if params.Level >= parent.Level {
			return nil, ErrLevelNotBelowParent
		}
	}

	role := &models.Role{
		Name:         params.Name,
		DisplayName:  params.DisplayName,
		Description:  params.Description,
		Level:        params.Level,
		ParentRoleID: params.ParentRoleID,
		IsSystem:     false,
		IsActive:     true,
	}

	permissionService := NewPermissionService(s.db)
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(role).Error; err != nil {
			return err
		}

		for _, permName := range params.Permissions {
			permission, err := permissionService.FindOrCreate(tx, permName)
			if err != nil {
				return err
			}
			link := models.RolePermission{
				RoleID:       role.ID,
				PermissionID: permission.ID,
				GrantedBy:    &grantedBy,
			}
			if err := tx.Create(&link).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return role, nil
}

// UpdateRoleParams 更新角色参数（nil字段不变更）
type UpdateRoleParams struct {
	DisplayName  *string
	Description  *string
	Level        *int
	ParentRoleID *uint
	ClearParent  bool
	IsActive     *bool
}

// Update 更新角色
//
// 系统角色拒绝层级和父角色变更；其余变更需要操作者能管理目标角色，
// 且变更后仍满足层级低于父角色的不变量。
func (s *RoleService) Update(actingRoleID, roleID uint, params UpdateRoleParams) (*models.Role, error) {
	var role models.Role
	if err := s.db.First(&role, roleID).Error; err != nil {
		return nil, err
	}

	if role.IsSystem && (params.Level != nil || params.ParentRoleID != nil || params.ClearParent) {
		return nil, ErrSystemRole
	}

	canManage, err := s.CanManage(actingRoleID, roleID)
	if err != nil {
		return nil, err
	}
	if !canManage {
		return nil, ErrCannotManageRole
	}

	if params.DisplayName != nil {
		role.DisplayName = *params.DisplayName
	}
	if params.Description != nil {
		role.Description = *params.Description
	}
	if params.Level != nil {
		role.Level = *params.Level
	}
	if params.ClearParent {
		role.ParentRoleID = nil
	} else if params.ParentRoleID != nil {
		role.ParentRoleID = params.ParentRoleID
	}
	if params.IsActive != nil {
		role.IsActive = *params.IsActive
	}

	// 变更后重新校验不变量：不能成环，层级必须低于父角色
	if role.ParentRoleID != nil {
		cycle, err := s.wouldCreateCycle(role.ID, role.ParentRoleID)
		if err != nil {
			return nil, err
		}
		if cycle {
			return nil, ErrRoleCycle
		}

		var parent models.Role
		if err := s.db.First(&parent, *role.ParentRoleID).Error; err != nil {
			return nil, err
		}
		if role.Level >= parent.Level {
			return nil, ErrLevelNotBelowParent
		}
	}

	if err := s.db.Save(&role).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

// Delete 删除角色（非系统角色、无用户挂载、操作者层级更高）
func (s *RoleService) Delete(actingRoleID, roleID uint) error {
	var role models.Role
	if err := s.db.First(&role, roleID).Error; err != nil {
		return err
	}

	if role.IsSystem {
		return ErrSystemRole
	}

	var userCount int64
	s.db.Model(&models.User{}).Where("role_id = ?", roleID).Count(&userCount)
	if userCount > 0 {
		return ErrRoleInUse
	}

	canManage, err := s.CanManage(actingRoleID, roleID)
	if err != nil {
		return err
	}
	if !canManage {
		return ErrCannotManageRole
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("role_id = ?", roleID).Delete(&models.RolePermission{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Role{}, roleID).Error
	})
}

// AssignPermissions 重设角色的权限集（整体替换，不是增量）
func (s *RoleService) AssignPermissions(actingRoleID, roleID uint, permissions []string, grantedBy uint) error {
	var role models.Role
	if err := s.db.First(&role, roleID).Error; err != nil {
		return err
	}

	canManage, err := s.CanManage(actingRoleID, roleID)
	if err != nil {
		return err
	}
	if !canManage {
		return ErrCannotManageRole
	}

	permissionService := NewPermissionService(s.db)
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("role_id = ?", roleID).Delete(&models.RolePermission{}).Error; err != nil {
			return err
		}

		for _, permName := range permissions {
			permission, err := permissionService.FindOrCreate(tx, permName)
			if err != nil {
				return err
			}
			link := models.RolePermission{
				RoleID:       roleID,
				PermissionID: permission.ID,
				GrantedBy:    &grantedBy,
			}
			if err := tx.Create(&link).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
