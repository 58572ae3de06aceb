package services

import (
	"boutique/internal/models"
	"boutique/pkg/logger"

	"gorm.io/gorm"
)

// UserService 用户与权限解析服务
type UserService struct {
	db          *gorm.DB
	roleService *RoleService
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{
		db:          db,
		roleService: NewRoleService(db),
	}
}

// ========== 查询方法 ==========

// GetByID 根据ID获取用户（含角色和直接授权）
func (s *UserService) GetByID(id uint) (*models.User, error) {
	var user models.User
	err := s.db.Preload("RoleData").
		Preload("Permissions.Permission").
		First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail 根据邮箱获取用户
func (s *UserService) GetByEmail(email string) (*models.User, error) {
	var user models.User
	err := s.db.Preload("RoleData").Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetAll 获取所有用户（含角色，创建时间降序）
func (s *UserService) GetAll() ([]*models.User, error) {
	var users []*models.User
	err := s.db.Preload("RoleData").
		Order("created_at DESC").
		Find(&users).Error
	return users, err
}

// CountUsers 统计用户总数（init端点：已有任何用户则拒绝引导）
func (s *UserService) CountUsers() (int64, error) {
	var count int64
	err := s.db.Model(&models.User{}).Count(&count).Error
	return count, err
}

// CountAdmins 统计管理员数量（check-admin端点用）
func (s *UserService) CountAdmins() (int64, error) {
	var count int64
	err := s.db.Model(&models.User{}).Where("role = ?", models.RoleNameAdmin).Count(&count).Error
	return count, err
}

// ========== 权限解析 ==========

// rolePermissions 解析用户的角色权限集（不含直接授权）
//
// RoleID 设置时走角色表的继承链，否则回退到旧版字符串角色的静态表。
// 两条路径二选一，不叠加。
func (s *UserService) rolePermissions(user *models.User) ([]string, error) {
	if user.RoleID != nil {
		return s.roleService.GetEffectivePermissions(*user.RoleID)
	}
	return LegacyRolePermissions(user.Role), nil
}

// GetUserPermissions 获取用户的完整权限集（角色权限 + 直接授权，去重）
func (s *UserService) GetUserPermissions(userID uint) ([]string, error) {
	user, err := s.GetByID(userID)
	if err != nil {
		return nil, err
	}

	perms, err := s.rolePermissions(user)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(perms))
	result := make([]string, 0, len(perms))
	for _, p := range perms {
		if !seen[p] {
			seen[p] = true
			result = append(result, p)
		}
	}

	for _, up := range user.Permissions {
		if !seen[up.Permission.Name] {
			seen[up.Permission.Name] = true
			result = append(result, up.Permission.Name)
		}
	}

	return result, nil
}

// HasPermission 判断用户是否拥有指定权限
func (s *UserService) HasPermission(userID uint, permission string) (bool, error) {
	perms, err := s.GetUserPermissions(userID)
	if err != nil {
		return false, err
	}
	for _, p := range perms {
		if p == permission {
			return true, nil
		}
	}
	return false, nil
}

// HasAllPermissions 判断用户是否拥有全部指定权限
func (s *UserService) HasAllPermissions(userID uint, permissions []string) (bool, error) {
	perms, err := s.GetUserPermissions(userID)
	if err != nil {
		return false, err
	}
	set := make(map[string]bool, len(perms))
	for _, p := range perms {
		set[p] = true
	}
	for _, required := range permissions {
		if !set[required] {
			return false, nil
		}
	}
	return true, nil
}

// HasAnyPermission 判断用户是否拥有任一指定权限
func (s *UserService) HasAnyPermission(userID uint, permissions []string) (bool, error) {
	perms, err := s.GetUserPermissions(userID)
	if err != nil {
		return false, err
	}
	set := make(map[string]bool, len(perms))
	for _, p := range perms {
		set[p] = true
	}
	for _, candidate := range permissions {
		if set[candidate] {
			return true, nil
		}
	}
	return false, nil
}

// userRoleLevel 解析用户的角色层级
//
// 层级只存在于角色表里。RoleID为空的存量用户走不了层级判断，
// 一律视为无层级（权限解析的静态表回退不适用于这里）。
func (s *UserService) userRoleLevel(user *models.User) (int, error) {
	if user.RoleID == nil {
		return 0, ErrNoRoleAssigned
	}

	var role models.Role
	if err := s.db.First(&role, *user.RoleID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return 0, ErrNoRoleAssigned
		}
		return 0, err
	}
	return role.Level, nil
}

// HasRoleOrHigher 判断用户层级是否不低于指定角色
func (s *UserService) HasRoleOrHigher(userID uint, roleName string) (bool, error) {
	user, err := s.GetByID(userID)
	if err != nil {
		return false, err
	}

	level, err := s.userRoleLevel(user)
	if err != nil {
		if err == ErrNoRoleAssigned {
			return false, nil
		}
		return false, err
	}

	required, err := s.roleService.GetByName(roleName)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return false, nil
		}
		return false, err
	}

	return level >= required.Level, nil
}

// ========== 用户管理 ==========

// CreateUserParams 创建用户参数
type CreateUserParams struct {
	Email    string
	Password string
	Nom      string
	Role     string
	RoleID   *uint
}

// Create 创建用户（邮箱唯一，角色字符串与RoleID保持同步）
func (s *UserService) Create(params CreateUserParams) (*models.User, error) {
	var count int64
	s.db.Model(&models.User{}).Where("email = ?", params.Email).Count(&count)
	if count > 0 {
		return nil, ErrEmailTaken
	}

	roleName := params.Role
	if roleName == "" {
		roleName = models.RoleNameUser
	}

	roleID := params.RoleID
	if roleID == nil {
		// 按名称解析角色表，找不到时只保留字符串角色
		if role, err := s.roleService.GetByName(roleName); err == nil {
			roleID = &role.ID
		}
	}

	user := &models.User{
		Email:    params.Email,
		Nom:      params.Nom,
		Role:     roleName,
		RoleID:   roleID,
		IsActive: true,
	}
	if err := user.SetPassword(params.Password); err != nil {
		return nil, err
	}

	if err := s.db.Create(user).Error; err != nil {
		return nil, err
	}

	logger.GetLogger().Infof("Utilisateur créé: %s (%s)", user.Email, user.Role)
	return user, nil
}

// UpdateUserParams 更新用户参数（nil字段不变更）
type UpdateUserParams struct {
	Nom      *string
	Role     *string
	RoleID   *uint
	IsActive *bool
	Password *string
}

// Update 更新用户
func (s *UserService) Update(userID uint, params UpdateUserParams) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return nil, err
	}

	if params.Nom != nil {
		user.Nom = *params.Nom
	}
	if params.Role != nil {
		user.Role = *params.Role
		// 字符串角色变更时同步角色表引用
		if role, err := s.roleService.GetByName(*params.Role); err == nil {
			user.RoleID = &role.ID
		} else if err == gorm.ErrRecordNotFound {
			user.RoleID = nil
		}
	}
	if params.RoleID != nil {
		user.RoleID = params.RoleID
		if role, err := s.roleService.GetByID(*params.RoleID); err == nil {
			user.Role = role.Name
		}
	}
	if params.IsActive != nil {
		user.IsActive = *params.IsActive
	}
	if params.Password != nil {
		if err := user.SetPassword(*params.Password); err != nil {
			return nil, err
		}
	}

	if err := s.db.Save(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Delete 删除用户（先撤销其全部刷新令牌和直接授权）
func (s *UserService) Delete(userID uint) error {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.RefreshToken{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.UserPermission{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, userID).Error
	})
}

// ========== 直接授权 ==========

// GrantPermission 给用户直接授予权限（幂等）
func (s *UserService) GrantPermission(userID uint, permissionName string, grantedBy uint) error {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return err
	}

	permission, err := NewPermissionService(s.db).FindOrCreate(s.db, permissionName)
	if err != nil {
		return err
	}

	var count int64
	s.db.Model(&models.UserPermission{}).
		Where("user_id = ? AND permission_id = ?", userID, permission.ID).
		Count(&count)
	if count > 0 {
		return nil
	}

	grant := models.UserPermission{
		UserID:       userID,
		PermissionID: permission.ID,
		GrantedBy:    grantedBy,
	}
	return s.db.Create(&grant).Error
}

// RevokePermission 撤销用户的直接授权（不存在时静默成功）
func (s *UserService) RevokePermission(userID uint, permissionName string) error {
	var permission models.Permission
	err := s.db.Where("name = ?", permissionName).First(&permission).Error
	if err == gorm.ErrRecordNotFound {
		return nil
	}
	if err != nil {
		return err
	}

	return s.db.Where("user_id = ? AND permission_id = ?", userID, permission.ID).
		Delete(&models.UserPermission{}).Error
}

// GetDirectPermissions 获取用户的直接授权列表
func (s *UserService) GetDirectPermissions(userID uint) ([]*models.UserPermission, error) {
	var grants []*models.UserPermission
	err := s.db.Preload("Permission").
		Where("user_id = ?", userID).
		Find(&grants).Error
	return grants, err
}
