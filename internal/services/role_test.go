package services

import (
	"testing"

	"boutique/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func roleByName(t *testing.T, s *RoleService, name string) *models.Role {
	t.Helper()
	role, err := s.GetByName(name)
	require.NoError(t, err)
	return role
}

func TestInitializeDefaultsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	seedDefaults(t, db)
	// 第二次执行不报错也不重复
	seedDefaults(t, db)

	var roleCount int64
	db.Model(&models.Role{}).Count(&roleCount)
	assert.Equal(t, int64(4), roleCount)

	var permCount int64
	db.Model(&models.Permission{}).Count(&permCount)
	assert.Equal(t, int64(len(models.AllPermissions())), permCount)

	// admin 直接挂全部权限，链接无重复
	s := NewRoleService(db)
	admin := roleByName(t, s, models.RoleNameAdmin)
	var linkCount int64
	db.Model(&models.RolePermission{}).Where("role_id = ?", admin.ID).Count(&linkCount)
	assert.Equal(t, int64(len(models.AllPermissions())), linkCount)
}

func TestDefaultRoleHierarchy(t *testing.T) {
	db := setupTestDB(t)
	seedDefaults(t, db)
	s := NewRoleService(db)

	admin := roleByName(t, s, models.RoleNameAdmin)
	manager := roleByName(t, s, models.RoleNameManager)
	cashier := roleByName(t, s, models.RoleNameCashier)
	user := roleByName(t, s, models.RoleNameUser)

	assert.Nil(t, admin.ParentRoleID)
	require.NotNil(t, manager.ParentRoleID)
	assert.Equal(t, admin.ID, *manager.ParentRoleID)
	require.NotNil(t, cashier.ParentRoleID)
	assert.Equal(t, manager.ID, *cashier.ParentRoleID)
	require.NotNil(t, user.ParentRoleID)
	assert.Equal(t, cashier.ID, *user.ParentRoleID)
}

func TestEffectivePermissionsInheritance(t *testing.T) {
	db := setupTestDB(t)
	seedDefaults(t, db)
	s := NewRoleService(db)

	// 父链向上到admin，继承集合等于全部权限
	cashier := roleByName(t, s, models.RoleNameCashier)
	effective, err := s.GetEffectivePermissions(cashier.ID)
	require.NoError(t, err)

	assert.ElementsMatch(t, models.AllPermissions(), effective)
}

func TestEffectivePermissionsUnknownRole(t *testing.T) {
	db := setupTestDB(t)
	seedDefaults(t, db)
	s := NewRoleService(db)

	effective, err := s.GetEffectivePermissions(9999)
	require.NoError(t, err)
	assert.Empty(t, effective)
}

func TestCanManage(t *testing.T) {
	db := setupTestDB(t)
	seedDefaults(t, db)
	s := NewRoleService(db)

	admin := roleByName(t, s, models.RoleNameAdmin)
	manager := roleByName(t, s, models.RoleNameManager)

	ok, err := s.CanManage(admin.ID, manager.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	// 下级管不了上级
	ok, err = s.CanManage(manager.ID, admin.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	// 同级（自身）也不行
	ok, err = s.CanManage(admin.ID, admin.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	// 不存在的角色不报错，返回false
	ok, err = s.CanManage(admin.ID, 9999)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGetManageableRoles(t *testing.T) {
	db := setupTestDB(t)
	seedDefaults(t, db)
	s := NewRoleService(db)

	manager := roleByName(t, s, models.RoleNameManager)
	roles, err := s.GetManageableRoles(manager.ID)
	require.NoError(t, err)

	names := make([]string, 0, len(roles))
	for _, r := range roles {
		names = append(names, r.Name)
	}
	assert.ElementsMatch(t, []string{models.RoleNameCashier, models.RoleNameUser}, names)
}

func TestCreateRoleLevelGuard(t *testing.T) {
	db := setupTestDB(t)
	seedDefaults(t, db)
	s := NewRoleService(db)

	admin := roleByName(t, s, models.RoleNameAdmin)
	manager := roleByName(t, s, models.RoleNameManager)

	// 层级必须严格低于父角色
	_, err := s.Create(admin.ID, CreateRoleParams{
		Name:         "superviseur",
		DisplayName:  "Superviseur",
		Level:        models.RoleLevelManager,
		ParentRoleID: &manager.ID,
	}, 1)
	assert.ErrorIs(t, err, ErrLevelNotBelowParent)

	// manager 管不了 admin，不能在其下挂角色
	_, err = s.Create(manager.ID, CreateRoleParams{
		Name:         "adjoint",
		DisplayName:  "Adjoint",
		Level:        90,
		ParentRoleID: &admin.ID,
	}, 1)
	assert.ErrorIs(t, err, ErrCannotManageRole)

	// 合法创建
	role, err := s.Create(admin.ID, CreateRoleParams{
		Name:         "superviseur",
		DisplayName:  "Superviseur",
		Level:        60,
		ParentRoleID: &manager.ID,
		Permissions:  []string{models.PermSalesRead},
	}, 1)
	require.NoError(t, err)
	assert.False(t, role.IsSystem)

	// 名称冲突
	_, err = s.Create(admin.ID, CreateRoleParams{
		Name:        "superviseur",
		DisplayName: "Doublon",
		Level:       55,
	}, 1)
	assert.ErrorIs(t, err, ErrRoleNameTaken)
}

func TestSystemRoleGuards(t *testing.T) {
	db := setupTestDB(t)
	seedDefaults(t, db)
	s := NewRoleService(db)

	admin := roleByName(t, s, models.RoleNameAdmin)
	manager := roleByName(t, s, models.RoleNameManager)

	// 系统角色不能改层级
	newLevel := 10
	_, err := s.Update(admin.ID, manager.ID, UpdateRoleParams{Level: &newLevel})
	assert.ErrorIs(t, err, ErrSystemRole)

	// 系统角色不能删除
	err = s.Delete(admin.ID, manager.ID)
	assert.ErrorIs(t, err, ErrSystemRole)
}

func TestDeleteRoleInUse(t *testing.T) {
	db := setupTestDB(t)
	seedDefaults(t, db)
	s := NewRoleService(db)

	admin := roleByName(t, s, models.RoleNameAdmin)
	manager := roleByName(t, s, models.RoleNameManager)

	custom, err := s.Create(admin.ID, CreateRoleParams{
		Name:         "vendeur",
		DisplayName:  "Vendeur",
		Level:        40,
		ParentRoleID: &manager.ID,
	}, 1)
	require.NoError(t, err)

	user := createTestUser(t, db, "vendeur@test.fr", models.RoleNameUser)
	require.NoError(t, db.Model(user).Update("role_id", custom.ID).Error)

	err = s.Delete(admin.ID, custom.ID)
	assert.ErrorIs(t, err, ErrRoleInUse)

	// 用户摘掉之后可以删
	require.NoError(t, db.Model(user).Update("role_id", nil).Error)
	require.NoError(t, s.Delete(admin.ID, custom.ID))
}

// 把角色挂到自己的后代之下会成环，更新必须拒绝
func TestUpdateRejectsReparentOntoDescendant(t *testing.T) {
	db := setupTestDB(t)
	seedDefaults(t, db)
	s := NewRoleService(db)

	admin := roleByName(t, s, models.RoleNameAdmin)
	manager := roleByName(t, s, models.RoleNameManager)

	chef, err := s.Create(admin.ID, CreateRoleParams{
		Name:         "chef_rayon",
		DisplayName:  "Chef de rayon",
		Level:        50,
		ParentRoleID: &manager.ID,
	}, 1)
	require.NoError(t, err)

	stagiaire, err := s.Create(admin.ID, CreateRoleParams{
		Name:         "stagiaire_rayon",
		DisplayName:  "Stagiaire",
		Level:        40,
		ParentRoleID: &chef.ID,
	}, 1)
	require.NoError(t, err)

	// 直接后代
	newLevel := 30
	_, err = s.Update(admin.ID, chef.ID, UpdateRoleParams{
		Level:        &newLevel,
		ParentRoleID: &stagiaire.ID,
	})
	assert.ErrorIs(t, err, ErrRoleCycle)

	// 隔一代的后代也一样
	apprenti, err := s.Create(admin.ID, CreateRoleParams{
		Name:         "apprenti_rayon",
		DisplayName:  "Apprenti",
		Level:        35,
		ParentRoleID: &stagiaire.ID,
	}, 1)
	require.NoError(t, err)

	_, err = s.Update(admin.ID, chef.ID, UpdateRoleParams{
		Level:        &newLevel,
		ParentRoleID: &apprenti.ID,
	})
	assert.ErrorIs(t, err, ErrRoleCycle)

	// 自己当自己的父角色同样被拒
	_, err = s.Update(admin.ID, chef.ID, UpdateRoleParams{
		Level:        &newLevel,
		ParentRoleID: &chef.ID,
	})
	assert.ErrorIs(t, err, ErrRoleCycle)

	// 被拒的更新不落库
	reloaded, err := s.GetByID(chef.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded.ParentRoleID)
	assert.Equal(t, manager.ID, *reloaded.ParentRoleID)
	assert.Equal(t, 50, reloaded.Level)
}

func TestDeleteRequiresHigherLevel(t *testing.T) {
	db := setupTestDB(t)
	seedDefaults(t, db)
	s := NewRoleService(db)

	admin := roleByName(t, s, models.RoleNameAdmin)
	manager := roleByName(t, s, models.RoleNameManager)
	cashier := roleByName(t, s, models.RoleNameCashier)

	directeur, err := s.Create(admin.ID, CreateRoleParams{
		Name:         "directeur",
		DisplayName:  "Directeur",
		Level:        70,
		ParentRoleID: &manager.ID,
	}, 1)
	require.NoError(t, err)

	stagiaire, err := s.Create(admin.ID, CreateRoleParams{
		Name:         "stagiaire",
		DisplayName:  "Stagiaire",
		Level:        20,
		ParentRoleID: &cashier.ID,
	}, 1)
	require.NoError(t, err)

	// 层级50删不了层级70
	err = s.Delete(cashier.ID, directeur.ID)
	assert.ErrorIs(t, err, ErrCannotManageRole)

	// 同一个角色删层级20的可以
	require.NoError(t, s.Delete(cashier.ID, stagiaire.ID))
}

func TestAssignPermissionsReplaces(t *testing.T) {
	db := setupTestDB(t)
	seedDefaults(t, db)
	s := NewRoleService(db)

	admin := roleByName(t, s, models.RoleNameAdmin)
	manager := roleByName(t, s, models.RoleNameManager)

	custom, err := s.Create(admin.ID, CreateRoleParams{
		Name:         "comptable",
		DisplayName:  "Comptable",
		Level:        30,
		ParentRoleID: &manager.ID,
		Permissions:  []string{models.PermExpensesRead, models.PermExpensesCreate},
	}, 1)
	require.NoError(t, err)

	// 整体替换，不是增量
	err = s.AssignPermissions(admin.ID, custom.ID, []string{models.PermStatsRead}, 1)
	require.NoError(t, err)

	role, err := s.GetByID(custom.ID)
	require.NoError(t, err)
	require.Len(t, role.Permissions, 1)
	assert.Equal(t, models.PermStatsRead, role.Permissions[0].Permission.Name)
}
