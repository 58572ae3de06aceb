package services

import (
	"testing"

	"boutique/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB 每个测试一个独立的内存数据库
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Permission{},
		&models.Role{},
		&models.RolePermission{},
		&models.UserPermission{},
		&models.RefreshToken{},
		&models.Product{},
		&models.Client{},
		&models.Sale{},
		&models.Credit{},
		&models.Expense{},
	)
	require.NoError(t, err)

	return db
}

// seedDefaults 初始化权限目录和默认角色
func seedDefaults(t *testing.T, db *gorm.DB) {
	t.Helper()
	require.NoError(t, NewPermissionService(db).InitializeDefaults())
	require.NoError(t, NewRoleService(db).InitializeDefaults())
}

// createTestUser 创建测试用户并按角色名挂上RoleID
func createTestUser(t *testing.T, db *gorm.DB, email, roleName string) *models.User {
	t.Helper()

	user, err := NewUserService(db).Create(CreateUserParams{
		Email:    email,
		Password: "motdepasse123",
		Nom:      "Test",
		Role:     roleName,
	})
	require.NoError(t, err)
	return user
}

// createTestProduct 创建测试产品
func createTestProduct(t *testing.T, db *gorm.DB, code string, stock int) *models.Product {
	t.Helper()

	product, err := NewProductService(db).Create(CreateProductParams{
		Nom:       "Produit " + code,
		Code:      code,
		PrixAchat: 100,
		PrixVente: 150,
		Stock:     stock,
	})
	require.NoError(t, err)
	return product
}

// createTestClient 创建测试客户
func createTestClient(t *testing.T, db *gorm.DB, telephone string) *models.Client {
	t.Helper()

	client, err := NewClientService(db).Create(CreateClientParams{
		Nom:       "Client " + telephone,
		Telephone: telephone,
	})
	require.NoError(t, err)
	return client
}
