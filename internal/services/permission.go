package services

import (
	"boutique/internal/models"
	"boutique/pkg/pagination"

	"gorm.io/gorm"
)

type PermissionService struct {
	db *gorm.DB
}

func NewPermissionService(db *gorm.DB) *PermissionService {
	return &PermissionService{db: db}
}

// permissionDescriptions 权限代码到描述的映射（种子数据）
var permissionDescriptions = map[string]string{
	models.PermProductsRead:    "Voir les produits",
	models.PermProductsCreate:  "Créer des produits",
	models.PermProductsUpdate:  "Modifier les produits",
	models.PermProductsDelete:  "Supprimer des produits",
	models.PermProductsRestock: "Réapprovisionner le stock",

	models.PermSalesRead:   "Voir les ventes",
	models.PermSalesCreate: "Enregistrer des ventes",
	models.PermSalesDelete: "Annuler des ventes",

	models.PermClientsRead:   "Voir les clients",
	models.PermClientsCreate: "Créer des clients",
	models.PermClientsUpdate: "Modifier les clients",
	models.PermClientsDelete: "Supprimer des clients",

	models.PermCreditsRead: "Voir les crédits",
	models.PermCreditsPay:  "Encaisser les paiements de crédit",

	models.PermExpensesRead:   "Voir les dépenses",
	models.PermExpensesCreate: "Enregistrer des dépenses",
	models.PermExpensesDelete: "Supprimer des dépenses",

	models.PermStatsRead: "Voir les statistiques",

	models.PermUsersRead:              "Voir les utilisateurs",
	models.PermUsersCreate:            "Créer des utilisateurs",
	models.PermUsersUpdate:            "Modifier les utilisateurs",
	models.PermUsersDelete:            "Supprimer des utilisateurs",
	models.PermUsersManagePermissions: "Gérer les permissions des utilisateurs",
}

// InitializeDefaults 初始化权限目录（可重复执行）
func (s *PermissionService) InitializeDefaults() error {
	for _, name := range models.AllPermissions() {
		var count int64
		s.db.Model(&models.Permission{}).Where("name = ?", name).Count(&count)
		if count > 0 {
			continue
		}

		permission := models.Permission{
			Name:        name,
			Category:    models.PermissionCategory(name),
			Description: permissionDescriptions[name],
		}
		if err := s.db.Create(&permission).Error; err != nil {
			return err
		}
	}
	return nil
}

// FindOrCreate 按名称查找权限，不存在则创建
//
// 接受 tx 以便在角色赋权事务内使用。
func (s *PermissionService) FindOrCreate(tx *gorm.DB, name string) (*models.Permission, error) {
	var permission models.Permission
	err := tx.Where("name = ?", name).First(&permission).Error
	if err == gorm.ErrRecordNotFound {
		permission = models.Permission{
			Name:        name,
			Category:    models.PermissionCategory(name),
			Description: permissionDescriptions[name],
		}
		if err := tx.Create(&permission).Error; err != nil {
			return nil, err
		}
		return &permission, nil
	}
	if err != nil {
		return nil, err
	}
	return &permission, nil
}

// List 分页查询权限列表（可按分类过滤）
func (s *PermissionService) List(params *pagination.PageParams, category string) ([]*models.Permission, int64, error) {
	var permissions []*models.Permission
	var total int64

	query := s.db.Model(&models.Permission{})
	if category != "" {
		query = query.Where("category = ?", category)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("category, name").
		Offset(params.Offset()).
		Limit(params.Limit()).
		Find(&permissions).Error
	if err != nil {
		return nil, 0, err
	}

	return permissions, total, nil
}

// GetAllGrouped 按分类分组返回全部权限
func (s *PermissionService) GetAllGrouped() (map[string][]*models.Permission, error) {
	var permissions []*models.Permission
	err := s.db.Order("category, name").Find(&permissions).Error
	if err != nil {
		return nil, err
	}

	grouped := make(map[string][]*models.Permission)
	for _, p := range permissions {
		grouped[p.Category] = append(grouped[p.Category], p)
	}
	return grouped, nil
}
