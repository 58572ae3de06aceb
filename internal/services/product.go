package services

import (
	"time"

	"boutique/internal/models"

	"gorm.io/gorm"
)

type ProductService struct {
	db *gorm.DB
}

func NewProductService(db *gorm.DB) *ProductService {
	return &ProductService{db: db}
}

// List 产品列表（名称升序）
func (s *ProductService) List(categorie string) ([]*models.Product, error) {
	query := s.db.Order("nom")
	if categorie != "" {
		query = query.Where("categorie = ?", categorie)
	}

	var products []*models.Product
	err := query.Find(&products).Error
	return products, err
}

// GetByID 根据ID获取产品
func (s *ProductService) GetByID(id uint) (*models.Product, error) {
	var product models.Product
	err := s.db.First(&product, id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// GetByCode 根据条码获取产品（收银台扫码用）
func (s *ProductService) GetByCode(code string) (*models.Product, error) {
	var product models.Product
	err := s.db.Where("code = ?", code).First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// GetLowStock 库存不高于告警阈值的产品
func (s *ProductService) GetLowStock() ([]*models.Product, error) {
	var products []*models.Product
	err := s.db.Where("stock <= stock_min").Order("stock").Find(&products).Error
	return products, err
}

// CreateProductParams 创建产品参数
type CreateProductParams struct {
	Nom         string
	Code        string
	Categorie   string
	Fournisseur string
	PrixAchat   float64
	PrixVente   float64
	Stock       int
	StockMin    int
}

// Create 创建产品（条码唯一，售价必须高于进价）
func (s *ProductService) Create(params CreateProductParams) (*models.Product, error) {
	if params.PrixVente <= params.PrixAchat {
		return nil, ErrPriceBelowCost
	}

	var count int64
	s.db.Model(&models.Product{}).Where("code = ?", params.Code).Count(&count)
	if count > 0 {
		return nil, ErrProductCodeTaken
	}

	stockMin := params.StockMin
	if stockMin == 0 {
		stockMin = 5
	}

	product := &models.Product{
		Nom:         params.Nom,
		Code:        params.Code,
		Categorie:   params.Categorie,
		Fournisseur: params.Fournisseur,
		PrixAchat:   params.PrixAchat,
		PrixVente:   params.PrixVente,
		Stock:       params.Stock,
		StockMin:    stockMin,
	}
	if err := s.db.Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// UpdateProductParams 更新产品参数（nil字段不变更；库存不在此处改，走销售和补货）
type UpdateProductParams struct {
	Nom         *string
	Code        *string
	Categorie   *string
	Fournisseur *string
	PrixAchat   *float64
	PrixVente   *float64
	StockMin    *int
}

// Update 更新产品
func (s *ProductService) Update(id uint, params UpdateProductParams) (*models.Product, error) {
	var product models.Product
	if err := s.db.First(&product, id).Error; err != nil {
		return nil, err
	}

	if params.Nom != nil {
		product.Nom = *params.Nom
	}
	if params.Code != nil && *params.Code != product.Code {
		var count int64
		s.db.Model(&models.Product{}).Where("code = ? AND id <> ?", *params.Code, id).Count(&count)
		if count > 0 {
			return nil, ErrProductCodeTaken
		}
		product.Code = *params.Code
	}
	if params.Categorie != nil {
		product.Categorie = *params.Categorie
	}
	if params.Fournisseur != nil {
		product.Fournisseur = *params.Fournisseur
	}
	if params.PrixAchat != nil {
		product.PrixAchat = *params.PrixAchat
	}
	if params.PrixVente != nil {
		product.PrixVente = *params.PrixVente
	}
	if product.PrixVente <= product.PrixAchat {
		return nil, ErrPriceBelowCost
	}
	if params.StockMin != nil {
		product.StockMin = *params.StockMin
	}

	if err := s.db.Save(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// Delete 删除产品
func (s *ProductService) Delete(id uint) error {
	var product models.Product
	if err := s.db.First(&product, id).Error; err != nil {
		return err
	}
	return s.db.Delete(&models.Product{}, id).Error
}

// Restock 补货
//
// 库存增加和对应的"Achat stock"支出在同一事务内，
// 支出金额为进价乘以补货数量。
func (s *ProductService) Restock(id uint, quantite int) (*models.Product, error) {
	if quantite <= 0 {
		return nil, ErrInvalidQuantity
	}

	var product models.Product
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&product, id).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Product{}).
			Where("id = ?", id).
			Update("stock", gorm.Expr("stock + ?", quantite)).Error; err != nil {
			return err
		}
		product.Stock += quantite

		expense := models.Expense{
			Description: "Achat stock: " + product.Nom,
			Montant:     product.PrixAchat * float64(quantite),
			Categorie:   "Achat stock",
			Date:        time.Now(),
		}
		return tx.Create(&expense).Error
	})
	if err != nil {
		return nil, err
	}

	return &product, nil
}
