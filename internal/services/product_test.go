package services

import (
	"testing"

	"boutique/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateProductPriceGuard(t *testing.T) {
	db := setupTestDB(t)
	s := NewProductService(db)

	_, err := s.Create(CreateProductParams{
		Nom:       "Perte sèche",
		Code:      "G001",
		PrixAchat: 100,
		PrixVente: 100,
	})
	assert.ErrorIs(t, err, ErrPriceBelowCost)
}

func TestCreateProductCodeConflict(t *testing.T) {
	db := setupTestDB(t)
	s := NewProductService(db)

	createTestProduct(t, db, "G002", 10)

	_, err := s.Create(CreateProductParams{
		Nom:       "Doublon",
		Code:      "G002",
		PrixAchat: 10,
		PrixVente: 20,
	})
	assert.ErrorIs(t, err, ErrProductCodeTaken)
}

func TestGetByCode(t *testing.T) {
	db := setupTestDB(t)
	s := NewProductService(db)

	created := createTestProduct(t, db, "G003", 10)

	product, err := s.GetByCode("G003")
	require.NoError(t, err)
	assert.Equal(t, created.ID, product.ID)
}

func TestLowStock(t *testing.T) {
	db := setupTestDB(t)
	s := NewProductService(db)

	low := createTestProduct(t, db, "G004", 3)
	createTestProduct(t, db, "G005", 50)

	products, err := s.GetLowStock()
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, low.ID, products[0].ID)
}

func TestRestockCreatesExpense(t *testing.T) {
	db := setupTestDB(t)
	s := NewProductService(db)

	product := createTestProduct(t, db, "G006", 5)

	updated, err := s.Restock(product.ID, 10)
	require.NoError(t, err)
	assert.Equal(t, 15, updated.Stock)

	// 补货同时记一笔进货支出：prixAchat × quantité
	var expense models.Expense
	require.NoError(t, db.Where("categorie = ?", "Achat stock").First(&expense).Error)
	assert.Equal(t, 1000.0, expense.Montant)
}

func TestRestockInvalidQuantity(t *testing.T) {
	db := setupTestDB(t)
	s := NewProductService(db)

	product := createTestProduct(t, db, "G007", 5)

	_, err := s.Restock(product.ID, 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	// 无副作用
	var expenseCount int64
	db.Model(&models.Expense{}).Count(&expenseCount)
	assert.Zero(t, expenseCount)
}

func TestUpdateProductPriceGuard(t *testing.T) {
	db := setupTestDB(t)
	s := NewProductService(db)

	product := createTestProduct(t, db, "G008", 5)

	// 售价降到进价之下被拒
	badPrice := 50.0
	_, err := s.Update(product.ID, UpdateProductParams{PrixVente: &badPrice})
	assert.ErrorIs(t, err, ErrPriceBelowCost)
}
