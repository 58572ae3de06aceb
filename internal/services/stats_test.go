package services

import (
	"testing"

	"boutique/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboard(t *testing.T) {
	db := setupTestDB(t)
	s := NewStatsService(db)

	// 进价100 售价150，库存20
	product := createTestProduct(t, db, "D001", 20)
	client := createTestClient(t, db, "0801020304")

	saleService := NewSaleService(db)
	_, err := saleService.Create(CreateSaleParams{
		ProductID: product.ID,
		Quantite:  2,
		TypeVente: models.SaleTypeComptant,
	})
	require.NoError(t, err)
	_, err = saleService.Create(CreateSaleParams{
		ProductID: product.ID,
		ClientID:  &client.ID,
		Quantite:  1,
		TypeVente: models.SaleTypeCredit,
	})
	require.NoError(t, err)

	_, err = NewExpenseService(db).Create(CreateExpenseParams{
		Description: "Loyer",
		Montant:     80,
		Categorie:   "Charges",
	})
	require.NoError(t, err)

	stats, err := s.Dashboard()
	require.NoError(t, err)

	assert.Equal(t, int64(2), stats.Sales.Day.Count)
	assert.Equal(t, 450.0, stats.Sales.Day.Total)
	assert.Equal(t, 80.0, stats.MonthExpenses)
	assert.Equal(t, int64(1), stats.ProductCount)
	// 剩余库存17 × 进价100
	assert.Equal(t, 1700.0, stats.StockValue)
	assert.Equal(t, int64(1), stats.ClientCount)
	assert.Equal(t, 150.0, stats.OutstandingCredit)
	// 毛利 (150-100) × 3
	assert.Equal(t, 150.0, stats.MonthMargin)
	assert.Equal(t, 70.0, stats.MonthNet)
	assert.Zero(t, stats.LowStockCount)
}

func TestClientStatsAndDetail(t *testing.T) {
	db := setupTestDB(t)
	s := NewClientService(db)

	product := createTestProduct(t, db, "D002", 50)
	client := createTestClient(t, db, "0805060708")

	saleService := NewSaleService(db)
	_, err := saleService.Create(CreateSaleParams{
		ProductID: product.ID,
		ClientID:  &client.ID,
		Quantite:  1,
		TypeVente: models.SaleTypeCredit,
	})
	require.NoError(t, err)
	_, err = saleService.Create(CreateSaleParams{
		ProductID: product.ID,
		ClientID:  &client.ID,
		Quantite:  2,
		TypeVente: models.SaleTypeComptant,
	})
	require.NoError(t, err)

	stats, err := s.Stats(client.ID)
	require.NoError(t, err)
	assert.Equal(t, 450.0, stats.AchatsTotal)
	assert.Equal(t, 150.0, stats.Credit)
	assert.Equal(t, int64(2), stats.SalesCount)
	assert.Equal(t, int64(1), stats.OpenCredits)

	// 详情内嵌最近销售和未结清赊账
	detail, err := s.GetByID(client.ID)
	require.NoError(t, err)
	assert.Len(t, detail.Sales, 2)
	assert.Len(t, detail.Credits, 1)
}
