package services

import (
	"testing"
	"time"

	"boutique/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func reloadProduct(t *testing.T, db *gorm.DB, id uint) *models.Product {
	t.Helper()
	var product models.Product
	require.NoError(t, db.First(&product, id).Error)
	return &product
}

func reloadClient(t *testing.T, db *gorm.DB, id uint) *models.Client {
	t.Helper()
	var client models.Client
	require.NoError(t, db.First(&client, id).Error)
	return &client
}

func TestCreateCashSaleWithClient(t *testing.T) {
	db := setupTestDB(t)
	s := NewSaleService(db)

	product := createTestProduct(t, db, "P001", 10)
	client := createTestClient(t, db, "0601020304")

	sale, err := s.Create(CreateSaleParams{
		ProductID: product.ID,
		ClientID:  &client.ID,
		Quantite:  2,
		TypeVente: models.SaleTypeComptant,
	})
	require.NoError(t, err)
	assert.Equal(t, 150.0, sale.PrixUnitaire)
	assert.Equal(t, 300.0, sale.Total)

	assert.Equal(t, 8, reloadProduct(t, db, product.ID).Stock)

	// 现金销售只累计购买总额，不产生欠款
	reloaded := reloadClient(t, db, client.ID)
	assert.Equal(t, 300.0, reloaded.AchatsTotal)
	assert.Equal(t, 0.0, reloaded.Credit)

	var creditCount int64
	db.Model(&models.Credit{}).Count(&creditCount)
	assert.Zero(t, creditCount)
}

func TestCreateAnonymousCashSale(t *testing.T) {
	db := setupTestDB(t)
	s := NewSaleService(db)

	product := createTestProduct(t, db, "P002", 5)

	sale, err := s.Create(CreateSaleParams{
		ProductID: product.ID,
		Quantite:  1,
		TypeVente: models.SaleTypeComptant,
	})
	require.NoError(t, err)
	assert.Nil(t, sale.ClientID)
	assert.Equal(t, 4, reloadProduct(t, db, product.ID).Stock)
}

func TestCreateCreditSale(t *testing.T) {
	db := setupTestDB(t)
	s := NewSaleService(db)

	product := createTestProduct(t, db, "P003", 10)
	client := createTestClient(t, db, "0605060708")

	sale, err := s.Create(CreateSaleParams{
		ProductID: product.ID,
		ClientID:  &client.ID,
		Quantite:  3,
		TypeVente: models.SaleTypeCredit,
	})
	require.NoError(t, err)
	assert.Equal(t, 450.0, sale.Total)

	reloaded := reloadClient(t, db, client.ID)
	assert.Equal(t, 450.0, reloaded.Credit)
	assert.Equal(t, 450.0, reloaded.AchatsTotal)

	var credit models.Credit
	require.NoError(t, db.Where("client_id = ?", client.ID).First(&credit).Error)
	assert.Equal(t, 450.0, credit.Montant)
	assert.Equal(t, 450.0, credit.MontantRestant)
	assert.Equal(t, models.CreditStatusOpen, credit.Statut)

	// 到期日 = 创建时间 + 30天
	expected := credit.DateCredit.AddDate(0, 0, 30)
	assert.WithinDuration(t, expected, credit.Echeance, time.Second)
}

func TestCreateCreditSaleWithoutClient(t *testing.T) {
	db := setupTestDB(t)
	s := NewSaleService(db)

	product := createTestProduct(t, db, "P004", 10)

	_, err := s.Create(CreateSaleParams{
		ProductID: product.ID,
		Quantite:  1,
		TypeVente: models.SaleTypeCredit,
	})
	assert.ErrorIs(t, err, ErrClientRequired)
}

func TestCreateSaleInsufficientStock(t *testing.T) {
	db := setupTestDB(t)
	s := NewSaleService(db)

	product := createTestProduct(t, db, "P005", 2)

	_, err := s.Create(CreateSaleParams{
		ProductID: product.ID,
		Quantite:  3,
		TypeVente: models.SaleTypeComptant,
	})
	assert.ErrorIs(t, err, ErrInsufficientStock)

	// 失败不留痕迹
	assert.Equal(t, 2, reloadProduct(t, db, product.ID).Stock)
	var saleCount int64
	db.Model(&models.Sale{}).Count(&saleCount)
	assert.Zero(t, saleCount)
}

func TestCreateSaleInvalidQuantity(t *testing.T) {
	db := setupTestDB(t)
	s := NewSaleService(db)

	product := createTestProduct(t, db, "P006", 10)

	_, err := s.Create(CreateSaleParams{
		ProductID: product.ID,
		Quantite:  0,
		TypeVente: models.SaleTypeComptant,
	})
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestPriceSnapshot(t *testing.T) {
	db := setupTestDB(t)
	s := NewSaleService(db)

	product := createTestProduct(t, db, "P007", 10)

	sale, err := s.Create(CreateSaleParams{
		ProductID: product.ID,
		Quantite:  1,
		TypeVente: models.SaleTypeComptant,
	})
	require.NoError(t, err)

	// 后续改价不影响已有销售
	require.NoError(t, db.Model(product).Update("prix_vente", 999.0).Error)

	reloaded, err := s.GetByID(sale.ID)
	require.NoError(t, err)
	assert.Equal(t, 150.0, reloaded.PrixUnitaire)
	assert.Equal(t, 150.0, reloaded.Total)
}

func TestCancelCreditSale(t *testing.T) {
	db := setupTestDB(t)
	s := NewSaleService(db)

	product := createTestProduct(t, db, "P008", 10)
	client := createTestClient(t, db, "0611121314")

	sale, err := s.Create(CreateSaleParams{
		ProductID: product.ID,
		ClientID:  &client.ID,
		Quantite:  3,
		TypeVente: models.SaleTypeCredit,
	})
	require.NoError(t, err)

	require.NoError(t, s.Cancel(sale.ID))

	// 库存恢复，赊账行删除，客户余额归零
	assert.Equal(t, 10, reloadProduct(t, db, product.ID).Stock)

	var creditCount int64
	db.Model(&models.Credit{}).Where("client_id = ?", client.ID).Count(&creditCount)
	assert.Zero(t, creditCount)

	reloaded := reloadClient(t, db, client.ID)
	assert.Equal(t, 0.0, reloaded.Credit)
	assert.Equal(t, 0.0, reloaded.AchatsTotal)

	var saleCount int64
	db.Model(&models.Sale{}).Count(&saleCount)
	assert.Zero(t, saleCount)
}

func TestCancelCashSale(t *testing.T) {
	db := setupTestDB(t)
	s := NewSaleService(db)

	product := createTestProduct(t, db, "P009", 10)
	client := createTestClient(t, db, "0615161718")

	sale, err := s.Create(CreateSaleParams{
		ProductID: product.ID,
		ClientID:  &client.ID,
		Quantite:  2,
		TypeVente: models.SaleTypeComptant,
	})
	require.NoError(t, err)

	require.NoError(t, s.Cancel(sale.ID))

	assert.Equal(t, 10, reloadProduct(t, db, product.ID).Stock)
	assert.Equal(t, 0.0, reloadClient(t, db, client.ID).AchatsTotal)
}

// 赊账已还清后取消销售：赊账行匹配不到（状态已是Payé），
// 跳过删除但客户字段照常回退。这是刻意保留的尽力而为语义。
func TestCancelSaleCreditAlreadyPaid(t *testing.T) {
	db := setupTestDB(t)
	s := NewSaleService(db)

	product := createTestProduct(t, db, "P010", 10)
	client := createTestClient(t, db, "0619202122")

	sale, err := s.Create(CreateSaleParams{
		ProductID: product.ID,
		ClientID:  &client.ID,
		Quantite:  2,
		TypeVente: models.SaleTypeCredit,
	})
	require.NoError(t, err)

	var credit models.Credit
	require.NoError(t, db.Where("client_id = ?", client.ID).First(&credit).Error)
	_, err = NewCreditService(db).Pay(credit.ID, nil)
	require.NoError(t, err)

	require.NoError(t, s.Cancel(sale.ID))

	// Payé的赊账行留在历史里
	var creditCount int64
	db.Model(&models.Credit{}).Where("client_id = ?", client.ID).Count(&creditCount)
	assert.Equal(t, int64(1), creditCount)

	// 客户字段照常回退：credit 已经被还款清零，再减 total 变成负数
	reloaded := reloadClient(t, db, client.ID)
	assert.Equal(t, -300.0, reloaded.Credit)
	assert.Equal(t, 0.0, reloaded.AchatsTotal)
}

// 同客户同金额多笔赊账时，取消删除最近创建的那条
func TestCancelSaleMatchesNewestCredit(t *testing.T) {
	db := setupTestDB(t)
	s := NewSaleService(db)

	product := createTestProduct(t, db, "P011", 10)
	client := createTestClient(t, db, "0623242526")

	first, err := s.Create(CreateSaleParams{
		ProductID: product.ID,
		ClientID:  &client.ID,
		Quantite:  2,
		TypeVente: models.SaleTypeCredit,
	})
	require.NoError(t, err)

	// 让第二笔的 date_credit 晚于第一笔
	var firstCredit models.Credit
	require.NoError(t, db.Where("client_id = ?", client.ID).First(&firstCredit).Error)
	require.NoError(t, db.Model(&firstCredit).Update("date_credit", time.Now().Add(-time.Hour)).Error)

	_, err = s.Create(CreateSaleParams{
		ProductID: product.ID,
		ClientID:  &client.ID,
		Quantite:  2,
		TypeVente: models.SaleTypeCredit,
	})
	require.NoError(t, err)

	require.NoError(t, s.Cancel(first.ID))

	// 留下的是较早的那条
	var remaining []models.Credit
	require.NoError(t, db.Where("client_id = ?", client.ID).Find(&remaining).Error)
	require.Len(t, remaining, 1)
	assert.Equal(t, firstCredit.ID, remaining[0].ID)
}

func TestSalesStats(t *testing.T) {
	db := setupTestDB(t)
	s := NewSaleService(db)

	product := createTestProduct(t, db, "P012", 100)

	for i := 0; i < 3; i++ {
		_, err := s.Create(CreateSaleParams{
			ProductID: product.ID,
			Quantite:  1,
			TypeVente: models.SaleTypeComptant,
		})
		require.NoError(t, err)
	}

	stats, err := s.Stats()
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.Day.Count)
	assert.Equal(t, 450.0, stats.Day.Total)
	assert.Equal(t, int64(3), stats.Month.Count)
}
