package services

import (
	"testing"

	"boutique/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// createCreditSale 创建一笔赊账销售并返回其赊账行
func createCreditSale(t *testing.T, db *gorm.DB, code, telephone string, quantite int) (*models.Client, *models.Credit) {
	t.Helper()

	product := createTestProduct(t, db, code, 100)
	client := createTestClient(t, db, telephone)

	_, err := NewSaleService(db).Create(CreateSaleParams{
		ProductID: product.ID,
		ClientID:  &client.ID,
		Quantite:  quantite,
		TypeVente: models.SaleTypeCredit,
	})
	require.NoError(t, err)

	var credit models.Credit
	require.NoError(t, db.Where("client_id = ?", client.ID).First(&credit).Error)
	return client, &credit
}

func TestPayCreditPartial(t *testing.T) {
	db := setupTestDB(t)
	s := NewCreditService(db)

	// total = 150 * 4 = 600
	client, credit := createCreditSale(t, db, "C001", "0701020304", 4)

	amount := 200.0
	paid, err := s.Pay(credit.ID, &amount)
	require.NoError(t, err)

	// 部分还款后状态仍是En cours
	assert.Equal(t, 400.0, paid.MontantRestant)
	assert.Equal(t, models.CreditStatusOpen, paid.Statut)
	assert.Equal(t, 400.0, reloadClient(t, db, client.ID).Credit)

	// 补齐剩余，状态转Payé
	rest := 400.0
	paid, err = s.Pay(credit.ID, &rest)
	require.NoError(t, err)
	assert.Equal(t, 0.0, paid.MontantRestant)
	assert.Equal(t, models.CreditStatusPaid, paid.Statut)
	assert.Equal(t, 0.0, reloadClient(t, db, client.ID).Credit)
}

func TestPayCreditFullByDefault(t *testing.T) {
	db := setupTestDB(t)
	s := NewCreditService(db)

	client, credit := createCreditSale(t, db, "C002", "0705060708", 2)

	// montant缺省 = 还清全额
	paid, err := s.Pay(credit.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, 0.0, paid.MontantRestant)
	assert.Equal(t, models.CreditStatusPaid, paid.Statut)
	assert.Equal(t, 0.0, reloadClient(t, db, client.ID).Credit)
}

func TestPayCreditOverPayment(t *testing.T) {
	db := setupTestDB(t)
	s := NewCreditService(db)

	_, credit := createCreditSale(t, db, "C003", "0709101112", 2)

	amount := credit.MontantRestant + 1
	_, err := s.Pay(credit.ID, &amount)
	assert.ErrorIs(t, err, ErrOverPayment)
}

func TestPayCreditAlreadyPaid(t *testing.T) {
	db := setupTestDB(t)
	s := NewCreditService(db)

	_, credit := createCreditSale(t, db, "C004", "0713141516", 2)

	_, err := s.Pay(credit.ID, nil)
	require.NoError(t, err)

	_, err = s.Pay(credit.ID, nil)
	assert.ErrorIs(t, err, ErrCreditAlreadyPaid)
}

func TestPayCreditNotFound(t *testing.T) {
	db := setupTestDB(t)
	s := NewCreditService(db)

	_, err := s.Pay(9999, nil)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestListCreditsFiltered(t *testing.T) {
	db := setupTestDB(t)
	s := NewCreditService(db)

	clientA, creditA := createCreditSale(t, db, "C005", "0717181920", 1)
	createCreditSale(t, db, "C006", "0721222324", 1)

	_, err := s.Pay(creditA.ID, nil)
	require.NoError(t, err)

	open, err := s.List(CreditFilter{Statut: models.CreditStatusOpen})
	require.NoError(t, err)
	assert.Len(t, open, 1)

	byClient, err := s.List(CreditFilter{ClientID: &clientA.ID})
	require.NoError(t, err)
	require.Len(t, byClient, 1)
	assert.Equal(t, models.CreditStatusPaid, byClient[0].Statut)
}
