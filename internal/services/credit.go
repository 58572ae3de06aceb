package services

import (
	"boutique/internal/models"
	"boutique/pkg/logger"

	"gorm.io/gorm"
)

type CreditService struct {
	db *gorm.DB
}

func NewCreditService(db *gorm.DB) *CreditService {
	return &CreditService{db: db}
}

// CreditFilter 赊账列表过滤条件
type CreditFilter struct {
	Statut   string
	ClientID *uint
}

// List 赊账列表（创建日期降序，含客户）
func (s *CreditService) List(filter CreditFilter) ([]*models.Credit, error) {
	query := s.db.Preload("Client")

	if filter.Statut != "" {
		query = query.Where("statut = ?", filter.Statut)
	}
	if filter.ClientID != nil {
		query = query.Where("client_id = ?", *filter.ClientID)
	}

	var credits []*models.Credit
	err := query.Order("date_credit DESC").Find(&credits).Error
	return credits, err
}

// GetByID 根据ID获取赊账
func (s *CreditService) GetByID(id uint) (*models.Credit, error) {
	var credit models.Credit
	err := s.db.Preload("Client").First(&credit, id).Error
	if err != nil {
		return nil, err
	}
	return &credit, nil
}

// Pay 偿还赊账（部分或全额）
//
// amount 为 nil 时默认还清剩余全额。剩余金额恰好归零时状态转为"Payé"。
// 赊账行更新和客户余额扣减在同一事务内。
func (s *CreditService) Pay(creditID uint, amount *float64) (*models.Credit, error) {
	var credit models.Credit

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&credit, creditID).Error; err != nil {
			return err
		}

		if credit.Statut == models.CreditStatusPaid {
			return ErrCreditAlreadyPaid
		}

		payment := credit.MontantRestant
		if amount != nil {
			payment = *amount
		}
		if payment <= 0 || payment > credit.MontantRestant {
			return ErrOverPayment
		}

		credit.MontantRestant -= payment
		if credit.MontantRestant == 0 {
			credit.Statut = models.CreditStatusPaid
		}
		if err := tx.Save(&credit).Error; err != nil {
			return err
		}

		return tx.Model(&models.Client{}).
			Where("id = ?", credit.ClientID).
			Update("credit", gorm.Expr("credit - ?", payment)).Error
	})
	if err != nil {
		return nil, err
	}

	logger.GetLogger().Infof("Paiement de crédit: crédit=%d restant=%.2f statut=%s",
		credit.ID, credit.MontantRestant, credit.Statut)
	return &credit, nil
}
