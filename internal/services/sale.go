package services

import (
	"time"

	"boutique/internal/models"
	"boutique/pkg/logger"

	"gorm.io/gorm"
)

// creditTermDays 赊账到期期限（天）
const creditTermDays = 30

type SaleService struct {
	db *gorm.DB
}

func NewSaleService(db *gorm.DB) *SaleService {
	return &SaleService{db: db}
}

// SaleFilter 销售列表过滤条件
type SaleFilter struct {
	DateFrom  *time.Time
	DateTo    *time.Time
	ClientID  *uint
	ProductID *uint
	TypeVente string
}

// List 销售列表（日期降序，含产品和客户）
func (s *SaleService) List(filter SaleFilter) ([]*models.Sale, error) {
	query := s.db.Preload("Product").Preload("Client")

	if filter.DateFrom != nil {
		query = query.Where("date >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("date <= ?", *filter.DateTo)
	}
	if filter.ClientID != nil {
		query = query.Where("client_id = ?", *filter.ClientID)
	}
	if filter.ProductID != nil {
		query = query.Where("product_id = ?", *filter.ProductID)
	}
	if filter.TypeVente != "" {
		query = query.Where("type_vente = ?", filter.TypeVente)
	}

	var sales []*models.Sale
	err := query.Order("date DESC").Find(&sales).Error
	return sales, err
}

// GetByID 根据ID获取销售
func (s *SaleService) GetByID(id uint) (*models.Sale, error) {
	var sale models.Sale
	err := s.db.Preload("Product").Preload("Client").First(&sale, id).Error
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

// CreateSaleParams 创建销售参数
type CreateSaleParams struct {
	ProductID uint
	ClientID  *uint
	Quantite  int
	TypeVente string
}

// Create 创建销售
//
// 单价在此刻从产品快照，之后产品改价不影响已有销售。
// 全部效果在一个事务内：销售行插入、库存扣减、赊账行插入、客户余额更新。
// 库存扣减带条件 stock >= quantite，并发销售要么串行要么其中一个失败，
// 不会联手超卖。
func (s *SaleService) Create(params CreateSaleParams) (*models.Sale, error) {
	if params.Quantite <= 0 {
		return nil, ErrInvalidQuantity
	}
	if params.TypeVente == models.SaleTypeCredit && params.ClientID == nil {
		return nil, ErrClientRequired
	}

	var sale *models.Sale
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.First(&product, params.ProductID).Error; err != nil {
			return err
		}

		result := tx.Model(&models.Product{}).
			Where("id = ? AND stock >= ?", params.ProductID, params.Quantite).
			Update("stock", gorm.Expr("stock - ?", params.Quantite))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrInsufficientStock
		}

		now := time.Now()
		total := product.PrixVente * float64(params.Quantite)

		sale = &models.Sale{
			ProductID:    params.ProductID,
			ClientID:     params.ClientID,
			Quantite:     params.Quantite,
			PrixUnitaire: product.PrixVente,
			Total:        total,
			TypeVente:    params.TypeVente,
			Date:         now,
		}
		if err := tx.Create(sale).Error; err != nil {
			return err
		}

		if params.ClientID != nil {
			var client models.Client
			if err := tx.First(&client, *params.ClientID).Error; err != nil {
				return err
			}

			updates := map[string]interface{}{
				"achats_total": gorm.Expr("achats_total + ?", total),
			}
			if params.TypeVente == models.SaleTypeCredit {
				updates["credit"] = gorm.Expr("credit + ?", total)
			}
			if err := tx.Model(&models.Client{}).Where("id = ?", client.ID).Updates(updates).Error; err != nil {
				return err
			}

			if params.TypeVente == models.SaleTypeCredit {
				credit := models.Credit{
					ClientID:       client.ID,
					Montant:        total,
					MontantRestant: total,
					DateCredit:     now,
					Echeance:       now.AddDate(0, 0, creditTermDays),
					Statut:         models.CreditStatusOpen,
				}
				if err := tx.Create(&credit).Error; err != nil {
					return err
				}
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.GetLogger().Infof("Vente créée: produit=%d quantité=%d total=%.2f type=%s",
		sale.ProductID, sale.Quantite, sale.Total, sale.TypeVente)
	return sale, nil
}

// Cancel 取消销售（整单撤销）
//
// 恢复库存，回退客户余额，删除销售行。赊账销售还要删除对应的赊账行，
// 但销售和赊账之间没有外键，只能按 客户+金额+状态"En cours" 匹配，
// 取最近创建的一条。匹配不到（比如已经还清）就跳过删除，客户字段照常回退。
func (s *SaleService) Cancel(saleID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var sale models.Sale
		if err := tx.First(&sale, saleID).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Product{}).
			Where("id = ?", sale.ProductID).
			Update("stock", gorm.Expr("stock + ?", sale.Quantite)).Error; err != nil {
			return err
		}

		if sale.ClientID != nil {
			updates := map[string]interface{}{
				"achats_total": gorm.Expr("achats_total - ?", sale.Total),
			}

			if sale.TypeVente == models.SaleTypeCredit {
				var credit models.Credit
				err := tx.Where("client_id = ? AND montant = ? AND statut = ?",
					*sale.ClientID, sale.Total, models.CreditStatusOpen).
					Order("date_credit DESC").
					First(&credit).Error
				if err == nil {
					if err := tx.Delete(&credit).Error; err != nil {
						return err
					}
				} else if err != gorm.ErrRecordNotFound {
					return err
				}

				updates["credit"] = gorm.Expr("credit - ?", sale.Total)
			}

			if err := tx.Model(&models.Client{}).
				Where("id = ?", *sale.ClientID).
				Updates(updates).Error; err != nil {
				return err
			}
		}

		return tx.Delete(&models.Sale{}, saleID).Error
	})
}

// PeriodStats 一个时间段的销售汇总
type PeriodStats struct {
	Total float64 `json:"total"`
	Count int64   `json:"count"`
}

// SalesStats 日/周/月销售汇总
type SalesStats struct {
	Day   PeriodStats `json:"day"`
	Week  PeriodStats `json:"week"`
	Month PeriodStats `json:"month"`
}

// periodStats 统计从 since 起的销售总额和笔数
func (s *SaleService) periodStats(since time.Time) (PeriodStats, error) {
	var stats PeriodStats
	err := s.db.Model(&models.Sale{}).
		Select("COALESCE(SUM(total), 0) as total, COUNT(*) as count").
		Where("date >= ?", since).
		Scan(&stats).Error
	return stats, err
}

// Stats 销售统计（今日/本周7天/本月30天滚动窗口）
func (s *SaleService) Stats() (*SalesStats, error) {
	now := time.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	day, err := s.periodStats(dayStart)
	if err != nil {
		return nil, err
	}
	week, err := s.periodStats(now.AddDate(0, 0, -7))
	if err != nil {
		return nil, err
	}
	month, err := s.periodStats(now.AddDate(0, 0, -30))
	if err != nil {
		return nil, err
	}

	return &SalesStats{Day: day, Week: week, Month: month}, nil
}
