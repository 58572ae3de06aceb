package services

import (
	"time"

	"boutique/internal/models"

	"gorm.io/gorm"
)

// StatsService 仪表盘统计
type StatsService struct {
	db          *gorm.DB
	saleService *SaleService
}

func NewStatsService(db *gorm.DB) *StatsService {
	return &StatsService{
		db:          db,
		saleService: NewSaleService(db),
	}
}

// DashboardStats 仪表盘汇总
type DashboardStats struct {
	Sales             SalesStats `json:"sales"`
	MonthExpenses     float64    `json:"monthExpenses"`
	ProductCount      int64      `json:"productCount"`
	StockValue        float64    `json:"stockValue"`
	LowStockCount     int64      `json:"lowStockCount"`
	ClientCount       int64      `json:"clientCount"`
	OutstandingCredit float64    `json:"outstandingCredit"`
	MonthMargin       float64    `json:"monthMargin"`
	MonthNet          float64    `json:"monthNet"`
}

// Dashboard 仪表盘统计
//
// 毛利按每笔销售的 (单价 - 当前进价) × 数量 计算；进价没有历史快照，
// 产品后来改进价会影响旧销售的毛利显示。
func (s *StatsService) Dashboard() (*DashboardStats, error) {
	stats := &DashboardStats{}

	sales, err := s.saleService.Stats()
	if err != nil {
		return nil, err
	}
	stats.Sales = *sales

	monthStart := time.Now().AddDate(0, 0, -30)

	if err := s.db.Model(&models.Expense{}).
		Select("COALESCE(SUM(montant), 0)").
		Where("date >= ?", monthStart).
		Scan(&stats.MonthExpenses).Error; err != nil {
		return nil, err
	}

	if err := s.db.Model(&models.Product{}).Count(&stats.ProductCount).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.Product{}).
		Select("COALESCE(SUM(prix_achat * stock), 0)").
		Scan(&stats.StockValue).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.Product{}).
		Where("stock <= stock_min").
		Count(&stats.LowStockCount).Error; err != nil {
		return nil, err
	}

	if err := s.db.Model(&models.Client{}).Count(&stats.ClientCount).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.Credit{}).
		Select("COALESCE(SUM(montant_restant), 0)").
		Where("statut = ?", models.CreditStatusOpen).
		Scan(&stats.OutstandingCredit).Error; err != nil {
		return nil, err
	}

	if err := s.db.Model(&models.Sale{}).
		Select("COALESCE(SUM((sales.prix_unitaire - products.prix_achat) * sales.quantite), 0)").
		Joins("JOIN products ON products.id = sales.product_id").
		Where("sales.date >= ?", monthStart).
		Scan(&stats.MonthMargin).Error; err != nil {
		return nil, err
	}
	stats.MonthNet = stats.MonthMargin - stats.MonthExpenses

	return stats, nil
}
