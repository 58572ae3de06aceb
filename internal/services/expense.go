package services

import (
	"time"

	"boutique/internal/models"

	"gorm.io/gorm"
)

type ExpenseService struct {
	db *gorm.DB
}

func NewExpenseService(db *gorm.DB) *ExpenseService {
	return &ExpenseService{db: db}
}

// ExpenseFilter 支出列表过滤条件
type ExpenseFilter struct {
	DateFrom  *time.Time
	DateTo    *time.Time
	Categorie string
}

// List 支出列表（日期降序）
func (s *ExpenseService) List(filter ExpenseFilter) ([]*models.Expense, error) {
	query := s.db.Order("date DESC")

	if filter.DateFrom != nil {
		query = query.Where("date >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("date <= ?", *filter.DateTo)
	}
	if filter.Categorie != "" {
		query = query.Where("categorie = ?", filter.Categorie)
	}

	var expenses []*models.Expense
	err := query.Find(&expenses).Error
	return expenses, err
}

// GetByID 根据ID获取支出
func (s *ExpenseService) GetByID(id uint) (*models.Expense, error) {
	var expense models.Expense
	err := s.db.First(&expense, id).Error
	if err != nil {
		return nil, err
	}
	return &expense, nil
}

// CreateExpenseParams 创建支出参数
type CreateExpenseParams struct {
	Description string
	Montant     float64
	Categorie   string
	Date        *time.Time
}

// Create 创建支出（日期缺省为当前时间）
func (s *ExpenseService) Create(params CreateExpenseParams) (*models.Expense, error) {
	date := time.Now()
	if params.Date != nil {
		date = *params.Date
	}

	expense := &models.Expense{
		Description: params.Description,
		Montant:     params.Montant,
		Categorie:   params.Categorie,
		Date:        date,
	}
	if err := s.db.Create(expense).Error; err != nil {
		return nil, err
	}
	return expense, nil
}

// Delete 删除支出
func (s *ExpenseService) Delete(id uint) error {
	var expense models.Expense
	if err := s.db.First(&expense, id).Error; err != nil {
		return err
	}
	return s.db.Delete(&models.Expense{}, id).Error
}
