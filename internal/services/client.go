package services

import (
	"boutique/internal/models"

	"gorm.io/gorm"
)

type ClientService struct {
	db *gorm.DB
}

func NewClientService(db *gorm.DB) *ClientService {
	return &ClientService{db: db}
}

// List 客户列表（名称升序）
func (s *ClientService) List() ([]*models.Client, error) {
	var clients []*models.Client
	err := s.db.Order("nom").Find(&clients).Error
	return clients, err
}

// GetByID 根据ID获取客户，内嵌最近10笔销售和未结清的赊账
func (s *ClientService) GetByID(id uint) (*models.Client, error) {
	var client models.Client
	err := s.db.
		Preload("Sales", func(db *gorm.DB) *gorm.DB {
			return db.Preload("Product").Order("date DESC").Limit(10)
		}).
		Preload("Credits", "statut = ?", models.CreditStatusOpen).
		First(&client, id).Error
	if err != nil {
		return nil, err
	}
	return &client, nil
}

// CreateClientParams 创建客户参数
type CreateClientParams struct {
	Nom       string
	Telephone string
}

// Create 创建客户（电话唯一）
func (s *ClientService) Create(params CreateClientParams) (*models.Client, error) {
	var count int64
	s.db.Model(&models.Client{}).Where("telephone = ?", params.Telephone).Count(&count)
	if count > 0 {
		return nil, ErrPhoneTaken
	}

	client := &models.Client{
		Nom:       params.Nom,
		Telephone: params.Telephone,
	}
	if err := s.db.Create(client).Error; err != nil {
		return nil, err
	}
	return client, nil
}

// UpdateClientParams 更新客户参数（nil字段不变更；余额字段只由账务事务维护）
type UpdateClientParams struct {
	Nom       *string
	Telephone *string
}

// Update 更新客户
func (s *ClientService) Update(id uint, params UpdateClientParams) (*models.Client, error) {
	var client models.Client
	if err := s.db.First(&client, id).Error; err != nil {
		return nil, err
	}

	if params.Nom != nil {
		client.Nom = *params.Nom
	}
	if params.Telephone != nil && *params.Telephone != client.Telephone {
		var count int64
		s.db.Model(&models.Client{}).Where("telephone = ? AND id <> ?", *params.Telephone, id).Count(&count)
		if count > 0 {
			return nil, ErrPhoneTaken
		}
		client.Telephone = *params.Telephone
	}

	if err := s.db.Save(&client).Error; err != nil {
		return nil, err
	}
	return &client, nil
}

// Delete 删除客户
func (s *ClientService) Delete(id uint) error {
	var client models.Client
	if err := s.db.First(&client, id).Error; err != nil {
		return err
	}
	return s.db.Delete(&models.Client{}, id).Error
}

// ClientStats 单个客户的统计
type ClientStats struct {
	AchatsTotal float64 `json:"achatsTotal"`
	Credit      float64 `json:"credit"`
	SalesCount  int64   `json:"salesCount"`
	OpenCredits int64   `json:"openCredits"`
}

// Stats 客户统计（购买总额、当前欠款、销售笔数、未结清赊账数）
func (s *ClientService) Stats(id uint) (*ClientStats, error) {
	var client models.Client
	if err := s.db.First(&client, id).Error; err != nil {
		return nil, err
	}

	stats := &ClientStats{
		AchatsTotal: client.AchatsTotal,
		Credit:      client.Credit,
	}

	if err := s.db.Model(&models.Sale{}).
		Where("client_id = ?", id).
		Count(&stats.SalesCount).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.Credit{}).
		Where("client_id = ? AND statut = ?", id, models.CreditStatusOpen).
		Count(&stats.OpenCredits).Error; err != nil {
		return nil, err
	}

	return stats, nil
}
