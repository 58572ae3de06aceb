package models

import "time"

// Expense 支出模型（独立实体，补货操作会追加一条）
type Expense struct {
	BaseModel
	Description string    `gorm:"not null;size:255" json:"description"`
	Montant     float64   `gorm:"not null" json:"montant"`
	Categorie   string    `gorm:"not null;size:50;index" json:"categorie"`
	Date        time.Time `gorm:"not null;index" json:"date"`
}
