package models

import "time"

// Sale 销售模型
//
// PrixUnitaire 是下单时刻的售价快照，之后改价不影响已有销售。
// 销售创建后不可修改，只能整单取消。
type Sale struct {
	BaseModel
	ProductID    uint      `gorm:"not null;index" json:"productId"`
	ClientID     *uint     `gorm:"index" json:"clientId"` // 现金销售可匿名
	Quantite     int       `gorm:"not null" json:"quantite"`
	PrixUnitaire float64   `gorm:"not null" json:"prixUnitaire"`
	Total        float64   `gorm:"not null" json:"total"`
	TypeVente    string    `gorm:"not null;size:20;index" json:"typeVente"` // comptant | credit
	Date         time.Time `gorm:"not null;index" json:"date"`

	Product Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Client  *Client `gorm:"foreignKey:ClientID" json:"client,omitempty"`
}

// 销售类型常量
const (
	SaleTypeComptant = "comptant"
	SaleTypeCredit   = "credit"
)
