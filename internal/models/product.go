package models

// Product 产品模型
//
// 库存只能通过销售和补货变更，永不为负。
type Product struct {
	BaseModel
	Nom         string  `gorm:"not null;size:100" json:"nom"`
	Code        string  `gorm:"uniqueIndex;size:50;not null" json:"code"` // 条码，唯一
	Categorie   string  `gorm:"size:50" json:"categorie"`
	Fournisseur string  `gorm:"size:100" json:"fournisseur"`
	PrixAchat   float64 `gorm:"not null" json:"prixAchat"`
	PrixVente   float64 `gorm:"not null" json:"prixVente"` // 创建时必须高于进价
	Stock       int     `gorm:"not null;default:0" json:"stock"`
	StockMin    int     `gorm:"not null;default:5" json:"stockMin"` // 库存告警阈值
}
