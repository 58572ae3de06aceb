package models

import "time"

// Credit 赊账模型
//
// 只作为赊账销售的副作用创建；只能被支付或随所属销售取消而删除。
// 不变量：0 <= MontantRestant <= Montant。
type Credit struct {
	BaseModel
	ClientID       uint      `gorm:"not null;index" json:"clientId"`
	Montant        float64   `gorm:"not null" json:"montant"`
	MontantRestant float64   `gorm:"not null" json:"montantRestant"`
	DateCredit     time.Time `gorm:"not null;index" json:"dateCredit"`
	Echeance       time.Time `gorm:"not null" json:"echeance"` // 到期日：创建时间+30天
	Statut         string    `gorm:"not null;size:20;index" json:"statut"` // En cours | Payé

	Client Client `gorm:"foreignKey:ClientID" json:"client,omitempty"`
}

// 赊账状态常量
const (
	CreditStatusOpen = "En cours"
	CreditStatusPaid = "Payé"
)
