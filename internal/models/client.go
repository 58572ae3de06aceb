package models

// Client 客户模型
//
// Credit 是该客户全部"En cours"赊账剩余金额之和，由账务事务维护，
// 不依赖数据库约束。AchatsTotal 是累计购买总额。
type Client struct {
	BaseModel
	Nom         string  `gorm:"not null;size:100" json:"nom"`
	Telephone   string  `gorm:"uniqueIndex;size:30;not null" json:"telephone"`
	Credit      float64 `gorm:"not null;default:0" json:"credit"`
	AchatsTotal float64 `gorm:"not null;default:0" json:"achatsTotal"`

	Sales   []Sale   `gorm:"foreignKey:ClientID" json:"sales,omitempty"`
	Credits []Credit `gorm:"foreignKey:ClientID" json:"credits,omitempty"`
}
