package models

// Article 商品档案表（采购量归集时按基础单位折算）
type Article struct {
	ID             uint   `gorm:"primarykey" json:"id"`
	Code           string `gorm:"uniqueIndex;not null" json:"code"`
	Name           string `json:"name"`
	BaseUnit       string `gorm:"not null;default:'EA'" json:"base_unit"` // 基础计量单位
	Manufacturer   string `gorm:"index" json:"manufacturer"`
	Classification string `gorm:"index" json:"classification"`
	Family         string `gorm:"index" json:"family"`
	Brand          string `gorm:"index" json:"brand"`
	Model          string `json:"model"`
}

// TableName 指定表名
func (Article) TableName() string {
	return "articles"
}

// UnitConversion 计量单位换算表（按商品维护，qty_to = qty_from * factor）
type UnitConversion struct {
	ID          uint   `gorm:"primarykey" json:"id"`
	ArticleCode string `gorm:"index;not null" json:"article_code"`
	FromUnit    string `gorm:"not null" json:"from_unit"`
	ToUnit      string `gorm:"not null" json:"to_unit"`
	Factor      Amount `gorm:"type:decimal(16,6);not null;default:1" json:"factor"`
}

// TableName 指定表名
func (UnitConversion) TableName() string {
	return "unit_conversions"
}
