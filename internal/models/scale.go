package models

import (
	"github.com/fanli-next/internal/constants"
)

// ScaleBracket 返利阶梯表。同一合同的阶梯按 from 升序排列且互不重叠。
type ScaleBracket struct {
	ID            uint              `gorm:"primarykey" json:"id"`
	ContractID    uint              `gorm:"index;not null" json:"contract_id"`
	FromValue     Amount            `gorm:"type:decimal(20,6);not null;default:0" json:"from_value"` // 区间下限
	ToValue       Amount            `gorm:"type:decimal(20,6);not null;default:0" json:"to_value"`   // 区间上限
	Value         Amount            `gorm:"type:decimal(20,6);not null;default:0" json:"value"`      // 返利率/单位值/固定额
	CalcBasis     constants.Basis   `gorm:"not null;default:0" json:"calc_basis"`                    // 计算基准
	Formula       constants.Formula `gorm:"not null;default:0" json:"formula"`                       // 公式类型
	Expected      bool              `gorm:"not null;default:false" json:"expected"`                  // 中间阶梯：超出上限后整段忽略
	RewardArticle string            `json:"reward_article"`                                          // 阶梯级返利商品（可覆盖合同级）
	RewardVariant string            `json:"reward_variant"`                                          // 阶梯级返利商品规格
}

// TableName 指定表名
func (ScaleBracket) TableName() string {
	return "rebate_scale_brackets"
}

// ProvisionMethod 预提测算方法表：回看起点 + 逐月增减系数
type ProvisionMethod struct {
	ID         uint   `gorm:"primarykey" json:"id"`
	Code       string `gorm:"uniqueIndex;not null" json:"code"`
	Name       string `json:"name"`
	MonthsBack int    `gorm:"not null;default:0" json:"months_back"` // 回看月数
	YearsBack  int    `gorm:"not null;default:0" json:"years_back"`  // 回看年数

	Factors []ProvisionFactor `gorm:"foreignKey:MethodID" json:"factors,omitempty"`
}

// TableName 指定表名
func (ProvisionMethod) TableName() string {
	return "rebate_provision_methods"
}

// ProvisionFactor 预提测算的逐月系数（1-12 月份，缺省按 1 处理）
type ProvisionFactor struct {
	ID       uint   `gorm:"primarykey" json:"id"`
	MethodID uint   `gorm:"index;not null" json:"method_id"`
	Month    int    `gorm:"not null" json:"month"`
	Factor   Amount `gorm:"type:decimal(12,6);not null;default:1" json:"factor"`
}

// TableName 指定表名
func (ProvisionFactor) TableName() string {
	return "rebate_provision_factors"
}
