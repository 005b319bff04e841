package models

import (
	"time"

	"github.com/fanli-next/internal/constants"

	"gorm.io/gorm"
)

// RebateContract 返利合同表
type RebateContract struct {
	ID                  uint                   `gorm:"primarykey" json:"id"`                           // 主键
	ContractNo          string                 `gorm:"uniqueIndex;not null" json:"contract_no"`        // 合同编号
	CompanyCode         string                 `gorm:"index;not null" json:"company_code"`             // 所属公司
	SupplierCode        string                 `gorm:"index;not null" json:"supplier_code"`            // 主供应商
	Currency            string                 `gorm:"not null" json:"currency"`                       // 结算币种
	StartDate           time.Time              `gorm:"index;not null" json:"start_date"`               // 合同开始日
	EndDate             time.Time              `gorm:"index;not null" json:"end_date"`                 // 合同结束日
	Status              string                 `gorm:"index;not null;default:'active'" json:"status"`  // 合同状态
	CalendarAligned     bool                   `gorm:"not null;default:false" json:"calendar_aligned"` // 是否自然期间
	PeriodLength        constants.PeriodLength `gorm:"not null;default:0" json:"period_length"`        // 期间长度编码
	ComparisonBasis     constants.Basis        `gorm:"not null;default:0" json:"comparison_basis"`     // 比较基准
	AllRange            bool                   `gorm:"not null;default:true" json:"all_range"`         // 全阶梯累计 / 达量单阶梯
	ProvisionMethodCode string                 `gorm:"index" json:"provision_method_code"`             // 预提测算方法编码
	LastProcessed       *time.Time             `gorm:"index" json:"last_processed"`                    // 最近一次结算/预提日期
	RewardArticle       string                 `gorm:"index" json:"reward_article"`                    // 返利入账商品
	RewardVariant       string                 `json:"reward_variant"`                                 // 返利入账商品规格
	SettleDocType       string                 `gorm:"not null" json:"settle_doc_type"`                // 结算单据类型
	ProvisionDocType    string                 `gorm:"not null" json:"provision_doc_type"`             // 预提单据类型
	CreatedAt           time.Time              `gorm:"index" json:"created_at"`                        // 创建时间
	UpdatedAt           time.Time              `gorm:"index" json:"updated_at"`                        // 更新时间
	DeletedAt           gorm.DeletedAt         `gorm:"index" json:"-"`                                 // 软删除时间

	Suppliers   []ContractSupplier `gorm:"foreignKey:ContractID" json:"suppliers,omitempty"`    // 合同供应商
	Brackets    []ScaleBracket     `gorm:"foreignKey:ContractID" json:"brackets,omitempty"`     // 阶梯表
	SourceRules []SourceRule       `gorm:"foreignKey:ContractID" json:"source_rules,omitempty"` // 采购来源规则
}

// TableName 指定表名
func (RebateContract) TableName() string {
	return "rebate_contracts"
}

// ContractSupplier 合同供应商表（多供应商共享一份合同时按比例分摊）
type ContractSupplier struct {
	ID           uint   `gorm:"primarykey" json:"id"`
	ContractID   uint   `gorm:"index;not null" json:"contract_id"`
	SupplierCode string `gorm:"index;not null" json:"supplier_code"`
	Settles      bool   `gorm:"not null;default:true" json:"settles"` // 是否参与结算分摊
}

// TableName 指定表名
func (ContractSupplier) TableName() string {
	return "rebate_contract_suppliers"
}
