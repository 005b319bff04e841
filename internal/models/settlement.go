package models

import (
	"time"

	"github.com/fanli-next/internal/constants"
)

// SettlementRecord 结算/预提记录表：一次合同处理一条
type SettlementRecord struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	ContractID   uint      `gorm:"index;not null" json:"contract_id"`
	SupplierCode string    `gorm:"index;not null" json:"supplier_code"` // 主供应商
	IsProvision  bool      `gorm:"not null;default:false" json:"is_provision"`
	PeriodStart  time.Time `gorm:"not null" json:"period_start"`
	PeriodEnd    time.Time `gorm:"index;not null" json:"period_end"` // 等于处理日期
	GrossAmount  Amount    `gorm:"type:decimal(20,6);not null;default:0" json:"gross_amount"`
	NetAmount    Amount    `gorm:"type:decimal(20,6);not null;default:0" json:"net_amount"`
	Quantity     Amount    `gorm:"type:decimal(20,6);not null;default:0" json:"quantity"`
	RebateAmount Money     `gorm:"type:decimal(20,2);not null;default:0" json:"rebate_amount"`
	RebateQty    Amount    `gorm:"type:decimal(20,6);not null;default:0" json:"rebate_qty"`
	CreatedAt    time.Time `gorm:"index" json:"created_at"`

	Details       []SettlementDetail     `gorm:"foreignKey:RecordID" json:"details,omitempty"`
	Distributions []SupplierDistribution `gorm:"foreignKey:RecordID" json:"distributions,omitempty"`
}

// TableName 指定表名
func (SettlementRecord) TableName() string {
	return "rebate_settlements"
}

// SettlementDetail 结算明细：每个参与计算的阶梯一行
type SettlementDetail struct {
	ID            uint              `gorm:"primarykey" json:"id"`
	RecordID      uint              `gorm:"index;not null" json:"record_id"`
	FromValue     Amount            `gorm:"type:decimal(20,6);not null;default:0" json:"from_value"`
	ToValue       Amount            `gorm:"type:decimal(20,6);not null;default:0" json:"to_value"`
	CalcBasis     constants.Basis   `gorm:"not null;default:0" json:"calc_basis"`
	Formula       constants.Formula `gorm:"not null;default:0" json:"formula"`
	Value         Amount            `gorm:"type:decimal(20,6);not null;default:0" json:"value"`
	RebateQty     *Amount           `gorm:"type:decimal(20,6)" json:"rebate_qty,omitempty"`    // 数量基准阶梯
	RebateAmount  *Money            `gorm:"type:decimal(20,2)" json:"rebate_amount,omitempty"` // 金额基准阶梯
	RewardArticle string            `json:"reward_article"`
	RewardVariant string            `json:"reward_variant"`
}

// TableName 指定表名
func (SettlementDetail) TableName() string {
	return "rebate_settlement_details"
}

// SupplierDistribution 多供应商分摊表
type SupplierDistribution struct {
	ID           uint   `gorm:"primarykey" json:"id"`
	RecordID     uint   `gorm:"index;not null" json:"record_id"`
	ContractID   uint   `gorm:"index;not null" json:"contract_id"`
	SupplierCode string `gorm:"index;not null" json:"supplier_code"`
	GrossAmount  Amount `gorm:"type:decimal(20,6);not null;default:0" json:"gross_amount"`
	NetAmount    Amount `gorm:"type:decimal(20,6);not null;default:0" json:"net_amount"`
	Quantity     Amount `gorm:"type:decimal(20,6);not null;default:0" json:"quantity"`
}

// TableName 指定表名
func (SupplierDistribution) TableName() string {
	return "rebate_supplier_distributions"
}

// SettlementDocLink 结算记录与生成单据行的关联表
type SettlementDocLink struct {
	ID       uint `gorm:"primarykey" json:"id"`
	RecordID uint `gorm:"index;not null" json:"record_id"`
	LineID   uint `gorm:"index;not null" json:"line_id"`
}

// TableName 指定表名
func (SettlementDocLink) TableName() string {
	return "rebate_settlement_doc_links"
}

// VolumeAudit 采购量归集留痕：每个公司/分支/供应商/期间组合一行（已乘权重）
type VolumeAudit struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	ContractID   uint      `gorm:"index;not null" json:"contract_id"`
	CompanyCode  string    `gorm:"index" json:"company_code"`
	BranchCode   string    `json:"branch_code"`
	SupplierCode string    `gorm:"index" json:"supplier_code"`
	PeriodStart  time.Time `gorm:"not null" json:"period_start"`
	PeriodEnd    time.Time `gorm:"not null" json:"period_end"`
	Factor       Amount    `gorm:"type:decimal(12,6);not null;default:1" json:"factor"`
	GrossAmount  Amount    `gorm:"type:decimal(20,6);not null;default:0" json:"gross_amount"`
	NetAmount    Amount    `gorm:"type:decimal(20,6);not null;default:0" json:"net_amount"`
	Quantity     Amount    `gorm:"type:decimal(20,6);not null;default:0" json:"quantity"`
	CreatedAt    time.Time `json:"created_at"`
}

// TableName 指定表名
func (VolumeAudit) TableName() string {
	return "rebate_volume_audits"
}
