package models

import (
	"time"

	"gorm.io/gorm"
)

// DocumentType 单据类型表
type DocumentType struct {
	ID         uint   `gorm:"primarykey" json:"id"`
	Code       string `gorm:"uniqueIndex;not null" json:"code"`
	Name       string `json:"name"`
	VolumeFlag string `gorm:"not null;default:'I'" json:"volume_flag"` // I 正向 / G 反向 / N 不计入
	Nature     string `gorm:"index" json:"nature"`                     // R: 返利引擎生成
}

// TableName 指定表名
func (DocumentType) TableName() string {
	return "document_types"
}

// PurchaseDocument 采购/入账单据头
type PurchaseDocument struct {
	ID                 uint           `gorm:"primarykey" json:"id"`
	DocNo              string         `gorm:"uniqueIndex;not null" json:"doc_no"`           // 单据编号
	DocType            string         `gorm:"index;not null" json:"doc_type"`               // 单据类型编码
	CompanyCode        string         `gorm:"index;not null" json:"company_code"`           // 公司
	BranchCode         string         `gorm:"index" json:"branch_code"`                     // 分支/门店
	SupplierCode       string         `gorm:"index;not null" json:"supplier_code"`          // 供应商
	AddressType        string         `json:"address_type"`                                 // 抬头地址类型
	Currency           string         `gorm:"not null" json:"currency"`                     // 单据币种
	MoveDate           time.Time      `gorm:"index;not null" json:"move_date"`              // 业务日期
	Status             string         `gorm:"index;not null;default:'draft'" json:"status"` // draft / validated
	PartnerRef         string         `gorm:"index" json:"partner_ref"`                     // 对方参考号（合同编号）
	Comment            string         `json:"comment"`                                      // 备注
	GeneralDiscountPct Amount         `gorm:"type:decimal(8,4);not null;default:0" json:"general_discount_pct"`
	CancelOfID         *uint          `gorm:"index" json:"cancel_of_id,omitempty"` // 被冲销单据
	ValidatedAt        *time.Time     `json:"validated_at"`
	CreatedAt          time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`

	Lines []PurchaseLine `gorm:"foreignKey:DocumentID" json:"lines,omitempty"`
}

// TableName 指定表名
func (PurchaseDocument) TableName() string {
	return "purchase_documents"
}

// PurchaseLine 采购/入账单据行
type PurchaseLine struct {
	ID               uint   `gorm:"primarykey" json:"id"`
	DocumentID       uint   `gorm:"index;not null" json:"document_id"`
	ArticleCode      string `gorm:"index;not null" json:"article_code"`
	Variant          string `gorm:"not null;default:'0'" json:"variant"`
	Unit             string `json:"unit"` // 交易计量单位
	Quantity         Amount `gorm:"type:decimal(20,6);not null;default:0" json:"quantity"`
	Price            Money  `gorm:"type:decimal(20,2);not null;default:0" json:"price"`      // 单价（单据币种）
	NetAmount        Money  `gorm:"type:decimal(20,2);not null;default:0" json:"net_amount"` // 行净额（未扣整单折扣）
	RebateContractID *uint  `gorm:"index" json:"rebate_contract_id,omitempty"`               // 返利引擎产生的行回填合同
}

// TableName 指定表名
func (PurchaseLine) TableName() string {
	return "purchase_lines"
}
