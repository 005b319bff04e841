package models

// SourceRule 采购来源规则表。include 规则之间取并集、exclude 规则之间取并集，
// 最终条件为 include 并集减去 exclude 并集；空字段视为通配。
type SourceRule struct {
	ID             uint   `gorm:"primarykey" json:"id"`
	ContractID     uint   `gorm:"index;not null" json:"contract_id"`
	Exclude        bool   `gorm:"not null;default:false" json:"exclude"` // true: 排除组
	DocType        string `json:"doc_type"`                              // 单据类型
	CompanyCode    string `json:"company_code"`                          // 公司
	BranchCode     string `json:"branch_code"`                           // 分支/门店
	Manufacturer   string `json:"manufacturer"`                          // 制造商
	Classification string `json:"classification"`                        // 商品分类
	Family         string `json:"family"`                                // 商品族
	Brand          string `json:"brand"`                                 // 品牌
	Model          string `json:"model"`                                 // 型号
	RawCond        string `json:"raw_cond"`                              // 自由条件（仅受信配置使用）

	Items []SourceItem `gorm:"foreignKey:RuleID" json:"items,omitempty"` // 商品/规格白名单
}

// TableName 指定表名
func (SourceRule) TableName() string {
	return "rebate_source_rules"
}

// SourceItem 采购来源规则的商品行
type SourceItem struct {
	ID          uint   `gorm:"primarykey" json:"id"`
	RuleID      uint   `gorm:"index;not null" json:"rule_id"`
	ArticleCode string `json:"article_code"`
	Variant     string `json:"variant"`
}

// TableName 指定表名
func (SourceItem) TableName() string {
	return "rebate_source_items"
}
