package repository

import "time"

// ContractListFilter 查询返利合同列表的过滤条件
type ContractListFilter struct {
	Page         int
	PageSize     int
	Status       string
	SupplierCode string
	Search       string
}

// ContractScopeFilter 结算批次挑选合同的过滤条件
type ContractScopeFilter struct {
	ProcessDate time.Time
	Suppliers   []string
}

// PurchaseListFilter 查询采购单据列表的过滤条件
type PurchaseListFilter struct {
	Page         int
	PageSize     int
	DocType      string
	SupplierCode string
	Status       string
	DocNo        string
	MoveFrom     *time.Time
	MoveTo       *time.Time
}

// SettlementListFilter 查询结算记录列表的过滤条件
type SettlementListFilter struct {
	Page        int
	PageSize    int
	ContractID  uint
	Supplier    string
	IsProvision *bool
	PeriodFrom  *time.Time
	PeriodTo    *time.Time
}

// RunListFilter 查询批次运行日志列表的过滤条件
type RunListFilter struct {
	Page     int
	PageSize int
	Status   string
	DateFrom *time.Time
	DateTo   *time.Time
}
