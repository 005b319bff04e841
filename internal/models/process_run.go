package models

import "time"

// ProcessRun 结算批次运行日志
type ProcessRun struct {
	ID            uint       `gorm:"primarykey" json:"id"`
	RunID         string     `gorm:"uniqueIndex;size:64;not null" json:"run_id"`
	ProcessDate   time.Time  `gorm:"index;not null" json:"process_date"`
	Status        string     `gorm:"size:16;not null;default:'running'" json:"status"`
	StartedAt     time.Time  `gorm:"not null" json:"started_at"`
	FinishedAt    *time.Time `json:"finished_at,omitempty"`
	TotalCount    int        `gorm:"not null;default:0" json:"total_count"`
	SuccessCount  int        `gorm:"not null;default:0" json:"success_count"`
	FailedCount   int        `gorm:"not null;default:0" json:"failed_count"`
	SupplierScope string     `gorm:"size:512" json:"supplier_scope"` // 逗号分隔的供应商过滤
	Extra         string     `gorm:"size:512" json:"extra"`

	Entries []ProcessRunEntry `gorm:"foreignKey:RunPK" json:"entries,omitempty"`
}

// TableName 指定表名
func (ProcessRun) TableName() string {
	return "rebate_process_runs"
}

// ProcessRunEntry 单个合同的处理结果
type ProcessRunEntry struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	RunPK      uint      `gorm:"index;not null" json:"run_pk"`
	ContractID uint      `gorm:"index;not null" json:"contract_id"`
	ContractNo string    `gorm:"size:64;not null" json:"contract_no"`
	Status     string    `gorm:"size:16;not null" json:"status"`
	Message    string    `gorm:"size:1024" json:"message"`
	DocumentID *uint     `json:"document_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName 指定表名
func (ProcessRunEntry) TableName() string {
	return "rebate_process_run_entries"
}
