package queue

import (
	"encoding/json"

	"github.com/fanli-next/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskSettlementRun 结算批次任务
	TaskSettlementRun = constants.TaskSettlementRun
)

// SettlementRunPayload 结算批次任务载荷
type SettlementRunPayload struct {
	ProcessDate string   `json:"process_date"` // YYYY-MM-DD
	Suppliers   []string `json:"suppliers,omitempty"`
	Extra       string   `json:"extra,omitempty"`
}

// NewSettlementRunTask 创建结算批次任务
func NewSettlementRunTask(payload SettlementRunPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskSettlementRun, body), nil
}
