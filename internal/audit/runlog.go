package audit

import (
	"strings"
	"time"

	"github.com/fanli-next/internal/constants"
	"github.com/fanli-next/internal/logger"
	"github.com/fanli-next/internal/models"
	"github.com/fanli-next/internal/repository"

	"github.com/google/uuid"
)

// RunLog 结算批次日志：落库 + 镜像到结构化日志。
type RunLog struct {
	runs repository.RunLogRepository
	run  *models.ProcessRun
}

// Begin 开启一次批次运行记录
func Begin(runs repository.RunLogRepository, processDate time.Time, suppliers []string, extra string) (*RunLog, error) {
	run := &models.ProcessRun{
		RunID:         uuid.NewString(),
		ProcessDate:   processDate,
		Status:        constants.RunStatusRunning,
		StartedAt:     time.Now(),
		SupplierScope: strings.Join(suppliers, ","),
		Extra:         extra,
	}
	if err := runs.Create(run); err != nil {
		return nil, err
	}
	logger.Infow("settlement_run_started",
		"run_id", run.RunID, "process_date", processDate.Format("2006-01-02"), "suppliers", run.SupplierScope)
	return &RunLog{runs: runs, run: run}, nil
}

// RunID 批次标识
func (l *RunLog) RunID() string {
	return l.run.RunID
}

// Entry 记录单个合同的处理结果
func (l *RunLog) Entry(contract *models.RebateContract, docID *uint, procErr error) {
	entry := &models.ProcessRunEntry{
		RunPK:      l.run.ID,
		ContractID: contract.ID,
		ContractNo: contract.ContractNo,
		Status:     constants.ResultStatusCommitted,
		DocumentID: docID,
	}
	if procErr != nil {
		entry.Status = constants.ResultStatusFailed
		entry.Message = procErr.Error()
		logger.Errorw("settlement_contract_failed",
			"run_id", l.run.RunID, "contract_no", contract.ContractNo, "error", procErr)
	} else {
		logger.Infow("settlement_contract_committed",
			"run_id", l.run.RunID, "contract_no", contract.ContractNo)
	}
	if err := l.runs.AddEntry(entry); err != nil {
		logger.Errorw("settlement_run_entry_persist_failed",
			"run_id", l.run.RunID, "contract_no", contract.ContractNo, "error", err)
	}
}

// End 收尾批次运行记录
func (l *RunLog) End(total, success, failed int) {
	if err := l.runs.Finish(l.run.ID, constants.RunStatusFinished, total, success, failed, time.Now()); err != nil {
		logger.Errorw("settlement_run_finish_failed", "run_id", l.run.RunID, "error", err)
		return
	}
	logger.Infow("settlement_run_finished",
		"run_id", l.run.RunID, "total", total, "success", success, "failed", failed)
}
