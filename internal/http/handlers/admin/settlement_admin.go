package admin

import (
	"strconv"
	"strings"

	"github.com/fanli-next/internal/cache"
	"github.com/fanli-next/internal/http/response"
	"github.com/fanli-next/internal/queue"
	"github.com/fanli-next/internal/repository"
	"github.com/fanli-next/internal/settlement"

	"github.com/gin-gonic/gin"
)

// RunSettlementRequest 触发结算批次请求
type RunSettlementRequest struct {
	ProcessDate string   `json:"process_date" binding:"required"`
	Suppliers   []string `json:"suppliers"`
	Extra       string   `json:"extra"`
	Async       *bool    `json:"async"` // 缺省按配置
}

// RunSettlement 触发一次结算批次
func (h *Handler) RunSettlement(c *gin.Context) {
	var req RunSettlementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}
	processDate, err := parseDate(req.ProcessDate)
	if err != nil {
		respondError(c, response.CodeBadRequest, "日期格式错误", err)
		return
	}

	async := h.Config.Settlement.AsyncByDefault
	if req.Async != nil {
		async = *req.Async
	}
	if async && !h.QueueClient.Enabled() {
		requestLog(c).Warnw("settlement_run_async_unavailable_fallback_sync")
		async = false
	}

	acquired, err := cache.AcquireRunLock(c.Request.Context(), h.Config.Settlement.RunLockSeconds)
	if err != nil {
		respondError(c, response.CodeInternal, "获取运行锁失败", err)
		return
	}
	if !acquired {
		respondError(c, response.CodeTooManyRequests, "已有结算批次在运行", nil)
		return
	}

	if async {
		// 锁由 worker 在任务完成后释放
		if err := h.QueueClient.EnqueueSettlementRun(queue.SettlementRunPayload{
			ProcessDate: processDate.Format(dateLayout),
			Suppliers:   req.Suppliers,
			Extra:       req.Extra,
		}); err != nil {
			if unlockErr := cache.ReleaseRunLock(c.Request.Context()); unlockErr != nil {
				requestLog(c).Warnw("settlement_run_unlock_failed", "error", unlockErr)
			}
			respondError(c, response.CodeInternal, "任务入队失败", err)
			return
		}
		response.SuccessWithMsg(c, "结算批次已入队", gin.H{"queued": true})
		return
	}

	defer func() {
		if unlockErr := cache.ReleaseRunLock(c.Request.Context()); unlockErr != nil {
			requestLog(c).Warnw("settlement_run_unlock_failed", "error", unlockErr)
		}
	}()

	runID, err := h.SettlementEngine.Process(c.Request.Context(), settlement.ProcessRequest{
		ProcessDate: processDate,
		Suppliers:   req.Suppliers,
		Extra:       req.Extra,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "结算批次执行失败", err)
		return
	}

	run, err := h.RunLogRepo.GetByRunID(runID)
	if err != nil {
		respondError(c, response.CodeInternal, "查询失败", err)
		return
	}
	response.Success(c, run)
}

// GetSettlementRuns 获取批次运行列表
func (h *Handler) GetSettlementRuns(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	dateFrom, err := parseDateNullable(strings.TrimSpace(c.Query("date_from")))
	if err != nil {
		respondError(c, response.CodeBadRequest, "日期格式错误", err)
		return
	}
	dateTo, err := parseDateNullable(strings.TrimSpace(c.Query("date_to")))
	if err != nil {
		respondError(c, response.CodeBadRequest, "日期格式错误", err)
		return
	}

	runs, total, err := h.RunLogRepo.List(repository.RunListFilter{
		Page:     page,
		PageSize: pageSize,
		Status:   strings.TrimSpace(c.Query("status")),
		DateFrom: dateFrom,
		DateTo:   dateTo,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "查询失败", err)
		return
	}
	response.SuccessWithPage(c, runs, buildPagination(page, pageSize, total))
}

// GetSettlementRun 获取批次运行详情
func (h *Handler) GetSettlementRun(c *gin.Context) {
	runID := strings.TrimSpace(c.Param("run_id"))
	if runID == "" {
		respondError(c, response.CodeBadRequest, "批次标识无效", nil)
		return
	}

	run, err := h.RunLogRepo.GetByRunID(runID)
	if err != nil {
		respondError(c, response.CodeInternal, "查询失败", err)
		return
	}
	if run == nil {
		respondError(c, response.CodeNotFound, "批次不存在", nil)
		return
	}
	response.Success(c, run)
}

// GetSettlementRecords 获取结算记录列表
func (h *Handler) GetSettlementRecords(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	var contractID uint
	if raw := strings.TrimSpace(c.Query("contract_id")); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			respondError(c, response.CodeBadRequest, "合同 ID 无效", nil)
			return
		}
		contractID = uint(parsed)
	}

	var isProvision *bool
	if raw := strings.TrimSpace(c.Query("is_provision")); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			respondError(c, response.CodeBadRequest, "is_provision 参数无效", nil)
			return
		}
		isProvision = &parsed
	}

	periodFrom, err := parseDateNullable(strings.TrimSpace(c.Query("period_from")))
	if err != nil {
		respondError(c, response.CodeBadRequest, "日期格式错误", err)
		return
	}
	periodTo, err := parseDateNullable(strings.TrimSpace(c.Query("period_to")))
	if err != nil {
		respondError(c, response.CodeBadRequest, "日期格式错误", err)
		return
	}

	records, total, err := h.SettlementRepo.List(repository.SettlementListFilter{
		Page:        page,
		PageSize:    pageSize,
		ContractID:  contractID,
		Supplier:    strings.TrimSpace(c.Query("supplier")),
		IsProvision: isProvision,
		PeriodFrom:  periodFrom,
		PeriodTo:    periodTo,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "查询失败", err)
		return
	}
	response.SuccessWithPage(c, records, buildPagination(page, pageSize, total))
}

// GetSettlementRecord 获取结算记录详情
func (h *Handler) GetSettlementRecord(c *gin.Context) {
	rawID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || rawID == 0 {
		respondError(c, response.CodeBadRequest, "记录 ID 无效", nil)
		return
	}

	record, err := h.SettlementRepo.GetByID(uint(rawID))
	if err != nil {
		respondError(c, response.CodeInternal, "查询失败", err)
		return
	}
	if record == nil {
		respondError(c, response.CodeNotFound, "记录不存在", nil)
		return
	}
	response.Success(c, record)
}
